package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArticleNullableFields(t *testing.T) {
	raw := `{
		"id": "a1",
		"headline": "Town Council Votes To Table Discussion Of Table",
		"angle": "",
		"body": "First.\n\nSecond.",
		"category": "National",
		"opinion_type": null,
		"image_url": null,
		"created_at": "2024-03-05T10:00:00+00:00",
		"run_type": "scheduled"
	}`

	var a Article
	require.NoError(t, json.Unmarshal([]byte(raw), &a))

	assert.Nil(t, a.OpinionType)
	assert.Nil(t, a.ImageURL)
	assert.Equal(t, time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC), a.CreatedAt.UTC())

	_, ok := a.Field("opinion_type")
	assert.False(t, ok, "NULL opinion_type must not read as a value")

	data, err := json.Marshal(a)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Contains(t, out, "opinion_type")
	assert.Nil(t, out["opinion_type"])
}

func TestSortKeyOrdersChronologically(t *testing.T) {
	early := time.Date(2024, 2, 29, 22, 59, 59, 5, time.UTC)
	late := time.Date(2024, 3, 1, 0, 0, 0, 0, time.FixedZone("CET", 3600))

	assert.Less(t, SortKey(late.Add(-2*time.Hour)), SortKey(late))
	assert.Less(t, SortKey(early), SortKey(late))
}

func TestOpinionTypeLabel(t *testing.T) {
	assert.Equal(t, "Dear Gabby", OpinionDearGabby.Label())
	assert.Equal(t, "Guy's World", OpinionGuysWorld.Label())
	assert.Equal(t, "mailbag", OpinionType("mailbag").Label())
	assert.True(t, CategoryAll.Valid())
	assert.False(t, Category("Weather").Valid())
}
