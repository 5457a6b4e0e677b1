package filestore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bilgisen/breakdown/internal/models"
	"github.com/bilgisen/breakdown/internal/query"
	"github.com/bilgisen/breakdown/internal/store"
)

func TestPutAndQuery(t *testing.T) {
	s, err := NewStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, s.Seed(ctx, []models.Article{
		{ID: "w1", Headline: "Older", Category: "World", CreatedAt: now.Add(-time.Hour)},
		{ID: "w2", Headline: "Newer", Category: "World", CreatedAt: now},
		{ID: "s1", Headline: "Sports", Category: "Sports", CreatedAt: now},
	}, []models.Comic{
		{ID: "c1", ImageURL: "https://cdn.example.com/c1.png", CreatedAt: now},
	}))

	got, err := s.Articles(ctx, query.Articles(query.Options{Category: "World"}))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "w2", got[0].ID)
	assert.Equal(t, "w1", got[1].ID)

	comics, err := s.Comics(ctx, query.Comics())
	require.NoError(t, err)
	assert.Len(t, comics, 1)
}

func TestCorruptFileIsTransportError(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStorage(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "articles", "bad.json"), []byte("{"), 0644))

	_, err = s.Articles(context.Background(), query.Articles(query.Options{}))
	var te *store.TransportError
	require.ErrorAs(t, err, &te)
}

func TestInsertSubmissionWritesDatedFile(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStorage(dir)
	require.NoError(t, err)
	s.now = func() time.Time { return time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC) }

	require.NoError(t, s.InsertSubmission(context.Background(), models.NewSubmission{Body: "Dear Guy, what is a wrench?"}))

	matches, err := filepath.Glob(filepath.Join(dir, "submissions", "2024", "03", "09", "*.json"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	var row models.Submission
	require.NoError(t, json.Unmarshal(data, &row))
	assert.NotEmpty(t, row.ID)
	assert.Nil(t, row.Name)
	assert.False(t, row.Used)
}

func TestCancelledContext(t *testing.T) {
	s, err := NewStorage(t.TempDir())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.Articles(ctx, query.Articles(query.Options{}))
	assert.ErrorIs(t, err, context.Canceled)
}
