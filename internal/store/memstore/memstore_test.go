package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bilgisen/breakdown/internal/models"
	"github.com/bilgisen/breakdown/internal/query"
	"github.com/bilgisen/breakdown/internal/store"
)

func TestArticlesRejectsWrongResource(t *testing.T) {
	s := New(nil, nil)
	_, err := s.Articles(context.Background(), query.Comics())

	var te *store.TransportError
	require.ErrorAs(t, err, &te)
}

func TestInsertSubmissionEachCallAddsRow(t *testing.T) {
	s := New(nil, nil)
	sub := models.NewSubmission{Body: "Dear Gabby, my cat files my taxes."}

	require.NoError(t, s.InsertSubmission(context.Background(), sub))
	require.NoError(t, s.InsertSubmission(context.Background(), sub))

	got := s.Submissions()
	require.Len(t, got, 2)
	assert.NotEqual(t, got[0].ID, got[1].ID)
	assert.False(t, got[0].Used)
}

func TestComicsNewestFirst(t *testing.T) {
	now := time.Now()
	s := New(nil, []models.Comic{
		{ID: "old", ImageURL: "https://cdn.example.com/old.png", CreatedAt: now.Add(-time.Hour)},
		{ID: "new", ImageURL: "https://cdn.example.com/new.png", CreatedAt: now},
	})

	got, err := s.Comics(context.Background(), query.Comics())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "new", got[0].ID)
}
