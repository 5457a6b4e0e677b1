package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bilgisen/breakdown/internal/models"
	"github.com/bilgisen/breakdown/internal/query"
	"github.com/bilgisen/breakdown/internal/store"
)

func testDB(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "breakdown.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

var base = time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

func seedArticles(t *testing.T, s *Store, category, prefix string, n int) {
	t.Helper()
	var items []models.Article
	for i := 1; i <= n; i++ {
		items = append(items, models.Article{
			ID:        fmt.Sprintf("%s%d", prefix, i),
			Headline:  fmt.Sprintf("%s story %d", category, i),
			Body:      "Paragraph one.\n\nParagraph two.",
			Category:  category,
			CreatedAt: base.Add(-time.Duration(i) * time.Hour),
			RunType:   "fixture",
		})
	}
	require.NoError(t, s.Seed(context.Background(), items, nil))
}

func ids(items []models.Article) []string {
	out := make([]string, len(items))
	for i, a := range items {
		out[i] = a.ID
	}
	return out
}

func TestSportsWindows(t *testing.T) {
	s := testDB(t)
	seedArticles(t, s, "Sports", "D", 5)
	seedArticles(t, s, "World", "W", 3)
	ctx := context.Background()

	page, err := s.Articles(ctx, query.Articles(query.Options{Category: "Sports", Limit: 2}))
	require.NoError(t, err)
	assert.Equal(t, []string{"D1", "D2"}, ids(page))

	page, err = s.Articles(ctx, query.Articles(query.Options{Category: "Sports", Limit: 2, Offset: 2}))
	require.NoError(t, err)
	assert.Equal(t, []string{"D3", "D4"}, ids(page))

	page, err = s.Articles(ctx, query.Articles(query.Options{Category: "Sports", Limit: 2, Offset: 4}))
	require.NoError(t, err)
	assert.Equal(t, []string{"D5"}, ids(page))
	assert.True(t, page[0].CreatedAt.Equal(base.Add(-5*time.Hour)))
}

func TestRelated(t *testing.T) {
	s := testDB(t)
	seedArticles(t, s, "World", "A", 6)
	seedArticles(t, s, "Sports", "S", 2)

	got, err := s.Articles(context.Background(), query.Related("World", "A1", 5))
	require.NoError(t, err)
	assert.Equal(t, []string{"A2", "A3", "A4", "A5", "A6"}, ids(got))
}

func TestSearchTreatsWildcardsLiterally(t *testing.T) {
	s := testDB(t)
	gabby := "dear_gabby"
	require.NoError(t, s.Seed(context.Background(), []models.Article{
		{ID: "a", Headline: "Store Offers 100% Off Nothing", Body: "x", Category: "National", CreatedAt: base},
		{ID: "b", Headline: "1000 Percent", Body: "the MAYOR said", Category: "National", CreatedAt: base.Add(-time.Hour)},
		{ID: "c", Headline: "Ask Gabby", Body: "y", Category: "Opinion", OpinionType: &gabby, CreatedAt: base.Add(-2 * time.Hour)},
	}, nil))
	ctx := context.Background()

	got, err := s.Articles(ctx, query.Articles(query.Options{Search: "100%"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(got))

	got, err = s.Articles(ctx, query.Articles(query.Options{Search: "mayor"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids(got))

	got, err = s.Articles(ctx, query.Articles(query.Options{Search: "1_0"}))
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = s.Articles(ctx, query.Articles(query.Options{Category: "Opinion", OpinionType: "dear_gabby"}))
	require.NoError(t, err)
	require.Equal(t, []string{"c"}, ids(got))
	require.NotNil(t, got[0].OpinionType)
	assert.Equal(t, "dear_gabby", *got[0].OpinionType)
}

func TestSearchFoldsNonASCII(t *testing.T) {
	s := testDB(t)
	articles := []models.Article{
		{ID: "a", Headline: "ÉCOLE STRIKE", Body: "Teachers walk out", Category: "World", CreatedAt: base},
		{ID: "b", Headline: "Local Man", Body: "ÜBER DRIVER RATES HIMSELF", Category: "National", CreatedAt: base.Add(-time.Hour)},
		{ID: "c", Headline: "ecole", Body: "plain ascii", Category: "World", CreatedAt: base.Add(-2 * time.Hour)},
	}
	require.NoError(t, s.Seed(context.Background(), articles, nil))

	for _, term := range []string{"école", "École", "über driver", "ÉCOLE"} {
		q := query.Articles(query.Options{Search: term})
		got, err := s.Articles(context.Background(), q)
		require.NoError(t, err)
		assert.Equal(t, ids(query.Eval(q, articles)), ids(got), term)
		assert.NotEmpty(t, got, term)
	}
}

func TestArticleLookup(t *testing.T) {
	s := testDB(t)
	seedArticles(t, s, "Lifestyle", "L", 2)

	got, err := s.Articles(context.Background(), query.Article("L2"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].ImageURL)

	got, err = s.Articles(context.Background(), query.Article("missing"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestComics(t *testing.T) {
	s := testDB(t)
	caption := "Tuesday, again."
	require.NoError(t, s.Seed(context.Background(), nil, []models.Comic{
		{ID: "c1", ImageURL: "comics/c1.png", CreatedAt: base.Add(-time.Hour)},
		{ID: "c2", ImageURL: "comics/c2.png", Caption: &caption, CreatedAt: base},
	}))

	got, err := s.Comics(context.Background(), query.Comics())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c2", got[0].ID)
	require.NotNil(t, got[0].Caption)
	assert.Nil(t, got[1].Caption)
}

func TestInsertSubmission(t *testing.T) {
	s := testDB(t)
	ctx := context.Background()
	email := "reader@example.com"

	require.NoError(t, s.InsertSubmission(ctx, models.NewSubmission{Email: &email, Body: "Why do ducks?"}))
	require.NoError(t, s.InsertSubmission(ctx, models.NewSubmission{Email: &email, Body: "Why do ducks?"}))

	var count, used int
	var name *string
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*), SUM(used) FROM submissions`).Scan(&count, &used))
	assert.Equal(t, 2, count)
	assert.Equal(t, 0, used)
	require.NoError(t, s.db.QueryRow(`SELECT name FROM submissions LIMIT 1`).Scan(&name))
	assert.Nil(t, name)

	err := s.InsertSubmission(ctx, models.NewSubmission{Body: ""})
	var te *store.TransportError
	assert.ErrorAs(t, err, &te)
}

func TestUnknownColumnRejected(t *testing.T) {
	s := testDB(t)
	q := query.Query{
		Resource: query.ResourceArticles,
		Filters:  []query.Filter{query.Eq{Field: "1=1; DROP TABLE articles; --", Value: "x"}},
	}
	_, err := s.Articles(context.Background(), q)
	var te *store.TransportError
	require.ErrorAs(t, err, &te)
}
