package content

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bilgisen/breakdown/internal/models"
	"github.com/bilgisen/breakdown/internal/query"
	"github.com/bilgisen/breakdown/internal/store"
	"github.com/bilgisen/breakdown/internal/store/memstore"
	"github.com/bilgisen/breakdown/internal/submission"
)

var base = time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

func strptr(s string) *string { return &s }

func fixtures() []models.Article {
	var items []models.Article
	for i := 1; i <= 6; i++ {
		items = append(items, models.Article{
			ID:        fmt.Sprintf("A%d", i),
			Headline:  fmt.Sprintf("World story %d", i),
			Body:      "Body.",
			Category:  "World",
			CreatedAt: base.Add(-time.Duration(i) * time.Hour),
		})
	}
	items[0].ImageURL = strptr("images/a1.png")
	return items
}

type failingStore struct {
	calls int
}

func (f *failingStore) Articles(context.Context, query.Query) ([]models.Article, error) {
	f.calls++
	return nil, &store.TransportError{Resource: query.ResourceArticles, Op: "select", Status: 503, Message: "upstream unavailable"}
}

func (f *failingStore) Comics(context.Context, query.Query) ([]models.Comic, error) {
	f.calls++
	return nil, errors.New("dial tcp: connection refused")
}

func (f *failingStore) InsertSubmission(context.Context, models.NewSubmission) error {
	f.calls++
	return &store.TransportError{Resource: query.ResourceSubmissions, Op: "insert", Message: "insert failed"}
}

type prefixResolver struct{}

func (prefixResolver) Resolve(_ context.Context, ref string) string { return "https://img.example.com/" + ref }

func TestFetchArticlesEmptyOnError(t *testing.T) {
	f := &failingStore{}
	s := NewService(f)

	got := s.FetchArticles(context.Background(), query.Options{Category: "World"})
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Equal(t, 1, f.calls)

	_, err := s.ListArticles(context.Background(), query.Options{})
	var te *store.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 503, te.Status)
}

func TestFetchArticleNilOnErrorAndMissing(t *testing.T) {
	assert.Nil(t, NewService(&failingStore{}).FetchArticle(context.Background(), "A1"))

	s := NewService(memstore.New(fixtures(), nil))
	assert.Nil(t, s.FetchArticle(context.Background(), "nope"))
	assert.Nil(t, s.FetchArticle(context.Background(), "  "))

	_, err := s.GetArticle(context.Background(), "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)

	a := s.FetchArticle(context.Background(), "A3")
	require.NotNil(t, a)
	assert.Equal(t, "World story 3", a.Headline)
}

func TestFetchRelatedArticles(t *testing.T) {
	s := NewService(memstore.New(fixtures(), nil))

	got := s.FetchRelatedArticles(context.Background(), "World", "A1", 5)
	require.Len(t, got, 5)
	for i, a := range got {
		assert.Equal(t, fmt.Sprintf("A%d", i+2), a.ID)
	}

	assert.Empty(t, NewService(&failingStore{}).FetchRelatedArticles(context.Background(), "World", "A1", 5))
}

func TestFetchComics(t *testing.T) {
	s := NewService(memstore.New(nil, []models.Comic{
		{ID: "c1", ImageURL: "comics/c1.png", CreatedAt: base.Add(-time.Hour)},
		{ID: "c2", ImageURL: "comics/c2.png", CreatedAt: base},
	}), WithResolver(prefixResolver{}))

	got := s.FetchComics(context.Background())
	require.Len(t, got, 2)
	assert.Equal(t, "c2", got[0].ID)
	assert.Equal(t, "https://img.example.com/comics/c2.png", got[0].ImageURL)

	empty := NewService(&failingStore{}).FetchComics(context.Background())
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestImageURLsResolved(t *testing.T) {
	s := NewService(memstore.New(fixtures(), nil), WithResolver(prefixResolver{}))

	got := s.FetchArticles(context.Background(), query.Options{Limit: 2})
	require.Len(t, got, 2)
	require.NotNil(t, got[0].ImageURL)
	assert.Equal(t, "https://img.example.com/images/a1.png", *got[0].ImageURL)
	assert.Nil(t, got[1].ImageURL)
}

func TestStoreCallsCarryDeadline(t *testing.T) {
	var deadline time.Time
	st := &deadlineStore{seen: &deadline}
	s := NewService(st, WithTimeout(50*time.Millisecond))

	start := time.Now()
	s.FetchArticles(context.Background(), query.Options{})
	require.False(t, deadline.IsZero())
	assert.WithinDuration(t, start.Add(50*time.Millisecond), deadline, 40*time.Millisecond)
}

type deadlineStore struct {
	failingStore
	seen *time.Time
}

func (d *deadlineStore) Articles(ctx context.Context, _ query.Query) ([]models.Article, error) {
	*d.seen, _ = ctx.Deadline()
	return nil, nil
}

func TestSubmitOpinion(t *testing.T) {
	mem := memstore.New(nil, nil)
	s := NewService(mem)

	res := s.SubmitOpinion(context.Background(), submission.Input{Body: ""})
	assert.False(t, res.Success)
	assert.Empty(t, mem.Submissions())

	res = s.SubmitOpinion(context.Background(), submission.Input{Body: "Dear Gabby"})
	assert.True(t, res.Success)
	assert.Len(t, mem.Submissions(), 1)

	res = NewService(&failingStore{}).SubmitOpinion(context.Background(), submission.Input{Body: "Dear Gabby"})
	assert.False(t, res.Success)
	assert.Equal(t, "insert failed", res.Error)
}
