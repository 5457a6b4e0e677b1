// Package memstore keeps content in memory. It backs tests and demos and
// evaluates queries with the same semantics as the SQL adapters.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bilgisen/breakdown/internal/models"
	"github.com/bilgisen/breakdown/internal/query"
	"github.com/bilgisen/breakdown/internal/store"
)

type Store struct {
	mu          sync.RWMutex
	articles    []models.Article
	comics      []models.Comic
	submissions []models.Submission
	now         func() time.Time
}

func New(articles []models.Article, comics []models.Comic) *Store {
	return &Store{
		articles: append([]models.Article(nil), articles...),
		comics:   append([]models.Comic(nil), comics...),
		now:      time.Now,
	}
}

// AddArticles appends rows, as the generation pipeline would.
func (s *Store) AddArticles(articles ...models.Article) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.articles = append(s.articles, articles...)
}

func (s *Store) Articles(ctx context.Context, q query.Query) ([]models.Article, error) {
	if err := store.CheckResource(q, query.ResourceArticles); err != nil {
		return nil, store.Wrap(q.Resource, "select", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, store.Wrap(q.Resource, "select", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return query.Eval(q, s.articles), nil
}

func (s *Store) Comics(ctx context.Context, q query.Query) ([]models.Comic, error) {
	if err := store.CheckResource(q, query.ResourceComics); err != nil {
		return nil, store.Wrap(q.Resource, "select", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, store.Wrap(q.Resource, "select", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return query.Eval(q, s.comics), nil
}

func (s *Store) InsertSubmission(ctx context.Context, sub models.NewSubmission) error {
	if err := ctx.Err(); err != nil {
		return store.Wrap(query.ResourceSubmissions, "insert", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submissions = append(s.submissions, models.Submission{
		ID:        uuid.NewString(),
		Name:      sub.Name,
		Email:     sub.Email,
		Body:      sub.Body,
		CreatedAt: s.now(),
		Used:      sub.Used,
	})
	return nil
}

// Submissions returns a copy of every inserted submission.
func (s *Store) Submissions() []models.Submission {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Submission(nil), s.submissions...)
}
