// Package content is the site's data access layer: every read and the one
// write go through a Service built around an explicit store.
package content

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bilgisen/breakdown/internal/logger"
	"github.com/bilgisen/breakdown/internal/media"
	"github.com/bilgisen/breakdown/internal/models"
	"github.com/bilgisen/breakdown/internal/query"
	"github.com/bilgisen/breakdown/internal/store"
	"github.com/bilgisen/breakdown/internal/submission"
)

// DefaultTimeout bounds a single store call when none is configured.
const DefaultTimeout = 10 * time.Second

type Service struct {
	store    store.Store
	media    media.Resolver
	timeout  time.Duration
	pipeline *submission.Pipeline
}

type Option func(*Service)

// WithResolver sets how image references are turned into URLs.
func WithResolver(r media.Resolver) Option {
	return func(s *Service) { s.media = r }
}

// WithTimeout bounds every store call.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func NewService(st store.Store, opts ...Option) *Service {
	s := &Service{
		store:   st,
		media:   media.Passthrough{},
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.pipeline = submission.NewPipeline(st, s.timeout)
	return s
}

// ListArticles returns one window of articles or the store's error.
func (s *Service) ListArticles(ctx context.Context, opts query.Options) ([]models.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	q := query.Articles(opts)
	items, err := s.store.Articles(ctx, q)
	if err != nil {
		return nil, store.Wrap(q.Resource, "select", err)
	}
	return s.resolveArticles(ctx, items), nil
}

// FetchArticles is ListArticles with errors logged and replaced by an
// empty list.
func (s *Service) FetchArticles(ctx context.Context, opts query.Options) []models.Article {
	items, err := s.ListArticles(ctx, opts)
	if err != nil {
		log := logger.Component("content")
		log.Error().Err(err).
			Str("category", opts.Category).
			Str("opinion_type", opts.OpinionType).
			Int("offset", opts.Offset).
			Msg("Error fetching articles")
		return []models.Article{}
	}
	return items
}

// GetArticle looks up one article. A missing id yields store.ErrNotFound.
func (s *Service) GetArticle(ctx context.Context, id string) (*models.Article, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, store.ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	q := query.Article(id)
	items, err := s.store.Articles(ctx, q)
	if err != nil {
		return nil, store.Wrap(q.Resource, "select", err)
	}
	if len(items) == 0 {
		return nil, store.ErrNotFound
	}

	a := s.resolveArticles(ctx, items[:1])[0]
	return &a, nil
}

// FetchArticle returns the article or nil when it is missing or the store
// failed.
func (s *Service) FetchArticle(ctx context.Context, id string) *models.Article {
	a, err := s.GetArticle(ctx, id)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log := logger.Component("content")
			log.Error().Err(err).Str("id", id).Msg("Error fetching article")
		}
		return nil
	}
	return a
}

// ListRelatedArticles returns the newest articles in category other than
// excludeID.
func (s *Service) ListRelatedArticles(ctx context.Context, category, excludeID string, limit int) ([]models.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	q := query.Related(category, excludeID, limit)
	items, err := s.store.Articles(ctx, q)
	if err != nil {
		return nil, store.Wrap(q.Resource, "select", err)
	}
	return s.resolveArticles(ctx, items), nil
}

func (s *Service) FetchRelatedArticles(ctx context.Context, category, excludeID string, limit int) []models.Article {
	items, err := s.ListRelatedArticles(ctx, category, excludeID, limit)
	if err != nil {
		log := logger.Component("content")
		log.Error().Err(err).Str("category", category).Str("exclude_id", excludeID).Msg("Error fetching related articles")
		return []models.Article{}
	}
	return items
}

// ListComics returns every comic, newest first.
func (s *Service) ListComics(ctx context.Context) ([]models.Comic, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	q := query.Comics()
	items, err := s.store.Comics(ctx, q)
	if err != nil {
		return nil, store.Wrap(q.Resource, "select", err)
	}
	if items == nil {
		items = []models.Comic{}
	}
	for i := range items {
		items[i].ImageURL = s.media.Resolve(ctx, items[i].ImageURL)
	}
	return items, nil
}

func (s *Service) FetchComics(ctx context.Context) []models.Comic {
	items, err := s.ListComics(ctx)
	if err != nil {
		log := logger.Component("content")
		log.Error().Err(err).Msg("Error fetching comics")
		return []models.Comic{}
	}
	return items
}

// SubmitOpinion validates and stores a reader submission.
func (s *Service) SubmitOpinion(ctx context.Context, in submission.Input) submission.Result {
	return s.pipeline.Submit(ctx, in)
}

func (s *Service) resolveArticles(ctx context.Context, items []models.Article) []models.Article {
	if items == nil {
		return []models.Article{}
	}
	for i := range items {
		if items[i].ImageURL == nil {
			continue
		}
		resolved := s.media.Resolve(ctx, *items[i].ImageURL)
		items[i].ImageURL = &resolved
	}
	return items
}
