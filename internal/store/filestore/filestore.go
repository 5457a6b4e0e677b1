// Package filestore serves content from JSON files on disk: one file per
// article or comic, and one file per submission under dated directories.
package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bilgisen/breakdown/internal/models"
	"github.com/bilgisen/breakdown/internal/query"
	"github.com/bilgisen/breakdown/internal/store"
)

type Storage struct {
	basePath string
	mu       sync.RWMutex
	now      func() time.Time
}

func NewStorage(basePath string) (*Storage, error) {
	for _, dir := range []query.Resource{query.ResourceArticles, query.ResourceComics, query.ResourceSubmissions} {
		if err := os.MkdirAll(filepath.Join(basePath, string(dir)), 0755); err != nil {
			return nil, fmt.Errorf("failed to create %s directory: %w", dir, err)
		}
	}

	return &Storage{
		basePath: basePath,
		now:      time.Now,
	}, nil
}

// Articles reads every article file and evaluates q over them.
func (s *Storage) Articles(ctx context.Context, q query.Query) ([]models.Article, error) {
	if err := store.CheckResource(q, query.ResourceArticles); err != nil {
		return nil, store.Wrap(q.Resource, "select", err)
	}

	var items []models.Article
	if err := s.load(ctx, query.ResourceArticles, func(data []byte) error {
		var a models.Article
		if err := json.Unmarshal(data, &a); err != nil {
			return err
		}
		items = append(items, a)
		return nil
	}); err != nil {
		return nil, store.Wrap(q.Resource, "select", err)
	}

	return query.Eval(q, items), nil
}

// Comics reads every comic file and evaluates q over them.
func (s *Storage) Comics(ctx context.Context, q query.Query) ([]models.Comic, error) {
	if err := store.CheckResource(q, query.ResourceComics); err != nil {
		return nil, store.Wrap(q.Resource, "select", err)
	}

	var items []models.Comic
	if err := s.load(ctx, query.ResourceComics, func(data []byte) error {
		var c models.Comic
		if err := json.Unmarshal(data, &c); err != nil {
			return err
		}
		items = append(items, c)
		return nil
	}); err != nil {
		return nil, store.Wrap(q.Resource, "select", err)
	}

	return query.Eval(q, items), nil
}

// InsertSubmission writes the submission to submissions/YYYY/MM/DD.
func (s *Storage) InsertSubmission(ctx context.Context, sub models.NewSubmission) error {
	select {
	case <-ctx.Done():
		return store.Wrap(query.ResourceSubmissions, "insert", ctx.Err())
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	row := models.Submission{
		ID:        uuid.NewString(),
		Name:      sub.Name,
		Email:     sub.Email,
		Body:      sub.Body,
		CreatedAt: now,
		Used:      sub.Used,
	}

	datePath := filepath.Join(s.basePath, string(query.ResourceSubmissions), now.Format("2006/01/02"))
	if err := os.MkdirAll(datePath, 0755); err != nil {
		return store.Wrap(query.ResourceSubmissions, "insert", fmt.Errorf("failed to create date directory: %w", err))
	}

	data, err := json.MarshalIndent(row, "", "  ")
	if err != nil {
		return store.Wrap(query.ResourceSubmissions, "insert", fmt.Errorf("failed to marshal submission: %w", err))
	}

	filename := fmt.Sprintf("%d_%s.json", now.Unix(), row.ID)
	if err := os.WriteFile(filepath.Join(datePath, filename), data, 0644); err != nil {
		return store.Wrap(query.ResourceSubmissions, "insert", fmt.Errorf("failed to write submission file: %w", err))
	}
	return nil
}

// Seed writes fixture records, one file per id. The site itself never calls
// it; it exists for seeding a local data directory.
func (s *Storage) Seed(ctx context.Context, articles []models.Article, comics []models.Comic) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	write := func(resource query.Resource, id string, v interface{}) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal %s %s: %w", resource, id, err)
		}
		path := filepath.Join(s.basePath, string(resource), id+".json")
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		return nil
	}

	for _, a := range articles {
		if err := write(query.ResourceArticles, a.ID, a); err != nil {
			return err
		}
	}
	for _, c := range comics {
		if err := write(query.ResourceComics, c.ID, c); err != nil {
			return err
		}
	}
	return nil
}

func (s *Storage) load(ctx context.Context, resource query.Resource, decode func([]byte) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	root := filepath.Join(s.basePath, string(resource))
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", path, err)
		}
		if err := decode(data); err != nil {
			return fmt.Errorf("failed to decode %s: %w", path, err)
		}
		return nil
	})
}
