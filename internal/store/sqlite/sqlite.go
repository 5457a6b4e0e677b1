// Package sqlite is a local content backend for development and offline
// demos. It speaks the same query descriptors as the hosted backend.
package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	sqlitedriver "modernc.org/sqlite"

	"github.com/bilgisen/breakdown/internal/models"
	"github.com/bilgisen/breakdown/internal/query"
	"github.com/bilgisen/breakdown/internal/store"
)

// foldFunc lower-cases with full Unicode rules. The built-in lower() and
// LIKE only fold ASCII, so searches compare foldFunc(column) against a term
// folded the same way in Go.
const foldFunc = "unicode_lower"

func init() {
	sqlitedriver.MustRegisterDeterministicScalarFunction(foldFunc, 1, unicodeLower)
}

func unicodeLower(_ *sqlitedriver.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}

type Store struct {
	db  *sql.DB
	now func() time.Time
}

func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database dir: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS articles (
			id           TEXT PRIMARY KEY,
			headline     TEXT NOT NULL,
			angle        TEXT NOT NULL DEFAULT '',
			body         TEXT NOT NULL,
			category     TEXT NOT NULL,
			opinion_type TEXT,
			image_url    TEXT,
			created_at   TEXT NOT NULL,
			run_type     TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_articles_created ON articles(created_at DESC, id DESC);
		CREATE INDEX IF NOT EXISTS idx_articles_category ON articles(category);

		CREATE TABLE IF NOT EXISTS comics (
			id         TEXT PRIMARY KEY,
			image_url  TEXT NOT NULL,
			caption    TEXT,
			created_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS submissions (
			id         TEXT PRIMARY KEY,
			name       TEXT,
			email      TEXT,
			body       TEXT NOT NULL CHECK (body <> ''),
			created_at TEXT NOT NULL,
			used       INTEGER NOT NULL DEFAULT 0
		);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

const (
	articleColumns = "id, headline, angle, body, category, opinion_type, image_url, created_at, run_type"
	comicColumns   = "id, image_url, caption, created_at"
)

func (s *Store) Articles(ctx context.Context, q query.Query) ([]models.Article, error) {
	if err := store.CheckResource(q, query.ResourceArticles); err != nil {
		return nil, store.Wrap(q.Resource, "select", err)
	}

	stmt, args, err := buildSelect(q, articleColumns)
	if err != nil {
		return nil, store.Wrap(q.Resource, "select", err)
	}

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, store.Wrap(q.Resource, "select", fmt.Errorf("querying articles: %w", err))
	}
	defer rows.Close()

	var items []models.Article
	for rows.Next() {
		var (
			a           models.Article
			opinionType sql.NullString
			imageURL    sql.NullString
			createdAt   string
		)
		if err := rows.Scan(&a.ID, &a.Headline, &a.Angle, &a.Body, &a.Category, &opinionType, &imageURL, &createdAt, &a.RunType); err != nil {
			return nil, store.Wrap(q.Resource, "select", fmt.Errorf("scanning article: %w", err))
		}
		a.OpinionType = nullable(opinionType)
		a.ImageURL = nullable(imageURL)
		if a.CreatedAt, err = models.ParseSortKey(createdAt); err != nil {
			return nil, store.Wrap(q.Resource, "select", fmt.Errorf("article %s created_at: %w", a.ID, err))
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Wrap(q.Resource, "select", err)
	}
	return items, nil
}

func (s *Store) Comics(ctx context.Context, q query.Query) ([]models.Comic, error) {
	if err := store.CheckResource(q, query.ResourceComics); err != nil {
		return nil, store.Wrap(q.Resource, "select", err)
	}

	stmt, args, err := buildSelect(q, comicColumns)
	if err != nil {
		return nil, store.Wrap(q.Resource, "select", err)
	}

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, store.Wrap(q.Resource, "select", fmt.Errorf("querying comics: %w", err))
	}
	defer rows.Close()

	var items []models.Comic
	for rows.Next() {
		var (
			c         models.Comic
			caption   sql.NullString
			createdAt string
		)
		if err := rows.Scan(&c.ID, &c.ImageURL, &caption, &createdAt); err != nil {
			return nil, store.Wrap(q.Resource, "select", fmt.Errorf("scanning comic: %w", err))
		}
		c.Caption = nullable(caption)
		if c.CreatedAt, err = models.ParseSortKey(createdAt); err != nil {
			return nil, store.Wrap(q.Resource, "select", fmt.Errorf("comic %s created_at: %w", c.ID, err))
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Wrap(q.Resource, "select", err)
	}
	return items, nil
}

func (s *Store) InsertSubmission(ctx context.Context, sub models.NewSubmission) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO submissions (id, name, email, body, created_at, used) VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), sub.Name, sub.Email, sub.Body, models.SortKey(s.now()), sub.Used,
	)
	if err != nil {
		return store.Wrap(query.ResourceSubmissions, "insert", fmt.Errorf("inserting submission: %w", err))
	}
	return nil
}

// Seed upserts fixture rows. It is a development aid; the site itself never
// writes articles or comics.
func (s *Store) Seed(ctx context.Context, articles []models.Article, comics []models.Comic) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	articleStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO articles (`+articleColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			headline = excluded.headline,
			angle = excluded.angle,
			body = excluded.body,
			category = excluded.category,
			opinion_type = excluded.opinion_type,
			image_url = excluded.image_url,
			created_at = excluded.created_at,
			run_type = excluded.run_type
	`)
	if err != nil {
		return err
	}
	defer articleStmt.Close()

	for _, a := range articles {
		if _, err := articleStmt.ExecContext(ctx, a.ID, a.Headline, a.Angle, a.Body, a.Category,
			a.OpinionType, a.ImageURL, models.SortKey(a.CreatedAt), a.RunType); err != nil {
			return fmt.Errorf("seeding article %s: %w", a.ID, err)
		}
	}

	comicStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO comics (`+comicColumns+`)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			image_url = excluded.image_url,
			caption = excluded.caption,
			created_at = excluded.created_at
	`)
	if err != nil {
		return err
	}
	defer comicStmt.Close()

	for _, c := range comics {
		if _, err := comicStmt.ExecContext(ctx, c.ID, c.ImageURL, c.Caption, models.SortKey(c.CreatedAt)); err != nil {
			return fmt.Errorf("seeding comic %s: %w", c.ID, err)
		}
	}

	return tx.Commit()
}

func nullable(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
