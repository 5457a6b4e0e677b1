package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bilgisen/breakdown/internal/bootstrap"
	"github.com/bilgisen/breakdown/internal/logger"
	"github.com/bilgisen/breakdown/internal/models"
)

var flagFixtures string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load fixture articles and comics into a local store",
	Long:  "seed fills the sqlite or file store from a YAML fixture file. Records with an existing id are replaced.",
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().StringVarP(&flagFixtures, "file", "f", "fixtures.yaml", "fixture file")
}

type fixtureFile struct {
	Articles []articleFixture `yaml:"articles"`
	Comics   []comicFixture   `yaml:"comics"`
}

type articleFixture struct {
	ID          string    `yaml:"id"`
	Headline    string    `yaml:"headline"`
	Angle       string    `yaml:"angle"`
	Body        string    `yaml:"body"`
	Category    string    `yaml:"category"`
	OpinionType string    `yaml:"opinion_type"`
	ImageURL    string    `yaml:"image_url"`
	CreatedAt   time.Time `yaml:"created_at"`
	RunType     string    `yaml:"run_type"`
}

type comicFixture struct {
	ID        string    `yaml:"id"`
	ImageURL  string    `yaml:"image_url"`
	Caption   string    `yaml:"caption"`
	CreatedAt time.Time `yaml:"created_at"`
}

// loadFixtures parses and checks a fixture file.
func loadFixtures(path string) ([]models.Article, []models.Comic, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading fixtures: %w", err)
	}

	var f fixtureFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, nil, fmt.Errorf("parsing fixtures: %w", err)
	}

	articles := make([]models.Article, 0, len(f.Articles))
	for i, a := range f.Articles {
		if a.ID == "" || a.Headline == "" {
			return nil, nil, fmt.Errorf("article %d: id and headline are required", i)
		}
		if !models.Category(a.Category).Valid() || a.Category == string(models.CategoryAll) {
			return nil, nil, fmt.Errorf("article %s: unknown category %q", a.ID, a.Category)
		}
		if a.OpinionType != "" && (!models.OpinionType(a.OpinionType).Valid() || a.OpinionType == string(models.OpinionAll)) {
			return nil, nil, fmt.Errorf("article %s: unknown opinion type %q", a.ID, a.OpinionType)
		}
		if a.CreatedAt.IsZero() {
			return nil, nil, fmt.Errorf("article %s: created_at is required", a.ID)
		}
		articles = append(articles, models.Article{
			ID:          a.ID,
			Headline:    a.Headline,
			Angle:       a.Angle,
			Body:        a.Body,
			Category:    a.Category,
			OpinionType: optional(a.OpinionType),
			ImageURL:    optional(a.ImageURL),
			CreatedAt:   a.CreatedAt.UTC(),
			RunType:     a.RunType,
		})
	}

	comics := make([]models.Comic, 0, len(f.Comics))
	for i, c := range f.Comics {
		if c.ID == "" || c.ImageURL == "" || c.CreatedAt.IsZero() {
			return nil, nil, fmt.Errorf("comic %d: id, image_url and created_at are required", i)
		}
		comics = append(comics, models.Comic{
			ID:        c.ID,
			ImageURL:  c.ImageURL,
			Caption:   optional(c.Caption),
			CreatedAt: c.CreatedAt.UTC(),
		})
	}
	return articles, comics, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := setup("stderr")
	if err != nil {
		return err
	}

	articles, comics, err := loadFixtures(flagFixtures)
	if err != nil {
		return err
	}

	seeder, closeStore, err := bootstrap.OpenSeeder(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := seeder.Seed(cmd.Context(), articles, comics); err != nil {
		return fmt.Errorf("seeding %s store: %w", cfg.StoreDriver, err)
	}

	logger.Get().Info().
		Str("store", cfg.StoreDriver).
		Int("articles", len(articles)).
		Int("comics", len(comics)).
		Msg("Fixtures loaded")
	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d articles and %d comics\n", len(articles), len(comics))
	return nil
}
