package api

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/bilgisen/breakdown/internal/cache"
	"github.com/bilgisen/breakdown/internal/config"
	"github.com/bilgisen/breakdown/internal/content"
	"github.com/bilgisen/breakdown/internal/logger"
	"github.com/bilgisen/breakdown/internal/middleware"
	"github.com/bilgisen/breakdown/internal/models"
	"github.com/bilgisen/breakdown/internal/pager"
	"github.com/bilgisen/breakdown/internal/present"
	"github.com/bilgisen/breakdown/internal/query"
	"github.com/bilgisen/breakdown/internal/store"
	"github.com/bilgisen/breakdown/internal/submission"
	"github.com/bilgisen/breakdown/internal/utils"
)

// Version is reported by the health check.
var Version = "dev"

type Handlers struct {
	config  *config.Config
	content *content.Service
	feeds   *pager.Registry
	guard   cache.Guard
	format  *present.Formatter
}

func NewHandlers(cfg *config.Config, svc *content.Service, feeds *pager.Registry, guard cache.Guard) *Handlers {
	return &Handlers{
		config:  cfg,
		content: svc,
		feeds:   feeds,
		guard:   guard,
		format:  present.NewFormatter(cfg.Location()),
	}
}

// ArticlesQuery is the query string of GET /articles.
type ArticlesQuery struct {
	Category    string `query:"category" validate:"omitempty,category"`
	OpinionType string `query:"opinion_type" validate:"omitempty,opinion_type"`
	Search      string `query:"search" validate:"max=500"`
	Limit       int    `query:"limit" validate:"gte=0"`
	Offset      int    `query:"offset" validate:"gte=0"`
}

// LimitQuery is the query string of GET /articles/:id/related.
type LimitQuery struct {
	Limit int `query:"limit" validate:"gte=0"`
}

// FeedRequest sets the filters of a feed.
type FeedRequest struct {
	Category    string `json:"category" form:"category" validate:"omitempty,category"`
	OpinionType string `json:"opinion_type" form:"opinion_type" validate:"omitempty,opinion_type"`
	Search      string `json:"search" form:"search" validate:"max=500"`
}

// filters copies the request values; a feed keeps them after the request
// buffer is reused.
func (r FeedRequest) filters() pager.Filters {
	return pager.Filters{
		Category:    strings.Clone(r.Category),
		OpinionType: strings.Clone(r.OpinionType),
		Search:      strings.Clone(r.Search),
	}
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": Version,
		"store":   h.config.StoreDriver,
		"feeds":   h.feeds.Len(),
		"time":    time.Now().Format(time.RFC3339),
	})
}

// Categories handles GET /categories
func (h *Handlers) Categories(c *fiber.Ctx) error {
	categories := []string{string(models.CategoryAll)}
	for _, cat := range models.Categories {
		categories = append(categories, string(cat))
	}

	types := []fiber.Map{{"value": models.OpinionAll, "label": models.OpinionAll.Label()}}
	for _, t := range models.OpinionTypes {
		types = append(types, fiber.Map{"value": t, "label": t.Label()})
	}

	return c.JSON(fiber.Map{
		"categories":    categories,
		"opinion_types": types,
	})
}

// ListArticles handles GET /articles
func (h *Handlers) ListArticles(c *fiber.Ctx) error {
	q := middleware.Query[ArticlesQuery](c)
	opts := query.Options{
		Category:    q.Category,
		OpinionType: q.OpinionType,
		Search:      q.Search,
		Limit:       h.pageSize(q.Limit, h.config.PageSize),
		Offset:      q.Offset,
	}

	items, err := h.content.ListArticles(c.UserContext(), opts)
	if err != nil {
		return h.storeFailure(c, err, "Failed to fetch articles")
	}

	return c.JSON(fiber.Map{
		"items":       h.format.Cards(items),
		"limit":       opts.Limit,
		"offset":      opts.Offset,
		"next_offset": opts.Offset + opts.Limit,
		"has_more":    len(items) == opts.Limit,
	})
}

// GetArticle handles GET /articles/:id
func (h *Handlers) GetArticle(c *fiber.Ctx) error {
	id := c.Params("id")
	article, err := h.content.GetArticle(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Article not found",
			})
		}
		return h.storeFailure(c, err, "Failed to fetch article")
	}

	related := h.content.FetchRelatedArticles(c.UserContext(), article.Category, article.ID, h.config.RelatedLimit)
	return c.JSON(h.format.View(*article, related))
}

// RelatedArticles handles GET /articles/:id/related
func (h *Handlers) RelatedArticles(c *fiber.Ctx) error {
	id := c.Params("id")
	article, err := h.content.GetArticle(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Article not found",
			})
		}
		return h.storeFailure(c, err, "Failed to fetch article")
	}

	limit := h.pageSize(middleware.Query[LimitQuery](c).Limit, h.config.RelatedLimit)
	items, err := h.content.ListRelatedArticles(c.UserContext(), article.Category, article.ID, limit)
	if err != nil {
		return h.storeFailure(c, err, "Failed to fetch related articles")
	}
	return c.JSON(fiber.Map{
		"items": h.format.Cards(items),
	})
}

// ListComics handles GET /comics
func (h *Handlers) ListComics(c *fiber.Ctx) error {
	items, err := h.content.ListComics(c.UserContext())
	if err != nil {
		return h.storeFailure(c, err, "Failed to fetch comics")
	}
	return c.JSON(fiber.Map{
		"items": items,
	})
}

// Submit handles POST /submissions
func (h *Handlers) Submit(c *fiber.Ctx) error {
	var in submission.Input
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	ctx := c.UserContext()
	key := "submission:" + utils.Hash(c.IP(), in.Name, in.Email, in.Body)
	acquired, err := h.guard.Acquire(ctx, key, h.config.SubmitGuardTTL)
	if err != nil {
		// A broken guard must not block readers; the store still gets one
		// insert per request.
		logger.Get().Warn().Err(err).Msg("Submission guard unavailable")
		acquired = true
	}
	if !acquired {
		return c.Status(fiber.StatusConflict).JSON(submission.Result{
			Error: "This submission is already being sent",
		})
	}

	res := h.content.SubmitOpinion(ctx, in)
	if res.Success {
		return c.Status(fiber.StatusCreated).JSON(res)
	}

	if err := h.guard.Release(ctx, key); err != nil {
		logger.Get().Warn().Err(err).Msg("Failed to release submission guard")
	}

	var verr *submission.ValidationError
	if errors.As(res.Err, &verr) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(res)
	}
	return c.Status(fiber.StatusBadGateway).JSON(res)
}

func (h *Handlers) pageSize(requested, fallback int) int {
	switch {
	case requested <= 0:
		return fallback
	case requested > h.config.MaxPageSize:
		return h.config.MaxPageSize
	}
	return requested
}

// storeFailure logs err and answers 502 with msg.
func (h *Handlers) storeFailure(c *fiber.Ctx, err error, msg string) error {
	event := logger.Get().Error().Err(err).Str("path", c.Path())
	var te *store.TransportError
	if errors.As(err, &te) {
		event = event.Str("resource", string(te.Resource)).Str("op", te.Op).Int("upstream_status", te.Status)
	}
	event.Msg(msg)

	return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
		"error": msg,
	})
}
