package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/bilgisen/breakdown/internal/middleware"
)

// NewApp builds the fiber app with the shared error handler and all routes.
func NewApp(h *Handlers) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "breakdown",
		ErrorHandler: middleware.ErrorHandler,
		ReadTimeout:  h.config.HTTPTimeout,
		WriteTimeout: h.config.HTTPTimeout,
		IdleTimeout:  120 * time.Second,
		// Parsed values outlive the request in feeds and stores.
		Immutable: true,
	})
	SetupRoutes(app, h)
	return app
}

// SetupRoutes configures all the routes for the application
func SetupRoutes(app *fiber.App, h *Handlers) {
	app.Use(recover.New())
	app.Use(middleware.RequestLogger())

	api := app.Group("/api/v1")

	api.Get("/health", h.HealthCheck)
	api.Get("/categories", h.Categories)

	articles := api.Group("/articles")
	{
		articles.Get("", middleware.ValidateQueryParams[ArticlesQuery](), h.ListArticles)
		articles.Get("/:id", h.GetArticle)
		articles.Get("/:id/related", middleware.ValidateQueryParams[LimitQuery](), h.RelatedArticles)
	}

	api.Get("/comics", h.ListComics)

	feeds := api.Group("/feeds")
	{
		feeds.Post("", middleware.ValidateRequest[FeedRequest](), h.CreateFeed)
		feeds.Get("/:id", h.GetFeed)
		feeds.Put("/:id/filters", middleware.ValidateRequest[FeedRequest](), h.UpdateFeedFilters)
		feeds.Post("/:id/more", h.LoadMoreFeed)
		feeds.Delete("/:id", h.DeleteFeed)
	}

	api.Post("/submissions", h.Submit)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Endpoint not found",
		})
	})
}
