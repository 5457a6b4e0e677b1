package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/bilgisen/breakdown/internal/logger"
	"github.com/bilgisen/breakdown/internal/middleware"
	"github.com/bilgisen/breakdown/internal/pager"
	"github.com/bilgisen/breakdown/internal/present"
)

// FeedView is a feed as returned by the /feeds endpoints.
type FeedView struct {
	ID         string            `json:"id"`
	Filters    pager.Filters     `json:"filters"`
	Items      []present.Card    `json:"items"`
	Sections   []present.Section `json:"sections"`
	Offset     int               `json:"offset"`
	Limit      int               `json:"limit"`
	Exhausted  bool              `json:"exhausted"`
	Fetching   bool              `json:"fetching"`
	Generation uint64            `json:"generation"`
	Loaded     *bool             `json:"loaded,omitempty"`
}

func (h *Handlers) feedView(id string, st pager.State) FeedView {
	return FeedView{
		ID:         id,
		Filters:    st.Filters,
		Items:      h.format.Cards(st.Items),
		Sections:   h.format.Sections(st.Items),
		Offset:     st.Offset,
		Limit:      st.Limit,
		Exhausted:  st.Exhausted,
		Fetching:   st.Fetching,
		Generation: st.Generation,
	}
}

// CreateFeed handles POST /feeds
func (h *Handlers) CreateFeed(c *fiber.Ctx) error {
	req := middleware.Body[FeedRequest](c)
	id, p := h.feeds.Create(req.filters())

	if err := p.Reset(c.UserContext(), req.filters()); err != nil {
		return h.feedFailure(c, id, p, err)
	}
	return c.Status(fiber.StatusCreated).JSON(h.feedView(id, p.State()))
}

// GetFeed handles GET /feeds/:id
func (h *Handlers) GetFeed(c *fiber.Ctx) error {
	id := c.Params("id")
	p, ok := h.feeds.Get(id)
	if !ok {
		return feedNotFound(c)
	}
	return c.JSON(h.feedView(id, p.State()))
}

// UpdateFeedFilters handles PUT /feeds/:id/filters. Any page still loading
// for the old filters is dropped.
func (h *Handlers) UpdateFeedFilters(c *fiber.Ctx) error {
	id := c.Params("id")
	p, ok := h.feeds.Get(id)
	if !ok {
		return feedNotFound(c)
	}

	req := middleware.Body[FeedRequest](c)
	if err := p.Reset(c.UserContext(), req.filters()); err != nil {
		return h.feedFailure(c, id, p, err)
	}
	return c.JSON(h.feedView(id, p.State()))
}

// LoadMoreFeed handles POST /feeds/:id/more. Nothing is fetched when the
// feed is exhausted or already loading; "loaded" tells the two apart.
func (h *Handlers) LoadMoreFeed(c *fiber.Ctx) error {
	id := c.Params("id")
	p, ok := h.feeds.Get(id)
	if !ok {
		return feedNotFound(c)
	}

	loaded, err := p.LoadMore(c.UserContext())
	if err != nil {
		return h.feedFailure(c, id, p, err)
	}

	view := h.feedView(id, p.State())
	view.Loaded = &loaded
	return c.JSON(view)
}

// DeleteFeed handles DELETE /feeds/:id
func (h *Handlers) DeleteFeed(c *fiber.Ctx) error {
	if !h.feeds.Delete(c.Params("id")) {
		return feedNotFound(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handlers) feedFailure(c *fiber.Ctx, id string, p *pager.Pager, err error) error {
	if errors.Is(err, pager.ErrSuperseded) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Feed was changed by a newer request",
			"feed":  h.feedView(id, p.State()),
		})
	}

	logger.Get().Error().Err(err).Str("feed_id", id).Msg("Error loading feed page")
	return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
		"error": "Failed to fetch articles",
		"feed":  h.feedView(id, p.State()),
	})
}

func feedNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": "Feed not found",
	})
}
