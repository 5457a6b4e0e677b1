// Package postgrest talks to the hosted backend's REST interface
// (PostgREST dialect, as served under /rest/v1).
package postgrest

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/bilgisen/breakdown/internal/models"
	"github.com/bilgisen/breakdown/internal/query"
	"github.com/bilgisen/breakdown/internal/store"
)

// Config holds the two connection credentials plus the transport timeout.
type Config struct {
	URL     string
	Key     string
	Timeout time.Duration
}

type Client struct {
	client *resty.Client
}

// apiError is the body PostgREST sends with non-2xx responses.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		client: resty.New().
			SetBaseURL(strings.TrimRight(cfg.URL, "/")+"/rest/v1").
			SetTimeout(timeout).
			SetRetryCount(0).
			SetHeader("apikey", cfg.Key).
			SetAuthToken(cfg.Key).
			SetHeader("Accept", "application/json"),
	}
}

func (c *Client) Articles(ctx context.Context, q query.Query) ([]models.Article, error) {
	if err := store.CheckResource(q, query.ResourceArticles); err != nil {
		return nil, store.Wrap(q.Resource, "select", err)
	}

	var items []models.Article
	if err := c.selectInto(ctx, q, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) Comics(ctx context.Context, q query.Query) ([]models.Comic, error) {
	if err := store.CheckResource(q, query.ResourceComics); err != nil {
		return nil, store.Wrap(q.Resource, "select", err)
	}

	var items []models.Comic
	if err := c.selectInto(ctx, q, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// InsertSubmission posts one row. The row is not read back.
func (c *Client) InsertSubmission(ctx context.Context, s models.NewSubmission) error {
	var apiErr apiError
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=minimal").
		SetBody([]models.NewSubmission{s}).
		SetError(&apiErr).
		Post("/" + string(query.ResourceSubmissions))
	if err != nil {
		return &store.TransportError{Resource: query.ResourceSubmissions, Op: "insert", Err: err}
	}
	if resp.IsError() {
		return responseError(query.ResourceSubmissions, "insert", resp, apiErr)
	}
	return nil
}

func (c *Client) selectInto(ctx context.Context, q query.Query, dest interface{}) error {
	var apiErr apiError
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParamsFromValues(Params(q)).
		SetResult(dest).
		SetError(&apiErr).
		Get("/" + string(q.Resource))
	if err != nil {
		return &store.TransportError{Resource: q.Resource, Op: "select", Err: err}
	}
	if resp.IsError() {
		return responseError(q.Resource, "select", resp, apiErr)
	}
	return nil
}

func responseError(resource query.Resource, op string, resp *resty.Response, apiErr apiError) error {
	msg := apiErr.Message
	if msg == "" {
		msg = http.StatusText(resp.StatusCode())
	}
	return &store.TransportError{
		Resource: resource,
		Op:       op,
		Status:   resp.StatusCode(),
		Message:  msg,
	}
}
