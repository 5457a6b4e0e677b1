// Package store defines the boundary to the content backend. Each adapter
// turns a query.Query into exactly one request against its backend.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/bilgisen/breakdown/internal/models"
	"github.com/bilgisen/breakdown/internal/query"
)

// ErrNotFound is returned by lookups that matched no row.
var ErrNotFound = errors.New("record not found")

// Store reads articles and comics and inserts submissions.
type Store interface {
	Articles(ctx context.Context, q query.Query) ([]models.Article, error)
	Comics(ctx context.Context, q query.Query) ([]models.Comic, error)
	InsertSubmission(ctx context.Context, s models.NewSubmission) error
}

// TransportError is any failure talking to the backend: network errors,
// non-2xx responses, driver errors and undecodable payloads.
type TransportError struct {
	Resource query.Resource
	Op       string
	Status   int
	Message  string
	Err      error
}

func (e *TransportError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s %s: status %d: %s", e.Op, e.Resource, e.Status, msg)
	}
	return fmt.Sprintf("%s %s: %s", e.Op, e.Resource, msg)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Detail is the backend's own description of the failure, suitable for
// showing to a reader.
func (e *TransportError) Detail() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "request failed"
}

// Wrap builds a TransportError unless err is nil or already one.
func Wrap(resource query.Resource, op string, err error) error {
	if err == nil {
		return nil
	}
	var te *TransportError
	if errors.As(err, &te) {
		return err
	}
	return &TransportError{Resource: resource, Op: op, Err: err}
}

// CheckResource rejects queries aimed at a different table than the method.
func CheckResource(q query.Query, want query.Resource) error {
	if q.Resource != want {
		return fmt.Errorf("query for %q passed to %q reader", q.Resource, want)
	}
	return nil
}
