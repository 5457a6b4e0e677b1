// Package submission validates reader submissions and forwards them to the
// store. Each accepted call inserts a new row; callers that want to ignore
// double clicks must guard on their side.
package submission

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/bilgisen/breakdown/internal/logger"
	"github.com/bilgisen/breakdown/internal/models"
	"github.com/bilgisen/breakdown/internal/query"
	"github.com/bilgisen/breakdown/internal/store"
)

// Input is what the submission form sends. Name and email are optional.
type Input struct {
	Name  string `json:"name" form:"name" validate:"max=120"`
	Email string `json:"email" form:"email" validate:"omitempty,email,max=254"`
	Body  string `json:"body" form:"body" validate:"notblank,max=10000"`
}

// Result is the outcome shown to the reader.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`

	// Err is the underlying *ValidationError or *store.TransportError.
	Err error `json:"-"`
}

// ValidationError reports a field the reader has to fix. No request was
// sent when this is returned.
type ValidationError struct {
	Field   string
	Tag     string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Inserter is the one store method the pipeline needs.
type Inserter interface {
	InsertSubmission(ctx context.Context, s models.NewSubmission) error
}

type Pipeline struct {
	store    Inserter
	validate *validator.Validate
	timeout  time.Duration
}

func NewPipeline(s Inserter, timeout time.Duration) *Pipeline {
	v := validator.New()
	// notblank rejects whitespace-only bodies, which "required" lets through.
	mustRegister(v, "notblank", validators.NotBlank)

	return &Pipeline{
		store:    s,
		validate: v,
		timeout:  timeout,
	}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("registering %q validation: %v", tag, err))
	}
}

// Validate checks in without touching the store.
func (p *Pipeline) Validate(in Input) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)

	err := p.validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ValidationError{Message: err.Error()}
	}
	fe := verrs[0]
	return &ValidationError{
		Field:   strings.ToLower(fe.Field()),
		Tag:     fe.Tag(),
		Message: message(fe),
	}
}

func message(fe validator.FieldError) string {
	switch {
	case fe.Field() == "Body" && (fe.Tag() == "notblank" || fe.Tag() == "required"):
		return "Please enter your submission"
	case fe.Tag() == "email":
		return "Please enter a valid email address"
	case fe.Tag() == "max":
		return fmt.Sprintf("%s must be at most %s characters", strings.ToLower(fe.Field()), fe.Param())
	}
	return fmt.Sprintf("%s is invalid", strings.ToLower(fe.Field()))
}

// Normalize builds the insert payload: blank optional fields become NULL.
func Normalize(in Input) models.NewSubmission {
	return models.NewSubmission{
		Name:  optional(in.Name),
		Email: optional(in.Email),
		Body:  in.Body,
		Used:  false,
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Submit validates in and inserts it with exactly one store call.
func (p *Pipeline) Submit(ctx context.Context, in Input) Result {
	log := logger.Component("submission")

	if err := p.Validate(in); err != nil {
		return Result{Success: false, Error: err.Error(), Err: err}
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	if err := p.store.InsertSubmission(ctx, Normalize(in)); err != nil {
		err = store.Wrap(query.ResourceSubmissions, "insert", err)
		log.Error().Err(err).Msg("Error submitting opinion")

		var te *store.TransportError
		detail := "Failed to submit. Please try again."
		if errors.As(err, &te) {
			detail = te.Detail()
		}
		return Result{Success: false, Error: detail, Err: err}
	}

	log.Info().Bool("named", in.Name != "").Int("length", len(in.Body)).Msg("Submission received")
	return Result{Success: true}
}
