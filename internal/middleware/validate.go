package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/bilgisen/breakdown/internal/logger"
	"github.com/bilgisen/breakdown/internal/models"
)

const (
	localsBody  = "validated"
	localsQuery = "queryParams"
)

// Validator is a struct that holds the validator instance
type Validator struct {
	validate *validator.Validate
}

// NewValidator registers the "category" and "opinion_type" tags. Both
// accept their "all" sentinels.
func NewValidator() *Validator {
	v := validator.New()
	mustRegister(v, "category", func(fl validator.FieldLevel) bool {
		return models.Category(fl.Field().String()).Valid()
	})
	mustRegister(v, "opinion_type", func(fl validator.FieldLevel) bool {
		return models.OpinionType(fl.Field().String()).Valid()
	})
	return &Validator{validate: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("registering %q validation: %v", tag, err))
	}
}

func (v *Validator) Validate(s interface{}) error {
	return v.validate.Struct(s)
}

// ValidateRequest parses the body into a fresh T per request and validates
// it. An empty body leaves T at its zero value. Handlers read it back with
// Body[T].
func ValidateRequest[T any]() fiber.Handler {
	v := NewValidator()

	return func(c *fiber.Ctx) error {
		s := new(T)
		if len(c.Body()) > 0 {
			if err := c.BodyParser(s); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Invalid request body",
					"msg":   err.Error(),
				})
			}
		}
		if err := v.Validate(s); err != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":  "Validation failed",
				"fields": fieldErrors(err),
			})
		}

		c.Locals(localsBody, s)
		return c.Next()
	}
}

// ValidateQueryParams is ValidateRequest for the query string. Handlers read
// it back with Query[T].
func ValidateQueryParams[T any]() fiber.Handler {
	v := NewValidator()

	return func(c *fiber.Ctx) error {
		s := new(T)
		if err := c.QueryParser(s); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid query parameters",
				"msg":   err.Error(),
			})
		}
		if err := v.Validate(s); err != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":  "Invalid query parameters",
				"fields": fieldErrors(err),
			})
		}

		c.Locals(localsQuery, s)
		return c.Next()
	}
}

// Body returns the value stored by ValidateRequest[T].
func Body[T any](c *fiber.Ctx) *T {
	s, _ := c.Locals(localsBody).(*T)
	if s == nil {
		return new(T)
	}
	return s
}

// Query returns the value stored by ValidateQueryParams[T].
func Query[T any](c *fiber.Ctx) *T {
	s, _ := c.Locals(localsQuery).(*T)
	if s == nil {
		return new(T)
	}
	return s
}

func fieldErrors(err error) map[string]string {
	out := make(map[string]string)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["_"] = err.Error()
		return out
	}
	for _, fe := range verrs {
		out[fe.Field()] = fe.Tag()
	}
	return out
}

// ErrorHandler is the app-wide fiber error handler.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := http.StatusText(code)

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		msg = e.Message
	}

	if code >= fiber.StatusInternalServerError {
		logger.Get().Error().
			Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", code).
			Msg("HTTP error")
	}

	return c.Status(code).JSON(fiber.Map{
		"error": msg,
	})
}
