// Package validator adapts go-playground/validator to Echo's
// request validation hook.
package validator

import (
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// RequestValidator wraps a validator instance for echo.Validator.
type RequestValidator struct {
	validate *validator.Validate
}

// New creates the validator used by the HTTP server.
func New() *RequestValidator {
	return &RequestValidator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Validate implements echo.Validator.
func (v *RequestValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return errors.WithStack(err)
	}

	return nil
}
