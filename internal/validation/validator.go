// Package validation checks request structs with validator/v10 and reports
// failures as InvalidInput errors keyed by JSON field name.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/istdurstig/istdurstig-server/internal/domain"
	domainerrors "github.com/istdurstig/istdurstig-server/internal/errors"
)

// Validator wraps go-playground/validator with domain error conversion.
type Validator struct {
	v *validator.Validate
}

// New creates a validator with the plant-care custom tags registered:
//
//	frequency       a watering frequency name (FREQUENT, MEDIUM, RARE)
//	care_event_type a care event type (WATERING, FERTILIZING, TRANSPLANTING)
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		switch name {
		case "":
			return fld.Name
		case "-":
			return ""
		default:
			return name
		}
	})

	//nolint:errcheck // registration only fails for empty tags
	_ = v.RegisterValidation("frequency", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseFrequency(fl.Field().String())
		return err == nil
	})
	//nolint:errcheck // registration only fails for empty tags
	_ = v.RegisterValidation("care_event_type", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseCareEventType(fl.Field().String())
		return err == nil
	})

	return &Validator{v: v}
}

// Validate validates a struct and returns an InvalidInput error with
// per-field details on failure.
func (v *Validator) Validate(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	fieldErrors := make(map[string]string, len(validationErrs))
	for _, e := range validationErrs {
		fieldErrors[e.Field()] = friendlyMessage(e)
	}
	return domainerrors.InvalidInputWithDetails("validation failed", fieldErrors)
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", e.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	case "url":
		return "must be a valid URL"
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "frequency":
		return "must be one of FREQUENT, MEDIUM, RARE"
	case "care_event_type":
		return "must be one of WATERING, FERTILIZING, TRANSPLANTING"
	default:
		return "is invalid"
	}
}
