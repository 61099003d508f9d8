// Package validation checks request bodies against their `validate` struct
// tags before they are sent to the backend.
package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jrsteele09/b2bmarket-portal/internal/errors"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Report fields by their json names, which is what Messages is keyed by
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Messages maps "<json field>.<tag>" to the message shown for that failure,
// for example "price.gte".
type Messages map[string]string

// Struct validates s and returns its first failing field as an
// errors.InputError. The message comes from messages when present.
func Struct(s any, messages Messages) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return fmt.Errorf("[validation Struct] %w", err)
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return errors.Wrapf(err, "[validation Struct]")
	}
	return errors.Invalid(message(fieldErrs[0], messages))
}

func message(fe validator.FieldError, messages Messages) string {
	if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("field '%s' is required", fe.Field())
	case "min":
		return fmt.Sprintf("field '%s' must be at least %s characters long", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("field '%s' must be at least %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("field '%s' validation failed on tag '%s'", fe.Field(), fe.Tag())
	}
}
