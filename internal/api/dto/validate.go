package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/spec-kit/cryptid/pkg/util"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Normalizer is implemented by requests that clean their fields before validation.
type Normalizer interface {
	Normalize()
}

// Validate normalizes and checks a request, returning a VALIDATION_FAILED
// error whose details map each offending field to the rule it broke.
func Validate(req interface{}) error {
	if n, ok := req.(Normalizer); ok {
		n.Normalize()
	}
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	details := make(map[string]any, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[fe.Field()] = describe(fe)
	}
	return apperrors.NewValidationError("request validation failed", details)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("field '%s' cannot be empty or whitespace", fe.Field())
	case "ne":
		return fmt.Sprintf("field '%s' cannot be the reserved keyword '%s'", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("field '%s' must be at least %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("field '%s' failed rule '%s'", fe.Field(), fe.Tag())
	}
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}
