// Package validators wraps go-playground/validator so handlers can turn
// struct validation failures into the per-field details array the API
// returns on HTTP 400.
package validators

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	appErr "github.com/langchain-flow/engine/pkg/errors"
)

// New returns a validator that reports fields by their JSON names.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// Violations converts a validator error into field-level messages. Every
// violated field is listed, not just the first.
func Violations(err error) []appErr.FieldViolation {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []appErr.FieldViolation{{Field: "", Message: err.Error()}}
	}
	out := make([]appErr.FieldViolation, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, appErr.FieldViolation{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", fe.Field())
	case "uuid4":
		return fmt.Sprintf("%s must be a valid UUID", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.Join(strings.Fields(fe.Param()), ", "))
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
