package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrMissingField is wrapped by every validation failure on a required field
var ErrMissingField = errors.New("missing required field")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report JSON names so messages match the request body
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return v
}

// IsBlank reports whether s is empty or whitespace only
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func translateValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "notblank", "required":
		return fmt.Errorf("%w '%s'", ErrMissingField, fe.Field())
	default:
		return fmt.Errorf("invalid field '%s': failed '%s' validation", fe.Field(), fe.Tag())
	}
}
