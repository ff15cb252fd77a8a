// Package validation runs struct-tag validation on service inputs and turns
// failures into VALIDATION_FAILED domain errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	commonerrors "github.com/AlibekovAA/microblog/internal/common/errors"
)

var handleRegex = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		_ = validate.RegisterValidation("handle", func(fl validator.FieldLevel) bool {
			return handleRegex.MatchString(fl.Field().String())
		})
	})
	return validate
}

// Struct validates s and returns nil or ErrValidation naming the first
// offending field.
func Struct(s any) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return commonerrors.ErrValidation.WithCause(err)
	}
	return commonerrors.ErrValidation.WithMessage(describe(fieldErrs[0])).WithCause(err)
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "handle":
		return fmt.Sprintf("%s may contain only letters, digits, '.', '_' and '-'", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
