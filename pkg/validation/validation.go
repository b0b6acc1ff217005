package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	dErrors "mercato/pkg/domain-errors"
	s "mercato/pkg/string"
)

// emailPattern is deliberately loose: local@domain.tld, nothing more.
// The upstream dashboard never attempted full RFC 5322 validation and the
// backend accepts anything of this shape.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

var nonDigits = regexp.MustCompile(`\D`)

var defaultValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("mobile10", func(fl validator.FieldLevel) bool {
		return MobileValid(fl.Field().String())
	})
	_ = v.RegisterValidation("simple_email", func(fl validator.FieldLevel) bool {
		return EmailValid(fl.Field().String())
	})
	return v
}

// NormalizeMobile strips every non-digit rune, so "123-456-7890" and
// "1234567890" compare equal.
func NormalizeMobile(raw string) string {
	return nonDigits.ReplaceAllString(raw, "")
}

// MobileValid reports whether raw contains exactly 10 digits after
// normalization.
func MobileValid(raw string) bool {
	return len(NormalizeMobile(raw)) == 10
}

// EmailValid reports whether raw looks like local@domain.tld.
func EmailValid(raw string) bool {
	return emailPattern.MatchString(strings.TrimSpace(raw))
}

// Validate validates a struct using the default validator and returns a
// domain error carrying per-field messages.
func Validate(req any) error {
	if err := defaultValidator.Struct(req); err != nil {
		fields := FieldErrors(err)
		return dErrors.NewFields(dErrors.CodeValidation, ErrorMessage(err), fields)
	}
	return nil
}

// ErrorMessage converts a validator error into a human-readable message for
// the first failing field.
func ErrorMessage(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return "invalid request body"
	}
	return fieldMessage(validationErrs[0])
}

// FieldErrors flattens a validator error into field/message pairs so handlers
// can surface every failing field at once, mirroring the upstream API's
// errors list.
func FieldErrors(err error) []dErrors.FieldError {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil
	}
	out := make([]dErrors.FieldError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		out = append(out, dErrors.FieldError{
			Field:   fieldName(fe),
			Message: fieldMessage(fe),
		})
	}
	return out
}

func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	if name == "" {
		name = fe.StructField()
	}
	return s.ToSnakeCase(name)
}

func fieldMessage(fe validator.FieldError) string {
	field := fieldName(fe)

	switch fe.ActualTag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "notblank":
		return fmt.Sprintf("%s must not be blank", field)
	case "mobile10":
		return fmt.Sprintf("%s must be exactly 10 digits", field)
	case "simple_email", "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	default:
		if field == "" {
			return "invalid request body"
		}
		return fmt.Sprintf("%s is invalid", field)
	}
}
