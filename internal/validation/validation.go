// Package validation wraps go-playground/validator with the field rules and
// messages used by the book and auth forms.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	namePattern  = regexp.MustCompile(`^[a-zA-Z'-]+$`)
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,4}$`)
)

// FieldError is one failed rule, keyed by the JSON name of the field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Messenger lets a form supply its own wording. Keys are "field.tag", for
// example "email.required".
type Messenger interface {
	ValidationMessages() map[string]string
}

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("name_pattern", func(fl validator.FieldLevel) bool {
		return namePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("email_pattern", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("password_strength", func(fl validator.FieldLevel) bool {
		return PasswordStrong(fl.Field().String())
	})
	_ = v.RegisterValidation("book_year", func(fl validator.FieldLevel) bool {
		return YearPlausible(int(fl.Field().Int()), time.Now())
	})

	return &Validator{v: v}
}

// YearPlausible rejects publication years after next year. Negative years
// are allowed for works dated BCE.
func YearPlausible(year int, now time.Time) bool {
	return year <= now.Year()+1
}

// PasswordStrong reports whether p has at least 8 characters, no whitespace,
// and at least one lower-case letter, upper-case letter, digit and symbol.
func PasswordStrong(p string) bool {
	if len(p) < 8 {
		return false
	}
	var lower, upper, digit, symbol bool
	for _, r := range p {
		switch {
		case unicode.IsSpace(r):
			return false
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			symbol = true
		}
	}
	return lower && upper && digit && symbol
}

// Struct validates s and returns one FieldError per failing field, in field
// order. A nil result means s is valid.
func (v *Validator) Struct(s any) []FieldError {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Message: err.Error()}}
	}

	var custom map[string]string
	if m, ok := s.(Messenger); ok {
		custom = m.ValidationMessages()
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := custom[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = defaultMessage(fe)
		}
		out = append(out, FieldError{Field: fe.Field(), Message: msg})
	}
	return out
}

func defaultMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "url", "http_url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "name_pattern", "email_pattern":
		return fmt.Sprintf("%s is not valid", field)
	case "password_strength":
		return fmt.Sprintf("%s must be 8+ chars and include upper, lower, number, and special character", field)
	case "book_year":
		return fmt.Sprintf("%s is in the future", field)
	case "eqfield":
		return fmt.Sprintf("%s must match %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
