package services

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"telehealth-app-server/internal/apperr"
)

const (
	minNameLength     = 2
	minPasswordLength = 6
	minPhoneDigits    = 10
)

var validate = validator.New()

// fieldErrors collects per-field validation failures into one 400.
type fieldErrors map[string]string

func (f fieldErrors) check(ok bool, field, message string) {
	if !ok {
		if _, seen := f[field]; !seen {
			f[field] = message
		}
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return apperr.BadRequest("Validation failed").WithDetails(map[string]string(f))
}

func validName(name string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(name)) >= minNameLength
}

func validEmail(email string) bool {
	return validate.Var(email, "required,email") == nil
}

func validPhone(phone string) bool {
	digits := 0
	for _, r := range phone {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	return digits >= minPhoneDigits
}
