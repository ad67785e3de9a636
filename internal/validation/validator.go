// Package validation provides custom validators for the application
package validation

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// maxCurrencyLength bounds a currency name, in runes
const maxCurrencyLength = 64

// Initialize registers all custom validators
func Initialize() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := Register(v); err != nil {
			panic(err)
		}
	}
}

// Register adds the custom validations to v
func Register(v *validator.Validate) error {
	return v.RegisterValidation("currency", validateCurrency)
}

// validateCurrency checks a submitted currency name with CurrencyName
func validateCurrency(fl validator.FieldLevel) bool {
	return CurrencyName(fl.Field().String())
}

// CurrencyName reports whether name can be offered and submitted as a currency:
// non-empty, already trimmed, at most maxCurrencyLength runes and free of control characters.
// Any other text, such as "US Dollar", is accepted.
func CurrencyName(name string) bool {
	if name == "" || name != strings.TrimSpace(name) {
		return false
	}
	if !utf8.ValidString(name) || utf8.RuneCountInString(name) > maxCurrencyLength {
		return false
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}
