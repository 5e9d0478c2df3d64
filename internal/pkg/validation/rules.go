package validation

import (
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// IdentifierTag validates account identifiers: letters, digits, '-' and '_', at most 50 characters
const IdentifierTag = "identifier"

// IdentifierPattern matches a valid account identifier after trimming
var IdentifierPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,50}$`)

var registerOnce sync.Once

// ValidIdentifier reports whether s is an acceptable account identifier
func ValidIdentifier(s string) bool {
	return IdentifierPattern.MatchString(strings.TrimSpace(s))
}

// RegisterRules adds the custom tags to v
func RegisterRules(v *validator.Validate) error {
	return v.RegisterValidation(IdentifierTag, func(fl validator.FieldLevel) bool {
		return ValidIdentifier(fl.Field().String())
	})
}

// Register installs the custom tags on gin's default validator. Safe to call more than once.
func Register() error {
	var err error
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			err = RegisterRules(v)
		}
	})
	return err
}
