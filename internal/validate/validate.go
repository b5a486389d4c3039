// Package validate wraps go-playground/validator with the custom tags this
// client needs for gateway input.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	usernameRe   = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)
	passphraseRe = regexp.MustCompile(`^[a-z]+( [a-z]+){3}$`)
)

// v is the package-level validator. Custom tags are registered in init
// before the first call to Struct.
var v = validator.New()

func init() {
	// "username": a gateway username without the domain suffix.
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRe.MatchString(fl.Field().String())
	})
	// "passphrase": a one-time passphrase of exactly four lower-case words.
	_ = v.RegisterValidation("passphrase", func(fl validator.FieldLevel) bool {
		return passphraseRe.MatchString(fl.Field().String())
	})
}

// Struct validates s using its validate tags.
// Returns a human-readable error or nil.
func Struct(s any) error {
	if err := v.Struct(s); err != nil {
		ve, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		var msgs []string
		for _, fe := range ve {
			msgs = append(msgs, fmt.Sprintf("field '%s' failed '%s'", fe.Field(), fe.Tag()))
		}
		return fmt.Errorf("%s", strings.Join(msgs, "; "))
	}
	return nil
}
