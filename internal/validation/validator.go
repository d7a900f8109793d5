// Package validation checks request payloads with go-playground/validator and
// reports failures as client facing input errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"foodgram.io/backend/internal/exceptions"
	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)

// Usernames that collide with fixed routes under /api/users.
var reservedUsernames = []string{"me", "subscriptions", "set_password"}

func Username(value string) bool {
	for _, reserved := range reservedUsernames {
		if strings.EqualFold(value, reserved) {
			return false
		}
	}
	return usernamePattern.MatchString(value)
}

func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = field.Tag.Get("koanf")
			}
			return name
		})
		validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return Username(fl.Field().String())
		})
	})
	return validate
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min", "gte":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s needs at least %s entries", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "unique":
		return fmt.Sprintf("%s must be unique", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email", fe.Field())
	case "username":
		return fmt.Sprintf("%s is reserved or contains characters other than letters, digits and @.+-_", fe.Field())
	}
	return fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag())
}

// Struct validates s and converts field failures into an InvalidInputError.
func Struct(s any) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return exceptions.InvalidInput(err.Error())
	}
	messages := make([]string, len(fieldErrors))
	for i, fe := range fieldErrors {
		messages[i] = message(fe)
	}
	return exceptions.InvalidInput(strings.Join(messages, "; "))
}
