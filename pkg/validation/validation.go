package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	dErrors "resa/pkg/domain-errors"
	s "resa/pkg/string"
)

var (
	defaultValidator = newValidator()

	mu           sync.RWMutex
	ruleMessages = map[string]string{}
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// RegisterString adds a string rule under tag, with the message suffix used
// when it fails ("<field> <message>"). Packages owning a rule register it
// from init so DTO tags can reference it.
func RegisterString(tag, message string, rule func(string) bool) {
	mu.Lock()
	defer mu.Unlock()
	if err := defaultValidator.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return rule(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("validation: register %q: %v", tag, err))
	}
	ruleMessages[tag] = message
}

// Validate validates a struct using the default validator and returns a domain error
func Validate(req any) error {
	mu.RLock()
	defer mu.RUnlock()
	if err := defaultValidator.Struct(req); err != nil {
		return dErrors.New(dErrors.CodeValidation, ErrorMessage(err))
	}
	return nil
}

// ErrorMessage converts a validator error into a human-readable message
func ErrorMessage(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return "invalid request body"
	}

	fe := validationErrs[0]
	fieldName := fe.Field()
	if fieldName == "" {
		fieldName = fe.StructField()
	}
	field := s.ToSnakeCase(fieldName)

	switch fe.ActualTag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "notblank":
		return fmt.Sprintf("%s must not be blank", field)
	}
	if msg, ok := ruleMessages[fe.ActualTag()]; ok {
		return fmt.Sprintf("%s %s", field, msg)
	}
	if field == "" {
		return "invalid request body"
	}
	return fmt.Sprintf("%s is invalid", field)
}
