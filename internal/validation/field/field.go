// Package field holds pure, store-free checks on single input fields.
// Each check returns its input on success or a validation_failed domain
// error tagged with a reason.
package field

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	dErrors "resa/pkg/domain-errors"
	"resa/pkg/validation"
)

const (
	ReasonInvalidPhone dErrors.Reason = "INVALID_PHONE"
	ReasonWeakPassword dErrors.Reason = "WEAK_PASSWORD"
	ReasonBadImageType dErrors.Reason = "BAD_IMAGE_TYPE"
)

const (
	MinPasswordLength = 8
	// PasswordSymbols is the punctuation set that satisfies the symbol rule.
	PasswordSymbols = `!@#$%^&*()-_=+[]{}|;:',.<>?/`
)

var phonePattern = regexp.MustCompile(`^09[0-9]{9}$`)

// Password rules, in the order they are checked.
var (
	ErrPasswordTooShort = errors.New("Password must be at least 8 characters long.")
	ErrPasswordNoDigit  = errors.New("Password must contain at least one digit.")
	ErrPasswordNoSymbol = errors.New("Password must contain at least one special character.")
	ErrPasswordNoLower  = errors.New("Password must contain at least one lowercase letter.")
	ErrPasswordNoUpper  = errors.New("Password must contain at least one uppercase letter.")
)

var imageExtensions = map[string]struct{}{
	"jpg": {}, "jpeg": {}, "png": {}, "gif": {}, "bmp": {},
}

func init() {
	validation.RegisterString("phone", "must be 11 digits starting with 09", IsPhone)
}

// IsPhone reports whether s is "09" followed by nine ASCII digits.
func IsPhone(s string) bool {
	return phonePattern.MatchString(s)
}

func ValidatePhoneFormat(s string) (string, error) {
	if !IsPhone(s) {
		return "", dErrors.WithReason(dErrors.CodeValidation, ReasonInvalidPhone,
			"Phone number must be 11 digits and start with 09.", nil)
	}
	return s, nil
}

// ValidatePasswordStrength returns the first unmet rule as a WEAK_PASSWORD
// error wrapping one of the ErrPassword* sentinels.
func ValidatePasswordStrength(s string) (string, error) {
	if rule := unmetPasswordRule(s); rule != nil {
		return "", dErrors.WithReason(dErrors.CodeValidation, ReasonWeakPassword, rule.Error(), rule)
	}
	return s, nil
}

func unmetPasswordRule(s string) error {
	if len([]rune(s)) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	var digit, symbol, lower, upper bool
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(PasswordSymbols, r):
			symbol = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		}
	}
	switch {
	case !digit:
		return ErrPasswordNoDigit
	case !symbol:
		return ErrPasswordNoSymbol
	case !lower:
		return ErrPasswordNoLower
	case !upper:
		return ErrPasswordNoUpper
	}
	return nil
}

// ValidateImageExtension checks the filename suffix only; content is not sniffed.
func ValidateImageExtension(filename string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if _, ok := imageExtensions[ext]; !ok {
		return "", dErrors.WithReason(dErrors.CodeValidation, ReasonBadImageType,
			"Invalid image format. Allowed formats: jpg, jpeg, png, gif, bmp.", nil)
	}
	return filename, nil
}
