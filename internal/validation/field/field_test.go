package field

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "resa/pkg/domain-errors"
	"resa/pkg/validation"
)

func TestValidatePhoneFormat(t *testing.T) {
	valid := []string{"09123456789", "09000000000", "09999999999"}
	for _, phone := range valid {
		got, err := ValidatePhoneFormat(phone)
		require.NoError(t, err, phone)
		assert.Equal(t, phone, got)
	}

	invalid := []string{
		"",
		"9123456789",
		"0912345678",
		"091234567890",
		"08123456789",
		"0912345678a",
		"+989123456789",
		"09١٢٣٤٥٦٧٨٩",
		" 09123456789",
	}
	for _, phone := range invalid {
		_, err := ValidatePhoneFormat(phone)
		require.Error(t, err, phone)
		assert.True(t, dErrors.HasReason(err, ReasonInvalidPhone), phone)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation), phone)
	}
}

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		name     string
		password string
		rule     error
	}{
		{name: "all categories", password: "Abcdef1!", rule: nil},
		{name: "long with every symbol class", password: "Zz9[]{}|;:',.<>?/", rule: nil},
		{name: "too short", password: "Ab1!", rule: ErrPasswordTooShort},
		{name: "lowercase only", password: "abcdefgh", rule: ErrPasswordNoDigit},
		{name: "upper and digits", password: "ABCDEF12", rule: ErrPasswordNoSymbol},
		{name: "no lowercase", password: "ABCDEF1!", rule: ErrPasswordNoLower},
		{name: "no uppercase", password: "abcdef1!", rule: ErrPasswordNoUpper},
		{name: "symbol outside set", password: "Abcdef1~", rule: ErrPasswordNoSymbol},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidatePasswordStrength(tt.password)
			if tt.rule == nil {
				require.NoError(t, err)
				assert.Equal(t, tt.password, got)
				return
			}
			require.Error(t, err)
			assert.True(t, dErrors.HasReason(err, ReasonWeakPassword))
			assert.True(t, errors.Is(err, tt.rule), "expected %v, got %v", tt.rule, err)
			assert.Equal(t, tt.rule.Error(), err.Error())
		})
	}
}

func TestPasswordRulesAreDistinct(t *testing.T) {
	rules := []error{ErrPasswordTooShort, ErrPasswordNoDigit, ErrPasswordNoSymbol, ErrPasswordNoLower, ErrPasswordNoUpper}
	seen := map[string]bool{}
	for _, r := range rules {
		assert.False(t, seen[r.Error()], r.Error())
		seen[r.Error()] = true
	}
}

func TestValidateImageExtension(t *testing.T) {
	for _, name := range []string{"photo.PNG", "a.jpg", "b.JpEg", "c.gif", "d.bmp", "archive.tar.png"} {
		got, err := ValidateImageExtension(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, got)
	}

	for _, name := range []string{"photo", "photo.webp", "photo.png.exe", ".png.txt", "png"} {
		_, err := ValidateImageExtension(name)
		require.Error(t, err, name)
		assert.True(t, dErrors.HasReason(err, ReasonBadImageType), name)
	}
}

type loginForm struct {
	PhoneNumber string `validate:"required,phone"`
}

func TestPhoneTagRegistered(t *testing.T) {
	require.NoError(t, validation.Validate(&loginForm{PhoneNumber: "09123456789"}))

	err := validation.Validate(&loginForm{PhoneNumber: "0912"})
	require.Error(t, err)
	assert.Equal(t, "phone_number must be 11 digits starting with 09", err.Error())
}
