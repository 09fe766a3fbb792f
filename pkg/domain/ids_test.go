package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "resa/pkg/domain-errors"
)

// TestParseID_Invariants validates the parsing invariant:
// "IDs must be positive base-10 integers"
func TestParseID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseProvinceID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseCityID("seven")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects zero and negatives", func(t *testing.T) {
		_, err := ParseProfileID("0")
		require.Error(t, err)
		_, err = ParseUserID("-3")
		require.Error(t, err)
	})

	t.Run("accepts positive integer", func(t *testing.T) {
		id, err := ParseCityID("42")
		require.NoError(t, err)
		assert.Equal(t, CityID(42), id)
		assert.Equal(t, "42", id.String())
		assert.False(t, id.IsNil())
	})
}

func TestIsNil(t *testing.T) {
	assert.True(t, UserID(0).IsNil())
	assert.True(t, ProvinceID(0).IsNil())
	assert.False(t, ProfileID(1).IsNil())
}
