package secrets

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	dErrors "resa/pkg/domain-errors"
)

func TestHashAndVerify(t *testing.T) {
	digest, err := HashWithCost("Abcdef1!", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "Abcdef1!", digest)

	assert.NoError(t, Verify("Abcdef1!", digest))

	err = Verify("abcdef1!", digest)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestHashRejectsBadInput(t *testing.T) {
	_, err := Hash("")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = HashWithCost(strings.Repeat("x", 73), bcrypt.MinCost)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestVerifyMalformedDigest(t *testing.T) {
	err := Verify("Abcdef1!", "not-a-bcrypt-digest")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
}
