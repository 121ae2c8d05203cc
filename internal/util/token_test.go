package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("secret", 42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := ValidateToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("secret", 42)
	require.NoError(t, err)

	_, err = ValidateToken("other-secret", token)
	assert.Error(t, err)
}

func TestValidateTokenGarbage(t *testing.T) {
	_, err := ValidateToken("secret", "not.a.token")
	assert.Error(t, err)
}

func TestNewLicenseKey(t *testing.T) {
	a := NewLicenseKey()
	b := NewLicenseKey()

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
	assert.NotContains(t, a, "-")
}
