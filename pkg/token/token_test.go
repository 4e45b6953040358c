package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestGenerateAndValidateJWT(t *testing.T) {
	tok, err := GenerateJWT(42, []string{"player", "admin"}, testSecret, 15)
	require.NoError(t, err)

	claims, err := ValidateJWT(tok, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, []string{"player", "admin"}, claims.Roles)
}

func TestValidateJWT_WrongSecret(t *testing.T) {
	tok, err := GenerateJWT(1, nil, testSecret, 15)
	require.NoError(t, err)

	_, err = ValidateJWT(tok, "other-secret")
	assert.Error(t, err)
}

func TestValidateJWT_Expired(t *testing.T) {
	tok, err := GenerateJWT(1, nil, testSecret, -1)
	require.NoError(t, err)

	_, err = ValidateJWT(tok, testSecret)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
}

func TestValidateJWT_Empty(t *testing.T) {
	_, err := ValidateJWT("", testSecret)
	assert.Error(t, err)
}
