package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()
	token, err := GenerateToken("64f1b2c3d4e5f60718293a4b", "Walter Pérez", "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "64f1b2c3d4e5f60718293a4b", claims.UserID)
	assert.Equal(t, "Walter Pérez", claims.DisplayName)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	t.Parallel()
	token, err := GenerateToken("64f1b2c3d4e5f60718293a4b", "Walter", "secret", time.Hour)
	require.NoError(t, err)

	_, err = ValidateToken(token, "other-secret")
	assert.Error(t, err)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	t.Parallel()
	token, err := GenerateToken("64f1b2c3d4e5f60718293a4b", "Walter", "secret", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token, "secret")
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	t.Parallel()
	_, err := ValidateToken("not-a-token", "secret")
	assert.Error(t, err)
}
