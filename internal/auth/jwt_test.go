package auth

import (
	"testing"

	"salonhub_backend/internal/config"
	"salonhub_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	prev := config.AppConfig
	config.AppConfig = &config.Config{}
	config.AppConfig.JWT.Secret = "test-secret"
	config.AppConfig.JWT.TTL = 60
	t.Cleanup(func() { config.AppConfig = prev })

	token, err := GenerateToken("user-1", models.UserRoleStylist)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.UserRoleStylist, claims.Role)
	assert.Equal(t, "user-1", claims.RegisteredClaims.Subject)

	_, err = ParseToken(token + "tampered")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseToken("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
