package utils

import (
	"testing"

	"github.com/luaygitaris/appChat/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestTokenRoundTrip(t *testing.T) {
	config.AppConfig = &config.Config{JWTSecret: "test-secret"}

	token, err := GenerateToken("user-1")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.NotEmpty(t, claims.GetJTI(), "tokens must carry a jti for revocation")
}

func TestValidateToken_WrongSecret(t *testing.T) {
	config.AppConfig = &config.Config{JWTSecret: "test-secret"}
	token, err := GenerateToken("user-1")
	assert.NoError(t, err)

	config.AppConfig = &config.Config{JWTSecret: "different-secret"}
	_, err = ValidateToken(token)
	assert.Error(t, err)
}
