package utils

import (
	"testing"
	"time"

	"github.com/SscSPs/business_management_app/internal/core/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	actor := domain.Actor{UserID: "w-1", Name: "Karim", Role: domain.RoleWorker}

	token, err := GenerateJWT(actor, "secret", time.Hour, "test")
	require.NoError(t, err)

	claims, err := ParseAndValidateJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "w-1", claims.Subject)
	assert.Equal(t, "worker", claims.Role)
	assert.Equal(t, "Karim", claims.Name)
	assert.Equal(t, "test", claims.Issuer)
}

func TestParseAndValidateJWT_Rejects(t *testing.T) {
	actor := domain.Actor{UserID: "u-1", Role: domain.RoleAdmin}

	expired, err := GenerateJWT(actor, "secret", -time.Minute, "test")
	require.NoError(t, err)
	_, err = ParseAndValidateJWT(expired, "secret")
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	valid, err := GenerateJWT(actor, "secret", time.Hour, "test")
	require.NoError(t, err)
	_, err = ParseAndValidateJWT(valid, "other-secret")
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}
