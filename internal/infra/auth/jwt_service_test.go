package auth

import (
	"testing"

	"pfm/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.SecretKey.Access = "access-secret"
	cfg.SecretKey.Refresh = "refresh-secret"

	return cfg
}

func TestNewJWTService_RequiresSecrets(t *testing.T) {
	cfg := testConfig()
	cfg.SecretKey.Refresh = ""

	_, err := NewJWTService(cfg)
	require.Error(t, err)
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc, err := NewJWTService(testConfig())
	require.NoError(t, err)

	access, refresh, err := svc.GenerateTokens("firebase-uid-1", "owner@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	claims, err := svc.ValidateAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, "firebase-uid-1", claims.UserID)
	assert.Equal(t, "owner@example.com", claims.Email)

	claims, err = svc.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "firebase-uid-1", claims.UserID)
}

func TestJWTService_RejectsWrongTokenType(t *testing.T) {
	svc, err := NewJWTService(testConfig())
	require.NoError(t, err)

	access, refresh, err := svc.GenerateTokens("firebase-uid-1", "owner@example.com")
	require.NoError(t, err)

	// A refresh token must not pass as an access token and vice versa.
	_, err = svc.ValidateAccessToken(refresh)
	assert.Error(t, err)

	_, err = svc.ValidateRefreshToken(access)
	assert.Error(t, err)
}

func TestJWTService_RejectsTamperedSecret(t *testing.T) {
	svc, err := NewJWTService(testConfig())
	require.NoError(t, err)

	other := testConfig()
	other.SecretKey.Access = "someone-elses-secret"
	otherSvc, err := NewJWTService(other)
	require.NoError(t, err)

	access, _, err := otherSvc.GenerateTokens("firebase-uid-1", "owner@example.com")
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(access)
	assert.Error(t, err)
}
