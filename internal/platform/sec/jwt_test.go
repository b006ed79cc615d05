// Copyright (c) 2026 Clipstream. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/clipstream/internal/platform/apperr"
	"github.com/taibuivan/clipstream/internal/platform/sec"
)

func newTokenService(t *testing.T, accessTTL, refreshTTL time.Duration) *sec.TokenService {
	t.Helper()

	service, err := sec.NewTokenService(
		"access-secret-for-tests",
		"refresh-secret-for-tests",
		"clipstream.app",
		accessTTL,
		refreshTTL,
	)
	require.NoError(t, err)
	return service
}

/*
TestNewTokenService_SecretRules verifies constructor guard rails.
*/
func TestNewTokenService_SecretRules(t *testing.T) {
	_, err := sec.NewTokenService("", "refresh", "iss", time.Minute, time.Hour)
	assert.Error(t, err)

	_, err = sec.NewTokenService("shared", "shared", "iss", time.Minute, time.Hour)
	assert.Error(t, err)
}

/*
TestTokenService_AccessRoundTrip verifies an issued access token carries the
user identity and verifies cleanly.
*/
func TestTokenService_AccessRoundTrip(t *testing.T) {
	service := newTokenService(t, 15*time.Minute, 10*24*time.Hour)

	tokenString, err := service.GenerateAccessToken("user-123", "taibuivan")
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims, err := service.VerifyAccessToken(tokenString)
	require.NoError(t, err)

	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, "taibuivan", claims.Username)
	assert.Equal(t, "clipstream.app", claims.Issuer)
}

/*
TestTokenService_RefreshRoundTrip verifies refresh token issuance and verification.
*/
func TestTokenService_RefreshRoundTrip(t *testing.T) {
	service := newTokenService(t, 15*time.Minute, 10*24*time.Hour)

	tokenString, err := service.GenerateRefreshToken("user-123")
	require.NoError(t, err)

	claims, err := service.VerifyRefreshToken(tokenString)
	require.NoError(t, err)

	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "user-123", claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

/*
TestTokenService_RefreshTokensAreUnique verifies back-to-back refresh tokens
for the same subject are distinct strings. Timestamps in JWT claims have
second precision, so without a unique token ID two tokens minted in the same
second would be byte-identical and rotation could not distinguish them.
*/
func TestTokenService_RefreshTokensAreUnique(t *testing.T) {
	service := newTokenService(t, 15*time.Minute, 10*24*time.Hour)

	first, err := service.GenerateRefreshToken("user-123")
	require.NoError(t, err)
	second, err := service.GenerateRefreshToken("user-123")
	require.NoError(t, err)

	require.NotEqual(t, first, second)

	firstClaims, err := service.VerifyRefreshToken(first)
	require.NoError(t, err)
	secondClaims, err := service.VerifyRefreshToken(second)
	require.NoError(t, err)
	assert.NotEqual(t, firstClaims.ID, secondClaims.ID)
}

/*
TestTokenService_KeySeparation verifies a refresh token never verifies as an
access token (and vice versa) because the secrets differ.
*/
func TestTokenService_KeySeparation(t *testing.T) {
	service := newTokenService(t, 15*time.Minute, 10*24*time.Hour)

	refreshToken, err := service.GenerateRefreshToken("user-123")
	require.NoError(t, err)

	_, err = service.VerifyAccessToken(refreshToken)
	require.Error(t, err)
	assert.Equal(t, "INVALID_TOKEN", apperr.As(err).Code)

	accessToken, err := service.GenerateAccessToken("user-123", "taibuivan")
	require.NoError(t, err)

	_, err = service.VerifyRefreshToken(accessToken)
	require.Error(t, err)
	assert.Equal(t, "INVALID_TOKEN", apperr.As(err).Code)
}

/*
TestTokenService_WrongSecret verifies tokens signed elsewhere are rejected.
*/
func TestTokenService_WrongSecret(t *testing.T) {
	service := newTokenService(t, 15*time.Minute, 10*24*time.Hour)

	other, err := sec.NewTokenService(
		"different-access-secret",
		"different-refresh-secret",
		"clipstream.app",
		15*time.Minute,
		10*24*time.Hour,
	)
	require.NoError(t, err)

	foreign, err := other.GenerateAccessToken("user-123", "taibuivan")
	require.NoError(t, err)

	_, err = service.VerifyAccessToken(foreign)
	require.Error(t, err)
	assert.Equal(t, "INVALID_TOKEN", apperr.As(err).Code)
}

/*
TestTokenService_Expired verifies stale tokens map to EXPIRED_TOKEN.
*/
func TestTokenService_Expired(t *testing.T) {
	service := newTokenService(t, -time.Minute, -time.Minute)

	accessToken, err := service.GenerateAccessToken("user-123", "taibuivan")
	require.NoError(t, err)

	_, err = service.VerifyAccessToken(accessToken)
	require.Error(t, err)
	assert.Equal(t, "EXPIRED_TOKEN", apperr.As(err).Code)

	refreshToken, err := service.GenerateRefreshToken("user-123")
	require.NoError(t, err)

	_, err = service.VerifyRefreshToken(refreshToken)
	require.Error(t, err)
	assert.Equal(t, "EXPIRED_TOKEN", apperr.As(err).Code)
}

/*
TestTokenService_Garbage verifies structurally invalid tokens are rejected.
*/
func TestTokenService_Garbage(t *testing.T) {
	service := newTokenService(t, 15*time.Minute, 10*24*time.Hour)

	for _, tokenString := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := service.VerifyAccessToken(tokenString)
		require.Error(t, err)
		assert.Equal(t, "INVALID_TOKEN", apperr.As(err).Code)
	}
}
