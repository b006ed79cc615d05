// Copyright (c) 2026 Clipstream. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via the [TokenProvider] interface defined by consumers.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taibuivan/clipstream/internal/platform/apperr"
	"github.com/taibuivan/clipstream/pkg/uuid"
)

// AuthClaims represents the payload embedded inside a JWT Access Token.
//
// # Why custom claims?
//
// By embedding the UserID and Username directly inside the JWT, the
// authentication middleware can reconstruct the active user context WITHOUT
// querying the database on every single API request. This provides massive
// read-scalability.
type AuthClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the JWT payload small.
	UserID   string `json:"uid"`
	Username string `json:"unm"`
}

// RefreshClaims represents the minimal payload of a JWT Refresh Token.
//
// Refresh tokens deliberately carry nothing but the subject and a unique
// token ID: their whole purpose is to be compared against the value stored
// on the user record. The "jti" claim guarantees every issued token is a
// distinct string even when two are minted within the same second, which
// rotation-on-use and revocation-by-overwrite depend on.
type RefreshClaims struct {
	jwt.RegisteredClaims

	UserID string `json:"uid"`
}

// TokenService handles generation and verification of the paired session
// tokens using HS256.
//
// # Key Separation
//
// Access and refresh tokens are signed with SEPARATE secrets. A refresh token
// presented where an access token is expected (or vice versa) fails signature
// verification outright.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewTokenService creates a new TokenService from the two signing secrets.
func NewTokenService(accessSecret, refreshSecret, issuer string, accessTTL, refreshTTL time.Duration) (*TokenService, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, fmt.Errorf("sec: token secrets must not be empty")
	}

	if accessSecret == refreshSecret {
		return nil, fmt.Errorf("sec: access and refresh secrets must differ")
	}

	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		issuer:        issuer,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}, nil
}

// # Token Generation

// GenerateAccessToken creates a new short-lived JWT access token for a user.
func (service *TokenService) GenerateAccessToken(userID, username string) (string, error) {
	currentTime := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(service.accessTTL)),
		},
		UserID:   userID,
		Username: username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.accessSecret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign access token: %w", err)
	}

	return signedToken, nil
}

// GenerateRefreshToken creates a new long-lived JWT refresh token for a user.
//
// The caller (session lifecycle) is responsible for persisting this value
// onto the user record; this service keeps no state.
func (service *TokenService) GenerateRefreshToken(userID string) (string, error) {
	currentTime := time.Now()
	claims := RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			// Unique token ID so successive tokens for the same subject never
			// collide on second-precision timestamps.
			ID:        uuid.New(),
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(service.refreshTTL)),
		},
		UserID: userID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.refreshSecret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign refresh token: %w", err)
	}

	return signedToken, nil
}

// AccessTokenTTL exposes the configured access-token lifetime for transport
// metadata (cookie expiry, expires_in fields).
func (service *TokenService) AccessTokenTTL() time.Duration { return service.accessTTL }

// RefreshTokenTTL exposes the configured refresh-token lifetime.
func (service *TokenService) RefreshTokenTTL() time.Duration { return service.refreshTTL }

// # Token Verification

// VerifyAccessToken checks the signature and validity of an access token string.
//
// # Errors
//
// Returns [apperr.ExpiredToken] for a stale token and [apperr.InvalidToken]
// for every other verification failure. Both are terminal for the request.
func (service *TokenService) VerifyAccessToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, service.keyFunc(service.accessSecret))
	if err != nil {
		return nil, classifyTokenError(err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, apperr.InvalidToken()
	}

	return claims, nil
}

// VerifyRefreshToken checks the signature and validity of a refresh token string.
//
// A passing result only proves the token was issued by us and has not
// expired. The session lifecycle must still compare it against the value
// stored on the user record before trusting it.
func (service *TokenService) VerifyRefreshToken(tokenString string) (*RefreshClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &RefreshClaims{}, service.keyFunc(service.refreshSecret))
	if err != nil {
		return nil, classifyTokenError(err)
	}

	claims, ok := token.Claims.(*RefreshClaims)
	if !ok || !token.Valid {
		return nil, apperr.InvalidToken()
	}

	return claims, nil
}

// keyFunc builds a jwt.Keyfunc that rejects any non-HMAC signing method
// before releasing the secret.
func (service *TokenService) keyFunc(secret []byte) jwt.Keyfunc {
	return func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}
}

// classifyTokenError maps jwt/v5 parse failures onto the session error taxonomy.
func classifyTokenError(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return apperr.ExpiredToken()
	}
	return apperr.InvalidToken()
}
