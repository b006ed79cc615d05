// Copyright (c) 2026 Clipstream. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the core session lifecycle of the platform.

It handles login, logout, refresh-token rotation, password change, and the
password recovery flow (reset tokens stored in Redis).

Architecture:

  - Service: Orchestrates the session state machine
    (Anonymous -> Authenticated -> Refreshed* -> LoggedOut).
  - Repository: Abstracted interfaces for Postgres (Users) and Redis (Reset tokens).
  - Security: Leverages Bcrypt hashing and HMAC-signed JWT pairs.

The package ensures that at most one refresh token is live per account at any
point in time.
*/
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/taibuivan/clipstream/internal/platform/apperr"
	"github.com/taibuivan/clipstream/internal/platform/sec"
)

// # Contracts & Types

// TokenProvider defines the contract for generating and verifying session tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed, short-lived JWT string for the given user.
	GenerateAccessToken(userID, username string) (string, error)

	// GenerateRefreshToken creates a signed, long-lived JWT string for the given user.
	GenerateRefreshToken(userID string) (string, error)

	// VerifyRefreshToken checks signature and expiry of a refresh token.
	//
	// # Returns
	//   - The embedded claims on success.
	//   - apperr.InvalidToken or apperr.ExpiredToken on failure.
	VerifyRefreshToken(tokenString string) (*sec.RefreshClaims, error)

	// AccessTokenTTL reports the configured access token lifetime.
	AccessTokenTTL() time.Duration

	// RefreshTokenTTL reports the configured refresh token lifetime.
	RefreshTokenTTL() time.Duration
}

// Service implements the session lifecycle use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, login,
// or rotation logic must be reviewed by the security team.
type Service struct {
	userRepository       UserRepository
	resetTokenRepository ResetTokenRepository
	tokenProvider        TokenProvider
}

// NewService constructs a new auth [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	resetRepo ResetTokenRepository,
	tokenProv TokenProvider,
) *Service {
	return &Service{
		userRepository:       userRepo,
		resetTokenRepository: resetRepo,
		tokenProvider:        tokenProv,
	}
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Login    string // Can be Username or Email
	Password string
}

// LoginSession represents a successfully established user session.
type LoginSession struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	User                  *PublicUser
}

/*
Login validates user credentials and issues the paired session tokens.

Description: Resolves the identifier as username or email, performs a
constant-time password comparison, and persists the fresh refresh token onto
the user record — implicitly revoking any prior session.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Transport-ready session credentials
  - error: InvalidCredentials or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {

	// Flexible login: look up by Username or Email in one shot. An unknown
	// identifier gets the same generic failure as a wrong password to
	// prevent account enumeration; storage failures surface as themselves.
	user, err := service.userRepository.FindByLogin(context, input.Login)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.InvalidCredentials()
		}
		return nil, fmt.Errorf("auth_service_login_lookup_failed: %w", err)
	}

	// Verify password hash using constant-time comparison in bcrypt to prevent timing attacks
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.InvalidCredentials()
	}

	return service.establishSession(context, user)
}

/*
Logout permanently revokes the user's active session.

Description: Clears the stored refresh token, which makes every previously
issued refresh token unverifiable against this account.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Revocation failures
*/
func (service *Service) Logout(context context.Context, userID string) error {
	if err := service.userRepository.UpdateRefreshToken(context, userID, nil); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}
	return nil
}

// # Session Management

/*
Refresh implements the Refresh Token Rotation mechanism.

Description: Verifies the incoming refresh token cryptographically, then
compares it against the value stored on the account. A mismatch means the
token was rotated out (or the account logged out) and is being replayed.
On success a brand-new pair is issued and the stored token overwritten.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - *LoginSession: New session credentials
  - error: MissingToken, InvalidToken, ExpiredToken, TokenMismatch,
    Unauthorized, or storage failures
*/
func (service *Service) Refresh(context context.Context, refreshToken string) (*LoginSession, error) {

	// An absent token is a distinct, client-actionable failure.
	if refreshToken == "" {
		return nil, apperr.MissingToken()
	}

	// Cryptographic verification: signature and expiry.
	claims, err := service.tokenProvider.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	// The subject must still resolve to a live account.
	user, err := service.userRepository.FindByID(context, claims.UserID)
	if err != nil {
		return nil, apperr.Unauthorized("Refresh token does not match a known account")
	}

	// Revocation-by-overwrite check: the incoming token must be the ONE
	// currently stored on the record. Detects reuse of rotated-out tokens.
	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		return nil, apperr.TokenMismatch()
	}

	// Rotation-on-use: issue a fresh pair and overwrite the stored token.
	return service.establishSession(context, user)
}

// establishSession issues a fresh access/refresh pair and persists the new
// refresh token onto the user record (last-writer-wins on concurrent calls).
func (service *Service) establishSession(context context.Context, user *User) (*LoginSession, error) {

	// Generate short-lived Access Token
	accessToken, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("auth_service_access_token_failed: %w", err)
	}

	// Generate long-lived Refresh Token
	refreshToken, err := service.tokenProvider.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	// Persist the new refresh token, overwriting any prior value. This is
	// the single write that enforces the one-live-session invariant.
	if err := service.userRepository.UpdateRefreshToken(context, user.ID, &refreshToken); err != nil {
		return nil, fmt.Errorf("auth_service_session_persist_failed: %w", err)
	}

	currentTime := time.Now()
	return &LoginSession{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		AccessTokenExpiresAt:  currentTime.Add(service.tokenProvider.AccessTokenTTL()),
		RefreshTokenExpiresAt: currentTime.Add(service.tokenProvider.RefreshTokenTTL()),
		User:                  user.Public(),
	}, nil
}

// # Password Management

/*
ChangePassword allows an authenticated user to update their credentials.

Description: Verifies the current password before hashing and persisting the
replacement.

Parameters:
  - context: context.Context
  - userID: string
  - oldPassword: string
  - newPassword: string

Returns:
  - error: InvalidCredentials or storage failures
*/
func (service *Service) ChangePassword(context context.Context, userID, oldPassword, newPassword string) error {

	// Fetch user by ID
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return err
	}

	// Verify the current password before allowing change
	if !sec.CheckPasswordHash(oldPassword, user.PasswordHash) {
		return apperr.InvalidCredentials()
	}

	// Hash the brand new password
	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_change_password_hash_failed: %w", err)
	}

	// Update the database with the new hash
	if err := service.userRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_change_password_update_failed: %w", err)
	}

	return nil
}

// # Password Recovery

/*
RequestPasswordReset initiates the forgot-password flow.

Description: Generates a secure token and saves it to Redis.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - string: Recovery token
  - err: Generation errors
*/
func (service *Service) RequestPasswordReset(context context.Context, email string) (string, error) {
	// Look up user.
	// NOTE: We don't return NOT_FOUND if the email doesn't exist to prevent user enumeration.
	user, err := service.userRepository.FindByLogin(context, email)
	if err != nil {
		return "", nil
	}

	// Generate reset token
	token, err := sec.GenerateSecureToken(ResetTokenLength)
	if err != nil {
		return "", fmt.Errorf("auth_service_generate_reset_token_failed: %w", err)
	}

	// Save to Redis
	if err := service.resetTokenRepository.Set(context, token, user.ID, ResetTokenTTL); err != nil {
		return "", fmt.Errorf("auth_service_save_reset_token_failed: %w", err)
	}

	return token, nil
}

/*
ResetPassword completes the forgot-password flow.

Description: Verifies the token, hashes the new password, updates the DB,
and clears any live session for security cleanup.

Parameters:
  - context: context.Context
  - token: string
  - newPassword: string

Returns:
  - error: Validation or update failures
*/
func (service *Service) ResetPassword(context context.Context, token, newPassword string) error {

	// Retrieve the userID associated with the reset token from Redis
	userID, err := service.resetTokenRepository.Get(context, token)
	if err != nil {
		return err
	}

	// Hash the new password securely
	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_reset_password_hash_failed: %w", err)
	}

	// Update the user's password in persistent storage
	if err := service.userRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_reset_password_update_failed: %w", err)
	}

	// Security Cleanup: force re-login by revoking the live session
	_ = service.userRepository.UpdateRefreshToken(context, userID, nil)

	// Delete the used token from Redis
	_ = service.resetTokenRepository.Delete(context, token)

	return nil
}
