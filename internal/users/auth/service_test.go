// Copyright (c) 2026 Clipstream. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/clipstream/internal/platform/apperr"
	"github.com/taibuivan/clipstream/internal/platform/sec"
	"github.com/taibuivan/clipstream/internal/users/auth"
)

// # Test Fakes

// fakeUserRepository is an in-memory UserRepository keyed by user ID.
type fakeUserRepository struct {
	users map[string]*auth.User

	// lookupErr, when set, is returned by FindByLogin to simulate storage
	// failures that are not a missing row.
	lookupErr error
}

func newFakeUserRepository(users ...*auth.User) *fakeUserRepository {
	repo := &fakeUserRepository{users: make(map[string]*auth.User)}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (repo *fakeUserRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	user, ok := repo.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	copied := *user
	return &copied, nil
}

func (repo *fakeUserRepository) FindByLogin(_ context.Context, login string) (*auth.User, error) {
	if repo.lookupErr != nil {
		return nil, repo.lookupErr
	}
	for _, user := range repo.users {
		if user.Username == login || user.Email == login {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *fakeUserRepository) UpdateRefreshToken(_ context.Context, userID string, token *string) error {
	user, ok := repo.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	if token == nil {
		user.RefreshToken = nil
		return nil
	}
	value := *token
	user.RefreshToken = &value
	return nil
}

func (repo *fakeUserRepository) UpdatePassword(_ context.Context, userID, newHash string) error {
	user, ok := repo.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.PasswordHash = newHash
	return nil
}

// fakeResetTokenRepository is an in-memory token -> userID map.
type fakeResetTokenRepository struct {
	tokens map[string]string
}

func newFakeResetTokenRepository() *fakeResetTokenRepository {
	return &fakeResetTokenRepository{tokens: make(map[string]string)}
}

func (repo *fakeResetTokenRepository) Set(_ context.Context, token, userID string, _ time.Duration) error {
	repo.tokens[token] = userID
	return nil
}

func (repo *fakeResetTokenRepository) Get(_ context.Context, token string) (string, error) {
	userID, ok := repo.tokens[token]
	if !ok {
		return "", apperr.NotFound("Reset token")
	}
	return userID, nil
}

func (repo *fakeResetTokenRepository) Delete(_ context.Context, token string) error {
	delete(repo.tokens, token)
	return nil
}

// fakeTokenProvider issues deterministic token strings so tests can assert
// on session wiring without parsing JWTs.
type fakeTokenProvider struct {
	counter  int
	subjects map[string]string
}

func newFakeTokenProvider() *fakeTokenProvider {
	return &fakeTokenProvider{subjects: make(map[string]string)}
}

func (provider *fakeTokenProvider) GenerateAccessToken(userID, _ string) (string, error) {
	provider.counter++
	return fmt.Sprintf("access-%s-%d", userID, provider.counter), nil
}

func (provider *fakeTokenProvider) GenerateRefreshToken(userID string) (string, error) {
	provider.counter++
	token := fmt.Sprintf("refresh-%s-%d", userID, provider.counter)
	provider.subjects[token] = userID
	return token, nil
}

func (provider *fakeTokenProvider) VerifyRefreshToken(tokenString string) (*sec.RefreshClaims, error) {
	userID, ok := provider.subjects[tokenString]
	if !ok {
		return nil, apperr.InvalidToken()
	}
	return &sec.RefreshClaims{UserID: userID}, nil
}

func (provider *fakeTokenProvider) AccessTokenTTL() time.Duration  { return 15 * time.Minute }
func (provider *fakeTokenProvider) RefreshTokenTTL() time.Duration { return 10 * 24 * time.Hour }

// # Fixtures

func seedUser(t *testing.T, password string) *auth.User {
	t.Helper()

	hash, err := sec.HashPassword(password)
	require.NoError(t, err)

	return &auth.User{
		ID:           "user-1",
		Username:     "taibuivan",
		Email:        "tai@clipstream.app",
		FullName:     "Tai Bui Van",
		PasswordHash: hash,
		AvatarURL:    "https://cdn.clipstream.app/avatars/tai.png",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

func newTestService(users *fakeUserRepository) (*auth.Service, *fakeResetTokenRepository) {
	resetRepo := newFakeResetTokenRepository()
	return auth.NewService(users, resetRepo, newFakeTokenProvider()), resetRepo
}

// # Login

/*
TestService_Login_Success verifies a valid login issues a session and
persists the refresh token on the account.
*/
func TestService_Login_Success(t *testing.T) {
	user := seedUser(t, "hunter2hunter2")
	repo := newFakeUserRepository(user)
	service, _ := newTestService(repo)

	session, err := service.Login(context.Background(), auth.LoginInput{
		Login:    "taibuivan",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)
	assert.Equal(t, "taibuivan", session.User.Username)
	assert.True(t, session.AccessTokenExpiresAt.After(time.Now()))
	assert.True(t, session.RefreshTokenExpiresAt.After(session.AccessTokenExpiresAt))

	// The session token is now the ONE stored on the record.
	stored := repo.users[user.ID].RefreshToken
	require.NotNil(t, stored)
	assert.Equal(t, session.RefreshToken, *stored)
}

/*
TestService_Login_ByEmail verifies the identifier resolves as email too.
*/
func TestService_Login_ByEmail(t *testing.T) {
	repo := newFakeUserRepository(seedUser(t, "hunter2hunter2"))
	service, _ := newTestService(repo)

	session, err := service.Login(context.Background(), auth.LoginInput{
		Login:    "tai@clipstream.app",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	assert.Equal(t, "taibuivan", session.User.Username)
}

/*
TestService_Login_Failures verifies unknown users and wrong passwords are
indistinguishable (both INVALID_CREDENTIALS).
*/
func TestService_Login_Failures(t *testing.T) {
	repo := newFakeUserRepository(seedUser(t, "hunter2hunter2"))
	service, _ := newTestService(repo)

	tests := []struct {
		name     string
		login    string
		password string
	}{
		{"unknown_user", "nobody", "hunter2hunter2"},
		{"wrong_password", "taibuivan", "wrong-password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Login(context.Background(), auth.LoginInput{
				Login:    tt.login,
				Password: tt.password,
			})
			require.Error(t, err)
			assert.Equal(t, "INVALID_CREDENTIALS", apperr.As(err).Code)
		})
	}
}

/*
TestService_Login_StorageFailure verifies a lookup failure that is not a
missing row surfaces as an internal error, not INVALID_CREDENTIALS.
*/
func TestService_Login_StorageFailure(t *testing.T) {
	repo := newFakeUserRepository(seedUser(t, "hunter2hunter2"))
	repo.lookupErr = errors.New("connection refused")
	service, _ := newTestService(repo)

	_, err := service.Login(context.Background(), auth.LoginInput{
		Login:    "taibuivan",
		Password: "hunter2hunter2",
	})
	require.Error(t, err)
	require.ErrorIs(t, err, repo.lookupErr)
	assert.Nil(t, apperr.As(err))
}

// # Refresh Rotation

/*
TestService_Refresh_Rotation verifies rotation-on-use: a refresh yields a new
pair, and replaying the rotated-out token is rejected as TOKEN_MISMATCH.
*/
func TestService_Refresh_Rotation(t *testing.T) {
	user := seedUser(t, "hunter2hunter2")
	repo := newFakeUserRepository(user)
	service, _ := newTestService(repo)

	first, err := service.Login(context.Background(), auth.LoginInput{
		Login:    "taibuivan",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	// Legitimate rotation.
	second, err := service.Refresh(context.Background(), first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	stored := repo.users[user.ID].RefreshToken
	require.NotNil(t, stored)
	assert.Equal(t, second.RefreshToken, *stored)

	// Replaying the rotated-out token must fail.
	_, err = service.Refresh(context.Background(), first.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, "TOKEN_MISMATCH", apperr.As(err).Code)

	// The current token still works.
	_, err = service.Refresh(context.Background(), second.RefreshToken)
	assert.NoError(t, err)
}

/*
TestService_Refresh_Rotation_SignedTokens verifies rotation-on-use with the
real signing service: a login followed by an immediate refresh (same-second
issuance) must still produce a different token, otherwise
revocation-by-overwrite is a no-op and the stale token keeps verifying.
*/
func TestService_Refresh_Rotation_SignedTokens(t *testing.T) {
	tokens, err := sec.NewTokenService(
		"access-secret-for-tests",
		"refresh-secret-for-tests",
		"clipstream.app",
		15*time.Minute,
		10*24*time.Hour,
	)
	require.NoError(t, err)

	user := seedUser(t, "hunter2hunter2")
	repo := newFakeUserRepository(user)
	service := auth.NewService(repo, newFakeResetTokenRepository(), tokens)

	first, err := service.Login(context.Background(), auth.LoginInput{
		Login:    "taibuivan",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	second, err := service.Refresh(context.Background(), first.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// The rotated-out token still verifies cryptographically but no longer
	// matches the stored value.
	_, err = service.Refresh(context.Background(), first.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, "TOKEN_MISMATCH", apperr.As(err).Code)

	_, err = service.Refresh(context.Background(), second.RefreshToken)
	assert.NoError(t, err)
}

/*
TestService_Refresh_MissingToken verifies an absent token is a distinct failure.
*/
func TestService_Refresh_MissingToken(t *testing.T) {
	service, _ := newTestService(newFakeUserRepository(seedUser(t, "hunter2hunter2")))

	_, err := service.Refresh(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, "MISSING_TOKEN", apperr.As(err).Code)
}

/*
TestService_Refresh_InvalidToken verifies unverifiable tokens are rejected.
*/
func TestService_Refresh_InvalidToken(t *testing.T) {
	service, _ := newTestService(newFakeUserRepository(seedUser(t, "hunter2hunter2")))

	_, err := service.Refresh(context.Background(), "never-issued")
	require.Error(t, err)
	assert.Equal(t, "INVALID_TOKEN", apperr.As(err).Code)
}

/*
TestService_Logout_RevokesRefresh verifies logout clears the stored token and
kills outstanding refresh tokens.
*/
func TestService_Logout_RevokesRefresh(t *testing.T) {
	user := seedUser(t, "hunter2hunter2")
	repo := newFakeUserRepository(user)
	service, _ := newTestService(repo)

	session, err := service.Login(context.Background(), auth.LoginInput{
		Login:    "taibuivan",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	require.NoError(t, service.Logout(context.Background(), user.ID))
	assert.Nil(t, repo.users[user.ID].RefreshToken)

	// A still-verifiable token no longer matches the (cleared) record.
	_, err = service.Refresh(context.Background(), session.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, "TOKEN_MISMATCH", apperr.As(err).Code)
}

// # Password Management

/*
TestService_ChangePassword verifies the old password gate and the new hash.
*/
func TestService_ChangePassword(t *testing.T) {
	user := seedUser(t, "old-password-1")
	repo := newFakeUserRepository(user)
	service, _ := newTestService(repo)

	// Wrong current password is rejected.
	err := service.ChangePassword(context.Background(), user.ID, "not-the-password", "new-password-1")
	require.Error(t, err)
	assert.Equal(t, "INVALID_CREDENTIALS", apperr.As(err).Code)

	// Correct current password applies the change.
	require.NoError(t, service.ChangePassword(context.Background(), user.ID, "old-password-1", "new-password-1"))
	assert.True(t, sec.CheckPasswordHash("new-password-1", repo.users[user.ID].PasswordHash))
	assert.False(t, sec.CheckPasswordHash("old-password-1", repo.users[user.ID].PasswordHash))
}

// # Password Recovery

/*
TestService_PasswordReset verifies the full recovery round trip and the
anti-enumeration behavior for unknown emails.
*/
func TestService_PasswordReset(t *testing.T) {
	user := seedUser(t, "old-password-1")
	repo := newFakeUserRepository(user)
	service, resetRepo := newTestService(repo)

	// Unknown email: silent success, no token issued.
	token, err := service.RequestPasswordReset(context.Background(), "ghost@clipstream.app")
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Empty(t, resetRepo.tokens)

	// Known email: a token lands in the volatile store.
	token, err = service.RequestPasswordReset(context.Background(), "tai@clipstream.app")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, user.ID, resetRepo.tokens[token])

	// Completing the flow updates the hash, revokes the session, burns the token.
	live := "live-refresh-token"
	repo.users[user.ID].RefreshToken = &live

	require.NoError(t, service.ResetPassword(context.Background(), token, "brand-new-pass-1"))
	assert.True(t, sec.CheckPasswordHash("brand-new-pass-1", repo.users[user.ID].PasswordHash))
	assert.Nil(t, repo.users[user.ID].RefreshToken)
	assert.Empty(t, resetRepo.tokens)

	// The burned token cannot be replayed.
	err = service.ResetPassword(context.Background(), token, "another-pass-1")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}
