// Copyright (c) 2026 Clipstream. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Account management service: registration and profile mutation logic.
//
// # Responsibility
//
// Orchestrates uniqueness checks, password hashing, media uploads and
// persistence. Transport-level validation happens before this layer; the
// service re-checks only the rules it must own (normalization, collisions).

package account

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/taibuivan/clipstream/internal/media"
	"github.com/taibuivan/clipstream/internal/platform/apperr"
	"github.com/taibuivan/clipstream/internal/platform/sec"
	"github.com/taibuivan/clipstream/internal/users/auth"
	"github.com/taibuivan/clipstream/pkg/uuid"
)

// Object store folders for profile media.
const (
	folderAvatars = "avatars"
	folderCovers  = "covers"
)

// # Service

// Service implements account management use cases.
type Service struct {
	accountRepository Repository
	mediaStore        media.Store
}

// NewService constructs the account [Service] with its dependencies.
func NewService(accountRepository Repository, mediaStore media.Store) *Service {
	return &Service{
		accountRepository: accountRepository,
		mediaStore:        mediaStore,
	}
}

// # Inputs

// RegisterInput carries the staged registration payload.
type RegisterInput struct {
	Username string
	Email    string
	FullName string
	Password string

	// Avatar is mandatory; CoverImage is optional (nil when absent).
	Avatar     *media.Asset
	CoverImage *media.Asset
}

// UpdateDetailsInput carries the mutable profile fields.
type UpdateDetailsInput struct {
	FullName string
	Email    string
}

// # Use Cases

/*
Register creates a new account.

Description: Normalizes the identity fields, rejects username/email
collisions, uploads the profile media, hashes the password and persists the
account row. Media is uploaded BEFORE the row is written; a failed insert
does not remove already-uploaded objects.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *auth.PublicUser: The created account, transport-safe projection
  - error: apperr.Conflict, apperr.UploadFailed, or persistence failures
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*auth.PublicUser, error) {

	// Usernames are persisted lowercase so lookups stay case-insensitive.
	username := strings.ToLower(strings.TrimSpace(input.Username))
	email := strings.TrimSpace(input.Email)
	fullName := strings.TrimSpace(input.FullName)

	// Cheap pre-check for a friendly error; the unique indexes remain the
	// authoritative guard against races.
	taken, err := service.accountRepository.ExistsByUsernameOrEmail(context, username, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Conflict("Username or email already in use")
	}

	avatarURL, err := service.uploadAsset(context, folderAvatars, "avatar", input.Avatar)
	if err != nil {
		return nil, err
	}

	coverImageURL := ""
	if input.CoverImage != nil {
		coverImageURL, err = service.uploadAsset(context, folderCovers, "cover_image", input.CoverImage)
		if err != nil {
			return nil, err
		}
	}

	passwordHash, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	now := time.Now()
	user := &auth.User{
		ID:            uuid.New(),
		Username:      username,
		Email:         email,
		FullName:      fullName,
		PasswordHash:  passwordHash,
		AvatarURL:     avatarURL,
		CoverImageURL: coverImageURL,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := service.accountRepository.Create(context, user); err != nil {
		return nil, err
	}

	return user.Public(), nil
}

/*
GetCurrent returns the authenticated user's own profile.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *auth.PublicUser: Transport-safe projection
  - error: apperr.NotFound or retrieval failures
*/
func (service *Service) GetCurrent(context context.Context, userID string) (*auth.PublicUser, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}

/*
UpdateDetails replaces the mutable profile fields of the account.

Parameters:
  - context: context.Context
  - userID: string
  - input: UpdateDetailsInput

Returns:
  - *auth.PublicUser: The updated profile
  - error: apperr.NotFound, apperr.Conflict, or persistence failures
*/
func (service *Service) UpdateDetails(context context.Context, userID string, input UpdateDetailsInput) (*auth.PublicUser, error) {
	user, err := service.accountRepository.UpdateDetails(
		context,
		userID,
		strings.TrimSpace(input.FullName),
		strings.TrimSpace(input.Email),
	)
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}

/*
UpdateAvatar uploads a new avatar and persists its public URL.

Parameters:
  - context: context.Context
  - userID: string
  - asset: *media.Asset

Returns:
  - *auth.PublicUser: The updated profile
  - error: apperr.UploadFailed, apperr.NotFound, or persistence failures
*/
func (service *Service) UpdateAvatar(context context.Context, userID string, asset *media.Asset) (*auth.PublicUser, error) {
	url, err := service.uploadAsset(context, folderAvatars, "avatar", asset)
	if err != nil {
		return nil, err
	}

	user, err := service.accountRepository.UpdateAvatarURL(context, userID, url)
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}

/*
UpdateCoverImage uploads a new cover image and persists its public URL.

Parameters:
  - context: context.Context
  - userID: string
  - asset: *media.Asset

Returns:
  - *auth.PublicUser: The updated profile
  - error: apperr.UploadFailed, apperr.NotFound, or persistence failures
*/
func (service *Service) UpdateCoverImage(context context.Context, userID string, asset *media.Asset) (*auth.PublicUser, error) {
	url, err := service.uploadAsset(context, folderCovers, "cover_image", asset)
	if err != nil {
		return nil, err
	}

	user, err := service.accountRepository.UpdateCoverImageURL(context, userID, url)
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}

// # Internals

// uploadAsset pushes the asset to the media store and demands a usable URL.
func (service *Service) uploadAsset(context context.Context, folder, label string, asset *media.Asset) (string, error) {
	if asset == nil {
		return "", apperr.UploadFailed(label, errors.New("no file staged"))
	}

	url, err := service.mediaStore.Upload(context, folder, *asset)
	if err != nil {
		return "", apperr.UploadFailed(label, err)
	}
	if url == "" {
		return "", apperr.UploadFailed(label, errors.New("store returned empty URL"))
	}

	return url, nil
}
