// Copyright (c) 2026 Clipstream. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the user identity and session lifecycle layer.

It defines the core domain entities (User, PublicUser) and logic for
authentication and the paired access/refresh token session model.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to user identity.

# Session Model

Each account holds AT MOST one live refresh token, denormalized onto the user
record itself. Login and refresh overwrite it (revocation-by-overwrite);
logout clears it. A refresh token is trusted only when it both verifies
cryptographically and equals the stored value.
*/
package auth

import (
	"time"
)

// # Domain Entities

// User represents a registered member of the Clipstream platform.
//
// PasswordHash and RefreshToken never leave the service layer; external
// responses use the [PublicUser] projection instead.
type User struct {
	ID            string
	Username      string
	Email         string
	FullName      string
	PasswordHash  string
	AvatarURL     string
	CoverImageURL string
	// RefreshToken is the single live refresh token for this account,
	// nil when no session is active.
	RefreshToken *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicUser is the transport-safe projection of a [User].
//
// # Why a separate type?
//
// The credential fields are excluded STATICALLY rather than stripped at
// serialization time, so no handler can leak them by accident.
type PublicUser struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	FullName      string    `json:"full_name"`
	AvatarURL     string    `json:"avatar_url"`
	CoverImageURL string    `json:"cover_image_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Public returns the transport-safe projection of the user.
func (user *User) Public() *PublicUser {
	return &PublicUser{
		ID:            user.ID,
		Username:      user.Username,
		Email:         user.Email,
		FullName:      user.FullName,
		AvatarURL:     user.AvatarURL,
		CoverImageURL: user.CoverImageURL,
		CreatedAt:     user.CreatedAt,
	}
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldUsername    = "username"
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldFullName    = "full_name"
	FieldLogin       = "login"
	FieldToken       = "token"
	FieldOldPassword = "old_password"
	FieldNewPassword = "new_password"
	FieldAccessToken = "access_token"
	FieldTokenType   = "token_type"
	FieldExpiresIn   = "expires_in"
	FieldUser        = "user"
	FieldMessage     = "message"
)
