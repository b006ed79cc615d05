// Copyright (c) 2026 Clipstream. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account implements the account management layer: registration,
profile retrieval, and mutation of account details and profile media.

# Architecture

The package operates on the same [auth.User] entity that the session layer
owns; it never touches credential or session fields beyond what registration
requires (the initial password hash).

# Media

Avatar and cover-image bytes are pushed to the external object store before
any row is written; only the resulting public URLs are persisted.
*/
package account

import (
	"context"

	"github.com/taibuivan/clipstream/internal/users/auth"
)

// # Data Access

// Repository defines the data access contract for account management.
type Repository interface {

	/*
		Create persists a new account row.

		Parameters:
		  - context: context.Context
		  - user: *auth.User (ID, timestamps and hash already populated)

		Returns:
		  - error: apperr.Conflict on duplicate username/email, or
		    persistence failures
	*/
	Create(context context.Context, user *auth.User) error

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *auth.User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByID(context context.Context, id string) (*auth.User, error)

	/*
		ExistsByUsernameOrEmail reports whether any account already claims
		the given username (case-insensitive) or email.

		Parameters:
		  - context: context.Context
		  - username: string
		  - email: string

		Returns:
		  - bool: true when a collision exists
		  - error: Database retrieval failures
	*/
	ExistsByUsernameOrEmail(context context.Context, username, email string) (bool, error)

	/*
		UpdateDetails replaces the mutable profile fields (fullname, email).

		Parameters:
		  - context: context.Context
		  - userID: string
		  - fullName: string
		  - email: string

		Returns:
		  - *auth.User: The updated entity
		  - error: apperr.NotFound, apperr.Conflict (email taken), or
		    persistence failures
	*/
	UpdateDetails(context context.Context, userID, fullName, email string) (*auth.User, error)

	/*
		UpdateAvatarURL replaces the stored avatar URL.

		Returns:
		  - *auth.User: The updated entity
		  - error: apperr.NotFound or persistence failures
	*/
	UpdateAvatarURL(context context.Context, userID, url string) (*auth.User, error)

	/*
		UpdateCoverImageURL replaces the stored cover image URL.

		Returns:
		  - *auth.User: The updated entity
		  - error: apperr.NotFound or persistence failures
	*/
	UpdateCoverImageURL(context context.Context, userID, url string) (*auth.User, error)
}
