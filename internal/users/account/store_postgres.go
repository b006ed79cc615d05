// Copyright (c) 2026 Clipstream. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// PostgreSQL implementation of the account repository.
//
// # Error Mapping
//
// Unique-index violations surface as apperr.Conflict via dberr.Wrap so the
// database stays the authoritative guard against registration races.

package account

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/clipstream/internal/platform/dberr"
	"github.com/taibuivan/clipstream/internal/users/auth"
)

// # Account Repository

// PostgresRepository implements the account [Repository] interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the account [Repository].
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const accountColumns = `
	id, username, email, fullname, passwordhash, avatarurl, COALESCE(coverimageurl, ''), refreshtoken, createdat, updatedat`

// scanAccount hydrates a single account row.
func scanAccount(row pgx.Row) (*auth.User, error) {
	user := &auth.User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FullName,
		&user.PasswordHash,
		&user.AvatarURL,
		&user.CoverImageURL,
		&user.RefreshToken,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

/*
Create persists a new account row.

Parameters:
  - context: context.Context
  - user: *auth.User

Returns:
  - error: apperr.Conflict on duplicate username/email, or execution errors
*/
func (repository *PostgresRepository) Create(context context.Context, user *auth.User) error {
	const query = `
		INSERT INTO users.account
			(id, username, email, fullname, passwordhash, avatarurl, coverimageurl, createdat, updatedat)
		VALUES
			($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9)`

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.FullName,
		user.PasswordHash,
		user.AvatarURL,
		user.CoverImageURL,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "Username or email already in use")
	}

	return nil
}

/*
FindByID retrieves an account by its primary key.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *auth.User: Hydrated entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*auth.User, error) {
	const query = `
		SELECT` + accountColumns + `
		FROM users.account
		WHERE id = $1`

	user, err := scanAccount(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "")
	}

	return user, nil
}

/*
ExistsByUsernameOrEmail reports whether the username or email is taken.

Description: Pre-insert collision probe. The unique indexes remain the
final arbiter under concurrency.

Parameters:
  - context: context.Context
  - username: string (already lowercased)
  - email: string

Returns:
  - bool: true when a collision exists
  - error: Execution errors
*/
func (repository *PostgresRepository) ExistsByUsernameOrEmail(context context.Context, username, email string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1
			FROM users.account
			WHERE username = $1 OR email = $2
		)`

	var exists bool
	if err := repository.pool.QueryRow(context, query, username, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres_account_repo_exists_check_failed: %w", err)
	}

	return exists, nil
}

/*
UpdateDetails replaces the mutable profile fields and returns the fresh row.

Parameters:
  - context: context.Context
  - userID: string
  - fullName: string
  - email: string

Returns:
  - *auth.User: Updated entity
  - error: apperr.NotFound, apperr.Conflict (email taken), or execution errors
*/
func (repository *PostgresRepository) UpdateDetails(context context.Context, userID, fullName, email string) (*auth.User, error) {
	const query = `
		UPDATE users.account
		SET fullname = $2, email = $3, updatedat = $4
		WHERE id = $1
		RETURNING` + accountColumns

	user, err := scanAccount(repository.pool.QueryRow(context, query, userID, fullName, email, time.Now()))
	if err != nil {
		return nil, dberr.Wrap(err, "Email already in use")
	}

	return user, nil
}

/*
UpdateAvatarURL replaces the stored avatar URL and returns the fresh row.

Returns:
  - *auth.User: Updated entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresRepository) UpdateAvatarURL(context context.Context, userID, url string) (*auth.User, error) {
	return repository.updateMediaURL(context, "avatarurl", userID, url)
}

/*
UpdateCoverImageURL replaces the stored cover image URL and returns the fresh row.

Returns:
  - *auth.User: Updated entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresRepository) UpdateCoverImageURL(context context.Context, userID, url string) (*auth.User, error) {
	return repository.updateMediaURL(context, "coverimageurl", userID, url)
}

// updateMediaURL performs a single-column URL update. The column name is a
// compile-time constant at every call site, never user input.
func (repository *PostgresRepository) updateMediaURL(context context.Context, column, userID, url string) (*auth.User, error) {
	query := `
		UPDATE users.account
		SET ` + column + ` = $2, updatedat = $3
		WHERE id = $1
		RETURNING` + accountColumns

	user, err := scanAccount(repository.pool.QueryRow(context, query, userID, url, time.Now()))
	if err != nil {
		return nil, dberr.Wrap(err, "")
	}

	return user, nil
}
