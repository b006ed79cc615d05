// Copyright (c) 2026 Clipstream. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// PostgreSQL implementation of the channel read repository.
//
// # Query Shape
//
// Profile counts and the subscription flag are computed inline with
// correlated subqueries against users.subscription; watch history is a
// three-way join ordered by watch time. Everything is shaped in SQL so the
// Go layer only scans.

package channel

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/clipstream/internal/platform/apperr"
)

// PostgresRepository implements the channel [Repository] interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the channel [Repository].
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
FindProfileByUsername resolves a channel profile relative to a viewer.

Parameters:
  - context: context.Context
  - username: string (lowercased handle)
  - viewerID: string

Returns:
  - *Profile: Counts and subscription flag populated
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresRepository) FindProfileByUsername(context context.Context, username, viewerID string) (*Profile, error) {
	const query = `
		SELECT
			channel.id,
			channel.username,
			channel.fullname,
			channel.avatarurl,
			COALESCE(channel.coverimageurl, ''),
			(SELECT count(*) FROM users.subscription WHERE channelid = channel.id),
			(SELECT count(*) FROM users.subscription WHERE subscriberid = channel.id),
			EXISTS (
				SELECT 1 FROM users.subscription
				WHERE channelid = channel.id AND subscriberid = $2
			)
		FROM users.account AS channel
		WHERE channel.username = $1`

	profile := &Profile{}
	err := repository.pool.QueryRow(context, query, username, viewerID).Scan(
		&profile.ID,
		&profile.Username,
		&profile.FullName,
		&profile.AvatarURL,
		&profile.CoverImageURL,
		&profile.SubscribersCount,
		&profile.SubscribedToCount,
		&profile.IsSubscribed,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Channel")
		}
		return nil, fmt.Errorf("postgres_channel_repo_find_profile_failed: %w", err)
	}

	return profile, nil
}

/*
ListWatchHistory returns one page of watch history with the total count.

Description: The video owner is embedded per entry. Deleted videos or owners
drop out of the page via the inner joins.

Parameters:
  - context: context.Context
  - userID: string
  - limit: int
  - offset: int

Returns:
  - []HistoryEntry: Empty slice (never nil) when no history exists
  - int: Total number of history entries
  - error: Execution errors
*/
func (repository *PostgresRepository) ListWatchHistory(context context.Context, userID string, limit, offset int) ([]HistoryEntry, int, error) {
	const countQuery = `
		SELECT count(*)
		FROM users.watchhistory AS history
		JOIN media.video AS video ON video.id = history.videoid
		WHERE history.userid = $1`

	var total int
	if err := repository.pool.QueryRow(context, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_channel_repo_history_count_failed: %w", err)
	}

	const pageQuery = `
		SELECT
			video.id,
			video.title,
			video.description,
			video.thumbnailurl,
			video.videourl,
			video.duration,
			video.views,
			history.watchedat,
			owner.id,
			owner.username,
			owner.fullname,
			owner.avatarurl
		FROM users.watchhistory AS history
		JOIN media.video AS video ON video.id = history.videoid
		JOIN users.account AS owner ON owner.id = video.ownerid
		WHERE history.userid = $1
		ORDER BY history.watchedat DESC
		LIMIT $2 OFFSET $3`

	rows, err := repository.pool.Query(context, pageQuery, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_channel_repo_history_page_failed: %w", err)
	}
	defer rows.Close()

	entries := make([]HistoryEntry, 0, limit)
	for rows.Next() {
		var entry HistoryEntry
		err := rows.Scan(
			&entry.VideoID,
			&entry.Title,
			&entry.Description,
			&entry.ThumbnailURL,
			&entry.VideoURL,
			&entry.Duration,
			&entry.Views,
			&entry.WatchedAt,
			&entry.Owner.ID,
			&entry.Owner.Username,
			&entry.Owner.FullName,
			&entry.Owner.AvatarURL,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_channel_repo_history_scan_failed: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_channel_repo_history_rows_failed: %w", err)
	}

	return entries, total, nil
}
