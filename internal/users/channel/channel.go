// Copyright (c) 2026 Clipstream. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package channel implements the read-only viewer-facing queries: public
channel profiles and the caller's watch history.

# Architecture

Both queries are served by explicit SQL joins over the account, subscription,
video and watch-history tables. The results are shaped directly into
transport-ready read models; no write path lives in this package.
*/
package channel

import (
	"context"
	"time"
)

// # Read Models

// Profile is the public, viewer-relative projection of a channel.
//
// Counts are computed per request; IsSubscribed reflects the relationship
// between the VIEWING user and the channel.
type Profile struct {
	ID                string `json:"id"`
	Username          string `json:"username"`
	FullName          string `json:"full_name"`
	AvatarURL         string `json:"avatar_url"`
	CoverImageURL     string `json:"cover_image_url,omitempty"`
	SubscribersCount  int    `json:"subscribers_count"`
	SubscribedToCount int    `json:"subscribed_to_count"`
	IsSubscribed      bool   `json:"is_subscribed"`
}

// VideoOwner is the embedded public subset of a video's owning channel.
type VideoOwner struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
}

// HistoryEntry is one watched video in the caller's history, newest first.
type HistoryEntry struct {
	VideoID      string     `json:"video_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	ThumbnailURL string     `json:"thumbnail_url"`
	VideoURL     string     `json:"video_url"`
	Duration     int        `json:"duration_seconds"`
	Views        int64      `json:"views"`
	WatchedAt    time.Time  `json:"watched_at"`
	Owner        VideoOwner `json:"owner"`
}

// # Data Access

// Repository defines the read contract for channel queries.
type Repository interface {

	/*
		FindProfileByUsername resolves a channel profile relative to a viewer.

		Parameters:
		  - context: context.Context
		  - username: string (already lowercased)
		  - viewerID: string (the authenticated caller)

		Returns:
		  - *Profile: Counts and subscription flag populated
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindProfileByUsername(context context.Context, username, viewerID string) (*Profile, error)

	/*
		ListWatchHistory returns one page of the user's watch history,
		ordered by watch time descending, with the total entry count.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - limit: int
		  - offset: int

		Returns:
		  - []HistoryEntry: Empty slice (never nil) when no history exists
		  - int: Total number of history entries for the user
		  - error: Database retrieval failures
	*/
	ListWatchHistory(context context.Context, userID string, limit, offset int) ([]HistoryEntry, int, error)
}
