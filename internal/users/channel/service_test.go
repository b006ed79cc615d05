// Copyright (c) 2026 Clipstream. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package channel_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/clipstream/internal/platform/apperr"
	"github.com/taibuivan/clipstream/internal/users/channel"
	"github.com/taibuivan/clipstream/pkg/pagination"
)

// # Test Fakes

// fakeRepository serves canned profiles and history pages.
type fakeRepository struct {
	profiles map[string]*channel.Profile // by username
	history  []channel.HistoryEntry

	// lastViewerID records what the service passed down.
	lastViewerID string
}

func (repo *fakeRepository) FindProfileByUsername(_ context.Context, username, viewerID string) (*channel.Profile, error) {
	repo.lastViewerID = viewerID
	profile, ok := repo.profiles[username]
	if !ok {
		return nil, apperr.NotFound("Channel")
	}
	copied := *profile
	return &copied, nil
}

func (repo *fakeRepository) ListWatchHistory(_ context.Context, _ string, limit, offset int) ([]channel.HistoryEntry, int, error) {
	total := len(repo.history)
	if offset >= total {
		return []channel.HistoryEntry{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return repo.history[offset:end], total, nil
}

// # Channel Profile

/*
TestService_GetProfile verifies handle normalization and viewer passthrough.
*/
func TestService_GetProfile(t *testing.T) {
	repo := &fakeRepository{profiles: map[string]*channel.Profile{
		"taibuivan": {
			ID:                "user-1",
			Username:          "taibuivan",
			FullName:          "Tai Bui Van",
			SubscribersCount:  42,
			SubscribedToCount: 7,
			IsSubscribed:      true,
		},
	}}
	service := channel.NewService(repo)

	// Mixed-case, padded handle resolves case-insensitively.
	profile, err := service.GetProfile(context.Background(), "  TaiBuiVan  ", "viewer-9")
	require.NoError(t, err)

	assert.Equal(t, "taibuivan", profile.Username)
	assert.Equal(t, 42, profile.SubscribersCount)
	assert.True(t, profile.IsSubscribed)
	assert.Equal(t, "viewer-9", repo.lastViewerID)
}

/*
TestService_GetProfile_BlankHandle verifies a blank handle short-circuits
into a validation error before any query runs.
*/
func TestService_GetProfile_BlankHandle(t *testing.T) {
	service := channel.NewService(&fakeRepository{})

	_, err := service.GetProfile(context.Background(), "   ", "viewer-9")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

/*
TestService_GetProfile_NotFound verifies unknown channels surface NOT_FOUND.
*/
func TestService_GetProfile_NotFound(t *testing.T) {
	service := channel.NewService(&fakeRepository{profiles: map[string]*channel.Profile{}})

	_, err := service.GetProfile(context.Background(), "ghost", "viewer-9")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

/*
TestService_GetProfile_ZeroSubscribers verifies a fresh channel reports zero
counts and an unsubscribed viewer, never an error.
*/
func TestService_GetProfile_ZeroSubscribers(t *testing.T) {
	repo := &fakeRepository{profiles: map[string]*channel.Profile{
		"newchannel": {ID: "user-2", Username: "newchannel"},
	}}
	service := channel.NewService(repo)

	profile, err := service.GetProfile(context.Background(), "newchannel", "viewer-9")
	require.NoError(t, err)

	assert.Zero(t, profile.SubscribersCount)
	assert.Zero(t, profile.SubscribedToCount)
	assert.False(t, profile.IsSubscribed)
}

// # Watch History

func historyFixture(count int) []channel.HistoryEntry {
	entries := make([]channel.HistoryEntry, 0, count)
	for i := 0; i < count; i++ {
		entries = append(entries, channel.HistoryEntry{
			VideoID:   "video-" + string(rune('a'+i)),
			Title:     "Episode",
			WatchedAt: time.Now().Add(-time.Duration(i) * time.Hour),
			Owner:     channel.VideoOwner{ID: "owner-1", Username: "creator"},
		})
	}
	return entries
}

/*
TestService_GetWatchHistory verifies pagination plumbing and metadata.
*/
func TestService_GetWatchHistory(t *testing.T) {
	repo := &fakeRepository{history: historyFixture(5)}
	service := channel.NewService(repo)

	entries, meta, err := service.GetWatchHistory(context.Background(), "user-1", pagination.Params{Page: 1, Limit: 2})
	require.NoError(t, err)

	assert.Len(t, entries, 2)
	assert.Equal(t, 5, meta.Total)
	assert.Equal(t, 3, meta.TotalPages)

	// Second page picks up where the first left off.
	entries, _, err = service.GetWatchHistory(context.Background(), "user-1", pagination.Params{Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "video-c", entries[0].VideoID)
}

/*
TestService_GetWatchHistory_Empty verifies an empty history is an empty page,
not an error.
*/
func TestService_GetWatchHistory_Empty(t *testing.T) {
	service := channel.NewService(&fakeRepository{})

	entries, meta, err := service.GetWatchHistory(context.Background(), "user-1", pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)

	assert.NotNil(t, entries)
	assert.Empty(t, entries)
	assert.Zero(t, meta.Total)
	assert.Zero(t, meta.TotalPages)
}

/*
TestService_GetWatchHistory_PastEnd verifies pages beyond the data are empty.
*/
func TestService_GetWatchHistory_PastEnd(t *testing.T) {
	service := channel.NewService(&fakeRepository{history: historyFixture(3)})

	entries, meta, err := service.GetWatchHistory(context.Background(), "user-1", pagination.Params{Page: 5, Limit: 20})
	require.NoError(t, err)

	assert.Empty(t, entries)
	assert.Equal(t, 3, meta.Total)
}
