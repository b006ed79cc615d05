// Copyright (c) 2026 Clipstream. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Channel query service.

package channel

import (
	"context"
	"strings"

	"github.com/taibuivan/clipstream/internal/platform/validate"
	"github.com/taibuivan/clipstream/pkg/pagination"
)

// Service implements the channel read use cases.
type Service struct {
	channelRepository Repository
}

// NewService constructs the channel [Service] with its repository dependency.
func NewService(channelRepository Repository) *Service {
	return &Service{channelRepository: channelRepository}
}

/*
GetProfile resolves a channel profile relative to the viewing user.

Description: Username matching is case-insensitive. A channel nobody has
subscribed to reports zero counts and IsSubscribed false, never an error.

Parameters:
  - context: context.Context
  - username: string (channel handle from the URL)
  - viewerID: string (authenticated caller)

Returns:
  - *Profile: The viewer-relative channel profile
  - error: apperr.ValidationError (blank handle), apperr.NotFound
*/
func (service *Service) GetProfile(context context.Context, username, viewerID string) (*Profile, error) {
	handle := strings.ToLower(strings.TrimSpace(username))
	if handle == "" {
		return nil, validate.RequiredError("username", "Channel handle is required")
	}

	return service.channelRepository.FindProfileByUsername(context, handle, viewerID)
}

/*
GetWatchHistory returns one page of the caller's watch history.

Description: Entries are ordered newest first. An empty history yields an
empty page, never an error.

Parameters:
  - context: context.Context
  - userID: string
  - params: pagination.Params

Returns:
  - []HistoryEntry: The requested page
  - pagination.Meta: Page metadata with the total entry count
  - error: Database retrieval failures
*/
func (service *Service) GetWatchHistory(context context.Context, userID string, params pagination.Params) ([]HistoryEntry, pagination.Meta, error) {
	entries, total, err := service.channelRepository.ListWatchHistory(context, userID, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return entries, pagination.NewMeta(params.Page, params.Limit, total), nil
}
