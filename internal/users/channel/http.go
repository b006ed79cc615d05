// Copyright (c) 2026 Clipstream. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// HTTP delivery layer for the channel queries.

package channel

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/clipstream/internal/platform/middleware"
	requestutil "github.com/taibuivan/clipstream/internal/platform/request"
	"github.com/taibuivan/clipstream/internal/platform/respond"
	"github.com/taibuivan/clipstream/pkg/pagination"
)

// # Definitions & Constructors

// Handler implements the channel query HTTP endpoints.
type Handler struct {
	channelService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{channelService: service}
}

// Mount attaches the channel routes onto the shared users router.
//
// # Endpoints
//   - GET /c/{username} : (auth) Viewer-relative channel profile.
//   - GET /history      : (auth) Paginated watch history.
func (handler *Handler) Mount(router chi.Router) {
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/c/{username}", handler.channelProfile)
		r.Get("/history", handler.watchHistory)
	})
}

// # Handlers

/*
ChannelProfile returns a channel's public profile relative to the caller.

GET /api/v1/users/c/{username}

Response:
  - 200: Profile: Counts and the caller's subscription flag
  - 400: VALIDATION_ERROR: Blank handle
  - 404: NOT_FOUND: No such channel
*/
func (handler *Handler) channelProfile(writer http.ResponseWriter, request *http.Request) {
	viewerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.channelService.GetProfile(
		request.Context(),
		requestutil.Param(request, "username"),
		viewerID,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

/*
WatchHistory returns one page of the caller's watch history.

GET /api/v1/users/history?page=&limit=

Response:
  - 200: []HistoryEntry with pagination metadata (empty page when no history)
  - 401: MISSING_TOKEN: Authentication required
*/
func (handler *Handler) watchHistory(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)

	entries, meta, err := handler.channelService.GetWatchHistory(request.Context(), userID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, entries, meta)
}
