// Copyright (c) 2026 Clipstream. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
HTTP delivery layer for account management.

Registration and profile-media endpoints consume multipart/form-data; the
file parts are staged into [media.Asset] values and streamed to the object
store without buffering whole files in memory.
*/

package account

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/clipstream/internal/media"
	"github.com/taibuivan/clipstream/internal/platform/middleware"
	requestutil "github.com/taibuivan/clipstream/internal/platform/request"
	"github.com/taibuivan/clipstream/internal/platform/respond"
	"github.com/taibuivan/clipstream/internal/platform/validate"
	"github.com/taibuivan/clipstream/internal/users/auth"
)

// Multipart form field names (wire contract).
const (
	formAvatar     = "avatar"
	formCoverImage = "cover_image"
)

// # Definitions & Constructors

// Handler implements the account management HTTP endpoints.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Mount attaches the account routes onto the shared users router.
//
// # Endpoints
//   - POST  /register        : Creates an account (multipart).
//   - GET   /current-user    : (auth) Returns the caller's profile.
//   - PATCH /update-account  : (auth) Updates fullname/email.
//   - PATCH /avatar          : (auth) Replaces the avatar (multipart).
//   - PATCH /cover-image     : (auth) Replaces the cover image (multipart).
func (handler *Handler) Mount(router chi.Router) {

	// Public endpoints
	router.Post("/register", handler.register)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/current-user", handler.currentUser)
		r.Patch("/update-account", handler.updateDetails)
		r.Patch("/avatar", handler.updateAvatar)
		r.Patch("/cover-image", handler.updateCoverImage)
	})
}

// # Request Payloads

type updateDetailsRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// # Multipart Staging

// formAsset stages a single named file part as a [media.Asset].
//
// Returns nil (no error) when the part is absent so callers can distinguish
// optional from mandatory files themselves. The returned closer must be
// called once the upload has consumed the stream.
func formAsset(request *http.Request, field string) (*media.Asset, func(), error) {
	file, header, err := request.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, func() {}, nil
		}
		return nil, func() {}, validate.RequiredError(field, "Invalid file upload")
	}

	asset := &media.Asset{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     file,
	}

	return asset, func() { _ = file.Close() }, nil
}

// # Handlers

/*
Register creates a new user account.

POST /api/v1/users/register

Description: Accepts a multipart form with the identity fields plus a
mandatory avatar file and an optional cover image file.

Request:
  - Form: username, email, full_name, password
  - Files: avatar (required), cover_image (optional)

Response:
  - 201: PublicUser: The created account
  - 400: VALIDATION_ERROR: Missing/invalid fields or missing avatar
  - 409: CONFLICT: Username or email already in use
  - 500: UPLOAD_FAILED: Media store rejected the file
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	if err := requestutil.ParseMultipart(request); err != nil {
		respond.Error(writer, request, err)
		return
	}

	username := request.FormValue(auth.FieldUsername)
	email := request.FormValue(auth.FieldEmail)
	fullName := request.FormValue(auth.FieldFullName)
	password := request.FormValue(auth.FieldPassword)

	v := &validate.Validator{}
	v.Required(auth.FieldUsername, username).
		Username(auth.FieldUsername, username).
		Required(auth.FieldEmail, email).
		Email(auth.FieldEmail, email).
		Required(auth.FieldFullName, fullName).
		MaxLen(auth.FieldFullName, fullName, 100).
		Required(auth.FieldPassword, password).
		MinLen(auth.FieldPassword, password, 8)

	// Reject on field errors before staging any file parts.
	if v.HasErrors() {
		respond.Error(writer, request, v.Err())
		return
	}

	avatar, closeAvatar, err := formAsset(request, formAvatar)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer closeAvatar()

	coverImage, closeCover, err := formAsset(request, formCoverImage)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer closeCover()

	if err := v.Custom(formAvatar, avatar == nil, "Avatar file is required").Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.Register(request.Context(), RegisterInput{
		Username:   username,
		Email:      email,
		FullName:   fullName,
		Password:   password,
		Avatar:     avatar,
		CoverImage: coverImage,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
CurrentUser returns the authenticated user's own profile.

GET /api/v1/users/current-user

Response:
  - 200: PublicUser: The caller's profile
  - 401: MISSING_TOKEN: Authentication required
*/
func (handler *Handler) currentUser(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetCurrent(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
UpdateDetails updates the caller's fullname and email.

PATCH /api/v1/users/update-account

Request:
  - Body: updateDetailsRequest (FullName, Email)

Response:
  - 200: PublicUser: The updated profile
  - 400: VALIDATION_ERROR
  - 409: CONFLICT: Email already in use
*/
func (handler *Handler) updateDetails(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateDetailsRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.Required(auth.FieldFullName, input.FullName).
		MaxLen(auth.FieldFullName, input.FullName, 100).
		Required(auth.FieldEmail, input.Email).
		Email(auth.FieldEmail, input.Email)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateDetails(request.Context(), userID, UpdateDetailsInput{
		FullName: input.FullName,
		Email:    input.Email,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
UpdateAvatar replaces the caller's avatar.

PATCH /api/v1/users/avatar

Request:
  - File: avatar (required)

Response:
  - 200: PublicUser: The updated profile
  - 400: VALIDATION_ERROR: Missing file
  - 500: UPLOAD_FAILED: Media store rejected the file
*/
func (handler *Handler) updateAvatar(writer http.ResponseWriter, request *http.Request) {
	handler.updateMedia(writer, request, formAvatar, handler.accountService.UpdateAvatar)
}

/*
UpdateCoverImage replaces the caller's cover image.

PATCH /api/v1/users/cover-image

Request:
  - File: cover_image (required)

Response:
  - 200: PublicUser: The updated profile
  - 400: VALIDATION_ERROR: Missing file
  - 500: UPLOAD_FAILED: Media store rejected the file
*/
func (handler *Handler) updateCoverImage(writer http.ResponseWriter, request *http.Request) {
	handler.updateMedia(writer, request, formCoverImage, handler.accountService.UpdateCoverImage)
}

// updateMedia implements the shared staging flow for both media endpoints.
func (handler *Handler) updateMedia(
	writer http.ResponseWriter,
	request *http.Request,
	field string,
	apply func(ctx context.Context, userID string, asset *media.Asset) (*auth.PublicUser, error),
) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := requestutil.ParseMultipart(request); err != nil {
		respond.Error(writer, request, err)
		return
	}

	asset, closeAsset, err := formAsset(request, field)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer closeAsset()

	if asset == nil {
		respond.Error(writer, request, validate.RequiredError(field, "File is required"))
		return
	}

	user, err := apply(request.Context(), userID, asset)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}
