// Copyright (c) 2026 Clipstream. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
HTTP delivery layer for the session lifecycle.

The handler acts as a thin mediation layer between the web and domain services:
  - Protocol: Standard RESTful JSON interface.
  - Security: Handles JWT orchestration and the paired session cookies.
  - Verification: Enforces strict input validation before passing to [Service].

This layer is strictly responsible for transport concerns (status codes, headers, JSON).
*/

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/clipstream/internal/platform/constants"
	"github.com/taibuivan/clipstream/internal/platform/middleware"
	requestutil "github.com/taibuivan/clipstream/internal/platform/request"
	"github.com/taibuivan/clipstream/internal/platform/respond"
	"github.com/taibuivan/clipstream/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the session-lifecycle HTTP endpoints.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Mount attaches the session-lifecycle routes onto the shared users router.
//
// # Endpoints
//   - POST /login           : Authenticates and sets the session cookies.
//   - POST /refresh-token   : Rotates the token pair.
//   - POST /forgot-password : Starts password recovery.
//   - POST /reset-password  : Completes password recovery.
//   - POST /logout          : (auth) Revokes the live session.
//   - POST /change-password : (auth) Updates the password.
func (handler *Handler) Mount(router chi.Router) {

	// Public endpoints
	router.Post("/login", handler.login)
	router.Post("/refresh-token", handler.refresh)
	router.Post("/forgot-password", handler.forgotPassword)
	router.Post("/reset-password", handler.resetPassword)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/logout", handler.logout)
		r.Post("/change-password", handler.changePassword)
	})
}

// # Request Payloads

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// # Session Cookies

// setSessionCookies injects the paired httpOnly session cookies.
//
// The access cookie spans the whole API; the refresh cookie is scoped to the
// user endpoints so it only travels where it can be redeemed.
func setSessionCookies(writer http.ResponseWriter, session *LoginSession) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.AccessTokenCookieName,
		Value:    session.AccessToken,
		Path:     "/",
		Expires:  session.AccessTokenExpiresAt,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    session.RefreshToken,
		Path:     constants.RefreshTokenCookiePath,
		Expires:  session.RefreshTokenExpiresAt,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// clearSessionCookies expires both session cookies with matching flags.
func clearSessionCookies(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.AccessTokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    "",
		Path:     constants.RefreshTokenCookiePath,
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// # Handlers

/*
Login authenticates a user and establishes a session.

POST /api/v1/users/login

Description: Verifies credentials, generates the paired JWT tokens, and
injects both secure session cookies into the response.

Request:
  - Body: loginRequest (Login, Password)

Response:
  - 200: Session: Access token and public user profile
  - 401: INVALID_CREDENTIALS: Unknown identifier or wrong password
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldLogin, input.Login)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Login:    input.Login,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	setSessionCookies(writer, session)

	respond.OK(writer, map[string]any{
		FieldAccessToken: session.AccessToken,
		FieldUser:        session.User,
	})
}

/*
Logout terminates the current user session.

POST /api/v1/users/logout

Description: Clears the refresh token stored on the account and expires both
security cookies on the client.

Response:
  - 204: No Content: Session terminated
  - 401: MISSING_TOKEN: Authentication required
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.Logout(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	clearSessionCookies(writer)

	respond.NoContent(writer)
}

/*
Refresh issues a new token pair using a valid refresh token.

POST /api/v1/users/refresh-token

Description: Rotates the session by validating the refresh token (cookie or
body) and issuing a fresh access token and an updated refresh token.

Request:
  - Cookie: refreshToken (preferred), or Body: refreshRequest

Response:
  - 200: New access token credentials (cookies updated)
  - 401: MISSING_TOKEN / INVALID_TOKEN / EXPIRED_TOKEN / TOKEN_MISMATCH
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	incomingToken := ""

	// Browser clients present the cookie; API clients may post the token.
	if cookie, err := request.Cookie(constants.RefreshTokenCookieName); err == nil && cookie.Value != "" {
		incomingToken = cookie.Value
	} else {
		var input refreshRequest
		if err := requestutil.DecodeJSON(request, &input); err == nil {
			incomingToken = input.RefreshToken
		}
	}

	session, err := handler.authService.Refresh(request.Context(), incomingToken)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	setSessionCookies(writer, session)

	respond.OK(writer, map[string]any{
		FieldAccessToken: session.AccessToken,
		FieldTokenType:   "Bearer",
		FieldExpiresIn:   int64(AccessTokenTTL / time.Second),
	})
}

/*
ChangePassword updates the authenticated user's password.

POST /api/v1/users/change-password

Description: Verifies the current password before applying a new one.

Request:
  - Body: changePasswordRequest (OldPassword, NewPassword)

Response:
  - 200: Success: Password changed
  - 401: INVALID_CREDENTIALS: Current password does not verify
  - 400: VALIDATION_ERROR: Weak password or validation failure
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldOldPassword, input.OldPassword).
		Required(FieldNewPassword, input.NewPassword).
		MinLen(FieldNewPassword, input.NewPassword, 8)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ChangePassword(request.Context(), userID, input.OldPassword, input.NewPassword); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Password changed successfully",
	})
}

/*
ForgotPassword initiates the password recovery flow.

POST /api/v1/users/forgot-password

Description: Issues a recovery token for the provided email if the account exists.

Request:
  - Body: forgotPasswordRequest (Email)

Response:
  - 200: Success: Generic security message regardless of account existence
  - 400: VALIDATION_ERROR: Invalid email format
*/
func (handler *Handler) forgotPassword(writer http.ResponseWriter, request *http.Request) {
	var input forgotPasswordRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldEmail, input.Email).Email(FieldEmail, input.Email)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	_, err := handler.authService.RequestPasswordReset(request.Context(), input.Email)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "If this email is registered, a reset link has been sent.",
	})
}

/*
ResetPassword completes the password recovery flow.

POST /api/v1/users/reset-password

Description: Validates the reset token and updates the user's password.

Request:
  - Body: resetPasswordRequest (Token, Password)

Response:
  - 200: Success: Password updated
  - 400: VALIDATION_ERROR: Bad token or weak password
  - 404: NOT_FOUND: Token invalid or expired
*/
func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	var input resetPasswordRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldToken, input.Token).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, 8)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ResetPassword(request.Context(), input.Token, input.Password); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Password updated successfully",
	})
}
