// Copyright (c) 2026 Clipstream. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/clipstream/internal/platform/constants"
	"github.com/taibuivan/clipstream/internal/users/auth"
)

func newTestRouter(t *testing.T, service *auth.Service) http.Handler {
	t.Helper()

	router := chi.NewRouter()
	router.Route("/api/v1/users", func(users chi.Router) {
		auth.NewHandler(service).Mount(users)
	})
	return router
}

func findCookie(t *testing.T, response *http.Response, name string) *http.Cookie {
	t.Helper()

	for _, cookie := range response.Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

/*
TestHandler_Login_SetsSessionCookies verifies a login response carries both
httpOnly cookies with their distinct paths.
*/
func TestHandler_Login_SetsSessionCookies(t *testing.T) {
	service, _ := newTestService(newFakeUserRepository(seedUser(t, "hunter2hunter2")))
	router := newTestRouter(t, service)

	body := `{"login":"taibuivan","password":"hunter2hunter2"}`
	request := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", strings.NewReader(body))
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, request)
	response := recorder.Result()

	require.Equal(t, http.StatusOK, response.StatusCode)

	accessCookie := findCookie(t, response, constants.AccessTokenCookieName)
	require.NotNil(t, accessCookie)
	assert.Equal(t, "/", accessCookie.Path)
	assert.True(t, accessCookie.HttpOnly)
	assert.True(t, accessCookie.Secure)
	assert.Equal(t, http.SameSiteStrictMode, accessCookie.SameSite)

	refreshCookie := findCookie(t, response, constants.RefreshTokenCookieName)
	require.NotNil(t, refreshCookie)
	assert.Equal(t, constants.RefreshTokenCookiePath, refreshCookie.Path)
	assert.True(t, refreshCookie.HttpOnly)
	assert.True(t, refreshCookie.Secure)

	// Envelope contains the access token and public user, never the hash.
	var envelope struct {
		Data map[string]json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(response.Body).Decode(&envelope))
	assert.Contains(t, envelope.Data, "access_token")
	assert.Contains(t, envelope.Data, "user")
	assert.NotContains(t, string(envelope.Data["user"]), "password")
}

/*
TestHandler_Login_Unauthorized verifies bad credentials yield a 401 envelope.
*/
func TestHandler_Login_Unauthorized(t *testing.T) {
	service, _ := newTestService(newFakeUserRepository(seedUser(t, "hunter2hunter2")))
	router := newTestRouter(t, service)

	body := `{"login":"taibuivan","password":"wrong"}`
	request := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", strings.NewReader(body))
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "INVALID_CREDENTIALS")
}

/*
TestHandler_Refresh_FromCookie verifies the refresh endpoint accepts the
cookie transport and rotates both cookies.
*/
func TestHandler_Refresh_FromCookie(t *testing.T) {
	service, _ := newTestService(newFakeUserRepository(seedUser(t, "hunter2hunter2")))
	router := newTestRouter(t, service)

	session, err := service.Login(context.Background(), auth.LoginInput{
		Login:    "taibuivan",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token", nil)
	request.AddCookie(&http.Cookie{
		Name:  constants.RefreshTokenCookieName,
		Value: session.RefreshToken,
	})
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, request)
	response := recorder.Result()

	require.Equal(t, http.StatusOK, response.StatusCode)

	rotated := findCookie(t, response, constants.RefreshTokenCookieName)
	require.NotNil(t, rotated)
	assert.NotEqual(t, session.RefreshToken, rotated.Value)
}

/*
TestHandler_Refresh_MissingToken verifies an empty request is a 401
MISSING_TOKEN, not a validation error.
*/
func TestHandler_Refresh_MissingToken(t *testing.T) {
	service, _ := newTestService(newFakeUserRepository(seedUser(t, "hunter2hunter2")))
	router := newTestRouter(t, service)

	request := httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token", nil)
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "MISSING_TOKEN")
}
