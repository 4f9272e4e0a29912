package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scribeav/go-transcribe-server/users"
)

func cookieByName(t *testing.T, resp *http.Response, name string) *http.Cookie {
	t.Helper()
	for _, cookie := range resp.Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	t.Fatalf("response carries no cookie named %q", name)
	return nil
}

func TestLoginRedirectCarriesCachedState(t *testing.T) {
	f := setupTestFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/user/login-redirect", nil)
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)

	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	require.Equal(t, "accounts.google.com", location.Host)

	state := location.Query().Get("state")
	require.NotEmpty(t, state)

	_, ok := f.store.Get(state)
	require.True(t, ok, "handshake state must be cached for the callback")
}

func TestFullLoginFlow(t *testing.T) {
	f := setupTestFixture(t)

	// Step 1: login-redirect mints the handshake state
	req := httptest.NewRequest(http.MethodGet, "/user/login-redirect", nil)
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	state := location.Query().Get("state")

	// Step 2: the callback creates the user and binds the one-time token
	req = httptest.NewRequest(http.MethodGet, "/user/oauth2-callback?state="+state+"&code=test-code", nil)
	rec = httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "http://localhost:8000/user/login", rec.Header().Get("Location"))

	authCookie := cookieByName(t, rec.Result(), "Authorization")
	require.True(t, authCookie.HttpOnly)
	usernameCookie := cookieByName(t, rec.Result(), "Username")
	require.False(t, usernameCookie.HttpOnly)
	require.Equal(t, testUserEmail, usernameCookie.Value)

	// The handshake state is consumed
	_, ok := f.store.Get(state)
	require.False(t, ok)

	// Step 3: /user/login trades the one-time token for an access token
	req = httptest.NewRequest(http.MethodGet, "/user/login", nil)
	req.AddCookie(authCookie)
	rec = httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var loginBody map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &loginBody))
	require.Equal(t, testUserEmail, loginBody["username"])
	require.Equal(t, true, loginBody["log-in"])

	accessCookie := cookieByName(t, rec.Result(), "Authorization")
	require.NotEqual(t, authCookie.Value, accessCookie.Value)

	// Step 4: the one-time token cannot be replayed
	req = httptest.NewRequest(http.MethodGet, "/user/login", nil)
	req.AddCookie(authCookie)
	rec = httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Step 5: the access token authenticates /user/status
	req = httptest.NewRequest(http.MethodGet, "/user/status", nil)
	req.AddCookie(accessCookie)
	rec = httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var statusBody users.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &statusBody))
	require.Equal(t, testUserEmail, statusBody.Name)
}

func TestCallbackReturningUserIsNotRecreated(t *testing.T) {
	f := setupTestFixture(t)
	existing, _ := f.loginUser(t, testUserEmail)

	req := httptest.NewRequest(http.MethodGet, "/user/login-redirect", nil)
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	state := location.Query().Get("state")

	req = httptest.NewRequest(http.MethodGet, "/user/oauth2-callback?state="+state+"&code=test-code", nil)
	rec = httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	// The login must have resolved to the existing row
	authCookie := cookieByName(t, rec.Result(), "Authorization")
	req = httptest.NewRequest(http.MethodGet, "/user/login", nil)
	req.AddCookie(authCookie)
	rec = httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	got, err := f.userRepo.GetByName(req.Context(), testUserEmail)
	require.NoError(t, err)
	require.Equal(t, existing.ID, got.ID)
}

func TestCallbackWithUnknownStateIsDenied(t *testing.T) {
	f := setupTestFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/user/oauth2-callback?state=never-issued&code=test-code", nil)
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCallbackWithProviderErrorIsDenied(t *testing.T) {
	f := setupTestFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/user/oauth2-callback?error=access_denied", nil)
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCallbackWithoutCodeIsBadRequest(t *testing.T) {
	f := setupTestFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/user/oauth2-callback?state=abc", nil)
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogoutClearsCookies(t *testing.T) {
	f := setupTestFixture(t)
	_, cookie := f.loginUser(t, testUserEmail)

	req := httptest.NewRequest(http.MethodGet, "/user/logout", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, false, body["log-in"])

	authCookie := cookieByName(t, rec.Result(), "Authorization")
	require.Negative(t, authCookie.MaxAge)
}
