package server

import "net/http"

const (
	// authCookieName carries the bearer credential, HTTP-only.
	authCookieName = "Authorization"
	// usernameCookieName carries the display name for client-side
	// scripts; cleared together with the auth cookie.
	usernameCookieName = "Username"
	// bearerPrefix is prepended to the token string in the cookie value.
	bearerPrefix = "Bearer "
)

// setAuthCookies binds the token to the response. The credential cookie
// is HTTP-only; the username cookie is deliberately not, the SPA reads it.
func (s *Server) setAuthCookies(w http.ResponseWriter, r *http.Request, tokenString, username string) {
	isSecure := getScheme(r) == "https"

	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    bearerPrefix + tokenString,
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     usernameCookieName,
		Value:    username,
		Path:     "/",
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearAuthCookies removes both cookies, forcing a fresh login.
func (s *Server) clearAuthCookies(w http.ResponseWriter, r *http.Request) {
	isSecure := getScheme(r) == "https"

	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     usernameCookieName,
		Value:    "",
		Path:     "/",
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
