package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	apperrors "github.com/scribeav/go-transcribe-server/internal/errors"
	"github.com/scribeav/go-transcribe-server/token"
)

const contentTypeJSON = "application/json; charset=utf-8"

// LoginRedirectHandler starts the login flow: record an ephemeral
// handshake state in the cache and send the browser to Google's consent
// page carrying that state.
func (s *Server) LoginRedirectHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := uuid.New().String()
		correlationID := uuid.New().String()
		s.state.Set(state, correlationID)

		authURL := s.google.AuthCodeURL(state)
		log.Debug().Str("state", state).Msg("redirecting to google consent page")
		http.Redirect(w, r, authURL, http.StatusSeeOther)
	}
}

// OAuth2CallbackHandler completes the login flow when Google redirects
// back: check the handshake state against the cache, exchange the code,
// resolve the verified email, get-or-create the user, consume the state,
// and hand the browser a one-time auth token bound to the cookie.
func (s *Server) OAuth2CallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := strings.TrimSpace(r.FormValue("state"))
		code := r.FormValue("code")
		errorParam := r.FormValue("error")

		if errorParam != "" {
			log.Error().Str("error", errorParam).Str("description", r.FormValue("error_description")).Msg("google reported an authorization error")
			s.respondError(w, r, apperrors.ErrAuthorizationDenied)
			return
		}
		if code == "" || state == "" {
			http.Error(w, "Missing code or state parameter", http.StatusBadRequest)
			return
		}

		if _, ok := s.state.Get(state); !ok {
			log.Error().Str("state", state).Msg("callback state has no live cache entry")
			s.respondError(w, r, apperrors.ErrAuthorizationDenied)
			return
		}

		oauthToken, err := s.google.Exchange(r.Context(), code)
		if err != nil {
			s.respondError(w, r, err)
			return
		}

		email, err := s.google.VerifiedEmail(r.Context(), oauthToken)
		if err != nil {
			s.respondError(w, r, err)
			return
		}

		user, err := s.users.GetByName(r.Context(), email)
		if apperrors.Is(err, apperrors.ErrUserNotFound) {
			log.Info().Str("email", email).Msg("first login, creating user record")
			user, err = s.users.Create(r.Context(), email)
		}
		if err != nil {
			s.respondError(w, r, err)
			return
		}

		s.state.Delete(state)

		authToken, err := s.tokens.Issue(token.KindAuth, user.ID)
		if err != nil {
			s.respondError(w, r, err)
			return
		}

		s.setAuthCookies(w, r, authToken, user.Name)
		http.Redirect(w, r, s.config.GetDomain()+RouteUserLogin, http.StatusSeeOther)
	}
}

// LoginHandler trades the one-time auth token (already consumed by the
// request authenticator) for a reusable access token.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := userFromContext(r.Context())

		accessToken, err := s.tokens.Issue(token.KindAccess, user.ID)
		if err != nil {
			s.respondError(w, r, err)
			return
		}

		s.setAuthCookies(w, r, accessToken, user.Name)
		writeJSON(w, http.StatusOK, map[string]any{
			"username": user.Name,
			"log-in":   true,
		})
	}
}

func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := userFromContext(r.Context())

		s.clearAuthCookies(w, r)
		writeJSON(w, http.StatusOK, map[string]any{
			"username": user.Name,
			"log-in":   false,
		})
	}
}

func (s *Server) StatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := userFromContext(r.Context())
		writeJSON(w, http.StatusOK, user)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Err(err).Msg("failed to encode response body")
	}
}
