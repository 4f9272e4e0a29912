package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	apperrors "github.com/scribeav/go-transcribe-server/internal/errors"
	"github.com/scribeav/go-transcribe-server/token"
	"github.com/scribeav/go-transcribe-server/users"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeyUser stores the authenticated *users.User
const ContextKeyUser ContextKey = "user"

// deniedMessage is the one user-facing string for every authorization
// failure; the reason stays in the server log.
const deniedMessage = "Authorization denied. Please log out and try to log in again."

// RequireUser is middleware that authenticates the request with the
// given token kind and injects the resolved user into the context.
// KindAuth guards only the post-callback /user/login exchange; KindAccess
// guards everything else.
func (s *Server) RequireUser(kind token.Kind) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			user, err := s.authenticate(r, kind)
			if err != nil {
				s.respondError(w, r, err)
				return
			}
			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			next(w, r.WithContext(ctx))
		}
	}
}

// authenticate extracts the bearer credential from the auth cookie,
// decodes it with the kind-specific routine and resolves the user. A
// principal that no longer exists is indistinguishable from an invalid
// credential.
func (s *Server) authenticate(r *http.Request, kind token.Kind) (*users.User, error) {
	cookie, err := r.Cookie(authCookieName)
	if err != nil || cookie.Value == "" {
		log.Debug().Str("path", r.URL.Path).Msg("request has no authorization cookie")
		return nil, apperrors.ErrAuthorizationDenied
	}

	scheme, tokenString, ok := strings.Cut(cookie.Value, " ")
	if !ok || tokenString == "" || !strings.EqualFold(scheme, "bearer") {
		log.Debug().Str("scheme", scheme).Msg("authorization cookie has an invalid scheme, expect 'bearer'")
		return nil, apperrors.ErrAuthorizationDenied
	}

	subjectID, err := s.tokens.Decode(kind, tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(r.Context(), subjectID)
	if err != nil {
		log.Error().Err(err).Int64("subject_id", subjectID).Msg("token subject could not be resolved to a user")
		if apperrors.Is(err, apperrors.ErrDependencyFailure) {
			return nil, err
		}
		return nil, apperrors.ErrAuthorizationDenied
	}
	return user, nil
}

// userFromContext returns the principal stored by RequireUser.
func userFromContext(ctx context.Context) *users.User {
	user, _ := ctx.Value(ContextKeyUser).(*users.User)
	return user
}

// respondError maps the error taxonomy to responses. The expired
// sub-case is handled only here, at the boundary: clear both cookies and
// send the browser home instead of letting it loop on a stale cookie.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case apperrors.Is(err, apperrors.ErrAuthorizationExpired):
		s.clearAuthCookies(w, r)
		http.Redirect(w, r, s.config.GetDomain(), http.StatusSeeOther)
	case apperrors.Is(err, apperrors.ErrAuthorizationDenied):
		http.Error(w, deniedMessage, http.StatusUnauthorized)
	case apperrors.Is(err, apperrors.ErrUserNotFound),
		apperrors.Is(err, apperrors.ErrUserProfileNotFound),
		apperrors.Is(err, apperrors.ErrResourceNotFound),
		apperrors.Is(err, apperrors.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case apperrors.Is(err, apperrors.ErrPaymentFailed):
		http.Error(w, "Payment failed. Please try again or contact "+s.config.GetSupportEmail(), http.StatusBadRequest)
	case apperrors.Is(err, apperrors.ErrDependencyFailure),
		apperrors.Is(err, apperrors.ErrEndpointNotFound):
		log.Error().Err(err).Msg("dependency failure")
		http.Error(w, "Service temporarily unavailable. Please try again.", http.StatusServiceUnavailable)
	default:
		log.Error().Err(err).Msg("unhandled error")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
