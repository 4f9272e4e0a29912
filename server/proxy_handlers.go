package server

import (
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	apperrors "github.com/scribeav/go-transcribe-server/internal/errors"
)

// TranscriptionsProxyHandler forwards the request body to the upstream
// transcription API with the server-held key. The caller never sees or
// supplies the upstream credential; their own access token is what got
// them here.
func (s *Server) TranscriptionsProxyHandler() http.HandlerFunc {
	return s.forwardHandler("/audio/transcriptions")
}

// forwardHandler builds a pass-through handler for one upstream path.
// The upstream status code and body are copied back verbatim; only a
// transport-level failure is translated into the dependency error.
func (s *Server) forwardHandler(upstreamPath string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := userFromContext(r.Context())
		upstreamURL := s.config.GetOpenAIBaseURL() + upstreamPath
		log.Debug().Str("user", user.Name).Str("url", upstreamURL).Msg("forwarding request upstream")

		req, err := http.NewRequestWithContext(r.Context(), http.MethodPost, upstreamURL, r.Body)
		if err != nil {
			s.respondError(w, r, apperrors.Wrapf(apperrors.ErrDependencyFailure, "building upstream request: %v", err))
			return
		}
		req.Header.Set("Authorization", "Bearer "+s.config.GetOpenAIAPIKey())
		if contentType := r.Header.Get("Content-Type"); contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}

		resp, err := s.httpClient.Do(req)
		if err != nil {
			log.Err(err).Str("url", upstreamURL).Msg("upstream request failed")
			http.Error(w, "Upstream request failed", http.StatusBadGateway)
			return
		}
		defer resp.Body.Close()

		if contentType := resp.Header.Get("Content-Type"); contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(resp.StatusCode)
		if _, err := io.Copy(w, resp.Body); err != nil {
			log.Err(err).Msg("failed to relay upstream response body")
		}
	}
}
