package server

import (
	"net/http"

	"github.com/scribeav/go-transcribe-server/token"
)

func (s *Server) initRoutes() {
	// Login flow. login-redirect and the callback are necessarily
	// unauthenticated; /user/login is guarded by the one-time auth token,
	// everything after it by the access token.
	s.RegisterRouteFunc("GET "+RouteUserLoginRedirect, ChainMiddleware(s.LoginRedirectHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteUserOAuthCallback, ChainMiddleware(s.OAuth2CallbackHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteUserLogin, ChainMiddleware(s.LoginHandler(), s.guarded(token.KindAuth)...))
	s.RegisterRouteFunc("GET "+RouteUserLogout, ChainMiddleware(s.LogoutHandler(), s.guarded(token.KindAccess)...))
	s.RegisterRouteFunc("GET "+RouteUserStatus, ChainMiddleware(s.StatusHandler(), s.guarded(token.KindAccess)...))

	// Workflow records
	s.RegisterRouteFunc("POST "+RouteWorkflowAdd, ChainMiddleware(s.WorkflowAddHandler(), s.guarded(token.KindAccess)...))
	s.RegisterRouteFunc("POST "+RouteWorkflowList, ChainMiddleware(s.WorkflowListHandler(), s.guarded(token.KindAccess)...))

	// Payments
	s.RegisterRouteFunc("GET "+RoutePaymentCreate, ChainMiddleware(s.PaymentCreateHandler(), s.guarded(token.KindAccess)...))
	s.RegisterRouteFunc("GET "+RoutePaymentSuccess, ChainMiddleware(s.PaymentSuccessHandler(), s.guarded(token.KindAccess)...))
	s.RegisterRouteFunc("GET "+RoutePaymentCancel, ChainMiddleware(s.PaymentCancelHandler(), s.guarded(token.KindAccess)...))
	s.RegisterRouteFunc("GET "+RoutePaymentFailed, ChainMiddleware(s.PaymentFailedHandler(), s.guarded(token.KindAccess)...))

	// Transcription proxy
	s.RegisterRouteFunc("POST "+RouteTranscriptions, ChainMiddleware(s.TranscriptionsProxyHandler(), s.guarded(token.KindAccess)...))

	// Static SPA
	s.RegisterRouteHandler("GET /", s.fileServer)
}

// guarded prefixes the standard middleware with the request
// authenticator for the given token kind.
func (s *Server) guarded(kind token.Kind) []func(http.HandlerFunc) http.HandlerFunc {
	return append(s.APIMiddleware(), s.RequireUser(kind))
}
