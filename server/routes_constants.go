package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Login flow
	RouteUserLoginRedirect = "/user/login-redirect"
	RouteUserOAuthCallback = "/user/oauth2-callback"
	RouteUserLogin         = "/user/login"
	RouteUserLogout        = "/user/logout"
	RouteUserStatus        = "/user/status"

	// Workflow records
	RouteWorkflowAdd  = "/workflow/add"
	RouteWorkflowList = "/workflow/list"

	// Payments
	RoutePaymentCreate  = "/payment/stripe/create"
	RoutePaymentSuccess = "/payment/stripe/success"
	RoutePaymentCancel  = "/payment/stripe/cancel"
	RoutePaymentFailed  = "/payment/stripe/failed"

	// Transcription proxy
	RouteTranscriptions = "/openai/v1/audio/transcriptions"
)
