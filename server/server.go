package server

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/scribeav/go-transcribe-server/cache"
	"github.com/scribeav/go-transcribe-server/googleauth"
	"github.com/scribeav/go-transcribe-server/internal/config"
	"github.com/scribeav/go-transcribe-server/payments"
	"github.com/scribeav/go-transcribe-server/token"
	"github.com/scribeav/go-transcribe-server/users"
	"github.com/scribeav/go-transcribe-server/workflows"
)

// Deps are the collaborators the HTTP layer drives. Everything is
// injected so tests can swap in fakes.
type Deps struct {
	Users     users.Repo
	Workflows workflows.Repo
	Payments  payments.Repo
	Tokens    *token.Manager
	State     *cache.Store
	Google    googleauth.Provider
	Checkout  payments.CheckoutClient
}

type Server struct {
	env        string // Environment (e.g., "DEV", "production")
	mux        *http.ServeMux
	routes     []string
	fileServer http.Handler
	config     config.Config

	users     users.Repo
	workflows workflows.Repo
	payments  payments.Repo
	tokens    *token.Manager
	state     *cache.Store
	google    googleauth.Provider
	checkout  payments.CheckoutClient

	httpClient *http.Client
}

func New(cfg config.Config, deps Deps) (*Server, error) {
	if deps.Users == nil || deps.Tokens == nil || deps.State == nil {
		return nil, fmt.Errorf("[Server New] users repo, token manager and state cache are required")
	}

	s := &Server{
		mux:        http.NewServeMux(),
		config:     cfg,
		users:      deps.Users,
		workflows:  deps.Workflows,
		payments:   deps.Payments,
		tokens:     deps.Tokens,
		state:      deps.State,
		google:     deps.Google,
		checkout:   deps.Checkout,
		httpClient: &http.Client{Timeout: 5 * time.Minute},
	}
	s.env = cfg.GetEnv()
	s.fileServer = FileServerHandler()

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Printf("[%-19s] %s\n", displayMethod, path)
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
