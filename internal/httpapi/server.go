// ABOUTME: HTTP API server wiring the hub services behind a chi router
// ABOUTME: JSON in/out, JWT bearer auth, request logging, metrics, login rate limiting

package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/anglershub/hub/internal/auth"
	"github.com/anglershub/hub/internal/chat"
	"github.com/anglershub/hub/internal/content"
	"github.com/anglershub/hub/internal/feed"
	"github.com/anglershub/hub/internal/identity"
	"github.com/anglershub/hub/internal/profile"
	"github.com/anglershub/hub/internal/social"
	"github.com/anglershub/hub/internal/store"
)

// ServerConfig holds the settings the HTTP layer needs beyond its services.
type ServerConfig struct {
	// SessionTTL is the token lifetime for plain sign-ins.
	SessionTTL time.Duration
	// RememberTTL is the token lifetime when the user asked to stay signed in.
	RememberTTL time.Duration
	// MetricsEnabled exposes /metrics when true.
	MetricsEnabled bool
	// MetricsPath defaults to /metrics.
	MetricsPath string
}

// Deps bundles everything NewServer needs.
type Deps struct {
	Identity *identity.Service
	Social   *social.Service
	Chat     *chat.Service
	Content  *content.Service
	Profile  *profile.Service
	Feed     *feed.Service

	Verifier *auth.JWTVerifier
	Limiter  *LoginLimiter

	// Offline, when non-nil, is mounted under /offline/ and serves the
	// app shell with service-worker style cache fallback.
	Offline http.Handler

	Registry *prometheus.Registry
	Logger   *slog.Logger
}

// Server exposes the hub services over HTTP.
type Server struct {
	config ServerConfig

	identity *identity.Service
	social   *social.Service
	chat     *chat.Service
	content  *content.Service
	profile  *profile.Service
	feed     *feed.Service

	verifier    *auth.JWTVerifier
	limiter     *LoginLimiter
	ownsLimiter bool
	offline     http.Handler

	registry  *prometheus.Registry
	collector *Collector
	logger    *slog.Logger
}

// NewServer creates the HTTP server wiring.
func NewServer(config ServerConfig, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default().With("component", "httpapi")
	}

	registry := deps.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	limiter := deps.Limiter
	ownsLimiter := false
	if limiter == nil {
		limiter = NewLoginLimiter(DefaultLoginLimiterConfig())
		ownsLimiter = true
	}

	if config.MetricsPath == "" {
		config.MetricsPath = "/metrics"
	}

	return &Server{
		config:      config,
		identity:    deps.Identity,
		social:      deps.Social,
		chat:        deps.Chat,
		content:     deps.Content,
		profile:     deps.Profile,
		feed:        deps.Feed,
		verifier:    deps.Verifier,
		limiter:     limiter,
		ownsLimiter: ownsLimiter,
		offline:     deps.Offline,
		registry:    registry,
		collector:   NewCollector(registry),
		logger:      logger,
	}
}

// Close stops the login limiter's cleanup goroutine when the server created
// it. A limiter supplied through Deps stays under its owner's control.
func (s *Server) Close() {
	if s.ownsLimiter {
		s.limiter.Stop()
	}
}

// Router builds the chi router with the full middleware stack and all routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(requestLogger(s.logger))
	r.Use(recoverer(s.logger))
	r.Use(requestMetrics(s.collector))

	r.Get("/healthz", s.handleHealth)

	if s.config.MetricsEnabled {
		r.Handle(s.config.MetricsPath, MetricsHandler(s.registry))
	}

	if s.offline != nil {
		r.Mount("/offline", http.StripPrefix("/offline", s.offline))
	}

	// Unauthenticated routes, rate limited per client address.
	r.Group(func(r chi.Router) {
		r.Use(s.limiter.Middleware())
		r.Post("/api/signup", s.handleSignUp)
		r.Post("/api/login", s.handleLogIn)
	})

	// Everything else requires a valid session token.
	r.Group(func(r chi.Router) {
		r.Use(requireSession(s.verifier))

		r.Post("/api/logout", s.handleLogOut)
		r.Get("/api/me", s.handleMe)

		r.Route("/api/users", func(r chi.Router) {
			r.Get("/", s.handleListUsers)
			r.Get("/search", s.handleSearchUsers)
			r.Route("/{email}", func(r chi.Router) {
				r.Get("/", s.handleGetUser)
				r.Get("/posts", s.handleUserPosts)
			})
		})

		r.Route("/api/friends", func(r chi.Router) {
			r.Get("/", s.handleFriends)
			r.Get("/requests", s.handlePendingRequests)
			r.Get("/state", s.handlePairState)
			r.Post("/request", s.handleSendRequest)
			r.Post("/accept", s.handleAcceptRequest)
			r.Post("/cancel", s.handleCancelRequest)
			r.Post("/decline", s.handleDeclineRequest)
		})

		r.Route("/api/messages", func(r chi.Router) {
			r.Post("/", s.handleSendMessage)
			r.Get("/{email}", s.handleHistory)
		})

		r.Route("/api/notifications", func(r chi.Router) {
			r.Get("/", s.handleNotifications)
			r.Delete("/", s.handleClearNotifications)
			r.Post("/{id}/read", s.handleMarkRead)
			r.Delete("/{id}", s.handleDeleteNotification)
		})

		r.Get("/api/activity", s.handleActivity)

		r.Route("/api/posts", func(r chi.Router) {
			r.Post("/", s.handleAddPost)
			r.Get("/", s.handleOwnPosts)
		})

		r.Get("/api/gallery", s.handleGallery)
		r.Get("/api/achievements", s.handleAchievements)

		r.Route("/api/profile", func(r chi.Router) {
			r.Post("/pic", s.handleSetProfilePic)
			r.Get("/export", s.handleExport)
			r.Post("/import", s.handleImport)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error body with the given status.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps service sentinel errors to HTTP statuses.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, identity.ErrDuplicateEmail):
		writeError(w, http.StatusConflict, "email already registered")
	case errors.Is(err, identity.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, profile.ErrInvalidProfile):
		writeError(w, http.StatusBadRequest, "invalid profile payload")
	case errors.Is(err, store.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user not found")
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrConflict):
		writeError(w, http.StatusConflict, "concurrent modification, retry")
	default:
		s.logger.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON reads the request body into v, limiting its size.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
