// internal/api/router.go
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"career-chat-workers/internal/chat"
	"career-chat-workers/internal/common/logger"
	"career-chat-workers/internal/models"
	"career-chat-workers/internal/resume"
	"career-chat-workers/internal/store"
)

// DefaultAllowedOrigin is the development front end.
const DefaultAllowedOrigin = "http://localhost:5173"

type Asker interface {
	Ask(ctx context.Context, req chat.AskRequest) (*chat.AskResponse, error)
}

type ResumeAnalyzer interface {
	Analyze(ctx context.Context, text string) (*resume.Analysis, error)
}

type AccountService interface {
	SignUp(ctx context.Context, payload map[string]interface{}) (*store.SignUpResult, error)
	UpdateProfile(ctx context.Context, payload map[string]interface{}) (*store.UpdateResult, error)
}

// Deps are the collaborators behind the HTTP routes. Resume is optional;
// without it the resume route is not mounted.
type Deps struct {
	Chat           Asker
	Conversations  models.ConversationRepository
	Accounts       AccountService
	Resume         ResumeAnalyzer
	ListLimit      int
	AllowedOrigins []string
	RequestTimeout time.Duration
	// Ready reports whether backing stores are reachable. Nil means always ready.
	Ready  func(ctx context.Context) error
	Logger logger.Logger
}

type Server struct {
	deps   Deps
	logger logger.Logger
}

// NewRouter mounts the chat, conversation and user routes plus health and metrics.
func NewRouter(deps Deps) http.Handler {
	if deps.ListLimit <= 0 {
		deps.ListLimit = store.DefaultListLimit
	}
	if len(deps.AllowedOrigins) == 0 {
		deps.AllowedOrigins = []string{DefaultAllowedOrigin}
	}
	if deps.RequestTimeout <= 0 {
		deps.RequestTimeout = 60 * time.Second
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNoOpLogger()
	}
	s := &Server{deps: deps, logger: deps.Logger.With(map[string]interface{}{"component": "api"})}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", s.health)
	r.Get("/ready", s.ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(deps.RequestTimeout))

		r.Post("/chat/ask", s.ask)

		r.Route("/conversation", func(r chi.Router) {
			r.Get("/conversations", s.listConversations)
			r.Get("/conversation/{id}", s.getConversation)
			r.Delete("/conversation/{id}", s.deleteConversation)
		})

		r.Route("/user", func(r chi.Router) {
			r.Post("/sign_up", s.signUp)
			r.Post("/update_profile", s.updateProfile)
		})

		if deps.Resume != nil {
			r.Post("/resume/analyze_resume", s.analyzeResume)
		}
	})

	return r
}
