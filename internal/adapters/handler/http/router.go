package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Handlers groups the route handlers. Auth and Admin may be nil, in which
// case the sign-in and admin routes are not mounted.
type Handlers struct {
	Questions *QuestionHandler
	Votes     *VoteHandler
	Auth      *AuthHandler
	Admin     *AdminHandler
	Tokens    TokenParser
}

type RouterOptions struct {
	Logger         *zap.Logger
	Metrics        *Metrics
	AllowedOrigins []string
}

func NewHandler(h Handlers, opts RouterOptions) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
	}
	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	if h.Auth != nil {
		r.Route("/oauth", func(r chi.Router) {
			r.Post("/callback", h.Auth.GoogleCallback)
			r.Post("/refresh", h.Auth.Refresh)
			r.Post("/logout", h.Auth.Logout)
		})
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/questions", func(r chi.Router) {
			r.Get("/", h.Questions.Index)
			r.Get("/{id}", h.Questions.Detail)
			r.Get("/{id}/results", h.Questions.Results)
			r.Post("/{id}/vote", h.Votes.Vote)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(RequireAdmin(h.Tokens, logger))
			if h.Admin != nil {
				r.Get("/me", h.Admin.GetMe)
			}
			r.Post("/questions", h.Questions.Create)
			r.Delete("/questions/{id}", h.Questions.Delete)
		})
	})

	return r
}
