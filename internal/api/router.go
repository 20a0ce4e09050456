package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/ender-auth-be/internal/api/apidocs"
	"github.com/isdelr/ender-auth-be/internal/api/handlers"
	"github.com/isdelr/ender-auth-be/internal/auth"
	"github.com/isdelr/ender-auth-be/internal/metrics"
	"github.com/isdelr/ender-auth-be/internal/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	AuthService services.AuthServiceProvider
	Principals  auth.PrincipalResolver
	Tokens      *auth.TokenIssuer
	Metrics     *metrics.Collector
	Gatherer    prometheus.Gatherer
	Docs        *apidocs.Docs
	CORSOrigin  string
	Log         zerolog.Logger
}

// NewRouter creates and configures a new Chi router.
func NewRouter(d Deps) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(d.Log))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("http_request")
	}))
	r.Use(middleware.Recoverer)
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware)
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{d.CORSOrigin},
		AllowedMethods:   []string{"GET", "HEAD", "PUT", "PATCH", "POST", "DELETE"},
		AllowedHeaders:   []string{"Origin", "X-Requested-With", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, http.StatusNotFound, "Cannot "+r.Method+" "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
	})

	validate := handlers.NewValidator()
	authHandler := handlers.NewAuthHandler(d.AuthService, validate, d.Log)
	userHandler := handlers.NewUserHandler(d.Log)
	requireAuth := auth.Middleware(d.Tokens, d.Principals, d.Log, handlers.WriteError)

	if d.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(d.Gatherer))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		if d.Docs != nil {
			r.Get("/docs", d.Docs.Page)
			r.Get("/docs/openapi.json", d.Docs.Spec)
		}

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
		})

		r.Route("/user", func(r chi.Router) {
			r.With(requireAuth).Get("/profile", userHandler.Profile)
		})
	})

	return r
}
