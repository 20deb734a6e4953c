package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterDeps всё, что нужно для сборки HTTP-маршрутов
type RouterDeps struct {
	Counters       *CounterHandler
	Tags           *TagHandler
	Users          *UserHandler
	Auth           *AuthHandler
	Health         *HealthHandler
	Verifier       TokenVerifier
	Logger         *slog.Logger
	RequestTimeout time.Duration
	AllowedOrigins []string
}

// NewRouter собирает chi-роутер со всеми маршрутами API
func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(d.Logger))
	r.Use(middleware.Recoverer)
	if d.RequestTimeout > 0 {
		r.Use(middleware.Timeout(d.RequestTimeout))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authn := AuthMiddleware(d.Verifier, d.Logger)

	r.Get("/health", d.Health.Health)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", d.Auth.Register)
		r.Post("/login", d.Auth.Login)
	})

	r.Get("/tags", d.Tags.List)

	r.Route("/users", func(r chi.Router) {
		r.Use(authn)
		r.Get("/me", d.Users.Me)
		r.Patch("/me", d.Users.UpdateMe)
	})

	r.Route("/counters", func(r chi.Router) {
		d.Counters.Routes(r, authn)
	})

	return r
}
