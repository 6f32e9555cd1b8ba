package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/inkwell/inkwell-backend/internal/config"
)

func (h *Handler) Routes(m *Middleware, cfg *config.Config, metricsHandler http.Handler) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(m.RequestID)
	r.Use(m.RequestLogger)
	r.Use(m.Recoverer)
	r.Use(m.SecurityHeaders)
	r.Use(m.Compress)
	r.Use(m.Timeout(15 * time.Second))
	r.Use(middleware.Heartbeat("/ping"))

	r.Use(m.CORS(cfg.Security.CORSAllowedOrigins))
	r.Use(m.RateLimit(cfg.Security.RateLimitRPM))

	// Health and observability
	r.Get("/healthz", h.Healthz)
	r.Get("/readyz", h.Readyz)
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	adminOnly := m.AdminAuth(cfg.Security.AdminToken)

	r.Route("/posts", func(r chi.Router) {
		r.Get("/", h.ListPosts)
		r.Get("/byTag/{tagName}", h.GetPostsByTag)
		r.Get("/{slug}", h.GetPost)

		r.Group(func(r chi.Router) {
			r.Use(adminOnly)
			r.Post("/", h.CreatePost)
			r.Put("/{id}", h.UpdatePost)
			r.Delete("/{id}", h.DeletePost)
		})
	})

	r.Route("/tags", func(r chi.Router) {
		r.Get("/", h.ListTags)

		r.Group(func(r chi.Router) {
			r.Use(adminOnly)
			r.Post("/", h.CreateTag)
			r.Delete("/{name}", h.DeleteTag)
		})
	})

	return r
}
