package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/tgoncalves/listly/internal/auth"
	"github.com/tgoncalves/listly/internal/metrics"
	"github.com/tgoncalves/listly/internal/middleware"
)

// NewRouter wires the API routes. Auth endpoints are open; list endpoints
// require a valid token except GetList, which admits anonymous viewers of
// public lists.
func NewRouter(h *Handler, jwtManager *auth.JWTManager, corsOrigin string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{corsOrigin},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(jwtManager))
			r.Get("/lists/{listID}", h.GetList)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(jwtManager))
			r.Get("/lists", h.MyLists)
			r.Post("/lists", h.CreateList)
			r.Put("/lists/{listID}", h.UpdateList)
			r.Post("/lists/{listID}/participants", h.AddParticipant)
			r.Delete("/lists/{listID}/participants/{userID}", h.RemoveParticipant)
			r.Post("/lists/{listID}/participants/{userID}/promote", h.PromoteToAdmin)
			r.Post("/lists/{listID}/items", h.AddItem)
			r.Post("/lists/{listID}/items/remove", h.RemoveItems)
		})
	})

	return r
}
