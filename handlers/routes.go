package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"dragnotes/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(chimw.Recoverer)
	router.Use(chimw.RealIP)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		ExposedHeaders: []string{middleware.TraceIDHeader},
		MaxAge:         300,
	}))
	router.Use(middleware.TraceID(h.logger))
	router.Use(middleware.AccessLog)

	router.Get("/", h.health)

	router.Route("/api/auth", func(r chi.Router) {
		r.Post("/signup", h.signup)
		r.Post("/login", h.login)
		r.With(h.guard.RequireAuth).Get("/profile", h.profile)
	})

	// every notes route requires a bearer token
	router.Route("/api/notes", func(r chi.Router) {
		r.Use(h.guard.RequireAuth)

		r.Get("/", h.listNotes)
		r.Post("/", h.createNote)
		r.Get("/archived", h.listArchivedNotes)
		r.Post("/reorder", h.reorderNotes)

		r.Get("/{noteID}", h.getNote)
		r.Put("/{noteID}", h.updateNote)
		r.Delete("/{noteID}", h.deleteNote)
		r.Patch("/{noteID}/favorite", h.toggleFavorite)
		r.Patch("/{noteID}/archive", h.toggleArchive)
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, messageResponse{Message: "Route not found"})
	})

	return router
}
