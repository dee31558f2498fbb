package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rosales/inkwell/internal/auth"
)

// NewRouter creates a chi router with all API routes mounted. The verifier
// gates every note route; summarization is open and needs no credential.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(h *Handler, verifier auth.Verifier, sseHandler http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(verifier))

		// Notes CRUD.
		r.Get("/notes", h.ListNotes)
		r.Post("/notes", h.CreateNote)
		r.Get("/notes/{id}", h.GetNote)
		r.Put("/notes/{id}", h.UpdateNote)
		r.Delete("/notes/{id}", h.DeleteNote)

		// SSE endpoint (protected by the same auth middleware).
		if sseHandler != nil {
			r.Get("/events", sseHandler.ServeHTTP)
		}
	})

	// Summarization helper.
	r.Post("/summarize", h.Summarize)

	return r
}
