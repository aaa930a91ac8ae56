package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"musicschool-api/internal/auth"
)

// NewRouter wires the public catalog reads and the authenticated
// booking surface onto a chi mux.
func NewRouter(h *Handler, tokens *auth.TokenManager) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Public catalog.
	r.Group(func(r chi.Router) {
		r.Get("/instruments", h.listInstruments)
		r.Get("/instruments/{instrumentID}", h.getInstrument)
		r.Get("/professors", h.listProfessors)
		r.Get("/professors/{professorID}", h.getProfessor)
		r.Get("/professors/{professorID}/availability", h.listAvailability)
		r.Get("/professors/{professorID}/reviews", h.listReviews)
	})

	// Authenticated surface.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(tokens))

		r.Get("/me", h.getMe)

		r.Post("/instruments", h.createInstrument)
		r.Put("/professors/{professorID}", h.updateProfessor)

		r.Post("/availability", h.publishAvailability)
		r.Put("/availability/{slotID}", h.rescheduleAvailability)
		r.Delete("/availability/{slotID}", h.removeAvailability)

		r.Post("/sessions", h.bookSession)
		r.Get("/sessions", h.listSessions)
		r.Get("/sessions/{sessionID}", h.getSession)
		r.Put("/sessions/{sessionID}/cancel", h.cancelSession)
		r.Put("/sessions/{sessionID}/complete", h.completeSession)

		r.Post("/professors/{professorID}/reviews", h.addReview)
	})

	return r
}
