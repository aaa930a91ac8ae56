package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"

	"musicschool-api/internal/model"
	"musicschool-api/pkg/apperr"
)

type addReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required"`
}

// addReview handles POST /professors/{professorID}/reviews.
func (h *Handler) addReview(w http.ResponseWriter, r *http.Request) {
	caller, _ := IdentityFrom(r.Context())

	if caller.Role != model.RoleStudent {
		writeError(w, r, h.logger, fmt.Errorf("only students leave reviews: %w", apperr.ErrForbidden))
		return
	}

	professorID, err := parseID(r, "professorID")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req addReviewRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, r, h.logger, fmt.Errorf("decode request: %w", apperr.ErrInvalidInput))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, r, h.logger, fmt.Errorf("%v: %w", err, apperr.ErrInvalidInput))
		return
	}

	review, err := h.reviews.AddReview(r.Context(), caller.UserID, professorID, req.Rating, req.Comment)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, review)
}

// listReviews handles GET /professors/{professorID}/reviews.
func (h *Handler) listReviews(w http.ResponseWriter, r *http.Request) {
	professorID, err := parseID(r, "professorID")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	reviews, err := h.reviews.ReviewsFor(r.Context(), professorID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if reviews == nil {
		reviews = []*model.Review{}
	}
	writeJSON(w, r, http.StatusOK, reviews)
}
