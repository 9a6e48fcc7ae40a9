package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pribylovaa/go-tour-booking/internal/models"
	"github.com/pribylovaa/go-tour-booking/internal/service"
	"github.com/pribylovaa/go-tour-booking/internal/transport/http/apierr"
	"github.com/pribylovaa/go-tour-booking/internal/transport/http/middleware"
)

type createReviewRequest struct {
	Review string  `json:"review"`
	Rating float64 `json:"rating"`
}

// CreateReview — POST /tours/{tourID}/reviews: автор берётся из контекста,
// тур — из маршрута; после записи пересчитывается рейтинг тура.
func (h *Handlers) CreateReview(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		apierr.WriteError(w, r, h.env(), service.ErrUnauthenticated)
		return
	}

	tourID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "tourID"))
	if err != nil {
		apierr.WriteError(w, r, h.env(), fmt.Errorf("tour: %w", service.ErrInvalidID))
		return
	}

	var req createReviewRequest
	if err := decodeStrict(r, &req); err != nil {
		badRequest(w, r, h.env())
		return
	}

	created, err := h.Svc.CreateReview(r.Context(), &models.Review{
		Review: req.Review,
		Rating: req.Rating,
		TourID: tourID,
		UserID: user.ID,
	})
	if err != nil {
		apierr.WriteError(w, r, h.env(), err)
		return
	}

	writeData(w, http.StatusCreated, created)
}

// UpdateReview — PATCH /reviews/{id}.
func (h *Handlers) UpdateReview(w http.ResponseWriter, r *http.Request) {
	patch, err := decodePatch(r)
	if err != nil {
		badRequest(w, r, h.env())
		return
	}

	updated, err := h.Svc.UpdateReview(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		apierr.WriteError(w, r, h.env(), err)
		return
	}

	writeData(w, http.StatusOK, updated)
}

// DeleteReview — DELETE /reviews/{id}: 204; рейтинг тура пересчитывается.
func (h *Handlers) DeleteReview(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.DeleteReview(r.Context(), chi.URLParam(r, "id")); err != nil {
		apierr.WriteError(w, r, h.env(), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
