package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/go-tour-booking/internal/service"
	"github.com/pribylovaa/go-tour-booking/internal/transport/http/apierr"
	"github.com/pribylovaa/go-tour-booking/internal/transport/http/middleware"
)

// Checkout — POST /bookings/checkout/{tourID}: платёжная сессия для тура.
func (h *Handlers) Checkout(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		apierr.WriteError(w, r, h.env(), service.ErrUnauthenticated)
		return
	}

	sess, err := h.Svc.CheckoutTour(r.Context(), user, chi.URLParam(r, "tourID"))
	if err != nil {
		apierr.WriteError(w, r, h.env(), err)
		return
	}

	writeData(w, http.StatusOK, sess)
}

// CheckoutComplete — GET /bookings/checkout-complete?tour&user&price:
// фиксация брони по параметрам success-редиректа платёжной сессии.
func (h *Handlers) CheckoutComplete(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	price, err := strconv.ParseFloat(q.Get("price"), 64)
	if err != nil || price <= 0 {
		badRequest(w, r, h.env())
		return
	}

	booking, err := h.Svc.BookingFromCheckout(r.Context(), q.Get("tour"), q.Get("user"), price)
	if err != nil {
		apierr.WriteError(w, r, h.env(), err)
		return
	}

	writeData(w, http.StatusCreated, booking)
}
