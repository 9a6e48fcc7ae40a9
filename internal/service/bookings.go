package service

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pribylovaa/go-tour-booking/internal/models"
	"github.com/pribylovaa/go-tour-booking/internal/payments"
)

// bookingPatchRules — допустимые поля частичного обновления бронирования.
var bookingPatchRules = patchRules{
	"price": "gt=0",
	"paid":  "",
}

func bookingPreCreate(b *models.Booking) error {
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now

	return nil
}

// CheckoutTour создаёт платёжную сессию для бронирования тура
// аутентифицированным пользователем.
func (s *Service) CheckoutTour(ctx context.Context, user *models.User, tourID string) (*models.CheckoutSession, error) {
	const op = "service/bookings/CheckoutTour"

	if user == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	tour, err := s.tours.coll.FindByID(ctx, tourID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapStorageErr(err))
	}

	sess, err := s.payments.CreateCheckoutSession(ctx, payments.CheckoutInput{
		TourID:        tour.ID.Hex(),
		TourName:      tour.Name,
		TourSummary:   tour.Summary,
		Price:         tour.Price,
		CustomerEmail: user.Email,
		UserID:        user.ID.Hex(),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrInternal, err)
	}

	return sess, nil
}

// BookingFromCheckout фиксирует бронь по параметрам success-редиректа
// платёжной сессии (tour, user, price).
func (s *Service) BookingFromCheckout(ctx context.Context, tourID, userID string, price float64) (*models.Booking, error) {
	const op = "service/bookings/BookingFromCheckout"

	tourOID, err := primitive.ObjectIDFromHex(tourID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: tour id", op, ErrInvalidID)
	}

	userOID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: user id", op, ErrInvalidID)
	}

	booking := &models.Booking{
		TourID: tourOID,
		UserID: userOID,
		Price:  price,
		Paid:   true,
	}

	created, err := s.bookings.Create(ctx, booking)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return created, nil
}
