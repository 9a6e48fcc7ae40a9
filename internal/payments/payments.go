// payments — платёжный коллаборатор tours-service.
// Ядро сервиса знает только узкий контракт Provider: создать checkout-сессию
// для тура и вернуть её идентификатор и URL оплаты.
package payments

import (
	"context"

	"github.com/pribylovaa/go-tour-booking/internal/models"
)

// CheckoutInput — данные для создания платёжной сессии.
type CheckoutInput struct {
	TourID        string
	TourName      string
	TourSummary   string
	Price         float64
	CustomerEmail string
	UserID        string
}

// Provider — контракт платёжного провайдера.
type Provider interface {
	CreateCheckoutSession(ctx context.Context, in CheckoutInput) (*models.CheckoutSession, error)
}
