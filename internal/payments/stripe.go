package payments

import (
	"context"
	"fmt"
	"net/url"

	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"github.com/pribylovaa/go-tour-booking/internal/config"
	"github.com/pribylovaa/go-tour-booking/internal/models"
)

// StripeProvider — реализация Provider поверх Stripe Checkout.
type StripeProvider struct {
	cfg config.PaymentsConfig
	api *client.API
}

// NewStripe создаёт провайдера с собственным stripe-клиентом
// (без глобального stripe.Key).
func NewStripe(cfg config.PaymentsConfig) *StripeProvider {
	api := &client.API{}
	api.Init(cfg.StripeSecretKey, nil)

	return &StripeProvider{cfg: cfg, api: api}
}

var _ Provider = (*StripeProvider)(nil)

// CreateCheckoutSession создаёт Checkout-сессию оплаты тура.
// Сумма передаётся в минорных единицах (price*100); success-URL несёт
// tour/user/price query-параметрами для последующей фиксации брони.
func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, in CheckoutInput) (*models.CheckoutSession, error) {
	const op = "payments/stripe/CreateCheckoutSession"

	successURL := fmt.Sprintf("%s?tour=%s&user=%s&price=%s",
		p.cfg.SuccessURL,
		url.QueryEscape(in.TourID),
		url.QueryEscape(in.UserID),
		url.QueryEscape(fmt.Sprintf("%g", in.Price)),
	)

	params := &stripe.CheckoutSessionParams{
		Params:            stripe.Params{Context: ctx},
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(successURL),
		CancelURL:         stripe.String(p.cfg.CancelURL),
		CustomerEmail:     stripe.String(in.CustomerEmail),
		ClientReferenceID: stripe.String(in.TourID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(p.cfg.Currency),
					UnitAmount: stripe.Int64(int64(in.Price * 100)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(in.TourName + " Tour"),
						Description: stripe.String(in.TourSummary),
					},
				},
			},
		},
	}

	sess, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.CheckoutSession{
		ID:  sess.ID,
		URL: sess.URL,
	}, nil
}
