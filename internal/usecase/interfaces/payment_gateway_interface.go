package interfaces

//go:generate mockgen -source=payment_gateway_interface.go -destination=mocks/mock_payment_gateway_interface.go -package=mock_interfaces

import (
	"context"
	"errors"
	"net/http"

	"mystery_boxes/internal/domain/entities"
)

// ErrInvalidWebhook is returned by gateways when a notification fails
// authentication or cannot be parsed.
var ErrInvalidWebhook = errors.New("invalid webhook")

// IPaymentGateway abstracts external payment providers (Stripe, Mercado Pago).
//
// CreatePaymentIntent opens a transaction; ParseWebhook authenticates a
// provider notification and turns it into a provider-independent event.
type IPaymentGateway interface {
	Name() string
	CreatePaymentIntent(ctx context.Context, req entities.PaymentIntentRequest) (entities.PaymentIntent, error)
	ParseWebhook(ctx context.Context, payload []byte, header http.Header) (entities.PaymentEvent, error)
}
