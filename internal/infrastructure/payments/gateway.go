// Package payments holds the payment processor adapters.
package payments

import (
	"fmt"

	"mystery_boxes/internal/config"
	"mystery_boxes/internal/logging"
	"mystery_boxes/internal/usecase/interfaces"
)

// NewGateway picks the gateway configured by PAYMENT_PROVIDER, or the mock
// gateway when PAYMENT_GATEWAY_MOCK is set.
func NewGateway(cfg *config.Config, log logging.Logger) (interfaces.IPaymentGateway, error) {
	if cfg.PaymentGatewayMock {
		return NewMockGateway(log), nil
	}

	switch cfg.PaymentProvider {
	case config.ProviderStripe:
		g, err := NewStripeGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret, log)
		if err != nil {
			return nil, err
		}
		return g, nil
	case config.ProviderMercadoPago:
		g, err := NewMercadoPagoGateway(MercadoPagoOptions{
			AccessToken:     cfg.MercadoPagoAccessToken,
			WebhookSecret:   cfg.MercadoPagoWebhookSecret,
			PaymentMethodID: cfg.MercadoPagoPaymentMethod,
			PayerEmail:      cfg.MercadoPagoPayerEmail,
		}, log)
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownPaymentProvider, cfg.PaymentProvider)
	}
}
