package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"mystery_boxes/internal/domain/entities"
	"mystery_boxes/internal/logging"
	"mystery_boxes/internal/usecase/interfaces"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

var ErrMissingStripeSecretKey = errors.New("missing STRIPE_SECRET_KEY")

const stripeSignatureHeader = "Stripe-Signature"

// stripePaymentIntents is the part of the Stripe client the gateway uses.
type stripePaymentIntents interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

type StripeGateway struct {
	intents       stripePaymentIntents
	webhookSecret string
	log           logging.Logger
}

var _ interfaces.IPaymentGateway = (*StripeGateway)(nil)

func NewStripeGateway(secretKey, webhookSecret string, log logging.Logger) (*StripeGateway, error) {
	if secretKey == "" {
		log.Error(context.Background(), "[payment][gateway] missing STRIPE_SECRET_KEY")
		return nil, ErrMissingStripeSecretKey
	}
	sc := client.New(secretKey, nil)
	log.Info(context.Background(), "[payment][gateway] Stripe client initialized")
	return &StripeGateway{intents: sc.PaymentIntents, webhookSecret: webhookSecret, log: log}, nil
}

func (g *StripeGateway) Name() string { return "stripe" }

func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, req entities.PaymentIntentRequest) (entities.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(req.Amount),
		Currency:    stripe.String(req.Currency),
		Description: stripe.String(req.Description),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	for k, v := range req.Metadata() {
		params.AddMetadata(k, v)
	}

	g.log.Debug(ctx, "[payment][gateway] stripe create start", "amount", req.Amount, "hold_id", req.HoldID)
	pi, err := g.intents.New(params)
	if err != nil {
		return entities.PaymentIntent{}, fmt.Errorf("stripe create payment intent: %w", err)
	}
	g.log.Info(ctx, "[payment][gateway] stripe create success", "payment_intent_id", pi.ID, "status", pi.Status)

	return entities.PaymentIntent{ID: pi.ID, ClientSecret: pi.ClientSecret, Status: string(pi.Status)}, nil
}

// ParseWebhook verifies the Stripe-Signature header and maps payment intent
// events. Other event types come back as ignored.
func (g *StripeGateway) ParseWebhook(ctx context.Context, payload []byte, header http.Header) (entities.PaymentEvent, error) {
	if g.webhookSecret == "" {
		return entities.PaymentEvent{}, fmt.Errorf("%w: STRIPE_WEBHOOK_SECRET not configured", interfaces.ErrInvalidWebhook)
	}

	ev, err := webhook.ConstructEventWithOptions(payload, header.Get(stripeSignatureHeader), g.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return entities.PaymentEvent{}, fmt.Errorf("%w: %v", interfaces.ErrInvalidWebhook, err)
	}

	out := entities.PaymentEvent{
		ID:         ev.ID,
		Type:       stripeEventType(string(ev.Type)),
		ReceivedAt: time.Now().UTC(),
	}
	if out.Type == entities.PaymentEventIgnored || ev.Data == nil {
		return out, nil
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(ev.Data.Raw, &pi); err != nil {
		return entities.PaymentEvent{}, fmt.Errorf("%w: payment intent payload: %v", interfaces.ErrInvalidWebhook, err)
	}
	out.PaymentIntentID = pi.ID
	out.Metadata = pi.Metadata
	return out, nil
}

// stripeEventType maps Stripe event types. payment_intent.payment_failed is
// ignored: the intent returns to requires_payment_method and the same client
// secret can still succeed. Abandoned intents are released by hold expiry.
func stripeEventType(t string) entities.PaymentEventType {
	switch t {
	case "payment_intent.succeeded":
		return entities.PaymentEventSucceeded
	case "payment_intent.canceled":
		return entities.PaymentEventCanceled
	default:
		return entities.PaymentEventIgnored
	}
}
