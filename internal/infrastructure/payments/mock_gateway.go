package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"mystery_boxes/internal/domain/entities"
	"mystery_boxes/internal/logging"
	"mystery_boxes/internal/usecase/interfaces"

	"github.com/google/uuid"
)

// MockGateway approves every payment locally. Its webhook accepts unsigned
// Stripe-shaped events so purchases can be confirmed with curl:
//
//	{"id":"evt_1","type":"payment_intent.succeeded",
//	 "data":{"object":{"id":"pi_mock_...","metadata":{"boxes":"A,B"}}}}
type MockGateway struct {
	log   logging.Logger
	newID func() string
}

var _ interfaces.IPaymentGateway = (*MockGateway)(nil)

func NewMockGateway(log logging.Logger) *MockGateway {
	log.Warn(context.Background(), "[payment][gateway] mock mode enabled")
	return &MockGateway{log: log, newID: uuid.NewString}
}

func (g *MockGateway) Name() string { return "mock" }

func (g *MockGateway) CreatePaymentIntent(ctx context.Context, req entities.PaymentIntentRequest) (entities.PaymentIntent, error) {
	id := "pi_mock_" + g.newID()
	g.log.Info(ctx, "[payment][gateway] mock create success",
		"payment_intent_id", id, "amount", req.Amount, "boxes", entities.JoinBoxIDs(req.Boxes))
	return entities.PaymentIntent{ID: id, ClientSecret: id + "_secret_mock", Status: "requires_payment_method"}, nil
}

type mockEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID       string            `json:"id"`
			Metadata map[string]string `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

func (g *MockGateway) ParseWebhook(_ context.Context, payload []byte, _ http.Header) (entities.PaymentEvent, error) {
	var ev mockEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return entities.PaymentEvent{}, fmt.Errorf("%w: %v", interfaces.ErrInvalidWebhook, err)
	}
	if ev.Type == "" {
		return entities.PaymentEvent{}, fmt.Errorf("%w: missing event type", interfaces.ErrInvalidWebhook)
	}
	return entities.PaymentEvent{
		ID:              ev.ID,
		Type:            stripeEventType(ev.Type),
		PaymentIntentID: ev.Data.Object.ID,
		Metadata:        ev.Data.Object.Metadata,
		ReceivedAt:      time.Now().UTC(),
	}, nil
}
