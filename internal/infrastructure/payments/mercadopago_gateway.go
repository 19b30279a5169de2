package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"mystery_boxes/internal/domain/entities"
	"mystery_boxes/internal/logging"
	"mystery_boxes/internal/usecase/interfaces"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
)

var ErrMissingMercadoPagoAccessToken = errors.New("missing MERCADOPAGO_ACCESS_TOKEN")

// mercadoPagoPayments is the part of payment.Client the gateway uses.
type mercadoPagoPayments interface {
	Create(ctx context.Context, request payment.Request) (*payment.Response, error)
	Get(ctx context.Context, id int) (*payment.Response, error)
}

type MercadoPagoOptions struct {
	AccessToken     string
	WebhookSecret   string
	PaymentMethodID string
	PayerEmail      string
}

type MercadoPagoGateway struct {
	client mercadoPagoPayments
	opts   MercadoPagoOptions
	log    logging.Logger
}

var _ interfaces.IPaymentGateway = (*MercadoPagoGateway)(nil)

func NewMercadoPagoGateway(opts MercadoPagoOptions, log logging.Logger) (*MercadoPagoGateway, error) {
	if opts.AccessToken == "" {
		log.Error(context.Background(), "[payment][gateway] missing MERCADOPAGO_ACCESS_TOKEN")
		return nil, ErrMissingMercadoPagoAccessToken
	}

	cfg, err := config.New(opts.AccessToken)
	if err != nil {
		log.Error(context.Background(), "[payment][gateway] failed creating sdk config", "err", err)
		return nil, err
	}
	log.Info(context.Background(), "[payment][gateway] Mercado Pago client initialized")

	return &MercadoPagoGateway{client: payment.NewClient(cfg), opts: opts, log: log}, nil
}

func (g *MercadoPagoGateway) Name() string { return "mercadopago" }

// mpPayment is the subset of the payment resource read back by the gateway.
type mpPayment struct {
	ID                 int64             `json:"id"`
	Status             string            `json:"status"`
	Metadata           map[string]any    `json:"metadata"`
	PointOfInteraction mpPointOfInteract `json:"point_of_interaction"`
}

type mpPointOfInteract struct {
	TransactionData struct {
		QRCode    string `json:"qr_code"`
		TicketURL string `json:"ticket_url"`
	} `json:"transaction_data"`
}

func (g *MercadoPagoGateway) CreatePaymentIntent(ctx context.Context, req entities.PaymentIntentRequest) (entities.PaymentIntent, error) {
	metadata := map[string]any{}
	for k, v := range req.Metadata() {
		metadata[k] = v
	}
	body := map[string]any{
		"transaction_amount": float64(req.Amount) / 100,
		"description":        req.Description,
		"payment_method_id":  g.opts.PaymentMethodID,
		"external_reference": req.HoldID,
		"metadata":           metadata,
	}
	if g.opts.PayerEmail != "" {
		body["payer"] = map[string]any{"email": g.opts.PayerEmail}
	}

	requestPayload, err := json.Marshal(body)
	if err != nil {
		return entities.PaymentIntent{}, err
	}
	g.log.Debug(ctx, "[payment][gateway] create start", "payload_len", len(requestPayload))

	var mpReq payment.Request
	if err := json.Unmarshal(requestPayload, &mpReq); err != nil {
		g.log.Error(ctx, "[payment][gateway] payload unmarshal failed", "err", err)
		return entities.PaymentIntent{}, err
	}

	resp, err := g.client.Create(ctx, mpReq)
	if err != nil {
		g.log.Error(ctx, "[payment][gateway] sdk create failed", "err", err)
		return entities.PaymentIntent{}, fmt.Errorf("mercado pago create payment: %w", err)
	}

	p, err := decodeMPPayment(resp)
	if err != nil {
		return entities.PaymentIntent{}, err
	}
	g.log.Info(ctx, "[payment][gateway] create success", "provider_payment_id", p.ID, "provider_status", p.Status)

	secret := p.PointOfInteraction.TransactionData.QRCode
	if secret == "" {
		secret = p.PointOfInteraction.TransactionData.TicketURL
	}
	return entities.PaymentIntent{
		ID:           strconv.FormatInt(p.ID, 10),
		ClientSecret: secret,
		Status:       p.Status,
	}, nil
}

// mpNotification is the body Mercado Pago posts to the notification URL.
type mpNotification struct {
	ID     json.RawMessage `json:"id"`
	Type   string          `json:"type"`
	Action string          `json:"action"`
	Data   struct {
		ID string `json:"id"`
	} `json:"data"`
}

// ParseWebhook validates x-signature, then fetches the payment so the
// status and metadata come from the API rather than the notification body.
func (g *MercadoPagoGateway) ParseWebhook(ctx context.Context, payload []byte, header http.Header) (entities.PaymentEvent, error) {
	var n mpNotification
	if err := json.Unmarshal(payload, &n); err != nil {
		return entities.PaymentEvent{}, fmt.Errorf("%w: %v", interfaces.ErrInvalidWebhook, err)
	}
	if err := verifyMercadoPagoSignature(g.opts.WebhookSecret, n.Data.ID, header); err != nil {
		return entities.PaymentEvent{}, err
	}

	ev := entities.PaymentEvent{ID: strings.Trim(string(n.ID), `"`), Type: entities.PaymentEventIgnored, ReceivedAt: time.Now().UTC()}
	if n.Type != "payment" || n.Data.ID == "" {
		return ev, nil
	}

	id, err := strconv.Atoi(n.Data.ID)
	if err != nil {
		return entities.PaymentEvent{}, fmt.Errorf("%w: payment id %q", interfaces.ErrInvalidWebhook, n.Data.ID)
	}
	resp, err := g.client.Get(ctx, id)
	if err != nil {
		return entities.PaymentEvent{}, fmt.Errorf("mercado pago get payment: %w", err)
	}
	p, err := decodeMPPayment(resp)
	if err != nil {
		return entities.PaymentEvent{}, err
	}

	ev.PaymentIntentID = strconv.FormatInt(p.ID, 10)
	ev.Type = mercadoPagoEventType(p.Status)
	ev.Metadata = map[string]string{}
	for k, v := range p.Metadata {
		ev.Metadata[k] = fmt.Sprint(v)
	}
	return ev, nil
}

func mercadoPagoEventType(status string) entities.PaymentEventType {
	switch status {
	case "approved":
		return entities.PaymentEventSucceeded
	case "cancelled", "rejected", "refunded", "charged_back":
		return entities.PaymentEventCanceled
	default:
		return entities.PaymentEventIgnored
	}
}

func decodeMPPayment(resp *payment.Response) (mpPayment, error) {
	b, err := json.Marshal(resp)
	if err != nil {
		return mpPayment{}, fmt.Errorf("marshal mercado pago response: %w", err)
	}
	var p mpPayment
	if err := json.Unmarshal(b, &p); err != nil {
		return mpPayment{}, fmt.Errorf("decode mercado pago response: %w", err)
	}
	return p, nil
}

// verifyMercadoPagoSignature checks the x-signature header
// ("ts=<ts>,v1=<hex>") against HMAC-SHA256 of the manifest
// "id:<data.id>;request-id:<x-request-id>;ts:<ts>;".
func verifyMercadoPagoSignature(secret, dataID string, header http.Header) error {
	if secret == "" {
		return fmt.Errorf("%w: MERCADOPAGO_WEBHOOK_SECRET not configured", interfaces.ErrInvalidWebhook)
	}

	var ts, v1 string
	for _, part := range strings.Split(header.Get("x-signature"), ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "ts":
			ts = v
		case "v1":
			v1 = v
		}
	}
	if ts == "" || v1 == "" {
		return fmt.Errorf("%w: malformed x-signature", interfaces.ErrInvalidWebhook)
	}

	manifest := "id:" + strings.ToLower(dataID) + ";request-id:" + header.Get("x-request-id") + ";ts:" + ts + ";"
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(manifest))
	want := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(want), []byte(strings.ToLower(v1))) {
		return fmt.Errorf("%w: signature mismatch", interfaces.ErrInvalidWebhook)
	}
	return nil
}
