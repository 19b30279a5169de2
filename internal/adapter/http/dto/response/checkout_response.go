package response

import (
	"time"

	"mystery_boxes/internal/usecase"
)

type CreatePaymentIntentResponse struct {
	ClientSecret    string    `json:"clientSecret"`
	PriceUSD        float64   `json:"priceUsd"`
	PaymentIntentID string    `json:"paymentIntentId"`
	Amount          int64     `json:"amount"`
	Currency        string    `json:"currency"`
	Boxes           []string  `json:"boxes"`
	HoldExpiresAt   time.Time `json:"holdExpiresAt"`
}

func FromCheckout(r usecase.CheckoutResult) CreatePaymentIntentResponse {
	return CreatePaymentIntentResponse{
		ClientSecret:    r.ClientSecret,
		PriceUSD:        r.PriceUSD,
		PaymentIntentID: r.PaymentIntentID,
		Amount:          r.Amount,
		Currency:        r.Currency,
		Boxes:           r.Boxes,
		HoldExpiresAt:   r.HoldExpiresAt,
	}
}

type WebhookResponse struct {
	Received  bool   `json:"received"`
	Duplicate bool   `json:"duplicate"`
	Type      string `json:"type"`
}

func FromConfirmation(r usecase.ConfirmationResult) WebhookResponse {
	return WebhookResponse{Received: true, Duplicate: r.Duplicate, Type: string(r.EventType)}
}
