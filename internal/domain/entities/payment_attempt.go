package entities

import (
	"math"
	"time"
)

// PaymentAttemptStatus tracks a payment transaction opened for held boxes.
type PaymentAttemptStatus string

const (
	PaymentAttemptPending   PaymentAttemptStatus = "pending"
	PaymentAttemptConfirmed PaymentAttemptStatus = "confirmed"
	PaymentAttemptCanceled  PaymentAttemptStatus = "canceled"
)

// PaymentAttempt is the local record of a processor transaction. Its ID is the
// processor's transaction id, which doubles as the confirmation idempotency key.
//
// Storage model:
//   - DynamoDB: PK id (string), boxes as a string list
//   - Postgres: payment_attempts.id primary key, boxes as comma-joined text
type PaymentAttempt struct {
	ID           string               `json:"id"`
	HoldID       string               `json:"hold_id"`
	Boxes        []string             `json:"boxes"`
	PriceEachUSD float64              `json:"price_each_usd"`
	Amount       int64                `json:"amount"`
	Currency     string               `json:"currency"`
	Status       PaymentAttemptStatus `json:"status"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// Final reports whether the attempt can no longer change state.
func (a PaymentAttempt) Final() bool {
	return a.Status == PaymentAttemptConfirmed || a.Status == PaymentAttemptCanceled
}

// UnitAmount converts a USD unit price to minor units. Rounding happens per
// unit so a fractional-cent price charges the same per box at any quantity.
func UnitAmount(priceUSD float64) int64 {
	return int64(math.Round(priceUSD * 100))
}

// TotalAmount is UnitAmount(price) * count.
func TotalAmount(priceUSD float64, count int) int64 {
	return UnitAmount(priceUSD) * int64(count)
}
