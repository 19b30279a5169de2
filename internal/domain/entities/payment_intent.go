package entities

import (
	"strconv"
	"time"
)

// Metadata keys written on every payment transaction so it can be reconciled
// without a database read.
const (
	MetadataBoxes        = "boxes"
	MetadataPriceEachUSD = "price_each_usd"
	MetadataHoldID       = "hold_id"
)

// PaymentIntentRequest is what the orchestrator asks a gateway to open.
type PaymentIntentRequest struct {
	Amount       int64
	Currency     string
	Boxes        []string
	PriceEachUSD float64
	HoldID       string
	Description  string
}

// Metadata renders the request's self-describing metadata.
func (r PaymentIntentRequest) Metadata() map[string]string {
	return map[string]string{
		MetadataBoxes:        JoinBoxIDs(r.Boxes),
		MetadataPriceEachUSD: strconv.FormatFloat(r.PriceEachUSD, 'f', -1, 64),
		MetadataHoldID:       r.HoldID,
	}
}

// PaymentIntent is the opaque processor handle returned to callers.
type PaymentIntent struct {
	ID           string
	ClientSecret string
	Status       string
}

// PaymentEventType is the provider-independent outcome of a webhook.
type PaymentEventType string

const (
	PaymentEventSucceeded PaymentEventType = "succeeded"
	PaymentEventCanceled  PaymentEventType = "canceled"
	PaymentEventIgnored   PaymentEventType = "ignored"
)

// PaymentEvent is a verified, parsed webhook notification.
type PaymentEvent struct {
	ID              string
	Type            PaymentEventType
	PaymentIntentID string
	Metadata        map[string]string
	ReceivedAt      time.Time
}

// Boxes returns the box ids recorded on the transaction.
func (e PaymentEvent) Boxes() []string {
	return SplitBoxIDs(e.Metadata[MetadataBoxes])
}
