package response

import (
	"time"

	"mystery_boxes/internal/domain/entities"
	"mystery_boxes/internal/usecase"
)

type PriceResponse struct {
	PriceUSD float64 `json:"priceUsd"`
}

// PublicBoxResponse omits hold and payment internals. Absent timestamps are
// rendered as null.
type PublicBoxResponse struct {
	ID            string     `json:"id"`
	Status        string     `json:"status"`
	HoldExpiresAt *time.Time `json:"hold_expires_at"`
	SoldAt        *time.Time `json:"sold_at"`
}

type PublicBoxesResponse struct {
	Boxes []PublicBoxResponse `json:"boxes"`
}

// AdminBoxResponse is the full stored row.
type AdminBoxResponse struct {
	ID              string     `json:"id"`
	Status          string     `json:"status"`
	HoldID          *string    `json:"hold_id"`
	HoldExpiresAt   *time.Time `json:"hold_expires_at"`
	SoldAt          *time.Time `json:"sold_at"`
	PaymentIntentID *string    `json:"payment_intent_id"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type DashboardResponse struct {
	PriceUSD  float64            `json:"priceUsd"`
	SoldCount int                `json:"soldCount"`
	Boxes     []AdminBoxResponse `json:"boxes"`
}

func FromPublicBoxes(boxes []entities.Box) PublicBoxesResponse {
	out := make([]PublicBoxResponse, 0, len(boxes))
	for _, b := range boxes {
		out = append(out, PublicBoxResponse{
			ID:            b.ID,
			Status:        string(b.Status),
			HoldExpiresAt: b.HoldExpiresAt,
			SoldAt:        b.SoldAt,
		})
	}
	return PublicBoxesResponse{Boxes: out}
}

func FromDashboard(d usecase.Dashboard) DashboardResponse {
	out := make([]AdminBoxResponse, 0, len(d.Boxes))
	for _, b := range d.Boxes {
		out = append(out, AdminBoxResponse{
			ID:              b.ID,
			Status:          string(b.Status),
			HoldID:          nullable(b.HoldID),
			HoldExpiresAt:   b.HoldExpiresAt,
			SoldAt:          b.SoldAt,
			PaymentIntentID: nullable(b.PaymentIntentID),
			UpdatedAt:       b.UpdatedAt,
		})
	}
	return DashboardResponse{PriceUSD: d.PriceUSD, SoldCount: d.SoldCount, Boxes: out}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
