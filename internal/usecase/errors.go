package usecase

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidInput                = errors.New("invalid input")
	ErrNoValidBoxes                = fmt.Errorf("%w: no valid boxes", ErrInvalidInput)
	ErrInvalidPrice                = errors.New("invalid priceUsd")
	ErrPriceNotConfigured          = errors.New("price_usd setting not configured")
	ErrConflict                    = errors.New("boxes unavailable")
	ErrPaymentGateway              = errors.New("payment gateway error")
	ErrPaymentGatewayNotConfigured = errors.New("payment gateway not configured")
	ErrAttemptNotFound             = errors.New("payment attempt not found")
	ErrMetadataMismatch            = errors.New("payment metadata does not match attempt")
)

// ConflictReason tells the caller why boxes could not be taken.
type ConflictReason string

const (
	ConflictSold ConflictReason = "sold"
	ConflictHeld ConflictReason = "held"
)

// ConflictError lists the requested ids that blocked a payment attempt.
// errors.Is(err, ErrConflict) holds for every ConflictError.
type ConflictError struct {
	Reason ConflictReason
	IDs    []string
}

func (e *ConflictError) Error() string {
	switch e.Reason {
	case ConflictSold:
		return "Already sold: " + strings.Join(e.IDs, ", ")
	default:
		return "Currently held: " + strings.Join(e.IDs, ", ")
	}
}

func (e *ConflictError) Unwrap() error { return ErrConflict }
