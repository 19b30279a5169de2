package interfaces

//go:generate mockgen -source=payment_attempt_repository_interface.go -destination=mocks/mock_payment_attempt_repository_interface.go -package=mock_interfaces

import (
	"context"
	"errors"
	"time"

	"mystery_boxes/internal/domain/entities"
)

var (
	// ErrAttemptFinalized means the attempt already left the pending state.
	ErrAttemptFinalized = errors.New("payment attempt already finalized")
	// ErrHoldLost means at least one box is no longer held for the attempt.
	ErrHoldLost = errors.New("box hold lost")
)

// IPaymentAttemptRepository persists payment attempts together with the box
// transitions they drive. Each method is a single atomic write.
//
//   - Open stores a pending attempt and stamps payment_intent_id on the boxes
//     still held under attempt.HoldID. Returns ErrHoldLost if any is not.
//   - Confirm moves pending -> confirmed and every box held by the attempt's
//     payment intent to sold.
//   - Cancel moves pending -> canceled and releases the attempt's boxes.
//
// GetByID returns a zero PaymentAttempt (empty ID) when not found.

type IPaymentAttemptRepository interface {
	Open(ctx context.Context, attempt entities.PaymentAttempt) error
	GetByID(ctx context.Context, id string) (entities.PaymentAttempt, error)
	Confirm(ctx context.Context, attempt entities.PaymentAttempt, now time.Time) error
	Cancel(ctx context.Context, attempt entities.PaymentAttempt, now time.Time) error
}
