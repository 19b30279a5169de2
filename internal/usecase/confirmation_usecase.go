package usecase

//go:generate mockgen -source=confirmation_usecase.go -destination=../adapter/http/handlers/mocks/mock_confirmation_usecase.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"

	"mystery_boxes/internal/domain/entities"
	"mystery_boxes/internal/logging"
	"mystery_boxes/internal/usecase/interfaces"
)

// ConfirmationResult describes what a webhook delivery changed.
type ConfirmationResult struct {
	EventType       entities.PaymentEventType
	PaymentIntentID string
	Boxes           []string
	Duplicate       bool
}

// IConfirmationUseCase finalizes payment attempts from provider webhooks and
// expires stale holds.
//
//   - succeeded: pending -> confirmed, held -> sold. Redelivery is a no-op.
//   - canceled: pending -> canceled, held -> available.

type IConfirmationUseCase interface {
	HandleWebhook(ctx context.Context, payload []byte, header http.Header) (ConfirmationResult, error)
	ReleaseExpiredHolds(ctx context.Context) (int, error)
}

type ConfirmationUseCase struct {
	attempts interfaces.IPaymentAttemptRepository
	boxes    interfaces.IBoxRepository
	gateway  interfaces.IPaymentGateway
	clock    interfaces.Clock
	log      logging.Logger
}

var _ IConfirmationUseCase = (*ConfirmationUseCase)(nil)

func NewConfirmationUseCase(
	attempts interfaces.IPaymentAttemptRepository,
	boxes interfaces.IBoxRepository,
	gateway interfaces.IPaymentGateway,
	clock interfaces.Clock,
	log logging.Logger,
) *ConfirmationUseCase {
	if clock == nil {
		clock = interfaces.SystemClock()
	}
	if log == nil {
		log = logging.Nop()
	}
	return &ConfirmationUseCase{attempts: attempts, boxes: boxes, gateway: gateway, clock: clock, log: log}
}

func (u *ConfirmationUseCase) HandleWebhook(ctx context.Context, payload []byte, header http.Header) (ConfirmationResult, error) {
	if u.gateway == nil {
		return ConfirmationResult{}, ErrPaymentGatewayNotConfigured
	}

	ev, err := u.gateway.ParseWebhook(ctx, payload, header)
	if err != nil {
		u.log.Warn(ctx, "[confirmation][usecase] webhook rejected", "gateway", u.gateway.Name(), "err", err)
		return ConfirmationResult{}, err
	}
	u.log.Info(ctx, "[confirmation][usecase] webhook received",
		"event_id", ev.ID, "type", ev.Type, "payment_intent_id", ev.PaymentIntentID)

	switch ev.Type {
	case entities.PaymentEventSucceeded:
		return u.confirm(ctx, ev)
	case entities.PaymentEventCanceled:
		return u.cancel(ctx, ev)
	default:
		return ConfirmationResult{EventType: entities.PaymentEventIgnored, PaymentIntentID: ev.PaymentIntentID}, nil
	}
}

func (u *ConfirmationUseCase) confirm(ctx context.Context, ev entities.PaymentEvent) (ConfirmationResult, error) {
	res := ConfirmationResult{EventType: ev.Type, PaymentIntentID: ev.PaymentIntentID}

	attempt, err := u.attempts.GetByID(ctx, ev.PaymentIntentID)
	if err != nil {
		return res, fmt.Errorf("load payment attempt: %w", err)
	}
	if attempt.ID == "" {
		u.log.Warn(ctx, "[confirmation][usecase] unknown payment attempt", "payment_intent_id", ev.PaymentIntentID)
		return res, ErrAttemptNotFound
	}
	res.Boxes = attempt.Boxes

	switch attempt.Status {
	case entities.PaymentAttemptConfirmed:
		res.Duplicate = true
		return res, nil
	case entities.PaymentAttemptCanceled:
		u.log.Error(ctx, "[confirmation][usecase] payment succeeded on canceled attempt; refund needed",
			"payment_intent_id", attempt.ID, "boxes", entities.JoinBoxIDs(attempt.Boxes))
		return res, interfaces.ErrAttemptFinalized
	}

	if !sameBoxes(ev.Boxes(), attempt.Boxes) {
		u.log.Error(ctx, "[confirmation][usecase] metadata mismatch",
			"payment_intent_id", attempt.ID, "event_boxes", ev.Metadata[entities.MetadataBoxes], "attempt_boxes", entities.JoinBoxIDs(attempt.Boxes))
		return res, ErrMetadataMismatch
	}

	err = u.attempts.Confirm(ctx, attempt, u.clock.Now())
	switch {
	case err == nil:
		u.log.Info(ctx, "[confirmation][usecase] boxes sold", "payment_intent_id", attempt.ID, "boxes", entities.JoinBoxIDs(attempt.Boxes))
		return res, nil
	case errors.Is(err, interfaces.ErrAttemptFinalized):
		// A concurrent delivery may have won; only that case is a duplicate.
		latest, gerr := u.attempts.GetByID(ctx, attempt.ID)
		if gerr == nil && latest.Status == entities.PaymentAttemptConfirmed {
			res.Duplicate = true
			return res, nil
		}
		return res, err
	case errors.Is(err, interfaces.ErrHoldLost):
		u.log.Error(ctx, "[confirmation][usecase] hold lost before confirmation; refund needed",
			"payment_intent_id", attempt.ID, "boxes", entities.JoinBoxIDs(attempt.Boxes))
		return res, err
	default:
		return res, fmt.Errorf("confirm payment attempt: %w", err)
	}
}

func (u *ConfirmationUseCase) cancel(ctx context.Context, ev entities.PaymentEvent) (ConfirmationResult, error) {
	res := ConfirmationResult{EventType: ev.Type, PaymentIntentID: ev.PaymentIntentID}

	attempt, err := u.attempts.GetByID(ctx, ev.PaymentIntentID)
	if err != nil {
		return res, fmt.Errorf("load payment attempt: %w", err)
	}
	if attempt.ID == "" {
		res.EventType = entities.PaymentEventIgnored
		return res, nil
	}
	res.Boxes = attempt.Boxes
	if attempt.Final() {
		res.Duplicate = true
		return res, nil
	}

	if err := u.attempts.Cancel(ctx, attempt, u.clock.Now()); err != nil {
		if errors.Is(err, interfaces.ErrAttemptFinalized) {
			res.Duplicate = true
			return res, nil
		}
		return res, fmt.Errorf("cancel payment attempt: %w", err)
	}
	u.log.Info(ctx, "[confirmation][usecase] attempt canceled", "payment_intent_id", attempt.ID, "boxes", entities.JoinBoxIDs(attempt.Boxes))
	return res, nil
}

func (u *ConfirmationUseCase) ReleaseExpiredHolds(ctx context.Context) (int, error) {
	n, err := u.boxes.ReleaseExpired(ctx, u.clock.Now())
	if err != nil {
		return 0, fmt.Errorf("release expired holds: %w", err)
	}
	if n > 0 {
		u.log.Info(ctx, "[confirmation][usecase] expired holds released", "count", n)
	}
	return n, nil
}

// sameBoxes compares as sets. Missing metadata never matches.
func sameBoxes(fromEvent, fromAttempt []string) bool {
	if len(fromEvent) == 0 {
		return false
	}
	a := slices.Clone(fromEvent)
	b := slices.Clone(fromAttempt)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(slices.Compact(a), slices.Compact(b))
}
