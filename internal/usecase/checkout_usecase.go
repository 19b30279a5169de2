package usecase

//go:generate mockgen -source=checkout_usecase.go -destination=../adapter/http/handlers/mocks/mock_checkout_usecase.go -package=mocks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mystery_boxes/internal/domain/entities"
	"mystery_boxes/internal/logging"
	"mystery_boxes/internal/usecase/interfaces"

	"github.com/google/uuid"
)

// CheckoutResult is what the caller needs to render the payment form.
type CheckoutResult struct {
	ClientSecret    string
	PaymentIntentID string
	PriceUSD        float64
	Amount          int64
	Currency        string
	Boxes           []string
	HoldExpiresAt   time.Time
}

// ICheckoutUseCase opens payment attempts for a set of boxes.
//
// Steps: normalize -> price -> sold check -> atomic hold -> open transaction
// -> record attempt. Each failure is terminal; holds taken along the way are
// released before returning.

type ICheckoutUseCase interface {
	CreatePaymentAttempt(ctx context.Context, requested []string) (CheckoutResult, error)
}

type CheckoutOptions struct {
	Currency string
	HoldTTL  time.Duration
	Clock    interfaces.Clock
	Logger   logging.Logger
	// NewHoldID defaults to uuid.NewString.
	NewHoldID func() string
}

type CheckoutUseCase struct {
	settings  interfaces.ISettingsRepository
	boxes     interfaces.IBoxRepository
	attempts  interfaces.IPaymentAttemptRepository
	gateway   interfaces.IPaymentGateway
	currency  string
	holdTTL   time.Duration
	clock     interfaces.Clock
	log       logging.Logger
	newHoldID func() string
}

var _ ICheckoutUseCase = (*CheckoutUseCase)(nil)

func NewCheckoutUseCase(
	settings interfaces.ISettingsRepository,
	boxes interfaces.IBoxRepository,
	attempts interfaces.IPaymentAttemptRepository,
	gateway interfaces.IPaymentGateway,
	opts CheckoutOptions,
) *CheckoutUseCase {
	u := &CheckoutUseCase{
		settings:  settings,
		boxes:     boxes,
		attempts:  attempts,
		gateway:   gateway,
		currency:  opts.Currency,
		holdTTL:   opts.HoldTTL,
		clock:     opts.Clock,
		log:       opts.Logger,
		newHoldID: opts.NewHoldID,
	}
	if u.currency == "" {
		u.currency = "usd"
	}
	if u.holdTTL <= 0 {
		u.holdTTL = 10 * time.Minute
	}
	if u.clock == nil {
		u.clock = interfaces.SystemClock()
	}
	if u.log == nil {
		u.log = logging.Nop()
	}
	if u.newHoldID == nil {
		u.newHoldID = uuid.NewString
	}
	return u
}

func (u *CheckoutUseCase) CreatePaymentAttempt(ctx context.Context, requested []string) (CheckoutResult, error) {
	u.log.Info(ctx, "[checkout][usecase] create-payment-attempt start", "requested", len(requested))

	ids := entities.NormalizeBoxIDs(requested)
	if len(ids) == 0 {
		u.log.Warn(ctx, "[checkout][usecase] no valid boxes", "requested", strings.Join(requested, ","))
		return CheckoutResult{}, ErrNoValidBoxes
	}
	if u.gateway == nil {
		u.log.Error(ctx, "[checkout][usecase] gateway not configured")
		return CheckoutResult{}, ErrPaymentGatewayNotConfigured
	}
	boxList := entities.JoinBoxIDs(ids)

	price, err := loadPrice(ctx, u.settings)
	if err != nil {
		u.log.Error(ctx, "[checkout][usecase] price lookup failed", "boxes", boxList, "err", err)
		return CheckoutResult{}, err
	}
	amount := entities.TotalAmount(price, len(ids))

	current, err := u.boxes.GetByIDs(ctx, ids)
	if err != nil {
		u.log.Error(ctx, "[checkout][usecase] box lookup failed", "boxes", boxList, "err", err)
		return CheckoutResult{}, fmt.Errorf("load boxes: %w", err)
	}
	if missing := missingIDs(ids, current); len(missing) > 0 {
		u.log.Warn(ctx, "[checkout][usecase] unknown boxes", "boxes", entities.JoinBoxIDs(missing))
		return CheckoutResult{}, fmt.Errorf("%w: unknown boxes %s", ErrInvalidInput, strings.Join(missing, ", "))
	}
	if sold := soldIDs(ids, current); len(sold) > 0 {
		u.log.Info(ctx, "[checkout][usecase] sold conflict", "boxes", entities.JoinBoxIDs(sold))
		return CheckoutResult{}, &ConflictError{Reason: ConflictSold, IDs: sold}
	}

	now := u.clock.Now()
	holdID := u.newHoldID()
	expiresAt := now.Add(u.holdTTL)

	blocked, err := u.boxes.Hold(ctx, ids, holdID, expiresAt, now)
	if err != nil {
		u.log.Error(ctx, "[checkout][usecase] hold failed", "boxes", boxList, "hold_id", holdID, "err", err)
		return CheckoutResult{}, fmt.Errorf("hold boxes: %w", err)
	}
	if len(blocked) > 0 {
		u.log.Info(ctx, "[checkout][usecase] hold conflict", "boxes", entities.JoinBoxIDs(blocked))
		return CheckoutResult{}, &ConflictError{Reason: ConflictHeld, IDs: blocked}
	}
	u.log.Info(ctx, "[checkout][usecase] hold acquired", "boxes", boxList, "hold_id", holdID, "expires_at", expiresAt)

	intent, err := u.gateway.CreatePaymentIntent(ctx, entities.PaymentIntentRequest{
		Amount:       amount,
		Currency:     u.currency,
		Boxes:        ids,
		PriceEachUSD: price,
		HoldID:       holdID,
		Description:  "Mystery boxes " + boxList,
	})
	if err != nil {
		u.log.Error(ctx, "[checkout][usecase] payment gateway failed", "gateway", u.gateway.Name(), "hold_id", holdID, "err", err)
		u.release(ctx, ids, holdID)
		return CheckoutResult{}, fmt.Errorf("%w: %v", ErrPaymentGateway, err)
	}

	attempt := entities.PaymentAttempt{
		ID:           intent.ID,
		HoldID:       holdID,
		Boxes:        ids,
		PriceEachUSD: price,
		Amount:       amount,
		Currency:     u.currency,
		Status:       entities.PaymentAttemptPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.attempts.Open(ctx, attempt); err != nil {
		u.log.Error(ctx, "[checkout][usecase] recording attempt failed", "payment_intent_id", intent.ID, "hold_id", holdID, "err", err)
		u.release(ctx, ids, holdID)
		return CheckoutResult{}, fmt.Errorf("record payment attempt: %w", err)
	}

	u.log.Info(ctx, "[checkout][usecase] create-payment-attempt success",
		"payment_intent_id", intent.ID, "boxes", boxList, "amount", amount, "currency", u.currency)

	return CheckoutResult{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
		PriceUSD:        price,
		Amount:          amount,
		Currency:        u.currency,
		Boxes:           ids,
		HoldExpiresAt:   expiresAt,
	}, nil
}

// release is best effort: an unreleased hold still expires on its own.
func (u *CheckoutUseCase) release(ctx context.Context, ids []string, holdID string) {
	if err := u.boxes.Release(context.WithoutCancel(ctx), ids, holdID, u.clock.Now()); err != nil {
		u.log.Warn(ctx, "[checkout][usecase] release failed", "hold_id", holdID, "err", err)
	}
}

func missingIDs(ids []string, found []entities.Box) []string {
	present := make(map[string]struct{}, len(found))
	for _, b := range found {
		present[b.ID] = struct{}{}
	}
	var out []string
	for _, id := range ids {
		if _, ok := present[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

// soldIDs keeps the caller's order so error messages are stable.
func soldIDs(ids []string, found []entities.Box) []string {
	sold := make(map[string]struct{})
	for _, b := range found {
		if b.Status == entities.BoxStatusSold {
			sold[b.ID] = struct{}{}
		}
	}
	var out []string
	for _, id := range ids {
		if _, ok := sold[id]; ok {
			out = append(out, id)
		}
	}
	return out
}
