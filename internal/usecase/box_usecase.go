package usecase

//go:generate mockgen -source=box_usecase.go -destination=../adapter/http/handlers/mocks/mock_box_usecase.go -package=mocks

import (
	"context"
	"fmt"

	"mystery_boxes/internal/domain/entities"
	"mystery_boxes/internal/logging"
	"mystery_boxes/internal/presentation"
	"mystery_boxes/internal/usecase/interfaces"

	"golang.org/x/sync/errgroup"
)

// Dashboard is the admin overview.
type Dashboard struct {
	PriceUSD  float64
	SoldCount int
	Boxes     []entities.Box
}

// IBoxUseCase exposes registry reads and provisioning.
//
//   - ListPublic reports expired holds as available and hides hold internals.
//   - Dashboard returns stored rows untouched.
//   - Seed creates missing rows and the price setting when absent.

type IBoxUseCase interface {
	ListPublic(ctx context.Context) ([]entities.Box, error)
	Board(ctx context.Context) (presentation.Board, error)
	Dashboard(ctx context.Context) (Dashboard, error)
	Seed(ctx context.Context, initialPriceUSD float64) (int, error)
}

type BoxUseCase struct {
	boxes    interfaces.IBoxRepository
	settings interfaces.ISettingsRepository
	clock    interfaces.Clock
	log      logging.Logger
}

var _ IBoxUseCase = (*BoxUseCase)(nil)

func NewBoxUseCase(boxes interfaces.IBoxRepository, settings interfaces.ISettingsRepository, clock interfaces.Clock, log logging.Logger) *BoxUseCase {
	if clock == nil {
		clock = interfaces.SystemClock()
	}
	if log == nil {
		log = logging.Nop()
	}
	return &BoxUseCase{boxes: boxes, settings: settings, clock: clock, log: log}
}

func (u *BoxUseCase) ListPublic(ctx context.Context) ([]entities.Box, error) {
	boxes, err := u.boxes.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list boxes: %w", err)
	}

	now := u.clock.Now()
	out := make([]entities.Box, 0, len(boxes))
	for _, b := range boxes {
		view := entities.Box{
			ID:            b.ID,
			Status:        b.EffectiveStatus(now),
			HoldExpiresAt: b.HoldExpiresAt,
			SoldAt:        b.SoldAt,
			UpdatedAt:     b.UpdatedAt,
		}
		if view.Status != entities.BoxStatusHeld {
			view.HoldExpiresAt = nil
		}
		out = append(out, view)
	}
	return out, nil
}

func (u *BoxUseCase) Board(ctx context.Context) (presentation.Board, error) {
	boxes, err := u.boxes.ListAll(ctx)
	if err != nil {
		return presentation.Board{}, fmt.Errorf("list boxes: %w", err)
	}
	return presentation.BuildBoard(boxes, u.clock.Now()), nil
}

func (u *BoxUseCase) Dashboard(ctx context.Context) (Dashboard, error) {
	var (
		price float64
		boxes []entities.Box
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		price, err = loadPrice(gctx, u.settings)
		return err
	})
	g.Go(func() error {
		var err error
		boxes, err = u.boxes.ListAll(gctx)
		if err != nil {
			return fmt.Errorf("list boxes: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}

	sold := 0
	for _, b := range boxes {
		if b.Status == entities.BoxStatusSold {
			sold++
		}
	}
	return Dashboard{PriceUSD: price, SoldCount: sold, Boxes: boxes}, nil
}

func (u *BoxUseCase) Seed(ctx context.Context, initialPriceUSD float64) (int, error) {
	if err := ValidatePrice(initialPriceUSD); err != nil {
		return 0, err
	}
	now := u.clock.Now()

	created, err := u.boxes.Seed(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("seed boxes: %w", err)
	}

	current, err := u.settings.Get(ctx, entities.SettingKeyPriceUSD)
	if err != nil {
		return created, fmt.Errorf("load price: %w", err)
	}
	if current.Key == "" {
		if _, err := u.settings.Upsert(ctx, entities.SettingKeyPriceUSD, initialPriceUSD, now); err != nil {
			return created, fmt.Errorf("seed price: %w", err)
		}
		u.log.Info(ctx, "[setup][usecase] price seeded", "price_usd", initialPriceUSD)
	}

	u.log.Info(ctx, "[setup][usecase] boxes seeded", "created", created)
	return created, nil
}
