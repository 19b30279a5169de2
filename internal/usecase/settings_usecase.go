package usecase

//go:generate mockgen -source=settings_usecase.go -destination=../adapter/http/handlers/mocks/mock_settings_usecase.go -package=mocks

import (
	"context"
	"fmt"
	"math"

	"mystery_boxes/internal/domain/entities"
	"mystery_boxes/internal/logging"
	"mystery_boxes/internal/usecase/interfaces"
)

// ISettingsUseCase exposes the unit price.
//
//   - GetPrice never falls back to a default: a missing row is a misconfiguration.
//   - SetPrice validates before touching storage.

type ISettingsUseCase interface {
	GetPrice(ctx context.Context) (float64, error)
	SetPrice(ctx context.Context, priceUSD float64) (entities.Setting, error)
}

type SettingsUseCase struct {
	repo  interfaces.ISettingsRepository
	clock interfaces.Clock
	log   logging.Logger
}

var _ ISettingsUseCase = (*SettingsUseCase)(nil)

func NewSettingsUseCase(repo interfaces.ISettingsRepository, clock interfaces.Clock, log logging.Logger) *SettingsUseCase {
	if clock == nil {
		clock = interfaces.SystemClock()
	}
	if log == nil {
		log = logging.Nop()
	}
	return &SettingsUseCase{repo: repo, clock: clock, log: log}
}

// ValidatePrice accepts 0 < p <= 9999, finite.
func ValidatePrice(p float64) error {
	if math.IsNaN(p) || math.IsInf(p, 0) || p <= 0 || p > entities.MaxPriceUSD {
		return ErrInvalidPrice
	}
	return nil
}

func (u *SettingsUseCase) GetPrice(ctx context.Context) (float64, error) {
	return loadPrice(ctx, u.repo)
}

func (u *SettingsUseCase) SetPrice(ctx context.Context, priceUSD float64) (entities.Setting, error) {
	if err := ValidatePrice(priceUSD); err != nil {
		u.log.Warn(ctx, "[settings][usecase] rejected price", "price_usd", priceUSD)
		return entities.Setting{}, err
	}

	s, err := u.repo.Upsert(ctx, entities.SettingKeyPriceUSD, priceUSD, u.clock.Now())
	if err != nil {
		u.log.Error(ctx, "[settings][usecase] upsert failed", "err", err)
		return entities.Setting{}, fmt.Errorf("update price: %w", err)
	}
	u.log.Info(ctx, "[settings][usecase] price updated", "price_usd", s.Value)
	return s, nil
}

func loadPrice(ctx context.Context, repo interfaces.ISettingsRepository) (float64, error) {
	s, err := repo.Get(ctx, entities.SettingKeyPriceUSD)
	if err != nil {
		return 0, fmt.Errorf("load price: %w", err)
	}
	if s.Key == "" || s.Value <= 0 {
		return 0, ErrPriceNotConfigured
	}
	return s.Value, nil
}
