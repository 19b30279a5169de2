package usecase

import (
	"context"
	"errors"
	"math"
	"testing"

	"mystery_boxes/internal/domain/entities"
	mock_interfaces "mystery_boxes/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

func TestValidatePrice(t *testing.T) {
	cases := []struct {
		price float64
		ok    bool
	}{
		{0.01, true},
		{3, true},
		{9999, true},
		{0, false},
		{-1, false},
		{9999.01, false},
		{math.NaN(), false},
		{math.Inf(1), false},
		{math.Inf(-1), false},
	}
	for _, tc := range cases {
		err := ValidatePrice(tc.price)
		if tc.ok && err != nil {
			t.Fatalf("price %v: expected ok, got %v", tc.price, err)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidPrice) {
			t.Fatalf("price %v: expected ErrInvalidPrice, got %v", tc.price, err)
		}
	}
}

func TestSettingsUseCase_GetPrice(t *testing.T) {
	t.Run("missing row is a misconfiguration", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_interfaces.NewMockISettingsRepository(ctrl)
		uc := NewSettingsUseCase(repo, fixedClock{testNow}, nil)

		repo.EXPECT().Get(gomock.Any(), entities.SettingKeyPriceUSD).Return(entities.Setting{}, nil)

		_, err := uc.GetPrice(context.Background())
		if !errors.Is(err, ErrPriceNotConfigured) {
			t.Fatalf("expected ErrPriceNotConfigured, got %v", err)
		}
	})

	t.Run("repo error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_interfaces.NewMockISettingsRepository(ctrl)
		uc := NewSettingsUseCase(repo, fixedClock{testNow}, nil)

		dbErr := errors.New("db")
		repo.EXPECT().Get(gomock.Any(), entities.SettingKeyPriceUSD).Return(entities.Setting{}, dbErr)

		_, err := uc.GetPrice(context.Background())
		if !errors.Is(err, dbErr) {
			t.Fatalf("expected wrapped db error, got %v", err)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_interfaces.NewMockISettingsRepository(ctrl)
		uc := NewSettingsUseCase(repo, fixedClock{testNow}, nil)

		repo.EXPECT().Get(gomock.Any(), entities.SettingKeyPriceUSD).Return(entities.Setting{Key: entities.SettingKeyPriceUSD, Value: 4.5}, nil)

		price, err := uc.GetPrice(context.Background())
		if err != nil || price != 4.5 {
			t.Fatalf("expected 4.5, got %v err=%v", price, err)
		}
	})
}

func TestSettingsUseCase_SetPrice(t *testing.T) {
	t.Run("out of range never reaches storage", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_interfaces.NewMockISettingsRepository(ctrl)
		uc := NewSettingsUseCase(repo, fixedClock{testNow}, nil)

		for _, p := range []float64{0, -3, 10000, math.NaN()} {
			if _, err := uc.SetPrice(context.Background(), p); !errors.Is(err, ErrInvalidPrice) {
				t.Fatalf("price %v: expected ErrInvalidPrice, got %v", p, err)
			}
		}
	})

	t.Run("upsert error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_interfaces.NewMockISettingsRepository(ctrl)
		uc := NewSettingsUseCase(repo, fixedClock{testNow}, nil)

		repo.EXPECT().Upsert(gomock.Any(), entities.SettingKeyPriceUSD, 5.0, testNow).Return(entities.Setting{}, errors.New("db"))

		if _, err := uc.SetPrice(context.Background(), 5); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_interfaces.NewMockISettingsRepository(ctrl)
		uc := NewSettingsUseCase(repo, fixedClock{testNow}, nil)

		repo.EXPECT().Upsert(gomock.Any(), entities.SettingKeyPriceUSD, 9999.0, testNow).
			Return(entities.Setting{Key: entities.SettingKeyPriceUSD, Value: 9999, UpdatedAt: testNow}, nil)

		s, err := uc.SetPrice(context.Background(), 9999)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.Value != 9999 || !s.UpdatedAt.Equal(testNow) {
			t.Fatalf("unexpected setting: %+v", s)
		}
	})
}
