package interfaces

//go:generate mockgen -source=settings_repository_interface.go -destination=mocks/mock_settings_repository_interface.go -package=mock_interfaces

import (
	"context"
	"time"

	"mystery_boxes/internal/domain/entities"
)

// ISettingsRepository abstracts persistence of the settings table.
//
// Get returns a zero Setting (empty Key) when the row does not exist.

type ISettingsRepository interface {
	Get(ctx context.Context, key string) (entities.Setting, error)
	Upsert(ctx context.Context, key string, value float64, now time.Time) (entities.Setting, error)
}
