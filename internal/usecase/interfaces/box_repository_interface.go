package interfaces

//go:generate mockgen -source=box_repository_interface.go -destination=mocks/mock_box_repository_interface.go -package=mock_interfaces

import (
	"context"
	"errors"
	"time"

	"mystery_boxes/internal/domain/entities"
)

// ErrStoreConflict is returned when a conditional write loses against a
// concurrent writer in a way the repository cannot attribute to specific ids.
var ErrStoreConflict = errors.New("conditional write failed")

// IBoxRepository abstracts persistence of the 26-slot box registry.
//
// Every mutation is a conditional write evaluated by the store itself:
//   - Hold is all-or-nothing. It only moves rows that are available or whose
//     hold expired before now, and returns the ids that blocked it.
//   - Release only touches rows still carrying holdID.
//   - ReleaseExpired resets held rows with hold_expires_at <= now.

type IBoxRepository interface {
	ListAll(ctx context.Context) ([]entities.Box, error)
	GetByIDs(ctx context.Context, ids []string) ([]entities.Box, error)
	Hold(ctx context.Context, ids []string, holdID string, expiresAt, now time.Time) (blocked []string, err error)
	Release(ctx context.Context, ids []string, holdID string, now time.Time) error
	ReleaseExpired(ctx context.Context, now time.Time) (int, error)
	Seed(ctx context.Context, now time.Time) (int, error)
}
