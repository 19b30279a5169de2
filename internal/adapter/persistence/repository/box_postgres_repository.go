package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"mystery_boxes/internal/dbx"
	"mystery_boxes/internal/domain/entities"
	"mystery_boxes/internal/usecase/interfaces"
)

const boxColumns = `id, status, hold_id, hold_expires_at, sold_at, payment_intent_id, updated_at`

// errHoldIncomplete aborts the hold transaction when some rows did not match.
var errHoldIncomplete = errors.New("hold incomplete")

// BoxPostgresRepository persists the box registry in the boxes table.
//
// Conditional writes rely on row locks: a concurrent UPDATE re-evaluates its
// WHERE clause once the competing transaction commits.

type BoxPostgresRepository struct {
	db *sql.DB
}

var _ interfaces.IBoxRepository = (*BoxPostgresRepository)(nil)

func NewBoxPostgresRepository(db *sql.DB) *BoxPostgresRepository {
	return &BoxPostgresRepository{db: db}
}

func (r *BoxPostgresRepository) ListAll(ctx context.Context) ([]entities.Box, error) {
	return queryBoxes(ctx, r.db, `SELECT `+boxColumns+` FROM boxes ORDER BY id`)
}

func (r *BoxPostgresRepository) GetByIDs(ctx context.Context, ids []string) ([]entities.Box, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	in, args := inClause(1, ids)
	return queryBoxes(ctx, r.db, `SELECT `+boxColumns+` FROM boxes WHERE id IN (`+in+`) ORDER BY id`, args...)
}

// Hold updates every holdable row and rolls back unless all ids matched.
func (r *BoxPostgresRepository) Hold(ctx context.Context, ids []string, holdID string, expiresAt, now time.Time) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var blocked []string
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		in, idArgs := inClause(4, ids)
		args := append([]any{holdID, expiresAt.UTC(), now.UTC()}, idArgs...)
		rows, err := tx.QueryContext(ctx,
			`UPDATE boxes
			 SET status = 'held', hold_id = $1, hold_expires_at = $2, payment_intent_id = NULL, updated_at = $3
			 WHERE id IN (`+in+`) AND (status = 'available' OR (status = 'held' AND hold_expires_at <= $3))
			 RETURNING id`,
			args...,
		)
		if err != nil {
			return fmt.Errorf("hold boxes: %w", err)
		}
		defer rows.Close()

		held := make(map[string]struct{}, len(ids))
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				return err
			}
			held[id] = struct{}{}
		}
		if err := rows.Err(); err != nil {
			return err
		}

		for _, id := range ids {
			if _, ok := held[id]; !ok {
				blocked = append(blocked, id)
			}
		}
		if len(blocked) > 0 {
			return errHoldIncomplete
		}
		return nil
	})
	if errors.Is(err, errHoldIncomplete) {
		return blocked, nil
	}
	if err != nil {
		return nil, err
	}
	return nil, nil
}

func (r *BoxPostgresRepository) Release(ctx context.Context, ids []string, holdID string, now time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := releaseHeldBoxes(ctx, r.db, ids, holdID, now)
	return err
}

func (r *BoxPostgresRepository) ReleaseExpired(ctx context.Context, now time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE boxes
		 SET status = 'available', hold_id = NULL, hold_expires_at = NULL, payment_intent_id = NULL, updated_at = $1
		 WHERE status = 'held' AND hold_expires_at <= $1`,
		now.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("release expired holds: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (r *BoxPostgresRepository) Seed(ctx context.Context, now time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO boxes (id, status, updated_at)
		 SELECT chr(c), 'available', $1 FROM generate_series(65, 90) AS c
		 ON CONFLICT (id) DO NOTHING`,
		now.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("seed boxes: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func releaseHeldBoxes(ctx context.Context, db dbx.DBTX, ids []string, holdID string, now time.Time) (int64, error) {
	in, idArgs := inClause(3, ids)
	args := append([]any{now.UTC(), holdID}, idArgs...)
	res, err := db.ExecContext(ctx,
		`UPDATE boxes
		 SET status = 'available', hold_id = NULL, hold_expires_at = NULL, payment_intent_id = NULL, updated_at = $1
		 WHERE hold_id = $2 AND status = 'held' AND id IN (`+in+`)`,
		args...,
	)
	if err != nil {
		return 0, fmt.Errorf("release boxes: %w", err)
	}
	return res.RowsAffected()
}

func queryBoxes(ctx context.Context, db dbx.DBTX, query string, args ...any) ([]entities.Box, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select boxes: %w", err)
	}
	defer rows.Close()

	var boxes []entities.Box
	for rows.Next() {
		var (
			b               entities.Box
			status          string
			holdID, piID    sql.NullString
			holdExp, soldAt sql.NullTime
		)
		if err := rows.Scan(&b.ID, &status, &holdID, &holdExp, &soldAt, &piID, &b.UpdatedAt); err != nil {
			return nil, err
		}
		b.Status = entities.BoxStatus(status)
		b.HoldID = holdID.String
		b.HoldExpiresAt = nullTimePtr(holdExp)
		b.SoldAt = nullTimePtr(soldAt)
		b.PaymentIntentID = piID.String
		b.UpdatedAt = b.UpdatedAt.UTC()
		boxes = append(boxes, b)
	}
	return boxes, rows.Err()
}
