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

// PaymentAttemptPostgresRepository persists payment attempts. Every mutation
// runs in one transaction together with the box rows it drives.

type PaymentAttemptPostgresRepository struct {
	db *sql.DB
}

var _ interfaces.IPaymentAttemptRepository = (*PaymentAttemptPostgresRepository)(nil)

func NewPaymentAttemptPostgresRepository(db *sql.DB) *PaymentAttemptPostgresRepository {
	return &PaymentAttemptPostgresRepository{db: db}
}

func (r *PaymentAttemptPostgresRepository) Open(ctx context.Context, a entities.PaymentAttempt) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO payment_attempts (id, hold_id, boxes, price_each_usd, amount, currency, status, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			 ON CONFLICT (id) DO NOTHING`,
			a.ID, a.HoldID, entities.JoinBoxIDs(a.Boxes), a.PriceEachUSD, a.Amount, a.Currency,
			string(a.Status), a.CreatedAt.UTC(), a.UpdatedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("insert payment attempt: %w", err)
		}
		n, err := rowsAffected(res)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: payment attempt %s already recorded", interfaces.ErrStoreConflict, a.ID)
		}

		in, idArgs := inClause(4, a.Boxes)
		args := append([]any{a.ID, a.CreatedAt.UTC(), a.HoldID}, idArgs...)
		res, err = tx.ExecContext(ctx,
			`UPDATE boxes SET payment_intent_id = $1, updated_at = $2
			 WHERE hold_id = $3 AND status = 'held' AND id IN (`+in+`)`,
			args...,
		)
		if err != nil {
			return fmt.Errorf("stamp boxes: %w", err)
		}
		if n, err = rowsAffected(res); err != nil {
			return err
		}
		if n != int64(len(a.Boxes)) {
			return interfaces.ErrHoldLost
		}
		return nil
	})
}

func (r *PaymentAttemptPostgresRepository) GetByID(ctx context.Context, id string) (entities.PaymentAttempt, error) {
	var (
		a      entities.PaymentAttempt
		boxes  string
		status string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, hold_id, boxes, price_each_usd, amount, currency, status, created_at, updated_at
		 FROM payment_attempts WHERE id = $1`, id,
	).Scan(&a.ID, &a.HoldID, &boxes, &a.PriceEachUSD, &a.Amount, &a.Currency, &status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entities.PaymentAttempt{}, nil
		}
		return entities.PaymentAttempt{}, fmt.Errorf("select payment attempt: %w", err)
	}
	a.Boxes = entities.SplitBoxIDs(boxes)
	a.Status = entities.PaymentAttemptStatus(status)
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	return a, nil
}

func (r *PaymentAttemptPostgresRepository) Confirm(ctx context.Context, a entities.PaymentAttempt, now time.Time) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := finalizeAttemptRow(ctx, tx, a.ID, entities.PaymentAttemptConfirmed, now); err != nil {
			return err
		}

		in, idArgs := inClause(3, a.Boxes)
		args := append([]any{now.UTC(), a.ID}, idArgs...)
		res, err := tx.ExecContext(ctx,
			`UPDATE boxes
			 SET status = 'sold', sold_at = $1, payment_intent_id = $2, hold_id = NULL, hold_expires_at = NULL, updated_at = $1
			 WHERE id IN (`+in+`)
			   AND (status = 'available' OR (status = 'held' AND (payment_intent_id = $2 OR hold_expires_at <= $1)))`,
			args...,
		)
		if err != nil {
			return fmt.Errorf("sell boxes: %w", err)
		}
		n, err := rowsAffected(res)
		if err != nil {
			return err
		}
		if n != int64(len(a.Boxes)) {
			return interfaces.ErrHoldLost
		}
		return nil
	})
}

func (r *PaymentAttemptPostgresRepository) Cancel(ctx context.Context, a entities.PaymentAttempt, now time.Time) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := finalizeAttemptRow(ctx, tx, a.ID, entities.PaymentAttemptCanceled, now); err != nil {
			return err
		}
		if len(a.Boxes) == 0 {
			return nil
		}
		_, err := releaseHeldBoxes(ctx, tx, a.Boxes, a.HoldID, now)
		return err
	})
}

func finalizeAttemptRow(ctx context.Context, tx dbx.DBTX, id string, status entities.PaymentAttemptStatus, now time.Time) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE payment_attempts SET status = $1, updated_at = $2 WHERE id = $3 AND status = 'pending'`,
		string(status), now.UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update payment attempt: %w", err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return interfaces.ErrAttemptFinalized
	}
	return nil
}
