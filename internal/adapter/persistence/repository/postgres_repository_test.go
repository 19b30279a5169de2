package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"mystery_boxes/internal/domain/entities"
	"mystery_boxes/internal/usecase/interfaces"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

var pgBoxCols = []string{"id", "status", "hold_id", "hold_expires_at", "sold_at", "payment_intent_id", "updated_at"}

func TestSettingsPostgresRepository_Get(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewSettingsPostgresRepository(db)

	mock.ExpectQuery(`SELECT key, value, updated_at FROM settings WHERE key = \$1`).
		WithArgs(entities.SettingKeyPriceUSD).
		WillReturnRows(sqlmock.NewRows([]string{"key", "value", "updated_at"}).
			AddRow(entities.SettingKeyPriceUSD, 4.5, repoNow))

	s, err := repo.Get(context.Background(), entities.SettingKeyPriceUSD)
	require.NoError(t, err)
	assert.Equal(t, 4.5, s.Value)
	assert.True(t, s.UpdatedAt.Equal(repoNow))
}

func TestSettingsPostgresRepository_GetMissing(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewSettingsPostgresRepository(db)

	mock.ExpectQuery(`FROM settings`).WillReturnError(sql.ErrNoRows)

	s, err := repo.Get(context.Background(), entities.SettingKeyPriceUSD)
	require.NoError(t, err)
	assert.Empty(t, s.Key)
}

func TestSettingsPostgresRepository_Upsert(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewSettingsPostgresRepository(db)

	mock.ExpectExec(`INSERT INTO settings .* ON CONFLICT \(key\) DO UPDATE`).
		WithArgs(entities.SettingKeyPriceUSD, 7.0, repoNow).
		WillReturnResult(sqlmock.NewResult(0, 1))

	s, err := repo.Upsert(context.Background(), entities.SettingKeyPriceUSD, 7, repoNow)
	require.NoError(t, err)
	assert.Equal(t, 7.0, s.Value)
}

func TestBoxPostgresRepository_GetByIDs(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewBoxPostgresRepository(db)

	exp := repoNow.Add(5 * time.Minute)
	mock.ExpectQuery(`SELECT .* FROM boxes WHERE id IN \(\$1, \$2\) ORDER BY id`).
		WithArgs("A", "B").
		WillReturnRows(sqlmock.NewRows(pgBoxCols).
			AddRow("A", "held", "h1", exp, nil, nil, repoNow).
			AddRow("B", "sold", nil, nil, repoNow, "pi_1", repoNow))

	boxes, err := repo.GetByIDs(context.Background(), []string{"A", "B"})
	require.NoError(t, err)
	require.Len(t, boxes, 2)
	assert.Equal(t, entities.BoxStatusHeld, boxes[0].Status)
	assert.Equal(t, "h1", boxes[0].HoldID)
	assert.True(t, boxes[0].HoldExpiresAt.Equal(exp))
	assert.Nil(t, boxes[0].SoldAt)
	assert.Equal(t, "pi_1", boxes[1].PaymentIntentID)
	assert.NotNil(t, boxes[1].SoldAt)
}

func TestBoxPostgresRepository_GetByIDsEmpty(t *testing.T) {
	db, _ := newSQLMock(t)
	boxes, err := NewBoxPostgresRepository(db).GetByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, boxes)
}

func TestBoxPostgresRepository_HoldAll(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewBoxPostgresRepository(db)
	exp := repoNow.Add(10 * time.Minute)

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE boxes\s+SET status = 'held'.*WHERE id IN \(\$4, \$5\).*RETURNING id`).
		WithArgs("hold-1", exp, repoNow, "A", "B").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("A").AddRow("B"))
	mock.ExpectCommit()

	blocked, err := repo.Hold(context.Background(), []string{"A", "B"}, "hold-1", exp, repoNow)
	require.NoError(t, err)
	assert.Empty(t, blocked)
}

func TestBoxPostgresRepository_HoldPartialRollsBack(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewBoxPostgresRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE boxes`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("B"))
	mock.ExpectRollback()

	blocked, err := repo.Hold(context.Background(), []string{"A", "B", "C"}, "hold-1", repoNow.Add(time.Minute), repoNow)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C"}, blocked)
}

func TestBoxPostgresRepository_HoldError(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewBoxPostgresRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE boxes`).WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := repo.Hold(context.Background(), []string{"A"}, "hold-1", repoNow.Add(time.Minute), repoNow)
	assert.ErrorContains(t, err, "connection reset")
}

func TestBoxPostgresRepository_Release(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewBoxPostgresRepository(db)

	mock.ExpectExec(`UPDATE boxes\s+SET status = 'available'.*WHERE hold_id = \$2 AND status = 'held' AND id IN \(\$3, \$4\)`).
		WithArgs(repoNow, "hold-1", "A", "B").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Release(context.Background(), []string{"A", "B"}, "hold-1", repoNow))
}

func TestBoxPostgresRepository_ReleaseExpiredAndSeed(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewBoxPostgresRepository(db)

	mock.ExpectExec(`WHERE status = 'held' AND hold_expires_at <= \$1`).
		WithArgs(repoNow).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`INSERT INTO boxes .*generate_series\(65, 90\).*ON CONFLICT \(id\) DO NOTHING`).
		WithArgs(repoNow).
		WillReturnResult(sqlmock.NewResult(0, 26))

	n, err := repo.ReleaseExpired(context.Background(), repoNow)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = repo.Seed(context.Background(), repoNow)
	require.NoError(t, err)
	assert.Equal(t, 26, n)
}

func pgAttempt() entities.PaymentAttempt {
	return entities.PaymentAttempt{
		ID:           "pi_1",
		HoldID:       "hold-1",
		Boxes:        []string{"A", "B"},
		PriceEachUSD: 3,
		Amount:       600,
		Currency:     "usd",
		Status:       entities.PaymentAttemptPending,
		CreatedAt:    repoNow,
		UpdatedAt:    repoNow,
	}
}

func TestPaymentAttemptPostgresRepository_Open(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewPaymentAttemptPostgresRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO payment_attempts`).
		WithArgs("pi_1", "hold-1", "A,B", 3.0, int64(600), "usd", "pending", repoNow, repoNow).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE boxes SET payment_intent_id = \$1`).
		WithArgs("pi_1", repoNow, "hold-1", "A", "B").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, repo.Open(context.Background(), pgAttempt()))
}

func TestPaymentAttemptPostgresRepository_OpenDuplicate(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewPaymentAttemptPostgresRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO payment_attempts`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	assert.ErrorIs(t, repo.Open(context.Background(), pgAttempt()), interfaces.ErrStoreConflict)
}

func TestPaymentAttemptPostgresRepository_OpenHoldLost(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewPaymentAttemptPostgresRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO payment_attempts`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE boxes`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	assert.ErrorIs(t, repo.Open(context.Background(), pgAttempt()), interfaces.ErrHoldLost)
}

func TestPaymentAttemptPostgresRepository_GetByID(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewPaymentAttemptPostgresRepository(db)

	mock.ExpectQuery(`FROM payment_attempts WHERE id = \$1`).
		WithArgs("pi_1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "hold_id", "boxes", "price_each_usd", "amount", "currency", "status", "created_at", "updated_at"}).
			AddRow("pi_1", "hold-1", "A,B", 3.0, int64(600), "usd", "confirmed", repoNow, repoNow))
	mock.ExpectQuery(`FROM payment_attempts`).WithArgs("pi_x").WillReturnError(sql.ErrNoRows)

	a, err := repo.GetByID(context.Background(), "pi_1")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, a.Boxes)
	assert.Equal(t, entities.PaymentAttemptConfirmed, a.Status)
	assert.Equal(t, int64(600), a.Amount)

	missing, err := repo.GetByID(context.Background(), "pi_x")
	require.NoError(t, err)
	assert.Empty(t, missing.ID)
}

func TestPaymentAttemptPostgresRepository_Confirm(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewPaymentAttemptPostgresRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE payment_attempts SET status = \$1.*status = 'pending'`).
		WithArgs("confirmed", repoNow, "pi_1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE boxes\s+SET status = 'sold'`).
		WithArgs(repoNow, "pi_1", "A", "B").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, repo.Confirm(context.Background(), pgAttempt(), repoNow))
}

func TestPaymentAttemptPostgresRepository_ConfirmFinalized(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewPaymentAttemptPostgresRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE payment_attempts`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	assert.ErrorIs(t, repo.Confirm(context.Background(), pgAttempt(), repoNow), interfaces.ErrAttemptFinalized)
}

func TestPaymentAttemptPostgresRepository_ConfirmHoldLost(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewPaymentAttemptPostgresRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE payment_attempts`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE boxes`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	assert.ErrorIs(t, repo.Confirm(context.Background(), pgAttempt(), repoNow), interfaces.ErrHoldLost)
}

func TestPaymentAttemptPostgresRepository_Cancel(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewPaymentAttemptPostgresRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE payment_attempts`).
		WithArgs("canceled", repoNow, "pi_1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE boxes\s+SET status = 'available'`).
		WithArgs(repoNow, "hold-1", "A", "B").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, repo.Cancel(context.Background(), pgAttempt(), repoNow))
}

func TestPaymentAttemptPostgresRepository_RowsAffectedError(t *testing.T) {
	driverErr := errors.New("driver: bad connection")

	t.Run("open stamp", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewPaymentAttemptPostgresRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO payment_attempts`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE boxes`).WillReturnResult(sqlmock.NewErrorResult(driverErr))
		mock.ExpectRollback()

		err := repo.Open(context.Background(), pgAttempt())
		assert.ErrorIs(t, err, driverErr)
		assert.NotErrorIs(t, err, interfaces.ErrHoldLost)
	})

	t.Run("confirm attempt row", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewPaymentAttemptPostgresRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE payment_attempts`).WillReturnResult(sqlmock.NewErrorResult(driverErr))
		mock.ExpectRollback()

		err := repo.Confirm(context.Background(), pgAttempt(), repoNow)
		assert.ErrorIs(t, err, driverErr)
		assert.NotErrorIs(t, err, interfaces.ErrAttemptFinalized)
	})

	t.Run("confirm boxes", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewPaymentAttemptPostgresRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE payment_attempts`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE boxes`).WillReturnResult(sqlmock.NewErrorResult(driverErr))
		mock.ExpectRollback()

		err := repo.Confirm(context.Background(), pgAttempt(), repoNow)
		assert.ErrorIs(t, err, driverErr)
		assert.NotErrorIs(t, err, interfaces.ErrHoldLost)
	})
}
