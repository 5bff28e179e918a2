package withdrawalrequest

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/dwarvesf/justthetip/internal/model"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return db, mock
}

func TestStore_Create(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(`INSERT INTO "withdrawal_requests"`).WillReturnResult(sqlmock.NewResult(0, 1))

	w := &model.WithdrawalRequest{
		ID:        "7f1c",
		UserID:    "123456789012345678",
		ToAddress: "So11111111111111111111111111111111111111112",
		Amount:    "50000000",
		Currency:  "SOL",
		Status:    model.WithdrawalStatusPending,
	}
	got, err := New().Create(db, w)
	require.NoError(t, err)
	assert.Same(t, w, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	rows := sqlmock.NewRows([]string{"id", "user_id", "amount", "currency", "status"}).
		AddRow("7f1c", "123456789012345678", "50000000", "SOL", "PENDING")
	mock.ExpectQuery(`SELECT \* FROM "withdrawal_requests" WHERE id = \$1`).WillReturnRows(rows)

	got, err := New().GetByID(db, "7f1c")
	require.NoError(t, err)
	assert.Equal(t, model.WithdrawalStatusPending, got.Status)
	assert.Equal(t, "50000000", got.Amount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "withdrawal_requests"`).WillReturnRows(sqlmock.NewRows([]string{"id"}))

	got, err := New().GetByID(db, "missing")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestStore_Claim(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("wins when still pending", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(`UPDATE "withdrawal_requests" SET .*approved_by.* WHERE \(id = \$\d+ AND status = \$\d+ AND expires_at >= \$\d+\) AND \(approved_by = '' AND rejected_by = ''\)`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := New().Claim(db, "7f1c", "admin1", at)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("loses when already claimed", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(`UPDATE "withdrawal_requests"`).WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := New().Claim(db, "7f1c", "admin2", at)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestStore_ExpirePending(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(`UPDATE "withdrawal_requests" SET .*status.* WHERE \(status = \$\d+ AND expires_at < \$\d+\) AND \(approved_by = '' AND rejected_by = ''\)`).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := New().ExpirePending(db, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_FailUnrecorded(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(`UPDATE "withdrawal_requests" SET .*rejection_reason.*status.* WHERE approved_at < \$\d+ AND \(\(status = \$\d+ AND approved_by <> ''\) OR status = \$\d+\)`).
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := New().FailUnrecorded(db, time.Now().Add(-10*time.Minute), "outcome unknown")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_ListPending(t *testing.T) {
	db, mock := newMockDB(t)
	rows := sqlmock.NewRows([]string{"id", "status"}).
		AddRow("a", "PENDING").
		AddRow("b", "PENDING")
	mock.ExpectQuery(`SELECT \* FROM "withdrawal_requests" WHERE status = \$1 ORDER BY requested_at asc`).WillReturnRows(rows)

	got, err := New().ListPending(db)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_ListByUser(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "withdrawal_requests" WHERE user_id = \$1 ORDER BY requested_at desc LIMIT`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("c"))

	got, err := New().ListByUser(db, "123456789012345678", 10)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
