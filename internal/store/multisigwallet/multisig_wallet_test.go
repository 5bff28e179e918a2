package multisigwallet

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestStore_GetByAddress(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"address", "signers", "threshold"}).
		AddRow("vault1", "{walletA,walletB,walletC}", 2)
	mock.ExpectQuery(`SELECT \* FROM "multisig_wallets" WHERE address = \$1`).WillReturnRows(rows)

	wallet, err := New().GetByAddress(db, "vault1")
	require.NoError(t, err)
	assert.Equal(t, 2, wallet.Threshold)
	assert.True(t, wallet.HasSigner("walletC"))
	assert.Len(t, wallet.Signers, 3)
	assert.NoError(t, mock.ExpectationsWereMet())
}
