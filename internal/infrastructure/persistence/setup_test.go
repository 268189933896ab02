package persistence

import (
	"testing"

	"github.com/bizledger/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens an in-memory SQLite database migrated with every
// persistence model. Each call gets a fresh database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.FinancialDocumentModel{},
		&models.LineItemModel{},
		&models.PaymentModel{},
		&models.AllocationModel{},
		&models.BankAccountModel{},
		&models.ExpenseRecordModel{},
	)
	require.NoError(t, err)

	return db
}
