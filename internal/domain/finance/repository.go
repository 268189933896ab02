package finance

import (
	"context"
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BankAccountRepository defines the interface for bank account persistence
type BankAccountRepository interface {
	// FindByID finds a bank account by ID
	FindByID(ctx context.Context, id uuid.UUID) (*BankAccount, error)

	// FindByIDForUpdate finds a bank account by ID taking a row lock
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*BankAccount, error)

	// FindAll finds all bank accounts, active first
	FindAll(ctx context.Context) ([]BankAccount, error)

	// FindDefault finds the default account, if one is flagged
	FindDefault(ctx context.Context) (*BankAccount, error)

	// Save creates or updates a bank account
	Save(ctx context.Context, account *BankAccount) error

	// Delete soft deletes a bank account
	Delete(ctx context.Context, id uuid.UUID) error
}

// ExpenseFilter defines filtering options for expense queries
type ExpenseFilter struct {
	shared.Filter
	Category *ExpenseCategory // Filter by category
	Status   *ExpenseStatus   // Filter by approval status
	FromDate *time.Time       // Filter by incurred date range start
	ToDate   *time.Time       // Filter by incurred date range end
}

// ExpenseRepository defines the interface for expense record persistence
type ExpenseRepository interface {
	// FindByID finds an expense record by ID
	FindByID(ctx context.Context, id uuid.UUID) (*ExpenseRecord, error)

	// FindByExpenseNumber finds an expense record by its number
	FindByExpenseNumber(ctx context.Context, number string) (*ExpenseRecord, error)

	// FindAll finds expense records matching the filter, paginated
	FindAll(ctx context.Context, filter ExpenseFilter) (shared.Paginated[ExpenseRecord], error)

	// Save creates or updates an expense record
	Save(ctx context.Context, expense *ExpenseRecord) error

	// SumIncurred sums expense amounts incurred in a date range, rejected
	// and cancelled expenses excluded
	SumIncurred(ctx context.Context, from, to time.Time) (decimal.Decimal, error)

	// SumPaidByPeriod sums paid expense amounts grouped by the period the
	// incurred date falls into
	SumPaidByPeriod(ctx context.Context, from, to time.Time, granularity string) (map[string]decimal.Decimal, error)

	// SumPaidByCategory sums paid expense amounts per category in a date range
	SumPaidByCategory(ctx context.Context, from, to time.Time) (map[ExpenseCategory]decimal.Decimal, error)

	// GenerateExpenseNumber generates the next sequential expense number
	GenerateExpenseNumber(ctx context.Context) (string, error)
}
