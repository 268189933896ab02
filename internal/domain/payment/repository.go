package payment

import (
	"context"
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentFilter defines filtering options for payment queries
type PaymentFilter struct {
	shared.Filter
	Direction     *Direction // Filter by direction
	PartyID       *uuid.UUID // Filter by counterparty
	Status        *Status    // Filter by status
	Mode          *Mode      // Filter by payment mode
	BankAccountID *uuid.UUID // Filter by bank account
	FromDate      *time.Time // Filter by payment date range start
	ToDate        *time.Time // Filter by payment date range end
	Unallocated   *bool      // Filter only payments with unallocated amount
}

// Repository defines the interface for payment persistence
type Repository interface {
	// FindByID finds a payment by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)

	// FindByIDForUpdate finds a payment by ID taking a row lock.
	// Must be called inside a transaction; the lock is held until commit.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Payment, error)

	// FindByPaymentNumber finds a payment by its human-readable number
	FindByPaymentNumber(ctx context.Context, number string) (*Payment, error)

	// FindAll finds payments matching the filter, paginated
	FindAll(ctx context.Context, filter PaymentFilter) (shared.Paginated[Payment], error)

	// FindUnallocatedByParty finds active payments for a party that still
	// carry an unallocated amount, oldest first
	FindUnallocatedByParty(ctx context.Context, partyID uuid.UUID, direction Direction) ([]Payment, error)

	// Save creates or updates a payment
	Save(ctx context.Context, p *Payment) error

	// SaveWithLock saves with an optimistic version check
	SaveWithLock(ctx context.Context, p *Payment) error

	// Count counts payments matching the filter
	Count(ctx context.Context, filter PaymentFilter) (int64, error)

	// SumByDirectionAndPeriod sums active payment amounts of a direction,
	// grouped by the period the payment date falls into
	SumByDirectionAndPeriod(ctx context.Context, direction Direction, from, to time.Time, granularity string) (map[string]decimal.Decimal, error)

	// SumByDirection sums active payment amounts of a direction in a date range
	SumByDirection(ctx context.Context, direction Direction, from, to time.Time) (decimal.Decimal, error)

	// ExistsByPaymentNumber checks if a payment number is already taken
	ExistsByPaymentNumber(ctx context.Context, number string) (bool, error)

	// GeneratePaymentNumber generates the next sequential payment number
	GeneratePaymentNumber(ctx context.Context, direction Direction) (string, error)
}

// AllocationRepository defines the interface for allocation persistence
type AllocationRepository interface {
	// FindByID finds an allocation by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Allocation, error)

	// FindByPayment finds all allocations for a payment, newest first
	FindByPayment(ctx context.Context, paymentID uuid.UUID) ([]Allocation, error)

	// FindByDocument finds all allocations against a document, newest first
	FindByDocument(ctx context.Context, documentID uuid.UUID) ([]Allocation, error)

	// FindActiveByDocument finds active allocations against a document
	FindActiveByDocument(ctx context.Context, documentID uuid.UUID) ([]Allocation, error)

	// Save creates or updates an allocation
	Save(ctx context.Context, a *Allocation) error

	// SumActiveByPayment sums active allocation amounts for a payment
	SumActiveByPayment(ctx context.Context, paymentID uuid.UUID) (decimal.Decimal, error)
}
