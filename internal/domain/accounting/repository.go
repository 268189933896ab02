package accounting

import (
	"context"
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentFilter defines filtering options for document queries
type DocumentFilter struct {
	shared.Filter
	DocumentType *DocumentType    // Filter by document type
	PartyID      *uuid.UUID       // Filter by counterparty
	Status       *DocumentStatus  // Filter by stored status
	FromDate     *time.Time       // Filter by document date range start
	ToDate       *time.Time       // Filter by document date range end
	DueFrom      *time.Time       // Filter by due date range start
	DueTo        *time.Time       // Filter by due date range end
	Overdue      *bool            // Filter only effectively overdue documents
	MinAmount    *decimal.Decimal // Filter by minimum total amount
	MaxAmount    *decimal.Decimal // Filter by maximum total amount
}

// DocumentRepository defines the interface for financial document persistence
type DocumentRepository interface {
	// FindByID finds a document (with lines) by ID
	FindByID(ctx context.Context, id uuid.UUID) (*FinancialDocument, error)

	// FindByIDForUpdate finds a document by ID taking a row lock.
	// Must be called inside a transaction; the lock is held until commit.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*FinancialDocument, error)

	// FindByDocumentNumber finds a document by its human-readable number
	FindByDocumentNumber(ctx context.Context, number string) (*FinancialDocument, error)

	// FindAll finds documents matching the filter, paginated
	FindAll(ctx context.Context, filter DocumentFilter) (shared.Paginated[FinancialDocument], error)

	// FindOpen finds all committed documents of a type that still carry a
	// balance, ordered oldest first
	FindOpen(ctx context.Context, docType DocumentType) ([]FinancialDocument, error)

	// FindOpenByParty finds settleable documents for a counterparty,
	// ordered oldest first
	FindOpenByParty(ctx context.Context, partyID uuid.UUID, docType DocumentType) ([]FinancialDocument, error)

	// FindOverdue finds documents that are effectively overdue as of the
	// given time (stored Overdue status or past due with an open balance)
	FindOverdue(ctx context.Context, docType DocumentType, asOf time.Time) ([]FinancialDocument, error)

	// Save creates or updates a document and its line set
	Save(ctx context.Context, doc *FinancialDocument) error

	// SaveWithLock saves with an optimistic version check
	SaveWithLock(ctx context.Context, doc *FinancialDocument) error

	// Delete soft deletes a document
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts documents matching the filter
	Count(ctx context.Context, filter DocumentFilter) (int64, error)

	// SumOutstanding sums balance_due over open documents of a type
	SumOutstanding(ctx context.Context, docType DocumentType) (decimal.Decimal, error)

	// SumOverdue sums balance_due over effectively overdue documents of a type
	SumOverdue(ctx context.Context, docType DocumentType, asOf time.Time) (decimal.Decimal, error)

	// SumTotalsByPeriod sums total_amount of committed documents of a type,
	// grouped by the period the document date falls into
	SumTotalsByPeriod(ctx context.Context, docType DocumentType, from, to time.Time, granularity string) (map[string]decimal.Decimal, error)

	// ExistsByDocumentNumber checks if a document number is already taken
	ExistsByDocumentNumber(ctx context.Context, number string) (bool, error)

	// GenerateDocumentNumber generates the next sequential number for a type
	GenerateDocumentNumber(ctx context.Context, docType DocumentType) (string, error)
}
