package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bizledger/backend/internal/domain/accounting"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHomeState = "Karnataka"

// newDraftInvoice builds a draft invoice with one 10 x 100 @ 18% line
// (sub total 1000.00, CGST 90.00, SGST 90.00, total 1180.00)
func newDraftInvoice(t *testing.T, number string, dueDate *time.Time) *accounting.FinancialDocument {
	t.Helper()

	doc, err := accounting.NewFinancialDocument(accounting.NewDocumentParams{
		DocumentNumber: number,
		DocumentType:   accounting.DocumentTypeInvoice,
		PartyID:        uuid.New(),
		PartyName:      "Acme Traders",
		DocumentDate:   time.Now(),
		DueDate:        dueDate,
		PlaceOfSupply:  testHomeState,
	})
	require.NoError(t, err)

	line, err := accounting.NewLineItem("SKU-100", decimal.NewFromInt(10), decimal.NewFromInt(100), decimal.NewFromInt(18), 0)
	require.NoError(t, err)
	require.NoError(t, doc.ReplaceLines([]*accounting.LineItem{line}, testHomeState))
	return doc
}

func newCommittedInvoice(t *testing.T, number string, dueDate *time.Time) *accounting.FinancialDocument {
	t.Helper()
	doc := newDraftInvoice(t, number, dueDate)
	require.NoError(t, doc.Commit())
	return doc
}

func TestGormDocumentRepository_SaveAndFindByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormDocumentRepository(db)
	ctx := context.Background()

	t.Run("round trips a document with its lines", func(t *testing.T) {
		doc := newCommittedInvoice(t, "INV-20260801-00001", nil)
		require.NoError(t, repo.Save(ctx, doc))

		found, err := repo.FindByID(ctx, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, doc.DocumentNumber, found.DocumentNumber)
		assert.Equal(t, accounting.DocumentStatusIssued, found.Status)
		assert.Len(t, found.Lines, 1)
		assert.True(t, found.SubTotal.Equal(decimal.NewFromInt(1000)))
		assert.True(t, found.CGSTAmount.Equal(decimal.NewFromInt(90)))
		assert.True(t, found.SGSTAmount.Equal(decimal.NewFromInt(90)))
		assert.True(t, found.TotalAmount.Equal(decimal.NewFromInt(1180)))
		assert.True(t, found.BalanceDue.Equal(decimal.NewFromInt(1180)))
		assert.Equal(t, doc.Version, found.Version)
	})

	t.Run("returns ErrNotFound for missing ID", func(t *testing.T) {
		found, err := repo.FindByID(ctx, uuid.New())
		assert.Nil(t, found)
		assert.Equal(t, shared.ErrNotFound, err)
	})
}

func TestGormDocumentRepository_SaveReplacesLines(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormDocumentRepository(db)
	ctx := context.Background()

	doc := newDraftInvoice(t, "INV-20260801-00002", nil)
	require.NoError(t, repo.Save(ctx, doc))

	lineA, err := accounting.NewLineItem("SKU-200", decimal.NewFromInt(2), decimal.NewFromInt(50), decimal.NewFromInt(18), 0)
	require.NoError(t, err)
	lineB, err := accounting.NewLineItem("SKU-300", decimal.NewFromInt(1), decimal.NewFromInt(75), decimal.NewFromInt(5), 1)
	require.NoError(t, err)
	require.NoError(t, doc.ReplaceLines([]*accounting.LineItem{lineA, lineB}, testHomeState))
	require.NoError(t, repo.Save(ctx, doc))

	found, err := repo.FindByID(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, found.Lines, 2)
	assert.Equal(t, "SKU-200", found.Lines[0].ItemReference)
	assert.Equal(t, "SKU-300", found.Lines[1].ItemReference)

	var lineCount int64
	require.NoError(t, db.Table("line_items").Where("document_id = ?", doc.ID).Count(&lineCount).Error)
	assert.Equal(t, int64(2), lineCount)
}

func TestGormDocumentRepository_FindByDocumentNumber(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormDocumentRepository(db)
	ctx := context.Background()

	doc := newCommittedInvoice(t, "INV-20260801-00003", nil)
	require.NoError(t, repo.Save(ctx, doc))

	found, err := repo.FindByDocumentNumber(ctx, "INV-20260801-00003")
	require.NoError(t, err)
	assert.Equal(t, doc.ID, found.ID)

	_, err = repo.FindByDocumentNumber(ctx, "INV-20260801-99999")
	assert.Equal(t, shared.ErrNotFound, err)
}

func TestGormDocumentRepository_FindAll(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormDocumentRepository(db)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		doc := newCommittedInvoice(t, fmt.Sprintf("INV-20260801-0000%d", i), nil)
		require.NoError(t, repo.Save(ctx, doc))
	}

	bill, err := accounting.NewFinancialDocument(accounting.NewDocumentParams{
		DocumentNumber: "BILL-20260801-00001",
		DocumentType:   accounting.DocumentTypeBill,
		PartyID:        uuid.New(),
		PartyName:      "Supplies Co",
		DocumentDate:   time.Now(),
		PlaceOfSupply:  "Maharashtra",
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, bill))

	t.Run("filters by document type with pagination", func(t *testing.T) {
		docType := accounting.DocumentTypeInvoice
		filter := accounting.DocumentFilter{DocumentType: &docType}
		filter.Page = 1
		filter.PageSize = 2

		result, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(3), result.Total)
		assert.Len(t, result.Items, 2)
		for _, item := range result.Items {
			assert.Equal(t, accounting.DocumentTypeInvoice, item.DocumentType)
		}
	})

	t.Run("filters by status", func(t *testing.T) {
		status := accounting.DocumentStatusDraft
		result, err := repo.FindAll(ctx, accounting.DocumentFilter{Status: &status})
		require.NoError(t, err)
		assert.Equal(t, int64(1), result.Total)
		assert.Equal(t, "BILL-20260801-00001", result.Items[0].DocumentNumber)
	})
}

func TestGormDocumentRepository_FindOverdue(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormDocumentRepository(db)
	ctx := context.Background()
	now := time.Now()

	pastDue := now.AddDate(0, 0, -10)
	futureDue := now.AddDate(0, 0, 10)

	// derived overdue: issued, past due, never swept
	derived := newCommittedInvoice(t, "INV-20260701-00001", &pastDue)
	require.NoError(t, repo.Save(ctx, derived))

	// stored overdue
	stored := newCommittedInvoice(t, "INV-20260701-00002", &pastDue)
	require.NoError(t, stored.MarkOverdue(now))
	require.NoError(t, repo.Save(ctx, stored))

	// not yet due
	current := newCommittedInvoice(t, "INV-20260801-00010", &futureDue)
	require.NoError(t, repo.Save(ctx, current))

	overdue, err := repo.FindOverdue(ctx, accounting.DocumentTypeInvoice, now)
	require.NoError(t, err)
	require.Len(t, overdue, 2)

	numbers := []string{overdue[0].DocumentNumber, overdue[1].DocumentNumber}
	assert.Contains(t, numbers, "INV-20260701-00001")
	assert.Contains(t, numbers, "INV-20260701-00002")
}

func TestGormDocumentRepository_SaveWithLock(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormDocumentRepository(db)
	ctx := context.Background()

	doc := newCommittedInvoice(t, "INV-20260801-00020", nil)
	require.NoError(t, repo.Save(ctx, doc))

	t.Run("succeeds when version matches", func(t *testing.T) {
		require.NoError(t, doc.ApplyAllocation(decimal.NewFromInt(500)))
		require.NoError(t, repo.SaveWithLock(ctx, doc))

		found, err := repo.FindByID(ctx, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, accounting.DocumentStatusPartial, found.Status)
		assert.True(t, found.BalanceDue.Equal(decimal.NewFromInt(680)))
	})

	t.Run("fails when the row was modified concurrently", func(t *testing.T) {
		// saving again without incrementing the version simulates a
		// stale aggregate
		err := repo.SaveWithLock(ctx, doc)
		assert.Equal(t, shared.ErrConcurrencyConflict, err)
	})
}

func TestGormDocumentRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormDocumentRepository(db)
	ctx := context.Background()

	doc := newDraftInvoice(t, "INV-20260801-00030", nil)
	require.NoError(t, repo.Save(ctx, doc))

	require.NoError(t, repo.Delete(ctx, doc.ID))

	_, err := repo.FindByID(ctx, doc.ID)
	assert.Equal(t, shared.ErrNotFound, err)

	assert.Equal(t, shared.ErrNotFound, repo.Delete(ctx, doc.ID))
}

func TestGormDocumentRepository_SumOutstanding(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormDocumentRepository(db)
	ctx := context.Background()

	first := newCommittedInvoice(t, "INV-20260801-00040", nil)
	require.NoError(t, repo.Save(ctx, first))

	second := newCommittedInvoice(t, "INV-20260801-00041", nil)
	require.NoError(t, second.ApplyAllocation(decimal.NewFromInt(180)))
	require.NoError(t, repo.Save(ctx, second))

	// drafts do not count toward outstanding
	draft := newDraftInvoice(t, "INV-20260801-00042", nil)
	require.NoError(t, repo.Save(ctx, draft))

	total, err := repo.SumOutstanding(ctx, accounting.DocumentTypeInvoice)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(2180)), "got %s", total)
}

func TestGormDocumentRepository_SumTotalsByPeriod(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormDocumentRepository(db)
	ctx := context.Background()

	makeInvoice := func(number string, date time.Time) {
		doc, err := accounting.NewFinancialDocument(accounting.NewDocumentParams{
			DocumentNumber: number,
			DocumentType:   accounting.DocumentTypeInvoice,
			PartyID:        uuid.New(),
			PartyName:      "Acme Traders",
			DocumentDate:   date,
			PlaceOfSupply:  testHomeState,
		})
		require.NoError(t, err)
		line, err := accounting.NewLineItem("SKU-100", decimal.NewFromInt(10), decimal.NewFromInt(100), decimal.NewFromInt(18), 0)
		require.NoError(t, err)
		require.NoError(t, doc.ReplaceLines([]*accounting.LineItem{line}, testHomeState))
		require.NoError(t, doc.Commit())
		require.NoError(t, repo.Save(ctx, doc))
	}

	makeInvoice("INV-20260601-00001", time.Date(2026, 6, 5, 0, 0, 0, 0, time.UTC))
	makeInvoice("INV-20260601-00002", time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC))
	makeInvoice("INV-20260701-00003", time.Date(2026, 7, 3, 0, 0, 0, 0, time.UTC))

	from := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)

	series, err := repo.SumTotalsByPeriod(ctx, accounting.DocumentTypeInvoice, from, to, "monthly")
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.True(t, series["2026-06"].Equal(decimal.NewFromInt(2360)), "got %s", series["2026-06"])
	assert.True(t, series["2026-07"].Equal(decimal.NewFromInt(1180)), "got %s", series["2026-07"])
}

func TestGormDocumentRepository_GenerateDocumentNumber(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormDocumentRepository(db)
	ctx := context.Background()
	date := time.Now().Format("20060102")

	t.Run("starts at one per type", func(t *testing.T) {
		number, err := repo.GenerateDocumentNumber(ctx, accounting.DocumentTypeInvoice)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("INV-%s-00001", date), number)

		number, err = repo.GenerateDocumentNumber(ctx, accounting.DocumentTypePurchaseOrder)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("PO-%s-00001", date), number)
	})

	t.Run("increments past the highest stored number", func(t *testing.T) {
		doc := newCommittedInvoice(t, fmt.Sprintf("INV-%s-00007", date), nil)
		require.NoError(t, repo.Save(ctx, doc))

		number, err := repo.GenerateDocumentNumber(ctx, accounting.DocumentTypeInvoice)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("INV-%s-00008", date), number)
	})
}
