package payment

import (
	"context"
	"testing"
	"time"

	"github.com/bizledger/backend/internal/domain/accounting"
	"github.com/bizledger/backend/internal/domain/finance"
	domainpayment "github.com/bizledger/backend/internal/domain/payment"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/infrastructure/persistence"
	"github.com/bizledger/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type serviceFixture struct {
	service   *Service
	documents *persistence.GormDocumentRepository
	payments  *persistence.GormPaymentRepository
	accounts  *persistence.GormBankAccountRepository
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.FinancialDocumentModel{},
		&models.LineItemModel{},
		&models.PaymentModel{},
		&models.AllocationModel{},
		&models.BankAccountModel{},
	))

	documents := persistence.NewGormDocumentRepository(db)
	payments := persistence.NewGormPaymentRepository(db)
	allocations := persistence.NewGormAllocationRepository(db)
	accounts := persistence.NewGormBankAccountRepository(db)

	return &serviceFixture{
		service:   NewService(db, payments, allocations, documents, accounts),
		documents: documents,
		payments:  payments,
		accounts:  accounts,
	}
}

// seedInvoice persists a committed invoice worth 1180.00 for the party
func (f *serviceFixture) seedInvoice(t *testing.T, number string, partyID uuid.UUID) *accounting.FinancialDocument {
	t.Helper()

	doc, err := accounting.NewFinancialDocument(accounting.NewDocumentParams{
		DocumentNumber: number,
		DocumentType:   accounting.DocumentTypeInvoice,
		PartyID:        partyID,
		PartyName:      "Acme Traders",
		DocumentDate:   time.Now(),
		PlaceOfSupply:  "Karnataka",
	})
	require.NoError(t, err)

	line, err := accounting.NewLineItem("SKU-100", decimal.NewFromInt(10), decimal.NewFromInt(100), decimal.NewFromInt(18), 0)
	require.NoError(t, err)
	require.NoError(t, doc.ReplaceLines([]*accounting.LineItem{line}, "Karnataka"))
	require.NoError(t, doc.Commit())
	require.NoError(t, f.documents.Save(context.Background(), doc))
	return doc
}

func (f *serviceFixture) recordCashPayment(t *testing.T, partyID uuid.UUID, amount int64) *PaymentResponse {
	t.Helper()

	response, err := f.service.Record(context.Background(), RecordPaymentRequest{
		Direction:   domainpayment.DirectionInbound,
		PartyID:     partyID,
		PartyName:   "Acme Traders",
		PaymentDate: time.Now(),
		Amount:      decimal.NewFromInt(amount),
		Mode:        domainpayment.ModeCash,
	})
	require.NoError(t, err)
	return response
}

func TestService_Record(t *testing.T) {
	ctx := context.Background()

	t.Run("records a cash payment fully unallocated", func(t *testing.T) {
		f := newServiceFixture(t)

		response := f.recordCashPayment(t, uuid.New(), 5000)
		assert.Equal(t, "RECEIVED", response.Status)
		assert.True(t, response.UnallocatedAmount.Equal(decimal.NewFromInt(5000)))
	})

	t.Run("deposits an inbound bank payment into the account", func(t *testing.T) {
		f := newServiceFixture(t)

		acc := f.seedBankAccount(t, 10000)
		response, err := f.service.Record(ctx, RecordPaymentRequest{
			Direction:     domainpayment.DirectionInbound,
			PartyID:       uuid.New(),
			PartyName:     "Acme Traders",
			PaymentDate:   time.Now(),
			Amount:        decimal.NewFromInt(2500),
			Mode:          domainpayment.ModeBankTransfer,
			BankAccountID: &acc,
		})
		require.NoError(t, err)
		assert.Equal(t, "RECEIVED", response.Status)

		after, err := f.accounts.FindByID(ctx, acc)
		require.NoError(t, err)
		assert.True(t, after.Balance.Equal(decimal.NewFromInt(12500)), "got %s", after.Balance)
	})
}

func TestService_Allocate(t *testing.T) {
	ctx := context.Background()

	t.Run("partial then full settlement", func(t *testing.T) {
		f := newServiceFixture(t)
		partyID := uuid.New()
		doc := f.seedInvoice(t, "INV-20260801-00001", partyID)
		pay := f.recordCashPayment(t, partyID, 2000)

		alloc, err := f.service.Allocate(ctx, pay.ID, AllocateRequest{DocumentID: doc.ID, Amount: decimal.NewFromInt(500)})
		require.NoError(t, err)
		assert.Equal(t, "ACTIVE", alloc.Status)

		settled, err := f.documents.FindByID(ctx, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, accounting.DocumentStatusPartial, settled.Status)
		assert.True(t, settled.BalanceDue.Equal(decimal.NewFromInt(680)))

		_, err = f.service.Allocate(ctx, pay.ID, AllocateRequest{DocumentID: doc.ID, Amount: decimal.NewFromInt(680)})
		require.NoError(t, err)

		settled, err = f.documents.FindByID(ctx, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, accounting.DocumentStatusPaid, settled.Status)
		assert.True(t, settled.BalanceDue.IsZero())
		assert.NotNil(t, settled.PaidAt)

		after, err := f.payments.FindByID(ctx, pay.ID)
		require.NoError(t, err)
		assert.True(t, after.UnallocatedAmount.Equal(decimal.NewFromInt(820)))
	})

	t.Run("rejects allocation beyond the balance due and rolls back", func(t *testing.T) {
		f := newServiceFixture(t)
		partyID := uuid.New()
		doc := f.seedInvoice(t, "INV-20260801-00002", partyID)
		pay := f.recordCashPayment(t, partyID, 5000)

		_, err := f.service.Allocate(ctx, pay.ID, AllocateRequest{DocumentID: doc.ID, Amount: decimal.NewFromInt(1181)})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_BALANCE", domainErr.Code)

		after, err := f.payments.FindByID(ctx, pay.ID)
		require.NoError(t, err)
		assert.True(t, after.UnallocatedAmount.Equal(decimal.NewFromInt(5000)))

		allocations, err := f.service.ListAllocations(ctx, pay.ID)
		require.NoError(t, err)
		assert.Empty(t, allocations)
	})

	t.Run("rejects allocation beyond the payment headroom", func(t *testing.T) {
		f := newServiceFixture(t)
		partyID := uuid.New()
		doc := f.seedInvoice(t, "INV-20260801-00003", partyID)
		pay := f.recordCashPayment(t, partyID, 1000)

		_, err := f.service.Allocate(ctx, pay.ID, AllocateRequest{DocumentID: doc.ID, Amount: decimal.NewFromInt(1100)})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "OVER_ALLOCATION", domainErr.Code)

		after, err := f.documents.FindByID(ctx, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, accounting.DocumentStatusIssued, after.Status)
		assert.True(t, after.BalanceDue.Equal(decimal.NewFromInt(1180)))
	})

	t.Run("rejects a counterparty mismatch", func(t *testing.T) {
		f := newServiceFixture(t)
		doc := f.seedInvoice(t, "INV-20260801-00004", uuid.New())
		pay := f.recordCashPayment(t, uuid.New(), 1000)

		_, err := f.service.Allocate(ctx, pay.ID, AllocateRequest{DocumentID: doc.ID, Amount: decimal.NewFromInt(100)})
		assert.Equal(t, shared.ErrCounterpartyMismatch, err)
	})

	t.Run("rejects allocation against a draft", func(t *testing.T) {
		f := newServiceFixture(t)
		partyID := uuid.New()

		draft, err := accounting.NewFinancialDocument(accounting.NewDocumentParams{
			DocumentNumber: "INV-20260801-00005",
			DocumentType:   accounting.DocumentTypeInvoice,
			PartyID:        partyID,
			PartyName:      "Acme Traders",
			DocumentDate:   time.Now(),
			PlaceOfSupply:  "Karnataka",
		})
		require.NoError(t, err)
		line, err := accounting.NewLineItem("SKU-100", decimal.NewFromInt(1), decimal.NewFromInt(100), decimal.Zero, 0)
		require.NoError(t, err)
		require.NoError(t, draft.ReplaceLines([]*accounting.LineItem{line}, "Karnataka"))
		require.NoError(t, f.documents.Save(ctx, draft))

		pay := f.recordCashPayment(t, partyID, 1000)
		_, err = f.service.Allocate(ctx, pay.ID, AllocateRequest{DocumentID: draft.ID, Amount: decimal.NewFromInt(100)})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "DOCUMENT_NOT_OPEN", domainErr.Code)
	})

	t.Run("splits one payment across two documents", func(t *testing.T) {
		f := newServiceFixture(t)
		partyID := uuid.New()
		first := f.seedInvoice(t, "INV-20260801-00006", partyID)
		second := f.seedInvoice(t, "INV-20260801-00007", partyID)
		pay := f.recordCashPayment(t, partyID, 2360)

		_, err := f.service.Allocate(ctx, pay.ID, AllocateRequest{DocumentID: first.ID, Amount: decimal.NewFromInt(1180)})
		require.NoError(t, err)
		_, err = f.service.Allocate(ctx, pay.ID, AllocateRequest{DocumentID: second.ID, Amount: decimal.NewFromInt(1180)})
		require.NoError(t, err)

		after, err := f.payments.FindByID(ctx, pay.ID)
		require.NoError(t, err)
		assert.True(t, after.UnallocatedAmount.IsZero())
		assert.True(t, after.IsFullyAllocated())
	})
}

func TestService_ReverseAllocation(t *testing.T) {
	ctx := context.Background()

	t.Run("reopens a paid document and restores headroom", func(t *testing.T) {
		f := newServiceFixture(t)
		partyID := uuid.New()
		doc := f.seedInvoice(t, "INV-20260801-00010", partyID)
		pay := f.recordCashPayment(t, partyID, 1180)

		alloc, err := f.service.Allocate(ctx, pay.ID, AllocateRequest{DocumentID: doc.ID, Amount: decimal.NewFromInt(1180)})
		require.NoError(t, err)

		reversed, err := f.service.ReverseAllocation(ctx, pay.ID, alloc.ID)
		require.NoError(t, err)
		assert.Equal(t, "REVERSED", reversed.Status)
		assert.NotNil(t, reversed.ReversedAt)

		after, err := f.documents.FindByID(ctx, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, accounting.DocumentStatusIssued, after.Status)
		assert.True(t, after.BalanceDue.Equal(decimal.NewFromInt(1180)))
		assert.Nil(t, after.PaidAt)

		payAfter, err := f.payments.FindByID(ctx, pay.ID)
		require.NoError(t, err)
		assert.True(t, payAfter.UnallocatedAmount.Equal(decimal.NewFromInt(1180)))
	})

	t.Run("cannot reverse the same allocation twice", func(t *testing.T) {
		f := newServiceFixture(t)
		partyID := uuid.New()
		doc := f.seedInvoice(t, "INV-20260801-00011", partyID)
		pay := f.recordCashPayment(t, partyID, 1180)

		alloc, err := f.service.Allocate(ctx, pay.ID, AllocateRequest{DocumentID: doc.ID, Amount: decimal.NewFromInt(500)})
		require.NoError(t, err)

		_, err = f.service.ReverseAllocation(ctx, pay.ID, alloc.ID)
		require.NoError(t, err)
		_, err = f.service.ReverseAllocation(ctx, pay.ID, alloc.ID)
		require.Error(t, err)
	})

	t.Run("rejects an allocation belonging to another payment", func(t *testing.T) {
		f := newServiceFixture(t)
		partyID := uuid.New()
		doc := f.seedInvoice(t, "INV-20260801-00012", partyID)
		pay := f.recordCashPayment(t, partyID, 1180)
		other := f.recordCashPayment(t, partyID, 50)

		alloc, err := f.service.Allocate(ctx, pay.ID, AllocateRequest{DocumentID: doc.ID, Amount: decimal.NewFromInt(500)})
		require.NoError(t, err)

		_, err = f.service.ReverseAllocation(ctx, other.ID, alloc.ID)
		assert.Equal(t, shared.ErrNotFound, err)
	})
}

func TestService_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("refuses to cancel with active allocations", func(t *testing.T) {
		f := newServiceFixture(t)
		partyID := uuid.New()
		doc := f.seedInvoice(t, "INV-20260801-00020", partyID)
		pay := f.recordCashPayment(t, partyID, 1180)

		_, err := f.service.Allocate(ctx, pay.ID, AllocateRequest{DocumentID: doc.ID, Amount: decimal.NewFromInt(500)})
		require.NoError(t, err)

		_, err = f.service.Cancel(ctx, pay.ID, CancelPaymentRequest{Reason: "recorded in error"})
		require.Error(t, err)
	})

	t.Run("cancelling a bank payment returns the money", func(t *testing.T) {
		f := newServiceFixture(t)
		acc := f.seedBankAccount(t, 10000)

		response, err := f.service.Record(ctx, RecordPaymentRequest{
			Direction:     domainpayment.DirectionOutbound,
			PartyID:       uuid.New(),
			PartyName:     "Supplies Co",
			PaymentDate:   time.Now(),
			Amount:        decimal.NewFromInt(4000),
			Mode:          domainpayment.ModeBankTransfer,
			BankAccountID: &acc,
		})
		require.NoError(t, err)

		mid, err := f.accounts.FindByID(ctx, acc)
		require.NoError(t, err)
		assert.True(t, mid.Balance.Equal(decimal.NewFromInt(6000)))

		_, err = f.service.Cancel(ctx, response.ID, CancelPaymentRequest{Reason: "duplicate entry"})
		require.NoError(t, err)

		after, err := f.accounts.FindByID(ctx, acc)
		require.NoError(t, err)
		assert.True(t, after.Balance.Equal(decimal.NewFromInt(10000)))
	})
}

func (f *serviceFixture) seedBankAccount(t *testing.T, opening int64) uuid.UUID {
	t.Helper()

	account, err := finance.NewBankAccount("Operating Account", finance.BankAccountTypeCurrent,
		"HDFC Bank", "50100012345678", "HDFC0000123", decimal.NewFromInt(opening))
	require.NoError(t, err)
	require.NoError(t, f.accounts.Save(context.Background(), account))
	return account.ID
}
