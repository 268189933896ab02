package payment

import (
	"context"
	"fmt"

	"github.com/bizledger/backend/internal/domain/accounting"
	"github.com/bizledger/backend/internal/domain/payment"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service handles payment recording and the allocation engine. Allocation
// and reversal run in a single database transaction with the payment and
// document rows locked, so two concurrent allocations can never both pass
// the balance check.
type Service struct {
	db          *gorm.DB
	payments    *persistence.GormPaymentRepository
	allocations *persistence.GormAllocationRepository
	documents   *persistence.GormDocumentRepository
	accounts    *persistence.GormBankAccountRepository
}

// NewService creates a new payment Service
func NewService(
	db *gorm.DB,
	payments *persistence.GormPaymentRepository,
	allocations *persistence.GormAllocationRepository,
	documents *persistence.GormDocumentRepository,
	accounts *persistence.GormBankAccountRepository,
) *Service {
	return &Service{
		db:          db,
		payments:    payments,
		allocations: allocations,
		documents:   documents,
		accounts:    accounts,
	}
}

// Record records a payment and moves the money through the bank account,
// when one is involved
func (s *Service) Record(ctx context.Context, req RecordPaymentRequest) (*PaymentResponse, error) {
	number, err := s.payments.GeneratePaymentNumber(ctx, req.Direction)
	if err != nil {
		return nil, err
	}

	pay, err := payment.NewPayment(payment.NewPaymentParams{
		PaymentNumber: number,
		Direction:     req.Direction,
		PartyID:       req.PartyID,
		PartyName:     req.PartyName,
		PaymentDate:   req.PaymentDate,
		Amount:        req.Amount,
		Mode:          req.Mode,
		BankAccountID: req.BankAccountID,
		Reference:     req.Reference,
		Notes:         req.Notes,
	})
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.payments.WithTx(tx).Save(ctx, pay); err != nil {
			return err
		}
		if pay.BankAccountID != nil {
			return s.moveBankBalance(ctx, tx, *pay.BankAccountID, pay, false)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToPaymentResponse(pay)
	return &response, nil
}

// Get returns a payment by ID
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*PaymentResponse, error) {
	pay, err := s.payments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToPaymentResponse(pay)
	return &response, nil
}

// List returns payments matching the filter, paginated
func (s *Service) List(ctx context.Context, filter PaymentListFilter) (shared.Paginated[PaymentResponse], error) {
	result, err := s.payments.FindAll(ctx, filter.ToDomainFilter())
	if err != nil {
		return shared.Paginated[PaymentResponse]{}, err
	}

	responses := make([]PaymentResponse, len(result.Items))
	for i := range result.Items {
		responses[i] = ToPaymentResponse(&result.Items[i])
	}
	return shared.NewPaginated(responses, result.Total, result.Page, result.PageSize), nil
}

// ListAllocations returns all allocations of a payment, newest first
func (s *Service) ListAllocations(ctx context.Context, paymentID uuid.UUID) ([]AllocationResponse, error) {
	if _, err := s.payments.FindByID(ctx, paymentID); err != nil {
		return nil, err
	}

	allocations, err := s.allocations.FindByPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	responses := make([]AllocationResponse, len(allocations))
	for i := range allocations {
		responses[i] = ToAllocationResponse(&allocations[i])
	}
	return responses, nil
}

// ListAllocatable returns the open documents the payment could settle:
// invoices of the payment's counterparty for money received, bills for
// money made, oldest first so the UI can suggest FIFO settlement.
func (s *Service) ListAllocatable(ctx context.Context, paymentID uuid.UUID) ([]AllocatableDocumentResponse, error) {
	pay, err := s.payments.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	docType := accounting.DocumentTypeInvoice
	if pay.Direction == payment.DirectionOutbound {
		docType = accounting.DocumentTypeBill
	}

	docs, err := s.documents.FindOpenByParty(ctx, pay.PartyID, docType)
	if err != nil {
		return nil, err
	}

	responses := make([]AllocatableDocumentResponse, len(docs))
	for i := range docs {
		responses[i] = ToAllocatableDocumentResponse(&docs[i])
	}
	return responses, nil
}

// Allocate settles part of a document from a payment. Both rows are locked
// for the duration of the transaction; every precondition failure rolls the
// whole operation back.
func (s *Service) Allocate(ctx context.Context, paymentID uuid.UUID, req AllocateRequest) (*AllocationResponse, error) {
	var allocation *payment.Allocation

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		payments := s.payments.WithTx(tx)
		documents := s.documents.WithTx(tx)

		pay, err := payments.FindByIDForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}
		doc, err := documents.FindByIDForUpdate(ctx, req.DocumentID)
		if err != nil {
			return err
		}

		if doc.PartyID != pay.PartyID {
			return shared.ErrCounterpartyMismatch
		}
		if !directionMatches(pay.Direction, doc.DocumentType) {
			return shared.NewDomainError("VALIDATION_ERROR",
				fmt.Sprintf("A %s payment cannot settle a %s", pay.Direction, doc.DocumentType))
		}

		if err := doc.ApplyAllocation(req.Amount); err != nil {
			return err
		}
		if err := pay.Allocate(req.Amount); err != nil {
			return err
		}

		allocation, err = payment.NewAllocation(pay.ID, doc.ID, req.Amount, req.Notes)
		if err != nil {
			return err
		}

		if err := s.allocations.WithTx(tx).Save(ctx, allocation); err != nil {
			return err
		}
		if err := documents.SaveWithLock(ctx, doc); err != nil {
			return err
		}
		return payments.SaveWithLock(ctx, pay)
	})
	if err != nil {
		return nil, err
	}

	response := ToAllocationResponse(allocation)
	return &response, nil
}

// ReverseAllocation undoes an allocation, restoring the document balance
// and the payment's unallocated headroom. The allocation row stays, marked
// reversed.
func (s *Service) ReverseAllocation(ctx context.Context, paymentID, allocationID uuid.UUID) (*AllocationResponse, error) {
	var allocation *payment.Allocation

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		payments := s.payments.WithTx(tx)
		documents := s.documents.WithTx(tx)
		allocations := s.allocations.WithTx(tx)

		var err error
		allocation, err = allocations.FindByID(ctx, allocationID)
		if err != nil {
			return err
		}
		if allocation.PaymentID != paymentID {
			return shared.ErrNotFound
		}

		pay, err := payments.FindByIDForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}
		doc, err := documents.FindByIDForUpdate(ctx, allocation.DocumentID)
		if err != nil {
			return err
		}

		if err := allocation.Reverse(); err != nil {
			return err
		}
		if err := doc.ReverseAllocation(allocation.Amount); err != nil {
			return err
		}
		if err := pay.ReverseAllocation(allocation.Amount); err != nil {
			return err
		}

		if err := allocations.Save(ctx, allocation); err != nil {
			return err
		}
		if err := documents.SaveWithLock(ctx, doc); err != nil {
			return err
		}
		return payments.SaveWithLock(ctx, pay)
	})
	if err != nil {
		return nil, err
	}

	response := ToAllocationResponse(allocation)
	return &response, nil
}

// Cancel cancels a payment with no active allocations and returns the
// money to the bank account it moved through
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, req CancelPaymentRequest) (*PaymentResponse, error) {
	var pay *payment.Payment

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		payments := s.payments.WithTx(tx)

		var err error
		pay, err = payments.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := pay.Cancel(req.Reason); err != nil {
			return err
		}
		if err := payments.SaveWithLock(ctx, pay); err != nil {
			return err
		}
		if pay.BankAccountID != nil {
			return s.moveBankBalance(ctx, tx, *pay.BankAccountID, pay, true)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToPaymentResponse(pay)
	return &response, nil
}

// moveBankBalance applies (or with reverse set, undoes) the bank movement
// of a payment
func (s *Service) moveBankBalance(ctx context.Context, tx *gorm.DB, accountID uuid.UUID, pay *payment.Payment, reverse bool) error {
	accounts := s.accounts.WithTx(tx)
	account, err := accounts.FindByIDForUpdate(ctx, accountID)
	if err != nil {
		return err
	}

	deposit := pay.Direction == payment.DirectionInbound
	if reverse {
		deposit = !deposit
	}
	if deposit {
		err = account.Deposit(pay.Amount)
	} else {
		err = account.Withdraw(pay.Amount)
	}
	if err != nil {
		return err
	}
	return accounts.Save(ctx, account)
}

// directionMatches pairs inbound payments with customer documents and
// outbound payments with vendor documents
func directionMatches(direction payment.Direction, docType accounting.DocumentType) bool {
	if docType.CounterpartyType() == accounting.PartyTypeCustomer {
		return direction == payment.DirectionInbound
	}
	return direction == payment.DirectionOutbound
}
