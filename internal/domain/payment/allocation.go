package payment

import (
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AllocationStatus represents the lifecycle of a single allocation row
type AllocationStatus string

const (
	AllocationStatusActive   AllocationStatus = "ACTIVE"
	AllocationStatusReversed AllocationStatus = "REVERSED"
)

// IsValid checks if the allocation status is valid
func (s AllocationStatus) IsValid() bool {
	return s == AllocationStatusActive || s == AllocationStatusReversed
}

// Allocation links part of a payment to a document. Allocations are never
// deleted; a mistake is undone by reversing, which keeps the audit trail.
type Allocation struct {
	ID          uuid.UUID        `json:"id"`
	PaymentID   uuid.UUID        `json:"payment_id"`
	DocumentID  uuid.UUID        `json:"document_id"`
	Amount      decimal.Decimal  `json:"amount"`
	Status      AllocationStatus `json:"status"`
	AllocatedAt time.Time        `json:"allocated_at"`
	ReversedAt  *time.Time       `json:"reversed_at,omitempty"`
	Notes       string           `json:"notes,omitempty"`
}

// NewAllocation creates an active allocation row
func NewAllocation(paymentID, documentID uuid.UUID, amount decimal.Decimal, notes string) (*Allocation, error) {
	if paymentID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Payment ID cannot be empty")
	}
	if documentID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Document ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Allocation amount must be positive")
	}

	return &Allocation{
		ID:          uuid.New(),
		PaymentID:   paymentID,
		DocumentID:  documentID,
		Amount:      amount,
		Status:      AllocationStatusActive,
		AllocatedAt: time.Now(),
		Notes:       notes,
	}, nil
}

// Reverse marks the allocation as reversed
func (a *Allocation) Reverse() error {
	if a.Status == AllocationStatusReversed {
		return shared.NewDomainError("INVALID_STATE", "Allocation is already reversed")
	}
	now := time.Now()
	a.Status = AllocationStatusReversed
	a.ReversedAt = &now
	return nil
}

// IsActive returns true while the allocation still binds payment to document
func (a *Allocation) IsActive() bool {
	return a.Status == AllocationStatusActive
}
