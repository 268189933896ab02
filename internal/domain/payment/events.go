package payment

import (
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const aggregateTypePayment = "Payment"

// PaymentRecordedEvent is raised when a payment is recorded
type PaymentRecordedEvent struct {
	shared.BaseDomainEvent
	PaymentNumber string          `json:"payment_number"`
	Direction     Direction       `json:"direction"`
	Amount        decimal.Decimal `json:"amount"`
}

// NewPaymentRecordedEvent creates a PaymentRecordedEvent
func NewPaymentRecordedEvent(p *Payment) *PaymentRecordedEvent {
	return &PaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("payment.recorded", aggregateTypePayment, p.ID),
		PaymentNumber:   p.PaymentNumber,
		Direction:       p.Direction,
		Amount:          p.Amount,
	}
}

// PaymentAllocatedEvent is raised when part of a payment is applied to a document
type PaymentAllocatedEvent struct {
	shared.BaseDomainEvent
	PaymentNumber string          `json:"payment_number"`
	DocumentID    uuid.UUID       `json:"document_id"`
	Amount        decimal.Decimal `json:"amount"`
	Unallocated   decimal.Decimal `json:"unallocated_amount"`
}

// NewPaymentAllocatedEvent creates a PaymentAllocatedEvent
func NewPaymentAllocatedEvent(p *Payment, documentID uuid.UUID, amount decimal.Decimal) *PaymentAllocatedEvent {
	return &PaymentAllocatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("payment.allocated", aggregateTypePayment, p.ID),
		PaymentNumber:   p.PaymentNumber,
		DocumentID:      documentID,
		Amount:          amount,
		Unallocated:     p.UnallocatedAmount,
	}
}

// AllocationReversedEvent is raised when an allocation is reversed
type AllocationReversedEvent struct {
	shared.BaseDomainEvent
	PaymentNumber string          `json:"payment_number"`
	DocumentID    uuid.UUID       `json:"document_id"`
	Amount        decimal.Decimal `json:"amount"`
}

// NewAllocationReversedEvent creates an AllocationReversedEvent
func NewAllocationReversedEvent(p *Payment, documentID uuid.UUID, amount decimal.Decimal) *AllocationReversedEvent {
	return &AllocationReversedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("payment.allocation_reversed", aggregateTypePayment, p.ID),
		PaymentNumber:   p.PaymentNumber,
		DocumentID:      documentID,
		Amount:          amount,
	}
}

// PaymentCancelledEvent is raised when a payment is voided
type PaymentCancelledEvent struct {
	shared.BaseDomainEvent
	PaymentNumber string `json:"payment_number"`
	Reason        string `json:"reason"`
}

// NewPaymentCancelledEvent creates a PaymentCancelledEvent
func NewPaymentCancelledEvent(p *Payment) *PaymentCancelledEvent {
	return &PaymentCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("payment.cancelled", aggregateTypePayment, p.ID),
		PaymentNumber:   p.PaymentNumber,
		Reason:          p.CancelReason,
	}
}
