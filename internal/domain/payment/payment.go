package payment

import (
	"fmt"
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Direction distinguishes money received from money paid out
type Direction string

const (
	DirectionInbound  Direction = "INBOUND"  // received from a customer
	DirectionOutbound Direction = "OUTBOUND" // paid to a vendor
)

// IsValid checks if the direction is valid
func (d Direction) IsValid() bool {
	return d == DirectionInbound || d == DirectionOutbound
}

// String returns the string representation of Direction
func (d Direction) String() string {
	return string(d)
}

// Mode represents how the payment moved
type Mode string

const (
	ModeCash         Mode = "CASH"
	ModeBankTransfer Mode = "BANK_TRANSFER"
	ModeUPI          Mode = "UPI"
	ModeCheque       Mode = "CHEQUE"
	ModeCard         Mode = "CARD"
)

// IsValid checks if the mode is valid
func (m Mode) IsValid() bool {
	switch m {
	case ModeCash, ModeBankTransfer, ModeUPI, ModeCheque, ModeCard:
		return true
	}
	return false
}

// Status represents the lifecycle status of a payment
type Status string

const (
	StatusReceived  Status = "RECEIVED" // active inbound payment
	StatusPaid      Status = "PAID"     // active outbound payment
	StatusCancelled Status = "CANCELLED"
)

// IsValid checks if the status is valid
func (s Status) IsValid() bool {
	return s == StatusReceived || s == StatusPaid || s == StatusCancelled
}

// IsActive returns true while the payment can be allocated
func (s Status) IsActive() bool {
	return s == StatusReceived || s == StatusPaid
}

// Payment is the aggregate root for money received or paid out. A payment
// holds a fixed amount; the allocation engine carves it up across documents
// through Allocate/ReverseAllocation, never exceeding the amount.
type Payment struct {
	shared.BaseAggregateRoot
	PaymentNumber     string          `json:"payment_number"`
	Direction         Direction       `json:"direction"`
	PartyID           uuid.UUID       `json:"party_id"`
	PartyName         string          `json:"party_name"`
	PaymentDate       time.Time       `json:"payment_date"`
	Amount            decimal.Decimal `json:"amount"`
	AllocatedAmount   decimal.Decimal `json:"allocated_amount"`
	UnallocatedAmount decimal.Decimal `json:"unallocated_amount"`
	Mode              Mode            `json:"mode"`
	BankAccountID     *uuid.UUID      `json:"bank_account_id,omitempty"`
	Reference         string          `json:"reference,omitempty"`
	Notes             string          `json:"notes,omitempty"`
	Status            Status          `json:"status"`
	CancelledAt       *time.Time      `json:"cancelled_at,omitempty"`
	CancelReason      string          `json:"cancel_reason,omitempty"`
}

// NewPaymentParams bundles the inputs for recording a payment
type NewPaymentParams struct {
	PaymentNumber string
	Direction     Direction
	PartyID       uuid.UUID
	PartyName     string
	PaymentDate   time.Time
	Amount        decimal.Decimal
	Mode          Mode
	BankAccountID *uuid.UUID
	Reference     string
	Notes         string
}

// NewPayment records a payment with its full amount unallocated.
func NewPayment(p NewPaymentParams) (*Payment, error) {
	if p.PaymentNumber == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Payment number cannot be empty")
	}
	if !p.Direction.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Payment direction is not valid")
	}
	if p.PartyID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Party ID cannot be empty")
	}
	if p.PaymentDate.IsZero() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Payment date cannot be empty")
	}
	if !p.Amount.IsPositive() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Payment amount must be positive")
	}
	if !p.Mode.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Payment mode is not valid")
	}
	if p.Mode != ModeCash && p.BankAccountID == nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Non-cash payments need a bank account")
	}

	status := StatusReceived
	if p.Direction == DirectionOutbound {
		status = StatusPaid
	}

	amount := valueobject.Round2(p.Amount)
	pay := &Payment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PaymentNumber:     p.PaymentNumber,
		Direction:         p.Direction,
		PartyID:           p.PartyID,
		PartyName:         p.PartyName,
		PaymentDate:       p.PaymentDate,
		Amount:            amount,
		AllocatedAmount:   decimal.Zero,
		UnallocatedAmount: amount,
		Mode:              p.Mode,
		BankAccountID:     p.BankAccountID,
		Reference:         p.Reference,
		Notes:             p.Notes,
		Status:            status,
	}
	pay.AddDomainEvent(NewPaymentRecordedEvent(pay))
	return pay, nil
}

// Allocate reserves part of the payment for a document. The sum of active
// allocations can never exceed the payment amount; that is a hard invariant
// with no rounding tolerance.
func (p *Payment) Allocate(amount decimal.Decimal) error {
	if !p.Status.IsActive() {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot allocate from a payment in %s status", p.Status))
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("VALIDATION_ERROR", "Allocation amount must be positive")
	}
	if amount.GreaterThan(p.UnallocatedAmount) {
		return shared.NewDomainError("OVER_ALLOCATION",
			fmt.Sprintf("Allocation %s exceeds unallocated amount %s",
				amount.StringFixed(2), p.UnallocatedAmount.StringFixed(2)))
	}

	p.AllocatedAmount = valueobject.Round2(p.AllocatedAmount.Add(amount))
	p.UnallocatedAmount = valueobject.Round2(p.Amount.Sub(p.AllocatedAmount))
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// ReverseAllocation releases a previously reserved amount back to the
// payment's unallocated pool.
func (p *Payment) ReverseAllocation(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("VALIDATION_ERROR", "Reversal amount must be positive")
	}
	if amount.GreaterThan(p.AllocatedAmount) {
		return shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("Reversal %s exceeds allocated amount %s",
				amount.StringFixed(2), p.AllocatedAmount.StringFixed(2)))
	}

	p.AllocatedAmount = valueobject.Round2(p.AllocatedAmount.Sub(amount))
	p.UnallocatedAmount = valueobject.Round2(p.Amount.Sub(p.AllocatedAmount))
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// Cancel voids the payment. Active allocations must be reversed first so
// that documents never reference money that no longer exists.
func (p *Payment) Cancel(reason string) error {
	if p.Status == StatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Payment is already cancelled")
	}
	if reason == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Cancel reason is required")
	}
	if p.AllocatedAmount.IsPositive() {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot cancel a payment with active allocations, reverse them first")
	}

	now := time.Now()
	p.Status = StatusCancelled
	p.CancelledAt = &now
	p.CancelReason = reason
	p.UpdatedAt = now
	p.IncrementVersion()
	p.AddDomainEvent(NewPaymentCancelledEvent(p))
	return nil
}

// IsFullyAllocated returns true when no unallocated amount remains
func (p *Payment) IsFullyAllocated() bool {
	return p.UnallocatedAmount.IsZero()
}

// CheckAllocationInvariant verifies allocated + unallocated == amount and
// that the allocated total never exceeds the payment amount.
func (p *Payment) CheckAllocationInvariant() error {
	if !valueobject.Round2(p.AllocatedAmount.Add(p.UnallocatedAmount)).Equal(p.Amount) {
		return shared.NewDomainError("INVARIANT_VIOLATION",
			fmt.Sprintf("Allocated %s plus unallocated %s does not equal amount %s",
				p.AllocatedAmount.StringFixed(2), p.UnallocatedAmount.StringFixed(2), p.Amount.StringFixed(2)))
	}
	if p.AllocatedAmount.GreaterThan(p.Amount) {
		return shared.NewDomainError("INVARIANT_VIOLATION",
			fmt.Sprintf("Allocated %s exceeds payment amount %s",
				p.AllocatedAmount.StringFixed(2), p.Amount.StringFixed(2)))
	}
	return nil
}
