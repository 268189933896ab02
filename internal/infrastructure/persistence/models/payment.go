package models

import (
	"time"

	"github.com/bizledger/backend/internal/domain/payment"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentModel is the persistence model for the Payment aggregate root.
type PaymentModel struct {
	AggregateModel
	PaymentNumber     string            `gorm:"type:varchar(50);not null;uniqueIndex"`
	Direction         payment.Direction `gorm:"type:varchar(10);not null;index"`
	PartyID           uuid.UUID         `gorm:"type:uuid;not null;index"`
	PartyName         string            `gorm:"type:varchar(200);not null"`
	PaymentDate       time.Time         `gorm:"not null;index"`
	Amount            decimal.Decimal   `gorm:"type:decimal(18,2);not null"`
	AllocatedAmount   decimal.Decimal   `gorm:"type:decimal(18,2);not null"`
	UnallocatedAmount decimal.Decimal   `gorm:"type:decimal(18,2);not null;index"`
	Mode              payment.Mode      `gorm:"type:varchar(20);not null"`
	BankAccountID     *uuid.UUID        `gorm:"type:uuid;index"`
	Reference         string            `gorm:"type:varchar(100)"`
	Notes             string            `gorm:"type:text"`
	Status            payment.Status    `gorm:"type:varchar(20);not null;index"`
	CancelledAt       *time.Time
	CancelReason      string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment
func (m *PaymentModel) ToDomain() *payment.Payment {
	return &payment.Payment{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		PaymentNumber:     m.PaymentNumber,
		Direction:         m.Direction,
		PartyID:           m.PartyID,
		PartyName:         m.PartyName,
		PaymentDate:       m.PaymentDate,
		Amount:            m.Amount,
		AllocatedAmount:   m.AllocatedAmount,
		UnallocatedAmount: m.UnallocatedAmount,
		Mode:              m.Mode,
		BankAccountID:     m.BankAccountID,
		Reference:         m.Reference,
		Notes:             m.Notes,
		Status:            m.Status,
		CancelledAt:       m.CancelledAt,
		CancelReason:      m.CancelReason,
	}
}

// FromDomain populates the persistence model from a domain Payment
func (m *PaymentModel) FromDomain(p *payment.Payment) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.PaymentNumber = p.PaymentNumber
	m.Direction = p.Direction
	m.PartyID = p.PartyID
	m.PartyName = p.PartyName
	m.PaymentDate = p.PaymentDate
	m.Amount = p.Amount
	m.AllocatedAmount = p.AllocatedAmount
	m.UnallocatedAmount = p.UnallocatedAmount
	m.Mode = p.Mode
	m.BankAccountID = p.BankAccountID
	m.Reference = p.Reference
	m.Notes = p.Notes
	m.Status = p.Status
	m.CancelledAt = p.CancelledAt
	m.CancelReason = p.CancelReason
}

// PaymentModelFromDomain creates a persistence model from a domain Payment
func PaymentModelFromDomain(p *payment.Payment) *PaymentModel {
	m := &PaymentModel{}
	m.FromDomain(p)
	return m
}

// AllocationModel is the persistence model for a payment allocation.
type AllocationModel struct {
	ID          uuid.UUID                `gorm:"type:uuid;primary_key"`
	PaymentID   uuid.UUID                `gorm:"type:uuid;not null;index"`
	DocumentID  uuid.UUID                `gorm:"type:uuid;not null;index"`
	Amount      decimal.Decimal          `gorm:"type:decimal(18,2);not null"`
	Status      payment.AllocationStatus `gorm:"type:varchar(10);not null;default:'ACTIVE';index"`
	AllocatedAt time.Time                `gorm:"not null"`
	ReversedAt  *time.Time
	Notes       string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (AllocationModel) TableName() string {
	return "payment_allocations"
}

// ToDomain converts the persistence model to a domain Allocation
func (m *AllocationModel) ToDomain() *payment.Allocation {
	return &payment.Allocation{
		ID:          m.ID,
		PaymentID:   m.PaymentID,
		DocumentID:  m.DocumentID,
		Amount:      m.Amount,
		Status:      m.Status,
		AllocatedAt: m.AllocatedAt,
		ReversedAt:  m.ReversedAt,
		Notes:       m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Allocation
func (m *AllocationModel) FromDomain(a *payment.Allocation) {
	m.ID = a.ID
	m.PaymentID = a.PaymentID
	m.DocumentID = a.DocumentID
	m.Amount = a.Amount
	m.Status = a.Status
	m.AllocatedAt = a.AllocatedAt
	m.ReversedAt = a.ReversedAt
	m.Notes = a.Notes
}
