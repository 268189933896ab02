package payment

import (
	"time"

	"github.com/bizledger/backend/internal/domain/accounting"
	"github.com/bizledger/backend/internal/domain/payment"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecordPaymentRequest represents a request to record a payment
type RecordPaymentRequest struct {
	Direction     payment.Direction `json:"direction" binding:"required"`
	PartyID       uuid.UUID         `json:"party_id" binding:"required"`
	PartyName     string            `json:"party_name" binding:"required,min=1,max=200"`
	PaymentDate   time.Time         `json:"payment_date" binding:"required"`
	Amount        decimal.Decimal   `json:"amount" binding:"required"`
	Mode          payment.Mode      `json:"mode" binding:"required"`
	BankAccountID *uuid.UUID        `json:"bank_account_id"`
	Reference     string            `json:"reference" binding:"max=100"`
	Notes         string            `json:"notes"`
}

// AllocateRequest represents a request to allocate part of a payment to a
// document
type AllocateRequest struct {
	DocumentID uuid.UUID       `json:"document_id" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	Notes      string          `json:"notes" binding:"max=500"`
}

// CancelPaymentRequest represents a request to cancel a payment
type CancelPaymentRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// PaymentListFilter represents filter options for the payment list
type PaymentListFilter struct {
	Search      string     `form:"search"`
	Direction   *string    `form:"direction"`
	PartyID     *uuid.UUID `form:"party_id"`
	Status      *string    `form:"status"`
	Mode        *string    `form:"mode"`
	StartDate   *time.Time `form:"start_date" time_format:"2006-01-02"`
	EndDate     *time.Time `form:"end_date" time_format:"2006-01-02"`
	Unallocated *bool      `form:"unallocated"`
	Page        int        `form:"page"`
	PageSize    int        `form:"page_size" binding:"omitempty,max=100"`
	OrderBy     string     `form:"order_by"`
	OrderDir    string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToDomainFilter converts the HTTP filter to a repository filter
func (f PaymentListFilter) ToDomainFilter() payment.PaymentFilter {
	filter := payment.PaymentFilter{
		Filter: shared.Filter{
			Page:     f.Page,
			PageSize: f.PageSize,
			OrderBy:  f.OrderBy,
			OrderDir: f.OrderDir,
			Search:   f.Search,
		},
		PartyID:     f.PartyID,
		FromDate:    f.StartDate,
		ToDate:      f.EndDate,
		Unallocated: f.Unallocated,
	}
	if f.Direction != nil {
		direction := payment.Direction(*f.Direction)
		filter.Direction = &direction
	}
	if f.Status != nil {
		status := payment.Status(*f.Status)
		filter.Status = &status
	}
	if f.Mode != nil {
		mode := payment.Mode(*f.Mode)
		filter.Mode = &mode
	}
	return filter
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID                uuid.UUID       `json:"id"`
	PaymentNumber     string          `json:"payment_number"`
	Direction         string          `json:"direction"`
	PartyID           uuid.UUID       `json:"party_id"`
	PartyName         string          `json:"party_name"`
	PaymentDate       time.Time       `json:"payment_date"`
	Amount            decimal.Decimal `json:"amount"`
	AllocatedAmount   decimal.Decimal `json:"allocated_amount"`
	UnallocatedAmount decimal.Decimal `json:"unallocated_amount"`
	Mode              string          `json:"mode"`
	BankAccountID     *uuid.UUID      `json:"bank_account_id,omitempty"`
	Reference         string          `json:"reference,omitempty"`
	Notes             string          `json:"notes,omitempty"`
	Status            string          `json:"status"`
	CancelledAt       *time.Time      `json:"cancelled_at,omitempty"`
	CancelReason      string          `json:"cancel_reason,omitempty"`
	Version           int             `json:"version"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ToPaymentResponse converts a domain payment to a response DTO
func ToPaymentResponse(p *payment.Payment) PaymentResponse {
	return PaymentResponse{
		ID:                p.ID,
		PaymentNumber:     p.PaymentNumber,
		Direction:         p.Direction.String(),
		PartyID:           p.PartyID,
		PartyName:         p.PartyName,
		PaymentDate:       p.PaymentDate,
		Amount:            p.Amount,
		AllocatedAmount:   p.AllocatedAmount,
		UnallocatedAmount: p.UnallocatedAmount,
		Mode:              string(p.Mode),
		BankAccountID:     p.BankAccountID,
		Reference:         p.Reference,
		Notes:             p.Notes,
		Status:            string(p.Status),
		CancelledAt:       p.CancelledAt,
		CancelReason:      p.CancelReason,
		Version:           p.Version,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

// AllocatableDocumentResponse represents an open document the payment
// could settle
type AllocatableDocumentResponse struct {
	ID             uuid.UUID       `json:"id"`
	DocumentNumber string          `json:"document_number"`
	DocumentType   string          `json:"document_type"`
	PartyName      string          `json:"party_name"`
	DocumentDate   time.Time       `json:"document_date"`
	DueDate        *time.Time      `json:"due_date,omitempty"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	BalanceDue     decimal.Decimal `json:"balance_due"`
}

// ToAllocatableDocumentResponse converts a domain document to a response DTO
func ToAllocatableDocumentResponse(doc *accounting.FinancialDocument) AllocatableDocumentResponse {
	return AllocatableDocumentResponse{
		ID:             doc.ID,
		DocumentNumber: doc.DocumentNumber,
		DocumentType:   string(doc.DocumentType),
		PartyName:      doc.PartyName,
		DocumentDate:   doc.DocumentDate,
		DueDate:        doc.DueDate,
		TotalAmount:    doc.TotalAmount,
		BalanceDue:     doc.BalanceDue,
	}
}

// AllocationResponse represents an allocation in API responses
type AllocationResponse struct {
	ID          uuid.UUID       `json:"id"`
	PaymentID   uuid.UUID       `json:"payment_id"`
	DocumentID  uuid.UUID       `json:"document_id"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status"`
	AllocatedAt time.Time       `json:"allocated_at"`
	ReversedAt  *time.Time      `json:"reversed_at,omitempty"`
	Notes       string          `json:"notes,omitempty"`
}

// ToAllocationResponse converts a domain allocation to a response DTO
func ToAllocationResponse(a *payment.Allocation) AllocationResponse {
	return AllocationResponse{
		ID:          a.ID,
		PaymentID:   a.PaymentID,
		DocumentID:  a.DocumentID,
		Amount:      a.Amount,
		Status:      string(a.Status),
		AllocatedAt: a.AllocatedAt,
		ReversedAt:  a.ReversedAt,
		Notes:       a.Notes,
	}
}
