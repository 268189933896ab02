package accounting

import (
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const aggregateTypeDocument = "FinancialDocument"

// DocumentCreatedEvent is raised when a new document draft is created
type DocumentCreatedEvent struct {
	shared.BaseDomainEvent
	DocumentNumber string       `json:"document_number"`
	DocumentType   DocumentType `json:"document_type"`
}

// NewDocumentCreatedEvent creates a DocumentCreatedEvent
func NewDocumentCreatedEvent(doc *FinancialDocument) *DocumentCreatedEvent {
	return &DocumentCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("document.created", aggregateTypeDocument, doc.ID),
		DocumentNumber:  doc.DocumentNumber,
		DocumentType:    doc.DocumentType,
	}
}

// DocumentCommittedEvent is raised when a draft is committed
type DocumentCommittedEvent struct {
	shared.BaseDomainEvent
	DocumentNumber string          `json:"document_number"`
	DocumentType   DocumentType    `json:"document_type"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
}

// NewDocumentCommittedEvent creates a DocumentCommittedEvent
func NewDocumentCommittedEvent(doc *FinancialDocument) *DocumentCommittedEvent {
	return &DocumentCommittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("document.committed", aggregateTypeDocument, doc.ID),
		DocumentNumber:  doc.DocumentNumber,
		DocumentType:    doc.DocumentType,
		TotalAmount:     doc.TotalAmount,
	}
}

// DocumentPartiallyPaidEvent is raised when an allocation leaves a balance
type DocumentPartiallyPaidEvent struct {
	shared.BaseDomainEvent
	DocumentNumber  string          `json:"document_number"`
	AllocatedAmount decimal.Decimal `json:"allocated_amount"`
	BalanceDue      decimal.Decimal `json:"balance_due"`
}

// NewDocumentPartiallyPaidEvent creates a DocumentPartiallyPaidEvent
func NewDocumentPartiallyPaidEvent(doc *FinancialDocument, allocated decimal.Decimal) *DocumentPartiallyPaidEvent {
	return &DocumentPartiallyPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("document.partially_paid", aggregateTypeDocument, doc.ID),
		DocumentNumber:  doc.DocumentNumber,
		AllocatedAmount: allocated,
		BalanceDue:      doc.BalanceDue,
	}
}

// DocumentPaidEvent is raised when the balance reaches zero
type DocumentPaidEvent struct {
	shared.BaseDomainEvent
	DocumentNumber string          `json:"document_number"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
}

// NewDocumentPaidEvent creates a DocumentPaidEvent
func NewDocumentPaidEvent(doc *FinancialDocument) *DocumentPaidEvent {
	return &DocumentPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("document.paid", aggregateTypeDocument, doc.ID),
		DocumentNumber:  doc.DocumentNumber,
		TotalAmount:     doc.TotalAmount,
	}
}

// DocumentCancelledEvent is raised when a document is cancelled
type DocumentCancelledEvent struct {
	shared.BaseDomainEvent
	DocumentNumber string `json:"document_number"`
	Reason         string `json:"reason"`
}

// NewDocumentCancelledEvent creates a DocumentCancelledEvent
func NewDocumentCancelledEvent(doc *FinancialDocument) *DocumentCancelledEvent {
	return &DocumentCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("document.cancelled", aggregateTypeDocument, doc.ID),
		DocumentNumber:  doc.DocumentNumber,
		Reason:          doc.CancelReason,
	}
}
