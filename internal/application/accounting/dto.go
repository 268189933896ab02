package accounting

import (
	"time"

	"github.com/bizledger/backend/internal/domain/accounting"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItemInput represents one line in a create or update request
type LineItemInput struct {
	ItemReference string          `json:"item_reference" binding:"required,min=1,max=100"`
	Description   string          `json:"description" binding:"max=500"`
	Quantity      decimal.Decimal `json:"quantity" binding:"required"`
	Rate          decimal.Decimal `json:"rate" binding:"required"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
}

// CreateDocumentRequest represents a request to create a financial document
type CreateDocumentRequest struct {
	DocumentType   accounting.DocumentType `json:"document_type" binding:"required"`
	PartyID        uuid.UUID               `json:"party_id" binding:"required"`
	PartyName      string                  `json:"party_name" binding:"required,min=1,max=200"`
	DocumentDate   time.Time               `json:"document_date" binding:"required"`
	DueDate        *time.Time              `json:"due_date"`
	PlaceOfSupply  string                  `json:"place_of_supply"`
	CurrencyCode   string                  `json:"currency_code"`
	ExchangeRate   decimal.Decimal         `json:"exchange_rate"`
	IsExport       bool                    `json:"is_export"`
	DiscountAmount decimal.Decimal         `json:"discount_amount"`
	ShippingCharge decimal.Decimal         `json:"shipping_charge"`
	RoundOff       decimal.Decimal         `json:"round_off"`
	Remark         string                  `json:"remark"`
	Lines          []LineItemInput         `json:"lines" binding:"required,min=1"`
	Commit         bool                    `json:"commit"`
}

// UpdateLinesRequest replaces the full line set of a draft
type UpdateLinesRequest struct {
	Lines []LineItemInput `json:"lines" binding:"required,min=1"`
}

// UpdateAdjustmentsRequest changes discount, shipping, and round-off on a draft
type UpdateAdjustmentsRequest struct {
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	ShippingCharge decimal.Decimal `json:"shipping_charge"`
	RoundOff       decimal.Decimal `json:"round_off"`
}

// CancelDocumentRequest represents a request to cancel a document
type CancelDocumentRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// DocumentListFilter represents filter options for the document list
type DocumentListFilter struct {
	Search       string           `form:"search"`
	DocumentType *string          `form:"document_type"`
	PartyID      *uuid.UUID       `form:"party_id"`
	Status       *string          `form:"status"`
	StartDate    *time.Time       `form:"start_date" time_format:"2006-01-02"`
	EndDate      *time.Time       `form:"end_date" time_format:"2006-01-02"`
	Overdue      *bool            `form:"overdue"`
	MinAmount    *decimal.Decimal `form:"min_amount"`
	MaxAmount    *decimal.Decimal `form:"max_amount"`
	Page         int              `form:"page"`
	PageSize     int              `form:"page_size" binding:"omitempty,max=100"`
	OrderBy      string           `form:"order_by"`
	OrderDir     string           `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToDomainFilter converts the HTTP filter to a repository filter
func (f DocumentListFilter) ToDomainFilter() accounting.DocumentFilter {
	filter := accounting.DocumentFilter{
		Filter: shared.Filter{
			Page:     f.Page,
			PageSize: f.PageSize,
			OrderBy:  f.OrderBy,
			OrderDir: f.OrderDir,
			Search:   f.Search,
		},
		PartyID:   f.PartyID,
		FromDate:  f.StartDate,
		ToDate:    f.EndDate,
		Overdue:   f.Overdue,
		MinAmount: f.MinAmount,
		MaxAmount: f.MaxAmount,
	}
	if f.DocumentType != nil {
		docType := accounting.DocumentType(*f.DocumentType)
		filter.DocumentType = &docType
	}
	if f.Status != nil {
		status := accounting.DocumentStatus(*f.Status)
		filter.Status = &status
	}
	return filter
}

// LineItemResponse represents a line item in API responses
type LineItemResponse struct {
	ID            uuid.UUID       `json:"id"`
	ItemReference string          `json:"item_reference"`
	Description   string          `json:"description,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
	Rate          decimal.Decimal `json:"rate"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	Amount        decimal.Decimal `json:"amount"`
	IGSTAmount    decimal.Decimal `json:"igst_amount"`
	CGSTAmount    decimal.Decimal `json:"cgst_amount"`
	SGSTAmount    decimal.Decimal `json:"sgst_amount"`
	TotalTax      decimal.Decimal `json:"total_tax"`
	SortOrder     int             `json:"sort_order"`
}

// DocumentResponse represents a financial document in API responses
type DocumentResponse struct {
	ID             uuid.UUID          `json:"id"`
	DocumentNumber string             `json:"document_number"`
	DocumentType   string             `json:"document_type"`
	PartyID        uuid.UUID          `json:"party_id"`
	PartyName      string             `json:"party_name"`
	DocumentDate   time.Time          `json:"document_date"`
	DueDate        *time.Time         `json:"due_date,omitempty"`
	PlaceOfSupply  string             `json:"place_of_supply,omitempty"`
	CurrencyCode   string             `json:"currency_code"`
	ExchangeRate   decimal.Decimal    `json:"exchange_rate"`
	IsExport       bool               `json:"is_export"`
	Status         string             `json:"status"`
	Lines          []LineItemResponse `json:"lines"`
	SubTotal       decimal.Decimal    `json:"sub_total"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	IGSTAmount     decimal.Decimal    `json:"igst_amount"`
	CGSTAmount     decimal.Decimal    `json:"cgst_amount"`
	SGSTAmount     decimal.Decimal    `json:"sgst_amount"`
	TotalTax       decimal.Decimal    `json:"total_tax"`
	ShippingCharge decimal.Decimal    `json:"shipping_charge"`
	RoundOff       decimal.Decimal    `json:"round_off"`
	TotalAmount    decimal.Decimal    `json:"total_amount"`
	AmountPaid     decimal.Decimal    `json:"amount_paid"`
	BalanceDue     decimal.Decimal    `json:"balance_due"`
	Remark         string             `json:"remark,omitempty"`
	PaidAt         *time.Time         `json:"paid_at,omitempty"`
	CancelledAt    *time.Time         `json:"cancelled_at,omitempty"`
	CancelReason   string             `json:"cancel_reason,omitempty"`
	Version        int                `json:"version"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// ToDocumentResponse converts a domain document to a response DTO
func ToDocumentResponse(doc *accounting.FinancialDocument) DocumentResponse {
	lines := make([]LineItemResponse, len(doc.Lines))
	for i, line := range doc.Lines {
		lines[i] = LineItemResponse{
			ID:            line.ID,
			ItemReference: line.ItemReference,
			Description:   line.Description,
			Quantity:      line.Quantity,
			Rate:          line.Rate,
			TaxRate:       line.TaxRate,
			Amount:        line.Amount,
			IGSTAmount:    line.IGSTAmount,
			CGSTAmount:    line.CGSTAmount,
			SGSTAmount:    line.SGSTAmount,
			TotalTax:      line.TotalTax,
			SortOrder:     line.SortOrder,
		}
	}

	return DocumentResponse{
		ID:             doc.ID,
		DocumentNumber: doc.DocumentNumber,
		DocumentType:   doc.DocumentType.String(),
		PartyID:        doc.PartyID,
		PartyName:      doc.PartyName,
		DocumentDate:   doc.DocumentDate,
		DueDate:        doc.DueDate,
		PlaceOfSupply:  doc.PlaceOfSupply,
		CurrencyCode:   doc.CurrencyCode,
		ExchangeRate:   doc.ExchangeRate,
		IsExport:       doc.IsExport,
		Status:         doc.Status.String(),
		Lines:          lines,
		SubTotal:       doc.SubTotal,
		DiscountAmount: doc.DiscountAmount,
		IGSTAmount:     doc.IGSTAmount,
		CGSTAmount:     doc.CGSTAmount,
		SGSTAmount:     doc.SGSTAmount,
		TotalTax:       doc.TotalTax,
		ShippingCharge: doc.ShippingCharge,
		RoundOff:       doc.RoundOff,
		TotalAmount:    doc.TotalAmount,
		AmountPaid:     doc.AmountPaid,
		BalanceDue:     doc.BalanceDue,
		Remark:         doc.Remark,
		PaidAt:         doc.PaidAt,
		CancelledAt:    doc.CancelledAt,
		CancelReason:   doc.CancelReason,
		Version:        doc.Version,
		CreatedAt:      doc.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
	}
}
