package accounting

import (
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem is a single line on a financial document. Lines are owned
// exclusively by their document: they are created, replaced, and retired
// as one set through the document aggregate, never individually.
type LineItem struct {
	ID            uuid.UUID       `json:"id"`
	DocumentID    uuid.UUID       `json:"document_id"`
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

// NewLineItem creates a line item with validated inputs. Tax fields are
// computed when the line is attached to a document, because the split
// depends on the document's place of supply and export flag.
func NewLineItem(itemReference string, quantity, rate, taxRate decimal.Decimal, sortOrder int) (*LineItem, error) {
	if itemReference == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Item reference cannot be empty")
	}
	if !quantity.IsPositive() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Quantity must be positive")
	}
	if rate.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Rate cannot be negative")
	}
	if taxRate.IsNegative() || taxRate.GreaterThan(oneHundred) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Tax rate must be between 0 and 100")
	}

	return &LineItem{
		ID:            uuid.New(),
		ItemReference: itemReference,
		Quantity:      quantity,
		Rate:          rate,
		TaxRate:       taxRate,
		SortOrder:     sortOrder,
	}, nil
}

// applyTax stamps the computed tax split onto the line.
func (li *LineItem) applyTax(b TaxBreakup) {
	li.Amount = b.Amount
	li.IGSTAmount = b.IGST
	li.CGSTAmount = b.CGST
	li.SGSTAmount = b.SGST
	li.TotalTax = b.TotalTax
}
