package accounting

import (
	"fmt"
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentType identifies the kind of financial document
type DocumentType string

const (
	DocumentTypeInvoice       DocumentType = "INVOICE"
	DocumentTypeBill          DocumentType = "BILL"
	DocumentTypeCreditNote    DocumentType = "CREDIT_NOTE"
	DocumentTypeDebitNote     DocumentType = "DEBIT_NOTE"
	DocumentTypeQuotation     DocumentType = "QUOTATION"
	DocumentTypePurchaseOrder DocumentType = "PURCHASE_ORDER"
)

// IsValid checks if the document type is valid
func (t DocumentType) IsValid() bool {
	switch t {
	case DocumentTypeInvoice, DocumentTypeBill, DocumentTypeCreditNote,
		DocumentTypeDebitNote, DocumentTypeQuotation, DocumentTypePurchaseOrder:
		return true
	}
	return false
}

// String returns the string representation of DocumentType
func (t DocumentType) String() string {
	return string(t)
}

// IsSettlement returns true for document types that carry amount_paid and
// balance_due and participate in payment allocation. Quotations and purchase
// orders track a workflow, not a settlement.
func (t DocumentType) IsSettlement() bool {
	switch t {
	case DocumentTypeInvoice, DocumentTypeBill, DocumentTypeCreditNote, DocumentTypeDebitNote:
		return true
	}
	return false
}

// PartyType identifies which side of the ledger the counterparty sits on
type PartyType string

const (
	PartyTypeCustomer PartyType = "CUSTOMER"
	PartyTypeVendor   PartyType = "VENDOR"
)

// CounterpartyType returns the party type a document of this type is
// addressed to. A document references exactly one party, never both.
func (t DocumentType) CounterpartyType() PartyType {
	switch t {
	case DocumentTypeInvoice, DocumentTypeCreditNote, DocumentTypeQuotation:
		return PartyTypeCustomer
	default:
		return PartyTypeVendor
	}
}

// DocumentStatus represents the lifecycle status of a document
type DocumentStatus string

const (
	DocumentStatusDraft     DocumentStatus = "DRAFT"
	DocumentStatusIssued    DocumentStatus = "ISSUED"   // committed, awaiting payment
	DocumentStatusSent      DocumentStatus = "SENT"     // quotation sent to customer
	DocumentStatusAccepted  DocumentStatus = "ACCEPTED" // quotation accepted
	DocumentStatusReceived  DocumentStatus = "RECEIVED" // purchase order goods received
	DocumentStatusPartial   DocumentStatus = "PARTIAL"  // partially settled
	DocumentStatusPaid      DocumentStatus = "PAID"     // fully settled, terminal
	DocumentStatusOverdue   DocumentStatus = "OVERDUE"  // explicitly marked past due
	DocumentStatusCancelled DocumentStatus = "CANCELLED"
)

// IsValid checks if the status is a valid DocumentStatus
func (s DocumentStatus) IsValid() bool {
	switch s {
	case DocumentStatusDraft, DocumentStatusIssued, DocumentStatusSent,
		DocumentStatusAccepted, DocumentStatusReceived, DocumentStatusPartial,
		DocumentStatusPaid, DocumentStatusOverdue, DocumentStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of DocumentStatus
func (s DocumentStatus) String() string {
	return string(s)
}

// IsTerminal returns true if no further transitions are allowed
func (s DocumentStatus) IsTerminal() bool {
	return s == DocumentStatusPaid || s == DocumentStatusCancelled
}

// CanApplyPayment returns true if allocations can be applied in this status.
// A stored OVERDUE status is still open for settlement.
func (s DocumentStatus) CanApplyPayment() bool {
	switch s {
	case DocumentStatusIssued, DocumentStatusPartial, DocumentStatusOverdue:
		return true
	}
	return false
}

// IsOpen reports whether the status belongs to the open set used by the
// derived overdue condition: committed or still being worked, not terminal.
func (s DocumentStatus) IsOpen() bool {
	switch s {
	case DocumentStatusDraft, DocumentStatusIssued, DocumentStatusSent,
		DocumentStatusPartial, DocumentStatusOverdue:
		return true
	}
	return false
}

// validStatuses returns the status vocabulary for a document type.
// Quotations and purchase orders use a parallel but distinct set.
func (t DocumentType) validStatuses() []DocumentStatus {
	switch t {
	case DocumentTypeQuotation:
		return []DocumentStatus{DocumentStatusDraft, DocumentStatusSent, DocumentStatusAccepted, DocumentStatusCancelled}
	case DocumentTypePurchaseOrder:
		return []DocumentStatus{DocumentStatusDraft, DocumentStatusIssued, DocumentStatusReceived, DocumentStatusPartial, DocumentStatusCancelled}
	default:
		return []DocumentStatus{DocumentStatusDraft, DocumentStatusIssued, DocumentStatusPartial,
			DocumentStatusPaid, DocumentStatusOverdue, DocumentStatusCancelled}
	}
}

// AllowsStatus reports whether the status belongs to this type's vocabulary
func (t DocumentType) AllowsStatus(s DocumentStatus) bool {
	for _, v := range t.validStatuses() {
		if v == s {
			return true
		}
	}
	return false
}

// balanceEpsilon absorbs sub-paisa residue from rounded arithmetic; a
// balance more negative than this is an invariant violation.
var balanceEpsilon = decimal.NewFromFloat(0.005)

// FinancialDocument is the aggregate root for invoices, bills, credit/debit
// notes, quotations, and purchase orders. Totals are derived from the owned
// line set; amount_paid and balance_due are maintained by the allocation
// engine through ApplyAllocation/ReverseAllocation.
type FinancialDocument struct {
	shared.BaseAggregateRoot
	DocumentNumber string         `json:"document_number"`
	DocumentType   DocumentType   `json:"document_type"`
	PartyID        uuid.UUID      `json:"party_id"`
	PartyName      string         `json:"party_name"`
	DocumentDate   time.Time      `json:"document_date"`
	DueDate        *time.Time     `json:"due_date,omitempty"`
	PlaceOfSupply  string         `json:"place_of_supply"`
	CurrencyCode   string         `json:"currency_code"`
	ExchangeRate   decimal.Decimal `json:"exchange_rate"`
	IsExport       bool           `json:"is_export"`
	Status         DocumentStatus `json:"status"`

	Lines []LineItem `json:"lines"`

	SubTotal       decimal.Decimal `json:"sub_total"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	IGSTAmount     decimal.Decimal `json:"igst_amount"`
	CGSTAmount     decimal.Decimal `json:"cgst_amount"`
	SGSTAmount     decimal.Decimal `json:"sgst_amount"`
	TotalTax       decimal.Decimal `json:"total_tax"`
	ShippingCharge decimal.Decimal `json:"shipping_charge"`
	RoundOff       decimal.Decimal `json:"round_off"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	AmountPaid     decimal.Decimal `json:"amount_paid"`
	BalanceDue     decimal.Decimal `json:"balance_due"`

	Remark       string     `json:"remark,omitempty"`
	PaidAt       *time.Time `json:"paid_at,omitempty"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
	CancelReason string     `json:"cancel_reason,omitempty"`
}

// NewDocumentParams bundles the inputs for creating a financial document
type NewDocumentParams struct {
	DocumentNumber string
	DocumentType   DocumentType
	PartyID        uuid.UUID
	PartyName      string
	DocumentDate   time.Time
	DueDate        *time.Time
	PlaceOfSupply  string
	CurrencyCode   string
	ExchangeRate   decimal.Decimal
	IsExport       bool
	DiscountAmount decimal.Decimal
	ShippingCharge decimal.Decimal
	RoundOff       decimal.Decimal
	Remark         string
}

// NewFinancialDocument creates a document in Draft status with no lines.
func NewFinancialDocument(p NewDocumentParams) (*FinancialDocument, error) {
	if p.DocumentNumber == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Document number cannot be empty")
	}
	if !p.DocumentType.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Document type is not valid")
	}
	if p.PartyID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Party ID cannot be empty")
	}
	if p.DocumentDate.IsZero() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Document date cannot be empty")
	}
	if p.CurrencyCode == "" {
		p.CurrencyCode = string(valueobject.DefaultCurrency)
	}
	if p.ExchangeRate.IsZero() {
		p.ExchangeRate = decimal.NewFromInt(1)
	}
	if p.ExchangeRate.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Exchange rate cannot be negative")
	}
	if p.DiscountAmount.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Discount cannot be negative")
	}
	if p.ShippingCharge.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Shipping charge cannot be negative")
	}
	if p.PlaceOfSupply == "" && !p.IsExport {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Place of supply cannot be empty")
	}

	doc := &FinancialDocument{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		DocumentNumber:    p.DocumentNumber,
		DocumentType:      p.DocumentType,
		PartyID:           p.PartyID,
		PartyName:         p.PartyName,
		DocumentDate:      p.DocumentDate,
		DueDate:           p.DueDate,
		PlaceOfSupply:     p.PlaceOfSupply,
		CurrencyCode:      p.CurrencyCode,
		ExchangeRate:      p.ExchangeRate,
		IsExport:          p.IsExport,
		Status:            DocumentStatusDraft,
		Lines:             []LineItem{},
		DiscountAmount:    p.DiscountAmount,
		ShippingCharge:    p.ShippingCharge,
		RoundOff:          p.RoundOff,
		Remark:            p.Remark,
	}
	doc.recomputeTotals()

	doc.AddDomainEvent(NewDocumentCreatedEvent(doc))
	return doc, nil
}

// ReplaceLines atomically swaps the document's line set, recomputing per-line
// tax against the given home jurisdiction and rolling up document totals.
// Allowed only while the document is a draft.
func (d *FinancialDocument) ReplaceLines(lines []*LineItem, homeJurisdiction string) error {
	if d.Status != DocumentStatusDraft {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot edit lines of a document in %s status", d.Status))
	}
	if len(lines) == 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "A document needs at least one line")
	}

	newLines := make([]LineItem, 0, len(lines))
	for _, line := range lines {
		breakup, err := ComputeLineTax(line.Quantity, line.Rate, line.TaxRate, d.PlaceOfSupply, homeJurisdiction, d.IsExport)
		if err != nil {
			return err
		}
		line.DocumentID = d.ID
		line.applyTax(breakup)
		newLines = append(newLines, *line)
	}

	d.Lines = newLines
	d.recomputeTotals()
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
	return nil
}

// SetAdjustments updates discount, shipping, and round-off on a draft and
// recomputes totals.
func (d *FinancialDocument) SetAdjustments(discount, shipping, roundOff decimal.Decimal) error {
	if d.Status != DocumentStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Adjustments can only change on a draft")
	}
	if discount.IsNegative() || shipping.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", "Discount and shipping cannot be negative")
	}
	d.DiscountAmount = discount
	d.ShippingCharge = shipping
	d.RoundOff = roundOff
	d.recomputeTotals()
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
	return nil
}

// recomputeTotals rolls the line set up into document totals. Rounding is
// applied at each step so the stored totals always equal the sum of their
// already-rounded parts.
func (d *FinancialDocument) recomputeTotals() {
	subTotal := decimal.Zero
	igst := decimal.Zero
	cgst := decimal.Zero
	sgst := decimal.Zero
	for _, line := range d.Lines {
		subTotal = subTotal.Add(line.Amount)
		igst = igst.Add(line.IGSTAmount)
		cgst = cgst.Add(line.CGSTAmount)
		sgst = sgst.Add(line.SGSTAmount)
	}

	d.SubTotal = valueobject.Round2(subTotal)
	d.IGSTAmount = valueobject.Round2(igst)
	d.CGSTAmount = valueobject.Round2(cgst)
	d.SGSTAmount = valueobject.Round2(sgst)
	d.TotalTax = valueobject.Round2(d.IGSTAmount.Add(d.CGSTAmount).Add(d.SGSTAmount))
	d.TotalAmount = valueobject.Round2(d.SubTotal.
		Sub(d.DiscountAmount).
		Add(d.TotalTax).
		Add(d.ShippingCharge).
		Add(d.RoundOff))
	d.BalanceDue = valueobject.Round2(d.TotalAmount.Sub(d.AmountPaid))
}

// Commit moves a draft to its committed state: Issued for settlement
// documents and purchase orders, Sent for quotations.
func (d *FinancialDocument) Commit() error {
	if d.Status != DocumentStatusDraft {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Only a draft can be committed, current status is %s", d.Status))
	}
	if len(d.Lines) == 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Cannot commit a document without lines")
	}

	if d.DocumentType == DocumentTypeQuotation {
		d.Status = DocumentStatusSent
	} else {
		d.Status = DocumentStatusIssued
	}
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
	d.AddDomainEvent(NewDocumentCommittedEvent(d))
	return nil
}

// Accept marks a sent quotation as accepted
func (d *FinancialDocument) Accept() error {
	if d.DocumentType != DocumentTypeQuotation {
		return shared.NewDomainError("INVALID_STATE", "Only quotations can be accepted")
	}
	if d.Status != DocumentStatusSent {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Only a sent quotation can be accepted, current status is %s", d.Status))
	}
	d.Status = DocumentStatusAccepted
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
	return nil
}

// MarkReceived marks an issued purchase order as received
func (d *FinancialDocument) MarkReceived() error {
	if d.DocumentType != DocumentTypePurchaseOrder {
		return shared.NewDomainError("INVALID_STATE", "Only purchase orders can be received")
	}
	if d.Status != DocumentStatusIssued && d.Status != DocumentStatusPartial {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot receive a purchase order in %s status", d.Status))
	}
	d.Status = DocumentStatusReceived
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
	return nil
}

// ApplyAllocation applies a settlement amount to the document, decrementing
// balance_due and re-evaluating status. The caller (allocation engine) is
// responsible for running this inside a transaction with the row locked.
func (d *FinancialDocument) ApplyAllocation(amount decimal.Decimal) error {
	if !d.DocumentType.IsSettlement() {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("%s documents do not carry a balance", d.DocumentType))
	}
	if !d.Status.CanApplyPayment() {
		return shared.NewDomainError("DOCUMENT_NOT_OPEN",
			fmt.Sprintf("Cannot allocate against a document in %s status", d.Status))
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("VALIDATION_ERROR", "Allocation amount must be positive")
	}
	if amount.GreaterThan(d.BalanceDue) {
		return shared.NewDomainError("INSUFFICIENT_BALANCE",
			fmt.Sprintf("Allocation %s exceeds balance due %s", amount.StringFixed(2), d.BalanceDue.StringFixed(2)))
	}

	d.AmountPaid = valueobject.Round2(d.AmountPaid.Add(amount))
	d.BalanceDue = valueobject.Round2(d.TotalAmount.Sub(d.AmountPaid))

	if d.BalanceDue.IsZero() {
		now := time.Now()
		d.Status = DocumentStatusPaid
		d.PaidAt = &now
		d.AddDomainEvent(NewDocumentPaidEvent(d))
	} else {
		d.Status = DocumentStatusPartial
		d.AddDomainEvent(NewDocumentPartiallyPaidEvent(d, amount))
	}

	d.UpdatedAt = time.Now()
	d.IncrementVersion()
	return nil
}

// ReverseAllocation restores a previously applied settlement amount,
// reopening the document if it had been fully paid.
func (d *FinancialDocument) ReverseAllocation(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("VALIDATION_ERROR", "Reversal amount must be positive")
	}
	if d.Status == DocumentStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot reverse an allocation on a cancelled document")
	}
	if amount.GreaterThan(d.AmountPaid) {
		return shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("Reversal %s exceeds amount paid %s", amount.StringFixed(2), d.AmountPaid.StringFixed(2)))
	}

	d.AmountPaid = valueobject.Round2(d.AmountPaid.Sub(amount))
	d.BalanceDue = valueobject.Round2(d.TotalAmount.Sub(d.AmountPaid))
	d.PaidAt = nil

	if d.AmountPaid.IsZero() {
		d.Status = DocumentStatusIssued
	} else {
		d.Status = DocumentStatusPartial
	}

	d.UpdatedAt = time.Now()
	d.IncrementVersion()
	return nil
}

// Cancel retires the document logically. Cancellation is allowed from any
// non-terminal state, including Partial; prior allocations are deliberately
// left in place and must be reversed separately if required.
func (d *FinancialDocument) Cancel(reason string) error {
	if d.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot cancel a document in %s status", d.Status))
	}
	if reason == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Cancel reason is required")
	}

	now := time.Now()
	d.Status = DocumentStatusCancelled
	d.CancelledAt = &now
	d.CancelReason = reason
	d.UpdatedAt = now
	d.IncrementVersion()
	d.AddDomainEvent(NewDocumentCancelledEvent(d))
	return nil
}

// MarkOverdue stores an explicit Overdue status. The derived predicate makes
// this transition optional; it exists so an administrative sweep can persist
// the condition.
func (d *FinancialDocument) MarkOverdue(asOf time.Time) error {
	if !d.isDerivedOverdue(asOf) {
		return shared.NewDomainError("INVALID_STATE", "Document is not past due")
	}
	d.Status = DocumentStatusOverdue
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
	return nil
}

// isDerivedOverdue is the lazily evaluated overdue condition: past due date,
// open balance, and a non-terminal status.
func (d *FinancialDocument) isDerivedOverdue(asOf time.Time) bool {
	if d.DueDate == nil {
		return false
	}
	if !d.Status.IsOpen() {
		return false
	}
	return d.DueDate.Before(asOf) && d.BalanceDue.IsPositive()
}

// IsEffectivelyOverdue treats a document as overdue if either its stored
// status says so or the derived condition holds. The dual check tolerates
// documents whose status was never transitioned by an administrative sweep.
func (d *FinancialDocument) IsEffectivelyOverdue(asOf time.Time) bool {
	return d.Status == DocumentStatusOverdue || d.isDerivedOverdue(asOf)
}

// DaysOverdue returns whole days past the due date as of the given time,
// zero when not overdue or when no due date is set.
func (d *FinancialDocument) DaysOverdue(asOf time.Time) int {
	if d.DueDate == nil || !d.IsEffectivelyOverdue(asOf) {
		return 0
	}
	days := int(asOf.Sub(*d.DueDate).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// CheckBalanceInvariant verifies balance_due == round2(total - paid) and
// that the balance has not drifted negative beyond the rounding epsilon.
func (d *FinancialDocument) CheckBalanceInvariant() error {
	expected := valueobject.Round2(d.TotalAmount.Sub(d.AmountPaid))
	if !d.BalanceDue.Equal(expected) {
		return shared.NewDomainError("INVARIANT_VIOLATION",
			fmt.Sprintf("Balance due %s does not equal total %s minus paid %s",
				d.BalanceDue.StringFixed(2), d.TotalAmount.StringFixed(2), d.AmountPaid.StringFixed(2)))
	}
	if d.BalanceDue.IsNegative() && d.BalanceDue.Abs().GreaterThan(balanceEpsilon) {
		return shared.NewDomainError("INVARIANT_VIOLATION",
			fmt.Sprintf("Balance due %s is negative beyond rounding epsilon", d.BalanceDue.StringFixed(2)))
	}
	return nil
}

// IsDraft returns true while the document is editable
func (d *FinancialDocument) IsDraft() bool {
	return d.Status == DocumentStatusDraft
}

// IsPaid returns true once the document is fully settled
func (d *FinancialDocument) IsPaid() bool {
	return d.Status == DocumentStatusPaid
}

// IsCancelled returns true if the document was retired
func (d *FinancialDocument) IsCancelled() bool {
	return d.Status == DocumentStatusCancelled
}
