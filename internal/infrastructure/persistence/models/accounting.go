package models

import (
	"time"

	"github.com/bizledger/backend/internal/domain/accounting"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FinancialDocumentModel is the persistence model for the FinancialDocument aggregate root.
type FinancialDocumentModel struct {
	AggregateModel
	DocumentNumber string                    `gorm:"type:varchar(50);not null;uniqueIndex"`
	DocumentType   accounting.DocumentType   `gorm:"type:varchar(20);not null;index"`
	PartyID        uuid.UUID                 `gorm:"type:uuid;not null;index"`
	PartyName      string                    `gorm:"type:varchar(200);not null"`
	DocumentDate   time.Time                 `gorm:"not null;index"`
	DueDate        *time.Time                `gorm:"index"`
	PlaceOfSupply  string                    `gorm:"type:varchar(100)"`
	CurrencyCode   string                    `gorm:"type:varchar(3);not null;default:'INR'"`
	ExchangeRate   decimal.Decimal           `gorm:"type:decimal(18,6);not null;default:1"`
	IsExport       bool                      `gorm:"not null;default:false"`
	Status         accounting.DocumentStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	SubTotal       decimal.Decimal           `gorm:"type:decimal(18,2);not null"`
	DiscountAmount decimal.Decimal           `gorm:"type:decimal(18,2);not null"`
	IGSTAmount     decimal.Decimal           `gorm:"type:decimal(18,2);not null"`
	CGSTAmount     decimal.Decimal           `gorm:"type:decimal(18,2);not null"`
	SGSTAmount     decimal.Decimal           `gorm:"type:decimal(18,2);not null"`
	TotalTax       decimal.Decimal           `gorm:"type:decimal(18,2);not null"`
	ShippingCharge decimal.Decimal           `gorm:"type:decimal(18,2);not null"`
	RoundOff       decimal.Decimal           `gorm:"type:decimal(18,2);not null"`
	TotalAmount    decimal.Decimal           `gorm:"type:decimal(18,2);not null"`
	AmountPaid     decimal.Decimal           `gorm:"type:decimal(18,2);not null"`
	BalanceDue     decimal.Decimal           `gorm:"type:decimal(18,2);not null;index"`
	Remark         string                    `gorm:"type:text"`
	PaidAt         *time.Time
	CancelledAt    *time.Time
	CancelReason   string          `gorm:"type:varchar(500)"`
	Lines          []LineItemModel `gorm:"foreignKey:DocumentID;references:ID"`
	DeletedAt      gorm.DeletedAt  `gorm:"index"`
}

// TableName returns the table name for GORM
func (FinancialDocumentModel) TableName() string {
	return "financial_documents"
}

// ToDomain converts the persistence model to a domain FinancialDocument
func (m *FinancialDocumentModel) ToDomain() *accounting.FinancialDocument {
	doc := &accounting.FinancialDocument{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		DocumentNumber: m.DocumentNumber,
		DocumentType:   m.DocumentType,
		PartyID:        m.PartyID,
		PartyName:      m.PartyName,
		DocumentDate:   m.DocumentDate,
		DueDate:        m.DueDate,
		PlaceOfSupply:  m.PlaceOfSupply,
		CurrencyCode:   m.CurrencyCode,
		ExchangeRate:   m.ExchangeRate,
		IsExport:       m.IsExport,
		Status:         m.Status,
		SubTotal:       m.SubTotal,
		DiscountAmount: m.DiscountAmount,
		IGSTAmount:     m.IGSTAmount,
		CGSTAmount:     m.CGSTAmount,
		SGSTAmount:     m.SGSTAmount,
		TotalTax:       m.TotalTax,
		ShippingCharge: m.ShippingCharge,
		RoundOff:       m.RoundOff,
		TotalAmount:    m.TotalAmount,
		AmountPaid:     m.AmountPaid,
		BalanceDue:     m.BalanceDue,
		Remark:         m.Remark,
		PaidAt:         m.PaidAt,
		CancelledAt:    m.CancelledAt,
		CancelReason:   m.CancelReason,
	}

	doc.Lines = make([]accounting.LineItem, len(m.Lines))
	for i, line := range m.Lines {
		doc.Lines[i] = *line.ToDomain()
	}
	return doc
}

// FromDomain populates the persistence model from a domain FinancialDocument
func (m *FinancialDocumentModel) FromDomain(doc *accounting.FinancialDocument) {
	m.FromDomainAggregateRoot(doc.BaseAggregateRoot)
	m.DocumentNumber = doc.DocumentNumber
	m.DocumentType = doc.DocumentType
	m.PartyID = doc.PartyID
	m.PartyName = doc.PartyName
	m.DocumentDate = doc.DocumentDate
	m.DueDate = doc.DueDate
	m.PlaceOfSupply = doc.PlaceOfSupply
	m.CurrencyCode = doc.CurrencyCode
	m.ExchangeRate = doc.ExchangeRate
	m.IsExport = doc.IsExport
	m.Status = doc.Status
	m.SubTotal = doc.SubTotal
	m.DiscountAmount = doc.DiscountAmount
	m.IGSTAmount = doc.IGSTAmount
	m.CGSTAmount = doc.CGSTAmount
	m.SGSTAmount = doc.SGSTAmount
	m.TotalTax = doc.TotalTax
	m.ShippingCharge = doc.ShippingCharge
	m.RoundOff = doc.RoundOff
	m.TotalAmount = doc.TotalAmount
	m.AmountPaid = doc.AmountPaid
	m.BalanceDue = doc.BalanceDue
	m.Remark = doc.Remark
	m.PaidAt = doc.PaidAt
	m.CancelledAt = doc.CancelledAt
	m.CancelReason = doc.CancelReason

	m.Lines = make([]LineItemModel, len(doc.Lines))
	for i, line := range doc.Lines {
		m.Lines[i].FromDomain(&line)
	}
}

// FinancialDocumentModelFromDomain creates a persistence model from a domain document
func FinancialDocumentModelFromDomain(doc *accounting.FinancialDocument) *FinancialDocumentModel {
	m := &FinancialDocumentModel{}
	m.FromDomain(doc)
	return m
}

// LineItemModel is the persistence model for a document line item.
type LineItemModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key"`
	DocumentID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemReference string          `gorm:"type:varchar(100);not null"`
	Description   string          `gorm:"type:varchar(500)"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Rate          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TaxRate       decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	IGSTAmount    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CGSTAmount    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	SGSTAmount    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TotalTax      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	SortOrder     int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (LineItemModel) TableName() string {
	return "line_items"
}

// ToDomain converts the persistence model to a domain LineItem
func (m *LineItemModel) ToDomain() *accounting.LineItem {
	return &accounting.LineItem{
		ID:            m.ID,
		DocumentID:    m.DocumentID,
		ItemReference: m.ItemReference,
		Description:   m.Description,
		Quantity:      m.Quantity,
		Rate:          m.Rate,
		TaxRate:       m.TaxRate,
		Amount:        m.Amount,
		IGSTAmount:    m.IGSTAmount,
		CGSTAmount:    m.CGSTAmount,
		SGSTAmount:    m.SGSTAmount,
		TotalTax:      m.TotalTax,
		SortOrder:     m.SortOrder,
	}
}

// FromDomain populates the persistence model from a domain LineItem
func (m *LineItemModel) FromDomain(line *accounting.LineItem) {
	m.ID = line.ID
	m.DocumentID = line.DocumentID
	m.ItemReference = line.ItemReference
	m.Description = line.Description
	m.Quantity = line.Quantity
	m.Rate = line.Rate
	m.TaxRate = line.TaxRate
	m.Amount = line.Amount
	m.IGSTAmount = line.IGSTAmount
	m.CGSTAmount = line.CGSTAmount
	m.SGSTAmount = line.SGSTAmount
	m.TotalTax = line.TotalTax
	m.SortOrder = line.SortOrder
}
