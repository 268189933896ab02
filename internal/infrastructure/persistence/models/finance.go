package models

import (
	"time"

	"github.com/bizledger/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BankAccountModel is the persistence model for the BankAccount aggregate root.
type BankAccountModel struct {
	AggregateModel
	Name          string                  `gorm:"type:varchar(100);not null"`
	AccountType   finance.BankAccountType `gorm:"type:varchar(10);not null"`
	BankName      string                  `gorm:"type:varchar(100)"`
	AccountNumber string                  `gorm:"type:varchar(30)"`
	IFSCCode      string                  `gorm:"type:varchar(11)"`
	Balance       decimal.Decimal         `gorm:"type:decimal(18,2);not null"`
	IsDefault     bool                    `gorm:"not null;default:false"`
	IsActive      bool                    `gorm:"not null;default:true;index"`
	DeletedAt     gorm.DeletedAt          `gorm:"index"`
}

// TableName returns the table name for GORM
func (BankAccountModel) TableName() string {
	return "bank_accounts"
}

// ToDomain converts the persistence model to a domain BankAccount
func (m *BankAccountModel) ToDomain() *finance.BankAccount {
	account := &finance.BankAccount{
		Name:          m.Name,
		AccountType:   m.AccountType,
		BankName:      m.BankName,
		AccountNumber: m.AccountNumber,
		IFSCCode:      m.IFSCCode,
		Balance:       m.Balance,
		IsDefault:     m.IsDefault,
		IsActive:      m.IsActive,
	}
	m.PopulateAggregateRoot(&account.BaseAggregateRoot)
	return account
}

// FromDomain populates the persistence model from a domain BankAccount
func (m *BankAccountModel) FromDomain(account *finance.BankAccount) {
	m.FromDomainAggregateRoot(account.BaseAggregateRoot)
	m.Name = account.Name
	m.AccountType = account.AccountType
	m.BankName = account.BankName
	m.AccountNumber = account.AccountNumber
	m.IFSCCode = account.IFSCCode
	m.Balance = account.Balance
	m.IsDefault = account.IsDefault
	m.IsActive = account.IsActive
}

// ExpenseRecordModel is the persistence model for the ExpenseRecord aggregate root.
type ExpenseRecordModel struct {
	AggregateModel
	ExpenseNumber   string                       `gorm:"type:varchar(50);not null;uniqueIndex"`
	Category        finance.ExpenseCategory      `gorm:"type:varchar(20);not null;index"`
	Amount          decimal.Decimal              `gorm:"type:decimal(18,2);not null"`
	Description     string                       `gorm:"type:varchar(500);not null"`
	IncurredAt      time.Time                    `gorm:"not null;index"`
	Status          finance.ExpenseStatus        `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	PaymentStatus   finance.ExpensePaymentStatus `gorm:"type:varchar(10);not null;default:'UNPAID'"`
	BankAccountID   *uuid.UUID                   `gorm:"type:uuid;index"`
	PaidAt          *time.Time
	Remark          string `gorm:"type:text"`
	SubmittedAt     *time.Time
	ApprovedAt      *time.Time
	ApprovalRemark  string `gorm:"type:varchar(500)"`
	RejectedAt      *time.Time
	RejectionReason string `gorm:"type:varchar(500)"`
	CancelledAt     *time.Time
	CancelReason    string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (ExpenseRecordModel) TableName() string {
	return "expense_records"
}

// ToDomain converts the persistence model to a domain ExpenseRecord
func (m *ExpenseRecordModel) ToDomain() *finance.ExpenseRecord {
	expense := &finance.ExpenseRecord{
		ExpenseNumber:   m.ExpenseNumber,
		Category:        m.Category,
		Amount:          m.Amount,
		Description:     m.Description,
		IncurredAt:      m.IncurredAt,
		Status:          m.Status,
		PaymentStatus:   m.PaymentStatus,
		BankAccountID:   m.BankAccountID,
		PaidAt:          m.PaidAt,
		Remark:          m.Remark,
		SubmittedAt:     m.SubmittedAt,
		ApprovedAt:      m.ApprovedAt,
		ApprovalRemark:  m.ApprovalRemark,
		RejectedAt:      m.RejectedAt,
		RejectionReason: m.RejectionReason,
		CancelledAt:     m.CancelledAt,
		CancelReason:    m.CancelReason,
	}
	m.PopulateAggregateRoot(&expense.BaseAggregateRoot)
	return expense
}

// FromDomain populates the persistence model from a domain ExpenseRecord
func (m *ExpenseRecordModel) FromDomain(expense *finance.ExpenseRecord) {
	m.FromDomainAggregateRoot(expense.BaseAggregateRoot)
	m.ExpenseNumber = expense.ExpenseNumber
	m.Category = expense.Category
	m.Amount = expense.Amount
	m.Description = expense.Description
	m.IncurredAt = expense.IncurredAt
	m.Status = expense.Status
	m.PaymentStatus = expense.PaymentStatus
	m.BankAccountID = expense.BankAccountID
	m.PaidAt = expense.PaidAt
	m.Remark = expense.Remark
	m.SubmittedAt = expense.SubmittedAt
	m.ApprovedAt = expense.ApprovedAt
	m.ApprovalRemark = expense.ApprovalRemark
	m.RejectedAt = expense.RejectedAt
	m.RejectionReason = expense.RejectionReason
	m.CancelledAt = expense.CancelledAt
	m.CancelReason = expense.CancelReason
}
