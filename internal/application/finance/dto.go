package finance

import (
	"time"

	"github.com/bizledger/backend/internal/domain/finance"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateBankAccountRequest represents a request to create a bank account
type CreateBankAccountRequest struct {
	Name           string                  `json:"name" binding:"required,min=1,max=100"`
	AccountType    finance.BankAccountType `json:"account_type" binding:"required"`
	BankName       string                  `json:"bank_name" binding:"max=100"`
	AccountNumber  string                  `json:"account_number" binding:"max=30"`
	IFSCCode       string                  `json:"ifsc_code" binding:"max=11"`
	OpeningBalance decimal.Decimal         `json:"opening_balance"`
	IsDefault      bool                    `json:"is_default"`
}

// BankAccountResponse represents a bank account in API responses
type BankAccountResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	AccountType   string          `json:"account_type"`
	BankName      string          `json:"bank_name,omitempty"`
	AccountNumber string          `json:"account_number,omitempty"`
	IFSCCode      string          `json:"ifsc_code,omitempty"`
	Balance       decimal.Decimal `json:"balance"`
	IsDefault     bool            `json:"is_default"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToBankAccountResponse converts a domain bank account to a response DTO
func ToBankAccountResponse(account *finance.BankAccount) BankAccountResponse {
	return BankAccountResponse{
		ID:            account.ID,
		Name:          account.Name,
		AccountType:   string(account.AccountType),
		BankName:      account.BankName,
		AccountNumber: account.AccountNumber,
		IFSCCode:      account.IFSCCode,
		Balance:       account.Balance,
		IsDefault:     account.IsDefault,
		IsActive:      account.IsActive,
		CreatedAt:     account.CreatedAt,
		UpdatedAt:     account.UpdatedAt,
	}
}

// CreateExpenseRequest represents a request to record an expense
type CreateExpenseRequest struct {
	Category    finance.ExpenseCategory `json:"category" binding:"required"`
	Amount      decimal.Decimal         `json:"amount" binding:"required"`
	Description string                  `json:"description" binding:"required,min=1,max=500"`
	IncurredAt  time.Time               `json:"incurred_at" binding:"required"`
	Remark      string                  `json:"remark"`
	Submit      bool                    `json:"submit"`
}

// UpdateExpenseRequest represents a request to update a draft expense
type UpdateExpenseRequest struct {
	Category    finance.ExpenseCategory `json:"category" binding:"required"`
	Amount      decimal.Decimal         `json:"amount" binding:"required"`
	Description string                  `json:"description" binding:"required,min=1,max=500"`
	IncurredAt  time.Time               `json:"incurred_at" binding:"required"`
}

// ApproveExpenseRequest represents an approval decision
type ApproveExpenseRequest struct {
	Remark string `json:"remark" binding:"max=500"`
}

// RejectExpenseRequest represents a rejection with its reason
type RejectExpenseRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// CancelExpenseRequest represents a cancellation with its reason
type CancelExpenseRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// PayExpenseRequest names the bank account the expense is paid from
type PayExpenseRequest struct {
	BankAccountID uuid.UUID `json:"bank_account_id" binding:"required"`
}

// ExpenseListFilter represents filter options for the expense list
type ExpenseListFilter struct {
	Search    string     `form:"search"`
	Category  *string    `form:"category"`
	Status    *string    `form:"status"`
	StartDate *time.Time `form:"start_date" time_format:"2006-01-02"`
	EndDate   *time.Time `form:"end_date" time_format:"2006-01-02"`
	Page      int        `form:"page"`
	PageSize  int        `form:"page_size" binding:"omitempty,max=100"`
	OrderBy   string     `form:"order_by"`
	OrderDir  string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToDomainFilter converts the HTTP filter to a repository filter
func (f ExpenseListFilter) ToDomainFilter() finance.ExpenseFilter {
	filter := finance.ExpenseFilter{
		Filter: shared.Filter{
			Page:     f.Page,
			PageSize: f.PageSize,
			OrderBy:  f.OrderBy,
			OrderDir: f.OrderDir,
			Search:   f.Search,
		},
		FromDate: f.StartDate,
		ToDate:   f.EndDate,
	}
	if f.Category != nil {
		category := finance.ExpenseCategory(*f.Category)
		filter.Category = &category
	}
	if f.Status != nil {
		status := finance.ExpenseStatus(*f.Status)
		filter.Status = &status
	}
	return filter
}

// ExpenseResponse represents an expense record in API responses
type ExpenseResponse struct {
	ID              uuid.UUID       `json:"id"`
	ExpenseNumber   string          `json:"expense_number"`
	Category        string          `json:"category"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	IncurredAt      time.Time       `json:"incurred_at"`
	Status          string          `json:"status"`
	PaymentStatus   string          `json:"payment_status"`
	BankAccountID   *uuid.UUID      `json:"bank_account_id,omitempty"`
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
	Remark          string          `json:"remark,omitempty"`
	ApprovalRemark  string          `json:"approval_remark,omitempty"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
	CancelReason    string          `json:"cancel_reason,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ToExpenseResponse converts a domain expense record to a response DTO
func ToExpenseResponse(expense *finance.ExpenseRecord) ExpenseResponse {
	return ExpenseResponse{
		ID:              expense.ID,
		ExpenseNumber:   expense.ExpenseNumber,
		Category:        string(expense.Category),
		Amount:          expense.Amount,
		Description:     expense.Description,
		IncurredAt:      expense.IncurredAt,
		Status:          string(expense.Status),
		PaymentStatus:   string(expense.PaymentStatus),
		BankAccountID:   expense.BankAccountID,
		PaidAt:          expense.PaidAt,
		Remark:          expense.Remark,
		ApprovalRemark:  expense.ApprovalRemark,
		RejectionReason: expense.RejectionReason,
		CancelReason:    expense.CancelReason,
		CreatedAt:       expense.CreatedAt,
		UpdatedAt:       expense.UpdatedAt,
	}
}
