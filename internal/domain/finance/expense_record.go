package finance

import (
	"fmt"
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseCategory represents the category of an expense
type ExpenseCategory string

const (
	ExpenseCategoryRent        ExpenseCategory = "RENT"
	ExpenseCategoryUtilities   ExpenseCategory = "UTILITIES"
	ExpenseCategorySalary      ExpenseCategory = "SALARY"
	ExpenseCategoryOffice      ExpenseCategory = "OFFICE"
	ExpenseCategoryTravel      ExpenseCategory = "TRAVEL"
	ExpenseCategoryMarketing   ExpenseCategory = "MARKETING"
	ExpenseCategoryEquipment   ExpenseCategory = "EQUIPMENT"
	ExpenseCategoryMaintenance ExpenseCategory = "MAINTENANCE"
	ExpenseCategoryInsurance   ExpenseCategory = "INSURANCE"
	ExpenseCategoryTax         ExpenseCategory = "TAX"
	ExpenseCategoryOther       ExpenseCategory = "OTHER"
)

// IsValid checks if the category is a valid ExpenseCategory
func (c ExpenseCategory) IsValid() bool {
	switch c {
	case ExpenseCategoryRent, ExpenseCategoryUtilities, ExpenseCategorySalary,
		ExpenseCategoryOffice, ExpenseCategoryTravel, ExpenseCategoryMarketing,
		ExpenseCategoryEquipment, ExpenseCategoryMaintenance, ExpenseCategoryInsurance,
		ExpenseCategoryTax, ExpenseCategoryOther:
		return true
	}
	return false
}

// String returns the string representation of ExpenseCategory
func (c ExpenseCategory) String() string {
	return string(c)
}

// ExpenseStatus represents the status of an expense record
type ExpenseStatus string

const (
	ExpenseStatusDraft     ExpenseStatus = "DRAFT"
	ExpenseStatusPending   ExpenseStatus = "PENDING"
	ExpenseStatusApproved  ExpenseStatus = "APPROVED"
	ExpenseStatusRejected  ExpenseStatus = "REJECTED"
	ExpenseStatusCancelled ExpenseStatus = "CANCELLED"
)

// IsValid checks if the status is a valid ExpenseStatus
func (s ExpenseStatus) IsValid() bool {
	switch s {
	case ExpenseStatusDraft, ExpenseStatusPending, ExpenseStatusApproved,
		ExpenseStatusRejected, ExpenseStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of ExpenseStatus
func (s ExpenseStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the expense is in a terminal state
func (s ExpenseStatus) IsTerminal() bool {
	return s == ExpenseStatusApproved || s == ExpenseStatusRejected || s == ExpenseStatusCancelled
}

// CanSubmit returns true if the expense can be submitted for approval
func (s ExpenseStatus) CanSubmit() bool {
	return s == ExpenseStatusDraft
}

// CanApprove returns true if the expense can be approved or rejected
func (s ExpenseStatus) CanApprove() bool {
	return s == ExpenseStatusPending
}

// CanCancel returns true if the expense can be cancelled
func (s ExpenseStatus) CanCancel() bool {
	return s == ExpenseStatusDraft || s == ExpenseStatusPending
}

// ExpensePaymentStatus represents whether the expense has been paid out
type ExpensePaymentStatus string

const (
	ExpensePaymentStatusUnpaid ExpensePaymentStatus = "UNPAID"
	ExpensePaymentStatusPaid   ExpensePaymentStatus = "PAID"
)

// ExpenseRecord is the aggregate root for non-trade spending such as rent,
// utilities, and salary. Expenses flow through a small approval workflow
// before they can be paid out of a bank account.
type ExpenseRecord struct {
	shared.BaseAggregateRoot
	ExpenseNumber   string               `json:"expense_number"`
	Category        ExpenseCategory      `json:"category"`
	Amount          decimal.Decimal      `json:"amount"`
	Description     string               `json:"description"`
	IncurredAt      time.Time            `json:"incurred_at"`
	Status          ExpenseStatus        `json:"status"`
	PaymentStatus   ExpensePaymentStatus `json:"payment_status"`
	BankAccountID   *uuid.UUID           `json:"bank_account_id,omitempty"`
	PaidAt          *time.Time           `json:"paid_at,omitempty"`
	Remark          string               `json:"remark,omitempty"`
	SubmittedAt     *time.Time           `json:"submitted_at,omitempty"`
	ApprovedAt      *time.Time           `json:"approved_at,omitempty"`
	ApprovalRemark  string               `json:"approval_remark,omitempty"`
	RejectedAt      *time.Time           `json:"rejected_at,omitempty"`
	RejectionReason string               `json:"rejection_reason,omitempty"`
	CancelledAt     *time.Time           `json:"cancelled_at,omitempty"`
	CancelReason    string               `json:"cancel_reason,omitempty"`
}

// NewExpenseRecord creates a new expense record in draft status
func NewExpenseRecord(expenseNumber string, category ExpenseCategory, amount decimal.Decimal, description string, incurredAt time.Time) (*ExpenseRecord, error) {
	if expenseNumber == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Expense number cannot be empty")
	}
	if len(expenseNumber) > 50 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Expense number cannot exceed 50 characters")
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Expense category is not valid")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Amount must be positive")
	}
	if description == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Description cannot be empty")
	}
	if len(description) > 500 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Description cannot exceed 500 characters")
	}

	return &ExpenseRecord{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ExpenseNumber:     expenseNumber,
		Category:          category,
		Amount:            valueobject.Round2(amount),
		Description:       description,
		IncurredAt:        incurredAt,
		Status:            ExpenseStatusDraft,
		PaymentStatus:     ExpensePaymentStatusUnpaid,
	}, nil
}

// Submit submits the expense for approval
func (e *ExpenseRecord) Submit() error {
	if !e.Status.CanSubmit() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot submit expense in %s status", e.Status))
	}

	now := time.Now()
	e.Status = ExpenseStatusPending
	e.SubmittedAt = &now
	e.UpdatedAt = now
	e.IncrementVersion()
	return nil
}

// Approve approves the expense
func (e *ExpenseRecord) Approve(remark string) error {
	if !e.Status.CanApprove() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot approve expense in %s status", e.Status))
	}

	now := time.Now()
	e.Status = ExpenseStatusApproved
	e.ApprovedAt = &now
	e.ApprovalRemark = remark
	e.UpdatedAt = now
	e.IncrementVersion()
	return nil
}

// Reject rejects the expense
func (e *ExpenseRecord) Reject(reason string) error {
	if !e.Status.CanApprove() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot reject expense in %s status", e.Status))
	}
	if reason == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Rejection reason is required")
	}

	now := time.Now()
	e.Status = ExpenseStatusRejected
	e.RejectedAt = &now
	e.RejectionReason = reason
	e.UpdatedAt = now
	e.IncrementVersion()
	return nil
}

// Cancel cancels the expense before it is approved
func (e *ExpenseRecord) Cancel(reason string) error {
	if !e.Status.CanCancel() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel expense in %s status", e.Status))
	}
	if reason == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Cancel reason is required")
	}

	now := time.Now()
	e.Status = ExpenseStatusCancelled
	e.CancelledAt = &now
	e.CancelReason = reason
	e.UpdatedAt = now
	e.IncrementVersion()
	return nil
}

// MarkAsPaid records that the expense was paid out of the given account
func (e *ExpenseRecord) MarkAsPaid(bankAccountID uuid.UUID) error {
	if e.Status != ExpenseStatusApproved {
		return shared.NewDomainError("INVALID_STATE", "Only approved expenses can be marked as paid")
	}
	if e.PaymentStatus == ExpensePaymentStatusPaid {
		return shared.NewDomainError("INVALID_STATE", "Expense is already paid")
	}
	if bankAccountID == uuid.Nil {
		return shared.NewDomainError("VALIDATION_ERROR", "Bank account ID cannot be empty")
	}

	now := time.Now()
	e.PaymentStatus = ExpensePaymentStatusPaid
	e.BankAccountID = &bankAccountID
	e.PaidAt = &now
	e.UpdatedAt = now
	e.IncrementVersion()
	return nil
}

// Update changes the expense details, only allowed in draft status
func (e *ExpenseRecord) Update(category ExpenseCategory, amount decimal.Decimal, description string, incurredAt time.Time) error {
	if e.Status != ExpenseStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Can only update an expense in draft status")
	}
	if !category.IsValid() {
		return shared.NewDomainError("VALIDATION_ERROR", "Expense category is not valid")
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("VALIDATION_ERROR", "Amount must be positive")
	}
	if description == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Description cannot be empty")
	}

	e.Category = category
	e.Amount = valueobject.Round2(amount)
	e.Description = description
	e.IncurredAt = incurredAt
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
	return nil
}

// SetRemark sets the free-form remark
func (e *ExpenseRecord) SetRemark(remark string) {
	e.Remark = remark
	e.UpdatedAt = time.Now()
}

// IsDraft returns true if the expense is in draft status
func (e *ExpenseRecord) IsDraft() bool {
	return e.Status == ExpenseStatusDraft
}

// IsApproved returns true if the expense is approved
func (e *ExpenseRecord) IsApproved() bool {
	return e.Status == ExpenseStatusApproved
}

// IsPaid returns true if the expense has been paid out
func (e *ExpenseRecord) IsPaid() bool {
	return e.PaymentStatus == ExpensePaymentStatusPaid
}
