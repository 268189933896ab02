package finance

import (
	"fmt"
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// BankAccountType represents the kind of account
type BankAccountType string

const (
	BankAccountTypeCurrent BankAccountType = "CURRENT"
	BankAccountTypeSavings BankAccountType = "SAVINGS"
	BankAccountTypeCash    BankAccountType = "CASH" // cash in hand, no bank behind it
)

// IsValid checks if the account type is valid
func (t BankAccountType) IsValid() bool {
	switch t {
	case BankAccountTypeCurrent, BankAccountTypeSavings, BankAccountTypeCash:
		return true
	}
	return false
}

// BankAccount is the aggregate root for a business bank or cash account.
// The balance moves only through Deposit/Withdraw so every change is
// traceable to a payment or an expense.
type BankAccount struct {
	shared.BaseAggregateRoot
	Name          string          `json:"name"`
	AccountType   BankAccountType `json:"account_type"`
	BankName      string          `json:"bank_name,omitempty"`
	AccountNumber string          `json:"account_number,omitempty"`
	IFSCCode      string          `json:"ifsc_code,omitempty"`
	Balance       decimal.Decimal `json:"balance"`
	IsDefault     bool            `json:"is_default"`
	IsActive      bool            `json:"is_active"`
}

// NewBankAccount creates an active account with an opening balance
func NewBankAccount(name string, accountType BankAccountType, bankName, accountNumber, ifscCode string, openingBalance decimal.Decimal) (*BankAccount, error) {
	if name == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Account name cannot be empty")
	}
	if !accountType.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Account type is not valid")
	}
	if accountType != BankAccountTypeCash && accountNumber == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Bank accounts need an account number")
	}

	return &BankAccount{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		AccountType:       accountType,
		BankName:          bankName,
		AccountNumber:     accountNumber,
		IFSCCode:          ifscCode,
		Balance:           valueobject.Round2(openingBalance),
		IsActive:          true,
	}, nil
}

// Deposit adds money to the account
func (b *BankAccount) Deposit(amount decimal.Decimal) error {
	if !b.IsActive {
		return shared.NewDomainError("INVALID_STATE", "Account is inactive")
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("VALIDATION_ERROR", "Deposit amount must be positive")
	}
	b.Balance = valueobject.Round2(b.Balance.Add(amount))
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

// Withdraw removes money from the account. Cash accounts cannot go
// negative; bank accounts may, to model an overdraft.
func (b *BankAccount) Withdraw(amount decimal.Decimal) error {
	if !b.IsActive {
		return shared.NewDomainError("INVALID_STATE", "Account is inactive")
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("VALIDATION_ERROR", "Withdrawal amount must be positive")
	}
	newBalance := valueobject.Round2(b.Balance.Sub(amount))
	if b.AccountType == BankAccountTypeCash && newBalance.IsNegative() {
		return shared.NewDomainError("INSUFFICIENT_BALANCE",
			fmt.Sprintf("Withdrawal %s exceeds cash balance %s", amount.StringFixed(2), b.Balance.StringFixed(2)))
	}
	b.Balance = newBalance
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

// MarkDefault flags this account as the default for new payments
func (b *BankAccount) MarkDefault() {
	b.IsDefault = true
	b.UpdatedAt = time.Now()
}

// ClearDefault removes the default flag
func (b *BankAccount) ClearDefault() {
	b.IsDefault = false
	b.UpdatedAt = time.Now()
}

// Deactivate retires the account from further use
func (b *BankAccount) Deactivate() error {
	if !b.IsActive {
		return shared.NewDomainError("INVALID_STATE", "Account is already inactive")
	}
	b.IsActive = false
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}
