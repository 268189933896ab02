package finance

import (
	"context"

	"github.com/bizledger/backend/internal/domain/finance"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service handles bank account and expense business operations
type Service struct {
	db       *gorm.DB
	accounts *persistence.GormBankAccountRepository
	expenses *persistence.GormExpenseRepository
}

// NewService creates a new finance Service
func NewService(db *gorm.DB, accounts *persistence.GormBankAccountRepository, expenses *persistence.GormExpenseRepository) *Service {
	return &Service{
		db:       db,
		accounts: accounts,
		expenses: expenses,
	}
}

// CreateBankAccount creates a bank or cash account. Flagging it default
// clears the flag from the previous default in the same transaction.
func (s *Service) CreateBankAccount(ctx context.Context, req CreateBankAccountRequest) (*BankAccountResponse, error) {
	account, err := finance.NewBankAccount(req.Name, req.AccountType, req.BankName, req.AccountNumber, req.IFSCCode, req.OpeningBalance)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		accounts := s.accounts.WithTx(tx)
		if req.IsDefault {
			if err := s.clearDefault(ctx, accounts); err != nil {
				return err
			}
			account.MarkDefault()
		}
		return accounts.Save(ctx, account)
	})
	if err != nil {
		return nil, err
	}

	response := ToBankAccountResponse(account)
	return &response, nil
}

// GetBankAccount returns a bank account by ID
func (s *Service) GetBankAccount(ctx context.Context, id uuid.UUID) (*BankAccountResponse, error) {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToBankAccountResponse(account)
	return &response, nil
}

// ListBankAccounts returns all bank accounts, active first
func (s *Service) ListBankAccounts(ctx context.Context) ([]BankAccountResponse, error) {
	accounts, err := s.accounts.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]BankAccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToBankAccountResponse(&accounts[i])
	}
	return responses, nil
}

// SetDefaultBankAccount moves the default flag to the given account
func (s *Service) SetDefaultBankAccount(ctx context.Context, id uuid.UUID) (*BankAccountResponse, error) {
	var account *finance.BankAccount

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		accounts := s.accounts.WithTx(tx)

		var err error
		account, err = accounts.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !account.IsActive {
			return shared.NewDomainError("INVALID_STATE", "Cannot default an inactive account")
		}
		if err := s.clearDefault(ctx, accounts); err != nil {
			return err
		}
		account.MarkDefault()
		return accounts.Save(ctx, account)
	})
	if err != nil {
		return nil, err
	}

	response := ToBankAccountResponse(account)
	return &response, nil
}

// DeactivateBankAccount retires an account from further use
func (s *Service) DeactivateBankAccount(ctx context.Context, id uuid.UUID) error {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := account.Deactivate(); err != nil {
		return err
	}
	account.ClearDefault()
	return s.accounts.Save(ctx, account)
}

// CreateExpense records an expense, optionally submitting it for approval
// in the same call
func (s *Service) CreateExpense(ctx context.Context, req CreateExpenseRequest) (*ExpenseResponse, error) {
	number, err := s.expenses.GenerateExpenseNumber(ctx)
	if err != nil {
		return nil, err
	}

	expense, err := finance.NewExpenseRecord(number, req.Category, req.Amount, req.Description, req.IncurredAt)
	if err != nil {
		return nil, err
	}
	if req.Remark != "" {
		expense.SetRemark(req.Remark)
	}
	if req.Submit {
		if err := expense.Submit(); err != nil {
			return nil, err
		}
	}

	if err := s.expenses.Save(ctx, expense); err != nil {
		return nil, err
	}

	response := ToExpenseResponse(expense)
	return &response, nil
}

// GetExpense returns an expense record by ID
func (s *Service) GetExpense(ctx context.Context, id uuid.UUID) (*ExpenseResponse, error) {
	expense, err := s.expenses.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToExpenseResponse(expense)
	return &response, nil
}

// ListExpenses returns expense records matching the filter, paginated
func (s *Service) ListExpenses(ctx context.Context, filter ExpenseListFilter) (shared.Paginated[ExpenseResponse], error) {
	result, err := s.expenses.FindAll(ctx, filter.ToDomainFilter())
	if err != nil {
		return shared.Paginated[ExpenseResponse]{}, err
	}

	responses := make([]ExpenseResponse, len(result.Items))
	for i := range result.Items {
		responses[i] = ToExpenseResponse(&result.Items[i])
	}
	return shared.NewPaginated(responses, result.Total, result.Page, result.PageSize), nil
}

// UpdateExpense edits a draft expense
func (s *Service) UpdateExpense(ctx context.Context, id uuid.UUID, req UpdateExpenseRequest) (*ExpenseResponse, error) {
	return s.transition(ctx, id, func(expense *finance.ExpenseRecord) error {
		return expense.Update(req.Category, req.Amount, req.Description, req.IncurredAt)
	})
}

// SubmitExpense sends a draft expense for approval
func (s *Service) SubmitExpense(ctx context.Context, id uuid.UUID) (*ExpenseResponse, error) {
	return s.transition(ctx, id, (*finance.ExpenseRecord).Submit)
}

// ApproveExpense approves a pending expense
func (s *Service) ApproveExpense(ctx context.Context, id uuid.UUID, req ApproveExpenseRequest) (*ExpenseResponse, error) {
	return s.transition(ctx, id, func(expense *finance.ExpenseRecord) error {
		return expense.Approve(req.Remark)
	})
}

// RejectExpense rejects a pending expense
func (s *Service) RejectExpense(ctx context.Context, id uuid.UUID, req RejectExpenseRequest) (*ExpenseResponse, error) {
	return s.transition(ctx, id, func(expense *finance.ExpenseRecord) error {
		return expense.Reject(req.Reason)
	})
}

// CancelExpense cancels a draft or pending expense
func (s *Service) CancelExpense(ctx context.Context, id uuid.UUID, req CancelExpenseRequest) (*ExpenseResponse, error) {
	return s.transition(ctx, id, func(expense *finance.ExpenseRecord) error {
		return expense.Cancel(req.Reason)
	})
}

// PayExpense pays an approved expense out of a bank account. The balance
// movement and the payment mark commit or roll back together.
func (s *Service) PayExpense(ctx context.Context, id uuid.UUID, req PayExpenseRequest) (*ExpenseResponse, error) {
	var expense *finance.ExpenseRecord

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		accounts := s.accounts.WithTx(tx)
		expenses := s.expenses.WithTx(tx)

		var err error
		expense, err = expenses.FindByID(ctx, id)
		if err != nil {
			return err
		}
		account, err := accounts.FindByIDForUpdate(ctx, req.BankAccountID)
		if err != nil {
			return err
		}

		if err := expense.MarkAsPaid(account.ID); err != nil {
			return err
		}
		if err := account.Withdraw(expense.Amount); err != nil {
			return err
		}

		if err := accounts.Save(ctx, account); err != nil {
			return err
		}
		return expenses.Save(ctx, expense)
	})
	if err != nil {
		return nil, err
	}

	response := ToExpenseResponse(expense)
	return &response, nil
}

// transition loads, mutates, and saves an expense
func (s *Service) transition(ctx context.Context, id uuid.UUID, fn func(*finance.ExpenseRecord) error) (*ExpenseResponse, error) {
	expense, err := s.expenses.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(expense); err != nil {
		return nil, err
	}
	if err := s.expenses.Save(ctx, expense); err != nil {
		return nil, err
	}
	response := ToExpenseResponse(expense)
	return &response, nil
}

// clearDefault removes the default flag from whichever account holds it
func (s *Service) clearDefault(ctx context.Context, accounts *persistence.GormBankAccountRepository) error {
	current, err := accounts.FindDefault(ctx)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil
		}
		return err
	}
	current.ClearDefault()
	return accounts.Save(ctx, current)
}
