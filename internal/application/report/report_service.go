package report

import (
	"context"
	"time"

	"github.com/bizledger/backend/internal/domain/accounting"
	"github.com/bizledger/backend/internal/domain/finance"
	"github.com/bizledger/backend/internal/domain/payment"
	"github.com/bizledger/backend/internal/domain/report"
	"github.com/shopspring/decimal"
)

// Service builds the read-only dashboard, aging, and cashflow projections.
// Every report is point in time and idempotent; empty data yields
// zero-filled structures, never an error.
type Service struct {
	documents accounting.DocumentRepository
	payments  payment.Repository
	expenses  finance.ExpenseRepository
	accounts  finance.BankAccountRepository
}

// NewService creates a new report Service
func NewService(
	documents accounting.DocumentRepository,
	payments payment.Repository,
	expenses finance.ExpenseRepository,
	accounts finance.BankAccountRepository,
) *Service {
	return &Service{
		documents: documents,
		payments:  payments,
		expenses:  expenses,
		accounts:  accounts,
	}
}

// Dashboard assembles the point-in-time summary. A zero from or to falls
// back to the first day of the current month through today. Period income
// is payments received in range; period expenses are committed bill totals
// plus expenses incurred in range, whether or not money moved yet.
func (s *Service) Dashboard(ctx context.Context, from, to time.Time) (*report.DashboardSummary, error) {
	now := time.Now()
	if to.IsZero() {
		to = now
	}
	if from.IsZero() {
		from = time.Date(to.Year(), to.Month(), 1, 0, 0, 0, 0, to.Location())
	}

	receivables, err := s.documents.SumOutstanding(ctx, accounting.DocumentTypeInvoice)
	if err != nil {
		return nil, err
	}
	payables, err := s.documents.SumOutstanding(ctx, accounting.DocumentTypeBill)
	if err != nil {
		return nil, err
	}
	overdueReceivables, err := s.documents.SumOverdue(ctx, accounting.DocumentTypeInvoice, now)
	if err != nil {
		return nil, err
	}

	bankBalance, err := s.sumBankBalances(ctx)
	if err != nil {
		return nil, err
	}

	income, err := s.payments.SumByDirection(ctx, payment.DirectionInbound, from, to)
	if err != nil {
		return nil, err
	}
	billed, err := s.sumBillTotals(ctx, from, to)
	if err != nil {
		return nil, err
	}
	expenses, err := s.expenses.SumIncurred(ctx, from, to)
	if err != nil {
		return nil, err
	}

	summary := report.BuildDashboardSummary(report.DashboardInputs{
		Receivables:        receivables,
		Payables:           payables,
		BankBalance:        bankBalance,
		OverdueReceivables: overdueReceivables,
		PeriodIncome:       income,
		PeriodExpenses:     billed.Add(expenses),
	}, now, from, to)
	return &summary, nil
}

// Aging buckets the open balances of a document type by days past due
func (s *Service) Aging(ctx context.Context, docType accounting.DocumentType, asOf time.Time) (*report.AgingReport, error) {
	if asOf.IsZero() {
		asOf = time.Now()
	}

	docs, err := s.documents.FindOpen(ctx, docType)
	if err != nil {
		return nil, err
	}

	aging := report.BuildAgingReport(docs, asOf)
	return &aging, nil
}

// Cashflow merges money in and money out onto one period axis. Inflow is
// payments received; outflow is payments made plus paid expenses. A zero
// range falls back to six months back through today.
func (s *Service) Cashflow(ctx context.Context, from, to time.Time, granularity string) (*report.MergedSeries, error) {
	now := time.Now()
	if to.IsZero() {
		to = now
	}
	if from.IsZero() {
		from = to.AddDate(0, -6, 0)
	}

	inflow, err := s.payments.SumByDirectionAndPeriod(ctx, payment.DirectionInbound, from, to, granularity)
	if err != nil {
		return nil, err
	}
	outbound, err := s.payments.SumByDirectionAndPeriod(ctx, payment.DirectionOutbound, from, to, granularity)
	if err != nil {
		return nil, err
	}
	expenses, err := s.expenses.SumPaidByPeriod(ctx, from, to, granularity)
	if err != nil {
		return nil, err
	}

	outflow := report.Series{}
	for key, amount := range outbound {
		outflow[key] = outflow[key].Add(amount)
	}
	for key, amount := range expenses {
		outflow[key] = outflow[key].Add(amount)
	}

	merged := report.MergeSeries(map[string]report.Series{
		"inflow":  inflow,
		"outflow": outflow,
	})
	return &merged, nil
}

// ExpensesByCategory sums paid expenses per category in a date range
func (s *Service) ExpensesByCategory(ctx context.Context, from, to time.Time) (map[finance.ExpenseCategory]decimal.Decimal, error) {
	now := time.Now()
	if to.IsZero() {
		to = now
	}
	if from.IsZero() {
		from = time.Date(to.Year(), to.Month(), 1, 0, 0, 0, 0, to.Location())
	}
	return s.expenses.SumPaidByCategory(ctx, from, to)
}

func (s *Service) sumBankBalances(ctx context.Context) (decimal.Decimal, error) {
	accounts, err := s.accounts.FindAll(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for i := range accounts {
		if accounts[i].IsActive {
			total = total.Add(accounts[i].Balance)
		}
	}
	return total, nil
}

// sumBillTotals totals committed bills dated in the range, regardless of
// how much of them has been settled
func (s *Service) sumBillTotals(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	series, err := s.documents.SumTotalsByPeriod(ctx, accounting.DocumentTypeBill, from, to, string(report.GranularityMonthly))
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, amount := range series {
		total = total.Add(amount)
	}
	return total, nil
}
