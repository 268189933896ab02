package report

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardSummary is the flat point-in-time snapshot shown on the home
// screen. Amounts serialize as plain numbers for direct chart consumption.
type DashboardSummary struct {
	AsOf               time.Time `json:"as_of"`
	PeriodStart        time.Time `json:"period_start"`
	PeriodEnd          time.Time `json:"period_end"`
	TotalReceivables   float64   `json:"total_receivables"`
	TotalPayables      float64   `json:"total_payables"`
	BankBalance        float64   `json:"bank_balance"`
	OverdueReceivables float64   `json:"overdue_receivables"`
	CurrentReceivables float64   `json:"current_receivables"`
	PeriodIncome       float64   `json:"period_income"`
	PeriodExpenses     float64   `json:"period_expenses"`
}

// DashboardInputs carries the pre-aggregated sums the summary is built from
type DashboardInputs struct {
	Receivables        decimal.Decimal
	Payables           decimal.Decimal
	BankBalance        decimal.Decimal
	OverdueReceivables decimal.Decimal
	PeriodIncome       decimal.Decimal
	PeriodExpenses     decimal.Decimal
}

// BuildDashboardSummary assembles the summary from pre-aggregated sums.
// Current receivables are derived as total minus overdue so the two splits
// always add back up to the total.
func BuildDashboardSummary(in DashboardInputs, asOf, periodStart, periodEnd time.Time) DashboardSummary {
	current := in.Receivables.Sub(in.OverdueReceivables)
	if current.IsNegative() {
		current = decimal.Zero
	}

	return DashboardSummary{
		AsOf:               asOf,
		PeriodStart:        periodStart,
		PeriodEnd:          periodEnd,
		TotalReceivables:   toFloat(in.Receivables),
		TotalPayables:      toFloat(in.Payables),
		BankBalance:        toFloat(in.BankBalance),
		OverdueReceivables: toFloat(in.OverdueReceivables),
		CurrentReceivables: toFloat(current),
		PeriodIncome:       toFloat(in.PeriodIncome),
		PeriodExpenses:     toFloat(in.PeriodExpenses),
	}
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
