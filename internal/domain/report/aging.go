package report

import (
	"time"

	"github.com/bizledger/backend/internal/domain/accounting"
	"github.com/shopspring/decimal"
)

// AgingReport groups open balances by how far past due they are.
// Each document lands in exactly one bucket, so the five bucket totals
// always sum to the open balance total.
type AgingReport struct {
	AsOf          time.Time       `json:"as_of"`
	Current       decimal.Decimal `json:"current"`
	Overdue1To30  decimal.Decimal `json:"overdue_1_30"`
	Overdue31To60 decimal.Decimal `json:"overdue_31_60"`
	Overdue61To90 decimal.Decimal `json:"overdue_61_90"`
	Overdue90Plus decimal.Decimal `json:"overdue_90_plus"`
}

// Total returns the sum across all buckets
func (r AgingReport) Total() decimal.Decimal {
	return r.Current.
		Add(r.Overdue1To30).
		Add(r.Overdue31To60).
		Add(r.Overdue61To90).
		Add(r.Overdue90Plus)
}

// BuildAgingReport classifies open documents into aging buckets as of the
// given time. Documents without a due date, or not yet past it, count as
// Current. Documents with a zero or negative balance are skipped.
func BuildAgingReport(docs []accounting.FinancialDocument, asOf time.Time) AgingReport {
	r := AgingReport{
		AsOf:          asOf,
		Current:       decimal.Zero,
		Overdue1To30:  decimal.Zero,
		Overdue31To60: decimal.Zero,
		Overdue61To90: decimal.Zero,
		Overdue90Plus: decimal.Zero,
	}

	for _, doc := range docs {
		if !doc.Status.IsOpen() || !doc.BalanceDue.IsPositive() {
			continue
		}

		days := doc.DaysOverdue(asOf)
		switch {
		case days <= 0:
			r.Current = r.Current.Add(doc.BalanceDue)
		case days <= 30:
			r.Overdue1To30 = r.Overdue1To30.Add(doc.BalanceDue)
		case days <= 60:
			r.Overdue31To60 = r.Overdue31To60.Add(doc.BalanceDue)
		case days <= 90:
			r.Overdue61To90 = r.Overdue61To90.Add(doc.BalanceDue)
		default:
			r.Overdue90Plus = r.Overdue90Plus.Add(doc.BalanceDue)
		}
	}

	return r
}
