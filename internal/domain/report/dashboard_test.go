package report

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDashboardSummary(t *testing.T) {
	asOf := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	s := BuildDashboardSummary(DashboardInputs{
		Receivables:        d("150000.50"),
		Payables:           d("42000"),
		BankBalance:        d("98765.43"),
		OverdueReceivables: d("50000.50"),
		PeriodIncome:       d("75000"),
		PeriodExpenses:     d("31000"),
	}, asOf, start, asOf)

	assert.Equal(t, 150000.50, s.TotalReceivables)
	assert.Equal(t, 100000.00, s.CurrentReceivables, "current = total - overdue")
	assert.Equal(t, 42000.0, s.TotalPayables)
	assert.Equal(t, 75000.0, s.PeriodIncome)
}

func TestBuildDashboardSummary_EmptyData(t *testing.T) {
	s := BuildDashboardSummary(DashboardInputs{}, time.Now(), time.Now(), time.Now())
	assert.Zero(t, s.TotalReceivables)
	assert.Zero(t, s.CurrentReceivables)
	assert.Zero(t, s.PeriodExpenses)
}

func TestDashboardSummary_FlatJSON(t *testing.T) {
	s := BuildDashboardSummary(DashboardInputs{Receivables: d("10.50")}, time.Now(), time.Now(), time.Now())

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 10.5, decoded["total_receivables"], "amounts serialize as plain numbers")
}
