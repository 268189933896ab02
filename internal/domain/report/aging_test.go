package report

import (
	"testing"
	"time"

	"github.com/bizledger/backend/internal/domain/accounting"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openInvoice(t *testing.T, total string, dueDaysAgo *int, asOf time.Time) accounting.FinancialDocument {
	t.Helper()

	var due *time.Time
	docDate := asOf.AddDate(0, 0, -60)
	if dueDaysAgo != nil {
		dd := asOf.AddDate(0, 0, -*dueDaysAgo)
		due = &dd
	}

	doc, err := accounting.NewFinancialDocument(accounting.NewDocumentParams{
		DocumentNumber: "INV-" + uuid.NewString()[:8],
		DocumentType:   accounting.DocumentTypeInvoice,
		PartyID:        uuid.New(),
		DocumentDate:   docDate,
		DueDate:        due,
		PlaceOfSupply:  "Karnataka",
	})
	require.NoError(t, err)

	line, err := accounting.NewLineItem("SKU-1", d("1"), d(total), d("0"), 0)
	require.NoError(t, err)
	require.NoError(t, doc.ReplaceLines([]*accounting.LineItem{line}, "Karnataka"))
	require.NoError(t, doc.Commit())
	return *doc
}

func intPtr(v int) *int { return &v }

func TestBuildAgingReport(t *testing.T) {
	asOf := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	docs := []accounting.FinancialDocument{
		openInvoice(t, "1000", nil, asOf),         // no due date: current
		openInvoice(t, "2000", intPtr(-10), asOf), // due in the future: current
		openInvoice(t, "300", intPtr(15), asOf),   // 1-30
		openInvoice(t, "400", intPtr(30), asOf),   // 1-30 boundary
		openInvoice(t, "500", intPtr(31), asOf),   // 31-60 boundary
		openInvoice(t, "600", intPtr(75), asOf),   // 61-90
		openInvoice(t, "700", intPtr(91), asOf),   // 90+
	}

	r := BuildAgingReport(docs, asOf)

	assert.True(t, r.Current.Equal(d("3000")), "current = %s", r.Current)
	assert.True(t, r.Overdue1To30.Equal(d("700")), "1-30 = %s", r.Overdue1To30)
	assert.True(t, r.Overdue31To60.Equal(d("500")), "31-60 = %s", r.Overdue31To60)
	assert.True(t, r.Overdue61To90.Equal(d("600")), "61-90 = %s", r.Overdue61To90)
	assert.True(t, r.Overdue90Plus.Equal(d("700")), "90+ = %s", r.Overdue90Plus)
}

func TestBuildAgingReport_Completeness(t *testing.T) {
	asOf := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	docs := []accounting.FinancialDocument{
		openInvoice(t, "1234.56", intPtr(5), asOf),
		openInvoice(t, "78.90", intPtr(45), asOf),
		openInvoice(t, "999.99", nil, asOf),
		openInvoice(t, "5000", intPtr(120), asOf),
	}

	expected := d("0")
	for _, doc := range docs {
		expected = expected.Add(doc.BalanceDue)
	}

	r := BuildAgingReport(docs, asOf)
	assert.True(t, r.Total().Equal(expected), "bucket sum %s != open balance %s", r.Total(), expected)
}

func TestBuildAgingReport_SkipsSettledAndTerminal(t *testing.T) {
	asOf := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	paid := openInvoice(t, "1000", intPtr(10), asOf)
	require.NoError(t, paid.ApplyAllocation(paid.BalanceDue))

	cancelled := openInvoice(t, "2000", intPtr(10), asOf)
	require.NoError(t, cancelled.Cancel("duplicate"))

	open := openInvoice(t, "500", intPtr(10), asOf)

	r := BuildAgingReport([]accounting.FinancialDocument{paid, cancelled, open}, asOf)
	assert.True(t, r.Total().Equal(d("500")))
}

func TestBuildAgingReport_Empty(t *testing.T) {
	r := BuildAgingReport(nil, time.Now())
	assert.True(t, r.Total().IsZero())
}
