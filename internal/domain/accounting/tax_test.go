package accounting

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const homeState = "Karnataka"

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestComputeLineTax_IntraState(t *testing.T) {
	b, err := ComputeLineTax(d("500"), d("250"), d("5"), homeState, homeState, false)
	require.NoError(t, err)

	assert.True(t, b.Amount.Equal(d("125000")), "amount = %s", b.Amount)
	assert.True(t, b.IGST.IsZero())
	assert.True(t, b.CGST.Equal(d("3125")), "cgst = %s", b.CGST)
	assert.True(t, b.SGST.Equal(d("3125")), "sgst = %s", b.SGST)
	assert.True(t, b.TotalTax.Equal(d("6250")), "total tax = %s", b.TotalTax)
}

func TestComputeLineTax_CrossState(t *testing.T) {
	b, err := ComputeLineTax(d("500"), d("250"), d("5"), "Maharashtra", homeState, false)
	require.NoError(t, err)

	assert.True(t, b.Amount.Equal(d("125000")))
	assert.True(t, b.IGST.Equal(d("6250")), "igst = %s", b.IGST)
	assert.True(t, b.CGST.IsZero())
	assert.True(t, b.SGST.IsZero())
	assert.True(t, b.TotalTax.Equal(d("6250")))
}

func TestComputeLineTax_ExportAndZeroRate(t *testing.T) {
	t.Run("export carries no tax regardless of rate", func(t *testing.T) {
		b, err := ComputeLineTax(d("10"), d("99.99"), d("18"), OtherTerritory, homeState, true)
		require.NoError(t, err)
		assert.True(t, b.Amount.Equal(d("999.90")))
		assert.True(t, b.IGST.IsZero())
		assert.True(t, b.CGST.IsZero())
		assert.True(t, b.SGST.IsZero())
		assert.True(t, b.TotalTax.IsZero())
	})

	t.Run("zero rate carries no tax", func(t *testing.T) {
		b, err := ComputeLineTax(d("10"), d("100"), d("0"), homeState, homeState, false)
		require.NoError(t, err)
		assert.True(t, b.Amount.Equal(d("1000")))
		assert.True(t, b.TotalTax.IsZero())
	})
}

func TestComputeLineTax_OddPaisaSplit(t *testing.T) {
	// raw tax of 0.05 splits into 0.03 + 0.03, so the split total exceeds
	// the raw tax by one paisa
	b, err := ComputeLineTax(d("1"), d("1"), d("5"), homeState, homeState, false)
	require.NoError(t, err)

	assert.True(t, b.CGST.Equal(d("0.03")), "cgst = %s", b.CGST)
	assert.True(t, b.SGST.Equal(d("0.03")), "sgst = %s", b.SGST)
	assert.True(t, b.TotalTax.Equal(d("0.06")), "total tax = %s", b.TotalTax)
}

func TestComputeLineTax_Validation(t *testing.T) {
	tests := []struct {
		name     string
		quantity string
		rate     string
		taxRate  string
	}{
		{"negative quantity", "-1", "100", "5"},
		{"negative rate", "1", "-100", "5"},
		{"negative tax rate", "1", "100", "-5"},
		{"tax rate above 100", "1", "100", "101"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeLineTax(d(tt.quantity), d(tt.rate), d(tt.taxRate), homeState, homeState, false)
			assert.Error(t, err)
		})
	}
}

func TestComputeLineTax_RoundingPerStep(t *testing.T) {
	// 3 x 33.333 = 99.999 rounds to 100.00 before the tax is computed
	b, err := ComputeLineTax(d("3"), d("33.333"), d("18"), "Delhi", homeState, false)
	require.NoError(t, err)

	assert.True(t, b.Amount.Equal(d("100.00")), "amount = %s", b.Amount)
	assert.True(t, b.IGST.Equal(d("18.00")), "igst = %s", b.IGST)
}
