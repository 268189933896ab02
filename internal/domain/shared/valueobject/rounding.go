package valueobject

import "github.com/shopspring/decimal"

// Round2 rounds a decimal to two places, half away from zero.
// Every monetary computation in the system rounds through this helper so
// that totals never drift from the per-step amounts they were built from.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
