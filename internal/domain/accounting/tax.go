package accounting

import (
	"fmt"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// OtherTerritory is the place-of-supply code recorded on export/overseas
// documents that have no domestic jurisdiction.
const OtherTerritory = "Other Territory"

var oneHundred = decimal.NewFromInt(100)

// TaxBreakup is the tax split computed for a single line.
type TaxBreakup struct {
	Amount   decimal.Decimal `json:"amount"`
	IGST     decimal.Decimal `json:"igst"`
	CGST     decimal.Decimal `json:"cgst"`
	SGST     decimal.Decimal `json:"sgst"`
	TotalTax decimal.Decimal `json:"total_tax"`
}

// ComputeLineTax determines the tax split for one line item.
//
// An intra-jurisdiction sale (place of supply equals the seller's home
// jurisdiction) splits the tax evenly into CGST and SGST; a cross-jurisdiction
// sale carries the full tax as IGST; exports and zero-rated lines carry no
// tax at all. Rounding to two places happens at every intermediate step, so
// for an odd raw tax the CGST+SGST total can differ from the raw tax by one
// paisa. That behavior is a compatibility requirement, not a defect.
func ComputeLineTax(quantity, rate, taxRate decimal.Decimal, placeOfSupply, homeJurisdiction string, isExport bool) (TaxBreakup, error) {
	if quantity.IsNegative() {
		return TaxBreakup{}, shared.NewDomainError("VALIDATION_ERROR", "quantity cannot be negative")
	}
	if rate.IsNegative() {
		return TaxBreakup{}, shared.NewDomainError("VALIDATION_ERROR", "rate cannot be negative")
	}
	if taxRate.IsNegative() || taxRate.GreaterThan(oneHundred) {
		return TaxBreakup{}, shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("tax rate %s is outside the valid range [0,100]", taxRate))
	}

	amount := valueobject.Round2(quantity.Mul(rate))

	if isExport || taxRate.IsZero() {
		return TaxBreakup{
			Amount:   amount,
			IGST:     decimal.Zero,
			CGST:     decimal.Zero,
			SGST:     decimal.Zero,
			TotalTax: decimal.Zero,
		}, nil
	}

	rawTax := valueobject.Round2(amount.Mul(taxRate).Div(oneHundred))

	if placeOfSupply == homeJurisdiction {
		half := valueobject.Round2(rawTax.Div(decimal.NewFromInt(2)))
		return TaxBreakup{
			Amount:   amount,
			IGST:     decimal.Zero,
			CGST:     half,
			SGST:     half,
			TotalTax: valueobject.Round2(half.Mul(decimal.NewFromInt(2))),
		}, nil
	}

	return TaxBreakup{
		Amount:   amount,
		IGST:     rawTax,
		CGST:     decimal.Zero,
		SGST:     decimal.Zero,
		TotalTax: rawTax,
	}, nil
}
