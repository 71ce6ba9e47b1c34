package money

import (
	"github.com/shopspring/decimal"
)

// RipLimit converts to and from INR at a single fixed rate, applied in both
// directions. All ledger arithmetic happens in whole RipLimit units.
const UnitsPerINR = 20

var unitsPerINR = decimal.NewFromInt(UnitsPerINR)

// INRToUnits converts a whole-rupee amount into RipLimit units.
func INRToUnits(inr int64) int64 {
	return decimal.NewFromInt(inr).Mul(unitsPerINR).IntPart()
}

// UnitsToINR converts RipLimit units back into rupees. The result carries a
// fractional part when the unit amount is not a multiple of the rate.
func UnitsToINR(units int64) decimal.Decimal {
	return decimal.NewFromInt(units).Div(unitsPerINR)
}

// UnitsToWholeINR rounds the converted rupee value to the nearest rupee,
// banker's rounding. Used for the inr_amount column of transaction rows.
func UnitsToWholeINR(units int64) int64 {
	return UnitsToINR(units).RoundBank(0).IntPart()
}

func FormatINR(units int64) string {
	return UnitsToINR(units).StringFixedBank(2)
}
