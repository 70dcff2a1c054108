package pricing

import "github.com/shopspring/decimal"

// Money is a decimal monetary amount in the base currency.
// Amounts accumulate at full precision; rounding to two fractional
// digits happens only at presentation boundaries.
type Money = decimal.Decimal

// Zero returns a zero money amount.
func Zero() Money {
	return decimal.Zero
}

// Round2 rounds an amount to two fractional digits.
func Round2(v Money) Money {
	return v.Round(2)
}

var hundred = decimal.NewFromInt(100)

// Percent applies pct (0-100) to base and rounds the result to two digits.
func Percent(base Money, pct decimal.Decimal) Money {
	return Round2(base.Mul(pct).Div(hundred))
}
