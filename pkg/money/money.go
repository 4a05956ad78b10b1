package money

import "github.com/shopspring/decimal"

// ToCents converts a major-unit amount (euros) to minor units (cents) with a
// single round-half-up step at 2 decimals. Formula evaluation stays in major
// units end to end; this is the one designated conversion point, so rounding
// error never compounds mid-expression.
func ToCents(major float64) int64 {
	return decimal.NewFromFloat(major).Shift(2).Round(0).IntPart()
}

// FromCents converts minor units back to a major-unit decimal, for response
// payloads that display whole-currency amounts.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// PercentOf applies a percentage to a minor-unit amount, rounding half up to
// a whole cent. Used for tax amounts computed over an already-rounded
// subtotal.
func PercentOf(cents int64, percent float64) int64 {
	return decimal.New(cents, 0).
		Mul(decimal.NewFromFloat(percent)).
		Div(decimal.NewFromInt(100)).
		Round(0).
		IntPart()
}
