package common

import "github.com/shopspring/decimal"

// MoneyScale is the number of decimal digits carried by monetary values.
const MoneyScale = 2

// Round2 rounds a monetary value to two decimal places, half away from zero.
func Round2(v decimal.Decimal) decimal.Decimal {
	return v.Round(MoneyScale)
}

// FromCents converts an amount stored in minor units into a decimal value.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -MoneyScale)
}

// ToCents converts a decimal amount into minor units, rounding to two decimals first.
func ToCents(v decimal.Decimal) int64 {
	return v.Round(MoneyScale).Shift(MoneyScale).IntPart()
}

// FromBps converts a rate stored in basis points into a percentage value.
func FromBps(bps int32) decimal.Decimal {
	return decimal.New(int64(bps), -2)
}

// ToBps converts a percentage value into basis points.
func ToBps(pct decimal.Decimal) int32 {
	return int32(pct.Shift(2).Round(0).IntPart())
}
