package currency

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mkhairi/backend-quotation/internal/common"
)

var (
	// ErrUnknownCurrencyPair is returned when neither the direct nor the inverse
	// rate exists for a pair. Callers decide whether to fall back to the
	// unconverted amount; the converter never does so silently.
	ErrUnknownCurrencyPair = errors.New("currency: no rate known for pair")
	// ErrUnsupportedCurrency is returned for codes outside the supported set.
	ErrUnsupportedCurrency = errors.New("currency: unsupported currency code")
)

// Code is an ISO-4217 style currency code from the closed set the quotation
// domain supports.
type Code string

const (
	MYR Code = "MYR"
	USD Code = "USD"
	EUR Code = "EUR"
	RMB Code = "RMB"
	JPY Code = "JPY"
	SGD Code = "SGD"
)

// ParseCode normalises and validates a currency code.
func ParseCode(s string) (Code, error) {
	switch Code(strings.ToUpper(strings.TrimSpace(s))) {
	case MYR:
		return MYR, nil
	case USD:
		return USD, nil
	case EUR:
		return EUR, nil
	case RMB:
		return RMB, nil
	case JPY:
		return JPY, nil
	case SGD:
		return SGD, nil
	default:
		return "", ErrUnsupportedCurrency
	}
}

type pair struct {
	from Code
	to   Code
}

// Table is an in-memory rate table keyed by currency pair.
type Table struct {
	rates map[pair]decimal.Decimal
}

// NewTable constructs an empty rate table.
func NewTable() *Table {
	return &Table{rates: make(map[pair]decimal.Decimal)}
}

// Set registers the rate used to convert from one currency to another.
// Non-positive rates are ignored.
func (t *Table) Set(from, to Code, rate decimal.Decimal) {
	if t == nil || !rate.IsPositive() {
		return
	}
	t.rates[pair{from: from, to: to}] = rate
}

// Rate returns the direct rate for the pair if one is registered.
func (t *Table) Rate(from, to Code) (decimal.Decimal, bool) {
	if t == nil {
		return decimal.Zero, false
	}
	rate, ok := t.rates[pair{from: from, to: to}]
	return rate, ok
}

// Convert converts an amount between currencies using the provided table.
// Identity conversions return the amount untouched with no rounding. A direct
// rate multiplies, an inverse rate divides, and a missing pair fails with
// ErrUnknownCurrencyPair. Non-identity results are rounded to two decimals.
func Convert(amount decimal.Decimal, from, to Code, table *Table) (decimal.Decimal, error) {
	if from == to {
		return amount, nil
	}
	if rate, ok := table.Rate(from, to); ok {
		return common.Round2(amount.Mul(rate)), nil
	}
	if inverse, ok := table.Rate(to, from); ok {
		return common.Round2(amount.Div(inverse)), nil
	}
	return decimal.Zero, ErrUnknownCurrencyPair
}
