package tax

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mkhairi/backend-quotation/internal/common"
)

// Type enumerates the tax policy variants.
type Type string

const (
	TypeNone     Type = "none"
	TypeFlatRate Type = "flatRate"
	TypeCustom   Type = "custom"
)

// ParseType validates a tax policy type.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return TypeNone, nil
	case "flatrate", "sst":
		return TypeFlatRate, nil
	case "custom":
		return TypeCustom, nil
	default:
		return "", fmt.Errorf("tax: invalid type %q", s)
	}
}

// Policy is the single document-level tax policy of a quotation.
type Policy struct {
	Type      Type
	Rate      decimal.Decimal
	Inclusive bool
}

// Result carries the computed tax figures.
type Result struct {
	TaxAmount     decimal.Decimal
	GrandAfterTax decimal.Decimal
}

// DefaultSSTRate is the current Malaysian SST flat rate in percent.
var DefaultSSTRate = decimal.NewFromInt(8)

// Engine computes tax amounts. The SST rate is fixed at construction so a
// statutory change is a configuration change, not a code change.
type Engine struct {
	sstRate decimal.Decimal
}

// NewEngine builds a tax engine. A non-positive sstRate falls back to
// DefaultSSTRate.
func NewEngine(sstRate decimal.Decimal) Engine {
	if sstRate.Sign() <= 0 {
		sstRate = DefaultSSTRate
	}
	return Engine{sstRate: sstRate}
}

var hundred = decimal.NewFromInt(100)

// Compute derives the tax amount for a taxable amount under the policy.
//
// Exclusive tax is added on top: grandAfterTax = taxable + tax. Inclusive tax
// is already inside the taxable amount and is extracted from it, which leaves
// grandAfterTax unchanged. The asymmetry is deliberate: inclusive tax changes
// what the number means, not what is added.
func (e Engine) Compute(taxable decimal.Decimal, policy Policy) Result {
	rate := e.effectiveRate(policy)
	if rate.Sign() <= 0 {
		return Result{TaxAmount: decimal.Zero, GrandAfterTax: taxable}
	}
	if policy.Inclusive {
		net := taxable.Div(decimal.NewFromInt(1).Add(rate.Div(hundred)))
		return Result{
			TaxAmount:     common.Round2(taxable.Sub(net)),
			GrandAfterTax: taxable,
		}
	}
	taxAmount := common.Round2(taxable.Mul(rate).Div(hundred))
	return Result{
		TaxAmount:     taxAmount,
		GrandAfterTax: taxable.Add(taxAmount),
	}
}

func (e Engine) effectiveRate(policy Policy) decimal.Decimal {
	switch policy.Type {
	case TypeFlatRate:
		if e.sstRate.Sign() <= 0 {
			return DefaultSSTRate
		}
		return e.sstRate
	case TypeCustom:
		rate := policy.Rate
		if rate.IsNegative() {
			return decimal.Zero
		}
		if rate.GreaterThan(hundred) {
			return hundred
		}
		return rate
	default:
		return decimal.Zero
	}
}
