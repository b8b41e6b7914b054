package discount

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mkhairi/backend-quotation/internal/common"
)

// Type enumerates the quotation-level discount variants.
type Type string

const (
	TypeNone       Type = "none"
	TypePercentage Type = "percentage"
	TypeFixed      Type = "fixed"
)

// ParseType validates a discount policy type.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return TypeNone, nil
	case "percentage":
		return TypePercentage, nil
	case "fixed":
		return TypeFixed, nil
	default:
		return "", fmt.Errorf("discount: invalid type %q", s)
	}
}

// Policy is the single document-level discount applied to a quotation.
type Policy struct {
	Type  Type
	Value decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// Compute returns the discount amount for a subtotal. The result is always
// within [0, subtotal]: percentages are clamped to [0,100] and fixed amounts
// are capped at the subtotal so the taxable amount can never go negative.
// Pure function; identical inputs always yield identical results.
func Compute(subtotal decimal.Decimal, policy Policy) decimal.Decimal {
	if subtotal.Sign() <= 0 {
		return decimal.Zero
	}
	switch policy.Type {
	case TypePercentage:
		pct := policy.Value
		if pct.IsNegative() {
			return decimal.Zero
		}
		if pct.GreaterThan(hundred) {
			pct = hundred
		}
		return common.Round2(subtotal.Mul(pct).Div(hundred))
	case TypeFixed:
		amount := common.Round2(policy.Value)
		if amount.IsNegative() {
			return decimal.Zero
		}
		if amount.GreaterThan(subtotal) {
			return subtotal
		}
		return amount
	default:
		return decimal.Zero
	}
}
