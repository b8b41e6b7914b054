package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mkhairi/backend-quotation/internal/common"
)

// DiscountType enumerates the line-level discount variants.
type DiscountType string

const (
	DiscountNone       DiscountType = "none"
	DiscountPercentage DiscountType = "percentage"
	DiscountAmount     DiscountType = "amount"
)

// ParseDiscountType validates a line discount type. "fixed" is accepted as a
// synonym for "amount".
func ParseDiscountType(s string) (DiscountType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return DiscountNone, nil
	case "percentage":
		return DiscountPercentage, nil
	case "amount", "fixed":
		return DiscountAmount, nil
	default:
		return "", fmt.Errorf("pricing: invalid line discount type %q", s)
	}
}

// Discount is the discount applied to a single line.
type Discount struct {
	Type  DiscountType
	Value decimal.Decimal
}

// Line carries the raw pricing inputs for one quotation line.
type Line struct {
	CostPrice     decimal.Decimal
	MarkupPercent decimal.Decimal
	Qty           int
	Discount      Discount
}

// Result is the derived pricing for a line. UnitPrice is rounded to two
// decimals exactly once and never re-rounded downstream.
type Result struct {
	UnitPrice      decimal.Decimal
	GrossValue     decimal.Decimal
	DiscountAmount decimal.Decimal
	LineTotal      decimal.Decimal
}

// InvalidLineInputError reports a line input that must be surfaced to the
// user rather than silently corrected.
type InvalidLineInputError struct {
	Field  string
	Reason string
}

func (e *InvalidLineInputError) Error() string {
	return fmt.Sprintf("pricing: invalid %s: %s", e.Field, e.Reason)
}

var hundred = decimal.NewFromInt(100)

// ComputeLine derives unit price, discount amount and line total for a line.
//
//  1. unitPrice = costPrice * (1 + markup/100), rounded to 2dp here only.
//  2. gross = unitPrice * qty.
//  3. discount: percentage of gross (value clamped to [0,100]) or a fixed
//     amount capped at gross. Capping the fixed amount is intentional; it is
//     distinct from the input validation below, which rejects instead of
//     clamping.
//  4. lineTotal = gross - discount, rounded to 2dp.
func ComputeLine(line Line) (Result, error) {
	if line.CostPrice.IsNegative() {
		return Result{}, &InvalidLineInputError{Field: "costPrice", Reason: "must not be negative"}
	}
	if line.MarkupPercent.IsNegative() {
		return Result{}, &InvalidLineInputError{Field: "markupPercentage", Reason: "must not be negative"}
	}
	if line.Qty < 1 {
		return Result{}, &InvalidLineInputError{Field: "quantity", Reason: "must be at least 1"}
	}
	if line.Discount.Value.IsNegative() {
		return Result{}, &InvalidLineInputError{Field: "discountValue", Reason: "must not be negative"}
	}

	unitPrice := common.Round2(line.CostPrice.Mul(hundred.Add(line.MarkupPercent)).Div(hundred))
	gross := unitPrice.Mul(decimal.NewFromInt(int64(line.Qty)))

	var discountAmount decimal.Decimal
	switch line.Discount.Type {
	case DiscountPercentage:
		pct := line.Discount.Value
		if pct.GreaterThan(hundred) {
			pct = hundred
		}
		discountAmount = common.Round2(gross.Mul(pct).Div(hundred))
	case DiscountAmount:
		discountAmount = common.Round2(line.Discount.Value)
		if discountAmount.GreaterThan(gross) {
			discountAmount = gross
		}
	default:
		discountAmount = decimal.Zero
	}

	return Result{
		UnitPrice:      unitPrice,
		GrossValue:     gross,
		DiscountAmount: discountAmount,
		LineTotal:      common.Round2(gross.Sub(discountAmount)),
	}, nil
}
