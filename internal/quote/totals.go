package quote

import (
	"github.com/shopspring/decimal"

	"github.com/mkhairi/backend-quotation/internal/discount"
	"github.com/mkhairi/backend-quotation/internal/freight"
	"github.com/mkhairi/backend-quotation/internal/pricing"
	"github.com/mkhairi/backend-quotation/internal/tax"
)

// Aggregator derives a TotalsBreakdown from a quotation. It holds no mutable
// state, so a single value is safe for concurrent use.
type Aggregator struct {
	Tax tax.Engine
}

func NewAggregator(engine tax.Engine) Aggregator {
	return Aggregator{Tax: engine}
}

// ComputeTotals runs the pricing pipeline in its fixed order: per-line
// pricing, subtotal, document discount, taxable amount, tax, shipping, grand
// total. The same quotation always yields the same breakdown.
func (a Aggregator) ComputeTotals(q Quotation) (TotalsBreakdown, error) {
	breakdown := TotalsBreakdown{
		Lines:          make([]LineBreakdown, 0, len(q.Lines)),
		Subtotal:       decimal.Zero,
		DiscountAmount: decimal.Zero,
		TaxableAmount:  decimal.Zero,
		TaxAmount:      decimal.Zero,
		ShippingCost:   decimal.Zero,
		GrandTotal:     decimal.Zero,
	}

	for _, line := range q.Lines {
		res, err := pricing.ComputeLine(pricing.Line{
			CostPrice:     line.CostPrice,
			MarkupPercent: line.MarkupPercent,
			Qty:           line.Qty,
			Discount:      line.Discount,
		})
		if err != nil {
			return TotalsBreakdown{}, err
		}
		breakdown.Lines = append(breakdown.Lines, LineBreakdown{
			LineID:         line.ID,
			UnitPrice:      res.UnitPrice,
			DiscountAmount: res.DiscountAmount,
			LineTotal:      res.LineTotal,
		})
		breakdown.Subtotal = breakdown.Subtotal.Add(res.LineTotal)
	}

	breakdown.DiscountAmount = discount.Compute(breakdown.Subtotal, q.Discount)

	taxable := breakdown.Subtotal.Sub(breakdown.DiscountAmount)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}
	breakdown.TaxableAmount = taxable

	taxed := a.Tax.Compute(taxable, q.Tax)
	breakdown.TaxAmount = taxed.TaxAmount

	breakdown.ShippingCost, breakdown.Flags = shippingCost(q.Shipping, breakdown.Flags)

	breakdown.GrandTotal = taxed.GrandAfterTax.Add(breakdown.ShippingCost)
	return breakdown, nil
}

// shippingCost applies the shipping policy: a manual override wins, then the
// freight estimate, and a missing value with shipping included flags the
// breakdown rather than pricing it at zero silently.
func shippingCost(policy ShippingPolicy, flags []Flag) (decimal.Decimal, []Flag) {
	if !policy.IncludedInTotal {
		return decimal.Zero, flags
	}
	if policy.CostOverride != nil {
		return policy.CostOverride.Round(2), flags
	}
	if policy.EstimatedCost != nil {
		return policy.EstimatedCost.Round(2), flags
	}
	if policy.Method != "" && policy.Method != freight.MethodPickup {
		flags = appendFlag(flags, FlagNoShippingRateMatch)
	}
	return decimal.Zero, flags
}
