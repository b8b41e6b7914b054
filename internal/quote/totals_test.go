package quote

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mkhairi/backend-quotation/internal/discount"
	"github.com/mkhairi/backend-quotation/internal/freight"
	"github.com/mkhairi/backend-quotation/internal/pricing"
	"github.com/mkhairi/backend-quotation/internal/tax"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func testAggregator() Aggregator {
	return NewAggregator(tax.NewEngine(dec("8")))
}

func sampleQuotation() Quotation {
	return Quotation{
		ID:       uuid.New(),
		Number:   "Q-TEST0001",
		Discount: discount.Policy{Type: discount.TypePercentage, Value: dec("10")},
		Tax:      tax.Policy{Type: tax.TypeFlatRate},
		Lines: []Line{
			{
				ID:            uuid.New(),
				Description:   "Contactor 3P 40A",
				CostPrice:     dec("100"),
				MarkupPercent: dec("25"),
				Qty:           3,
				Discount:      pricing.Discount{Type: pricing.DiscountPercentage, Value: dec("10")},
			},
			{
				ID:            uuid.New(),
				Description:   "Relay base",
				CostPrice:     dec("20"),
				MarkupPercent: dec("50"),
				Qty:           2,
				Discount:      pricing.Discount{Type: pricing.DiscountNone},
			},
		},
	}
}

func TestComputeTotalsPipeline(t *testing.T) {
	q := sampleQuotation()
	b, err := testAggregator().ComputeTotals(q)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}

	if len(b.Lines) != 2 {
		t.Fatalf("expected 2 line breakdowns, got %d", len(b.Lines))
	}
	if b.Lines[0].LineID != q.Lines[0].ID {
		t.Fatal("line breakdown order does not follow input order")
	}
	// Line 1: unit 125.00, gross 375.00, 10% -> 37.50, total 337.50.
	if !b.Lines[0].LineTotal.Equal(dec("337.50")) {
		t.Fatalf("line 1 total: expected 337.50, got %s", b.Lines[0].LineTotal)
	}
	// Line 2: unit 30.00, total 60.00.
	if !b.Lines[1].LineTotal.Equal(dec("60.00")) {
		t.Fatalf("line 2 total: expected 60.00, got %s", b.Lines[1].LineTotal)
	}

	if !b.Subtotal.Equal(dec("397.50")) {
		t.Fatalf("subtotal: expected 397.50, got %s", b.Subtotal)
	}
	if !b.DiscountAmount.Equal(dec("39.75")) {
		t.Fatalf("discount: expected 39.75, got %s", b.DiscountAmount)
	}
	if !b.TaxableAmount.Equal(dec("357.75")) {
		t.Fatalf("taxable: expected 357.75, got %s", b.TaxableAmount)
	}
	if !b.TaxAmount.Equal(dec("28.62")) {
		t.Fatalf("tax: expected 28.62, got %s", b.TaxAmount)
	}
	if !b.ShippingCost.IsZero() {
		t.Fatalf("shipping: expected 0, got %s", b.ShippingCost)
	}
	if !b.GrandTotal.Equal(dec("386.37")) {
		t.Fatalf("grand: expected 386.37, got %s", b.GrandTotal)
	}
	if len(b.Flags) != 0 {
		t.Fatalf("unexpected flags: %v", b.Flags)
	}
}

func TestComputeTotalsDeterministic(t *testing.T) {
	q := sampleQuotation()
	agg := testAggregator()
	first, err := agg.ComputeTotals(q)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	second, err := agg.ComputeTotals(q)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if !first.GrandTotal.Equal(second.GrandTotal) || !first.Subtotal.Equal(second.Subtotal) {
		t.Fatalf("recompute drifted: %s vs %s", first.GrandTotal, second.GrandTotal)
	}
}

func TestComputeTotalsTaxableNeverNegative(t *testing.T) {
	q := sampleQuotation()
	q.Discount = discount.Policy{Type: discount.TypeFixed, Value: dec("9999")}
	b, err := testAggregator().ComputeTotals(q)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if !b.TaxableAmount.IsZero() {
		t.Fatalf("taxable: expected 0, got %s", b.TaxableAmount)
	}
	if !b.TaxAmount.IsZero() {
		t.Fatalf("tax on zero taxable: expected 0, got %s", b.TaxAmount)
	}
	if !b.GrandTotal.IsZero() {
		t.Fatalf("grand: expected 0, got %s", b.GrandTotal)
	}
}

func TestComputeTotalsShippingOverrideWins(t *testing.T) {
	q := sampleQuotation()
	q.Shipping = ShippingPolicy{
		Method:          freight.MethodAir,
		IncludedInTotal: true,
		CostOverride:    decPtr("55.555"),
		EstimatedCost:   decPtr("66.00"),
	}
	b, err := testAggregator().ComputeTotals(q)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if !b.ShippingCost.Equal(dec("55.56")) {
		t.Fatalf("shipping: expected override 55.56, got %s", b.ShippingCost)
	}
}

func TestComputeTotalsShippingEstimate(t *testing.T) {
	q := sampleQuotation()
	q.Shipping = ShippingPolicy{
		Method:          freight.MethodSea,
		IncludedInTotal: true,
		EstimatedCost:   decPtr("120"),
	}
	b, err := testAggregator().ComputeTotals(q)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if !b.ShippingCost.Equal(dec("120.00")) {
		t.Fatalf("shipping: expected 120.00, got %s", b.ShippingCost)
	}
	// Tax base excludes shipping; shipping is added after tax.
	want := dec("386.37").Add(dec("120.00"))
	if !b.GrandTotal.Equal(want) {
		t.Fatalf("grand: expected %s, got %s", want, b.GrandTotal)
	}
}

func TestComputeTotalsShippingNotIncluded(t *testing.T) {
	q := sampleQuotation()
	q.Shipping = ShippingPolicy{
		Method:          freight.MethodAir,
		IncludedInTotal: false,
		EstimatedCost:   decPtr("120"),
	}
	b, err := testAggregator().ComputeTotals(q)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if !b.ShippingCost.IsZero() {
		t.Fatalf("shipping: expected 0 when excluded, got %s", b.ShippingCost)
	}
	if b.HasFlag(FlagNoShippingRateMatch) {
		t.Fatal("excluded shipping must not flag the breakdown")
	}
}

func TestComputeTotalsShippingMissingCostFlags(t *testing.T) {
	q := sampleQuotation()
	q.Shipping = ShippingPolicy{
		Method:          freight.MethodCourier,
		IncludedInTotal: true,
	}
	b, err := testAggregator().ComputeTotals(q)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if !b.ShippingCost.IsZero() {
		t.Fatalf("shipping: expected 0, got %s", b.ShippingCost)
	}
	if !b.HasFlag(FlagNoShippingRateMatch) {
		t.Fatal("expected NO_SHIPPING_RATE_MATCH flag")
	}
}

func TestComputeTotalsPickupNeverFlags(t *testing.T) {
	q := sampleQuotation()
	q.Shipping = ShippingPolicy{
		Method:          freight.MethodPickup,
		IncludedInTotal: true,
	}
	b, err := testAggregator().ComputeTotals(q)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if b.HasFlag(FlagNoShippingRateMatch) {
		t.Fatal("pickup must not flag a missing rate")
	}
}

func TestComputeTotalsEmptyQuotation(t *testing.T) {
	q := Quotation{Tax: tax.Policy{Type: tax.TypeFlatRate}}
	b, err := testAggregator().ComputeTotals(q)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if !b.Subtotal.IsZero() || !b.GrandTotal.IsZero() {
		t.Fatalf("empty quotation: expected zero totals, got subtotal %s grand %s", b.Subtotal, b.GrandTotal)
	}
}

func TestComputeTotalsInvalidLine(t *testing.T) {
	q := sampleQuotation()
	q.Lines[0].Qty = 0
	if _, err := testAggregator().ComputeTotals(q); err == nil {
		t.Fatal("expected error for invalid line quantity")
	}
}
