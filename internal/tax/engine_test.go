package tax

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputeExclusiveFlatRate(t *testing.T) {
	engine := NewEngine(dec("8"))
	res := engine.Compute(dec("1000"), Policy{Type: TypeFlatRate})
	if !res.TaxAmount.Equal(dec("80.00")) {
		t.Fatalf("expected tax 80.00, got %s", res.TaxAmount)
	}
	if !res.GrandAfterTax.Equal(dec("1080.00")) {
		t.Fatalf("expected grand 1080.00, got %s", res.GrandAfterTax)
	}
}

func TestComputeInclusiveFlatRate(t *testing.T) {
	engine := NewEngine(dec("8"))
	res := engine.Compute(dec("1000"), Policy{Type: TypeFlatRate, Inclusive: true})
	if !res.TaxAmount.Equal(dec("74.07")) {
		t.Fatalf("expected extracted tax 74.07, got %s", res.TaxAmount)
	}
	// Inclusive tax never changes the amount itself.
	if !res.GrandAfterTax.Equal(dec("1000")) {
		t.Fatalf("expected grand unchanged at 1000, got %s", res.GrandAfterTax)
	}
}

func TestComputeNone(t *testing.T) {
	engine := NewEngine(decimal.Zero)
	res := engine.Compute(dec("500"), Policy{Type: TypeNone})
	if !res.TaxAmount.IsZero() {
		t.Fatalf("expected zero tax, got %s", res.TaxAmount)
	}
	if !res.GrandAfterTax.Equal(dec("500")) {
		t.Fatalf("expected grand 500, got %s", res.GrandAfterTax)
	}
}

func TestComputeCustomRate(t *testing.T) {
	engine := NewEngine(dec("8"))
	res := engine.Compute(dec("200"), Policy{Type: TypeCustom, Rate: dec("6")})
	if !res.TaxAmount.Equal(dec("12.00")) {
		t.Fatalf("expected tax 12.00, got %s", res.TaxAmount)
	}
	// Negative custom rates are treated as zero.
	res = engine.Compute(dec("200"), Policy{Type: TypeCustom, Rate: dec("-5")})
	if !res.TaxAmount.IsZero() {
		t.Fatalf("expected zero tax for negative rate, got %s", res.TaxAmount)
	}
	// Rates above 100 clamp.
	res = engine.Compute(dec("200"), Policy{Type: TypeCustom, Rate: dec("150")})
	if !res.TaxAmount.Equal(dec("200.00")) {
		t.Fatalf("expected clamped tax 200.00, got %s", res.TaxAmount)
	}
}

func TestNewEngineDefaultsSSTRate(t *testing.T) {
	engine := NewEngine(decimal.Zero)
	res := engine.Compute(dec("100"), Policy{Type: TypeFlatRate})
	if !res.TaxAmount.Equal(dec("8.00")) {
		t.Fatalf("expected default SST 8.00, got %s", res.TaxAmount)
	}
}

func TestParseTypeSSTSynonym(t *testing.T) {
	got, err := ParseType("sst")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != TypeFlatRate {
		t.Fatalf("expected flatRate, got %s", got)
	}
}
