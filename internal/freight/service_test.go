package freight

import (
	"context"
	"testing"
)

type stubRateSource struct {
	tiers []RateTier
	calls int
}

func (s *stubRateSource) GetRateTiers(_ context.Context, _ Method, _ string) ([]RateTier, error) {
	s.calls++
	return s.tiers, nil
}

func TestEstimateMatchesTier(t *testing.T) {
	source := &stubRateSource{tiers: []RateTier{
		{Method: MethodAir, MinWeightKg: dec("0"), MaxWeightKg: dec("50"), BaseRate: dec("30"), PerKgRate: dec("1.5")},
	}}
	svc := &Service{Rates: source}

	packages := []Package{{Length: dec("50"), Width: dec("40"), Height: dec("30"), WeightKg: dec("10"), Qty: 2}}
	est, err := svc.Estimate(context.Background(), packages, MethodAir, "west-my")
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if !est.Weights.Chargeable.Equal(dec("24.00")) {
		t.Fatalf("chargeable: expected 24.00, got %s", est.Weights.Chargeable)
	}
	if est.Cost == nil {
		t.Fatal("expected a cost")
	}
	// 30 + 1.5 * 24 = 66.00.
	if !est.Cost.Equal(dec("66.00")) {
		t.Fatalf("cost: expected 66.00, got %s", est.Cost)
	}
	if est.Tier == nil || !est.Tier.BaseRate.Equal(dec("30")) {
		t.Fatalf("unexpected tier: %+v", est.Tier)
	}
}

func TestEstimateNoRateMatch(t *testing.T) {
	source := &stubRateSource{tiers: []RateTier{
		{Method: MethodAir, MinWeightKg: dec("0"), MaxWeightKg: dec("5"), BaseRate: dec("10")},
	}}
	svc := &Service{Rates: source}

	packages := []Package{{Length: dec("50"), Width: dec("40"), Height: dec("30"), WeightKg: dec("10"), Qty: 2}}
	est, err := svc.Estimate(context.Background(), packages, MethodAir, "west-my")
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if est.Cost != nil {
		t.Fatalf("expected nil cost, got %s", est.Cost)
	}
	if est.Tier != nil {
		t.Fatal("expected nil tier")
	}
}

func TestEstimatePickupSkipsLookup(t *testing.T) {
	source := &stubRateSource{}
	svc := &Service{Rates: source}

	packages := []Package{{Length: dec("10"), Width: dec("10"), Height: dec("10"), WeightKg: dec("3"), Qty: 1}}
	est, err := svc.Estimate(context.Background(), packages, MethodPickup, "")
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if source.calls != 0 {
		t.Fatal("pickup must not consult the fee schedule")
	}
	if est.Cost != nil {
		t.Fatal("pickup has no estimated cost")
	}
	if !est.Weights.Actual.Equal(dec("3.00")) {
		t.Fatalf("actual: expected 3.00, got %s", est.Weights.Actual)
	}
}
