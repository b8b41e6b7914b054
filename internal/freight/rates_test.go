package freight

import (
	"errors"
	"testing"
)

func TestLookupRateBandMatch(t *testing.T) {
	tiers := []RateTier{
		{MinWeightKg: dec("0"), MaxWeightKg: dec("10"), BaseRate: dec("15"), PerKgRate: dec("2")},
		{MinWeightKg: dec("10.01"), MaxWeightKg: dec("50"), BaseRate: dec("30"), PerKgRate: dec("1.50")},
	}

	tier, err := LookupRate(dec("24"), tiers)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !tier.BaseRate.Equal(dec("30")) {
		t.Fatalf("expected second band, got base %s", tier.BaseRate)
	}

	// Boundary weights are inclusive on both ends.
	tier, err = LookupRate(dec("10"), tiers)
	if err != nil {
		t.Fatalf("lookup boundary: %v", err)
	}
	if !tier.BaseRate.Equal(dec("15")) {
		t.Fatalf("expected first band at boundary, got base %s", tier.BaseRate)
	}
}

func TestLookupRateFirstMatchWins(t *testing.T) {
	tiers := []RateTier{
		{MinWeightKg: dec("0"), MaxWeightKg: dec("100"), BaseRate: dec("10")},
		{MinWeightKg: dec("0"), MaxWeightKg: dec("100"), BaseRate: dec("99")},
	}
	tier, err := LookupRate(dec("5"), tiers)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !tier.BaseRate.Equal(dec("10")) {
		t.Fatalf("expected first tier, got base %s", tier.BaseRate)
	}
}

func TestLookupRateNoMatch(t *testing.T) {
	tiers := []RateTier{
		{MinWeightKg: dec("0"), MaxWeightKg: dec("10"), BaseRate: dec("15")},
	}
	_, err := LookupRate(dec("500"), tiers)
	if !errors.Is(err, ErrNoRateMatch) {
		t.Fatalf("expected ErrNoRateMatch, got %v", err)
	}
}

func TestEstimatedCostRounds(t *testing.T) {
	tier := RateTier{BaseRate: dec("30"), PerKgRate: dec("1.5")}
	cost := EstimatedCost(tier, dec("24"))
	if !cost.Equal(dec("66.00")) {
		t.Fatalf("expected 66.00, got %s", cost)
	}

	tier = RateTier{BaseRate: dec("10.005"), PerKgRate: dec("0.333")}
	cost = EstimatedCost(tier, dec("3"))
	// 10.005 + 0.999 = 11.004 rounds to 11.00.
	if !cost.Equal(dec("11.00")) {
		t.Fatalf("expected 11.00, got %s", cost)
	}
}
