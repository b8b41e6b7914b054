package freight

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/mkhairi/backend-quotation/internal/common"
)

// ErrNoRateMatch signals that no rate tier covers the chargeable weight.
// It is non-fatal: the shipping cost is left for manual entry rather than
// silently defaulting to zero.
var ErrNoRateMatch = errors.New("freight: no rate tier matches chargeable weight")

// RateTier is one row of the carrier fee schedule: a flat base plus a per-kg
// rate for chargeable weights within [MinWeightKg, MaxWeightKg].
type RateTier struct {
	Method      Method
	ZoneID      string
	MinWeightKg decimal.Decimal
	MaxWeightKg decimal.Decimal
	BaseRate    decimal.Decimal
	PerKgRate   decimal.Decimal
}

// Contains reports whether the chargeable weight falls within the tier band.
func (t RateTier) Contains(chargeable decimal.Decimal) bool {
	return chargeable.GreaterThanOrEqual(t.MinWeightKg) && chargeable.LessThanOrEqual(t.MaxWeightKg)
}

// RateSource fetches the fee schedule for a method and zone.
type RateSource interface {
	GetRateTiers(ctx context.Context, method Method, zoneID string) ([]RateTier, error)
}

// LookupRate selects the tier whose weight band contains the chargeable
// weight. The first matching tier wins; ErrNoRateMatch is returned when none
// does.
func LookupRate(chargeable decimal.Decimal, tiers []RateTier) (RateTier, error) {
	for _, tier := range tiers {
		if tier.Contains(chargeable) {
			return tier, nil
		}
	}
	return RateTier{}, ErrNoRateMatch
}

// EstimatedCost computes baseRate + perKgRate × chargeableWeight, rounded to
// two decimals.
func EstimatedCost(tier RateTier, chargeable decimal.Decimal) decimal.Decimal {
	return common.Round2(tier.BaseRate.Add(tier.PerKgRate.Mul(chargeable)))
}
