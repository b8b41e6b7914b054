package freight

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mkhairi/backend-quotation/internal/db"
	"github.com/mkhairi/backend-quotation/internal/obs"
)

// Estimate is the outcome of a freight estimation. Cost is nil when no rate
// tier matched; the caller must fall back to manual entry.
type Estimate struct {
	Weights Weights
	Cost    *decimal.Decimal
	Tier    *RateTier
}

type queryProvider interface {
	ListShippingRateTiers(ctx context.Context, arg db.ListShippingRateTiersParams) ([]db.ShippingRateTier, error)
}

// DBRateSource adapts the database fee schedule to the RateSource interface.
type DBRateSource struct {
	Q queryProvider
}

// GetRateTiers loads the fee schedule for a method and zone.
func (s DBRateSource) GetRateTiers(ctx context.Context, method Method, zoneID string) ([]RateTier, error) {
	if s.Q == nil {
		return nil, errors.New("freight rate queries not configured")
	}
	rows, err := s.Q.ListShippingRateTiers(ctx, db.ListShippingRateTiersParams{Method: string(method), ZoneID: zoneID})
	if err != nil {
		return nil, fmt.Errorf("list shipping rate tiers: %w", err)
	}
	tiers := make([]RateTier, 0, len(rows))
	for _, row := range rows {
		tiers = append(tiers, RateTier{
			Method:      Method(row.Method),
			ZoneID:      row.ZoneID,
			MinWeightKg: decimal.New(row.MinWeightGram, -3),
			MaxWeightKg: decimal.New(row.MaxWeightGram, -3),
			BaseRate:    decimal.New(row.BaseRateCents, -2),
			PerKgRate:   decimal.New(row.PerKgRateCents, -2),
		})
	}
	return tiers, nil
}

// Service combines weight computation with rate lookup.
type Service struct {
	Rates RateSource
}

// Estimate computes weights for the packages and looks up the matching rate
// tier. Pickup skips rate lookup entirely: there is no freight to estimate.
// A missing rate tier is reported through a nil Cost, not an error.
func (s *Service) Estimate(ctx context.Context, packages []Package, method Method, zoneID string) (Estimate, error) {
	weights := ComputeWeights(packages, method)
	result := Estimate{Weights: weights}
	if method == MethodPickup {
		return result, nil
	}
	if s == nil || s.Rates == nil {
		return Estimate{}, errors.New("freight rate source not configured")
	}
	tiers, err := s.Rates.GetRateTiers(ctx, method, zoneID)
	if err != nil {
		return Estimate{}, err
	}
	tier, err := LookupRate(weights.Chargeable, tiers)
	if err != nil {
		if errors.Is(err, ErrNoRateMatch) {
			countEstimate(method, "no_rate_match")
			return result, nil
		}
		return Estimate{}, err
	}
	cost := EstimatedCost(tier, weights.Chargeable)
	result.Cost = &cost
	result.Tier = &tier
	countEstimate(method, "ok")
	return result, nil
}

func countEstimate(method Method, result string) {
	if obs.FreightEstimateTotal != nil {
		obs.FreightEstimateTotal.WithLabelValues(string(method), result).Inc()
	}
}
