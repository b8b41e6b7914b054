package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const getProductByID = `
SELECT id, name, brand, category, cost_cents, list_cents, currency, created_at, updated_at
FROM products
WHERE id = $1
`

// GetProductByID fetches one catalog product.
func (q *Queries) GetProductByID(ctx context.Context, id pgtype.UUID) (Product, error) {
	row := q.db.QueryRow(ctx, getProductByID, id)
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Brand, &p.Category, &p.CostCents, &p.ListCents, &p.Currency, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

const getMarkupTierByName = `
SELECT id, name, default_markup_bps
FROM markup_tiers
WHERE lower(name) = lower($1)
`

// GetMarkupTierByName fetches a markup tier by its case-insensitive name.
func (q *Queries) GetMarkupTierByName(ctx context.Context, name string) (MarkupTier, error) {
	row := q.db.QueryRow(ctx, getMarkupTierByName, name)
	var t MarkupTier
	err := row.Scan(&t.ID, &t.Name, &t.DefaultMarkupBps)
	return t, err
}

const listTierBrandMarkups = `
SELECT tier_id, brand, markup_bps, position
FROM tier_brand_markups
WHERE tier_id = $1
ORDER BY position
`

// ListTierBrandMarkups returns the ordered brand overrides for a tier.
func (q *Queries) ListTierBrandMarkups(ctx context.Context, tierID int64) ([]TierBrandMarkup, error) {
	rows, err := q.db.Query(ctx, listTierBrandMarkups, tierID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TierBrandMarkup
	for rows.Next() {
		var item TierBrandMarkup
		if err := rows.Scan(&item.TierID, &item.Brand, &item.MarkupBps, &item.Position); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

const listTierCategoryMarkups = `
SELECT tier_id, category, markup_bps, position
FROM tier_category_markups
WHERE tier_id = $1
ORDER BY position
`

// ListTierCategoryMarkups returns the ordered category overrides for a tier.
func (q *Queries) ListTierCategoryMarkups(ctx context.Context, tierID int64) ([]TierCategoryMarkup, error) {
	rows, err := q.db.Query(ctx, listTierCategoryMarkups, tierID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TierCategoryMarkup
	for rows.Next() {
		var item TierCategoryMarkup
		if err := rows.Scan(&item.TierID, &item.Category, &item.MarkupBps, &item.Position); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// GetCurrencyRateParams identifies a currency pair.
type GetCurrencyRateParams struct {
	FromCode string
	ToCode   string
}

const getCurrencyRate = `
SELECT from_code, to_code, rate_micros, updated_at
FROM currency_rates
WHERE from_code = $1 AND to_code = $2
`

// GetCurrencyRate fetches the stored rate for a pair.
func (q *Queries) GetCurrencyRate(ctx context.Context, arg GetCurrencyRateParams) (CurrencyRate, error) {
	row := q.db.QueryRow(ctx, getCurrencyRate, arg.FromCode, arg.ToCode)
	var r CurrencyRate
	err := row.Scan(&r.FromCode, &r.ToCode, &r.RateMicros, &r.UpdatedAt)
	return r, err
}

const listCurrencyRates = `
SELECT from_code, to_code, rate_micros, updated_at
FROM currency_rates
ORDER BY from_code, to_code
`

// ListCurrencyRates returns every stored rate.
func (q *Queries) ListCurrencyRates(ctx context.Context) ([]CurrencyRate, error) {
	rows, err := q.db.Query(ctx, listCurrencyRates)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CurrencyRate
	for rows.Next() {
		var item CurrencyRate
		if err := rows.Scan(&item.FromCode, &item.ToCode, &item.RateMicros, &item.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpsertCurrencyRateParams carries a refreshed rate.
type UpsertCurrencyRateParams struct {
	FromCode   string
	ToCode     string
	RateMicros int64
}

const upsertCurrencyRate = `
INSERT INTO currency_rates (from_code, to_code, rate_micros, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (from_code, to_code)
DO UPDATE SET rate_micros = EXCLUDED.rate_micros, updated_at = now()
`

// UpsertCurrencyRate inserts or replaces the rate for a pair.
func (q *Queries) UpsertCurrencyRate(ctx context.Context, arg UpsertCurrencyRateParams) error {
	_, err := q.db.Exec(ctx, upsertCurrencyRate, arg.FromCode, arg.ToCode, arg.RateMicros)
	return err
}

// ListShippingRateTiersParams selects a fee schedule.
type ListShippingRateTiersParams struct {
	Method string
	ZoneID string
}

const listShippingRateTiers = `
SELECT id, method, zone_id, min_weight_gram, max_weight_gram, base_rate_cents, per_kg_rate_cents
FROM shipping_rate_tiers
WHERE method = $1 AND zone_id = $2
ORDER BY min_weight_gram
`

// ListShippingRateTiers returns the fee schedule for a method and zone in
// ascending weight order.
func (q *Queries) ListShippingRateTiers(ctx context.Context, arg ListShippingRateTiersParams) ([]ShippingRateTier, error) {
	rows, err := q.db.Query(ctx, listShippingRateTiers, arg.Method, arg.ZoneID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ShippingRateTier
	for rows.Next() {
		var item ShippingRateTier
		if err := rows.Scan(&item.ID, &item.Method, &item.ZoneID, &item.MinWeightGram, &item.MaxWeightGram, &item.BaseRateCents, &item.PerKgRateCents); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
