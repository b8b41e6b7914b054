package db

import (
	"github.com/jackc/pgx/v5/pgtype"
)

// Monetary columns are stored in minor units (cents), percentages in basis
// points, and weights in grams, following the smallest-unit convention used
// across the schema.

// Product is a catalog row carrying the cost basis for quoting.
type Product struct {
	ID         pgtype.UUID
	Name       string
	Brand      pgtype.Text
	Category   pgtype.Text
	CostCents  int64
	ListCents  int64
	Currency   string
	CreatedAt  pgtype.Timestamptz
	UpdatedAt  pgtype.Timestamptz
}

// MarkupTier is a client classification with a default markup.
type MarkupTier struct {
	ID               int64
	Name             string
	DefaultMarkupBps int32
}

// TierBrandMarkup overrides the tier default for one brand.
type TierBrandMarkup struct {
	TierID    int64
	Brand     string
	MarkupBps int32
	Position  int32
}

// TierCategoryMarkup overrides the tier default for one category.
type TierCategoryMarkup struct {
	TierID    int64
	Category  string
	MarkupBps int32
	Position  int32
}

// CurrencyRate is a stored conversion rate scaled by 1e6.
type CurrencyRate struct {
	FromCode   string
	ToCode     string
	RateMicros int64
	UpdatedAt  pgtype.Timestamptz
}

// ShippingRateTier is one band of a carrier fee schedule.
type ShippingRateTier struct {
	ID             int64
	Method         string
	ZoneID         string
	MinWeightGram  int64
	MaxWeightGram  int64
	BaseRateCents  int64
	PerKgRateCents int64
}

// Quote is the persisted quotation header, including the last computed
// totals breakdown.
type Quote struct {
	ID       pgtype.UUID
	Number   string
	Currency string
	TierName pgtype.Text
	// DiscountValue is basis points for percentage policies, cents for fixed.
	DiscountType          string
	DiscountValue         int64
	TaxType               string
	TaxRateBps            int32
	TaxInclusive          bool
	ShippingMethod        pgtype.Text
	ShippingZoneID        pgtype.Text
	ShippingIncoterm      pgtype.Text
	ShippingIncluded      bool
	ShippingOverrideCents pgtype.Int8
	ShippingEstimateCents pgtype.Int8
	SubtotalCents         int64
	DiscountAmountCents   int64
	TaxableAmountCents    int64
	TaxAmountCents        int64
	ShippingCostCents     int64
	GrandTotalCents       int64
	PricingFlags          []string
	CreatedAt             pgtype.Timestamptz
	UpdatedAt             pgtype.Timestamptz
}

// QuoteLine is one persisted quotation line with its derived pricing.
type QuoteLine struct {
	ID          pgtype.UUID
	QuoteID     pgtype.UUID
	ProductID   pgtype.UUID
	Description string
	CostCents   int64
	MarkupBps   int32
	Qty         int32
	// DiscountValue is basis points for percentage discounts, cents for amounts.
	DiscountType   string
	DiscountValue  int64
	UnitPriceCents int64
	DiscountCents  int64
	LineTotalCents int64
	Position       int32
	CreatedAt      pgtype.Timestamptz
	UpdatedAt      pgtype.Timestamptz
}
