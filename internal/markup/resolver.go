package markup

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNoTierData signals that no markup table exists for the requested tier.
// It is non-fatal: the resolved markup falls back to zero and callers may
// switch to manual pricing.
var ErrNoTierData = errors.New("markup: no tier data")

// BrandMarkup overrides the tier default for a specific brand.
type BrandMarkup struct {
	Brand  string
	Markup decimal.Decimal
}

// CategoryMarkup overrides the tier default for a specific category.
type CategoryMarkup struct {
	Category string
	Markup   decimal.Decimal
}

// Table holds the markup rules for one client tier. Override lists are
// ordered; the first match wins.
type Table struct {
	Tier       string
	Default    decimal.Decimal
	Brands     []BrandMarkup
	Categories []CategoryMarkup
}

// Resolve returns the markup percentage for a (tier, brand, category)
// combination. Precedence: category override, then brand override, then the
// tier default. Matching is case-insensitive. A nil table resolves to zero
// together with ErrNoTierData.
func Resolve(table *Table, brand, category string) (decimal.Decimal, error) {
	if table == nil {
		return decimal.Zero, ErrNoTierData
	}
	if category = strings.TrimSpace(category); category != "" {
		for _, entry := range table.Categories {
			if strings.EqualFold(entry.Category, category) {
				return entry.Markup, nil
			}
		}
	}
	if brand = strings.TrimSpace(brand); brand != "" {
		for _, entry := range table.Brands {
			if strings.EqualFold(entry.Brand, brand) {
				return entry.Markup, nil
			}
		}
	}
	return table.Default, nil
}
