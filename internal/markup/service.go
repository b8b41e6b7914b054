package markup

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mkhairi/backend-quotation/internal/common"
	"github.com/mkhairi/backend-quotation/internal/db"
)

// TableSource fetches the markup table for a tier. A nil table with nil error
// means no data exists for the tier.
type TableSource interface {
	GetMarkupTable(ctx context.Context, tier string) (*Table, error)
}

type queryProvider interface {
	GetMarkupTierByName(ctx context.Context, name string) (db.MarkupTier, error)
	ListTierBrandMarkups(ctx context.Context, tierID int64) ([]db.TierBrandMarkup, error)
	ListTierCategoryMarkups(ctx context.Context, tierID int64) ([]db.TierCategoryMarkup, error)
}

// Service assembles markup tables from the database with a Redis-backed JSON
// cache in front.
type Service struct {
	Q     queryProvider
	Cache *common.Cache
}

type cachedTable struct {
	Tier       string           `json:"tier"`
	DefaultBps int32            `json:"defaultBps"`
	Brands     []cachedOverride `json:"brands"`
	Categories []cachedOverride `json:"categories"`
}

type cachedOverride struct {
	Name string `json:"name"`
	Bps  int32  `json:"bps"`
}

// GetMarkupTable loads the full table for a tier, or nil when the tier is
// unknown.
func (s *Service) GetMarkupTable(ctx context.Context, tier string) (*Table, error) {
	if s == nil || s.Q == nil {
		return nil, errors.New("markup queries not configured")
	}
	key := cacheKey(tier)
	if s.Cache != nil {
		var cached cachedTable
		if ok, err := s.Cache.GetJSON(ctx, key, &cached); err == nil && ok {
			return fromCached(cached), nil
		}
	}
	row, err := s.Q.GetMarkupTierByName(ctx, tier)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get markup tier: %w", err)
	}
	brands, err := s.Q.ListTierBrandMarkups(ctx, row.ID)
	if err != nil {
		return nil, fmt.Errorf("list brand markups: %w", err)
	}
	categories, err := s.Q.ListTierCategoryMarkups(ctx, row.ID)
	if err != nil {
		return nil, fmt.Errorf("list category markups: %w", err)
	}
	cached := cachedTable{Tier: row.Name, DefaultBps: row.DefaultMarkupBps}
	for _, b := range brands {
		cached.Brands = append(cached.Brands, cachedOverride{Name: b.Brand, Bps: b.MarkupBps})
	}
	for _, c := range categories {
		cached.Categories = append(cached.Categories, cachedOverride{Name: c.Category, Bps: c.MarkupBps})
	}
	if s.Cache != nil {
		_ = s.Cache.SetJSON(ctx, key, cached)
	}
	return fromCached(cached), nil
}

func fromCached(c cachedTable) *Table {
	table := &Table{Tier: c.Tier, Default: common.FromBps(c.DefaultBps)}
	for _, b := range c.Brands {
		table.Brands = append(table.Brands, BrandMarkup{Brand: b.Name, Markup: common.FromBps(b.Bps)})
	}
	for _, cat := range c.Categories {
		table.Categories = append(table.Categories, CategoryMarkup{Category: cat.Name, Markup: common.FromBps(cat.Bps)})
	}
	return table
}

func cacheKey(tier string) string {
	return "markup:tier:" + tier
}
