package markup

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5"
	redis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/mkhairi/backend-quotation/internal/common"
	"github.com/mkhairi/backend-quotation/internal/db"
)

type stubQueries struct {
	tiers      map[string]db.MarkupTier
	brands     map[int64][]db.TierBrandMarkup
	categories map[int64][]db.TierCategoryMarkup
	tierCalls  int
}

func (s *stubQueries) GetMarkupTierByName(_ context.Context, name string) (db.MarkupTier, error) {
	s.tierCalls++
	tier, ok := s.tiers[name]
	if !ok {
		return db.MarkupTier{}, pgx.ErrNoRows
	}
	return tier, nil
}

func (s *stubQueries) ListTierBrandMarkups(_ context.Context, tierID int64) ([]db.TierBrandMarkup, error) {
	return s.brands[tierID], nil
}

func (s *stubQueries) ListTierCategoryMarkups(_ context.Context, tierID int64) ([]db.TierCategoryMarkup, error) {
	return s.categories[tierID], nil
}

func retailQueries() *stubQueries {
	return &stubQueries{
		tiers: map[string]db.MarkupTier{
			"retail": {ID: 1, Name: "retail", DefaultMarkupBps: 3500},
		},
		brands: map[int64][]db.TierBrandMarkup{
			1: {{TierID: 1, Brand: "Siemens", MarkupBps: 1500}},
		},
		categories: map[int64][]db.TierCategoryMarkup{
			1: {{TierID: 1, Category: "Cables", MarkupBps: 3000}},
		},
	}
}

func TestGetMarkupTableAssemblesTable(t *testing.T) {
	svc := &Service{Q: retailQueries()}

	table, err := svc.GetMarkupTable(context.Background(), "retail")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if table == nil {
		t.Fatal("expected a table")
	}
	if !table.Default.Equal(decimal.NewFromInt(35)) {
		t.Fatalf("default: expected 35, got %s", table.Default)
	}
	if len(table.Brands) != 1 || !table.Brands[0].Markup.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("unexpected brand overrides: %+v", table.Brands)
	}
	if len(table.Categories) != 1 || !table.Categories[0].Markup.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("unexpected category overrides: %+v", table.Categories)
	}
}

func TestGetMarkupTableUnknownTierIsNil(t *testing.T) {
	svc := &Service{Q: retailQueries()}

	table, err := svc.GetMarkupTable(context.Background(), "vip")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if table != nil {
		t.Fatalf("expected nil table for unknown tier, got %+v", table)
	}
}

func TestGetMarkupTableUsesCache(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	queries := retailQueries()
	svc := &Service{Q: queries, Cache: common.NewCache(client, time.Minute)}

	first, err := svc.GetMarkupTable(context.Background(), "retail")
	if err != nil {
		t.Fatalf("first get: %v", err)
	}
	second, err := svc.GetMarkupTable(context.Background(), "retail")
	if err != nil {
		t.Fatalf("second get: %v", err)
	}

	if queries.tierCalls != 1 {
		t.Fatalf("expected a single tier query, got %d", queries.tierCalls)
	}
	if !first.Default.Equal(second.Default) || len(first.Brands) != len(second.Brands) {
		t.Fatal("cached table differs from the freshly built one")
	}
}
