package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	redis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/mkhairi/backend-quotation/internal/common"
	"github.com/mkhairi/backend-quotation/internal/currency"
	"github.com/mkhairi/backend-quotation/internal/db"
)

type stubQueries struct {
	products map[uuid.UUID]db.Product
	calls    int
}

func (s *stubQueries) GetProductByID(_ context.Context, id pgtype.UUID) (db.Product, error) {
	s.calls++
	p, ok := s.products[uuid.UUID(id.Bytes)]
	if !ok {
		return db.Product{}, pgx.ErrNoRows
	}
	return p, nil
}

func TestGetCost(t *testing.T) {
	productID := uuid.New()
	queries := &stubQueries{products: map[uuid.UUID]db.Product{
		productID: {
			ID:        pgtype.UUID{Bytes: productID, Valid: true},
			Name:      "Contactor 3P 40A",
			Brand:     pgtype.Text{String: "Schneider", Valid: true},
			Category:  pgtype.Text{String: "Switchgear", Valid: true},
			CostCents: 12550,
			ListCents: 18900,
			Currency:  "MYR",
		},
	}}
	svc := &Service{Q: queries}

	cost, err := svc.GetCost(context.Background(), productID)
	if err != nil {
		t.Fatalf("get cost: %v", err)
	}
	if !cost.CostPrice.Equal(decimal.RequireFromString("125.50")) {
		t.Fatalf("cost price: expected 125.50, got %s", cost.CostPrice)
	}
	if cost.Brand != "Schneider" || cost.Category != "Switchgear" {
		t.Fatalf("unexpected brand/category: %q %q", cost.Brand, cost.Category)
	}
	if cost.Currency != currency.MYR {
		t.Fatalf("currency: expected MYR, got %s", cost.Currency)
	}
}

func TestGetCostNotFound(t *testing.T) {
	svc := &Service{Q: &stubQueries{}}

	_, err := svc.GetCost(context.Background(), uuid.New())
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestGetCostUsesCache(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	productID := uuid.New()
	queries := &stubQueries{products: map[uuid.UUID]db.Product{
		productID: {
			ID:        pgtype.UUID{Bytes: productID, Valid: true},
			Name:      "Relay base",
			CostCents: 2000,
			Currency:  "MYR",
		},
	}}
	svc := &Service{Q: queries, Cache: common.NewCache(client, time.Minute)}

	if _, err := svc.GetCost(context.Background(), productID); err != nil {
		t.Fatalf("first get: %v", err)
	}
	if _, err := svc.GetCost(context.Background(), productID); err != nil {
		t.Fatalf("second get: %v", err)
	}
	if queries.calls != 1 {
		t.Fatalf("expected a single product query, got %d", queries.calls)
	}
}
