package quote

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/mkhairi/backend-quotation/internal/catalog"
	"github.com/mkhairi/backend-quotation/internal/common"
	"github.com/mkhairi/backend-quotation/internal/currency"
	"github.com/mkhairi/backend-quotation/internal/markup"
	"github.com/mkhairi/backend-quotation/internal/tax"
)

type stubCosts struct {
	costs map[uuid.UUID]catalog.Cost
}

func (s stubCosts) GetCost(_ context.Context, id uuid.UUID) (catalog.Cost, error) {
	c, ok := s.costs[id]
	if !ok {
		return catalog.Cost{}, catalog.ErrProductNotFound
	}
	return c, nil
}

type stubTiers struct {
	tables map[string]*markup.Table
}

func (s stubTiers) GetMarkupTable(_ context.Context, tier string) (*markup.Table, error) {
	return s.tables[tier], nil
}

type stubRates struct {
	rates map[string]decimal.Decimal
}

func (s stubRates) GetRate(_ context.Context, from, to currency.Code) (decimal.Decimal, error) {
	rate, ok := s.rates[string(from)+"/"+string(to)]
	if !ok {
		return decimal.Zero, currency.ErrUnknownCurrencyPair
	}
	return rate, nil
}

func previewService(costs stubCosts, tiers stubTiers, rates stubRates) *Service {
	return &Service{
		Costs: costs,
		Tiers: tiers,
		Rates: rates,
		Agg:   NewAggregator(tax.NewEngine(decimal.NewFromInt(8))),
		Log:   zerolog.Nop(),
	}
}

func TestPreviewExplicitInputs(t *testing.T) {
	svc := previewService(stubCosts{}, stubTiers{}, stubRates{})

	b, err := svc.Preview(context.Background(), PreviewInput{
		Currency: "MYR",
		Lines: []LineInput{{
			Description:   "Contactor 3P 40A",
			CostPrice:     decPtr("100"),
			MarkupPercent: decPtr("25"),
			Qty:           3,
			DiscountType:  "percentage",
			DiscountValue: dec("10"),
		}},
		Policies: PoliciesInput{TaxType: "flatRate"},
	})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}

	if !b.Subtotal.Equal(dec("337.50")) {
		t.Fatalf("subtotal: expected 337.50, got %s", b.Subtotal)
	}
	if !b.TaxAmount.Equal(dec("27.00")) {
		t.Fatalf("tax: expected 27.00, got %s", b.TaxAmount)
	}
	if !b.GrandTotal.Equal(dec("364.50")) {
		t.Fatalf("grand: expected 364.50, got %s", b.GrandTotal)
	}
	if len(b.Flags) != 0 {
		t.Fatalf("unexpected flags: %v", b.Flags)
	}
}

func TestPreviewResolvesCatalogCostWithConversion(t *testing.T) {
	productID := uuid.New()
	svc := previewService(
		stubCosts{costs: map[uuid.UUID]catalog.Cost{
			productID: {
				ProductID: productID,
				Name:      "PLC module",
				Brand:     "Siemens",
				Category:  "Automation",
				CostPrice: dec("100"),
				Currency:  currency.USD,
			},
		}},
		stubTiers{tables: map[string]*markup.Table{
			"retail": {Tier: "retail", Default: dec("20")},
		}},
		stubRates{rates: map[string]decimal.Decimal{
			"USD/MYR": dec("4.65"),
		}},
	)

	b, err := svc.Preview(context.Background(), PreviewInput{
		Currency: "MYR",
		TierName: "retail",
		Lines: []LineInput{{
			ProductID: &productID,
			Qty:       1,
		}},
	})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}

	// Cost 100 USD at 4.65 = 465.00 MYR, 20% markup, unit 558.00.
	if !b.Subtotal.Equal(dec("558.00")) {
		t.Fatalf("subtotal: expected 558.00, got %s", b.Subtotal)
	}
	if len(b.Flags) != 0 {
		t.Fatalf("unexpected flags: %v", b.Flags)
	}
}

func TestPreviewUnknownCurrencyPairFlags(t *testing.T) {
	productID := uuid.New()
	svc := previewService(
		stubCosts{costs: map[uuid.UUID]catalog.Cost{
			productID: {
				ProductID: productID,
				Name:      "Cable drum",
				CostPrice: dec("50"),
				Currency:  currency.EUR,
			},
		}},
		stubTiers{},
		stubRates{},
	)

	b, err := svc.Preview(context.Background(), PreviewInput{
		Currency: "MYR",
		Lines: []LineInput{{
			ProductID:     &productID,
			MarkupPercent: decPtr("10"),
			Qty:           2,
		}},
	})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}

	if !b.HasFlag(FlagUnknownCurrencyPair) {
		t.Fatal("expected UNKNOWN_CURRENCY_PAIR flag")
	}
	// Unconverted cost is used as-is: 50 * 1.10 = 55.00, * 2 = 110.00.
	if !b.Subtotal.Equal(dec("110.00")) {
		t.Fatalf("subtotal: expected 110.00, got %s", b.Subtotal)
	}
}

func TestPreviewMissingTierFlags(t *testing.T) {
	productID := uuid.New()
	svc := previewService(
		stubCosts{costs: map[uuid.UUID]catalog.Cost{
			productID: {
				ProductID: productID,
				Name:      "Breaker",
				CostPrice: dec("80"),
				Currency:  currency.MYR,
			},
		}},
		stubTiers{},
		stubRates{},
	)

	b, err := svc.Preview(context.Background(), PreviewInput{
		Currency: "MYR",
		TierName: "unknown-tier",
		Lines: []LineInput{{
			ProductID: &productID,
			Qty:       1,
		}},
	})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}

	if !b.HasFlag(FlagNoTierData) {
		t.Fatal("expected NO_TIER_DATA flag")
	}
	// Zero markup fallback keeps the cost price as the unit price.
	if !b.Subtotal.Equal(dec("80.00")) {
		t.Fatalf("subtotal: expected 80.00, got %s", b.Subtotal)
	}
}

func TestPreviewProductNotFound(t *testing.T) {
	svc := previewService(stubCosts{}, stubTiers{}, stubRates{})
	missing := uuid.New()

	_, err := svc.Preview(context.Background(), PreviewInput{
		Currency: "MYR",
		Lines:    []LineInput{{ProductID: &missing, Qty: 1}},
	})
	var appErr *common.AppError
	if !errors.As(err, &appErr) || appErr.HTTPStatus != 404 {
		t.Fatalf("expected 404 AppError, got %v", err)
	}
}

func TestPreviewRejectsInvalidInputs(t *testing.T) {
	svc := previewService(stubCosts{}, stubTiers{}, stubRates{})

	if _, err := svc.Preview(context.Background(), PreviewInput{Currency: "IDR"}); err == nil {
		t.Fatal("expected error for unsupported currency")
	}

	_, err := svc.Preview(context.Background(), PreviewInput{
		Currency: "MYR",
		Lines: []LineInput{{
			CostPrice:    decPtr("10"),
			Qty:          1,
			DiscountType: "bogus",
		}},
	})
	if err == nil {
		t.Fatal("expected error for invalid line discount type")
	}

	_, err = svc.Preview(context.Background(), PreviewInput{
		Currency: "MYR",
		Lines:    []LineInput{{CostPrice: decPtr("10"), Qty: 0}},
	})
	if err == nil {
		t.Fatal("expected error for non-positive quantity")
	}
}
