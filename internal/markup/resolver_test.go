package markup

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func pct(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func testTable() *Table {
	return &Table{
		Tier:    "wholesale",
		Default: pct(20),
		Brands: []BrandMarkup{
			{Brand: "Siemens", Markup: pct(15)},
			{Brand: "Omron", Markup: pct(18)},
		},
		Categories: []CategoryMarkup{
			{Category: "Cables", Markup: pct(30)},
			{Category: "Sensors", Markup: pct(25)},
		},
	}
}

func TestResolveNilTable(t *testing.T) {
	got, err := Resolve(nil, "Siemens", "Cables")
	if !errors.Is(err, ErrNoTierData) {
		t.Fatalf("expected ErrNoTierData, got %v", err)
	}
	if !got.IsZero() {
		t.Fatalf("expected zero markup, got %s", got)
	}
}

func TestResolveCategoryBeatsBrand(t *testing.T) {
	got, err := Resolve(testTable(), "Siemens", "Cables")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !got.Equal(pct(30)) {
		t.Fatalf("expected category override 30, got %s", got)
	}
}

func TestResolveBrandOverride(t *testing.T) {
	got, err := Resolve(testTable(), "siemens", "Unlisted")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !got.Equal(pct(15)) {
		t.Fatalf("expected brand override 15, got %s", got)
	}
}

func TestResolveDefault(t *testing.T) {
	got, err := Resolve(testTable(), "Unknown", "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !got.Equal(pct(20)) {
		t.Fatalf("expected tier default 20, got %s", got)
	}
}

func TestResolveFirstMatchWins(t *testing.T) {
	table := testTable()
	table.Categories = append([]CategoryMarkup{{Category: "Cables", Markup: pct(99)}}, table.Categories...)
	got, err := Resolve(table, "", "CABLES")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !got.Equal(pct(99)) {
		t.Fatalf("expected first matching override 99, got %s", got)
	}
}
