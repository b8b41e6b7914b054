package quote

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mkhairi/backend-quotation/internal/currency"
	"github.com/mkhairi/backend-quotation/internal/discount"
	"github.com/mkhairi/backend-quotation/internal/freight"
	"github.com/mkhairi/backend-quotation/internal/pricing"
	"github.com/mkhairi/backend-quotation/internal/tax"
)

// Incoterm is a standardized trade term carried as descriptive metadata.
// It has no effect on any calculation.
type Incoterm string

const (
	IncotermEXW Incoterm = "EXW"
	IncotermFOB Incoterm = "FOB"
	IncotermCIF Incoterm = "CIF"
	IncotermDAP Incoterm = "DAP"
	IncotermDDP Incoterm = "DDP"
)

// ParseIncoterm validates an incoterm. The empty string is allowed and means
// none was specified.
func ParseIncoterm(s string) (Incoterm, error) {
	switch Incoterm(strings.ToUpper(strings.TrimSpace(s))) {
	case "":
		return "", nil
	case IncotermEXW:
		return IncotermEXW, nil
	case IncotermFOB:
		return IncotermFOB, nil
	case IncotermCIF:
		return IncotermCIF, nil
	case IncotermDAP:
		return IncotermDAP, nil
	case IncotermDDP:
		return IncotermDDP, nil
	default:
		return "", fmt.Errorf("quote: invalid incoterm %q", s)
	}
}

// Flag marks an unresolved pricing input so the grand total is visibly
// flagged instead of silently defaulting.
type Flag string

const (
	FlagNoTierData          Flag = "NO_TIER_DATA"
	FlagUnknownCurrencyPair Flag = "UNKNOWN_CURRENCY_PAIR"
	FlagNoShippingRateMatch Flag = "NO_SHIPPING_RATE_MATCH"
)

// ShippingPolicy is the document-level shipping configuration. A manual cost
// override always beats the freight estimate; when neither exists and
// shipping is included, the breakdown is flagged.
type ShippingPolicy struct {
	Method          freight.Method
	ZoneID          string
	Incoterm        Incoterm
	IncludedInTotal bool
	CostOverride    *decimal.Decimal
	EstimatedCost   *decimal.Decimal
}

// Line is one quotation line as edited by the user. Derived pricing lives in
// the totals breakdown, not here.
type Line struct {
	ID            uuid.UUID
	ProductID     *uuid.UUID
	Description   string
	CostPrice     decimal.Decimal
	MarkupPercent decimal.Decimal
	Qty           int
	Discount      pricing.Discount
}

// Quotation is the full document the totals pipeline consumes. Exactly one
// discount policy and one tax policy apply to the whole document.
type Quotation struct {
	ID       uuid.UUID
	Number   string
	Currency currency.Code
	TierName string
	Discount discount.Policy
	Tax      tax.Policy
	Shipping ShippingPolicy
	Lines    []Line
}

// LineBreakdown is the derived pricing of one line.
type LineBreakdown struct {
	LineID         uuid.UUID
	UnitPrice      decimal.Decimal
	DiscountAmount decimal.Decimal
	LineTotal      decimal.Decimal
}

// TotalsBreakdown is the complete derived money view of a quotation. It is
// always built from scratch and replaced as a whole; no caller ever observes
// a partially updated breakdown.
type TotalsBreakdown struct {
	Lines          []LineBreakdown
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxableAmount  decimal.Decimal
	TaxAmount      decimal.Decimal
	ShippingCost   decimal.Decimal
	GrandTotal     decimal.Decimal
	Flags          []Flag
}

// HasFlag reports whether the breakdown carries the given flag.
func (b TotalsBreakdown) HasFlag(flag Flag) bool {
	for _, f := range b.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

func appendFlag(flags []Flag, flag Flag) []Flag {
	for _, f := range flags {
		if f == flag {
			return flags
		}
	}
	return append(flags, flag)
}
