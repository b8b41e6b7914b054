package quote

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/mkhairi/backend-quotation/internal/catalog"
	"github.com/mkhairi/backend-quotation/internal/common"
	"github.com/mkhairi/backend-quotation/internal/currency"
	"github.com/mkhairi/backend-quotation/internal/db"
	"github.com/mkhairi/backend-quotation/internal/discount"
	"github.com/mkhairi/backend-quotation/internal/freight"
	"github.com/mkhairi/backend-quotation/internal/markup"
	"github.com/mkhairi/backend-quotation/internal/obs"
	"github.com/mkhairi/backend-quotation/internal/pricing"
	"github.com/mkhairi/backend-quotation/internal/tax"
)

var (
	ErrQuoteNotFound = errors.New("quote: not found")
	ErrLineNotFound  = errors.New("quote: line not found")
)

// Service owns quotation persistence and keeps the stored totals in sync
// with the lines and policies. Every mutation recomputes the full breakdown
// inside the same transaction, so readers never see totals that disagree
// with the lines they were derived from.
type Service struct {
	Pool    *pgxpool.Pool
	Q       *db.Queries
	Costs   catalog.CostSource
	Tiers   markup.TableSource
	Rates   currency.RateSource
	Freight *freight.Service
	Agg     Aggregator
	Log     zerolog.Logger
}

// CreateInput is the minimal header for a new quotation.
type CreateInput struct {
	Number   string
	Currency string
	TierName string
}

// LineInput is one line as submitted by the client. CostPrice and
// MarkupPercent are optional: when absent they are resolved from the catalog
// and the client tier.
type LineInput struct {
	ProductID     *uuid.UUID
	Description   string
	CostPrice     *decimal.Decimal
	MarkupPercent *decimal.Decimal
	Qty           int
	DiscountType  string
	DiscountValue decimal.Decimal
}

// PoliciesInput replaces the document-level discount, tax and shipping
// policies in one call. Packages, when present, drive a fresh freight
// estimate for the stored shipping cost.
type PoliciesInput struct {
	DiscountType     string
	DiscountValue    decimal.Decimal
	TaxType          string
	TaxRate          decimal.Decimal
	TaxInclusive     bool
	ShippingMethod   string
	ShippingZoneID   string
	Incoterm         string
	ShippingIncluded bool
	ShippingOverride *decimal.Decimal
	Packages         []freight.Package
}

// View is a quotation together with its totals breakdown. Flags raised while
// resolving the current mutation are merged into the breakdown before it is
// returned, so an unresolved input is always visible next to the grand total.
type View struct {
	Quotation Quotation
	Totals    TotalsBreakdown
}

// Summary is one row of a quotation listing.
type Summary struct {
	ID         uuid.UUID
	Number     string
	Currency   currency.Code
	GrandTotal decimal.Decimal
	Flags      []Flag
}

// Create inserts an empty quotation. A blank number gets a generated one.
func (s *Service) Create(ctx context.Context, in CreateInput) (View, error) {
	code, err := currency.ParseCode(in.Currency)
	if err != nil {
		return View{}, invalidInput("currency", err)
	}
	number := strings.TrimSpace(in.Number)
	if number == "" {
		number = generateNumber()
	}
	tier := pgtype.Text{}
	if t := strings.TrimSpace(in.TierName); t != "" {
		tier = pgtype.Text{String: t, Valid: true}
	}
	row, err := s.Q.CreateQuote(ctx, db.CreateQuoteParams{
		Number:   number,
		Currency: string(code),
		TierName: tier,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return View{}, common.NewAppError("QUOTE_NUMBER_TAKEN", "quote number already exists", 409, err)
		}
		return View{}, fmt.Errorf("create quote: %w", err)
	}
	return viewFromRows(row, nil), nil
}

// Get returns a quotation with its stored breakdown.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (View, error) {
	row, err := s.Q.GetQuoteByID(ctx, toUUID(id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return View{}, ErrQuoteNotFound
		}
		return View{}, fmt.Errorf("get quote: %w", err)
	}
	lines, err := s.Q.ListQuoteLines(ctx, row.ID)
	if err != nil {
		return View{}, fmt.Errorf("list quote lines: %w", err)
	}
	return viewFromRows(row, lines), nil
}

// List pages through quotations, newest first.
func (s *Service) List(ctx context.Context, limit, offset int32) ([]Summary, int64, error) {
	rows, err := s.Q.ListQuotes(ctx, db.ListQuotesParams{Limit: limit, Offset: offset})
	if err != nil {
		return nil, 0, fmt.Errorf("list quotes: %w", err)
	}
	total, err := s.Q.CountQuotes(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("count quotes: %w", err)
	}
	out := make([]Summary, 0, len(rows))
	for _, row := range rows {
		out = append(out, Summary{
			ID:         fromUUID(row.ID),
			Number:     row.Number,
			Currency:   currency.Code(row.Currency),
			GrandTotal: common.FromCents(row.GrandTotalCents),
			Flags:      flagsFromStrings(row.PricingFlags),
		})
	}
	return out, total, nil
}

// Delete removes a quotation and its lines.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	affected, err := s.Q.DeleteQuote(ctx, toUUID(id))
	if err != nil {
		return fmt.Errorf("delete quote: %w", err)
	}
	if affected == 0 {
		return ErrQuoteNotFound
	}
	return nil
}

// SetPolicies replaces the document policies and recomputes totals. When
// packages are supplied the freight estimate is refreshed as part of the
// same call.
func (s *Service) SetPolicies(ctx context.Context, id uuid.UUID, in PoliciesInput) (View, error) {
	params, flags, err := s.policiesParams(ctx, id, in)
	if err != nil {
		return View{}, err
	}

	var view View
	err = s.withTx(ctx, func(qtx *db.Queries) error {
		if err := qtx.UpdateQuotePolicies(ctx, params); err != nil {
			return fmt.Errorf("update quote policies: %w", err)
		}
		v, err := s.recompute(ctx, qtx, params.ID)
		view = v
		return err
	})
	if err != nil {
		return View{}, err
	}
	view.Totals.Flags = mergeFlags(view.Totals.Flags, flags)
	return view, nil
}

// AddLine appends a line, resolving cost and markup where the client left
// them out, and recomputes totals.
func (s *Service) AddLine(ctx context.Context, quoteID uuid.UUID, in LineInput) (View, error) {
	header, err := s.Q.GetQuoteByID(ctx, toUUID(quoteID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return View{}, ErrQuoteNotFound
		}
		return View{}, fmt.Errorf("get quote: %w", err)
	}

	resolved, flags, err := s.resolveLine(ctx, currency.Code(header.Currency), textValue(header.TierName), in)
	if err != nil {
		return View{}, err
	}

	var view View
	err = s.withTx(ctx, func(qtx *db.Queries) error {
		if _, err := qtx.InsertQuoteLine(ctx, db.InsertQuoteLineParams{
			QuoteID:        header.ID,
			ProductID:      resolved.productID,
			Description:    resolved.description,
			CostCents:      common.ToCents(resolved.cost),
			MarkupBps:      common.ToBps(resolved.markup),
			Qty:            int32(resolved.qty),
			DiscountType:   string(resolved.discount.Type),
			DiscountValue:  lineDiscountToStored(resolved.discount),
			UnitPriceCents: common.ToCents(resolved.result.UnitPrice),
			DiscountCents:  common.ToCents(resolved.result.DiscountAmount),
			LineTotalCents: common.ToCents(resolved.result.LineTotal),
		}); err != nil {
			return fmt.Errorf("insert quote line: %w", err)
		}
		v, err := s.recompute(ctx, qtx, header.ID)
		view = v
		return err
	})
	if err != nil {
		return View{}, err
	}
	view.Totals.Flags = mergeFlags(view.Totals.Flags, flags)
	return view, nil
}

// UpdateLine replaces a line's inputs, re-resolving anything left out, and
// recomputes totals.
func (s *Service) UpdateLine(ctx context.Context, quoteID, lineID uuid.UUID, in LineInput) (View, error) {
	header, err := s.Q.GetQuoteByID(ctx, toUUID(quoteID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return View{}, ErrQuoteNotFound
		}
		return View{}, fmt.Errorf("get quote: %w", err)
	}

	resolved, flags, err := s.resolveLine(ctx, currency.Code(header.Currency), textValue(header.TierName), in)
	if err != nil {
		return View{}, err
	}

	var view View
	err = s.withTx(ctx, func(qtx *db.Queries) error {
		if _, err := qtx.UpdateQuoteLine(ctx, db.UpdateQuoteLineParams{
			ID:             toUUID(lineID),
			QuoteID:        header.ID,
			Description:    resolved.description,
			CostCents:      common.ToCents(resolved.cost),
			MarkupBps:      common.ToBps(resolved.markup),
			Qty:            int32(resolved.qty),
			DiscountType:   string(resolved.discount.Type),
			DiscountValue:  lineDiscountToStored(resolved.discount),
			UnitPriceCents: common.ToCents(resolved.result.UnitPrice),
			DiscountCents:  common.ToCents(resolved.result.DiscountAmount),
			LineTotalCents: common.ToCents(resolved.result.LineTotal),
		}); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrLineNotFound
			}
			return fmt.Errorf("update quote line: %w", err)
		}
		v, err := s.recompute(ctx, qtx, header.ID)
		view = v
		return err
	})
	if err != nil {
		return View{}, err
	}
	view.Totals.Flags = mergeFlags(view.Totals.Flags, flags)
	return view, nil
}

// RemoveLine deletes a line and recomputes totals.
func (s *Service) RemoveLine(ctx context.Context, quoteID, lineID uuid.UUID) (View, error) {
	var view View
	err := s.withTx(ctx, func(qtx *db.Queries) error {
		affected, err := qtx.DeleteQuoteLine(ctx, db.DeleteQuoteLineParams{
			ID:      toUUID(lineID),
			QuoteID: toUUID(quoteID),
		})
		if err != nil {
			return fmt.Errorf("delete quote line: %w", err)
		}
		if affected == 0 {
			return ErrLineNotFound
		}
		v, err := s.recompute(ctx, qtx, toUUID(quoteID))
		view = v
		return err
	})
	if err != nil {
		return View{}, err
	}
	return view, nil
}

// PreviewInput is a complete in-memory quotation for stateless pricing.
type PreviewInput struct {
	Currency string
	TierName string
	Lines    []LineInput
	Policies PoliciesInput
}

// Preview prices a quotation without persisting anything. It resolves lines
// exactly like the stored path does, so the preview matches what saving the
// same inputs would produce.
func (s *Service) Preview(ctx context.Context, in PreviewInput) (TotalsBreakdown, error) {
	code, err := currency.ParseCode(in.Currency)
	if err != nil {
		return TotalsBreakdown{}, invalidInput("currency", err)
	}

	q := Quotation{Currency: code, TierName: strings.TrimSpace(in.TierName)}
	var flags []Flag
	for _, li := range in.Lines {
		resolved, lineFlags, err := s.resolveLine(ctx, code, q.TierName, li)
		if err != nil {
			return TotalsBreakdown{}, err
		}
		flags = mergeFlags(flags, lineFlags)
		q.Lines = append(q.Lines, Line{
			ID:            uuid.New(),
			Description:   resolved.description,
			CostPrice:     resolved.cost,
			MarkupPercent: resolved.markup,
			Qty:           resolved.qty,
			Discount:      resolved.discount,
		})
	}

	q.Discount, q.Tax, q.Shipping, err = s.parsePolicies(in.Policies)
	if err != nil {
		return TotalsBreakdown{}, err
	}
	estFlags, err := s.applyEstimate(ctx, &q.Shipping, in.Policies.Packages)
	if err != nil {
		return TotalsBreakdown{}, err
	}
	flags = mergeFlags(flags, estFlags)

	breakdown, err := s.Agg.ComputeTotals(q)
	if err != nil {
		return TotalsBreakdown{}, err
	}
	breakdown.Flags = mergeFlags(breakdown.Flags, flags)
	countRecompute("preview")
	return breakdown, nil
}

type resolvedLine struct {
	productID   pgtype.UUID
	description string
	cost        decimal.Decimal
	markup      decimal.Decimal
	qty         int
	discount    pricing.Discount
	result      pricing.Result
}

// resolveLine fills in whatever the client left implicit: catalog cost
// converted into the quote currency, and tier markup for the product's brand
// and category. Missing reference data degrades to a flag, never to a
// silently wrong price.
func (s *Service) resolveLine(ctx context.Context, quoteCurrency currency.Code, tier string, in LineInput) (resolvedLine, []Flag, error) {
	var (
		out   resolvedLine
		flags []Flag
	)

	dt, err := pricing.ParseDiscountType(in.DiscountType)
	if err != nil {
		return out, nil, invalidInput("discountType", err)
	}
	out.discount = pricing.Discount{Type: dt, Value: in.DiscountValue}
	out.qty = in.Qty
	out.description = strings.TrimSpace(in.Description)

	var product *catalog.Cost
	if in.ProductID != nil {
		c, err := s.Costs.GetCost(ctx, *in.ProductID)
		if err != nil {
			if errors.Is(err, catalog.ErrProductNotFound) {
				return out, nil, common.NewAppError("PRODUCT_NOT_FOUND", "product not found", 404, err)
			}
			return out, nil, fmt.Errorf("resolve product cost: %w", err)
		}
		product = &c
		out.productID = toUUID(c.ProductID)
		if out.description == "" {
			out.description = c.Name
		}
	}

	switch {
	case in.CostPrice != nil:
		out.cost = *in.CostPrice
	case product != nil:
		out.cost = product.CostPrice
		if product.Currency != quoteCurrency {
			rate, err := s.Rates.GetRate(ctx, product.Currency, quoteCurrency)
			switch {
			case errors.Is(err, currency.ErrUnknownCurrencyPair):
				flags = appendFlag(flags, FlagUnknownCurrencyPair)
			case err != nil:
				return out, nil, fmt.Errorf("resolve currency rate: %w", err)
			default:
				out.cost = common.Round2(out.cost.Mul(rate))
			}
		}
	default:
		return out, nil, invalidInput("costPrice", errors.New("cost price or product required"))
	}

	if in.MarkupPercent != nil {
		out.markup = *in.MarkupPercent
	} else {
		out.markup, flags = s.resolveMarkup(ctx, tier, product, flags)
	}

	result, err := pricing.ComputeLine(pricing.Line{
		CostPrice:     out.cost,
		MarkupPercent: out.markup,
		Qty:           out.qty,
		Discount:      out.discount,
	})
	if err != nil {
		var inv *pricing.InvalidLineInputError
		if errors.As(err, &inv) {
			return out, nil, invalidInput(inv.Field, err)
		}
		return out, nil, err
	}
	out.result = result
	return out, flags, nil
}

func (s *Service) resolveMarkup(ctx context.Context, tier string, product *catalog.Cost, flags []Flag) (decimal.Decimal, []Flag) {
	if tier == "" {
		countFallback("markup", "no_tier")
		return decimal.Zero, appendFlag(flags, FlagNoTierData)
	}
	table, err := s.Tiers.GetMarkupTable(ctx, tier)
	if err != nil {
		s.Log.Warn().Err(err).Str("tier", tier).Msg("markup table lookup failed")
		countFallback("markup", "lookup_error")
		return decimal.Zero, appendFlag(flags, FlagNoTierData)
	}
	brand, category := "", ""
	if product != nil {
		brand, category = product.Brand, product.Category
	}
	pct, err := markup.Resolve(table, brand, category)
	if err != nil {
		countFallback("markup", "no_tier_data")
		return decimal.Zero, appendFlag(flags, FlagNoTierData)
	}
	return pct, flags
}

// policiesParams validates policy input and folds in a fresh freight
// estimate when packages were supplied.
func (s *Service) policiesParams(ctx context.Context, id uuid.UUID, in PoliciesInput) (db.UpdateQuotePoliciesParams, []Flag, error) {
	docDiscount, taxPolicy, shipping, err := s.parsePolicies(in)
	if err != nil {
		return db.UpdateQuotePoliciesParams{}, nil, err
	}
	flags, err := s.applyEstimate(ctx, &shipping, in.Packages)
	if err != nil {
		return db.UpdateQuotePoliciesParams{}, nil, err
	}

	params := db.UpdateQuotePoliciesParams{
		ID:               toUUID(id),
		DiscountType:     string(docDiscount.Type),
		DiscountValue:    docDiscountToStored(docDiscount),
		TaxType:          string(taxPolicy.Type),
		TaxRateBps:       common.ToBps(taxPolicy.Rate),
		TaxInclusive:     taxPolicy.Inclusive,
		ShippingIncluded: shipping.IncludedInTotal,
	}
	if shipping.Method != "" {
		params.ShippingMethod = pgtype.Text{String: string(shipping.Method), Valid: true}
	}
	if shipping.ZoneID != "" {
		params.ShippingZoneID = pgtype.Text{String: shipping.ZoneID, Valid: true}
	}
	if shipping.Incoterm != "" {
		params.ShippingIncoterm = pgtype.Text{String: string(shipping.Incoterm), Valid: true}
	}
	if shipping.CostOverride != nil {
		params.ShippingOverrideCents = pgtype.Int8{Int64: common.ToCents(*shipping.CostOverride), Valid: true}
	}
	if shipping.EstimatedCost != nil {
		params.ShippingEstimateCents = pgtype.Int8{Int64: common.ToCents(*shipping.EstimatedCost), Valid: true}
	}
	return params, flags, nil
}

func (s *Service) parsePolicies(in PoliciesInput) (discount.Policy, tax.Policy, ShippingPolicy, error) {
	dt, err := discount.ParseType(in.DiscountType)
	if err != nil {
		return discount.Policy{}, tax.Policy{}, ShippingPolicy{}, invalidInput("discountType", err)
	}
	tt, err := tax.ParseType(in.TaxType)
	if err != nil {
		return discount.Policy{}, tax.Policy{}, ShippingPolicy{}, invalidInput("taxType", err)
	}
	incoterm, err := ParseIncoterm(in.Incoterm)
	if err != nil {
		return discount.Policy{}, tax.Policy{}, ShippingPolicy{}, invalidInput("incoterm", err)
	}
	var method freight.Method
	if strings.TrimSpace(in.ShippingMethod) != "" {
		method, err = freight.ParseMethod(in.ShippingMethod)
		if err != nil {
			return discount.Policy{}, tax.Policy{}, ShippingPolicy{}, invalidInput("shippingMethod", err)
		}
	}
	shipping := ShippingPolicy{
		Method:          method,
		ZoneID:          strings.TrimSpace(in.ShippingZoneID),
		Incoterm:        incoterm,
		IncludedInTotal: in.ShippingIncluded,
		CostOverride:    in.ShippingOverride,
	}
	return discount.Policy{Type: dt, Value: in.DiscountValue},
		tax.Policy{Type: tt, Rate: in.TaxRate, Inclusive: in.TaxInclusive},
		shipping, nil
}

// applyEstimate runs the freight estimator and stores the result on the
// shipping policy. A schedule gap is not an error here; the totals pipeline
// flags it when shipping is part of the total.
func (s *Service) applyEstimate(ctx context.Context, shipping *ShippingPolicy, packages []freight.Package) ([]Flag, error) {
	if len(packages) == 0 || shipping.Method == "" || shipping.Method == freight.MethodPickup {
		return nil, nil
	}
	est, err := s.Freight.Estimate(ctx, packages, shipping.Method, shipping.ZoneID)
	if err != nil {
		return nil, fmt.Errorf("freight estimate: %w", err)
	}
	if est.Cost == nil {
		countFallback("freight", "no_rate_match")
		return []Flag{FlagNoShippingRateMatch}, nil
	}
	shipping.EstimatedCost = est.Cost
	return nil, nil
}

// recompute rebuilds the breakdown from the stored rows and persists it.
// Must run inside the mutation's transaction.
func (s *Service) recompute(ctx context.Context, qtx *db.Queries, id pgtype.UUID) (View, error) {
	row, err := qtx.GetQuoteByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return View{}, ErrQuoteNotFound
		}
		return View{}, fmt.Errorf("reload quote: %w", err)
	}
	lines, err := qtx.ListQuoteLines(ctx, id)
	if err != nil {
		return View{}, fmt.Errorf("list quote lines: %w", err)
	}

	quotation := quotationFromRows(row, lines)
	breakdown, err := s.Agg.ComputeTotals(quotation)
	if err != nil {
		return View{}, fmt.Errorf("compute totals: %w", err)
	}

	if err := qtx.UpdateQuoteTotals(ctx, db.UpdateQuoteTotalsParams{
		ID:                  id,
		SubtotalCents:       common.ToCents(breakdown.Subtotal),
		DiscountAmountCents: common.ToCents(breakdown.DiscountAmount),
		TaxableAmountCents:  common.ToCents(breakdown.TaxableAmount),
		TaxAmountCents:      common.ToCents(breakdown.TaxAmount),
		ShippingCostCents:   common.ToCents(breakdown.ShippingCost),
		GrandTotalCents:     common.ToCents(breakdown.GrandTotal),
		PricingFlags:        flagsToStrings(breakdown.Flags),
	}); err != nil {
		return View{}, fmt.Errorf("update quote totals: %w", err)
	}
	countRecompute("mutation")
	return View{Quotation: quotation, Totals: breakdown}, nil
}

func (s *Service) withTx(ctx context.Context, fn func(qtx *db.Queries) error) error {
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(s.Q.WithTx(tx)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// quotationFromRows maps stored rows back into the domain quotation the
// aggregator consumes.
func quotationFromRows(row db.Quote, lines []db.QuoteLine) Quotation {
	q := Quotation{
		ID:       fromUUID(row.ID),
		Number:   row.Number,
		Currency: currency.Code(row.Currency),
		TierName: textValue(row.TierName),
		Discount: discount.Policy{
			Type:  discount.Type(row.DiscountType),
			Value: docDiscountFromStored(row.DiscountType, row.DiscountValue),
		},
		Tax: tax.Policy{
			Type:      tax.Type(row.TaxType),
			Rate:      common.FromBps(row.TaxRateBps),
			Inclusive: row.TaxInclusive,
		},
		Shipping: ShippingPolicy{
			Method:          freight.Method(textValue(row.ShippingMethod)),
			ZoneID:          textValue(row.ShippingZoneID),
			Incoterm:        Incoterm(textValue(row.ShippingIncoterm)),
			IncludedInTotal: row.ShippingIncluded,
		},
	}
	if row.ShippingOverrideCents.Valid {
		v := common.FromCents(row.ShippingOverrideCents.Int64)
		q.Shipping.CostOverride = &v
	}
	if row.ShippingEstimateCents.Valid {
		v := common.FromCents(row.ShippingEstimateCents.Int64)
		q.Shipping.EstimatedCost = &v
	}
	for _, l := range lines {
		line := Line{
			ID:            fromUUID(l.ID),
			Description:   l.Description,
			CostPrice:     common.FromCents(l.CostCents),
			MarkupPercent: common.FromBps(l.MarkupBps),
			Qty:           int(l.Qty),
			Discount: pricing.Discount{
				Type:  pricing.DiscountType(l.DiscountType),
				Value: lineDiscountFromStored(l.DiscountType, l.DiscountValue),
			},
		}
		if l.ProductID.Valid {
			pid := fromUUID(l.ProductID)
			line.ProductID = &pid
		}
		q.Lines = append(q.Lines, line)
	}
	return q
}

// viewFromRows builds a view from stored rows without recomputing, trusting
// the totals persisted by the last mutation.
func viewFromRows(row db.Quote, lines []db.QuoteLine) View {
	q := quotationFromRows(row, lines)
	totals := TotalsBreakdown{
		Subtotal:       common.FromCents(row.SubtotalCents),
		DiscountAmount: common.FromCents(row.DiscountAmountCents),
		TaxableAmount:  common.FromCents(row.TaxableAmountCents),
		TaxAmount:      common.FromCents(row.TaxAmountCents),
		ShippingCost:   common.FromCents(row.ShippingCostCents),
		GrandTotal:     common.FromCents(row.GrandTotalCents),
		Flags:          flagsFromStrings(row.PricingFlags),
	}
	for _, l := range lines {
		totals.Lines = append(totals.Lines, LineBreakdown{
			LineID:         fromUUID(l.ID),
			UnitPrice:      common.FromCents(l.UnitPriceCents),
			DiscountAmount: common.FromCents(l.DiscountCents),
			LineTotal:      common.FromCents(l.LineTotalCents),
		})
	}
	return View{Quotation: q, Totals: totals}
}

// Stored discount values are basis points for percentage policies and cents
// otherwise.
func docDiscountToStored(p discount.Policy) int64 {
	if p.Type == discount.TypePercentage {
		return int64(common.ToBps(p.Value))
	}
	return common.ToCents(p.Value)
}

func docDiscountFromStored(t string, v int64) decimal.Decimal {
	if discount.Type(t) == discount.TypePercentage {
		return common.FromBps(int32(v))
	}
	return common.FromCents(v)
}

func lineDiscountToStored(d pricing.Discount) int64 {
	if d.Type == pricing.DiscountPercentage {
		return int64(common.ToBps(d.Value))
	}
	return common.ToCents(d.Value)
}

func lineDiscountFromStored(t string, v int64) decimal.Decimal {
	if pricing.DiscountType(t) == pricing.DiscountPercentage {
		return common.FromBps(int32(v))
	}
	return common.FromCents(v)
}

func flagsToStrings(flags []Flag) []string {
	out := make([]string, 0, len(flags))
	for _, f := range flags {
		out = append(out, string(f))
	}
	return out
}

func flagsFromStrings(ss []string) []Flag {
	var out []Flag
	for _, s := range ss {
		out = appendFlag(out, Flag(s))
	}
	return out
}

func mergeFlags(dst []Flag, src []Flag) []Flag {
	for _, f := range src {
		dst = appendFlag(dst, f)
	}
	return dst
}

func generateNumber() string {
	return "Q-" + strings.ToUpper(uuid.NewString()[:8])
}

func invalidInput(field string, err error) error {
	return common.NewAppError("INVALID_INPUT", fmt.Sprintf("invalid %s", field), 400, err)
}

func toUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

func fromUUID(id pgtype.UUID) uuid.UUID {
	return uuid.UUID(id.Bytes)
}

func textValue(t pgtype.Text) string {
	if !t.Valid {
		return ""
	}
	return t.String
}

func countRecompute(kind string) {
	if obs.QuoteRecomputeTotal != nil {
		obs.QuoteRecomputeTotal.WithLabelValues(kind).Inc()
	}
}

func countFallback(stage, reason string) {
	if obs.PricingFallbackTotal != nil {
		obs.PricingFallbackTotal.WithLabelValues(stage, reason).Inc()
	}
}
