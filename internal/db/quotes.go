package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const quoteColumns = `
id, number, currency, tier_name,
discount_type, discount_value,
tax_type, tax_rate_bps, tax_inclusive,
shipping_method, shipping_zone_id, shipping_incoterm, shipping_included,
shipping_override_cents, shipping_estimate_cents,
subtotal_cents, discount_amount_cents, taxable_amount_cents, tax_amount_cents,
shipping_cost_cents, grand_total_cents, pricing_flags,
created_at, updated_at`

func scanQuote(row pgx.Row, q *Quote) error {
	return row.Scan(
		&q.ID, &q.Number, &q.Currency, &q.TierName,
		&q.DiscountType, &q.DiscountValue,
		&q.TaxType, &q.TaxRateBps, &q.TaxInclusive,
		&q.ShippingMethod, &q.ShippingZoneID, &q.ShippingIncoterm, &q.ShippingIncluded,
		&q.ShippingOverrideCents, &q.ShippingEstimateCents,
		&q.SubtotalCents, &q.DiscountAmountCents, &q.TaxableAmountCents, &q.TaxAmountCents,
		&q.ShippingCostCents, &q.GrandTotalCents, &q.PricingFlags,
		&q.CreatedAt, &q.UpdatedAt,
	)
}

// CreateQuoteParams carries the initial quotation header.
type CreateQuoteParams struct {
	Number   string
	Currency string
	TierName pgtype.Text
}

const createQuote = `
INSERT INTO quotes (number, currency, tier_name)
VALUES ($1, $2, $3)
RETURNING ` + quoteColumns

// CreateQuote inserts a quotation with default (none) policies and zero totals.
func (q *Queries) CreateQuote(ctx context.Context, arg CreateQuoteParams) (Quote, error) {
	row := q.db.QueryRow(ctx, createQuote, arg.Number, arg.Currency, arg.TierName)
	var quote Quote
	err := scanQuote(row, &quote)
	return quote, err
}

const getQuoteByID = `
SELECT ` + quoteColumns + `
FROM quotes
WHERE id = $1`

// GetQuoteByID fetches a quotation header.
func (q *Queries) GetQuoteByID(ctx context.Context, id pgtype.UUID) (Quote, error) {
	row := q.db.QueryRow(ctx, getQuoteByID, id)
	var quote Quote
	err := scanQuote(row, &quote)
	return quote, err
}

// ListQuotesParams pages through quotations.
type ListQuotesParams struct {
	Limit  int32
	Offset int32
}

const listQuotes = `
SELECT ` + quoteColumns + `
FROM quotes
ORDER BY created_at DESC
LIMIT $1 OFFSET $2`

// ListQuotes returns quotation headers newest first.
func (q *Queries) ListQuotes(ctx context.Context, arg ListQuotesParams) ([]Quote, error) {
	rows, err := q.db.Query(ctx, listQuotes, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Quote
	for rows.Next() {
		var quote Quote
		if err := scanQuote(rows, &quote); err != nil {
			return nil, err
		}
		items = append(items, quote)
	}
	return items, rows.Err()
}

const countQuotes = `SELECT count(*) FROM quotes`

// CountQuotes returns the total number of quotations.
func (q *Queries) CountQuotes(ctx context.Context) (int64, error) {
	var total int64
	err := q.db.QueryRow(ctx, countQuotes).Scan(&total)
	return total, err
}

// UpdateQuotePoliciesParams replaces the document-level policies.
type UpdateQuotePoliciesParams struct {
	ID                    pgtype.UUID
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
}

const updateQuotePolicies = `
UPDATE quotes SET
	discount_type = $2,
	discount_value = $3,
	tax_type = $4,
	tax_rate_bps = $5,
	tax_inclusive = $6,
	shipping_method = $7,
	shipping_zone_id = $8,
	shipping_incoterm = $9,
	shipping_included = $10,
	shipping_override_cents = $11,
	shipping_estimate_cents = $12,
	updated_at = now()
WHERE id = $1`

// UpdateQuotePolicies stores the discount, tax and shipping policies.
func (q *Queries) UpdateQuotePolicies(ctx context.Context, arg UpdateQuotePoliciesParams) error {
	_, err := q.db.Exec(ctx, updateQuotePolicies,
		arg.ID, arg.DiscountType, arg.DiscountValue,
		arg.TaxType, arg.TaxRateBps, arg.TaxInclusive,
		arg.ShippingMethod, arg.ShippingZoneID, arg.ShippingIncoterm, arg.ShippingIncluded,
		arg.ShippingOverrideCents, arg.ShippingEstimateCents,
	)
	return err
}

// UpdateQuoteTotalsParams stores a freshly computed totals breakdown.
type UpdateQuoteTotalsParams struct {
	ID                  pgtype.UUID
	SubtotalCents       int64
	DiscountAmountCents int64
	TaxableAmountCents  int64
	TaxAmountCents      int64
	ShippingCostCents   int64
	GrandTotalCents     int64
	PricingFlags        []string
}

const updateQuoteTotals = `
UPDATE quotes SET
	subtotal_cents = $2,
	discount_amount_cents = $3,
	taxable_amount_cents = $4,
	tax_amount_cents = $5,
	shipping_cost_cents = $6,
	grand_total_cents = $7,
	pricing_flags = $8,
	updated_at = now()
WHERE id = $1`

// UpdateQuoteTotals replaces the persisted breakdown atomically.
func (q *Queries) UpdateQuoteTotals(ctx context.Context, arg UpdateQuoteTotalsParams) error {
	_, err := q.db.Exec(ctx, updateQuoteTotals,
		arg.ID, arg.SubtotalCents, arg.DiscountAmountCents, arg.TaxableAmountCents,
		arg.TaxAmountCents, arg.ShippingCostCents, arg.GrandTotalCents, arg.PricingFlags,
	)
	return err
}

const deleteQuote = `DELETE FROM quotes WHERE id = $1`

// DeleteQuote removes a quotation and, via cascade, its lines.
func (q *Queries) DeleteQuote(ctx context.Context, id pgtype.UUID) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteQuote, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const lineColumns = `
id, quote_id, product_id, description,
cost_cents, markup_bps, qty,
discount_type, discount_value,
unit_price_cents, discount_cents, line_total_cents,
position, created_at, updated_at`

func scanLine(row pgx.Row, l *QuoteLine) error {
	return row.Scan(
		&l.ID, &l.QuoteID, &l.ProductID, &l.Description,
		&l.CostCents, &l.MarkupBps, &l.Qty,
		&l.DiscountType, &l.DiscountValue,
		&l.UnitPriceCents, &l.DiscountCents, &l.LineTotalCents,
		&l.Position, &l.CreatedAt, &l.UpdatedAt,
	)
}

// InsertQuoteLineParams carries a new line and its derived pricing.
type InsertQuoteLineParams struct {
	QuoteID        pgtype.UUID
	ProductID      pgtype.UUID
	Description    string
	CostCents      int64
	MarkupBps      int32
	Qty            int32
	DiscountType   string
	DiscountValue  int64
	UnitPriceCents int64
	DiscountCents  int64
	LineTotalCents int64
}

const insertQuoteLine = `
INSERT INTO quote_lines (
	quote_id, product_id, description, cost_cents, markup_bps, qty,
	discount_type, discount_value, unit_price_cents, discount_cents, line_total_cents,
	position
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
	COALESCE((SELECT max(position) + 1 FROM quote_lines WHERE quote_id = $1), 0))
RETURNING ` + lineColumns

// InsertQuoteLine appends a line at the end of the quotation.
func (q *Queries) InsertQuoteLine(ctx context.Context, arg InsertQuoteLineParams) (QuoteLine, error) {
	row := q.db.QueryRow(ctx, insertQuoteLine,
		arg.QuoteID, arg.ProductID, arg.Description, arg.CostCents, arg.MarkupBps, arg.Qty,
		arg.DiscountType, arg.DiscountValue, arg.UnitPriceCents, arg.DiscountCents, arg.LineTotalCents,
	)
	var line QuoteLine
	err := scanLine(row, &line)
	return line, err
}

// UpdateQuoteLineParams replaces the editable fields and derived pricing of a
// line.
type UpdateQuoteLineParams struct {
	ID             pgtype.UUID
	QuoteID        pgtype.UUID
	Description    string
	CostCents      int64
	MarkupBps      int32
	Qty            int32
	DiscountType   string
	DiscountValue  int64
	UnitPriceCents int64
	DiscountCents  int64
	LineTotalCents int64
}

const updateQuoteLine = `
UPDATE quote_lines SET
	description = $3,
	cost_cents = $4,
	markup_bps = $5,
	qty = $6,
	discount_type = $7,
	discount_value = $8,
	unit_price_cents = $9,
	discount_cents = $10,
	line_total_cents = $11,
	updated_at = now()
WHERE id = $1 AND quote_id = $2
RETURNING ` + lineColumns

// UpdateQuoteLine updates a line scoped to its quotation.
func (q *Queries) UpdateQuoteLine(ctx context.Context, arg UpdateQuoteLineParams) (QuoteLine, error) {
	row := q.db.QueryRow(ctx, updateQuoteLine,
		arg.ID, arg.QuoteID, arg.Description, arg.CostCents, arg.MarkupBps, arg.Qty,
		arg.DiscountType, arg.DiscountValue, arg.UnitPriceCents, arg.DiscountCents, arg.LineTotalCents,
	)
	var line QuoteLine
	err := scanLine(row, &line)
	return line, err
}

// DeleteQuoteLineParams identifies a line within a quotation.
type DeleteQuoteLineParams struct {
	ID      pgtype.UUID
	QuoteID pgtype.UUID
}

const deleteQuoteLine = `DELETE FROM quote_lines WHERE id = $1 AND quote_id = $2`

// DeleteQuoteLine removes a line scoped to its quotation.
func (q *Queries) DeleteQuoteLine(ctx context.Context, arg DeleteQuoteLineParams) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteQuoteLine, arg.ID, arg.QuoteID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const listQuoteLines = `
SELECT ` + lineColumns + `
FROM quote_lines
WHERE quote_id = $1
ORDER BY position`

// ListQuoteLines returns the ordered lines of a quotation.
func (q *Queries) ListQuoteLines(ctx context.Context, quoteID pgtype.UUID) ([]QuoteLine, error) {
	rows, err := q.db.Query(ctx, listQuoteLines, quoteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []QuoteLine
	for rows.Next() {
		var line QuoteLine
		if err := scanLine(rows, &line); err != nil {
			return nil, err
		}
		items = append(items, line)
	}
	return items, rows.Err()
}
