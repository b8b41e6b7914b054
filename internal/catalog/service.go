package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/mkhairi/backend-quotation/internal/common"
	"github.com/mkhairi/backend-quotation/internal/currency"
	"github.com/mkhairi/backend-quotation/internal/db"
)

// ErrProductNotFound is returned when the catalog has no such product.
var ErrProductNotFound = errors.New("catalog: product not found")

// Cost is the pricing basis the quote engine reads for a product.
type Cost struct {
	ProductID uuid.UUID
	Name      string
	Brand     string
	Category  string
	CostPrice decimal.Decimal
	ListPrice decimal.Decimal
	Currency  currency.Code
}

// CostSource resolves product cost data for quoting.
type CostSource interface {
	GetCost(ctx context.Context, productID uuid.UUID) (Cost, error)
}

type queryProvider interface {
	GetProductByID(ctx context.Context, id pgtype.UUID) (db.Product, error)
}

// Service reads product cost data from the database with a Redis JSON cache
// in front. The engine treats it as read-only reference data.
type Service struct {
	Q     queryProvider
	Cache *common.Cache
}

type cachedCost struct {
	Name      string `json:"name"`
	Brand     string `json:"brand"`
	Category  string `json:"category"`
	CostCents int64  `json:"costCents"`
	ListCents int64  `json:"listCents"`
	Currency  string `json:"currency"`
}

// GetCost returns the cost basis for a product.
func (s *Service) GetCost(ctx context.Context, productID uuid.UUID) (Cost, error) {
	if s == nil || s.Q == nil {
		return Cost{}, errors.New("catalog queries not configured")
	}
	key := costCacheKey(productID)
	if s.Cache != nil {
		var cached cachedCost
		if ok, err := s.Cache.GetJSON(ctx, key, &cached); err == nil && ok {
			return s.fromCached(productID, cached)
		}
	}
	row, err := s.Q.GetProductByID(ctx, toUUID(productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Cost{}, ErrProductNotFound
		}
		return Cost{}, fmt.Errorf("get product: %w", err)
	}
	cached := cachedCost{
		Name:      row.Name,
		Brand:     textValue(row.Brand),
		Category:  textValue(row.Category),
		CostCents: row.CostCents,
		ListCents: row.ListCents,
		Currency:  row.Currency,
	}
	if s.Cache != nil {
		_ = s.Cache.SetJSON(ctx, key, cached)
	}
	return s.fromCached(productID, cached)
}

func (s *Service) fromCached(productID uuid.UUID, c cachedCost) (Cost, error) {
	code, err := currency.ParseCode(c.Currency)
	if err != nil {
		return Cost{}, fmt.Errorf("product %s: %w", productID, err)
	}
	return Cost{
		ProductID: productID,
		Name:      c.Name,
		Brand:     c.Brand,
		Category:  c.Category,
		CostPrice: common.FromCents(c.CostCents),
		ListPrice: common.FromCents(c.ListCents),
		Currency:  code,
	}, nil
}

func costCacheKey(productID uuid.UUID) string {
	return "catalog:cost:" + productID.String()
}

func toUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

func textValue(t pgtype.Text) string {
	if !t.Valid {
		return ""
	}
	return t.String
}

// NotFoundAppError adapts ErrProductNotFound to the canonical HTTP error shape.
func NotFoundAppError(err error) *common.AppError {
	return &common.AppError{Code: "NOT_FOUND", Message: "product not found", HTTPStatus: http.StatusNotFound, Err: err}
}
