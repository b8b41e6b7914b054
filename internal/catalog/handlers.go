package catalog

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mkhairi/backend-quotation/internal/common"
)

// Handler exposes the read-only product cost lookup used by the quote editor.
type Handler struct {
	Svc *Service
}

type costResponse struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Brand     string          `json:"brand,omitempty"`
	Category  string          `json:"category,omitempty"`
	CostPrice decimal.Decimal `json:"costPrice"`
	ListPrice decimal.Decimal `json:"listPrice"`
	Currency  string          `json:"currency"`
}

// GetCost returns the cost basis for a product.
func (h *Handler) GetCost(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid product id", nil)
		return
	}
	cost, err := h.Svc.GetCost(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "product not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to load product cost", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": costResponse{
		ProductID: cost.ProductID.String(),
		Name:      cost.Name,
		Brand:     cost.Brand,
		Category:  cost.Category,
		CostPrice: cost.CostPrice,
		ListPrice: cost.ListPrice,
		Currency:  string(cost.Currency),
	}})
}
