package freight

import (
	"encoding/json"
	"net/http"

	validator "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/mkhairi/backend-quotation/internal/common"
)

// Handler exposes the freight estimation endpoint used by the quote editor.
type Handler struct {
	Svc      *Service
	Validate *validator.Validate
}

type packageRequest struct {
	Length   decimal.Decimal `json:"length"`
	Width    decimal.Decimal `json:"width"`
	Height   decimal.Decimal `json:"height"`
	WeightKg decimal.Decimal `json:"weight"`
	Qty      int             `json:"quantity" validate:"required,min=1"`
}

type estimateRequest struct {
	Method   string           `json:"method" validate:"required"`
	ZoneID   string           `json:"zoneId"`
	Packages []packageRequest `json:"packages" validate:"required,min=1,dive"`
}

type estimateResponse struct {
	ActualWeight     decimal.Decimal  `json:"actualWeight"`
	DimWeight        decimal.Decimal  `json:"dimWeight"`
	ChargeableWeight decimal.Decimal  `json:"chargeableWeight"`
	TotalVolume      decimal.Decimal  `json:"totalVolume"`
	EstimatedCost    *decimal.Decimal `json:"estimatedCost"`
	RateMatched      bool             `json:"rateMatched"`
}

// Estimate computes weights and looks up the freight cost for a set of
// packages.
func (h *Handler) Estimate(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "freight service not configured", nil)
		return
	}
	var req estimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(req); err != nil {
			common.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid freight request", map[string]any{"error": err.Error()})
			return
		}
	}
	method, err := ParseMethod(req.Method)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid shipping method", nil)
		return
	}
	packages := make([]Package, 0, len(req.Packages))
	for _, p := range req.Packages {
		if p.Length.IsNegative() || p.Width.IsNegative() || p.Height.IsNegative() || p.WeightKg.IsNegative() {
			common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "package dimensions and weight must not be negative", nil)
			return
		}
		packages = append(packages, Package{
			Length:   p.Length,
			Width:    p.Width,
			Height:   p.Height,
			WeightKg: p.WeightKg,
			Qty:      p.Qty,
		})
	}
	estimate, err := h.Svc.Estimate(r.Context(), packages, method, req.ZoneID)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to estimate freight", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": estimateResponse{
		ActualWeight:     estimate.Weights.Actual,
		DimWeight:        estimate.Weights.Dimensional,
		ChargeableWeight: estimate.Weights.Chargeable,
		TotalVolume:      estimate.Weights.TotalVolume,
		EstimatedCost:    estimate.Cost,
		RateMatched:      estimate.Cost != nil,
	}})
}
