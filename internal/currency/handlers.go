package currency

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/mkhairi/backend-quotation/internal/common"
)

// Handler exposes read-only endpoints for the stored rate table.
type Handler struct {
	Svc *Service
}

type rateEntry struct {
	From string `json:"from"`
	To   string `json:"to"`
	Rate string `json:"rate"`
}

// Rates lists every stored conversion rate.
func (h *Handler) Rates(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil || h.Svc.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "currency rates not configured", nil)
		return
	}
	rows, err := h.Svc.Q.ListCurrencyRates(r.Context())
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to load currency rates", nil)
		return
	}
	entries := make([]rateEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, rateEntry{
			From: row.FromCode,
			To:   row.ToCode,
			Rate: decimal.New(row.RateMicros, -6).String(),
		})
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": entries})
}
