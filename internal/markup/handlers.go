package markup

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mkhairi/backend-quotation/internal/common"
)

// Handler exposes the markup table lookup used by the quote editor.
type Handler struct {
	Svc *Service
}

type overridePayload struct {
	Name   string `json:"name"`
	Markup string `json:"markup"`
}

type tablePayload struct {
	Tier       string            `json:"tier"`
	Default    string            `json:"defaultMarkup"`
	Brands     []overridePayload `json:"brandMarkups"`
	Categories []overridePayload `json:"categoryMarkups"`
}

// GetTable returns the markup table for a tier.
func (h *Handler) GetTable(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "markup service not configured", nil)
		return
	}
	tier := chi.URLParam(r, "tier")
	table, err := h.Svc.GetMarkupTable(r.Context(), tier)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to load markup table", nil)
		return
	}
	if table == nil {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "markup tier not found", nil)
		return
	}
	payload := tablePayload{
		Tier:       table.Tier,
		Default:    table.Default.String(),
		Brands:     make([]overridePayload, 0, len(table.Brands)),
		Categories: make([]overridePayload, 0, len(table.Categories)),
	}
	for _, b := range table.Brands {
		payload.Brands = append(payload.Brands, overridePayload{Name: b.Brand, Markup: b.Markup.String()})
	}
	for _, c := range table.Categories {
		payload.Categories = append(payload.Categories, overridePayload{Name: c.Category, Markup: c.Markup.String()})
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": payload})
}
