package quote

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mkhairi/backend-quotation/internal/common"
	"github.com/mkhairi/backend-quotation/internal/freight"
)

// Handler exposes the quotation CRUD and preview endpoints.
type Handler struct {
	Svc      *Service
	Validate *validator.Validate
}

type createRequest struct {
	Number   string `json:"number"`
	Currency string `json:"currency" validate:"required"`
	TierName string `json:"tierName"`
}

type lineRequest struct {
	ProductID     string           `json:"productId"`
	Description   string           `json:"description"`
	CostPrice     *decimal.Decimal `json:"costPrice"`
	MarkupPercent *decimal.Decimal `json:"markupPercentage"`
	Qty           int              `json:"quantity" validate:"required,min=1"`
	DiscountType  string           `json:"discountType"`
	DiscountValue decimal.Decimal  `json:"discountValue"`
}

type policiesRequest struct {
	DiscountType     string           `json:"discountType"`
	DiscountValue    decimal.Decimal  `json:"discountValue"`
	TaxType          string           `json:"taxType"`
	TaxRate          decimal.Decimal  `json:"taxRate"`
	TaxInclusive     bool             `json:"taxInclusive"`
	ShippingMethod   string           `json:"shippingMethod"`
	ShippingZoneID   string           `json:"shippingZoneId"`
	Incoterm         string           `json:"incoterm"`
	ShippingIncluded bool             `json:"shippingIncluded"`
	ShippingOverride *decimal.Decimal `json:"shippingOverride"`
	Packages         []packageRequest `json:"packages" validate:"omitempty,dive"`
}

type packageRequest struct {
	Length   decimal.Decimal `json:"length"`
	Width    decimal.Decimal `json:"width"`
	Height   decimal.Decimal `json:"height"`
	WeightKg decimal.Decimal `json:"weight"`
	Qty      int             `json:"quantity" validate:"required,min=1"`
}

type previewRequest struct {
	Currency string          `json:"currency" validate:"required"`
	TierName string          `json:"tierName"`
	Lines    []lineRequest   `json:"lines" validate:"required,min=1,dive"`
	Policies policiesRequest `json:"policies"`
}

type lineView struct {
	ID             string           `json:"id"`
	ProductID      string           `json:"productId,omitempty"`
	Description    string           `json:"description"`
	CostPrice      decimal.Decimal  `json:"costPrice"`
	MarkupPercent  decimal.Decimal  `json:"markupPercentage"`
	Qty            int              `json:"quantity"`
	DiscountType   string           `json:"discountType"`
	DiscountValue  decimal.Decimal  `json:"discountValue"`
	UnitPrice      *decimal.Decimal `json:"unitPrice,omitempty"`
	DiscountAmount *decimal.Decimal `json:"discountAmount,omitempty"`
	LineTotal      *decimal.Decimal `json:"lineTotal,omitempty"`
}

type totalsView struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	TaxableAmount  decimal.Decimal `json:"taxableAmount"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	ShippingCost   decimal.Decimal `json:"shippingCost"`
	GrandTotal     decimal.Decimal `json:"grandTotal"`
	Flags          []string        `json:"pricingFlags"`
}

type quoteView struct {
	ID       string     `json:"id"`
	Number   string     `json:"number"`
	Currency string     `json:"currency"`
	TierName string     `json:"tierName,omitempty"`
	Lines    []lineView `json:"lines"`
	Totals   totalsView `json:"totals"`
}

func toQuoteView(v View) quoteView {
	out := quoteView{
		ID:       v.Quotation.ID.String(),
		Number:   v.Quotation.Number,
		Currency: string(v.Quotation.Currency),
		TierName: v.Quotation.TierName,
		Lines:    make([]lineView, 0, len(v.Quotation.Lines)),
		Totals: totalsView{
			Subtotal:       v.Totals.Subtotal,
			DiscountAmount: v.Totals.DiscountAmount,
			TaxableAmount:  v.Totals.TaxableAmount,
			TaxAmount:      v.Totals.TaxAmount,
			ShippingCost:   v.Totals.ShippingCost,
			GrandTotal:     v.Totals.GrandTotal,
			Flags:          flagsToStrings(v.Totals.Flags),
		},
	}
	derived := make(map[uuid.UUID]LineBreakdown, len(v.Totals.Lines))
	for _, lb := range v.Totals.Lines {
		derived[lb.LineID] = lb
	}
	for _, l := range v.Quotation.Lines {
		lv := lineView{
			ID:            l.ID.String(),
			Description:   l.Description,
			CostPrice:     l.CostPrice,
			MarkupPercent: l.MarkupPercent,
			Qty:           l.Qty,
			DiscountType:  string(l.Discount.Type),
			DiscountValue: l.Discount.Value,
		}
		if l.ProductID != nil {
			lv.ProductID = l.ProductID.String()
		}
		if lb, ok := derived[l.ID]; ok {
			lv.UnitPrice = &lb.UnitPrice
			lv.DiscountAmount = &lb.DiscountAmount
			lv.LineTotal = &lb.LineTotal
		}
		out.Lines = append(out.Lines, lv)
	}
	return out
}

// Create opens a new empty quotation.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !h.decode(w, r, &req) {
		return
	}
	view, err := h.Svc.Create(r.Context(), CreateInput{
		Number:   req.Number,
		Currency: req.Currency,
		TierName: req.TierName,
	})
	if err != nil {
		h.writeError(w, err, "failed to create quotation")
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": toQuoteView(view)})
}

// Get returns a quotation with its stored totals.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "quoteID")
	if !ok {
		return
	}
	view, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err, "failed to load quotation")
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": toQuoteView(view)})
}

// List pages through quotations.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := common.ParsePagination(r, 20)
	items, total, err := h.Svc.List(r.Context(), int32(perPage), int32((page-1)*perPage))
	if err != nil {
		h.writeError(w, err, "failed to list quotations")
		return
	}
	views := make([]map[string]any, 0, len(items))
	for _, s := range items {
		views = append(views, map[string]any{
			"id":           s.ID.String(),
			"number":       s.Number,
			"currency":     string(s.Currency),
			"grandTotal":   s.GrandTotal,
			"pricingFlags": flagsToStrings(s.Flags),
		})
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": views,
		"pagination": common.Pagination{
			Page:       page,
			PerPage:    perPage,
			TotalItems: int(total),
		},
	})
}

// Delete removes a quotation.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "quoteID")
	if !ok {
		return
	}
	if err := h.Svc.Delete(r.Context(), id); err != nil {
		h.writeError(w, err, "failed to delete quotation")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetPolicies replaces the document discount, tax and shipping policies.
func (h *Handler) SetPolicies(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "quoteID")
	if !ok {
		return
	}
	var req policiesRequest
	if !h.decode(w, r, &req) {
		return
	}
	view, err := h.Svc.SetPolicies(r.Context(), id, req.toInput())
	if err != nil {
		h.writeError(w, err, "failed to update policies")
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": toQuoteView(view)})
}

// AddLine appends a quotation line.
func (h *Handler) AddLine(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "quoteID")
	if !ok {
		return
	}
	var req lineRequest
	if !h.decode(w, r, &req) {
		return
	}
	in, err := req.toInput()
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid product id", nil)
		return
	}
	view, err := h.Svc.AddLine(r.Context(), id, in)
	if err != nil {
		h.writeError(w, err, "failed to add line")
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": toQuoteView(view)})
}

// UpdateLine replaces a quotation line.
func (h *Handler) UpdateLine(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "quoteID")
	if !ok {
		return
	}
	lineID, ok := h.pathID(w, r, "lineID")
	if !ok {
		return
	}
	var req lineRequest
	if !h.decode(w, r, &req) {
		return
	}
	in, err := req.toInput()
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid product id", nil)
		return
	}
	view, err := h.Svc.UpdateLine(r.Context(), id, lineID, in)
	if err != nil {
		h.writeError(w, err, "failed to update line")
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": toQuoteView(view)})
}

// RemoveLine deletes a quotation line.
func (h *Handler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "quoteID")
	if !ok {
		return
	}
	lineID, ok := h.pathID(w, r, "lineID")
	if !ok {
		return
	}
	view, err := h.Svc.RemoveLine(r.Context(), id, lineID)
	if err != nil {
		h.writeError(w, err, "failed to remove line")
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": toQuoteView(view)})
}

// Preview prices a quotation without saving it.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if !h.decode(w, r, &req) {
		return
	}
	in := PreviewInput{
		Currency: req.Currency,
		TierName: req.TierName,
		Policies: req.Policies.toInput(),
	}
	for _, lr := range req.Lines {
		li, err := lr.toInput()
		if err != nil {
			common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid product id", nil)
			return
		}
		in.Lines = append(in.Lines, li)
	}
	breakdown, err := h.Svc.Preview(r.Context(), in)
	if err != nil {
		h.writeError(w, err, "failed to price quotation")
		return
	}
	lines := make([]map[string]any, 0, len(breakdown.Lines))
	for _, lb := range breakdown.Lines {
		lines = append(lines, map[string]any{
			"unitPrice":      lb.UnitPrice,
			"discountAmount": lb.DiscountAmount,
			"lineTotal":      lb.LineTotal,
		})
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{
		"lines": lines,
		"totals": totalsView{
			Subtotal:       breakdown.Subtotal,
			DiscountAmount: breakdown.DiscountAmount,
			TaxableAmount:  breakdown.TaxableAmount,
			TaxAmount:      breakdown.TaxAmount,
			ShippingCost:   breakdown.ShippingCost,
			GrandTotal:     breakdown.GrandTotal,
			Flags:          flagsToStrings(breakdown.Flags),
		},
	}})
}

func (r lineRequest) toInput() (LineInput, error) {
	in := LineInput{
		Description:   r.Description,
		CostPrice:     r.CostPrice,
		MarkupPercent: r.MarkupPercent,
		Qty:           r.Qty,
		DiscountType:  r.DiscountType,
		DiscountValue: r.DiscountValue,
	}
	if r.ProductID != "" {
		id, err := uuid.Parse(r.ProductID)
		if err != nil {
			return LineInput{}, err
		}
		in.ProductID = &id
	}
	return in, nil
}

func (r policiesRequest) toInput() PoliciesInput {
	in := PoliciesInput{
		DiscountType:     r.DiscountType,
		DiscountValue:    r.DiscountValue,
		TaxType:          r.TaxType,
		TaxRate:          r.TaxRate,
		TaxInclusive:     r.TaxInclusive,
		ShippingMethod:   r.ShippingMethod,
		ShippingZoneID:   r.ShippingZoneID,
		Incoterm:         r.Incoterm,
		ShippingIncluded: r.ShippingIncluded,
		ShippingOverride: r.ShippingOverride,
	}
	for _, p := range r.Packages {
		in.Packages = append(in.Packages, freight.Package{
			Length:   p.Length,
			Width:    p.Width,
			Height:   p.Height,
			WeightKg: p.WeightKg,
			Qty:      p.Qty,
		})
	}
	return in
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return false
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(dst); err != nil {
			common.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request", map[string]any{"error": err.Error()})
			return false
		}
	}
	return true
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid id", nil)
		return uuid.UUID{}, false
	}
	return id, true
}

func (h *Handler) writeError(w http.ResponseWriter, err error, fallback string) {
	var appErr *common.AppError
	switch {
	case errors.Is(err, ErrQuoteNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "quotation not found", nil)
	case errors.Is(err, ErrLineNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "quotation line not found", nil)
	case errors.As(err, &appErr):
		common.JSONError(w, appErr.HTTPStatus, appErr.Code, appErr.Message, appErr.Details)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", fallback, nil)
	}
}
