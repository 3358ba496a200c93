package concept

import (
	"encoding/json"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/facturas/internal/concept"
	"github.com/MrJamesThe3rd/facturas/internal/http/respond"
	"github.com/MrJamesThe3rd/facturas/internal/http/tenant"
)

type Handler struct {
	svc *concept.Service
}

func NewHandler(svc *concept.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Put("/{amount}", h.set)
	r.Delete("/{amount}", h.delete)
}

type mappingResponse struct {
	Amount string `json:"amount"`
	Label  string `json:"label"`
}

type listResponse struct {
	Fallback string            `json:"fallback"`
	Mappings []mappingResponse `json:"mappings"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	table, err := h.svc.Table(r.Context(), tenant.FromContext(r.Context()))
	if err != nil {
		respond.Error(w, err)
		return
	}

	resp := listResponse{Fallback: concept.FallbackLabel, Mappings: make([]mappingResponse, 0, len(table))}
	for amount, label := range table {
		resp.Mappings = append(resp.Mappings, mappingResponse{Amount: amount, Label: label})
	}

	slices.SortFunc(resp.Mappings, func(a, b mappingResponse) int {
		return compareAmounts(a.Amount, b.Amount)
	})

	respond.JSON(w, http.StatusOK, resp)
}

// compareAmounts orders keys numerically, falling back to text for keys that
// are not numbers.
func compareAmounts(a, b string) int {
	da, errA := decimal.NewFromString(a)
	db, errB := decimal.NewFromString(b)

	if errA != nil || errB != nil {
		return strings.Compare(a, b)
	}

	return da.Cmp(db)
}

type setRequest struct {
	Label string `json:"label"`
}

func (h *Handler) set(w http.ResponseWriter, r *http.Request) {
	var req setRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.Set(r.Context(), tenant.FromContext(r.Context()), chi.URLParam(r, "amount"), req.Label); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), tenant.FromContext(r.Context()), chi.URLParam(r, "amount")); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
