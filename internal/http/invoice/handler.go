package invoice

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/facturas/internal/http/respond"
	"github.com/MrJamesThe3rd/facturas/internal/http/tenant"
	"github.com/MrJamesThe3rd/facturas/internal/invoice"
	"github.com/MrJamesThe3rd/facturas/internal/ledger"
)

type Handler struct {
	ledgers *ledger.Manager
}

func NewHandler(ledgers *ledger.Manager) *Handler {
	return &Handler{ledgers: ledgers}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Delete("/", h.clear)
	r.Delete("/periods/{month}/{year}", h.deletePeriod)
	r.Get("/{number}", h.get)
	r.Put("/{number}", h.update)
	r.Delete("/{number}", h.delete)
}

func (h *Handler) session(r *http.Request) *ledger.Session {
	return h.ledgers.Session(tenant.FromContext(r.Context()))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	invs, err := h.session(r).Search(r.Context(), q.Get("q"), q.Get("period"))
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toListResponse(invs))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	inv, err := h.session(r).Get(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(inv))
}

type updateRequest struct {
	Number        string                `json:"number"`
	Date          string                `json:"date"`
	Concept       string                `json:"concept"`
	Gross         string                `json:"gross"`
	Net           *string               `json:"net,omitempty"`
	PaymentMethod invoice.PaymentMethod `json:"payment_method"`
	Client        string                `json:"client"`
}

// toDraft validates the request. A missing net amount is derived from gross.
func (req updateRequest) toDraft() (invoice.Draft, error) {
	date, err := time.Parse(invoice.DateLayout, strings.TrimSpace(req.Date))
	if err != nil {
		return invoice.Draft{}, fmt.Errorf("date must be DD/MM/YYYY: %q", req.Date)
	}

	gross, err := parseEuros(req.Gross)
	if err != nil {
		return invoice.Draft{}, fmt.Errorf("invalid gross amount %q", req.Gross)
	}

	net := invoice.NetFromGross(gross)
	if req.Net != nil {
		n, err := parseEuros(*req.Net)
		if err != nil {
			return invoice.Draft{}, fmt.Errorf("invalid net amount %q", *req.Net)
		}

		net = invoice.Cents(n)
	}

	method, ok := invoice.ParsePaymentMethod(string(req.PaymentMethod))
	if !ok {
		return invoice.Draft{}, fmt.Errorf("unknown payment method %q", req.PaymentMethod)
	}

	client := strings.TrimSpace(req.Client)
	if client == "" {
		client = invoice.WalkInClient
	}

	return invoice.Draft{
		Number:        strings.TrimSpace(req.Number),
		Date:          date,
		Concept:       strings.TrimSpace(req.Concept),
		Gross:         invoice.Cents(gross),
		Net:           net,
		PaymentMethod: method,
		Client:        client,
	}, nil
}

func parseEuros(s string) (decimal.Decimal, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), invoice.CurrencySymbol)
	return decimal.NewFromString(strings.Replace(s, ",", ".", 1))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	d, err := req.toDraft()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	inv, err := h.session(r).Update(r.Context(), chi.URLParam(r, "number"), d)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(inv))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.session(r).Delete(r.Context(), chi.URLParam(r, "number")); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type deletedResponse struct {
	Deleted int64 `json:"deleted"`
}

func (h *Handler) deletePeriod(w http.ResponseWriter, r *http.Request) {
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		http.Error(w, "invalid month", http.StatusBadRequest)
		return
	}

	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		http.Error(w, "invalid year", http.StatusBadRequest)
		return
	}

	n, err := h.session(r).DeletePeriod(r.Context(), time.Month(month), year)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, deletedResponse{Deleted: n})
}

func (h *Handler) clear(w http.ResponseWriter, r *http.Request) {
	n, err := h.session(r).Clear(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, deletedResponse{Deleted: n})
}
