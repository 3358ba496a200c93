package stats

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/facturas/internal/http/respond"
	"github.com/MrJamesThe3rd/facturas/internal/http/tenant"
	"github.com/MrJamesThe3rd/facturas/internal/invoice"
	"github.com/MrJamesThe3rd/facturas/internal/ledger"
	"github.com/MrJamesThe3rd/facturas/internal/stats"
)

type Handler struct {
	ledgers *ledger.Manager
}

func NewHandler(ledgers *ledger.Manager) *Handler {
	return &Handler{ledgers: ledgers}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.summary)
}

type conceptResponse struct {
	Concept string `json:"concept"`
	Count   int    `json:"count"`
	Revenue int64  `json:"revenue"`
}

type clientResponse struct {
	Client  string `json:"client"`
	Visits  int    `json:"visits"`
	Revenue int64  `json:"revenue"`
}

type monthResponse struct {
	Period  string `json:"period"`
	Count   int    `json:"count"`
	Revenue int64  `json:"revenue"`
}

type paymentResponse struct {
	Method invoice.PaymentMethod `json:"method"`
	Count  int                   `json:"count"`
}

type summaryResponse struct {
	Count          int               `json:"count"`
	Total          int64             `json:"total"`
	TotalDisplay   string            `json:"total_display"`
	Average        *int64            `json:"average,omitempty"`
	AverageDisplay string            `json:"average_display,omitempty"`
	Concepts       []conceptResponse `json:"concepts"`
	TopClients     []clientResponse  `json:"top_clients"`
	Months         []monthResponse   `json:"months"`
	Payments       []paymentResponse `json:"payments"`
}

func toResponse(s stats.Summary) summaryResponse {
	resp := summaryResponse{
		Count:        s.Count,
		Total:        s.Total,
		TotalDisplay: stats.FormatEUR(s.Total),
		Concepts:     make([]conceptResponse, 0, len(s.Concepts)),
		TopClients:   make([]clientResponse, 0, len(s.TopClients)),
		Months:       make([]monthResponse, 0, len(s.Months)),
		Payments:     make([]paymentResponse, 0, len(s.Payments)),
	}

	if avg, ok := s.AverageCents(); ok {
		resp.Average = &avg
		resp.AverageDisplay = stats.FormatEUR(avg)
	}

	for _, c := range s.Concepts {
		resp.Concepts = append(resp.Concepts, conceptResponse(c))
	}

	for _, c := range s.TopClients {
		resp.TopClients = append(resp.TopClients, clientResponse(c))
	}

	for _, m := range s.Months {
		resp.Months = append(resp.Months, monthResponse{Period: m.Period, Count: m.Count, Revenue: m.Revenue})
	}

	for _, p := range s.Payments {
		resp.Payments = append(resp.Payments, paymentResponse(p))
	}

	return resp
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	s, err := h.ledgers.Session(tenant.FromContext(r.Context())).Stats(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(s))
}
