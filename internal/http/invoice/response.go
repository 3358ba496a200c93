package invoice

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/facturas/internal/invoice"
	"github.com/MrJamesThe3rd/facturas/internal/stats"
)

// DraftResponse is the wire form of a ledger row. Amounts are in cents.
type DraftResponse struct {
	Number        string                `json:"number"`
	Date          string                `json:"date"`
	Period        string                `json:"period"`
	Concept       string                `json:"concept"`
	Gross         int64                 `json:"gross"`
	Net           int64                 `json:"net"`
	GrossDisplay  string                `json:"gross_display"`
	NetDisplay    string                `json:"net_display"`
	PaymentMethod invoice.PaymentMethod `json:"payment_method"`
	Client        string                `json:"client"`
}

type invoiceResponse struct {
	ID uuid.UUID `json:"id"`
	DraftResponse
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type periodResponse struct {
	Period       string            `json:"period"`
	Count        int               `json:"count"`
	Total        int64             `json:"total"`
	TotalDisplay string            `json:"total_display"`
	Invoices     []invoiceResponse `json:"invoices"`
}

type listResponse struct {
	Count   int              `json:"count"`
	Periods []periodResponse `json:"periods"`
}

func ToDraftResponse(d invoice.Draft) DraftResponse {
	return DraftResponse{
		Number:        d.Number,
		Date:          invoice.FormatDate(d.Date),
		Period:        invoice.Period(d.Date),
		Concept:       d.Concept,
		Gross:         d.Gross,
		Net:           d.Net,
		GrossDisplay:  invoice.FormatAmount(d.Gross),
		NetDisplay:    invoice.FormatAmount(d.Net),
		PaymentMethod: d.PaymentMethod,
		Client:        d.Client,
	}
}

func ToDraftResponses(drafts []invoice.Draft) []DraftResponse {
	out := make([]DraftResponse, 0, len(drafts))
	for _, d := range drafts {
		out = append(out, ToDraftResponse(d))
	}

	return out
}

func toResponse(inv *invoice.Invoice) invoiceResponse {
	return invoiceResponse{
		ID:            inv.ID,
		DraftResponse: ToDraftResponse(inv.Draft()),
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
}

func toListResponse(invs []*invoice.Invoice) listResponse {
	resp := listResponse{Count: len(invs), Periods: []periodResponse{}}

	for _, p := range stats.Periods(invs) {
		pr := periodResponse{
			Period:       p.Key,
			Count:        len(p.Invoices),
			Total:        p.Total,
			TotalDisplay: invoice.FormatAmount(p.Total),
			Invoices:     make([]invoiceResponse, 0, len(p.Invoices)),
		}

		for _, inv := range p.Invoices {
			pr.Invoices = append(pr.Invoices, toResponse(inv))
		}

		resp.Periods = append(resp.Periods, pr)
	}

	return resp
}
