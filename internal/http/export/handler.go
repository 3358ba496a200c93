package export

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/facturas/internal/export"
	"github.com/MrJamesThe3rd/facturas/internal/http/respond"
	"github.com/MrJamesThe3rd/facturas/internal/http/tenant"
	"github.com/MrJamesThe3rd/facturas/internal/invoice"
	"github.com/MrJamesThe3rd/facturas/internal/ledger"
)

type Handler struct {
	ledgers *ledger.Manager
	now     func() time.Time
}

func NewHandler(ledgers *ledger.Manager, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}

	return &Handler{ledgers: ledgers, now: now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/export.csv", h.download("csv", "text/csv; charset=utf-8", export.WriteCSV))
	r.Get("/export.xlsx", h.download("xlsx",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", export.WriteXLSX))
}

type writeFunc func(w io.Writer, drafts []invoice.Draft) error

// download serves the ledger, or the pending rows with ?pending=true.
func (h *Handler) download(ext, contentType string, write writeFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := h.ledgers.Session(tenant.FromContext(r.Context()))

		var drafts []invoice.Draft

		if r.URL.Query().Get("pending") == "true" {
			drafts = s.Pending()
		} else {
			invs, err := s.Invoices(r.Context())
			if err != nil {
				respond.Error(w, err)
				return
			}

			drafts = invoice.Drafts(invs)
		}

		var buf bytes.Buffer
		if err := write(&buf, drafts); err != nil {
			respond.Error(w, err)
			return
		}

		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.Filename(ext, h.now())))

		if _, err := buf.WriteTo(w); err != nil {
			slog.Error("failed to write export", "error", err)
		}
	}
}
