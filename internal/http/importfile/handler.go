package importfile

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	invoiceHandler "github.com/MrJamesThe3rd/facturas/internal/http/invoice"
	"github.com/MrJamesThe3rd/facturas/internal/http/respond"
	"github.com/MrJamesThe3rd/facturas/internal/http/tenant"
	"github.com/MrJamesThe3rd/facturas/internal/importer"
	"github.com/MrJamesThe3rd/facturas/internal/ledger"
)

const maxUploadSize = 10 << 20

type Handler struct {
	ledgers *ledger.Manager
}

func NewHandler(ledgers *ledger.Manager) *Handler {
	return &Handler{ledgers: ledgers}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importFile)
	r.Get("/pending", h.pending)
	r.Delete("/pending", h.discard)
	r.Post("/commit", h.commit)
}

func (h *Handler) session(r *http.Request) *ledger.Session {
	return h.ledgers.Session(tenant.FromContext(r.Context()))
}

type importResponse struct {
	File     string                         `json:"file"`
	Shape    string                         `json:"shape"`
	Detected bool                           `json:"detected"`
	Rows     int                            `json:"rows"`
	Dropped  int                            `json:"dropped"`
	Pending  []invoiceHandler.DraftResponse `json:"pending"`
}

func toImportResponse(file string, res *importer.Result) importResponse {
	return importResponse{
		File:     file,
		Shape:    string(res.Shape),
		Detected: res.Layout.Detected,
		Rows:     len(res.Drafts),
		Dropped:  res.Dropped(),
		Pending:  invoiceHandler.ToDraftResponses(res.Drafts),
	}
}

func (h *Handler) importFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "failed to read file: "+err.Error(), http.StatusBadRequest)
		return
	}

	res, err := h.session(r).Import(r.Context(), header.Filename, data)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toImportResponse(header.Filename, res))
}

type pendingResponse struct {
	File    string                         `json:"file"`
	Pending []invoiceHandler.DraftResponse `json:"pending"`
}

func (h *Handler) pending(w http.ResponseWriter, r *http.Request) {
	s := h.session(r)

	respond.JSON(w, http.StatusOK, pendingResponse{
		File:    s.PendingFile(),
		Pending: invoiceHandler.ToDraftResponses(s.Pending()),
	})
}

func (h *Handler) discard(w http.ResponseWriter, r *http.Request) {
	h.session(r).DiscardPending()
	w.WriteHeader(http.StatusNoContent)
}

type commitResponse struct {
	Inserted int      `json:"inserted"`
	Skipped  []string `json:"skipped"`
	NoneNew  bool     `json:"none_new"`
}

func (h *Handler) commit(w http.ResponseWriter, r *http.Request) {
	res, err := h.session(r).Commit(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	resp := commitResponse{
		Inserted: len(res.Inserted),
		Skipped:  make([]string, 0, len(res.Skipped)),
		NoneNew:  res.NoneNew(),
	}

	for _, d := range res.Skipped {
		resp.Skipped = append(resp.Skipped, d.Number)
	}

	status := http.StatusCreated
	if res.NoneNew() {
		status = http.StatusOK
	}

	respond.JSON(w, status, resp)
}
