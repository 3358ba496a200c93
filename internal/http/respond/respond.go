package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/facturas/internal/concept"
	"github.com/MrJamesThe3rd/facturas/internal/importer/sheet"
	"github.com/MrJamesThe3rd/facturas/internal/invoice"
)

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Error writes err with the status matching its kind.
func Error(w http.ResponseWriter, err error) {
	var perr *invoice.PersistenceError

	switch {
	case errors.Is(err, sheet.ErrEmptyInput),
		errors.Is(err, sheet.ErrInvalidFileType),
		errors.Is(err, invoice.ErrInvalidPeriod),
		errors.Is(err, concept.ErrInvalidAmount),
		errors.Is(err, concept.ErrEmptyLabel):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, invoice.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.As(err, &perr):
		slog.Error("ledger store failed", "op", perr.Op, "error", perr.Err)
		http.Error(w, perr.Error(), http.StatusBadGateway)
	default:
		slog.Error("request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
