package respond_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/facturas/internal/concept"
	"github.com/MrJamesThe3rd/facturas/internal/http/respond"
	"github.com/MrJamesThe3rd/facturas/internal/importer/sheet"
	"github.com/MrJamesThe3rd/facturas/internal/invoice"
)

func TestError(t *testing.T) {
	type testCase struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}

	tests := []testCase{
		{name: "EmptyInput", err: fmt.Errorf("reading: %w", sheet.ErrEmptyInput), wantStatus: http.StatusBadRequest},
		{name: "InvalidFileType", err: sheet.ErrInvalidFileType, wantStatus: http.StatusBadRequest},
		{name: "InvalidAmount", err: concept.ErrInvalidAmount, wantStatus: http.StatusBadRequest},
		{name: "NotFound", err: invoice.ErrNotFound, wantStatus: http.StatusNotFound},
		{
			name:       "Persistence",
			err:        &invoice.PersistenceError{Op: "loading ledger", Err: errors.New("connection refused")},
			wantStatus: http.StatusBadGateway,
			wantBody:   "loading ledger: connection refused",
		},
		{name: "Other", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantBody: "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respond.Error(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
}
