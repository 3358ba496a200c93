package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/facturas/internal/invoice"
)

var invoiceColumns = []string{
	"id", "tenant", "invoice_number", "date", "concept", "gross_amount", "net_amount",
	"payment_method", "client", "created_at", "updated_at",
}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return mock
}

func TestStore_ListInvoices(t *testing.T) {
	mock := newMock(t)
	s := New(mock)

	now := time.Now()
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT .* FROM invoices\s+WHERE tenant = \$1\s+ORDER BY date DESC`).
		WithArgs("acme").
		WillReturnRows(pgxmock.NewRows(invoiceColumns).
			AddRow(uuid.New(), "acme", "FAC-002", day, "Diseño de cejas", int64(2000), int64(1653),
				"Bizum", "Ana López", now, &now).
			AddRow(uuid.New(), "acme", "FAC-001", day, "Depilación de cejas", int64(1000), int64(826),
				"Ingreso en cuenta", invoice.WalkInClient, now, &now))

	invs, err := s.ListInvoices(context.Background(), "acme")
	require.NoError(t, err)
	require.Len(t, invs, 2)

	assert.Equal(t, "FAC-002", invs[0].Number)
	assert.Equal(t, invoice.PaymentBizum, invs[0].PaymentMethod)
	assert.Equal(t, int64(1653), invs[0].Net)
	assert.Equal(t, invoice.PaymentDeposit, invs[1].PaymentMethod)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_GetInvoice_NotFound(t *testing.T) {
	mock := newMock(t)
	s := New(mock)

	mock.ExpectQuery(`SELECT .* FROM invoices`).
		WithArgs("acme", "FAC-404").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetInvoice(context.Background(), "acme", "FAC-404")
	assert.ErrorIs(t, err, invoice.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_DeleteInvoice(t *testing.T) {
	type testCase struct {
		name     string
		affected int64
		wantErr  error
	}

	tests := []testCase{
		{name: "Deleted", affected: 1},
		{name: "Missing", affected: 0, wantErr: invoice.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			s := New(mock)

			mock.ExpectExec(`DELETE FROM invoices WHERE tenant = \$1 AND invoice_number = \$2`).
				WithArgs("acme", "FAC-001").
				WillReturnResult(pgxmock.NewResult("DELETE", tt.affected))

			err := s.DeleteInvoice(context.Background(), "acme", "FAC-001")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestStore_DeleteBetween(t *testing.T) {
	mock := newMock(t)
	s := New(mock)

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	mock.ExpectExec(`DELETE FROM invoices WHERE tenant = \$1 AND date >= \$2 AND date < \$3`).
		WithArgs("acme", from, to).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	n, err := s.DeleteBetween(context.Background(), "acme", from, to)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_ReplaceInvoice_NotFound(t *testing.T) {
	mock := newMock(t)
	s := New(mock)

	inv := &invoice.Invoice{Tenant: "acme", Number: "FAC-009", PaymentMethod: invoice.PaymentBizum}

	mock.ExpectQuery(`UPDATE invoices`).
		WithArgs("FAC-009", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			"Bizum", pgxmock.AnyArg(), "acme", "FAC-009").
		WillReturnError(pgx.ErrNoRows)

	err := s.ReplaceInvoice(context.Background(), "FAC-009", inv)
	assert.ErrorIs(t, err, invoice.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Import(t *testing.T) {
	mock := newMock(t)
	s := New(mock)
	ctx := context.Background()

	now := time.Now()
	inv := &invoice.Invoice{
		ID:            uuid.New(),
		Number:        "FAC-003",
		Date:          time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC),
		Concept:       "Tratamiento facial",
		Gross:         4000,
		Net:           3306,
		PaymentMethod: invoice.PaymentTransfer,
		Client:        invoice.WalkInClient,
	}

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock\(\$1\)`).
		WithArgs(importLockKey("acme")).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectQuery(`SELECT invoice_number FROM invoices WHERE tenant = \$1`).
		WithArgs("acme").
		WillReturnRows(pgxmock.NewRows([]string{"invoice_number"}).AddRow("FAC-001").AddRow("FAC-002"))
	mock.ExpectQuery(`INSERT INTO invoices`).
		WithArgs(inv.ID, "acme", "FAC-003", inv.Date, "Tratamiento facial", int64(4000), int64(3306),
			"Transferencia bancaria", invoice.WalkInClient).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, &now))
	mock.ExpectCommit()

	itx, err := s.BeginImport(ctx, "acme")
	require.NoError(t, err)

	numbers, err := itx.ExistingNumbers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"FAC-001", "FAC-002"}, numbers)

	require.NoError(t, itx.CreateInvoices(ctx, []*invoice.Invoice{inv}))
	require.NoError(t, itx.Commit(ctx))

	assert.Equal(t, now, inv.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_BeginImport_LockFailure(t *testing.T) {
	mock := newMock(t)
	s := New(mock)

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock`).
		WithArgs(importLockKey("acme")).
		WillReturnError(errors.New("lock timeout"))
	mock.ExpectRollback()

	_, err := s.BeginImport(context.Background(), "acme")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "acquiring import lock")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImportLockKey(t *testing.T) {
	assert.Equal(t, importLockKey("acme"), importLockKey("acme"))
	assert.NotEqual(t, importLockKey("acme"), importLockKey("other"))
}
