package store

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/facturas/internal/invoice"
)

// DB is the subset of *pgxpool.Pool the store needs.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Store struct {
	db DB
}

func New(db DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanInvoice reads an invoice row.
// Expected column order: id, tenant, invoice_number, date, concept, gross_amount, net_amount, payment_method, client, created_at, updated_at
func scanInvoice(s scanner) (*invoice.Invoice, error) {
	var inv invoice.Invoice

	var method string

	if err := s.Scan(
		&inv.ID, &inv.Tenant, &inv.Number, &inv.Date, &inv.Concept,
		&inv.Gross, &inv.Net, &method, &inv.Client,
		&inv.CreatedAt, &inv.UpdatedAt,
	); err != nil {
		return nil, err
	}

	inv.PaymentMethod = invoice.PaymentMethod(method)
	inv.Date = inv.Date.UTC()

	return &inv, nil
}

const selectInvoiceColumns = `
	id, tenant, invoice_number, date, concept, gross_amount, net_amount,
	payment_method, client, created_at, updated_at
`

func (s *Store) ListInvoices(ctx context.Context, tenant string) ([]*invoice.Invoice, error) {
	query := `SELECT ` + selectInvoiceColumns + `
		FROM invoices
		WHERE tenant = $1
		ORDER BY date DESC, invoice_number DESC`

	rows, err := s.db.Query(ctx, query, tenant)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	defer rows.Close()

	var invs []*invoice.Invoice

	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning invoice: %w", err)
		}

		invs = append(invs, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating invoices: %w", err)
	}

	return invs, nil
}

func (s *Store) GetInvoice(ctx context.Context, tenant, number string) (*invoice.Invoice, error) {
	query := `SELECT ` + selectInvoiceColumns + `
		FROM invoices
		WHERE tenant = $1 AND invoice_number = $2`

	inv, err := scanInvoice(s.db.QueryRow(ctx, query, tenant, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, invoice.ErrNotFound
		}

		return nil, fmt.Errorf("getting invoice: %w", err)
	}

	return inv, nil
}

// ReplaceInvoice overwrites the row stored under number, renaming it when inv carries a new number.
func (s *Store) ReplaceInvoice(ctx context.Context, number string, inv *invoice.Invoice) error {
	query := `
		UPDATE invoices
		SET invoice_number = $1, date = $2, concept = $3, gross_amount = $4, net_amount = $5,
			payment_method = $6, client = $7, updated_at = NOW()
		WHERE tenant = $8 AND invoice_number = $9
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRow(ctx, query,
		inv.Number,
		inv.Date,
		inv.Concept,
		inv.Gross,
		inv.Net,
		string(inv.PaymentMethod),
		inv.Client,
		inv.Tenant,
		number,
	).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return invoice.ErrNotFound
		}

		return fmt.Errorf("updating invoice: %w", err)
	}

	return nil
}

func (s *Store) DeleteInvoice(ctx context.Context, tenant, number string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM invoices WHERE tenant = $1 AND invoice_number = $2`, tenant, number)
	if err != nil {
		return fmt.Errorf("deleting invoice: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return invoice.ErrNotFound
	}

	return nil
}

// DeleteBetween removes invoices dated in [from, to).
func (s *Store) DeleteBetween(ctx context.Context, tenant string, from, to time.Time) (int64, error) {
	query := `DELETE FROM invoices WHERE tenant = $1 AND date >= $2 AND date < $3`

	tag, err := s.db.Exec(ctx, query, tenant, from, to)
	if err != nil {
		return 0, fmt.Errorf("deleting period: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (s *Store) DeleteAll(ctx context.Context, tenant string) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM invoices WHERE tenant = $1`, tenant)
	if err != nil {
		return 0, fmt.Errorf("clearing invoices: %w", err)
	}

	return tag.RowsAffected(), nil
}

func importLockKey(tenant string) int64 {
	h := fnv.New64a()
	h.Write([]byte("invoices"))
	h.Write([]byte{0})
	h.Write([]byte(tenant))

	return int64(h.Sum64())
}

type importTx struct {
	tx     pgx.Tx
	tenant string
}

// BeginImport opens a transaction holding the tenant's import lock until commit or rollback.
func (s *Store) BeginImport(ctx context.Context, tenant string) (invoice.ImportTx, error) {
	dbTx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning import tx: %w", err)
	}

	if _, err := dbTx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", importLockKey(tenant)); err != nil {
		_ = dbTx.Rollback(ctx)
		return nil, fmt.Errorf("acquiring import lock: %w", err)
	}

	return &importTx{tx: dbTx, tenant: tenant}, nil
}

func (itx *importTx) Commit(ctx context.Context) error   { return itx.tx.Commit(ctx) }
func (itx *importTx) Rollback(ctx context.Context) error { return itx.tx.Rollback(ctx) }

func (itx *importTx) ExistingNumbers(ctx context.Context) ([]string, error) {
	rows, err := itx.tx.Query(ctx, `SELECT invoice_number FROM invoices WHERE tenant = $1`, itx.tenant)
	if err != nil {
		return nil, fmt.Errorf("listing invoice numbers: %w", err)
	}
	defer rows.Close()

	var numbers []string

	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scanning invoice number: %w", err)
		}

		numbers = append(numbers, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating invoice numbers: %w", err)
	}

	return numbers, nil
}

func (itx *importTx) CreateInvoices(ctx context.Context, invs []*invoice.Invoice) error {
	query := `
		INSERT INTO invoices (id, tenant, invoice_number, date, concept, gross_amount, net_amount,
			payment_method, client, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	for _, inv := range invs {
		err := itx.tx.QueryRow(ctx, query,
			inv.ID,
			itx.tenant,
			inv.Number,
			inv.Date,
			inv.Concept,
			inv.Gross,
			inv.Net,
			string(inv.PaymentMethod),
			inv.Client,
		).Scan(&inv.CreatedAt, &inv.UpdatedAt)
		if err != nil {
			return fmt.Errorf("creating invoice %s: %w", inv.Number, err)
		}
	}

	return nil
}
