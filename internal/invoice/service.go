package invoice

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=invoice
type Repository interface {
	ListInvoices(ctx context.Context, tenant string) ([]*Invoice, error)
	GetInvoice(ctx context.Context, tenant, number string) (*Invoice, error)
	ReplaceInvoice(ctx context.Context, number string, inv *Invoice) error
	DeleteInvoice(ctx context.Context, tenant, number string) error
	DeleteBetween(ctx context.Context, tenant string, from, to time.Time) (int64, error)
	DeleteAll(ctx context.Context, tenant string) (int64, error)

	BeginImport(ctx context.Context, tenant string) (ImportTx, error)
}

// ImportTx holds the tenant's ledger locked while a batch is checked and inserted.
type ImportTx interface {
	ExistingNumbers(ctx context.Context) ([]string, error)
	CreateInvoices(ctx context.Context, invs []*Invoice) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CommitResult reports the outcome of committing pending rows.
type CommitResult struct {
	Inserted []*Invoice
	Skipped  []Draft
}

// NoneNew reports whether every pending row already existed in the ledger.
func (r *CommitResult) NoneNew() bool {
	return len(r.Inserted) == 0
}

// List returns the tenant's ledger, newest first.
func (s *Service) List(ctx context.Context, tenant string) ([]*Invoice, error) {
	invs, err := s.repo.ListInvoices(ctx, tenant)
	if err != nil {
		return nil, Persistence("loading ledger", err)
	}

	return invs, nil
}

func (s *Service) Get(ctx context.Context, tenant, number string) (*Invoice, error) {
	inv, err := s.repo.GetInvoice(ctx, tenant, number)
	if err != nil {
		return nil, Persistence("loading invoice", err)
	}

	return inv, nil
}

// Commit inserts the drafts whose invoice number is not yet in the ledger.
// Nothing is written when all of them already exist.
func (s *Service) Commit(ctx context.Context, tenant string, drafts []Draft) (*CommitResult, error) {
	if len(drafts) == 0 {
		return &CommitResult{}, nil
	}

	itx, err := s.repo.BeginImport(ctx, tenant)
	if err != nil {
		return nil, Persistence("begin import", err)
	}
	defer itx.Rollback(ctx)

	existing, err := itx.ExistingNumbers(ctx)
	if err != nil {
		return nil, Persistence("reading invoice numbers", err)
	}

	seen := make(map[string]struct{}, len(existing)+len(drafts))
	for _, n := range existing {
		seen[n] = struct{}{}
	}

	result := &CommitResult{}

	var fresh []Draft

	for _, d := range drafts {
		if _, dup := seen[d.Number]; dup {
			result.Skipped = append(result.Skipped, d)
			continue
		}

		seen[d.Number] = struct{}{}
		fresh = append(fresh, d)
	}

	if len(fresh) == 0 {
		return result, nil
	}

	invs := draftsToInvoices(tenant, fresh)
	if err := itx.CreateInvoices(ctx, invs); err != nil {
		return nil, Persistence("inserting invoices", err)
	}

	if err := itx.Commit(ctx); err != nil {
		return nil, Persistence("commit import", err)
	}

	result.Inserted = invs

	return result, nil
}

// Update replaces the invoice stored under number with d.
func (s *Service) Update(ctx context.Context, tenant, number string, d Draft) (*Invoice, error) {
	if d.Number == "" {
		d.Number = number
	}

	inv := &Invoice{
		Tenant:        tenant,
		Number:        d.Number,
		Date:          d.Date,
		Concept:       d.Concept,
		Gross:         d.Gross,
		Net:           d.Net,
		PaymentMethod: d.PaymentMethod,
		Client:        d.Client,
	}

	if err := s.repo.ReplaceInvoice(ctx, number, inv); err != nil {
		return nil, Persistence("updating invoice", err)
	}

	return inv, nil
}

func (s *Service) Delete(ctx context.Context, tenant, number string) error {
	return Persistence("deleting invoice", s.repo.DeleteInvoice(ctx, tenant, number))
}

// DeletePeriod removes every invoice dated within the given calendar month.
func (s *Service) DeletePeriod(ctx context.Context, tenant string, month time.Month, year int) (int64, error) {
	if month < time.January || month > time.December || year < 1 {
		return 0, fmt.Errorf("%w: %02d/%d", ErrInvalidPeriod, int(month), year)
	}

	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	n, err := s.repo.DeleteBetween(ctx, tenant, from, to)
	if err != nil {
		return 0, Persistence("deleting period", err)
	}

	return n, nil
}

// Clear removes the tenant's whole ledger.
func (s *Service) Clear(ctx context.Context, tenant string) (int64, error) {
	n, err := s.repo.DeleteAll(ctx, tenant)
	if err != nil {
		return 0, Persistence("clearing ledger", err)
	}

	return n, nil
}

func draftsToInvoices(tenant string, drafts []Draft) []*Invoice {
	invs := make([]*Invoice, len(drafts))
	for i, d := range drafts {
		invs[i] = &Invoice{
			ID:            uuid.New(),
			Tenant:        tenant,
			Number:        d.Number,
			Date:          d.Date,
			Concept:       d.Concept,
			Gross:         d.Gross,
			Net:           d.Net,
			PaymentMethod: d.PaymentMethod,
			Client:        d.Client,
		}
	}

	return invs
}
