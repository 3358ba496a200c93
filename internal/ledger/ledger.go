// Package ledger keeps per-tenant working state: the rows of the last imported
// file that have not been committed yet, and a cached copy of the persisted ledger.
//
// The database is the source of truth. The cached ledger is re-read after every
// mutation, never patched in place.
package ledger

import (
	"context"
	"fmt"
	"hash/fnv"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/MrJamesThe3rd/facturas/internal/concept"
	"github.com/MrJamesThe3rd/facturas/internal/importer"
	"github.com/MrJamesThe3rd/facturas/internal/invoice"
	"github.com/MrJamesThe3rd/facturas/internal/stats"
)

// Config holds the numbering and placeholder settings shared by every session.
type Config struct {
	Prefix string
	Start  int

	// PaymentSeed makes placeholder payment methods reproducible when non-zero.
	PaymentSeed uint64

	Now func() time.Time
}

// Manager hands out one Session per tenant.
type Manager struct {
	invoices *invoice.Service
	concepts *concept.Service
	importer *importer.Service
	cfg      Config

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(invoices *invoice.Service, concepts *concept.Service, imp *importer.Service, cfg Config) *Manager {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Manager{
		invoices: invoices,
		concepts: concepts,
		importer: imp,
		cfg:      cfg,
		sessions: make(map[string]*Session),
	}
}

// Session returns the tenant's session, creating it on first use.
func (m *Manager) Session(tenant string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[tenant]
	if !ok {
		s = &Session{
			tenant:   tenant,
			invoices: m.invoices,
			concepts: m.concepts,
			importer: m.importer,
			cfg:      m.cfg,
			rand:     sessionRand(m.cfg.PaymentSeed, tenant),
		}
		m.sessions[tenant] = s
	}

	return s
}

// sessionRand derives a per-tenant source so sessions never share one.
func sessionRand(seed uint64, tenant string) *rand.Rand {
	if seed == 0 {
		return nil
	}

	h := fnv.New64a()
	h.Write([]byte(tenant))

	return rand.New(rand.NewPCG(seed, h.Sum64()))
}

// Session is the working state of one tenant. It is safe for concurrent use.
type Session struct {
	tenant   string
	invoices *invoice.Service
	concepts *concept.Service
	importer *importer.Service
	cfg      Config
	rand     *rand.Rand

	mu          sync.Mutex
	pending     []invoice.Draft
	pendingFile string
	ledger      []*invoice.Invoice
	loaded      bool
}

func (s *Session) Tenant() string {
	return s.tenant
}

// Load re-reads the ledger from the store.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.refresh(ctx)
}

func (s *Session) refresh(ctx context.Context) error {
	invs, err := s.invoices.List(ctx, s.tenant)
	if err != nil {
		return err
	}

	s.ledger = invs
	s.loaded = true

	return nil
}

// refreshAfterWrite reloads the cache after a successful mutation. A failed
// reload leaves the cache stale so the next read retries.
func (s *Session) refreshAfterWrite(ctx context.Context, op string) {
	if err := s.refresh(ctx); err != nil {
		s.loaded = false
		slog.Warn("failed to reload ledger", "tenant", s.tenant, "op", op, "error", err)
	}
}

func (s *Session) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}

	return s.refresh(ctx)
}

// Invoices returns the persisted ledger, newest first.
func (s *Session) Invoices(ctx context.Context) ([]*invoice.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	return slices.Clone(s.ledger), nil
}

// Get reads a single row from the store rather than the cache.
func (s *Session) Get(ctx context.Context, number string) (*invoice.Invoice, error) {
	return s.invoices.Get(ctx, s.tenant, number)
}

// Search returns ledger rows whose number, client or concept fuzzily match query,
// optionally restricted to a MM/YYYY period. An empty query matches everything.
func (s *Session) Search(ctx context.Context, query, period string) ([]*invoice.Invoice, error) {
	invs, err := s.Invoices(ctx)
	if err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)

	var out []*invoice.Invoice

	for _, inv := range invs {
		if period != "" && invoice.Period(inv.Date) != period {
			continue
		}

		if query != "" && !matches(query, inv) {
			continue
		}

		out = append(out, inv)
	}

	return out, nil
}

func matches(query string, inv *invoice.Invoice) bool {
	for _, field := range []string{inv.Number, inv.Client, inv.Concept} {
		if fuzzy.MatchNormalizedFold(query, field) {
			return true
		}
	}

	return false
}

// Import normalizes a file and replaces the pending rows with its rows.
// Numbering continues after the highest number currently persisted.
func (s *Session) Import(ctx context.Context, filename string, data []byte) (*importer.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refresh(ctx); err != nil {
		return nil, err
	}

	table, err := s.concepts.Table(ctx, s.tenant)
	if err != nil {
		return nil, err
	}

	existing := make([]string, len(s.ledger))
	for i, inv := range s.ledger {
		existing[i] = inv.Number
	}

	result, err := s.importer.Import(filename, data, importer.Settings{
		Prefix:   s.cfg.Prefix,
		Start:    s.cfg.Start,
		Existing: existing,
		Concepts: table,
		Rand:     s.rand,
		Now:      s.cfg.Now,
	})
	if err != nil {
		return nil, err
	}

	s.pending = result.Drafts
	s.pendingFile = filename

	slog.Info("imported file",
		"tenant", s.tenant,
		"file", filename,
		"shape", result.Shape,
		"rows", len(result.Drafts),
		"dropped", result.Dropped(),
	)

	return result, nil
}

// Pending returns a copy of the uncommitted rows.
func (s *Session) Pending() []invoice.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.pending)
}

// PendingFile names the file the pending rows came from.
func (s *Session) PendingFile() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.pendingFile
}

func (s *Session) DiscardPending() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = nil
	s.pendingFile = ""
}

// Commit stores the pending rows that are not in the ledger yet.
// On failure the pending rows are kept so the commit can be retried.
func (s *Session) Commit(ctx context.Context) (*invoice.CommitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.invoices.Commit(ctx, s.tenant, s.pending)
	if err != nil {
		return nil, err
	}

	s.pending = nil
	s.pendingFile = ""

	slog.Info("committed pending rows",
		"tenant", s.tenant,
		"inserted", len(result.Inserted),
		"skipped", len(result.Skipped),
	)

	s.refreshAfterWrite(ctx, "commit")

	return result, nil
}

// Update replaces a persisted row.
func (s *Session) Update(ctx context.Context, number string, d invoice.Draft) (*invoice.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, err := s.invoices.Update(ctx, s.tenant, number, d)
	if err != nil {
		return nil, err
	}

	slog.Info("updated invoice", "tenant", s.tenant, "number", number)
	s.refreshAfterWrite(ctx, "update")

	return inv, nil
}

func (s *Session) Delete(ctx context.Context, number string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.invoices.Delete(ctx, s.tenant, number); err != nil {
		return err
	}

	slog.Info("deleted invoice", "tenant", s.tenant, "number", number)
	s.refreshAfterWrite(ctx, "delete")

	return nil
}

// DeletePeriod removes a calendar month of invoices.
func (s *Session) DeletePeriod(ctx context.Context, month time.Month, year int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.invoices.DeletePeriod(ctx, s.tenant, month, year)
	if err != nil {
		return 0, err
	}

	slog.Info("deleted period", "tenant", s.tenant, "period", fmt.Sprintf("%02d/%d", int(month), year), "count", n)
	s.refreshAfterWrite(ctx, "delete period")

	return n, nil
}

// Clear removes the whole ledger.
func (s *Session) Clear(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.invoices.Clear(ctx, s.tenant)
	if err != nil {
		return 0, err
	}

	slog.Info("cleared ledger", "tenant", s.tenant, "count", n)
	s.refreshAfterWrite(ctx, "clear")

	return n, nil
}

// Stats aggregates the persisted ledger.
func (s *Session) Stats(ctx context.Context) (stats.Summary, error) {
	invs, err := s.Invoices(ctx)
	if err != nil {
		return stats.Summary{}, err
	}

	return stats.Compute(invs), nil
}
