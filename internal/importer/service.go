package importer

import (
	"math/rand/v2"
	"time"

	"github.com/MrJamesThe3rd/facturas/internal/concept"
	"github.com/MrJamesThe3rd/facturas/internal/importer/pos"
	"github.com/MrJamesThe3rd/facturas/internal/importer/sheet"
	"github.com/MrJamesThe3rd/facturas/internal/invoice"
)

// Settings configures one import run.
type Settings struct {
	Prefix string
	Start  int

	// Existing holds the invoice numbers already in the ledger; numbering continues after them.
	Existing []string

	Concepts concept.Table
	Rand     *rand.Rand
	Now      func() time.Time
}

// Result is the outcome of normalizing one file.
type Result struct {
	Shape  pos.Shape
	Layout pos.Layout
	Drafts []invoice.Draft

	// Candidates counts the data rows considered, including the ones dropped.
	Candidates int
}

// Dropped returns how many data rows could not be normalized.
func (r *Result) Dropped() int {
	return r.Candidates - len(r.Drafts)
}

type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Import decodes the file, normalizes its rows and numbers them.
func (s *Service) Import(filename string, data []byte, cfg Settings) (*Result, error) {
	grid, err := sheet.Read(filename, data)
	if err != nil {
		return nil, err
	}

	layout := pos.Detect(grid)

	drafts := pos.Parse(grid, layout, pos.Settings{
		Concepts: cfg.Concepts,
		Rand:     cfg.Rand,
		Now:      cfg.Now,
	})

	start := invoice.NextStart(cfg.Existing, cfg.Start)

	return &Result{
		Shape:      layout.Shape,
		Layout:     layout,
		Drafts:     invoice.Sequence(drafts, cfg.Prefix, start),
		Candidates: len(layout.DataRows(grid)),
	}, nil
}
