package pos

import (
	"slices"
	"strings"

	"github.com/MrJamesThe3rd/facturas/internal/importer/sheet"
)

// Shape tells how the rows of a grid are laid out.
type Shape string

const (
	// ShapeRaw is a point-of-sale export located by its amount header.
	ShapeRaw Shape = "raw"
	// ShapeCanonical is a ledger export: date, concept, gross, net, number, payment, client.
	ShapeCanonical Shape = "canonical"
)

// Positions used when no amount header can be found.
const (
	DefaultHeaderRow = 3
	DefaultAmountCol = 5
	DefaultNotesCol  = 7
)

// NoColumn marks an optional column that is absent.
const NoColumn = -1

var (
	amountLabels = []string{"importe", "amount"}
	notesLabels  = []string{"notas", "nota", "notes"}

	// Substrings that identify the first row of a ledger export.
	canonicalDate    = []string{"fecha", "date"}
	canonicalConcept = []string{"concepto", "concept"}
	canonicalAmount  = []string{"importe", "amount"}
)

// Layout locates the data of a grid.
type Layout struct {
	Shape     Shape
	HeaderRow int
	AmountCol int
	NotesCol  int

	// Detected is false when the raw defaults were used.
	Detected bool
}

// Detect classifies the grid and, for raw exports, finds the header row and
// the amount and notes columns.
func Detect(g sheet.Grid) Layout {
	if len(g) > 0 && isCanonicalHeader(g[0]) {
		return Layout{
			Shape:     ShapeCanonical,
			HeaderRow: 0,
			AmountCol: 2,
			NotesCol:  NoColumn,
			Detected:  true,
		}
	}

	for rowIdx, row := range g {
		amountCol := findLabel(row, amountLabels)
		if amountCol == NoColumn {
			continue
		}

		return Layout{
			Shape:     ShapeRaw,
			HeaderRow: rowIdx,
			AmountCol: amountCol,
			NotesCol:  findLabel(row, notesLabels),
			Detected:  true,
		}
	}

	return Layout{
		Shape:     ShapeRaw,
		HeaderRow: DefaultHeaderRow,
		AmountCol: DefaultAmountCol,
		NotesCol:  DefaultNotesCol,
	}
}

// DataRows returns the rows after the header that have at least one non-empty cell.
func (l Layout) DataRows(g sheet.Grid) [][]string {
	var rows [][]string

	for i := l.HeaderRow + 1; i < len(g); i++ {
		if sheet.Blank(g[i]) {
			continue
		}

		rows = append(rows, g[i])
	}

	return rows
}

func isCanonicalHeader(row []string) bool {
	return rowContains(row, canonicalDate) &&
		rowContains(row, canonicalConcept) &&
		rowContains(row, canonicalAmount)
}

// rowContains reports whether any cell contains one of the substrings.
func rowContains(row []string, subs []string) bool {
	for _, cell := range row {
		c := strings.ToLower(cell)
		for _, s := range subs {
			if strings.Contains(c, s) {
				return true
			}
		}
	}

	return false
}

// findLabel returns the index of the first cell exactly matching one of labels.
func findLabel(row []string, labels []string) int {
	for i, cell := range row {
		if slices.Contains(labels, strings.ToLower(strings.TrimSpace(cell))) {
			return i
		}
	}

	return NoColumn
}
