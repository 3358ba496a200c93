// Package pos normalizes point-of-sale spreadsheet exports into invoice drafts.
package pos

import (
	"math/rand/v2"
	"slices"
	"time"

	"github.com/MrJamesThe3rd/facturas/internal/concept"
	"github.com/MrJamesThe3rd/facturas/internal/importer/sheet"
	"github.com/MrJamesThe3rd/facturas/internal/invoice"
)

// Canonical column positions.
const (
	colDate = iota
	colConcept
	colGross
	colNet
	colNumber
	colPayment
	colClient
)

// Settings carries what normalization needs besides the grid.
type Settings struct {
	Concepts concept.Table

	// Rand picks placeholder payment methods. Nil uses the global source.
	Rand *rand.Rand

	// Now supplies the date used for rows without a readable one. Nil uses time.Now.
	Now func() time.Time
}

func (s Settings) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}

	return s.Now()
}

func (s Settings) paymentMethod() invoice.PaymentMethod {
	n := len(invoice.PaymentMethods)
	if s.Rand == nil {
		return invoice.PaymentMethods[rand.IntN(n)]
	}

	return invoice.PaymentMethods[s.Rand.IntN(n)]
}

// Parse turns the data rows of g into drafts without invoice numbers.
// Raw rows come back sorted by date, canonical rows keep their order.
func Parse(g sheet.Grid, l Layout, s Settings) []invoice.Draft {
	if s.Concepts == nil {
		s.Concepts = concept.DefaultTable()
	}

	rows := l.DataRows(g)

	if l.Shape == ShapeCanonical {
		return parseCanonical(rows, s)
	}

	return parseRaw(rows, l, s)
}

func parseRaw(rows [][]string, l Layout, s Settings) []invoice.Draft {
	now := s.now()

	var drafts []invoice.Draft

	for _, row := range rows {
		amount, err := ParseAmount(sheet.Value(row, l.AmountCol))
		if err != nil {
			continue
		}

		client := invoice.WalkInClient
		if l.NotesCol != NoColumn {
			if notes := sheet.Value(row, l.NotesCol); notes != "" {
				client = ExtractClient(notes)
			}
		}

		drafts = append(drafts, invoice.Draft{
			Date:          ParseDate(firstValue(row, 0, 1, 2), now),
			Concept:       s.Concepts.Lookup(amount),
			Gross:         invoice.Cents(amount),
			Net:           invoice.NetFromGross(amount),
			PaymentMethod: s.paymentMethod(),
			Client:        client,
		})
	}

	slices.SortStableFunc(drafts, func(a, b invoice.Draft) int {
		return a.Date.Compare(b.Date)
	})

	return drafts
}

func parseCanonical(rows [][]string, s Settings) []invoice.Draft {
	now := s.now()

	var drafts []invoice.Draft

	for _, row := range rows {
		date := sheet.Value(row, colDate)
		label := sheet.Value(row, colConcept)

		if date == "" || label == "" {
			continue
		}

		gross, err := ParseAmount(sheet.Value(row, colGross))
		if err != nil {
			continue
		}

		net := invoice.NetFromGross(gross)
		if n, err := ParseAmount(sheet.Value(row, colNet)); err == nil {
			net = invoice.Cents(n)
		}

		method, ok := invoice.ParsePaymentMethod(sheet.Value(row, colPayment))
		if !ok {
			method = s.paymentMethod()
		}

		client := sheet.Value(row, colClient)
		if client == "" {
			client = invoice.WalkInClient
		}

		drafts = append(drafts, invoice.Draft{
			Date:          ParseDate(date, now),
			Concept:       label,
			Gross:         invoice.Cents(gross),
			Net:           net,
			PaymentMethod: method,
			Client:        client,
		})
	}

	return drafts
}

// firstValue returns the first non-empty cell among cols.
func firstValue(row []string, cols ...int) string {
	for _, c := range cols {
		if v := sheet.Value(row, c); v != "" {
			return v
		}
	}

	return ""
}
