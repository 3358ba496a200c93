// Package stats computes ledger-wide rollups. Everything here is a pure function of the ledger.
package stats

import (
	"cmp"
	"slices"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/facturas/internal/invoice"
)

// TopClientsLimit caps the client ranking.
const TopClientsLimit = 5

type ConceptStat struct {
	Concept string
	Count   int
	Revenue int64
}

type ClientStat struct {
	Client  string
	Visits  int
	Revenue int64
}

type MonthStat struct {
	Period  string // MM/YYYY
	Month   time.Month
	Year    int
	Count   int
	Revenue int64
}

type PaymentStat struct {
	Method invoice.PaymentMethod
	Count  int
}

// Summary holds the rollups of a ledger. Amounts are in cents.
type Summary struct {
	Total      int64
	Count      int
	Concepts   []ConceptStat // by revenue, highest first
	TopClients []ClientStat  // by visits, walk-in customers excluded
	Months     []MonthStat   // chronological
	Payments   []PaymentStat // by count, highest first
}

// Average returns the mean gross amount in euros, unrounded.
// ok is false for an empty ledger.
func (s Summary) Average() (avg decimal.Decimal, ok bool) {
	if s.Count == 0 {
		return decimal.Zero, false
	}

	return decimal.New(s.Total, -2).Div(decimal.NewFromInt(int64(s.Count))), true
}

// AverageCents returns the mean gross amount rounded to the cent.
func (s Summary) AverageCents() (int64, bool) {
	avg, ok := s.Average()
	if !ok {
		return 0, false
	}

	return invoice.Cents(avg), true
}

type monthKey struct {
	year  int
	month time.Month
}

// Compute aggregates the ledger.
func Compute(invs []*invoice.Invoice) Summary {
	var s Summary

	concepts := make(map[string]*ConceptStat)
	clients := make(map[string]*ClientStat)
	months := make(map[monthKey]*MonthStat)
	payments := make(map[invoice.PaymentMethod]*PaymentStat)

	for _, inv := range invs {
		s.Total += inv.Gross
		s.Count++

		c, ok := concepts[inv.Concept]
		if !ok {
			c = &ConceptStat{Concept: inv.Concept}
			concepts[inv.Concept] = c
		}

		c.Count++
		c.Revenue += inv.Gross

		if inv.Client != invoice.WalkInClient && inv.Client != "" {
			cl, ok := clients[inv.Client]
			if !ok {
				cl = &ClientStat{Client: inv.Client}
				clients[inv.Client] = cl
			}

			cl.Visits++
			cl.Revenue += inv.Gross
		}

		key := monthKey{year: inv.Date.Year(), month: inv.Date.Month()}

		m, ok := months[key]
		if !ok {
			m = &MonthStat{Period: invoice.Period(inv.Date), Month: key.month, Year: key.year}
			months[key] = m
		}

		m.Count++
		m.Revenue += inv.Gross

		p, ok := payments[inv.PaymentMethod]
		if !ok {
			p = &PaymentStat{Method: inv.PaymentMethod}
			payments[inv.PaymentMethod] = p
		}

		p.Count++
	}

	s.Concepts = sorted(concepts, func(a, b ConceptStat) int {
		return cmp.Or(cmp.Compare(b.Revenue, a.Revenue), cmp.Compare(a.Concept, b.Concept))
	})

	s.TopClients = sorted(clients, func(a, b ClientStat) int {
		return cmp.Or(
			cmp.Compare(b.Visits, a.Visits),
			cmp.Compare(b.Revenue, a.Revenue),
			cmp.Compare(a.Client, b.Client),
		)
	})
	if len(s.TopClients) > TopClientsLimit {
		s.TopClients = s.TopClients[:TopClientsLimit]
	}

	s.Months = sorted(months, func(a, b MonthStat) int {
		return cmp.Or(cmp.Compare(a.Year, b.Year), cmp.Compare(a.Month, b.Month))
	})

	s.Payments = sorted(payments, func(a, b PaymentStat) int {
		return cmp.Or(cmp.Compare(b.Count, a.Count), cmp.Compare(a.Method, b.Method))
	})

	return s
}

func sorted[K comparable, V any](m map[K]*V, less func(a, b V) int) []V {
	out := make([]V, 0, len(m))
	for _, v := range m {
		out = append(out, *v)
	}

	slices.SortFunc(out, less)

	return out
}

// FormatEUR renders cents for display, e.g. "€1,234.50".
func FormatEUR(cents int64) string {
	return money.New(cents, money.EUR).Display()
}
