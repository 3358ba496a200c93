package stats

import (
	"cmp"
	"slices"
	"time"

	"github.com/MrJamesThe3rd/facturas/internal/invoice"
)

// Period is one calendar month of the ledger.
type Period struct {
	Key      string // MM/YYYY
	Month    time.Month
	Year     int
	Total    int64
	Invoices []*invoice.Invoice
}

// Periods groups the ledger by month, newest month first.
// Invoices keep their relative order within a month.
func Periods(invs []*invoice.Invoice) []Period {
	index := make(map[monthKey]int)

	var periods []Period

	for _, inv := range invs {
		key := monthKey{year: inv.Date.Year(), month: inv.Date.Month()}

		i, ok := index[key]
		if !ok {
			i = len(periods)
			index[key] = i
			periods = append(periods, Period{
				Key:   invoice.Period(inv.Date),
				Month: key.month,
				Year:  key.year,
			})
		}

		periods[i].Total += inv.Gross
		periods[i].Invoices = append(periods[i].Invoices, inv)
	}

	slices.SortStableFunc(periods, func(a, b Period) int {
		return cmp.Or(cmp.Compare(b.Year, a.Year), cmp.Compare(b.Month, a.Month))
	})

	return periods
}
