package pos

import (
	"strings"
	"time"

	"github.com/MrJamesThe3rd/facturas/internal/invoice"
)

// ParseDate reads a day/month/year date such as "5/3/24" or "05/03/2024".
// Anything else yields the calendar day of now.
func ParseDate(s string, now time.Time) time.Time {
	s = strings.TrimSpace(strings.NewReplacer(`"`, "", "'", "").Replace(s))

	// Spreadsheet cells may carry a time of day after the date.
	if before, _, ok := strings.Cut(s, " "); ok {
		s = before
	}

	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return today(now)
	}

	day, month, year := parts[0], parts[1], parts[2]

	if len(day) == 1 {
		day = "0" + day
	}

	if len(month) == 1 {
		month = "0" + month
	}

	if len(year) == 2 {
		year = "20" + year
	}

	t, err := time.Parse(invoice.DateLayout, day+"/"+month+"/"+year)
	if err != nil {
		return today(now)
	}

	return t
}

func today(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
