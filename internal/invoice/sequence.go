package invoice

import (
	"fmt"
	"regexp"
	"strconv"
)

var trailingDigits = regexp.MustCompile(`(\d+)$`)

// FormatNumber builds an invoice number: prefix plus a zero-padded sequence of at least 3 digits.
func FormatNumber(prefix string, n int) string {
	return fmt.Sprintf("%s%03d", prefix, n)
}

// NextStart returns the first sequence value for rows appended to a ledger that
// already holds the given invoice numbers. It falls back to configured when no
// existing number ends in digits.
func NextStart(existing []string, configured int) int {
	highest := -1

	for _, number := range existing {
		m := trailingDigits.FindStringSubmatch(number)
		if m == nil {
			continue
		}

		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}

		highest = max(highest, n)
	}

	if highest < 0 {
		return configured
	}

	return highest + 1
}

// Sequence assigns consecutive invoice numbers to drafts in their current order.
func Sequence(drafts []Draft, prefix string, start int) []Draft {
	out := make([]Draft, len(drafts))
	for i, d := range drafts {
		d.Number = FormatNumber(prefix, start+i)
		out[i] = d
	}

	return out
}
