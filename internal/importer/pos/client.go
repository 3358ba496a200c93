package pos

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/MrJamesThe3rd/facturas/internal/invoice"
)

var receivedMarker = regexp.MustCompile(`(?i)(?:recibido|received)\s*:\s*(.*)`)

// ExtractClient finds the name after a "RECIBIDO:" marker in a notes cell and
// title-cases it. Notes without a marker belong to the walk-in client.
func ExtractClient(notes string) string {
	m := receivedMarker.FindStringSubmatch(notes)
	if m == nil {
		return invoice.WalkInClient
	}

	words := strings.Fields(m[1])
	if len(words) == 0 {
		return invoice.WalkInClient
	}

	// A Caser keeps state, so each call gets its own.
	return cases.Title(language.Spanish).String(strings.Join(words, " "))
}
