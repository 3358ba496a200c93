package pos

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ErrUnparseableAmount is returned for amount cells that are not a number.
var ErrUnparseableAmount = errors.New("unparseable amount")

// ParseAmount reads amounts like "40", "1234,56", "1234.56" or "€1234.56".
// Thousands separators are not supported.
func ParseAmount(s string) (decimal.Decimal, error) {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Sc, r) || unicode.IsSpace(r) || r == '"' || r == '\'' {
			return -1
		}

		return r
	}, s)

	cleaned = strings.Replace(cleaned, ",", ".", 1)
	if cleaned == "" {
		return decimal.Decimal{}, fmt.Errorf("%w: empty", ErrUnparseableAmount)
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrUnparseableAmount, s)
	}

	return d, nil
}
