package concept

import (
	"maps"

	"github.com/shopspring/decimal"
)

// FallbackLabel names a row whose amount has no mapping.
const FallbackLabel = "Cejas"

// Table maps a gross amount key (as produced by Key) to a service label.
type Table map[string]string

var defaults = Table{
	"10":  "Depilación de cejas",
	"20":  "Diseño de cejas",
	"40":  "Tratamiento facial",
	"60":  "Pack de belleza facial",
	"220": "Tratamiento combinado",
	"600": "Alquiler local",
}

// DefaultTable returns a copy of the built-in amount to service mapping.
func DefaultTable() Table {
	return maps.Clone(defaults)
}

// Key renders an amount in its shortest decimal form, so 40, 40.0 and 40.00 share a key.
func Key(amount decimal.Decimal) string {
	return amount.String()
}

// Lookup returns the label for amount, or FallbackLabel when none is mapped.
func (t Table) Lookup(amount decimal.Decimal) string {
	if label, ok := t[Key(amount)]; ok {
		return label
	}

	return FallbackLabel
}

// Merge returns a new table where entries from overrides replace those of t.
func (t Table) Merge(overrides map[string]string) Table {
	out := maps.Clone(t)
	if out == nil {
		out = Table{}
	}

	maps.Copy(out, overrides)

	return out
}
