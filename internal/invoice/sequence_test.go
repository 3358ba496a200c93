package invoice_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/facturas/internal/invoice"
)

func TestNextStart(t *testing.T) {
	type args struct {
		existing   []string
		configured int
	}

	type testCase struct {
		name string
		args args
		want int
	}

	tests := []testCase{
		{name: "EmptyLedger", args: args{configured: 1}, want: 1},
		{name: "EmptyLedgerCustomStart", args: args{configured: 50}, want: 50},
		{name: "ContinuesFromHighest", args: args{existing: []string{"FAC-003", "FAC-010", "FAC-002"}, configured: 1}, want: 11},
		{name: "IgnoresConfiguredWhenLedgerHasNumbers", args: args{existing: []string{"FAC-004"}, configured: 100}, want: 5},
		{name: "MixedPrefixes", args: args{existing: []string{"A-7", "2024/0012"}, configured: 1}, want: 13},
		{name: "NoNumericSuffix", args: args{existing: []string{"MANUAL", "X-"}, configured: 3}, want: 3},
		{name: "BareNumbers", args: args{existing: []string{"001", "002"}, configured: 1}, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, invoice.NextStart(tt.args.existing, tt.args.configured))
		})
	}
}

func TestSequence(t *testing.T) {
	drafts := []invoice.Draft{{Concept: "a"}, {Concept: "b"}, {Concept: "c"}}

	got := invoice.Sequence(drafts, "FAC-", 9)
	require.Len(t, got, 3)

	assert.Equal(t, "FAC-009", got[0].Number)
	assert.Equal(t, "FAC-010", got[1].Number)
	assert.Equal(t, "FAC-011", got[2].Number)
	assert.Empty(t, drafts[0].Number)
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "001", invoice.FormatNumber("", 1))
	assert.Equal(t, "FAC-1234", invoice.FormatNumber("FAC-", 1234))
}

func TestNetFromGross(t *testing.T) {
	for _, g := range []string{"10", "20", "40", "60", "220", "600", "12.34", "0.01", "99.99", "1234.56"} {
		t.Run(g, func(t *testing.T) {
			gross := decimal.RequireFromString(g)
			want := gross.Div(decimal.RequireFromString("1.21")).Round(2)

			assert.Equal(t, want.Mul(decimal.NewFromInt(100)).IntPart(), invoice.NetFromGross(gross))
		})
	}

	assert.Equal(t, int64(3306), invoice.NetFromGross(decimal.NewFromInt(40)))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "€40.00", invoice.FormatAmount(4000))
	assert.Equal(t, "€0.05", invoice.FormatAmount(5))
	assert.Equal(t, "€1234.56", invoice.FormatAmount(123456))
}

func TestParsePaymentMethod(t *testing.T) {
	type testCase struct {
		name   string
		input  string
		want   invoice.PaymentMethod
		wantOK bool
	}

	tests := []testCase{
		{name: "Transfer", input: "Transferencia bancaria", want: invoice.PaymentTransfer, wantOK: true},
		{name: "LowerCase", input: "ingreso en cuenta", want: invoice.PaymentDeposit, wantOK: true},
		{name: "Padded", input: " BIZUM ", want: invoice.PaymentBizum, wantOK: true},
		{name: "Cash", input: "Efectivo"},
		{name: "Empty", input: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := invoice.ParsePaymentMethod(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
