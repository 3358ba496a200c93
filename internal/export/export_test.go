package export_test

import (
	"bytes"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/facturas/internal/concept"
	"github.com/MrJamesThe3rd/facturas/internal/export"
	"github.com/MrJamesThe3rd/facturas/internal/importer"
	"github.com/MrJamesThe3rd/facturas/internal/importer/pos"
	"github.com/MrJamesThe3rd/facturas/internal/invoice"
)

func drafts() []invoice.Draft {
	return []invoice.Draft{
		{
			Date:          time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
			Concept:       "Depilación de cejas",
			Gross:         1000,
			Net:           826,
			Number:        "FAC-001",
			PaymentMethod: invoice.PaymentBizum,
			Client:        invoice.WalkInClient,
		},
		{
			Date:          time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC),
			Concept:       `Pack "premium", facial`,
			Gross:         6050,
			Net:           5000,
			Number:        "FAC-002",
			PaymentMethod: invoice.PaymentTransfer,
			Client:        "Pérez, Juan",
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, drafts()))

	out := buf.Bytes()
	require.True(t, bytes.HasPrefix(out, []byte{0xEF, 0xBB, 0xBF}))

	lines := strings.Split(strings.TrimRight(string(out[3:]), "\n"), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t, "Fecha,Concepto,Importe (con IVA),Precio sin IVA,Número de factura,Forma de pago,Cliente", lines[0])
	assert.Equal(t, "05/03/2024,Depilación de cejas,€10.00,€8.26,FAC-001,Bizum,Consumidor final", lines[1])
	assert.Equal(t, `06/03/2024,"Pack ""premium"", facial",€60.50,€50.00,FAC-002,Transferencia bancaria,"Pérez, Juan"`, lines[2])
}

func reimport(t *testing.T, filename string, data []byte) []invoice.Draft {
	t.Helper()

	result, err := importer.NewService().Import(filename, data, importer.Settings{
		Prefix:   "NEW-",
		Start:    1,
		Concepts: concept.DefaultTable(),
		Rand:     rand.New(rand.NewPCG(1, 1)),
	})
	require.NoError(t, err)
	assert.Equal(t, pos.ShapeCanonical, result.Shape)

	return result.Drafts
}

func assertSameTriples(t *testing.T, want, got []invoice.Draft) {
	t.Helper()

	require.Len(t, got, len(want))

	for i := range want {
		assert.Equal(t, want[i].Date, got[i].Date)
		assert.Equal(t, want[i].Concept, got[i].Concept)
		assert.Equal(t, want[i].Gross, got[i].Gross)
		assert.Equal(t, want[i].Net, got[i].Net)
		assert.Equal(t, want[i].PaymentMethod, got[i].PaymentMethod)
		assert.Equal(t, want[i].Client, got[i].Client)
		assert.Equal(t, invoice.FormatNumber("NEW-", i+1), got[i].Number)
	}
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, drafts()))

	assertSameTriples(t, drafts(), reimport(t, "facturas.csv", buf.Bytes()))
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteXLSX(&buf, drafts()))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{export.SheetName}, f.GetSheetList())

	rows, err := f.GetRows(export.SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Número de factura", rows[0][4])
	assert.Equal(t, "€60.50", rows[2][2])

	assertSameTriples(t, drafts(), reimport(t, "facturas.xlsx", buf.Bytes()))
}

func TestFilename(t *testing.T) {
	now := time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC)

	assert.Equal(t, "facturas_procesadas_2024-03-15.csv", export.Filename("csv", now))
	assert.Equal(t, "facturas_procesadas_2024-03-15.xlsx", export.Filename("xlsx", now))
}
