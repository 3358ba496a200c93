// Package export writes ledger rows as CSV or spreadsheet downloads.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/facturas/internal/invoice"
)

// SheetName is the name of the single sheet in spreadsheet exports.
const SheetName = "Facturas"

const filenamePrefix = "facturas_procesadas_"

var bom = []byte{0xEF, 0xBB, 0xBF}

// Row is one exported invoice. Field order is the column order.
type Row struct {
	Date          string `csv:"Fecha"`
	Concept       string `csv:"Concepto"`
	Gross         string `csv:"Importe (con IVA)"`
	Net           string `csv:"Precio sin IVA"`
	Number        string `csv:"Número de factura"`
	PaymentMethod string `csv:"Forma de pago"`
	Client        string `csv:"Cliente"`
}

var headers = []any{"Fecha", "Concepto", "Importe (con IVA)", "Precio sin IVA", "Número de factura", "Forma de pago", "Cliente"}

func toRows(drafts []invoice.Draft) []*Row {
	rows := make([]*Row, len(drafts))
	for i, d := range drafts {
		rows[i] = &Row{
			Date:          invoice.FormatDate(d.Date),
			Concept:       d.Concept,
			Gross:         invoice.FormatAmount(d.Gross),
			Net:           invoice.FormatAmount(d.Net),
			Number:        d.Number,
			PaymentMethod: string(d.PaymentMethod),
			Client:        d.Client,
		}
	}

	return rows
}

// Filename returns the download name for an export made at now, e.g. facturas_procesadas_2024-03-15.csv.
func Filename(ext string, now time.Time) string {
	return filenamePrefix + now.Format("2006-01-02") + "." + ext
}

// WriteCSV writes UTF-8 CSV with a leading byte order mark so spreadsheet apps detect the encoding.
func WriteCSV(w io.Writer, drafts []invoice.Draft) error {
	if _, err := w.Write(bom); err != nil {
		return fmt.Errorf("writing bom: %w", err)
	}

	if err := gocsv.Marshal(toRows(drafts), w); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}

	return nil
}

// WriteXLSX writes a workbook with a single Facturas sheet.
func WriteXLSX(w io.Writer, drafts []invoice.Draft) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	if err := f.SetSheetRow(SheetName, "A1", &headers); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, r := range toRows(drafts) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}

		values := []any{r.Date, r.Concept, r.Gross, r.Net, r.Number, r.PaymentMethod, r.Client}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(SheetName, "A", "G", 20); err != nil {
		return fmt.Errorf("sizing columns: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}

	return nil
}
