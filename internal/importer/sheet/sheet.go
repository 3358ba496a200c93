// Package sheet decodes uploaded spreadsheets into a grid of string cells.
package sheet

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	ErrEmptyInput      = errors.New("file has no data rows")
	ErrInvalidFileType = errors.New("unsupported file type, expected csv, xlsx or xls")
)

// Format identifies how an uploaded file is decoded.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
)

// Decoder turns raw file bytes into rows of cells.
type Decoder interface {
	Decode(data []byte) ([][]string, error)
}

var decoders = map[Format]Decoder{
	FormatCSV:  csvDecoder{},
	FormatXLSX: xlsxDecoder{},
	FormatXLS:  xlsDecoder{},
}

// Grid is a ragged table of cells. Missing cells read as empty strings.
type Grid [][]string

// Cell returns the trimmed value at (row, col), or "" when out of range.
func (g Grid) Cell(row, col int) string {
	if row < 0 || row >= len(g) {
		return ""
	}

	return Value(g[row], col)
}

// Value safely gets a trimmed cell value from a row.
func Value(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

// Blank reports whether every cell of the row is empty.
func Blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}

	return true
}

// FormatOf picks the decoder format from the file extension.
func FormatOf(filename string) (Format, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))

	f := Format(ext)
	if _, ok := decoders[f]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidFileType, filepath.Ext(filename))
	}

	return f, nil
}

// Read decodes data according to the extension of filename.
// Workbooks contribute their first sheet only.
func Read(filename string, data []byte) (Grid, error) {
	format, err := FormatOf(filename)
	if err != nil {
		return nil, err
	}

	rows, err := decoders[format].Decode(data)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", format, err)
	}

	if len(rows) < 2 {
		return nil, ErrEmptyInput
	}

	return Grid(rows), nil
}
