package sheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	enc "github.com/MrJamesThe3rd/facturas/internal/encoding"
)

type csvDecoder struct{}

func (csvDecoder) Decode(data []byte) ([][]string, error) {
	text, err := enc.ToUTF8(data)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}

		for i := range record {
			record[i] = strings.TrimSpace(record[i])
		}

		if len(record) == 1 && record[0] == "" {
			continue
		}

		rows = append(rows, record)
	}

	return rows, nil
}
