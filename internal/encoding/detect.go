package encoding

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// sampleSize bounds how much of the input chardet inspects.
const sampleSize = 8192

// ToUTF8 returns data decoded to UTF-8 with any byte order mark removed.
//
// Detection order:
//  1. BOM (UTF-8 is stripped, UTF-16 LE/BE is decoded)
//  2. Valid UTF-8 is returned as-is
//  3. Heuristic detection via chardet
//  4. Fallback to Windows-1252, the usual export charset of Spanish spreadsheets
func ToUTF8(data []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return data[len(bomUTF8):], nil
	case bytes.HasPrefix(data, bomUTF16LE):
		return decode(unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), data)
	case bytes.HasPrefix(data, bomUTF16BE):
		return decode(unicode.UTF16(unicode.BigEndian, unicode.UseBOM), data)
	}

	if utf8.Valid(data) {
		return data, nil
	}

	sample := data
	if len(sample) > sampleSize {
		sample = sample[:sampleSize]
	}

	if result, err := chardet.NewTextDetector().DetectBest(sample); err == nil {
		switch result.Charset {
		case "ISO-8859-1", "windows-1252":
			return decode(charmap.Windows1252, data)
		case "ISO-8859-15":
			return decode(charmap.ISO8859_15, data)
		}
	}

	return decode(charmap.Windows1252, data)
}

func decode(enc encoding.Encoding, data []byte) ([]byte, error) {
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("decoding input: %w", err)
	}

	return out, nil
}
