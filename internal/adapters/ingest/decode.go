package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding labels reported per file.
const (
	EncodingUTF8        = "utf-8"
	EncodingUTF8BOM     = "utf-8-bom"
	EncodingUTF16LE     = "utf-16le"
	EncodingUTF16BE     = "utf-16be"
	EncodingWindows1252 = "windows-1252"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// readTable loads path, converts it to UTF-8 and parses it as CSV.
func readTable(path string) ([][]string, string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", fmt.Errorf("%w: %s", ErrMissingInputFile, path)
		}
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}

	text, enc, err := decode(raw)
	if err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", path, err)
	}

	r := csv.NewReader(bytes.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, "", fmt.Errorf("parse %s: %w", path, err)
	}
	return rows, enc, nil
}

// decode returns raw as UTF-8 along with the encoding it was read as.
// A byte order mark decides between UTF-8 and UTF-16; without one, input
// that is not valid UTF-8 is read as Windows-1252, the superset of Latin-1
// that spreadsheet exports use for quotes and dashes in 0x80-0x9F.
func decode(raw []byte) ([]byte, string, error) {
	var enc string
	switch {
	case bytes.HasPrefix(raw, bomUTF8):
		enc = EncodingUTF8BOM
	case bytes.HasPrefix(raw, bomUTF16LE):
		enc = EncodingUTF16LE
	case bytes.HasPrefix(raw, bomUTF16BE):
		enc = EncodingUTF16BE
	case utf8.Valid(raw):
		return raw, EncodingUTF8, nil
	default:
		out, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), raw)
		return out, EncodingWindows1252, err
	}

	dec := xunicode.BOMOverride(xunicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(dec, raw)
	return out, enc, err
}
