package ingest

import (
	"strconv"
	"strings"
	"unicode"
)

// header indexes a CSV header row by normalized column name.
type header []string

func newHeader(row []string) header {
	h := make(header, len(row))
	for i, name := range row {
		h[i] = columnKey(name)
	}
	return h
}

// columnKey lowercases name and drops everything but letters and digits, so
// "Employer (Petitioner) Name", "EMPLOYER_PETITIONER_NAME" and
// "employer petitioner name" compare equal.
func columnKey(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, name)
}

// find returns the index of the first column equal to one of aliases, in
// alias order, or -1.
func (h header) find(aliases ...string) int {
	for _, a := range aliases {
		key := columnKey(a)
		for i, col := range h {
			if col == key {
				return i
			}
		}
	}
	return -1
}

// findContaining returns the index of the first column containing one of
// fragments, in fragment order, or -1.
func (h header) findContaining(fragments ...string) int {
	for _, f := range fragments {
		key := columnKey(f)
		for i, col := range h {
			if strings.Contains(col, key) {
				return i
			}
		}
	}
	return -1
}

// cell returns row[i] trimmed, or "" when i is out of range.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// number parses a count the way exports write them: "1,234", " 12 ", "$5".
// Everything but digits, '.' and '-' is dropped; anything left that does not
// parse is zero. Fractions are truncated.
func number(s string) int64 {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, s)
	if cleaned == "" {
		return 0
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return int64(f)
}

// blank reports whether every cell of row is empty.
func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
