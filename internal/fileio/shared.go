// Package fileio reads parametric sheets from CSV, XLS and XLSX files: one
// row per part, one column per parameter. It converts transport formats
// only; engineering values pass through untouched.
package fileio

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Sheet is one parsed worksheet: the header row plus every data row keyed by
// header. Headers keeps column order, which the row maps cannot.
type Sheet struct {
	Headers []string
	Rows    []map[string]string
}

// ReadSheet picks a parser by file extension and returns the sheet with
// headerRow (1-based) as the header line.
func ReadSheet(r io.Reader, filename string, headerRow int) (*Sheet, error) {
	if headerRow <= 0 {
		return nil, errors.New("header row must be 1-based and >= 1")
	}

	var rows [][]string
	var err error
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".xlsx":
		rows, err = readXLSX(r)
	case ".xls":
		rows, err = readXLS(r)
	case ".csv":
		rows, err = readCSV(r)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", filename)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &Sheet{}, nil
	}

	h := pickHeader(rows, headerRow)
	return &Sheet{Headers: h, Rows: rowsToMaps(rows, h, headerRow)}, nil
}

// pickHeader returns the header line, substituting "Column N" for blanks.
func pickHeader(rows [][]string, headerRow int) []string {
	idx := headerRow - 1
	if idx >= len(rows) {
		idx = 0
	}
	h := rows[idx]
	out := make([]string, len(h))
	for i, v := range h {
		v = strings.TrimSpace(v)
		if v == "" {
			v = fmt.Sprintf("Column %d", i+1)
		}
		out[i] = v
	}
	return out
}

// rowsToMaps converts the lines after the header into maps keyed by header,
// skipping lines that are entirely empty.
func rowsToMaps(rows [][]string, headers []string, headerRow int) []map[string]string {
	var out []map[string]string
	for r := headerRow; r < len(rows); r++ {
		rec := rows[r]
		m := make(map[string]string, len(headers))
		empty := true
		for c, h := range headers {
			var v string
			if c < len(rec) {
				v = rec[c]
			}
			m[h] = v
			if empty && strings.TrimSpace(v) != "" {
				empty = false
			}
		}
		if !empty {
			out = append(out, m)
		}
	}
	return out
}

// normalizeCell trims a cell and collapses inner whitespace.
func normalizeCell(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
