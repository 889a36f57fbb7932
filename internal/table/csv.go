package table

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func parseCSV(data []byte) (*Table, error) {
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("csv is not valid UTF-8")
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	r := csv.NewReader(bytes.NewReader(data))
	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}
	columns, err := headerColumns(header)
	if err != nil {
		return nil, err
	}

	t := New(columns...)
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv: %w", err)
		}
		values := make([]any, len(row))
		for i, cell := range row {
			values[i] = cell
		}
		t.Append(values...)
	}
	return t, nil
}

// headerColumns trims header cells and rejects blank or repeated names.
func headerColumns(header []string) ([]string, error) {
	columns := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			return nil, fmt.Errorf("blank column name at position %d", i+1)
		}
		key := strings.ToLower(name)
		if seen[key] {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		seen[key] = true
		columns[i] = name
	}
	return columns, nil
}
