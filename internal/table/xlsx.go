package table

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// parseXLSX reads the first sheet of a workbook. The first row is the header.
func parseXLSX(data []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	columns, err := headerColumns(rows[0])
	if err != nil {
		return nil, err
	}

	t := New(columns...)
	for i, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		if len(row) > len(columns) {
			return nil, fmt.Errorf("row %d has %d cells, header has %d", i+2, len(row), len(columns))
		}
		// GetRows drops trailing empty cells; pad them back.
		values := make([]any, len(columns))
		for j := range columns {
			if j < len(row) {
				values[j] = row[j]
			} else {
				values[j] = ""
			}
		}
		t.Append(values...)
	}
	return t, nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}
