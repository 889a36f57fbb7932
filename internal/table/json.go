package table

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
)

// parseJSON accepts either the column orientation written by pandas
// DataFrame.to_json ({"col": {"0": v, "1": v}}) or a list of records
// ([{"col": v}, ...]). Column order follows the document.
func parseJSON(data []byte) (*Table, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("reading json: %w", err)
	}

	var t *Table
	switch tok {
	case json.Delim('{'):
		t, err = readColumns(dec)
	case json.Delim('['):
		t, err = readRecords(dec)
	default:
		return nil, fmt.Errorf("json table must be an object or array, got %v", tok)
	}
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("trailing data after json table")
	}
	return t, nil
}

// objectEntries walks the members of an object whose opening brace has
// already been consumed, then consumes the closing brace.
func objectEntries(dec *json.Decoder, fn func(key string) error) error {
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		if err := fn(key); err != nil {
			return err
		}
	}
	_, err := dec.Token()
	return err
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok != want {
		return fmt.Errorf("expected %v, got %v", want, tok)
	}
	return nil
}

func readCell(dec *json.Decoder) (any, error) {
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	switch c := v.(type) {
	case nil, string, bool:
		return c, nil
	case json.Number:
		if f, err := c.Float64(); err == nil {
			return f, nil
		}
		return c.String(), nil
	default:
		return nil, fmt.Errorf("nested value %T is not a table cell", v)
	}
}

func readColumns(dec *json.Decoder) (*Table, error) {
	var (
		columns []string
		index   []string
		seen    = make(map[string]bool)
		cells   = make(map[string]map[string]any)
	)

	err := objectEntries(dec, func(col string) error {
		if _, dup := cells[col]; dup {
			return fmt.Errorf("duplicate column %q", col)
		}
		columns = append(columns, col)
		values := make(map[string]any)
		cells[col] = values

		if err := expectDelim(dec, json.Delim('{')); err != nil {
			return fmt.Errorf("column %q: %w", col, err)
		}
		return objectEntries(dec, func(idx string) error {
			v, err := readCell(dec)
			if err != nil {
				return fmt.Errorf("column %q index %q: %w", col, idx, err)
			}
			values[idx] = v
			if !seen[idx] {
				seen[idx] = true
				index = append(index, idx)
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("reading json columns: %w", err)
	}

	sortIndex(index)

	t := New(columns...)
	for _, idx := range index {
		values := make([]any, len(columns))
		for i, col := range columns {
			values[i] = cells[col][idx]
		}
		t.Append(values...)
	}
	return t, nil
}

// sortIndex orders row labels numerically when they are all integers and
// leaves document order otherwise.
func sortIndex(index []string) {
	nums := make(map[string]int64, len(index))
	for _, idx := range index {
		n, err := strconv.ParseInt(idx, 10, 64)
		if err != nil {
			return
		}
		nums[idx] = n
	}
	sort.SliceStable(index, func(i, j int) bool { return nums[index[i]] < nums[index[j]] })
}

func readRecords(dec *json.Decoder) (*Table, error) {
	var (
		columns []string
		known   = make(map[string]bool)
		rows    []Record
	)

	for dec.More() {
		if err := expectDelim(dec, json.Delim('{')); err != nil {
			return nil, fmt.Errorf("record %d: %w", len(rows)+1, err)
		}
		rec := make(Record)
		err := objectEntries(dec, func(col string) error {
			v, err := readCell(dec)
			if err != nil {
				return fmt.Errorf("column %q: %w", col, err)
			}
			if !known[col] {
				known[col] = true
				columns = append(columns, col)
			}
			rec[col] = v
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", len(rows)+1, err)
		}
		rows = append(rows, rec)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("reading json records: %w", err)
	}

	t := New(columns...)
	for _, r := range rows {
		for _, c := range columns {
			if _, ok := r[c]; !ok {
				r[c] = nil
			}
		}
		t.Rows = append(t.Rows, r)
	}
	return t, nil
}

// MarshalJSON writes the table in pandas column orientation, keeping
// column order.
func (t *Table) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range t.Columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteString(":{")
		for j, row := range t.Rows {
			if j > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(strconv.Quote(strconv.Itoa(j)))
			buf.WriteByte(':')
			cell, err := marshalCell(row[col])
			if err != nil {
				return nil, fmt.Errorf("column %q row %d: %w", col, j, err)
			}
			buf.Write(cell)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalCell(v any) ([]byte, error) {
	if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

// UnmarshalJSON reads either JSON table orientation accepted by Parse.
func (t *Table) UnmarshalJSON(data []byte) error {
	parsed, err := parseJSON(data)
	if err != nil {
		return err
	}
	*t = *parsed
	return nil
}
