package table

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FieldType represents the data type of a column.
type FieldType string

const (
	FieldTypeString FieldType = "string"
	FieldTypeFloat  FieldType = "float"
)

var (
	// ErrMissingColumn is returned when a required column is absent.
	ErrMissingColumn = errors.New("missing required column")
	// ErrInvalidNumber is returned when a numeric cell cannot be read as a number.
	ErrInvalidNumber = errors.New("invalid number")
)

// Field defines a single column in a schema.
type Field struct {
	Name     string
	Type     FieldType
	Required bool
}

// Schema defines the expected columns of a table.
type Schema struct {
	Name   string
	Fields []Field
}

// Validate checks that the schema itself is well formed.
func (s *Schema) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("schema name is required")
	}
	if len(s.Fields) == 0 {
		return fmt.Errorf("schema must have at least one field")
	}
	seen := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		key := strings.ToLower(f.Name)
		if key == "" {
			return fmt.Errorf("schema %s: empty field name", s.Name)
		}
		if seen[key] {
			return fmt.Errorf("schema %s: duplicate field %q", s.Name, f.Name)
		}
		seen[key] = true
		switch f.Type {
		case FieldTypeString, FieldTypeFloat:
		default:
			return fmt.Errorf("field %q has invalid type %q", f.Name, f.Type)
		}
	}
	return nil
}

// Present returns the subset of fields the table carries.
func (s *Schema) Present(t *Table) map[string]bool {
	out := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		_, out[f.Name] = t.Column(f.Name)
	}
	return out
}

// Coerce checks required columns and returns new records keyed by the
// schema's field names with typed values: string fields become string,
// float fields become float64. Optional fields absent from the table are
// left out of the records. The input table is not modified.
func (s *Schema) Coerce(t *Table) ([]Record, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	cols := make(map[string]string, len(s.Fields))
	for _, f := range s.Fields {
		col, ok := t.Column(f.Name)
		if !ok {
			if f.Required {
				return nil, fmt.Errorf("%s: %w %q", s.Name, ErrMissingColumn, f.Name)
			}
			continue
		}
		cols[f.Name] = col
	}

	out := make([]Record, 0, len(t.Rows))
	for i, row := range t.Rows {
		rec := make(Record, len(cols))
		for _, f := range s.Fields {
			col, ok := cols[f.Name]
			if !ok {
				continue
			}
			v, err := coerceValue(f, row[col])
			if err != nil {
				return nil, fmt.Errorf("%s row %d: %w", s.Name, i+1, err)
			}
			rec[f.Name] = v
		}
		out = append(out, rec)
	}
	return out, nil
}

func coerceValue(f Field, value any) (any, error) {
	switch f.Type {
	case FieldTypeString:
		return cellString(value), nil
	case FieldTypeFloat:
		n, err := cellFloat(value)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", f.Name, err)
		}
		return n, nil
	}
	return value, nil
}

// cellString renders a cell as text. Missing cells become "".
func cellString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		if math.IsNaN(v) {
			return ""
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return fmt.Sprint(v)
	}
}

// cellFloat reads a numeric cell. Numeric strings are accepted; NaN and
// infinities are not.
func cellFloat(value any) (float64, error) {
	n, err := parseFloatCell(value)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("%w: %v is not finite", ErrInvalidNumber, n)
	}
	return n, nil
}

func parseFloatCell(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		n, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, v.String())
		}
		return n, nil
	case string:
		s := strings.TrimSpace(v)
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, v)
		}
		return n, nil
	case nil:
		return 0, fmt.Errorf("%w: empty cell", ErrInvalidNumber)
	default:
		return 0, fmt.Errorf("%w: %T", ErrInvalidNumber, value)
	}
}
