package sector

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dynamicsector/dynamicsector/internal/table"
)

var (
	ErrMissingColumn  = table.ErrMissingColumn
	ErrInvalidNumber  = table.ErrInvalidNumber
	ErrDuplicateLabel = errors.New("duplicate system label")
	ErrEmptyLabel     = errors.New("empty label")
)

// System is one row of the system-data table.
type System struct {
	Label       string
	Value       float64
	Type        string
	Kind        BodyKind
	Description string
	X, Y, Z     float64
}

// Route is one row of the sector-map table.
type Route struct {
	Source string
	Target string
	Weight float64
	Type   string
	Kind   RouteKind
}

// Systems is the loaded system-data table plus which coordinate columns
// it carried.
type Systems struct {
	Rows   []System
	HasXY  bool
	HasXYZ bool
}

// SystemSchema describes the system-data table.
var SystemSchema = &table.Schema{
	Name: "system data",
	Fields: []table.Field{
		{Name: "label", Type: table.FieldTypeString, Required: true},
		{Name: "value", Type: table.FieldTypeFloat, Required: true},
		{Name: "type", Type: table.FieldTypeString, Required: true},
		{Name: "description", Type: table.FieldTypeString},
		{Name: "x", Type: table.FieldTypeFloat},
		{Name: "y", Type: table.FieldTypeFloat},
		{Name: "z", Type: table.FieldTypeFloat},
	},
}

// RouteSchema describes the sector-map table.
var RouteSchema = &table.Schema{
	Name: "sector map",
	Fields: []table.Field{
		{Name: "source", Type: table.FieldTypeString, Required: true},
		{Name: "target", Type: table.FieldTypeString, Required: true},
		{Name: "weight", Type: table.FieldTypeFloat, Required: true},
		{Name: "type", Type: table.FieldTypeString, Required: true},
	},
}

// LoadSystems converts a parsed system-data table into typed rows.
// Coordinates are read only when the full x/y (or x/y/z) set is present.
func LoadSystems(t *table.Table) (*Systems, error) {
	present := SystemSchema.Present(t)
	hasXY := present["x"] && present["y"]
	hasXYZ := hasXY && present["z"]

	schema := SystemSchema
	if !hasXY {
		// A lone x or y column is ignored rather than validated.
		schema = withoutFields(SystemSchema, "x", "y", "z")
	} else if !hasXYZ {
		schema = withoutFields(SystemSchema, "z")
	}

	recs, err := schema.Coerce(t)
	if err != nil {
		return nil, err
	}

	out := &Systems{Rows: make([]System, 0, len(recs)), HasXY: hasXY, HasXYZ: hasXYZ}
	seen := make(map[string]int, len(recs))
	for i, r := range recs {
		label := r["label"].(string)
		if strings.TrimSpace(label) == "" {
			return nil, fmt.Errorf("system data row %d: %w", i+1, ErrEmptyLabel)
		}
		if prev, dup := seen[label]; dup {
			return nil, fmt.Errorf("system data rows %d and %d: %w %q", prev, i+1, ErrDuplicateLabel, label)
		}
		seen[label] = i + 1

		typ := normalizeCell(r["type"].(string))
		s := System{
			Label: label,
			Value: r["value"].(float64),
			Type:  typ,
			Kind:  ParseBodyKind(typ),
		}
		if d, ok := r["description"].(string); ok {
			s.Description = d
		}
		if hasXY {
			s.X = r["x"].(float64)
			s.Y = r["y"].(float64)
		}
		if hasXYZ {
			s.Z = r["z"].(float64)
		}
		out.Rows = append(out.Rows, s)
	}
	return out, nil
}

// LoadRoutes converts a parsed sector-map table into typed rows. Weights
// are read as given; validity is checked when the graph is assembled.
func LoadRoutes(t *table.Table) ([]Route, error) {
	recs, err := RouteSchema.Coerce(t)
	if err != nil {
		return nil, err
	}

	out := make([]Route, 0, len(recs))
	for i, r := range recs {
		src := r["source"].(string)
		tgt := r["target"].(string)
		if strings.TrimSpace(src) == "" || strings.TrimSpace(tgt) == "" {
			return nil, fmt.Errorf("sector map row %d: %w", i+1, ErrEmptyLabel)
		}
		typ := normalizeCell(r["type"].(string))
		out = append(out, Route{
			Source: src,
			Target: tgt,
			Weight: r["weight"].(float64),
			Type:   typ,
			Kind:   ParseRouteKind(typ),
		})
	}
	return out, nil
}

func withoutFields(s *table.Schema, names ...string) *table.Schema {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	out := &table.Schema{Name: s.Name}
	for _, f := range s.Fields {
		if !drop[f.Name] {
			out.Fields = append(out.Fields, f)
		}
	}
	return out
}
