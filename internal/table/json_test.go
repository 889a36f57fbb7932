package table

import (
	"encoding/json"
	"testing"
)

func TestParseJSON_ColumnOrientation(t *testing.T) {
	// pandas DataFrame.to_json() default output.
	data := []byte(`{"label":{"0":"Sol","1":"Terra","10":"Kepler"},"value":{"0":1,"1":0.5,"10":null},"type":{"0":"Sun","1":"Planet","10":"Planet"}}`)

	tbl, err := Parse("systems.json", data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := tbl.Columns; len(got) != 3 || got[0] != "label" || got[2] != "type" {
		t.Errorf("Columns = %v", got)
	}
	if tbl.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", tbl.Len())
	}
	// Index "10" sorts after "1" numerically.
	if tbl.Rows[2]["label"] != "Kepler" {
		t.Errorf("row order wrong: %v", tbl.Rows)
	}
	if tbl.Rows[1]["value"] != 0.5 {
		t.Errorf("value = %v, want 0.5", tbl.Rows[1]["value"])
	}
	if tbl.Rows[2]["value"] != nil {
		t.Errorf("null cell = %v, want nil", tbl.Rows[2]["value"])
	}
}

func TestParseJSON_Records(t *testing.T) {
	data := []byte(`[{"source":"Sol","target":"Terra","weight":2},{"source":"Terra","target":"Luna","weight":"4","type":"Regular"}]`)

	tbl, err := Parse("sectors.json", data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := []string{"source", "target", "weight", "type"}
	for i, c := range want {
		if tbl.Columns[i] != c {
			t.Errorf("Columns[%d] = %q, want %q", i, tbl.Columns[i], c)
		}
	}
	if tbl.Rows[0]["type"] != nil {
		t.Errorf("missing cell = %v, want nil", tbl.Rows[0]["type"])
	}
}

func TestTableJSONRoundTrip(t *testing.T) {
	orig := New("label", "value", "description")
	orig.Append("Sol", 1.0, "<b>hot</b>")
	orig.Append("Terra", 0.25, nil)

	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var got Table
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(got.Columns) != 3 || got.Columns[1] != "value" {
		t.Errorf("Columns = %v", got.Columns)
	}
	if got.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", got.Len())
	}
	if got.Rows[0]["description"] != "<b>hot</b>" {
		t.Errorf("description = %v", got.Rows[0]["description"])
	}
	if got.Rows[1]["value"] != 0.25 || got.Rows[1]["description"] != nil {
		t.Errorf("row 1 = %v", got.Rows[1])
	}
}
