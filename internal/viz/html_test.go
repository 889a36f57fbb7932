package viz

import (
	"errors"
	"strings"
	"testing"

	"github.com/dynamicsector/dynamicsector/internal/sector"
	"github.com/dynamicsector/dynamicsector/internal/starmap"
)

func testScene(t *testing.T, dim int) *starmap.Scene {
	t.Helper()
	systems := &sector.Systems{
		HasXY:  true,
		HasXYZ: true,
		Rows: []sector.System{
			{Label: "Sol", Value: 1, Type: "Sun", Kind: sector.BodySun, Description: "Home star."},
			{Label: "Terra", Value: 0.01, Type: "Planet", Kind: sector.BodyOther, Description: "</script><b>x</b>", X: 1, Y: 1, Z: 1},
			{Label: "Mars", Value: 0.005, Type: "Planet", Kind: sector.BodyOther, X: -1, Y: 2, Z: -1},
		},
	}
	routes := []sector.Route{
		{Source: "Sol", Target: "Terra", Weight: 2, Type: "Regular", Kind: sector.RouteRegular},
		{Source: "Terra", Target: "Mars", Weight: 4, Type: "Unpredictable", Kind: sector.RouteUnpredictable},
		{Source: "Sol", Target: "Mars", Weight: 1, Type: "", Kind: sector.RouteHidden},
	}
	scene, err := starmap.Build(systems, routes, starmap.Options{Dim: dim, Seed: 3})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return scene
}

func emptyScene(t *testing.T) *starmap.Scene {
	t.Helper()
	scene, err := starmap.Build(&sector.Systems{}, nil, starmap.Options{Dim: 3})
	if err != nil {
		t.Fatal(err)
	}
	return scene
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"2d", Mode2D, false},
		{"2D", Mode2D, false},
		{"3d", Mode3D, false},
		{"", Mode3D, false},
		{"4d", "", true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidMode) {
				t.Errorf("ParseMode(%q) error = %v, want ErrInvalidMode", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseMode(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
	if Mode2D.Dim() != 2 || Mode3D.Dim() != 3 {
		t.Error("Dim() mismatch")
	}
}

func TestRender2D(t *testing.T) {
	out, err := Render2D(testScene(t, 2), DefaultOptions())
	if err != nil {
		t.Fatalf("Render2D() error = %v", err)
	}
	for _, want := range []string{
		`<div id="dsector-network"`,
		"background-color: #031101",
		"new vis.Network(",
		`"physics":false`,
		`"hierarchical":false`,
		`"width":2`,
		`"shape":"circularImage"`,
		`"dashes":true`,
		`"color":"rgba(0, 0, 0, 0)"`,
		`"face":"Serif"`,
		`"weight":0.5`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("2D fragment missing %q", want)
		}
	}
	if strings.Contains(out, "<!DOCTYPE html>") {
		t.Error("2D output should be a fragment, not a document")
	}
	if strings.Contains(out, "</script><b>") {
		t.Error("description text was not escaped inside the script")
	}
}

func TestPage2D(t *testing.T) {
	out, err := Page2D(testScene(t, 2), Options{Title: "Outer Rim"})
	if err != nil {
		t.Fatalf("Page2D() error = %v", err)
	}
	if !strings.HasPrefix(out, "<!DOCTYPE html>") || !strings.Contains(out, "<title>Outer Rim</title>") {
		t.Errorf("Page2D() not a titled document:\n%s", out[:200])
	}
	if !strings.Contains(out, "vis.Network") {
		t.Error("Page2D() missing fragment")
	}
}

func TestRender3D(t *testing.T) {
	out, err := Render3D(testScene(t, 3), Options{})
	if err != nil {
		t.Fatalf("Render3D() error = %v", err)
	}
	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>Nyxal&#39;s Reach</title>",
		`<body style="background-color:black;">`,
		`<div style="display: flex; justify-content: center;">`,
		"Plotly.newPlot(",
		`"mode":"lines"`,
		`"mode":"markers"`,
		`"opacity":0.3`,
		`"hoverinfo":"none"`,
		`"hoverinfo":"text"`,
		`"paper_bgcolor":"rgba(0,0,0)"`,
		`"plot_bgcolor":"rgba(0,0,0,0)"`,
		`"showlegend":false`,
		`"bgcolor":"#000d03"`,
		`"family":"Courier New"`,
		`"displayModeBar":false`,
		`"scrollZoom":true`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("3D page missing %q", want)
		}
	}
}

func TestToFigure(t *testing.T) {
	scene := testScene(t, 3)
	fig := toFigure(scene)
	if len(fig.Data) != 2 {
		t.Fatalf("traces = %d, want 2", len(fig.Data))
	}

	edges, nodes := fig.Data[0], fig.Data[1]
	links := scene.Links()
	if got, want := len(edges.Line.Color), 3*len(links); got != want {
		t.Errorf("edge colors = %d, want %d", got, want)
	}
	for i := range links {
		if edges.X[3*i+2] != nil || edges.Y[3*i+2] != nil || edges.Z[3*i+2] != nil {
			t.Errorf("edge %d: missing gap sample", i)
		}
		c := edges.Line.Color[3*i]
		if edges.Line.Color[3*i+1] != c || edges.Line.Color[3*i+2] != c {
			t.Errorf("edge %d: colors not repeated", i)
		}
	}
	if edges.Line.Width != 5 || edges.Opacity != 0.3 {
		t.Errorf("edge line = %+v opacity %v", edges.Line, edges.Opacity)
	}

	if len(nodes.Text) != 3 || !strings.HasPrefix(nodes.Text[0], "<b>Sol</b> (Sun)<br><br>") {
		t.Errorf("hover text = %v", nodes.Text)
	}
	if nodes.Marker.Size[0] != 2000 {
		t.Errorf("Sol marker size = %v, want 2000", nodes.Marker.Size[0])
	}

	lo, hi := scene.Bounds()
	if fig.Layout.Scene.XAxis.Range != [2]float64{lo.X, hi.X} || fig.Layout.Scene.ZAxis.Visible {
		t.Errorf("x axis = %+v", fig.Layout.Scene.XAxis)
	}
}

func TestRender_EmptyScene(t *testing.T) {
	scene := emptyScene(t)
	for _, mode := range []Mode{Mode2D, Mode3D} {
		out, err := Render(scene, mode, Options{})
		if err != nil {
			t.Fatalf("Render(%s) error = %v", mode, err)
		}
		if !strings.Contains(out, "No star systems") {
			t.Errorf("Render(%s) on empty scene missing empty state", mode)
		}
	}
}

func TestRender2D_EmptySceneIsFragment(t *testing.T) {
	scene := emptyScene(t)

	out, err := Render2D(scene, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "<!DOCTYPE html>") || strings.Contains(out, "<body") {
		t.Errorf("empty 2D render is a full document: %.120s", out)
	}
	if !strings.HasPrefix(out, `<div id="dsector-network"`) || !strings.Contains(out, "No star systems") {
		t.Errorf("empty 2D fragment = %.200s", out)
	}

	page, err := Page2D(scene, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(page, "<!DOCTYPE html>") || !strings.Contains(page, "No star systems") {
		t.Errorf("empty 2D page = %.200s", page)
	}
}

func TestRender_Errors(t *testing.T) {
	if _, err := Render2D(nil, Options{}); err == nil {
		t.Error("Render2D(nil) expected error")
	}
	if _, err := Render3D(nil, Options{}); err == nil {
		t.Error("Render3D(nil) expected error")
	}
	if _, err := Render(testScene(t, 3), Mode("4d"), Options{}); !errors.Is(err, ErrInvalidMode) {
		t.Errorf("Render(4d) error = %v", err)
	}
}

func TestDocument(t *testing.T) {
	scene := testScene(t, 2)
	for _, mode := range []Mode{Mode2D, Mode3D} {
		out, err := Document(scene, mode, Options{})
		if err != nil {
			t.Fatalf("Document(%s) error = %v", mode, err)
		}
		if !strings.HasPrefix(out, "<!DOCTYPE html>") {
			t.Errorf("Document(%s) is not a full page", mode)
		}
	}
}
