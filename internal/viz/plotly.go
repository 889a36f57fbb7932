package viz

import (
	"encoding/json"
	"fmt"

	"github.com/dynamicsector/dynamicsector/internal/starmap"
)

// figure is a plotly figure: traces plus layout.
type figure struct {
	Data   []scatter3d `json:"data"`
	Layout plotLayout  `json:"layout"`
}

// scatter3d is a plotly Scatter3d trace. Nil coordinates encode the gap
// between consecutive edge segments.
type scatter3d struct {
	Type      string     `json:"type"`
	Mode      string     `json:"mode"`
	X         []*float64 `json:"x"`
	Y         []*float64 `json:"y"`
	Z         []*float64 `json:"z"`
	Line      *line      `json:"line,omitempty"`
	Marker    *marker    `json:"marker,omitempty"`
	Opacity   float64    `json:"opacity,omitempty"`
	HoverInfo string     `json:"hoverinfo"`
	Text      []string   `json:"text,omitempty"`
}

type line struct {
	Color []string `json:"color"`
	Width float64  `json:"width"`
}

type marker struct {
	Size  []float64 `json:"size"`
	Color []string  `json:"color"`
}

type plotLayout struct {
	Scene        plotScene  `json:"scene"`
	PaperBGColor string     `json:"paper_bgcolor"`
	PlotBGColor  string     `json:"plot_bgcolor"`
	ShowLegend   bool       `json:"showlegend"`
	AutoSize     bool       `json:"autosize"`
	HoverLabel   hoverLabel `json:"hoverlabel"`
}

type plotScene struct {
	XAxis axis `json:"xaxis"`
	YAxis axis `json:"yaxis"`
	ZAxis axis `json:"zaxis"`
}

type axis struct {
	Visible bool       `json:"visible"`
	Range   [2]float64 `json:"range"`
}

type hoverLabel struct {
	BGColor string    `json:"bgcolor"`
	Font    hoverFont `json:"font"`
}

type hoverFont struct {
	Size   int    `json:"size"`
	Family string `json:"family"`
}

// plotConfig is the plotly config object used by the dashboard.
type plotConfig struct {
	DisplayModeBar bool `json:"displayModeBar"`
	ScrollZoom     bool `json:"scrollZoom"`
	Responsive     bool `json:"responsive"`
}

const (
	edgeLineWidth = 5
	edgeOpacity   = 0.3
)

func ptr(f float64) *float64 {
	return &f
}

// toFigure converts a scene to a plotly figure with one edge trace and
// one node trace.
func toFigure(scene *starmap.Scene) figure {
	stars := scene.Stars()
	byLabel := make(map[string]starmap.Star, len(stars))
	for _, st := range stars {
		byLabel[st.Label] = st
	}

	links := scene.Links()
	edges := scatter3d{
		Type:      "scatter3d",
		Mode:      "lines",
		X:         make([]*float64, 0, 3*len(links)),
		Y:         make([]*float64, 0, 3*len(links)),
		Z:         make([]*float64, 0, 3*len(links)),
		Line:      &line{Color: make([]string, 0, 3*len(links)), Width: edgeLineWidth},
		Opacity:   edgeOpacity,
		HoverInfo: "none",
	}
	for _, l := range links {
		a, b := byLabel[l.Source].Pos, byLabel[l.Target].Pos
		edges.X = append(edges.X, ptr(a.X), ptr(b.X), nil)
		edges.Y = append(edges.Y, ptr(a.Y), ptr(b.Y), nil)
		edges.Z = append(edges.Z, ptr(a.Z), ptr(b.Z), nil)
		edges.Line.Color = append(edges.Line.Color, l.Style.Color, l.Style.Color, l.Style.Color)
	}

	nodes := scatter3d{
		Type:      "scatter3d",
		Mode:      "markers",
		X:         make([]*float64, 0, len(stars)),
		Y:         make([]*float64, 0, len(stars)),
		Z:         make([]*float64, 0, len(stars)),
		Marker:    &marker{Size: make([]float64, 0, len(stars)), Color: make([]string, 0, len(stars))},
		HoverInfo: "text",
		Text:      make([]string, 0, len(stars)),
	}
	for _, st := range stars {
		nodes.X = append(nodes.X, ptr(st.Pos.X))
		nodes.Y = append(nodes.Y, ptr(st.Pos.Y))
		nodes.Z = append(nodes.Z, ptr(st.Pos.Z))
		nodes.Marker.Size = append(nodes.Marker.Size, st.MarkerSize)
		nodes.Marker.Color = append(nodes.Marker.Color, st.MarkerColor)
		nodes.Text = append(nodes.Text, st.Hover)
	}

	lo, hi := scene.Bounds()
	return figure{
		Data: []scatter3d{edges, nodes},
		Layout: plotLayout{
			Scene: plotScene{
				XAxis: axis{Range: [2]float64{lo.X, hi.X}},
				YAxis: axis{Range: [2]float64{lo.Y, hi.Y}},
				ZAxis: axis{Range: [2]float64{lo.Z, hi.Z}},
			},
			PaperBGColor: "rgba(0,0,0)",
			PlotBGColor:  "rgba(0,0,0,0)",
			ShowLegend:   false,
			AutoSize:     true,
			HoverLabel: hoverLabel{
				BGColor: "#000d03",
				Font:    hoverFont{Size: 16, Family: "Courier New"},
			},
		},
	}
}

// toPlotlyJSON returns the figure and config as JSON strings.
func toPlotlyJSON(scene *starmap.Scene) (fig, config string, err error) {
	fb, err := json.Marshal(toFigure(scene))
	if err != nil {
		return "", "", fmt.Errorf("marshaling plotly figure: %w", err)
	}
	cb, err := json.Marshal(plotConfig{DisplayModeBar: false, ScrollZoom: true, Responsive: true})
	if err != nil {
		return "", "", fmt.Errorf("marshaling plotly config: %w", err)
	}
	return string(fb), string(cb), nil
}
