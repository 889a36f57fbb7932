// Package starmap assembles star systems and routes into a positioned,
// styled graph ready for rendering.
package starmap

import (
	"errors"
	"math"

	"github.com/dominikbraun/graph"

	"github.com/dynamicsector/dynamicsector/internal/layout"
	"github.com/dynamicsector/dynamicsector/internal/sector"
)

var (
	ErrZeroWeight    = errors.New("route weight is zero")
	ErrInvalidWeight = errors.New("route weight must be a positive finite number")
	ErrUnknownSystem = errors.New("route references unknown system")
)

// Coordinate scaling applied to supplied and computed positions.
const (
	CoordScale = 50
	SunScale   = 2000
	BodyScale  = 140000
)

// Font is the label font for 2D nodes.
type Font struct {
	Color string `json:"color"`
	Face  string `json:"face"`
}

// StarFont is used for every node label.
var StarFont = Font{Color: "#8bad6b", Face: "Serif"}

// Star is a system with every derived presentation attribute attached.
type Star struct {
	Label       string
	Type        string
	Kind        sector.BodyKind
	Value       float64
	Description sector.Wrapped
	Title       string // 2D tooltip: label, newline, wrapped description
	Hover       string // 3D hover: bold label, type, wrapped description
	Style       sector.NodeStyle
	Font        Font
	MarkerColor string
	MarkerSize  float64
	Pos         layout.Position
}

// Link is a route with its inverted weight and stroke.
type Link struct {
	Source    string
	Target    string
	Weight    float64 // 1 / RawWeight
	RawWeight float64
	Type      string
	Kind      sector.RouteKind
	Style     sector.RouteStyle
}

// Hidden reports whether the link is drawn transparent.
func (l Link) Hidden() bool {
	return l.Kind == sector.RouteHidden
}

// CoordinatePolicy records where star positions came from.
type CoordinatePolicy string

const (
	CoordsSupplied CoordinatePolicy = "supplied"
	CoordsComputed CoordinatePolicy = "computed"
)

// Scene is an undirected graph of stars keyed by label.
type Scene struct {
	Dim    int
	Policy CoordinatePolicy
	Graph  graph.Graph[string, *Star]

	order []string
	links [][2]string
}

func starHash(s *Star) string {
	return s.Label
}

// Stars returns the stars in system-table order.
func (s *Scene) Stars() []Star {
	out := make([]Star, 0, len(s.order))
	for _, label := range s.order {
		if v, err := s.Graph.Vertex(label); err == nil {
			out = append(out, *v)
		}
	}
	return out
}

// Star looks up a single star by label.
func (s *Scene) Star(label string) (Star, bool) {
	v, err := s.Graph.Vertex(label)
	if err != nil {
		return Star{}, false
	}
	return *v, true
}

// Links returns one link per connected pair, in first-seen route order.
func (s *Scene) Links() []Link {
	out := make([]Link, 0, len(s.links))
	for _, pair := range s.links {
		e, err := s.Graph.Edge(pair[0], pair[1])
		if err != nil {
			continue
		}
		if l, ok := e.Properties.Data.(*Link); ok {
			out = append(out, *l)
		}
	}
	return out
}

// Len returns the number of stars.
func (s *Scene) Len() int {
	return len(s.order)
}

// Bounds returns the per-axis minimum and maximum star positions.
func (s *Scene) Bounds() (lo, hi layout.Position) {
	if len(s.order) == 0 {
		return lo, hi
	}
	lo = layout.Position{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	hi = layout.Position{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for _, st := range s.Stars() {
		lo.X, hi.X = math.Min(lo.X, st.Pos.X), math.Max(hi.X, st.Pos.X)
		lo.Y, hi.Y = math.Min(lo.Y, st.Pos.Y), math.Max(hi.Y, st.Pos.Y)
		lo.Z, hi.Z = math.Min(lo.Z, st.Pos.Z), math.Max(hi.Z, st.Pos.Z)
	}
	return lo, hi
}

// Summary counts a scene for reporting.
type Summary struct {
	Dimensions  int              `json:"dimensions"`
	Stars       int              `json:"stars"`
	Suns        int              `json:"suns"`
	Links       int              `json:"links"`
	HiddenLinks int              `json:"hidden_links"`
	Isolated    int              `json:"isolated"`
	Coordinates CoordinatePolicy `json:"coordinates"`
}

// Summarize reports counts for the scene.
func (s *Scene) Summarize() Summary {
	sum := Summary{Dimensions: s.Dim, Stars: len(s.order), Coordinates: s.Policy}
	for _, st := range s.Stars() {
		if st.Kind == sector.BodySun {
			sum.Suns++
		}
	}
	for _, l := range s.Links() {
		sum.Links++
		if l.Hidden() {
			sum.HiddenLinks++
		}
	}
	if adj, err := s.Graph.AdjacencyMap(); err == nil {
		for _, label := range s.order {
			if len(adj[label]) == 0 {
				sum.Isolated++
			}
		}
	}
	return sum
}
