package starmap

import (
	"errors"
	"fmt"
	"html"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/dominikbraun/graph"

	"github.com/dynamicsector/dynamicsector/internal/layout"
	"github.com/dynamicsector/dynamicsector/internal/sector"
)

// Options controls scene assembly.
type Options struct {
	Dim      int    // 2 or 3
	Seed     uint64 // drives colors and the computed layout
	SunImage string // overrides the default sun icon when set
}

// Build assembles a scene from loaded systems and routes. Inputs are not
// modified. Duplicate routes between the same pair keep the last row.
func Build(systems *sector.Systems, routes []sector.Route, opts Options) (*Scene, error) {
	if opts.Dim != 2 && opts.Dim != 3 {
		return nil, fmt.Errorf("%w: got %d", layout.ErrDimension, opts.Dim)
	}

	palette := sector.NewSeededPalette(opts.Seed)
	if opts.SunImage != "" {
		palette.SunImage = opts.SunImage
	}

	scene := &Scene{
		Dim:   opts.Dim,
		Graph: graph.New(starHash),
		order: make([]string, 0, len(systems.Rows)),
	}

	for _, sys := range systems.Rows {
		st := newStar(sys, palette)
		if err := scene.Graph.AddVertex(st); err != nil {
			if errors.Is(err, graph.ErrVertexAlreadyExists) {
				return nil, fmt.Errorf("%w %q", sector.ErrDuplicateLabel, sys.Label)
			}
			return nil, fmt.Errorf("adding system %q: %w", sys.Label, err)
		}
		scene.order = append(scene.order, sys.Label)
	}

	for i, r := range routes {
		if err := checkWeight(r.Weight); err != nil {
			return nil, fmt.Errorf("sector map row %d (%s - %s): %w", i+1, r.Source, r.Target, err)
		}
		if err := scene.addLink(r); err != nil {
			return nil, fmt.Errorf("sector map row %d: %w", i+1, err)
		}
	}

	if err := scene.place(systems, opts); err != nil {
		return nil, err
	}
	return scene, nil
}

func newStar(sys sector.System, palette *sector.Palette) *Star {
	desc := sector.WrapDescription(sys.Description)
	st := &Star{
		Label:       sys.Label,
		Type:        sys.Type,
		Kind:        sys.Kind,
		Value:       sys.Value,
		Description: desc,
		Title:       sys.Label + "\n" + desc.Markdown,
		Hover:       hoverText(sys.Label, sys.Type, desc.Lines),
		Style:       palette.NodeStyle(sys.Kind),
		Font:        StarFont,
		MarkerColor: palette.MarkerColor(sys.Kind),
	}
	switch sys.Kind {
	case sector.BodySun:
		st.MarkerSize = sys.Value * SunScale
	default:
		st.MarkerSize = sys.Value * BodyScale
	}
	return st
}

// hoverText builds the 3D hover label. Cell text is escaped; the markup
// around it is not.
func hoverText(label, typ string, lines []string) string {
	escaped := make([]string, len(lines))
	for i, l := range lines {
		escaped[i] = html.EscapeString(l)
	}
	return "<b>" + html.EscapeString(label) + "</b> (" + html.EscapeString(typ) + ")<br><br>" +
		strings.Join(escaped, "<br>")
}

func checkWeight(w float64) error {
	switch {
	case w == 0:
		return ErrZeroWeight
	case w < 0, math.IsNaN(w), math.IsInf(w, 0):
		return fmt.Errorf("%w: %v", ErrInvalidWeight, w)
	}
	return nil
}

func (s *Scene) addLink(r sector.Route) error {
	link := &Link{
		Source:    r.Source,
		Target:    r.Target,
		Weight:    1 / r.Weight,
		RawWeight: r.Weight,
		Type:      r.Type,
		Kind:      r.Kind,
		Style:     sector.RouteStyleFor(r.Kind),
	}

	err := s.Graph.AddEdge(r.Source, r.Target, graph.EdgeData(link))
	switch {
	case err == nil:
		s.links = append(s.links, [2]string{r.Source, r.Target})
		return nil
	case errors.Is(err, graph.ErrEdgeAlreadyExists):
		existing, err := s.Graph.Edge(r.Source, r.Target)
		if err != nil {
			return fmt.Errorf("looking up route %s - %s: %w", r.Source, r.Target, err)
		}
		prev, ok := existing.Properties.Data.(*Link)
		if !ok {
			return fmt.Errorf("route %s - %s has no link data", r.Source, r.Target)
		}
		*prev = *link
		return nil
	case errors.Is(err, graph.ErrVertexNotFound):
		missing := r.Source
		if _, ok := s.Star(r.Source); ok {
			missing = r.Target
		}
		return fmt.Errorf("%w %q", ErrUnknownSystem, missing)
	default:
		return fmt.Errorf("adding route %s - %s: %w", r.Source, r.Target, err)
	}
}

// place applies supplied coordinates when the table carries them for the
// scene's dimension, and computes a spring layout otherwise. Both are
// scaled with the vertical axis flipped.
func (s *Scene) place(systems *sector.Systems, opts Options) error {
	supplied := systems.HasXY
	if s.Dim == 3 {
		supplied = systems.HasXYZ
	}

	positions := make([]layout.Position, len(systems.Rows))
	if supplied {
		s.Policy = CoordsSupplied
		for i, sys := range systems.Rows {
			positions[i] = layout.Position{X: sys.X, Y: sys.Y}
			if s.Dim == 3 {
				positions[i].Z = sys.Z
			}
		}
	} else {
		s.Policy = CoordsComputed
		edges, err := s.layoutEdges()
		if err != nil {
			return err
		}
		positions, err = layout.Spring(len(s.order), edges, layout.Config{
			Dim:  s.Dim,
			Rand: rand.New(rand.NewPCG(opts.Seed, 2)),
		})
		if err != nil {
			return fmt.Errorf("computing layout: %w", err)
		}
	}

	for i, label := range s.order {
		st, err := s.Graph.Vertex(label)
		if err != nil {
			return fmt.Errorf("placing %q: %w", label, err)
		}
		p := positions[i]
		st.Pos = layout.Position{X: p.X * CoordScale, Y: p.Y * -CoordScale, Z: p.Z * CoordScale}
	}
	return nil
}

// layoutEdges converts graph adjacency into indexed, weighted edges using
// the inverted route weight.
func (s *Scene) layoutEdges() ([]layout.Edge, error) {
	index := make(map[string]int, len(s.order))
	for i, label := range s.order {
		index[label] = i
	}

	adj, err := s.Graph.AdjacencyMap()
	if err != nil {
		return nil, fmt.Errorf("reading adjacency: %w", err)
	}

	var edges []layout.Edge
	for _, label := range s.order {
		from := index[label]
		for other, e := range adj[label] {
			to := index[other]
			if to < from {
				continue
			}
			l, ok := e.Properties.Data.(*Link)
			if !ok {
				continue
			}
			edges = append(edges, layout.Edge{From: from, To: to, Weight: l.Weight})
		}
	}
	return edges, nil
}
