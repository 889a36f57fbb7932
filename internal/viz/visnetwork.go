package viz

import (
	"encoding/json"
	"fmt"

	"github.com/dynamicsector/dynamicsector/internal/starmap"
)

// EdgeWidth is the stroke width of every 2D edge.
const EdgeWidth = 2

// Background2D is the 2D canvas color.
const Background2D = "#031101"

// visData holds the three JSON documents the 2D script needs.
type visData struct {
	Nodes   string
	Edges   string
	Options string
}

// toVisNetwork converts a scene to vis-network JSON.
func toVisNetwork(scene *starmap.Scene) (visData, error) {
	stars := scene.Stars()
	nodes := make([]visNode, 0, len(stars))
	for _, st := range stars {
		nodes = append(nodes, visNode{
			ID:    st.Label,
			Label: st.Label,
			Value: st.Value,
			Type:  st.Type,
			Title: st.Title,
			Color: st.Style.Color,
			Shape: st.Style.Shape,
			Image: st.Style.Image,
			Font:  visFont{Color: st.Font.Color, Face: st.Font.Face},
			X:     st.Pos.X,
			Y:     st.Pos.Y,
		})
	}

	links := scene.Links()
	edges := make([]visEdge, 0, len(links))
	for i, l := range links {
		edges = append(edges, visEdge{
			ID:     edgeID(l.Source, l.Target, i),
			From:   l.Source,
			To:     l.Target,
			Weight: l.Weight,
			Type:   l.Type,
			Color:  l.Style.Color,
			Dashes: l.Style.Dashes,
			Width:  EdgeWidth,
		})
	}

	opts := visOptions{
		Nodes:  visNodeOptions{Physics: false},
		Layout: visLayout{Hierarchical: false},
	}

	var out visData
	for _, part := range []struct {
		dst  *string
		v    any
		name string
	}{
		{&out.Nodes, nodes, "nodes"},
		{&out.Edges, edges, "edges"},
		{&out.Options, opts, "options"},
	} {
		b, err := json.Marshal(part.v)
		if err != nil {
			return visData{}, fmt.Errorf("marshaling vis-network %s: %w", part.name, err)
		}
		*part.dst = string(b)
	}
	return out, nil
}

// edgeID generates an edge ID unique within one render.
func edgeID(source, target string, index int) string {
	return fmt.Sprintf("%s-%s-%d", source, target, index)
}
