// Package viz renders star-map scenes as HTML: a vis-network fragment for
// the 2D view and a plotly page for the 3D view.
package viz

import (
	"errors"
	"fmt"
	"strings"
)

// Mode selects a renderer.
type Mode string

const (
	Mode2D Mode = "2d"
	Mode3D Mode = "3d"
)

// ErrInvalidMode is returned by ParseMode for anything but 2d or 3d.
var ErrInvalidMode = errors.New("invalid render mode")

// ParseMode accepts "2d" or "3d" in any case. Empty means 3d.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "2d":
		return Mode2D, nil
	case "3d", "":
		return Mode3D, nil
	default:
		return "", fmt.Errorf("%w %q: must be 2d or 3d", ErrInvalidMode, s)
	}
}

// Dim returns the layout dimension for the mode.
func (m Mode) Dim() int {
	if m == Mode2D {
		return 2
	}
	return 3
}

// Options configures HTML generation.
type Options struct {
	Title  string // page title, defaults to DefaultTitle
	Height string // 2D viewport height, defaults to "75vh"
}

// DefaultTitle is the page title when none is configured.
const DefaultTitle = "Nyxal's Reach"

// DefaultOptions returns default HTML generation options.
func DefaultOptions() Options {
	return Options{Title: DefaultTitle, Height: "75vh"}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Title == "" {
		o.Title = d.Title
	}
	if o.Height == "" {
		o.Height = d.Height
	}
	return o
}

// visNode is a node in vis-network DataSet format.
type visNode struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Type  string  `json:"type"`
	Title string  `json:"title"`
	Color string  `json:"color"`
	Shape string  `json:"shape"`
	Image string  `json:"image,omitempty"`
	Font  visFont `json:"font"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

type visFont struct {
	Color string `json:"color"`
	Face  string `json:"face"`
}

// visEdge is an edge in vis-network DataSet format.
type visEdge struct {
	ID     string  `json:"id"`
	From   string  `json:"from"`
	To     string  `json:"to"`
	Weight float64 `json:"weight"`
	Type   string  `json:"type"`
	Color  string  `json:"color"`
	Dashes bool    `json:"dashes"`
	Width  int     `json:"width"`
}

// visOptions mirrors the vis-network options object.
type visOptions struct {
	Nodes  visNodeOptions `json:"nodes"`
	Layout visLayout      `json:"layout"`
}

type visNodeOptions struct {
	Physics bool `json:"physics"`
}

type visLayout struct {
	Hierarchical bool `json:"hierarchical"`
}
