package sector

import (
	"fmt"
	"math/rand/v2"
)

// SunIcon is the image drawn for sun nodes in the 2D view.
const SunIcon = "https://png.pngtree.com/png-clipart/20230518/ourmid/pngtree-realistic-sun-illustration-png-image_7096994.png"

const transparent = "rgba(0, 0, 0, 0)"

// NodeStyle is the 2D appearance of a node.
type NodeStyle struct {
	Color string
	Shape string
	Image string
}

// Palette draws random colors from an injected source. A Palette is not
// safe for concurrent use.
type Palette struct {
	rng      *rand.Rand
	SunImage string
}

// NewPalette returns a palette drawing from src.
func NewPalette(src rand.Source) *Palette {
	return &Palette{rng: rand.New(src), SunImage: SunIcon}
}

// NewSeededPalette returns a palette drawing from PCG(seed, 1). The layout
// draws from PCG(seed, 2), so the two streams never overlap.
func NewSeededPalette(seed uint64) *Palette {
	return NewPalette(rand.NewPCG(seed, 1))
}

// NodeStyle returns the 2D style for a body. Suns are drawn as a
// transparent circular image; everything else is an earthy dot.
func (p *Palette) NodeStyle(kind BodyKind) NodeStyle {
	switch kind {
	case BodySun:
		return NodeStyle{Color: transparent, Shape: "circularImage", Image: p.SunImage}
	default:
		return NodeStyle{Color: p.EarthyHex(), Shape: "dot"}
	}
}

// EarthyHex returns #rrggbb with R,G in [150,255] and B in [75,255].
func (p *Palette) EarthyHex() string {
	return p.hex(150, 255, 150, 255, 75, 255)
}

// YellowHex returns #rrggbb with R,G in [210,255] and B in [100,255].
func (p *Palette) YellowHex() string {
	return p.hex(210, 255, 210, 255, 100, 255)
}

// MarkerColor is the 3D marker color for a body.
func (p *Palette) MarkerColor(kind BodyKind) string {
	switch kind {
	case BodySun:
		return p.YellowHex()
	default:
		return p.EarthyHex()
	}
}

func (p *Palette) hex(rlo, rhi, glo, ghi, blo, bhi int) string {
	r := p.between(rlo, rhi)
	g := p.between(glo, ghi)
	b := p.between(blo, bhi)
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// between is inclusive on both ends.
func (p *Palette) between(lo, hi int) int {
	return lo + p.rng.IntN(hi-lo+1)
}
