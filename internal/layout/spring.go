// Package layout computes node positions for graphs without supplied
// coordinates.
package layout

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
)

// ErrDimension is returned for layouts outside 2 or 3 dimensions.
var ErrDimension = errors.New("layout dimension must be 2 or 3")

// Position is a point in layout space. Z is zero for 2D layouts.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Edge connects two node indexes. Weight scales attraction.
type Edge struct {
	From, To int
	Weight   float64
}

// Config configures a spring layout.
type Config struct {
	Dim        int        // 2 or 3
	Iterations int        // defaults to 50
	Threshold  float64    // convergence threshold, defaults to 1e-4
	Rand       *rand.Rand // initial positions; defaults to a zero-seeded PCG
}

const (
	defaultIterations = 50
	defaultThreshold  = 1e-4
	minDistance       = 0.01
)

// Spring runs a Fruchterman-Reingold force layout over n nodes and
// rescales the result so that coordinates are centered on the origin and
// the largest absolute coordinate is 1.
func Spring(n int, edges []Edge, cfg Config) ([]Position, error) {
	if cfg.Dim != 2 && cfg.Dim != 3 {
		return nil, fmt.Errorf("%w: got %d", ErrDimension, cfg.Dim)
	}
	if cfg.Iterations <= 0 {
		cfg.Iterations = defaultIterations
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = defaultThreshold
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewPCG(0, 0))
	}

	switch n {
	case 0:
		return nil, nil
	case 1:
		return []Position{{}}, nil
	}

	adj := make([][]float64, n)
	for i := range adj {
		adj[i] = make([]float64, n)
	}
	for _, e := range edges {
		if e.From < 0 || e.From >= n || e.To < 0 || e.To >= n {
			return nil, fmt.Errorf("edge %d-%d out of range for %d nodes", e.From, e.To, n)
		}
		adj[e.From][e.To] = e.Weight
		adj[e.To][e.From] = e.Weight
	}

	dim := cfg.Dim
	pos := make([][]float64, n)
	for i := range pos {
		pos[i] = make([]float64, dim)
		for d := range pos[i] {
			pos[i][d] = cfg.Rand.Float64()
		}
	}

	fruchtermanReingold(pos, adj, cfg.Iterations, cfg.Threshold)
	rescale(pos)

	out := make([]Position, n)
	for i, p := range pos {
		out[i] = Position{X: p[0], Y: p[1]}
		if dim == 3 {
			out[i].Z = p[2]
		}
	}
	return out, nil
}

func fruchtermanReingold(pos, adj [][]float64, iterations int, threshold float64) {
	n := len(pos)
	dim := len(pos[0])
	k := math.Sqrt(1 / float64(n))

	// Initial temperature is a tenth of the wider of the first two spans.
	t := math.Max(span(pos, 0), span(pos, 1)) * 0.1
	dt := t / float64(iterations+1)

	delta := make([]float64, dim)
	disp := make([][]float64, n)
	for i := range disp {
		disp[i] = make([]float64, dim)
	}

	for iter := 0; iter < iterations; iter++ {
		for i := 0; i < n; i++ {
			for d := range disp[i] {
				disp[i][d] = 0
			}
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				dist := 0.0
				for d := 0; d < dim; d++ {
					delta[d] = pos[i][d] - pos[j][d]
					dist += delta[d] * delta[d]
				}
				dist = math.Max(math.Sqrt(dist), minDistance)
				force := k*k/(dist*dist) - adj[i][j]*dist/k
				for d := 0; d < dim; d++ {
					disp[i][d] += delta[d] * force
				}
			}
		}

		moved := 0.0
		for i := 0; i < n; i++ {
			length := norm(disp[i])
			if length < minDistance {
				length = 0.1
			}
			for d := 0; d < dim; d++ {
				step := disp[i][d] * t / length
				pos[i][d] += step
				moved += step * step
			}
		}
		t -= dt
		if math.Sqrt(moved)/float64(n) < threshold {
			break
		}
	}
}

// rescale centers each axis on zero and scales all axes by the same factor
// so the largest absolute coordinate is 1.
func rescale(pos [][]float64) {
	n := float64(len(pos))
	dim := len(pos[0])
	lim := 0.0
	for d := 0; d < dim; d++ {
		mean := 0.0
		for _, p := range pos {
			mean += p[d]
		}
		mean /= n
		for _, p := range pos {
			p[d] -= mean
			lim = math.Max(lim, math.Abs(p[d]))
		}
	}
	if lim == 0 {
		return
	}
	for _, p := range pos {
		for d := range p {
			p[d] /= lim
		}
	}
}

func span(pos [][]float64, d int) float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range pos {
		lo = math.Min(lo, p[d])
		hi = math.Max(hi, p[d])
	}
	return hi - lo
}

func norm(v []float64) float64 {
	s := 0.0
	for _, x := range v {
		s += x * x
	}
	return math.Sqrt(s)
}
