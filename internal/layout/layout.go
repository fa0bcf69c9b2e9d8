// Package layout assigns 2D positions to graph nodes and assembles the
// figure structure the web UI hands to Plotly.
package layout

import (
	"math"
	"math/rand"

	"github.com/jayronsoares/index-analysis-tool/internal/graph"
)

// DefaultSeed keeps layouts stable across renders of the same graph.
const DefaultSeed int64 = 42

const (
	springIterations = 50
	baseNodeSize     = 12.0
	sizePerDegree    = 4.0
)

// Point is a 2D node position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// EdgeSegment is one rendered edge line.
type EdgeSegment struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// NodeTrace holds the per-node render arrays, index-aligned.
type NodeTrace struct {
	X      []float64 `json:"x"`
	Y      []float64 `json:"y"`
	Labels []string  `json:"labels"`
	Hover  []string  `json:"hover"`
	Colors []int     `json:"colors"`
	Sizes  []float64 `json:"sizes"`
}

// Figure is the renderable output for one graph: positioned edges plus the
// node trace. Placeholder is non-empty when there is nothing to draw.
type Figure struct {
	Title       string        `json:"title"`
	Placeholder string        `json:"placeholder,omitempty"`
	Edges       []EdgeSegment `json:"edges"`
	Nodes       NodeTrace     `json:"nodes"`
}

// Spring computes a force-directed (Fruchterman-Reingold) layout for g.
// Deterministic for a fixed seed. Degenerate graphs fall back to a fixed
// placement: a single node sits at the origin, and a larger edgeless node
// set is arranged on a circle.
func Spring(g *graph.Graph, seed int64) map[string]Point {
	pos := make(map[string]Point, len(g.Nodes))
	n := len(g.Nodes)
	if n == 0 {
		return pos
	}
	if n == 1 {
		pos[g.Nodes[0].ID] = Point{}
		return pos
	}
	if len(g.Edges) == 0 {
		for i, node := range g.Nodes {
			angle := 2 * math.Pi * float64(i) / float64(n)
			pos[node.ID] = Point{X: math.Cos(angle), Y: math.Sin(angle)}
		}
		return pos
	}

	rng := rand.New(rand.NewSource(seed))
	xs := make([]float64, n)
	ys := make([]float64, n)
	idx := make(map[string]int, n)
	for i, node := range g.Nodes {
		idx[node.ID] = i
		xs[i] = rng.Float64()*2 - 1
		ys[i] = rng.Float64()*2 - 1
	}

	k := math.Sqrt(4.0 / float64(n)) // ideal pairwise distance in a 2x2 frame
	temp := 0.2
	cool := temp / float64(springIterations+1)

	dx := make([]float64, n)
	dy := make([]float64, n)
	for iter := 0; iter < springIterations; iter++ {
		for i := range dx {
			dx[i], dy[i] = 0, 0
		}

		// repulsion between every node pair
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				ddx := xs[i] - xs[j]
				ddy := ys[i] - ys[j]
				dist := math.Hypot(ddx, ddy)
				if dist < 1e-9 {
					// coincident nodes get a symmetric nudge so they
					// separate on both axes
					ddx, ddy = 1e-9, 1e-9
					dist = math.Hypot(ddx, ddy)
				}
				force := k * k / dist
				dx[i] += ddx / dist * force
				dy[i] += ddy / dist * force
				dx[j] -= ddx / dist * force
				dy[j] -= ddy / dist * force
			}
		}

		// attraction along edges
		for _, e := range g.Edges {
			i, j := idx[e.From], idx[e.To]
			ddx := xs[i] - xs[j]
			ddy := ys[i] - ys[j]
			dist := math.Hypot(ddx, ddy)
			if dist < 1e-9 {
				continue
			}
			force := dist * dist / k
			dx[i] -= ddx / dist * force
			dy[i] -= ddy / dist * force
			dx[j] += ddx / dist * force
			dy[j] += ddy / dist * force
		}

		// displace, capped by the current temperature
		for i := 0; i < n; i++ {
			disp := math.Hypot(dx[i], dy[i])
			if disp < 1e-9 {
				continue
			}
			limited := math.Min(disp, temp)
			xs[i] += dx[i] / disp * limited
			ys[i] += dy[i] / disp * limited
		}
		temp -= cool
	}

	for _, node := range g.Nodes {
		i := idx[node.ID]
		pos[node.ID] = Point{X: xs[i], Y: ys[i]}
	}
	return pos
}

// nodeSize scales sublinearly with degree so hub nodes stay readable.
func nodeSize(degree int) float64 {
	return baseNodeSize + sizePerDegree*math.Sqrt(float64(degree))
}

// BuildFigure lays out g and assembles the renderable figure. An empty or
// index-less graph yields a placeholder figure rather than an error.
func BuildFigure(g *graph.Graph, seed int64) Figure {
	// Edges starts non-nil so an edgeless figure marshals as "edges":[],
	// which the front-end iterates without a guard.
	fig := Figure{
		Title: "Index Structure for Table: " + g.Table,
		Edges: []EdgeSegment{},
	}
	if len(g.Edges) == 0 {
		fig.Placeholder = "Table " + g.Table + " has no indexes."
	}

	pos := Spring(g, seed)
	for _, e := range g.Edges {
		from, to := pos[e.From], pos[e.To]
		fig.Edges = append(fig.Edges, EdgeSegment{X0: from.X, Y0: from.Y, X1: to.X, Y1: to.Y})
	}
	for _, node := range g.Nodes {
		p := pos[node.ID]
		fig.Nodes.X = append(fig.Nodes.X, p.X)
		fig.Nodes.Y = append(fig.Nodes.Y, p.Y)
		fig.Nodes.Labels = append(fig.Nodes.Labels, node.Label)
		fig.Nodes.Hover = append(fig.Nodes.Hover, node.Hover)
		fig.Nodes.Colors = append(fig.Nodes.Colors, node.Degree)
		fig.Nodes.Sizes = append(fig.Nodes.Sizes, nodeSize(node.Degree))
	}
	return fig
}
