// Package network builds a directed graph of who observes whom and derives
// structural statistics from it. An edge u->v means voter u sees voter v's
// sincere choice when deciding its own vote.
package network

import (
	"cmp"
	"slices"
	"strconv"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/stat"
)

// Node is a voter in the observation graph.
type Node struct {
	VoterID int64
	Name    string
	Label   string
}

// ID implements graph.Node.
func (n Node) ID() int64 { return n.VoterID }

// DOTID implements dot.Node.
func (n Node) DOTID() string { return n.Name }

// Attributes implements encoding.Attributer.
func (n Node) Attributes() []encoding.Attribute {
	if n.Label == "" {
		return nil
	}
	return []encoding.Attribute{{Key: "label", Value: strconv.Quote(n.Label)}}
}

// Graph is the observation graph of one electorate.
type Graph struct {
	g *simple.DirectedGraph
	n int
}

// Build creates the graph from per-voter observation rows. rows[i][j] == 1
// adds the edge i->j; self-observation is ignored. nodes supplies names and
// labels by voter id and must have one entry per row.
func Build(rows [][]uint8, nodes []Node) *Graph {
	g := simple.NewDirectedGraph()
	for i := range rows {
		n := nodes[i]
		n.VoterID = int64(i)
		g.AddNode(n)
	}
	for i, row := range rows {
		for j, bit := range row {
			if bit != 1 || i == j || j >= len(rows) {
				continue
			}
			g.SetEdge(g.NewEdge(g.Node(int64(i)), g.Node(int64(j))))
		}
	}
	return &Graph{g: g, n: len(rows)}
}

// Directed exposes the underlying gonum graph.
func (g *Graph) Directed() graph.Directed { return g.g }

// Len returns the number of voters.
func (g *Graph) Len() int { return g.n }

// Observes returns the ids voter id observes, ascending.
func (g *Graph) Observes(id int) []int64 { return sortedIDs(g.g.From(int64(id))) }

// ObservedBy returns the ids of voters observing voter id, ascending.
func (g *Graph) ObservedBy(id int) []int64 { return sortedIDs(g.g.To(int64(id))) }

// Summary describes the shape of an observation graph.
type Summary struct {
	Voters           int     `json:"voters" yaml:"voters"`
	Edges            int     `json:"edges" yaml:"edges"`
	MeanOutDegree    float64 `json:"mean_out_degree" yaml:"mean_out_degree"`
	StdDevOutDegree  float64 `json:"stddev_out_degree" yaml:"stddev_out_degree"`
	StdDevInDegree   float64 `json:"stddev_in_degree" yaml:"stddev_in_degree"`
	MaxInDegree      int     `json:"max_in_degree" yaml:"max_in_degree"`
	MostObserved     int     `json:"most_observed" yaml:"most_observed"`
	Isolated         int     `json:"isolated" yaml:"isolated"`
	Unobserved       int     `json:"unobserved" yaml:"unobserved"`
	ReciprocalPairs  int     `json:"reciprocal_pairs" yaml:"reciprocal_pairs"`
	Components       int     `json:"components" yaml:"components"`
	LargestComponent int     `json:"largest_component" yaml:"largest_component"`
}

// Summarize computes degree statistics, reciprocity and strongly connected
// components. Ties for the most observed voter go to the lowest id.
func (g *Graph) Summarize() Summary {
	s := Summary{Voters: g.n}
	if g.n == 0 {
		return s
	}

	out := make([]float64, g.n)
	in := make([]float64, g.n)
	for id := range g.n {
		o := len(g.Observes(id))
		i := len(g.ObservedBy(id))
		out[id], in[id] = float64(o), float64(i)
		s.Edges += o
		if o == 0 {
			s.Isolated++
		}
		if i == 0 {
			s.Unobserved++
		}
		if i > s.MaxInDegree {
			s.MaxInDegree = i
			s.MostObserved = id
		}
		for _, v := range g.Observes(id) {
			if int64(id) < v && g.g.HasEdgeFromTo(v, int64(id)) {
				s.ReciprocalPairs++
			}
		}
	}

	s.MeanOutDegree = stat.Mean(out, nil)
	if g.n > 1 {
		_, s.StdDevOutDegree = stat.MeanStdDev(out, nil)
		_, s.StdDevInDegree = stat.MeanStdDev(in, nil)
	}

	components := topo.TarjanSCC(g.g)
	s.Components = len(components)
	for _, c := range components {
		s.LargestComponent = max(s.LargestComponent, len(c))
	}
	return s
}

// sortedIDs drains a gonum node iterator into ascending ids. gonum iterates
// its maps in random order; callers that sum floats need a fixed order.
func sortedIDs(it graph.Nodes) []int64 {
	nodes := graph.NodesOf(it)
	ids := make([]int64, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID()
	}
	slices.SortFunc(ids, cmp.Compare[int64])
	return ids
}
