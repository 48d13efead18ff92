package network

import (
	"fmt"

	"gonum.org/v1/gonum/graph/encoding/dot"
)

// Format specifies the output format for graph rendering.
type Format string

const (
	FormatDOT  Format = "dot"
	FormatJSON Format = "json"
)

// RenderDOT produces a Graphviz DOT representation of the observation graph.
// Nodes and edges are emitted in id order.
func (g *Graph) RenderDOT(name string) (string, error) {
	data, err := dot.Marshal(g.g, name, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal dot: %w", err)
	}
	return string(data) + "\n", nil
}

// JSONGraph is the JSON form of an observation graph.
type JSONGraph struct {
	Nodes []JSONNode `json:"nodes"`
	Edges []JSONEdge `json:"edges"`
}

// JSONNode is a voter with its degrees and influence.
type JSONNode struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Label     string  `json:"label,omitempty"`
	OutDegree int     `json:"out_degree"`
	InDegree  int     `json:"in_degree"`
	Influence float64 `json:"influence"`
}

// JSONEdge is one observation link.
type JSONEdge struct {
	Observer int `json:"observer"`
	Observed int `json:"observed"`
}

// RenderJSON returns the graph as node and edge lists ordered by id.
func (g *Graph) RenderJSON() JSONGraph {
	influence := g.Influence(DefaultInfluenceConfig())
	out := JSONGraph{
		Nodes: make([]JSONNode, 0, g.n),
		Edges: []JSONEdge{},
	}
	for id := range g.n {
		node, _ := g.g.Node(int64(id)).(Node)
		observes := g.Observes(id)
		out.Nodes = append(out.Nodes, JSONNode{
			ID:        id,
			Name:      node.Name,
			Label:     node.Label,
			OutDegree: len(observes),
			InDegree:  len(g.ObservedBy(id)),
			Influence: influence[id],
		})
		for _, v := range observes {
			out.Edges = append(out.Edges, JSONEdge{Observer: id, Observed: int(v)})
		}
	}
	return out
}
