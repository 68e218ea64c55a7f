// Package graph holds the weighted directed location graph the routing core
// searches. A Graph is assembled once through a Builder and is read-only
// afterwards, so a single value can be shared by concurrent requests.
package graph

import (
	"delivery-routing-engine/internal/domain"
	"fmt"
	"math"
	"slices"
)

// DefaultWeight applies to edges declared without a distance.
const DefaultWeight = 1.0

// Point is a planar coordinate used for interpolation.
type Point struct {
	X float64
	Y float64
}

// Node is a named location with an optional coordinate.
type Node struct {
	ID    string
	Coord *Point
}

// Edge is a directed weighted connection.
type Edge struct {
	From   string
	To     string
	Weight float64
}

// Neighbor is one outgoing edge seen from its source node.
type Neighbor struct {
	ID     string
	Weight float64
}

type Graph struct {
	nodes map[string]Node
	adj   map[string][]Neighbor
}

// HasNode reports whether id is a node of g.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Node returns the node for id or a *domain.NodeNotFoundError.
func (g *Graph) Node(id string) (Node, error) {
	n, ok := g.nodes[id]
	if !ok {
		return Node{}, &domain.NodeNotFoundError{ID: id}
	}
	return n, nil
}

// Neighbors returns the outgoing edges of id sorted by target id.
// Unknown nodes yield an empty slice.
func (g *Graph) Neighbors(id string) []Neighbor {
	return slices.Clone(g.adj[id])
}

// neighbors is the allocation-free variant for algorithms inside the module.
func (g *Graph) neighbors(id string) []Neighbor {
	return g.adj[id]
}

// Weight returns the weight of the directed edge from -> to.
func (g *Graph) Weight(from, to string) (float64, bool) {
	for _, nb := range g.adj[from] {
		if nb.ID == to {
			return nb.Weight, true
		}
	}
	return 0, false
}

// Nodes returns all node ids in ascending order.
func (g *Graph) Nodes() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Edges returns every edge ordered by source then target.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0)
	for _, from := range g.Nodes() {
		for _, nb := range g.adj[from] {
			out = append(out, Edge{From: from, To: nb.ID, Weight: nb.Weight})
		}
	}
	return out
}

func (g *Graph) Len() int { return len(g.nodes) }

// Builder accumulates nodes and edges before freezing them into a Graph.
type Builder struct {
	nodes map[string]Node
	adj   map[string]map[string]float64
}

func NewBuilder() *Builder {
	return &Builder{
		nodes: make(map[string]Node),
		adj:   make(map[string]map[string]float64),
	}
}

// AddNode registers id, replacing the coordinate when coord is non-nil.
func (b *Builder) AddNode(id string, coord *Point) error {
	if id == "" {
		return fmt.Errorf("add node: id must be non-empty")
	}
	n, ok := b.nodes[id]
	if !ok {
		n = Node{ID: id}
	}
	if coord != nil {
		c := *coord
		n.Coord = &c
	}
	b.nodes[id] = n
	return nil
}

// AddEdge adds or replaces the directed edge from -> to. Both endpoints are
// registered as nodes; a target that never gets outgoing edges stays terminal.
func (b *Builder) AddEdge(from, to string, weight float64) error {
	if from == "" || to == "" {
		return fmt.Errorf("add edge: endpoints must be non-empty (from=%q to=%q)", from, to)
	}
	if weight < 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return fmt.Errorf("add edge %q -> %q: weight must be finite and non-negative, got %v", from, to, weight)
	}
	if err := b.AddNode(from, nil); err != nil {
		return err
	}
	if err := b.AddNode(to, nil); err != nil {
		return err
	}

	out, ok := b.adj[from]
	if !ok {
		out = make(map[string]float64)
		b.adj[from] = out
	}
	out[to] = weight
	return nil
}

// Build freezes the accumulated state. The builder may keep being used;
// later changes do not affect graphs already built.
func (b *Builder) Build() *Graph {
	g := &Graph{
		nodes: make(map[string]Node, len(b.nodes)),
		adj:   make(map[string][]Neighbor, len(b.adj)),
	}
	for id, n := range b.nodes {
		if n.Coord != nil {
			c := *n.Coord
			n.Coord = &c
		}
		g.nodes[id] = n
	}
	for from, out := range b.adj {
		nbs := make([]Neighbor, 0, len(out))
		for to, w := range out {
			nbs = append(nbs, Neighbor{ID: to, Weight: w})
		}
		slices.SortFunc(nbs, func(a, b Neighbor) int {
			if a.ID < b.ID {
				return -1
			}
			if a.ID > b.ID {
				return 1
			}
			return 0
		})
		g.adj[from] = nbs
	}
	return g
}
