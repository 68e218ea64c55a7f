package graph

import (
	"container/heap"
	"delivery-routing-engine/internal/domain"
	"errors"
	"math"
	"slices"
)

// ShortestPath runs Dijkstra from start and returns the node sequence to goal
// with its total weight.
//
// Unknown endpoints fail with *domain.NodeNotFoundError. An unreachable goal
// is not an error: the path is empty and the weight zero, leaving the caller
// to decide how to report it. Equal tentative distances are settled in the
// order they were discovered, so repeated calls on the same graph return the
// same path.
func ShortestPath(g *Graph, start, goal string) ([]string, float64, error) {
	if g == nil {
		return nil, 0, errors.New("shortest path: graph is nil")
	}
	if !g.HasNode(start) {
		return nil, 0, &domain.NodeNotFoundError{ID: start}
	}
	if !g.HasNode(goal) {
		return nil, 0, &domain.NodeNotFoundError{ID: goal}
	}

	r := newRunner(g, start)
	r.run(goal)

	if math.IsInf(r.dist[goal], 1) {
		return []string{}, 0, nil
	}
	return r.pathTo(goal), r.dist[goal], nil
}

// PathDistance sums the edge weights along path. A missing directed edge is
// looked up in the reverse direction before failing with
// *domain.EdgeNotFoundError.
func PathDistance(g *Graph, path []string) (float64, error) {
	if g == nil {
		return 0, errors.New("path distance: graph is nil")
	}

	total := 0.0
	for i := 0; i+1 < len(path); i++ {
		a, b := path[i], path[i+1]
		w, ok := g.Weight(a, b)
		if !ok {
			w, ok = g.Weight(b, a)
		}
		if !ok {
			return 0, &domain.EdgeNotFoundError{From: a, To: b}
		}
		total += w
	}
	return total, nil
}

// runner holds the mutable state of one search.
type runner struct {
	g       *Graph
	start   string
	dist    map[string]float64
	prev    map[string]string
	settled map[string]bool
	pq      frontier
	seq     uint64
}

func newRunner(g *Graph, start string) *runner {
	r := &runner{
		g:       g,
		start:   start,
		dist:    make(map[string]float64, g.Len()),
		prev:    make(map[string]string, g.Len()),
		settled: make(map[string]bool, g.Len()),
	}
	for id := range g.nodes {
		r.dist[id] = math.Inf(1)
	}
	r.dist[start] = 0
	r.push(start, 0)
	return r
}

func (r *runner) push(id string, d float64) {
	heap.Push(&r.pq, &frontierItem{id: id, dist: d, seq: r.seq})
	r.seq++
}

// run settles nodes in distance order and stops once goal is popped.
func (r *runner) run(goal string) {
	for r.pq.Len() > 0 {
		item := heap.Pop(&r.pq).(*frontierItem)
		u := item.id

		// Stale entry left behind by a later improvement.
		if r.settled[u] {
			continue
		}
		r.settled[u] = true

		if u == goal {
			return
		}

		for _, nb := range r.g.neighbors(u) {
			if r.settled[nb.ID] {
				continue
			}
			nd := r.dist[u] + nb.Weight
			if nd < r.dist[nb.ID] {
				r.dist[nb.ID] = nd
				r.prev[nb.ID] = u
				r.push(nb.ID, nd)
			}
		}
	}
}

func (r *runner) pathTo(goal string) []string {
	path := []string{goal}
	for cur := goal; cur != r.start; {
		p, ok := r.prev[cur]
		if !ok {
			return []string{}
		}
		path = append(path, p)
		cur = p
	}
	slices.Reverse(path)
	return path
}

type frontierItem struct {
	id   string
	dist float64
	seq  uint64
}

// frontier is a min-heap on (dist, seq). The sequence number makes ties
// resolve first-discovered-first.
type frontier []*frontierItem

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	if f[i].dist != f[j].dist {
		return f[i].dist < f[j].dist
	}
	return f[i].seq < f[j].seq
}

func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

func (f *frontier) Push(x any) { *f = append(*f, x.(*frontierItem)) }

func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*f = old[:n-1]
	return item
}
