package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
)

// coordKey is the reserved member holding a node's coordinate; every other
// member of a node object is an outgoing edge keyed by the target id.
const coordKey = "coord"

type coordSeed struct {
	X   *float64 `json:"x"`
	Y   *float64 `json:"y"`
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type edgeSeed struct {
	Dist *float64 `json:"dist"`
}

// LoadJSON builds a graph from an adjacency document of the form
//
//	{"A": {"B": {"dist": 5}, "coord": {"x": 10, "y": 10}}, "B": {}}
//
// Edges without "dist" weigh DefaultWeight. Coordinates may be given as x/y
// or lat/lng (lng maps to X, lat to Y).
func LoadJSON(r io.Reader) (*Graph, error) {
	var raw map[string]map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("load graph: decode json: %w", err)
	}

	ids := make([]string, 0, len(raw))
	for id := range raw {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	b := NewBuilder()
	for _, id := range ids {
		if err := b.AddNode(id, nil); err != nil {
			return nil, fmt.Errorf("load graph: %w", err)
		}

		for key, msg := range raw[id] {
			if key == coordKey {
				p, err := parseCoord(msg)
				if err != nil {
					return nil, fmt.Errorf("load graph: node %q: %w", id, err)
				}
				if err := b.AddNode(id, p); err != nil {
					return nil, fmt.Errorf("load graph: %w", err)
				}
				continue
			}

			var e edgeSeed
			if err := json.Unmarshal(msg, &e); err != nil {
				return nil, fmt.Errorf("load graph: edge %q -> %q: %w", id, key, err)
			}
			w := DefaultWeight
			if e.Dist != nil {
				w = *e.Dist
			}
			if err := b.AddEdge(id, key, w); err != nil {
				return nil, fmt.Errorf("load graph: %w", err)
			}
		}
	}

	return b.Build(), nil
}

// LoadFile reads a JSON adjacency document from disk.
func LoadFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load graph: open %q: %w", path, err)
	}
	defer f.Close()

	return LoadJSON(f)
}

func parseCoord(msg json.RawMessage) (*Point, error) {
	var c coordSeed
	if err := json.Unmarshal(msg, &c); err != nil {
		return nil, fmt.Errorf("decode coord: %w", err)
	}
	switch {
	case c.X != nil && c.Y != nil:
		return &Point{X: *c.X, Y: *c.Y}, nil
	case c.Lat != nil && c.Lng != nil:
		return &Point{X: *c.Lng, Y: *c.Lat}, nil
	}
	return nil, fmt.Errorf("coord needs x/y or lat/lng")
}
