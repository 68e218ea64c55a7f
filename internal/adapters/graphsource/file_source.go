package graphsource

import (
	"context"
	"delivery-routing-engine/internal/graph"
	"delivery-routing-engine/internal/platform/obs"
	"errors"
	"fmt"
)

// FileSource loads the routing graph from a JSON document on disk.
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) LoadGraph(ctx context.Context) (_ *graph.Graph, err error) {
	defer obs.Time(ctx, "graphsource.file.LoadGraph")(&err)

	if s.Path == "" {
		return nil, errors.New("file graph source: path is empty")
	}
	g, err := graph.LoadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("file graph source: %w", err)
	}
	return g, nil
}
