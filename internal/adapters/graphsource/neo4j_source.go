package graphsource

import (
	"context"
	"delivery-routing-engine/internal/graph"
	"delivery-routing-engine/internal/platform/obs"
	"errors"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Every location with its outgoing roads; locations without roads yield one
// row with a null target.
const loadGraphCypher = `
MATCH (n:Location)
OPTIONAL MATCH (n)-[r:ROAD]->(m:Location)
RETURN n.id AS id, n.x AS x, n.y AS y, m.id AS to, r.dist AS dist
ORDER BY id, to
`

type result interface {
	Next(ctx context.Context) bool
	Record() *neo4j.Record
	Err() error
}

type runner interface {
	Run(ctx context.Context, cypher string, params map[string]any) (result, error)
	Close(ctx context.Context) error
}

type sessionAdapter struct {
	sess neo4j.SessionWithContext
}

func (a *sessionAdapter) Run(ctx context.Context, cypher string, params map[string]any) (result, error) {
	return a.sess.Run(ctx, cypher, params)
}

func (a *sessionAdapter) Close(ctx context.Context) error {
	return a.sess.Close(ctx)
}

// Neo4jSource reads (:Location {id, x, y})-[:ROAD {dist}]->(:Location).
// A road without dist gets graph.DefaultWeight.
type Neo4jSource struct {
	driver     neo4j.DriverWithContext
	newSession func(ctx context.Context) runner
}

func NewNeo4jSource(driver neo4j.DriverWithContext) *Neo4jSource {
	return &Neo4jSource{driver: driver}
}

// NewNeo4jDriver connects with basic auth and verifies connectivity.
func NewNeo4jDriver(ctx context.Context, url, user, pass string) (neo4j.DriverWithContext, error) {
	driver, err := neo4j.NewDriverWithContext(url, neo4j.BasicAuth(user, pass, ""))
	if err != nil {
		return nil, fmt.Errorf("neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("neo4j connectivity: %w", err)
	}
	return driver, nil
}

func (s *Neo4jSource) session(ctx context.Context) runner {
	if s.newSession != nil {
		return s.newSession(ctx)
	}
	return &sessionAdapter{sess: s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})}
}

func (s *Neo4jSource) LoadGraph(ctx context.Context) (_ *graph.Graph, err error) {
	defer obs.Time(ctx, "graphsource.neo4j.LoadGraph")(&err)

	if s.driver == nil && s.newSession == nil {
		return nil, errors.New("neo4j graph source: driver is nil")
	}

	sess := s.session(ctx)
	defer sess.Close(ctx)

	res, err := sess.Run(ctx, loadGraphCypher, nil)
	if err != nil {
		return nil, fmt.Errorf("neo4j graph source: run: %w", err)
	}

	b := graph.NewBuilder()
	rows := 0
	for res.Next(ctx) {
		rows++
		rec := res.Record()

		id, ok := stringValue(rec, "id")
		if !ok {
			return nil, fmt.Errorf("neo4j graph source: row %d: location without id", rows)
		}

		var coord *graph.Point
		x, okX := floatValue(rec, "x")
		y, okY := floatValue(rec, "y")
		if okX && okY {
			coord = &graph.Point{X: x, Y: y}
		}
		if err := b.AddNode(id, coord); err != nil {
			return nil, fmt.Errorf("neo4j graph source: %w", err)
		}

		to, ok := stringValue(rec, "to")
		if !ok {
			continue
		}
		w, ok := floatValue(rec, "dist")
		if !ok {
			w = graph.DefaultWeight
		}
		if err := b.AddEdge(id, to, w); err != nil {
			return nil, fmt.Errorf("neo4j graph source: %w", err)
		}
	}
	if err := res.Err(); err != nil {
		return nil, fmt.Errorf("neo4j graph source: iterate: %w", err)
	}

	return b.Build(), nil
}

func stringValue(rec *neo4j.Record, key string) (string, bool) {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}

func floatValue(rec *neo4j.Record, key string) (float64, bool) {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	}
	return 0, false
}
