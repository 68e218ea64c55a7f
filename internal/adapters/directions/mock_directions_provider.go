package directions

import (
	"context"
	"delivery-routing-engine/internal/ports"
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

type MockRoute struct {
	Locations []string
	Response  *ports.DirectionsResponse
	Err       error
}

// MockDirectionsProvider serves canned responses keyed by the location list.
type MockDirectionsProvider struct {
	m       map[string]MockRoute
	latency time.Duration
	calls   atomic.Int64
}

func NewMockDirectionsProvider(routes []MockRoute) *MockDirectionsProvider {
	m := make(map[string]MockRoute, len(routes))
	for _, r := range routes {
		m[mockKey(r.Locations)] = r
	}
	return &MockDirectionsProvider{m: m}
}

// WithLatency delays every call by d or until ctx is done.
func (p *MockDirectionsProvider) WithLatency(d time.Duration) *MockDirectionsProvider {
	p.latency = d
	return p
}

func (p *MockDirectionsProvider) Calls() int { return int(p.calls.Load()) }

func (p *MockDirectionsProvider) Directions(ctx context.Context, req ports.DirectionsRequest) (*ports.DirectionsResponse, error) {
	p.calls.Add(1)

	if p.latency > 0 {
		timer := time.NewTimer(p.latency)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	r, ok := p.m[mockKey(req.Locations)]
	if !ok {
		return nil, fmt.Errorf("missing route %q", req.Locations)
	}
	return r.Response, r.Err
}

func mockKey(locations []string) string { return strings.Join(locations, "|") }
