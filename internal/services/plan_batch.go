package services

import (
	"context"
	"delivery-routing-engine/internal/domain"
	"fmt"
	"sync"
)

const DefaultBatchConcurrency = 5

type RouteRequest struct {
	Locations []string
	Optimize  bool
}

// RouteResult pairs a batch entry with its outcome; exactly one of Plan and Err is set.
type RouteResult struct {
	Index int
	Plan  *domain.RoutePlan
	Err   error
}

type routePlanner interface {
	PlanRoute(ctx context.Context, locations []string, optimize bool) (*domain.RoutePlan, error)
}

// PlanBatch plans independent routes with at most concurrency provider calls
// in flight. Results keep the order of reqs. A failed entry does not cancel
// the others; only ctx does.
func PlanBatch(ctx context.Context, planner routePlanner, reqs []RouteRequest, concurrency int) []RouteResult {
	if concurrency <= 0 {
		concurrency = DefaultBatchConcurrency
	}

	results := make([]RouteResult, len(reqs))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i, req := range reqs {
		wg.Add(1)
		go func(i int, req RouteRequest) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				results[i] = RouteResult{Index: i, Err: fmt.Errorf("plan batch: entry #%d: %w", i+1, ctx.Err())}
				return
			}
			defer func() { <-sem }()

			plan, err := planner.PlanRoute(ctx, req.Locations, req.Optimize)
			if err != nil {
				results[i] = RouteResult{Index: i, Err: fmt.Errorf("plan batch: entry #%d: %w", i+1, err)}
				return
			}
			results[i] = RouteResult{Index: i, Plan: plan}
		}(i, req)
	}

	wg.Wait()
	return results
}
