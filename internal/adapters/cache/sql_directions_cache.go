package cache

import (
	"context"
	"database/sql"
	"delivery-routing-engine/internal/platform/obs"
	"delivery-routing-engine/internal/ports"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SQLDirectionsCache is a Postgres-backed cache of provider responses keyed
// by DirectionsRequest.CacheKey. Rows older than TTL are treated as misses.
type SQLDirectionsCache struct {
	DB  *sql.DB
	TTL time.Duration
}

func NewSQLDirectionsCache(db *sql.DB, ttl time.Duration) *SQLDirectionsCache {
	return &SQLDirectionsCache{DB: db, TTL: ttl}
}

func (s *SQLDirectionsCache) Get(
	ctx context.Context,
	key string,
) (_ *ports.DirectionsResponse, _ bool, err error) {
	defer obs.Time(ctx, "directions.cache.sql.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("directions cache: db is nil")
	}
	if key == "" {
		return nil, false, errors.New("get directions cache: key must not be empty")
	}

	q := `
	SELECT payload, created_at
	FROM directions_cache
	WHERE cache_key = $1;
	`

	var payload []byte
	var createdAt time.Time
	err = s.DB.QueryRowContext(ctx, q, key).Scan(&payload, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get directions cache: query directions_cache table: %w", err)
	}

	if s.TTL > 0 && time.Since(createdAt) > s.TTL {
		return nil, false, nil
	}

	var resp ports.DirectionsResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, false, fmt.Errorf("get directions cache: decode payload: %w", err)
	}

	return &resp, true, nil
}

func (s *SQLDirectionsCache) Put(
	ctx context.Context,
	key string,
	resp *ports.DirectionsResponse,
) error {
	if s.DB == nil {
		return errors.New("directions cache: db is nil")
	}
	if key == "" {
		return errors.New("insert directions cache: key must not be empty")
	}
	if resp == nil {
		return nil
	}

	payload, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("insert directions cache: encode payload: %w", err)
	}

	q := `
	INSERT INTO directions_cache (cache_key, payload, created_at)
	VALUES ($1, $2, now())
	ON CONFLICT (cache_key) DO UPDATE
	SET payload = EXCLUDED.payload,
		created_at = EXCLUDED.created_at;
	`
	if _, err := s.DB.ExecContext(ctx, q, key, payload); err != nil {
		return fmt.Errorf("insert directions cache key=%q: %w", key, err)
	}

	return nil
}

// Purge deletes rows older than TTL and returns how many were removed.
func (s *SQLDirectionsCache) Purge(ctx context.Context) (int64, error) {
	if s.DB == nil {
		return 0, errors.New("directions cache: db is nil")
	}
	if s.TTL <= 0 {
		return 0, nil
	}

	res, err := s.DB.ExecContext(ctx,
		`DELETE FROM directions_cache WHERE created_at < $1;`,
		time.Now().Add(-s.TTL),
	)
	if err != nil {
		return 0, fmt.Errorf("purge directions cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge directions cache: rows affected: %w", err)
	}
	return n, nil
}
