// Package cache parks in-progress PHQ-9 screenings between HTTP requests.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/mindsync/internal/screening"
)

// DefaultTTL is how long an untouched screening stays resumable.
const DefaultTTL = 30 * time.Minute

// ErrMiss is returned by Get when no screening is stored under the id,
// including when it has expired.
var ErrMiss = errors.New("screening not found or expired")

// ScreeningCache stores screening snapshots by id. Every Set refreshes the TTL.
type ScreeningCache interface {
	Set(ctx context.Context, id string, snap screening.Snapshot) error
	Get(ctx context.Context, id string) (screening.Snapshot, error)
	Delete(ctx context.Context, id string) error
}

func key(id string) string {
	return "screening:" + id
}

func ttlOrDefault(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return DefaultTTL
	}
	return ttl
}
