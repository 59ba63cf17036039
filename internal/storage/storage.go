package storage

import (
	"context"
	"errors"
	"time"

	"seiliquidity/internal/model"
)

// ErrNotFound signals an absent pool, distinct from a storage failure.
var ErrNotFound = errors.New("pool not found")

// PoolFilters narrows FindAll results. Nil IsActive means "either".
type PoolFilters struct {
	Dex      string
	IsActive *bool
}

// PoolStore persists pools and their historical snapshots.
type PoolStore interface {
	Save(ctx context.Context, pool model.Pool) error
	FindByAddress(ctx context.Context, address string) (model.Pool, error)
	FindByID(ctx context.Context, id string) (model.Pool, error)
	FindAll(ctx context.Context, filters PoolFilters) ([]model.Pool, error)
	SaveHistoricalData(ctx context.Context, point model.PoolHistoryPoint) error
	GetHistoricalData(ctx context.Context, poolID string, from, to time.Time) ([]model.PoolHistoryPoint, error)
}
