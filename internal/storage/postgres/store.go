package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"seiliquidity/internal/model"
	"seiliquidity/internal/storage"
)

// Store provides Postgres persistence for pools and history points.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to Postgres with the given DSN.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the tables this store writes to.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS pools (
			id TEXT PRIMARY KEY,
			pool_address TEXT NOT NULL UNIQUE,
			dex TEXT NOT NULL,
			token0 TEXT NOT NULL,
			token1 TEXT NOT NULL,
			token0_symbol TEXT,
			token1_symbol TEXT,
			fee_tier TEXT,
			tvl TEXT,
			volume_24h TEXT,
			apr TEXT,
			metadata JSONB,
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);
		CREATE TABLE IF NOT EXISTS pool_history (
			pool_id TEXT NOT NULL REFERENCES pools(id),
			ts TIMESTAMPTZ NOT NULL,
			reserve0 TEXT NOT NULL,
			reserve1 TEXT NOT NULL,
			tvl TEXT,
			volume TEXT,
			price TEXT,
			PRIMARY KEY (pool_id, ts)
		);
	`)
	return err
}

// Save upserts a pool keyed by its address. On conflict the identity
// fields and created_at are left alone; metrics and activity win last
// write.
func (s *Store) Save(ctx context.Context, pool model.Pool) error {
	metadata, err := json.Marshal(pool.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO pools (
			id, pool_address, dex, token0, token1, token0_symbol, token1_symbol,
			fee_tier, tvl, volume_24h, apr, metadata, is_active, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		ON CONFLICT (pool_address)
		DO UPDATE SET
			tvl = EXCLUDED.tvl,
			volume_24h = EXCLUDED.volume_24h,
			apr = EXCLUDED.apr,
			metadata = EXCLUDED.metadata,
			is_active = EXCLUDED.is_active,
			updated_at = EXCLUDED.updated_at
	`,
		pool.ID,
		pool.PoolAddress,
		pool.Dex,
		pool.Token0,
		pool.Token1,
		nullable(pool.Token0Symbol),
		nullable(pool.Token1Symbol),
		nullable(pool.FeeTier),
		nullable(pool.TVL),
		nullable(pool.Volume24h),
		nullable(pool.APR),
		metadata,
		pool.IsActive,
		pool.CreatedAt,
		pool.UpdatedAt,
	)
	return err
}

// FindByAddress returns the pool with the given address or ErrNotFound.
func (s *Store) FindByAddress(ctx context.Context, address string) (model.Pool, error) {
	return s.findOne(ctx, `WHERE pool_address = $1`, address)
}

// FindByID returns the pool with the given ID or ErrNotFound.
func (s *Store) FindByID(ctx context.Context, id string) (model.Pool, error) {
	return s.findOne(ctx, `WHERE id = $1`, id)
}

const poolColumns = `
	id, pool_address, dex, token0, token1,
	COALESCE(token0_symbol, ''), COALESCE(token1_symbol, ''),
	COALESCE(fee_tier, ''), COALESCE(tvl, ''), COALESCE(volume_24h, ''), COALESCE(apr, ''),
	metadata, is_active, created_at, updated_at
`

func (s *Store) findOne(ctx context.Context, where string, arg interface{}) (model.Pool, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+poolColumns+` FROM pools `+where, arg)
	pool, err := scanPool(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Pool{}, storage.ErrNotFound
		}
		return model.Pool{}, err
	}
	return pool, nil
}

// FindAll lists pools matching the filters, newest first.
func (s *Store) FindAll(ctx context.Context, filters storage.PoolFilters) ([]model.Pool, error) {
	query := `SELECT ` + poolColumns + ` FROM pools WHERE 1=1`
	args := make([]interface{}, 0, 2)
	if filters.Dex != "" {
		args = append(args, filters.Dex)
		query += fmt.Sprintf(" AND dex = $%d", len(args))
	}
	if filters.IsActive != nil {
		args = append(args, *filters.IsActive)
		query += fmt.Sprintf(" AND is_active = $%d", len(args))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pools := make([]model.Pool, 0)
	for rows.Next() {
		pool, err := scanPool(rows)
		if err != nil {
			return nil, err
		}
		pools = append(pools, pool)
	}
	return pools, rows.Err()
}

// SaveHistoricalData appends one time-series snapshot.
func (s *Store) SaveHistoricalData(ctx context.Context, point model.PoolHistoryPoint) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO pool_history (pool_id, ts, reserve0, reserve1, tvl, volume, price)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (pool_id, ts) DO UPDATE SET
			reserve0 = EXCLUDED.reserve0,
			reserve1 = EXCLUDED.reserve1,
			tvl = EXCLUDED.tvl,
			volume = EXCLUDED.volume,
			price = EXCLUDED.price
	`,
		point.PoolID,
		point.Timestamp,
		point.Reserve0,
		point.Reserve1,
		nullable(point.TVL),
		nullable(point.Volume),
		nullable(point.Price),
	)
	return err
}

// GetHistoricalData returns snapshots for a pool in [from, to], oldest
// first.
func (s *Store) GetHistoricalData(ctx context.Context, poolID string, from, to time.Time) ([]model.PoolHistoryPoint, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT pool_id, ts, reserve0, reserve1,
			COALESCE(tvl, ''), COALESCE(volume, ''), COALESCE(price, '')
		FROM pool_history
		WHERE pool_id = $1 AND ts >= $2 AND ts <= $3
		ORDER BY ts ASC
	`, poolID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	points := make([]model.PoolHistoryPoint, 0)
	for rows.Next() {
		var point model.PoolHistoryPoint
		if err := rows.Scan(
			&point.PoolID,
			&point.Timestamp,
			&point.Reserve0,
			&point.Reserve1,
			&point.TVL,
			&point.Volume,
			&point.Price,
		); err != nil {
			return nil, err
		}
		points = append(points, point)
	}
	return points, rows.Err()
}

func scanPool(row pgx.Row) (model.Pool, error) {
	var pool model.Pool
	var metadata []byte
	if err := row.Scan(
		&pool.ID,
		&pool.PoolAddress,
		&pool.Dex,
		&pool.Token0,
		&pool.Token1,
		&pool.Token0Symbol,
		&pool.Token1Symbol,
		&pool.FeeTier,
		&pool.TVL,
		&pool.Volume24h,
		&pool.APR,
		&metadata,
		&pool.IsActive,
		&pool.CreatedAt,
		&pool.UpdatedAt,
	); err != nil {
		return model.Pool{}, err
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &pool.Metadata); err != nil {
			return model.Pool{}, fmt.Errorf("unmarshal metadata: %w", err)
		}
	}
	return pool, nil
}

func nullable(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
