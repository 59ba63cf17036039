package syncer

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"seiliquidity/internal/model"
	"seiliquidity/internal/storage"
)

const defaultWorkers = 8

// DexClient is a pool-data source. FetchPools never fails: it returns
// whatever could be fetched and parsed, possibly nothing.
type DexClient interface {
	Name() string
	FetchPools(ctx context.Context) []model.PoolData
}

// SyncResult counts the outcome of one sync pass.
type SyncResult struct {
	Synced int `json:"synced"`
	Errors int `json:"errors"`
}

// RecordResult counts the outcome of one history-recording pass.
type RecordResult struct {
	Recorded int `json:"recorded"`
	Errors   int `json:"errors"`
}

// Service reconciles DEX pool data against the store and snapshots it
// into the history table.
type Service struct {
	clients []DexClient
	store   storage.PoolStore
	workers int
	logger  *zap.Logger
	now     func() time.Time
}

// NewService builds a Service. Zero workers falls back to the default.
func NewService(clients []DexClient, store storage.PoolStore, workers int, logger *zap.Logger) *Service {
	if workers <= 0 {
		workers = defaultWorkers
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		clients: clients,
		store:   store,
		workers: workers,
		logger:  logger,
		now:     time.Now,
	}
}

// SyncPools fetches pools from every adapter and upserts them by address.
// A single pool's failure is counted, logged, and never aborts the batch;
// an adapter returning nothing is not an error since its siblings keep
// going.
func (s *Service) SyncPools(ctx context.Context) (SyncResult, error) {
	s.logger.Info("starting pool synchronization")

	var synced, errors atomic.Int64
	for _, client := range s.clients {
		pools := client.FetchPools(ctx)
		s.logger.Info("fetched pools", zap.String("dex", client.Name()), zap.Int("pools", len(pools)))

		jobs := make(chan model.PoolData)
		var wg sync.WaitGroup
		for i := 0; i < s.workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for pool := range jobs {
					if err := s.syncPool(ctx, pool, client.Name()); err != nil {
						errors.Add(1)
						s.logger.Error("pool sync failed",
							zap.String("dex", client.Name()),
							zap.String("pool", pool.Address),
							zap.Error(err),
						)
						continue
					}
					synced.Add(1)
				}
			}()
		}

		for _, pool := range pools {
			jobs <- pool
		}
		close(jobs)
		wg.Wait()
	}

	result := SyncResult{Synced: int(synced.Load()), Errors: int(errors.Load())}
	s.logger.Info("pool synchronization complete",
		zap.Int("synced", result.Synced),
		zap.Int("errors", result.Errors),
	)
	return result, nil
}

// syncPool is an upsert keyed on pool address with last-write-wins
// semantics: metrics refresh for an existing pool, full creation for a
// new one.
func (s *Service) syncPool(ctx context.Context, data model.PoolData, dexName string) error {
	if data.Address == "" {
		return fmt.Errorf("pool data has no address")
	}

	now := s.now().UTC()

	existing, err := s.store.FindByAddress(ctx, data.Address)
	switch {
	case err == nil:
		updated := existing.UpdateMetrics(data.TVLUSD, data.VolumeUSD24h, data.APR, now)
		return s.store.Save(ctx, updated)
	case err == storage.ErrNotFound:
		pool := model.Pool{
			ID:           newID(),
			PoolAddress:  data.Address,
			Dex:          dexName,
			Token0:       data.Token0.Address,
			Token1:       data.Token1.Address,
			Token0Symbol: data.Token0.Symbol,
			Token1Symbol: data.Token1.Symbol,
			FeeTier:      data.FeeTier,
			TVL:          data.TVLUSD,
			Volume24h:    data.VolumeUSD24h,
			APR:          data.APR,
			Metadata: model.PoolMetadata{
				Reserve0:       data.Reserve0,
				Reserve1:       data.Reserve1,
				TotalSupply:    data.TotalSupply,
				Token0Decimals: data.Token0.Decimals,
				Token1Decimals: data.Token1.Decimals,
				Token0Price:    data.Token0Price,
			},
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return s.store.Save(ctx, pool)
	default:
		return err
	}
}

// RecordPoolHistory snapshots every active pool into the time-series
// table. Per-pool failures are counted and logged, never fatal.
func (s *Service) RecordPoolHistory(ctx context.Context) (RecordResult, error) {
	active := true
	pools, err := s.store.FindAll(ctx, storage.PoolFilters{IsActive: &active})
	if err != nil {
		return RecordResult{}, fmt.Errorf("list active pools: %w", err)
	}

	s.logger.Info("recording pool history", zap.Int("pools", len(pools)))

	now := s.now().UTC()
	result := RecordResult{}
	for _, pool := range pools {
		point := model.PoolHistoryPoint{
			PoolID:    pool.ID,
			Timestamp: now,
			Reserve0:  orZero(pool.Metadata.Reserve0),
			Reserve1:  orZero(pool.Metadata.Reserve1),
			TVL:       pool.TVL,
			Volume:    pool.Volume24h,
			Price:     poolPrice(pool),
		}
		if err := s.store.SaveHistoricalData(ctx, point); err != nil {
			result.Errors++
			s.logger.Error("history snapshot failed",
				zap.String("pool", pool.PoolAddress),
				zap.Error(err),
			)
			continue
		}
		result.Recorded++
	}

	s.logger.Info("pool history recording complete",
		zap.Int("recorded", result.Recorded),
		zap.Int("errors", result.Errors),
	)
	return result, nil
}

// GetPoolHistory returns a pool's snapshots in range. An unknown pool ID
// surfaces storage.ErrNotFound.
func (s *Service) GetPoolHistory(ctx context.Context, poolID string, from, to time.Time) ([]model.PoolHistoryPoint, error) {
	if _, err := s.store.FindByID(ctx, poolID); err != nil {
		return nil, err
	}
	return s.store.GetHistoricalData(ctx, poolID, from, to)
}

// poolPrice derives token0/token1 from the stored reserves, falling back
// to the adapter-computed price when the reserves cannot say.
func poolPrice(pool model.Pool) string {
	reserve0, ok0 := new(big.Rat).SetString(pool.Metadata.Reserve0)
	reserve1, ok1 := new(big.Rat).SetString(pool.Metadata.Reserve1)
	if ok0 && ok1 && reserve1.Sign() > 0 {
		price := new(big.Rat).Quo(reserve0, reserve1)
		return trimDecimal(price.FloatString(18))
	}
	return pool.Metadata.Token0Price
}

func trimDecimal(value string) string {
	if !strings.Contains(value, ".") {
		return value
	}
	value = strings.TrimRight(value, "0")
	return strings.TrimSuffix(value, ".")
}

func orZero(value string) string {
	if value == "" {
		return "0"
	}
	return value
}

// newID returns a random version-4 UUID.
func newID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(fmt.Sprintf("uuid entropy: %v", err))
	}
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:16])
}
