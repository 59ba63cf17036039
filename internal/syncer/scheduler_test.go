package syncer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"seiliquidity/internal/model"
)

func TestSchedulerRunsImmediatelyAndOnTicks(t *testing.T) {
	store := newMemoryStore()
	client := &stubClient{name: "dragonswap", pools: []model.PoolData{poolData("0xpool1", "1000")}}
	service := NewService([]DexClient{client}, store, 1, nil)

	scheduler := NewScheduler(service, 10*time.Millisecond, 15*time.Millisecond, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	err := scheduler.Run(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// The first sync runs before the first tick, so the pool exists along
	// with at least one history snapshot.
	pool, err := store.FindByAddress(context.Background(), "0xpool1")
	require.NoError(t, err)
	require.NotEmpty(t, store.history[pool.ID])
}
