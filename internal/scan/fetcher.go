package scan

import (
	"context"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

// DefaultChunkSize is the block-window size for a single getLogs call.
// Most RPC providers cap the span or the number of logs per request.
const DefaultChunkSize = 5000

// LogClient is the slice of the chain client the scanners need.
type LogClient interface {
	FilterLogs(ctx context.Context, fromBlock, toBlock uint64, address common.Address, topics [][]common.Hash) ([]types.Log, error)
	TransactionFrom(ctx context.Context, hash common.Hash) (common.Address, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

// Fetcher issues chunked log queries over a block range.
type Fetcher struct {
	client       LogClient
	chunkSize    uint64
	maxRetries   int
	retryBackoff time.Duration
	logger       *zap.Logger
}

// NewFetcher builds a Fetcher. A zero chunkSize falls back to
// DefaultChunkSize.
func NewFetcher(client LogClient, chunkSize uint64, logger *zap.Logger) *Fetcher {
	if chunkSize == 0 {
		chunkSize = DefaultChunkSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		client:       client,
		chunkSize:    chunkSize,
		maxRetries:   3,
		retryBackoff: 500 * time.Millisecond,
		logger:       logger,
	}
}

// FetchLogs returns all logs matching (address, topics) in the inclusive
// range, issuing one request per chunk window. An inverted range is a
// trivially empty one: no requests are made and no error is returned.
// Results are sorted ascending by (blockNumber, logIndex); downstream
// consumers assume chronological order.
func (f *Fetcher) FetchLogs(
	ctx context.Context,
	address common.Address,
	topics [][]common.Hash,
	fromBlock uint64,
	toBlock uint64,
) ([]types.Log, error) {
	if toBlock < fromBlock {
		return nil, nil
	}

	ranges, err := SplitRange(fromBlock, toBlock, f.chunkSize)
	if err != nil {
		return nil, err
	}

	logs := make([]types.Log, 0)
	for _, window := range ranges {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		chunk, err := f.filterLogsWithRetry(ctx, address, topics, window.From, window.To)
		if err != nil {
			return nil, err
		}
		logs = append(logs, chunk...)

		f.logger.Debug("fetched log chunk",
			zap.Uint64("from", window.From),
			zap.Uint64("to", window.To),
			zap.Int("logs", len(chunk)),
		)
	}

	sort.SliceStable(logs, func(i, j int) bool {
		if logs[i].BlockNumber != logs[j].BlockNumber {
			return logs[i].BlockNumber < logs[j].BlockNumber
		}
		return logs[i].Index < logs[j].Index
	})

	return logs, nil
}

func (f *Fetcher) filterLogsWithRetry(
	ctx context.Context,
	address common.Address,
	topics [][]common.Hash,
	fromBlock uint64,
	toBlock uint64,
) ([]types.Log, error) {
	var logs []types.Log
	err := withRetry(ctx, f.maxRetries, f.retryBackoff, func(ctx context.Context) error {
		var err error
		logs, err = f.client.FilterLogs(ctx, fromBlock, toBlock, address, topics)
		if err != nil {
			f.logger.Warn("filter logs failed",
				zap.Error(err),
				zap.Uint64("from", fromBlock),
				zap.Uint64("to", toBlock),
			)
		}
		return err
	})
	return logs, err
}
