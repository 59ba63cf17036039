package scan

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"seiliquidity/internal/codec"
	"seiliquidity/internal/model"
)

// PoolScanner enumerates factory PoolCreated events.
type PoolScanner struct {
	fetcher *Fetcher
	client  LogClient
	logger  *zap.Logger
}

// NewPoolScanner builds a PoolScanner sharing the fetcher's client.
func NewPoolScanner(fetcher *Fetcher, client LogClient, logger *zap.Logger) *PoolScanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PoolScanner{fetcher: fetcher, client: client, logger: logger}
}

// ScanPoolCreations returns one record per PoolCreated log emitted by the
// factory in the range, in log order. A decode failure aborts the scan:
// pool creations are rare and the whole batch is cheap to retry.
func (s *PoolScanner) ScanPoolCreations(
	ctx context.Context,
	factory common.Address,
	fromBlock uint64,
	toBlock uint64,
) ([]model.PoolCreationRecord, error) {
	logs, err := s.fetcher.FetchLogs(ctx, factory, [][]common.Hash{{TopicPoolCreated}}, fromBlock, toBlock)
	if err != nil {
		return nil, fmt.Errorf("fetch PoolCreated logs: %w", err)
	}

	records := make([]model.PoolCreationRecord, 0, len(logs))
	for _, log := range logs {
		record, err := s.decodePoolCreated(ctx, log)
		if err != nil {
			return nil, fmt.Errorf("decode PoolCreated at block %d tx %s: %w", log.BlockNumber, log.TxHash.Hex(), err)
		}
		records = append(records, record)
	}

	s.logger.Info("pool creation scan complete",
		zap.String("factory", factory.Hex()),
		zap.Uint64("from", fromBlock),
		zap.Uint64("to", toBlock),
		zap.Int("pools", len(records)),
	)

	return records, nil
}

func (s *PoolScanner) decodePoolCreated(ctx context.Context, log types.Log) (model.PoolCreationRecord, error) {
	if len(log.Topics) != 3 {
		return model.PoolCreationRecord{}, fmt.Errorf("expected 3 topics, got %d", len(log.Topics))
	}

	values, err := codec.DecodeWords(poolCreatedDataTypes, log.Data)
	if err != nil {
		return model.PoolCreationRecord{}, err
	}

	feeBig, err := codec.AsBigInt(values[0])
	if err != nil {
		return model.PoolCreationRecord{}, err
	}
	fee, err := codec.Uint32FromBig(feeBig)
	if err != nil {
		return model.PoolCreationRecord{}, err
	}

	tickBig, err := codec.AsBigInt(values[1])
	if err != nil {
		return model.PoolCreationRecord{}, err
	}
	tickSpacing, err := codec.Int32FromBig(tickBig)
	if err != nil {
		return model.PoolCreationRecord{}, err
	}

	pool, err := codec.AsAddress(values[2])
	if err != nil {
		return model.PoolCreationRecord{}, err
	}

	record := model.PoolCreationRecord{
		BlockNumber:     log.BlockNumber,
		TransactionHash: log.TxHash.Hex(),
		Token0:          codec.TopicAddress(log.Topics[1]).Hex(),
		Token1:          codec.TopicAddress(log.Topics[2]).Hex(),
		Fee:             fee,
		TickSpacing:     tickSpacing,
		Pool:            pool.Hex(),
	}

	// The creator is informational; a failed transaction lookup leaves it
	// empty rather than failing the scan.
	if from, err := s.client.TransactionFrom(ctx, log.TxHash); err != nil {
		s.logger.Warn("transaction sender lookup failed",
			zap.String("tx", log.TxHash.Hex()),
			zap.Error(err),
		)
	} else {
		record.Creator = from.Hex()
	}

	return record, nil
}
