package scan

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/core/types"
)

func packWords(values ...*big.Int) []byte {
	data := make([]byte, 0, len(values)*32)
	for _, value := range values {
		data = append(data, math.U256Bytes(new(big.Int).Set(value))...)
	}
	return data
}

func poolCreatedLog(block uint64, token0, token1, pool common.Address, fee int64, tickSpacing int64) types.Log {
	return types.Log{
		BlockNumber: block,
		TxHash:      common.HexToHash("0xabc1"),
		Topics: []common.Hash{
			TopicPoolCreated,
			common.BytesToHash(common.LeftPadBytes(token0.Bytes(), 32)),
			common.BytesToHash(common.LeftPadBytes(token1.Bytes(), 32)),
		},
		Data: packWords(
			big.NewInt(fee),
			big.NewInt(tickSpacing),
			new(big.Int).SetBytes(pool.Bytes()),
		),
	}
}

func TestScanPoolCreations(t *testing.T) {
	factory := common.HexToAddress("0x179D9a5592Bc77050796F7be28058c51cA575df4")
	token0 := common.HexToAddress("0x1111111111111111111111111111111111111111")
	token1 := common.HexToAddress("0x2222222222222222222222222222222222222222")
	pool := common.HexToAddress("0x3333333333333333333333333333333333333333")
	creator := common.HexToAddress("0x4444444444444444444444444444444444444444")

	client := &fakeLogClient{
		sender: creator,
		logs: map[filterCall][]types.Log{
			{From: 100, To: 199}: {
				poolCreatedLog(150, token0, token1, pool, 3000, -60),
			},
		},
	}
	scanner := NewPoolScanner(NewFetcher(client, 100, nil), client, nil)

	records, err := scanner.ScanPoolCreations(context.Background(), factory, 100, 199)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	record := records[0]
	if record.BlockNumber != 150 {
		t.Fatalf("block mismatch: %d", record.BlockNumber)
	}
	if record.Token0 != token0.Hex() || record.Token1 != token1.Hex() {
		t.Fatalf("token mismatch: %s / %s", record.Token0, record.Token1)
	}
	if record.Pool != pool.Hex() {
		t.Fatalf("pool mismatch: %s", record.Pool)
	}
	if record.Fee != 3000 {
		t.Fatalf("fee mismatch: %d", record.Fee)
	}
	if record.TickSpacing != -60 {
		t.Fatalf("tick spacing mismatch: %d", record.TickSpacing)
	}
	if record.Creator != creator.Hex() {
		t.Fatalf("creator mismatch: %q", record.Creator)
	}
}

func TestScanPoolCreationsCreatorLookupFailure(t *testing.T) {
	token0 := common.HexToAddress("0x1111111111111111111111111111111111111111")
	token1 := common.HexToAddress("0x2222222222222222222222222222222222222222")
	pool := common.HexToAddress("0x3333333333333333333333333333333333333333")

	client := &fakeLogClient{
		logs: map[filterCall][]types.Log{
			{From: 0, To: 99}: {
				poolCreatedLog(10, token0, token1, pool, 500, 10),
			},
		},
	}
	scanner := NewPoolScanner(NewFetcher(client, 100, nil), client, nil)

	records, err := scanner.ScanPoolCreations(context.Background(), common.Address{}, 0, 99)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if records[0].Creator != "" {
		t.Fatalf("expected empty creator, got %q", records[0].Creator)
	}
}

func TestScanPoolCreationsDecodeFailureAborts(t *testing.T) {
	bad := types.Log{
		BlockNumber: 5,
		Topics:      []common.Hash{TopicPoolCreated},
		Data:        make([]byte, 32),
	}
	client := &fakeLogClient{
		logs: map[filterCall][]types.Log{
			{From: 0, To: 99}: {bad},
		},
	}
	scanner := NewPoolScanner(NewFetcher(client, 100, nil), client, nil)

	if _, err := scanner.ScanPoolCreations(context.Background(), common.Address{}, 0, 99); err == nil {
		t.Fatalf("expected decode error")
	}
}
