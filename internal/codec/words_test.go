package codec

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
)

func packWords(values ...*big.Int) []byte {
	data := make([]byte, 0, len(values)*32)
	for _, value := range values {
		data = append(data, math.U256Bytes(new(big.Int).Set(value))...)
	}
	return data
}

func TestDecodeWordsPoolCreatedPayload(t *testing.T) {
	pool := common.HexToAddress("0x5555555555555555555555555555555555555555")
	data := packWords(
		big.NewInt(3000),                    // fee uint24
		big.NewInt(-60),                     // tickSpacing int24
		new(big.Int).SetBytes(pool.Bytes()), // pool address
	)

	values, err := DecodeWords([]string{"uint24", "int24", "address"}, data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(values) != 3 {
		t.Fatalf("expected 3 values, got %d", len(values))
	}

	fee, err := AsBigInt(values[0])
	if err != nil {
		t.Fatalf("fee: %v", err)
	}
	if fee.Int64() != 3000 {
		t.Fatalf("fee mismatch: %s", fee)
	}

	tick, err := AsBigInt(values[1])
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if tick.Int64() != -60 {
		t.Fatalf("tick spacing mismatch: %s", tick)
	}

	address, err := AsAddress(values[2])
	if err != nil {
		t.Fatalf("address: %v", err)
	}
	if address != pool {
		t.Fatalf("pool mismatch: %s", address.Hex())
	}
}

func TestDecodeWordsLargeUint(t *testing.T) {
	liquidity := new(big.Int).Lsh(big.NewInt(1), 120)
	amount := new(big.Int).Lsh(big.NewInt(1), 200)
	data := packWords(liquidity, amount, big.NewInt(0))

	values, err := DecodeWords([]string{"uint128", "uint256", "uint256"}, data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	got0, _ := AsBigInt(values[0])
	got1, _ := AsBigInt(values[1])
	if got0.Cmp(liquidity) != 0 {
		t.Fatalf("liquidity mismatch: %s", got0)
	}
	if got1.Cmp(amount) != 0 {
		t.Fatalf("amount mismatch: %s", got1)
	}
}

func TestDecodeWordsLengthMismatch(t *testing.T) {
	if _, err := DecodeWords([]string{"uint128", "uint256"}, make([]byte, 32)); err == nil {
		t.Fatalf("expected error for short data")
	}
	if _, err := DecodeWords([]string{"uint256"}, make([]byte, 33)); err == nil {
		t.Fatalf("expected error for misaligned data")
	}
}

func TestInt32FromBigRange(t *testing.T) {
	if _, err := Int32FromBig(new(big.Int).Lsh(big.NewInt(1), 40)); err == nil {
		t.Fatalf("expected range error")
	}
	got, err := Int32FromBig(big.NewInt(-8388608)) // int24 min
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != -8388608 {
		t.Fatalf("mismatch: %d", got)
	}
}
