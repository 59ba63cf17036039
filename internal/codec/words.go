package codec

import (
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

var (
	argsMu    sync.Mutex
	argsCache = make(map[string]abi.Arguments)
)

// DecodeWords unpacks non-indexed log data as a positional sequence of
// fixed-width ABI values (uint24, int24, address, uint128, uint256 and
// friends). Each value occupies one 32-byte word; dynamic types are not
// supported. A length mismatch fails the whole decode.
func DecodeWords(types []string, data []byte) ([]interface{}, error) {
	if len(types) == 0 {
		return nil, fmt.Errorf("no types given")
	}
	if len(data) != len(types)*32 {
		return nil, fmt.Errorf("abi data is %d bytes, want %d words", len(data), len(types))
	}

	args, err := argumentsFor(types)
	if err != nil {
		return nil, err
	}

	values, err := args.Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("unpack (%s): %w", strings.Join(types, ","), err)
	}
	return values, nil
}

func argumentsFor(types []string) (abi.Arguments, error) {
	key := strings.Join(types, ",")

	argsMu.Lock()
	defer argsMu.Unlock()

	if args, ok := argsCache[key]; ok {
		return args, nil
	}

	args := make(abi.Arguments, 0, len(types))
	for _, typeName := range types {
		abiType, err := abi.NewType(typeName, "", nil)
		if err != nil {
			return nil, fmt.Errorf("abi type %s: %w", typeName, err)
		}
		args = append(args, abi.Argument{Type: abiType})
	}

	argsCache[key] = args
	return args, nil
}

// AsBigInt coerces an unpacked ABI value into a big integer. Non-standard
// widths (uint24, int24, uint128) come back from the unpacker as *big.Int
// already; standard widths arrive as native integers.
func AsBigInt(value interface{}) (*big.Int, error) {
	switch typed := value.(type) {
	case *big.Int:
		return typed, nil
	case uint8:
		return new(big.Int).SetUint64(uint64(typed)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(typed)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(typed)), nil
	case uint64:
		return new(big.Int).SetUint64(typed), nil
	case int8:
		return big.NewInt(int64(typed)), nil
	case int16:
		return big.NewInt(int64(typed)), nil
	case int32:
		return big.NewInt(int64(typed)), nil
	case int64:
		return big.NewInt(typed), nil
	default:
		return nil, fmt.Errorf("value %T is not an integer", value)
	}
}

// AsAddress coerces an unpacked ABI value into an address.
func AsAddress(value interface{}) (common.Address, error) {
	addr, ok := value.(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("value %T is not an address", value)
	}
	return addr, nil
}

// Int32FromBig narrows a signed ABI integer (int24 in practice) to int32.
func Int32FromBig(value *big.Int) (int32, error) {
	if value == nil {
		return 0, fmt.Errorf("nil integer")
	}
	if !value.IsInt64() {
		return 0, fmt.Errorf("value %s out of int32 range", value)
	}
	v := value.Int64()
	if v > int64(1<<31-1) || v < int64(-1<<31) {
		return 0, fmt.Errorf("value %d out of int32 range", v)
	}
	return int32(v), nil
}

// Uint32FromBig narrows an unsigned ABI integer (uint24 in practice) to uint32.
func Uint32FromBig(value *big.Int) (uint32, error) {
	if value == nil {
		return 0, fmt.Errorf("nil integer")
	}
	if !value.IsUint64() || value.Uint64() > uint64(1<<32-1) {
		return 0, fmt.Errorf("value %s out of uint32 range", value)
	}
	return uint32(value.Uint64()), nil
}
