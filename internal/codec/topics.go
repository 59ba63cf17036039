package codec

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// TopicAddress extracts the address packed into an indexed topic. Per ABI
// convention the address occupies the low 20 bytes of the 32-byte word.
func TopicAddress(topic common.Hash) common.Address {
	return common.BytesToAddress(topic.Bytes()[12:])
}

// NormalizeTopicAddress left-pads an address to 32 bytes for use as an
// indexed-topic filter value.
func NormalizeTopicAddress(address common.Address) common.Hash {
	return common.BytesToHash(address.Bytes())
}

// TopicUint interprets a topic as an unsigned big-endian integer and
// renders it as a decimal string. Values routinely exceed 64 bits.
func TopicUint(topic common.Hash) string {
	return new(big.Int).SetBytes(topic.Bytes()).String()
}
