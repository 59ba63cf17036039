package scan

import "github.com/ethereum/go-ethereum/crypto"

// Topic0 hashes of the events this package scans for.
var (
	TopicPoolCreated       = crypto.Keccak256Hash([]byte("PoolCreated(address,address,uint24,int24,address)"))
	TopicERC721Transfer    = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))
	TopicIncreaseLiquidity = crypto.Keccak256Hash([]byte("IncreaseLiquidity(uint256,uint128,uint256,uint256)"))
	TopicDecreaseLiquidity = crypto.Keccak256Hash([]byte("DecreaseLiquidity(uint256,uint128,uint256,uint256)"))
	TopicCollect           = crypto.Keccak256Hash([]byte("Collect(uint256,address,uint256,uint256)"))
)

// Non-indexed payload layouts. Token IDs and addresses that ride in
// topics are not part of the data words.
var (
	poolCreatedDataTypes = []string{"uint24", "int24", "address"}
	liquidityDataTypes   = []string{"uint128", "uint256", "uint256"}
	collectDataTypes     = []string{"address", "uint256", "uint256"}
)
