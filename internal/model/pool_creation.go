package model

// PoolCreationRecord is one decoded factory PoolCreated event. Creator is
// the sender of the creating transaction and may be empty when the
// transaction lookup fails. Fee is in hundredths of a bip.
type PoolCreationRecord struct {
	BlockNumber     uint64 `json:"blockNumber"`
	TransactionHash string `json:"transactionHash"`
	Creator         string `json:"creator,omitempty"`
	Token0          string `json:"token0"`
	Token1          string `json:"token1"`
	Fee             uint32 `json:"fee"`
	TickSpacing     int32  `json:"tickSpacing"`
	Pool            string `json:"pool"`
}
