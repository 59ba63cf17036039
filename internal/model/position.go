package model

// Event names emitted by the position manager.
const (
	EventIncreaseLiquidity = "IncreaseLiquidity"
	EventDecreaseLiquidity = "DecreaseLiquidity"
	EventCollect           = "Collect"
)

// PositionEvent is one liquidity mutation of an NFT position. The Event
// field selects the variant: Increase/Decrease carry Liquidity,
// Collect carries Recipient. Amounts are decimal strings (uint256).
type PositionEvent struct {
	Event           string `json:"event"`
	BlockNumber     uint64 `json:"blockNumber"`
	TransactionHash string `json:"transactionHash"`
	Liquidity       string `json:"liquidity,omitempty"`
	Recipient       string `json:"recipient,omitempty"`
	Amount0         string `json:"amount0"`
	Amount1         string `json:"amount1"`
}

// PositionHistory groups a wallet's position events by token ID. TokenIDs
// is historical membership: a token the wallet later transferred away
// stays in the set. A token ID may have no events in range.
type PositionHistory struct {
	Wallet          string                     `json:"wallet"`
	PositionManager string                     `json:"positionManager"`
	TokenIDs        []string                   `json:"tokenIds"`
	Events          map[string][]PositionEvent `json:"events"`
}
