package model

// TokenInfo describes one side of a pool pair.
type TokenInfo struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}

// PoolData is the normalized pool record produced by a DEX adapter.
// Numeric fields are decimal strings; on-chain magnitudes do not fit in
// float64. Optional fields are empty when the upstream omits them.
type PoolData struct {
	Address      string    `json:"address"`
	Token0       TokenInfo `json:"token0"`
	Token1       TokenInfo `json:"token1"`
	Reserve0     string    `json:"reserve0"`
	Reserve1     string    `json:"reserve1"`
	TotalSupply  string    `json:"total_supply"`
	FeeTier      string    `json:"fee_tier,omitempty"`
	VolumeUSD24h string    `json:"volume_usd_24h,omitempty"`
	TVLUSD       string    `json:"tvl_usd,omitempty"`
	APR          string    `json:"apr,omitempty"`
	Token0Price  string    `json:"token0_price,omitempty"`
}
