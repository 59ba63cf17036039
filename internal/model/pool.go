package model

import "time"

// Pool is a persisted DEX pool record. Identity fields are set once at
// creation; metric fields are refreshed on every sync pass.
type Pool struct {
	ID           string       `json:"id"`
	PoolAddress  string       `json:"pool_address"`
	Dex          string       `json:"dex"`
	Token0       string       `json:"token0"`
	Token1       string       `json:"token1"`
	Token0Symbol string       `json:"token0_symbol,omitempty"`
	Token1Symbol string       `json:"token1_symbol,omitempty"`
	FeeTier      string       `json:"fee_tier,omitempty"`
	TVL          string       `json:"tvl,omitempty"`
	Volume24h    string       `json:"volume_24h,omitempty"`
	APR          string       `json:"apr,omitempty"`
	Metadata     PoolMetadata `json:"metadata"`
	IsActive     bool         `json:"is_active"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// PoolMetadata carries reserve-level detail captured at creation time.
type PoolMetadata struct {
	Reserve0       string `json:"reserve0"`
	Reserve1       string `json:"reserve1"`
	TotalSupply    string `json:"total_supply"`
	Token0Decimals uint8  `json:"token0_decimals"`
	Token1Decimals uint8  `json:"token1_decimals"`
	Token0Price    string `json:"token0_price,omitempty"`
}

// UpdateMetrics returns a copy with refreshed metrics. Identity and
// creation time are preserved.
func (p Pool) UpdateMetrics(tvl, volume24h, apr string, at time.Time) Pool {
	p.TVL = tvl
	p.Volume24h = volume24h
	p.APR = apr
	p.UpdatedAt = at
	return p
}

// PoolHistoryPoint is one time-series snapshot of a pool.
type PoolHistoryPoint struct {
	PoolID    string    `json:"pool_id"`
	Timestamp time.Time `json:"timestamp"`
	Reserve0  string    `json:"reserve0"`
	Reserve1  string    `json:"reserve1"`
	TVL       string    `json:"tvl,omitempty"`
	Volume    string    `json:"volume,omitempty"`
	Price     string    `json:"price,omitempty"`
}
