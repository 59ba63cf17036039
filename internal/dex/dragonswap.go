package dex

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"seiliquidity/internal/model"
)

// DefaultDragonSwapAPIBase is the DragonSwap REST endpoint.
const DefaultDragonSwapAPIBase = "https://api.dragonswap.app/v1"

// DragonSwapClient fetches pool data from the DragonSwap REST API.
type DragonSwapClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewDragonSwapClient builds a client. An empty baseURL falls back to the
// production endpoint.
func NewDragonSwapClient(baseURL string, logger *zap.Logger) *DragonSwapClient {
	if baseURL == "" {
		baseURL = DefaultDragonSwapAPIBase
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DragonSwapClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

// Name identifies the DEX in sync results and stored pools.
func (c *DragonSwapClient) Name() string {
	return "dragonswap"
}

// FetchPools returns normalized pool records. It never fails the caller:
// upstream errors yield an empty slice and individually unparseable
// records are dropped, so sibling adapters keep working independently.
func (c *DragonSwapClient) FetchPools(ctx context.Context) []model.PoolData {
	body, err := c.get(ctx, c.baseURL+"/pools")
	if err != nil {
		c.logger.Error("dragonswap pools fetch failed", zap.Error(err))
		return nil
	}

	records, err := decodeRecords(body, "pools", "data")
	if err != nil {
		c.logger.Error("dragonswap payload unreadable", zap.Error(err))
		return nil
	}

	pools := make([]model.PoolData, 0, len(records))
	for _, record := range records {
		pool, err := transformDragonPool(record)
		if err != nil {
			c.logger.Warn("dropping dragonswap pool record", zap.Error(err))
			continue
		}
		pools = append(pools, pool)
	}

	c.logger.Info("fetched dragonswap pools", zap.Int("pools", len(pools)), zap.Int("dropped", len(records)-len(pools)))
	return pools
}

func (c *DragonSwapClient) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dragonswap api status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func transformDragonPool(record rawRecord) (model.PoolData, error) {
	address := record.text("address", "id", "poolAddress")
	if address == "" {
		return model.PoolData{}, fmt.Errorf("pool record has no address")
	}

	return model.PoolData{
		Address:      address,
		Token0:       transformToken(record, record.object("token0"), "token0Address", "token0Symbol", "token0Decimals", "baseToken"),
		Token1:       transformToken(record, record.object("token1"), "token1Address", "token1Symbol", "token1Decimals", "quoteToken"),
		Reserve0:     record.textOr("0", "reserve0", "token0Reserve"),
		Reserve1:     record.textOr("0", "reserve1", "token1Reserve"),
		TotalSupply:  record.textOr("0", "totalSupply", "liquidity"),
		FeeTier:      record.text("feeTier", "fee"),
		VolumeUSD24h: record.text("volumeUSD24h", "volume24h", "dailyVolumeUSD"),
		TVLUSD:       record.text("tvlUSD", "tvl", "liquidityUSD"),
		APR:          record.text("apr", "apy"),
	}, nil
}

// transformToken resolves one pool side from either a nested token object
// or flattened top-level fields.
func transformToken(record rawRecord, nested rawRecord, addressKey, symbolKey, decimalsKey, altAddressKey string) model.TokenInfo {
	if nested != nil {
		return model.TokenInfo{
			Address:  nested.text("address", "id"),
			Symbol:   nested.textOr("UNKNOWN", "symbol"),
			Decimals: nested.uint8Or(18, "decimals"),
		}
	}
	return model.TokenInfo{
		Address:  record.text(addressKey, altAddressKey),
		Symbol:   record.textOr("UNKNOWN", symbolKey),
		Decimals: record.uint8Or(18, decimalsKey),
	}
}
