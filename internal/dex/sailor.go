package dex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"time"

	"go.uber.org/zap"

	"seiliquidity/internal/model"
)

// DefaultSailorAPIBase is the Sailor Finance hosted API.
const DefaultSailorAPIBase = "https://asia-southeast1-ktx-finance-2.cloudfunctions.net/sailor_otherapi"

const sailorPoolsQuery = `{
  pools(first: 1000, orderBy: totalValueLockedUSD, orderDirection: desc) {
    id
    feeTier
    liquidity
    sqrtPrice
    token0 { id symbol decimals }
    token1 { id symbol decimals }
    totalValueLockedToken0
    totalValueLockedToken1
    totalValueLockedUSD
    volumeUSD
  }
}`

const sailorTokensQuery = `{
  tokens(first: 1000) {
    id
    symbol
    name
    decimals
    derivedUSD
  }
}`

// SailorClient talks to the Sailor Finance API: a REST snapshot endpoint
// and a hosted GraphQL subgraph.
type SailorClient struct {
	baseURL    string
	httpClient *http.Client
	tokens     *TokenCache
	logger     *zap.Logger
}

// NewSailorClient builds a client. The token cache is owned by the
// caller so concurrent adapter instances can share or isolate it.
func NewSailorClient(baseURL string, tokens *TokenCache, logger *zap.Logger) *SailorClient {
	if baseURL == "" {
		baseURL = DefaultSailorAPIBase
	}
	if tokens == nil {
		tokens = NewTokenCache()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SailorClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		tokens:     tokens,
		logger:     logger,
	}
}

// Name identifies the DEX in sync results and stored pools.
func (c *SailorClient) Name() string {
	return "sailor"
}

// FetchSnapshot returns the raw /cmc/c1 market snapshot document.
func (c *SailorClient) FetchSnapshot(ctx context.Context) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/cmc/c1", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("snapshot request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("snapshot request failed with %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// Query posts a GraphQL query to the hosted subgraph and returns the raw
// response document.
func (c *SailorClient) Query(ctx context.Context, query string, variables map[string]interface{}) (json.RawMessage, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"query":     query,
		"variables": variables,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/sailor/subgraph", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("subgraph request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("subgraph query failed with %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// FetchPools queries the subgraph and normalizes pool records. Like the
// REST adapter it never fails the caller: unparseable records are
// dropped and a total upstream failure yields an empty slice.
func (c *SailorClient) FetchPools(ctx context.Context) []model.PoolData {
	c.ensureTokens(ctx)

	body, err := c.Query(ctx, sailorPoolsQuery, nil)
	if err != nil {
		c.logger.Error("sailor pools query failed", zap.Error(err))
		return nil
	}

	records, err := decodeGraphQLList(body, "pools")
	if err != nil {
		c.logger.Error("sailor pools payload unreadable", zap.Error(err))
		return nil
	}

	pools := make([]model.PoolData, 0, len(records))
	for _, record := range records {
		pool, err := c.transformPool(record)
		if err != nil {
			c.logger.Warn("dropping sailor pool record", zap.Error(err))
			continue
		}
		pools = append(pools, pool)
	}

	c.logger.Info("fetched sailor pools", zap.Int("pools", len(pools)), zap.Int("dropped", len(records)-len(pools)))
	return pools
}

// ensureTokens populates the token cache once per process from the
// sibling tokens query. A failed population is retried on the next call.
func (c *SailorClient) ensureTokens(ctx context.Context) {
	if c.tokens.Loaded() {
		return
	}

	body, err := c.Query(ctx, sailorTokensQuery, nil)
	if err != nil {
		c.logger.Warn("sailor tokens query failed", zap.Error(err))
		return
	}

	records, err := decodeGraphQLList(body, "tokens")
	if err != nil {
		c.logger.Warn("sailor tokens payload unreadable", zap.Error(err))
		return
	}

	for _, record := range records {
		address := record.text("id", "address")
		if address == "" {
			continue
		}
		c.tokens.Put(SailorToken{
			Address:  address,
			Symbol:   record.textOr("UNKNOWN", "symbol"),
			Decimals: record.uint8Or(18, "decimals"),
			Name:     record.text("name"),
			USDPrice: record.text("usd_price", "priceUSD", "derivedUSD"),
		})
	}
	c.tokens.MarkLoaded()

	c.logger.Debug("sailor token cache populated", zap.Int("tokens", c.tokens.Len()))
}

func (c *SailorClient) transformPool(record rawRecord) (model.PoolData, error) {
	address := record.text("id", "address", "poolAddress")
	if address == "" {
		return model.PoolData{}, fmt.Errorf("pool record has no address")
	}

	pool := model.PoolData{
		Address:      address,
		Token0:       c.resolveToken(record.object("token0"), record.text("token0Address", "token0")),
		Token1:       c.resolveToken(record.object("token1"), record.text("token1Address", "token1")),
		Reserve0:     record.textOr("0", "totalValueLockedToken0", "reserve0"),
		Reserve1:     record.textOr("0", "totalValueLockedToken1", "reserve1"),
		TotalSupply:  record.textOr("0", "liquidity", "totalSupply"),
		FeeTier:      record.text("feeTier", "fee"),
		VolumeUSD24h: record.text("volumeUSD24h", "volumeUSD", "volume24h"),
		TVLUSD:       record.text("totalValueLockedUSD", "tvlUSD", "tvl"),
		APR:          record.text("apr", "apy"),
	}

	if sqrt := record.text("sqrtPrice", "sqrtPriceX96"); sqrt != "" {
		if value, ok := new(big.Int).SetString(sqrt, 10); ok {
			pool.Token0Price = PriceFromSqrtPriceX96(value)
		}
	}

	return pool, nil
}

// resolveToken reads a nested token object when present and falls back to
// the cache for records that reference tokens only by address.
func (c *SailorClient) resolveToken(nested rawRecord, address string) model.TokenInfo {
	if nested != nil {
		info := model.TokenInfo{
			Address:  nested.text("id", "address"),
			Symbol:   nested.text("symbol"),
			Decimals: nested.uint8Or(0, "decimals"),
		}
		if info.Symbol != "" && info.Decimals != 0 {
			return info
		}
		if cached, ok := c.tokens.Get(info.Address); ok {
			if info.Symbol == "" {
				info.Symbol = cached.Symbol
			}
			if info.Decimals == 0 {
				info.Decimals = cached.Decimals
			}
			return info
		}
		if info.Symbol == "" {
			info.Symbol = "UNKNOWN"
		}
		if info.Decimals == 0 {
			info.Decimals = 18
		}
		return info
	}

	if cached, ok := c.tokens.Get(address); ok {
		return model.TokenInfo{Address: address, Symbol: cached.Symbol, Decimals: cached.Decimals}
	}
	return model.TokenInfo{Address: address, Symbol: "UNKNOWN", Decimals: 18}
}

// decodeGraphQLList unwraps {"data": {key: [...]}} responses.
func decodeGraphQLList(body []byte, key string) ([]rawRecord, error) {
	var envelope struct {
		Data   map[string]json.RawMessage `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode graphql envelope: %w", err)
	}
	if len(envelope.Errors) > 0 {
		return nil, fmt.Errorf("graphql error: %s", envelope.Errors[0].Message)
	}

	list, ok := envelope.Data[key]
	if !ok {
		return nil, fmt.Errorf("graphql response has no %q field", key)
	}
	return decodeRecords(list)
}
