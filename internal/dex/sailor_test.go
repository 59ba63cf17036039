package dex

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// sailorServer routes the snapshot endpoint and dispatches subgraph posts
// on the query body.
func sailorServer(t *testing.T, tokensBody, poolsBody string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/cmc/c1":
			w.Write([]byte(`{"pairs": []}`))
		case "/sailor/subgraph":
			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)

			var payload struct {
				Query string `json:"query"`
			}
			require.NoError(t, json.Unmarshal(body, &payload))

			switch {
			case strings.Contains(payload.Query, "tokens("):
				w.Write([]byte(tokensBody))
			case strings.Contains(payload.Query, "pools("):
				w.Write([]byte(poolsBody))
			default:
				w.WriteHeader(http.StatusBadRequest)
			}
		default:
			http.NotFound(w, r)
		}
	}))
}

const sailorTokensBody = `{
	"data": {
		"tokens": [
			{"id": "0xaaa", "symbol": "SEI", "decimals": "18", "derivedUSD": "0.5"},
			{"id": "0xbbb", "symbol": "USDC", "decimals": "6", "derivedUSD": "1"}
		]
	}
}`

// sqrtPrice is 2 * 2^96, so the derived token0 price is 4.
const sailorPoolsBody = `{
	"data": {
		"pools": [
			{
				"id": "0xpool1",
				"feeTier": "3000",
				"liquidity": "777",
				"sqrtPrice": "158456325028528675187087900672",
				"token0": {"id": "0xaaa", "symbol": "SEI", "decimals": "18"},
				"token1": {"id": "0xbbb"},
				"totalValueLockedToken0": "100",
				"totalValueLockedToken1": "50",
				"totalValueLockedUSD": "1234",
				"volumeUSD": "10"
			}
		]
	}
}`

func TestSailorFetchPools(t *testing.T) {
	server := sailorServer(t, sailorTokensBody, sailorPoolsBody)
	defer server.Close()

	client := NewSailorClient(server.URL, NewTokenCache(), nil)
	pools := client.FetchPools(context.Background())
	require.Len(t, pools, 1)

	pool := pools[0]
	require.Equal(t, "0xpool1", pool.Address)
	require.Equal(t, "SEI", pool.Token0.Symbol)
	require.Equal(t, uint8(18), pool.Token0.Decimals)

	// token1 carries only an id; symbol and decimals come from the cache.
	require.Equal(t, "0xbbb", pool.Token1.Address)
	require.Equal(t, "USDC", pool.Token1.Symbol)
	require.Equal(t, uint8(6), pool.Token1.Decimals)

	require.Equal(t, "100", pool.Reserve0)
	require.Equal(t, "50", pool.Reserve1)
	require.Equal(t, "777", pool.TotalSupply)
	require.Equal(t, "3000", pool.FeeTier)
	require.Equal(t, "10", pool.VolumeUSD24h)
	require.Equal(t, "1234", pool.TVLUSD)
	require.Equal(t, "4", pool.Token0Price)
}

func TestSailorFetchPoolsTokensQueryFailure(t *testing.T) {
	server := sailorServer(t, `{"errors": [{"message": "rate limited"}]}`, sailorPoolsBody)
	defer server.Close()

	cache := NewTokenCache()
	client := NewSailorClient(server.URL, cache, nil)
	pools := client.FetchPools(context.Background())
	require.Len(t, pools, 1)

	// Without the cache the cacheless side degrades to defaults.
	require.Equal(t, "UNKNOWN", pools[0].Token1.Symbol)
	require.Equal(t, uint8(18), pools[0].Token1.Decimals)

	// The failed population is retried on the next fetch.
	require.False(t, cache.Loaded())
}

func TestSailorFetchPoolsUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewSailorClient(server.URL, nil, nil)
	require.Empty(t, client.FetchPools(context.Background()))
}

func TestSailorFetchSnapshot(t *testing.T) {
	server := sailorServer(t, sailorTokensBody, sailorPoolsBody)
	defer server.Close()

	client := NewSailorClient(server.URL, nil, nil)
	snapshot, err := client.FetchSnapshot(context.Background())
	require.NoError(t, err)
	require.JSONEq(t, `{"pairs": []}`, string(snapshot))
}

func TestSailorQueryPassesVariables(t *testing.T) {
	var got struct {
		Query     string                 `json:"query"`
		Variables map[string]interface{} `json:"variables"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/sailor/subgraph", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"data": {}}`))
	}))
	defer server.Close()

	client := NewSailorClient(server.URL, nil, nil)
	_, err := client.Query(context.Background(), "query ($id: ID!) { pool(id: $id) { id } }", map[string]interface{}{"id": "0xpool1"})
	require.NoError(t, err)
	require.Contains(t, got.Query, "pool(id: $id)")
	require.Equal(t, "0xpool1", got.Variables["id"])
}
