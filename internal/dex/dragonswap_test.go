package dex

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDragonSwapFetchPools(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/pools", r.URL.Path)
		w.Write([]byte(`{
			"pools": [
				{
					"address": "0xpool1",
					"token0": {"address": "0xaaa", "symbol": "SEI", "decimals": 18},
					"token1": {"address": "0xbbb", "symbol": "USDC", "decimals": 6},
					"reserve0": "1000.5",
					"reserve1": "2000",
					"totalSupply": "500",
					"feeTier": "3000",
					"volumeUSD24h": "12345.67",
					"tvlUSD": "99999"
				},
				{
					"id": "0xpool2",
					"token0Address": "0xccc",
					"token0Symbol": "WSEI",
					"fee": 500,
					"apy": "12.5"
				},
				{
					"token0": {"address": "0xddd"}
				}
			]
		}`))
	}))
	defer server.Close()

	client := NewDragonSwapClient(server.URL, nil)
	pools := client.FetchPools(context.Background())

	// The addressless record is dropped, the rest survive.
	require.Len(t, pools, 2)

	first := pools[0]
	require.Equal(t, "0xpool1", first.Address)
	require.Equal(t, "SEI", first.Token0.Symbol)
	require.Equal(t, uint8(6), first.Token1.Decimals)
	require.Equal(t, "1000.5", first.Reserve0)
	require.Equal(t, "3000", first.FeeTier)
	require.Equal(t, "12345.67", first.VolumeUSD24h)
	require.Equal(t, "99999", first.TVLUSD)
	require.Empty(t, first.APR)

	second := pools[1]
	require.Equal(t, "0xpool2", second.Address)
	require.Equal(t, "0xccc", second.Token0.Address)
	require.Equal(t, "WSEI", second.Token0.Symbol)
	require.Equal(t, uint8(18), second.Token0.Decimals)
	require.Equal(t, "UNKNOWN", second.Token1.Symbol)
	require.Equal(t, "0", second.Reserve0)
	require.Equal(t, "500", second.FeeTier)
	require.Equal(t, "12.5", second.APR)
}

func TestDragonSwapFetchPoolsBareArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"address": "0xpool1"}]`))
	}))
	defer server.Close()

	client := NewDragonSwapClient(server.URL, nil)
	pools := client.FetchPools(context.Background())
	require.Len(t, pools, 1)
	require.Equal(t, "0xpool1", pools[0].Address)
}

func TestDragonSwapFetchPoolsUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewDragonSwapClient(server.URL, nil)
	require.Empty(t, client.FetchPools(context.Background()))
}

func TestDragonSwapFetchPoolsMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := NewDragonSwapClient(server.URL, nil)
	require.Empty(t, client.FetchPools(context.Background()))
}
