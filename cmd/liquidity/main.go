package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"seiliquidity/internal/config"
	"seiliquidity/internal/scan"
)

func main() {
	root := &cobra.Command{
		Use:          "liquidity",
		Short:        "Sei DEX liquidity tooling",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	snapshotCmd := &cobra.Command{
		Use:   "sailor:snapshot",
		Short: "Fetch the Sailor REST market snapshot",
		RunE:  runSailorSnapshot,
	}
	root.AddCommand(snapshotCmd)

	queryCmd := &cobra.Command{
		Use:   "sailor:query",
		Short: "Run a GraphQL query against the Sailor hosted subgraph",
		RunE:  runSailorQuery,
	}
	queryCmd.Flags().String("query", "", "inline GraphQL query")
	queryCmd.Flags().String("file", "", "path to a GraphQL query file")
	queryCmd.Flags().String("variables", "", "query variables as a JSON object")
	root.AddCommand(queryCmd)

	poolsCmd := &cobra.Command{
		Use:   "dex:pools",
		Short: "Enumerate pool creations for a factory",
		RunE:  runPools,
	}
	poolsCmd.Flags().String("factory", "", "factory address (defaults to the DragonSwap factory)")
	poolsCmd.Flags().String("from", "", "start block (default 0)")
	poolsCmd.Flags().String("to", "", "end block (default latest)")
	root.AddCommand(poolsCmd)

	positionsCmd := &cobra.Command{
		Use:   "clmm:positions",
		Short: "Reconstruct CLMM position history for a wallet",
		RunE:  runPositions,
	}
	positionsCmd.Flags().String("wallet", "", "wallet address (required)")
	positionsCmd.Flags().String("position-manager", "", "position manager address")
	positionsCmd.Flags().String("npm", "", "alias for --position-manager")
	positionsCmd.Flags().String("from", "", "start block (default 0)")
	positionsCmd.Flags().String("to", "", "end block (default latest)")
	root.AddCommand(positionsCmd)

	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Run the pool synchronizer and history recorder",
		RunE:  runSync,
	}
	syncCmd.Flags().Bool("once", false, "run one sync + history pass and exit")
	syncCmd.Flags().String("database-url", "", "Postgres DSN")
	syncCmd.Flags().Duration("sync-interval", 0, "pool sync cadence (default 5m)")
	syncCmd.Flags().Duration("history-interval", 0, "history snapshot cadence (default 1h)")
	syncCmd.Flags().Int("sync-workers", 0, "bounded worker count per sync pass")
	root.AddCommand(syncCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	return config.Load(cfgFile, cmd.Flags())
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

// printJSON writes one indented JSON document to stdout.
func printJSON(value interface{}) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func parseAddress(value, what string) (common.Address, error) {
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("invalid %s address: %s", what, value)
	}
	return common.HexToAddress(value), nil
}

// resolveBlock interprets a block flag: empty means the fallback, which
// is either 0 or the chain head; "latest" always resolves via the node.
func resolveBlock(ctx context.Context, client scan.LogClient, value string, latestFallback bool) (uint64, error) {
	if value == "" {
		if latestFallback {
			return client.BlockNumber(ctx)
		}
		return 0, nil
	}
	if value == "latest" {
		return client.BlockNumber(ctx)
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid block number: %s", value)
	}
	return parsed, nil
}
