package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"seiliquidity/internal/chain"
	"seiliquidity/internal/scan"
)

func runPools(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	factoryFlag, _ := cmd.Flags().GetString("factory")
	if factoryFlag == "" {
		factoryFlag = cfg.DragonFactory
	}
	factory, err := parseAddress(factoryFlag, "factory")
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer client.Close()

	fromFlag, _ := cmd.Flags().GetString("from")
	toFlag, _ := cmd.Flags().GetString("to")
	from, err := resolveBlock(ctx, client, fromFlag, false)
	if err != nil {
		return err
	}
	to, err := resolveBlock(ctx, client, toFlag, true)
	if err != nil {
		return err
	}

	fetcher := scan.NewFetcher(client, cfg.ChunkSize, logger)
	scanner := scan.NewPoolScanner(fetcher, client, logger)

	logger.Info("scanning pool creations",
		zap.String("factory", factory.Hex()),
		zap.Uint64("from", from),
		zap.Uint64("to", to),
	)

	records, err := scanner.ScanPoolCreations(ctx, factory, from, to)
	if err != nil {
		return err
	}

	return printJSON(records)
}
