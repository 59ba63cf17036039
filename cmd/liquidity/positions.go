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

func runPositions(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	walletFlag, _ := cmd.Flags().GetString("wallet")
	if walletFlag == "" {
		return fmt.Errorf("missing --wallet <address> argument")
	}
	wallet, err := parseAddress(walletFlag, "wallet")
	if err != nil {
		return err
	}

	npmFlag, _ := cmd.Flags().GetString("position-manager")
	if npmFlag == "" {
		npmFlag, _ = cmd.Flags().GetString("npm")
	}
	if npmFlag == "" {
		npmFlag = cfg.DragonPositionManager
	}
	positionManager, err := parseAddress(npmFlag, "position manager")
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
	scanner := scan.NewPositionScanner(fetcher, logger)

	logger.Info("reconstructing positions",
		zap.String("wallet", wallet.Hex()),
		zap.String("position_manager", positionManager.Hex()),
		zap.Uint64("from", from),
		zap.Uint64("to", to),
	)

	history, err := scanner.ReconstructPositions(ctx, positionManager, wallet, from, to)
	if err != nil {
		return err
	}

	return printJSON(history)
}
