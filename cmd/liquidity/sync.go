package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"seiliquidity/internal/dex"
	"seiliquidity/internal/storage/postgres"
	"seiliquidity/internal/syncer"
)

func runSync(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.DatabaseURL == "" {
		return fmt.Errorf("database url is required (flag --database-url or DATABASE_URL)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := postgres.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	clients := []syncer.DexClient{
		dex.NewDragonSwapClient(cfg.DragonAPIBase, logger),
		dex.NewSailorClient(cfg.SailorAPIBase, dex.NewTokenCache(), logger),
	}

	service := syncer.NewService(clients, store, cfg.SyncWorkers, logger)

	once, _ := cmd.Flags().GetBool("once")
	if once {
		syncResult, err := service.SyncPools(ctx)
		if err != nil {
			return err
		}
		historyResult, err := service.RecordPoolHistory(ctx)
		if err != nil {
			return err
		}
		return printJSON(map[string]interface{}{
			"sync":    syncResult,
			"history": historyResult,
		})
	}

	logger.Info("sync start",
		zap.String("rpc", cfg.RPCURL),
		zap.Duration("sync_interval", cfg.SyncInterval),
		zap.Duration("history_interval", cfg.HistoryInterval),
		zap.Int("workers", cfg.SyncWorkers),
	)

	scheduler := syncer.NewScheduler(service, cfg.SyncInterval, cfg.HistoryInterval, logger)
	if err := scheduler.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}
