package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"seiliquidity/internal/dex"
)

func runSailorSnapshot(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := dex.NewSailorClient(cfg.SailorAPIBase, nil, logger)

	snapshot, err := client.FetchSnapshot(ctx)
	if err != nil {
		return err
	}

	return printRawJSON(snapshot)
}

func runSailorQuery(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	query, err := resolveQuery(cmd, args)
	if err != nil {
		return err
	}
	if query == "" {
		return fmt.Errorf("missing GraphQL query: provide --query or --file path")
	}

	var variables map[string]interface{}
	if variablesFlag, _ := cmd.Flags().GetString("variables"); variablesFlag != "" {
		if err := json.Unmarshal([]byte(variablesFlag), &variables); err != nil {
			return fmt.Errorf("parse variables: %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := dex.NewSailorClient(cfg.SailorAPIBase, nil, logger)

	response, err := client.Query(ctx, query, variables)
	if err != nil {
		return err
	}

	return printRawJSON(response)
}

// resolveQuery reads the query from --file, then --query, then any
// trailing arguments joined together.
func resolveQuery(cmd *cobra.Command, args []string) (string, error) {
	if filePath, _ := cmd.Flags().GetString("file"); filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return "", fmt.Errorf("read query file: %w", err)
		}
		return string(data), nil
	}
	if query, _ := cmd.Flags().GetString("query"); query != "" {
		return query, nil
	}
	return strings.Join(args, " "), nil
}

func printRawJSON(data []byte) error {
	var out bytes.Buffer
	if err := json.Indent(&out, data, "", "  "); err != nil {
		// Not JSON after all; emit as-is.
		fmt.Println(string(data))
		return nil
	}
	fmt.Println(out.String())
	return nil
}
