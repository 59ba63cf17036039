package config

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Defaults mirror the production Sei deployment.
const (
	DefaultRPCURL                = "https://evm-rpc.sei.io"
	DefaultChunkSize             = uint64(5000)
	DefaultDragonFactory         = "0x179D9a5592Bc77050796F7be28058c51cA575df4"
	DefaultDragonPositionManager = "0xa7FDcBe645d6b2B98639EbacbC347e2B575f6F70"
	DefaultSailorFactory         = "0xA51136931fdd3875902618bF6B3abe38Ab2D703b"
	DefaultSailorPositionManager = "0xe294d5Eb435807cD21017013Bef620ed1AeafbeB"
	DefaultSailorAPIBase         = "https://asia-southeast1-ktx-finance-2.cloudfunctions.net/sailor_otherapi"
	DefaultDragonAPIBase         = "https://api.dragonswap.app/v1"
)

// Config holds configuration merged from flags, environment, and an
// optional config file. Flags win over env, env over file.
type Config struct {
	RPCURL                string
	ChunkSize             uint64
	DragonFactory         string
	DragonPositionManager string
	SailorFactory         string
	SailorPositionManager string
	SailorAPIBase         string
	DragonAPIBase         string
	DatabaseURL           string
	SyncInterval          time.Duration
	HistoryInterval       time.Duration
	SyncWorkers           int
	MaxRetries            int
	RetryBackoff          time.Duration
	LogLevel              string
}

// Environment variable names recognized alongside flags.
var envBindings = map[string]string{
	"rpc":                     "SEI_RPC",
	"chunk-size":              "LOG_CHUNK_SIZE",
	"dragon-factory":          "DRAGON_FACTORY",
	"dragon-position-manager": "DRAGON_POSITION_MANAGER",
	"sailor-factory":          "SAILOR_FACTORY",
	"sailor-position-manager": "SAILOR_POSITION_MANAGER",
	"sailor-api-base":         "SAILOR_API_BASE",
	"dragon-api-base":         "DRAGONSWAP_API_URL",
	"database-url":            "DATABASE_URL",
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	v.SetDefault("rpc", DefaultRPCURL)
	v.SetDefault("chunk-size", DefaultChunkSize)
	v.SetDefault("dragon-factory", DefaultDragonFactory)
	v.SetDefault("dragon-position-manager", DefaultDragonPositionManager)
	v.SetDefault("sailor-factory", DefaultSailorFactory)
	v.SetDefault("sailor-position-manager", DefaultSailorPositionManager)
	v.SetDefault("sailor-api-base", DefaultSailorAPIBase)
	v.SetDefault("dragon-api-base", DefaultDragonAPIBase)
	v.SetDefault("sync-interval", 5*time.Minute)
	v.SetDefault("history-interval", time.Hour)
	v.SetDefault("sync-workers", 8)
	v.SetDefault("max-retries", 3)
	v.SetDefault("retry-backoff", 500*time.Millisecond)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		RPCURL:                v.GetString("rpc"),
		ChunkSize:             v.GetUint64("chunk-size"),
		DragonFactory:         v.GetString("dragon-factory"),
		DragonPositionManager: v.GetString("dragon-position-manager"),
		SailorFactory:         v.GetString("sailor-factory"),
		SailorPositionManager: v.GetString("sailor-position-manager"),
		SailorAPIBase:         v.GetString("sailor-api-base"),
		DragonAPIBase:         v.GetString("dragon-api-base"),
		DatabaseURL:           v.GetString("database-url"),
		SyncInterval:          v.GetDuration("sync-interval"),
		HistoryInterval:       v.GetDuration("history-interval"),
		SyncWorkers:           v.GetInt("sync-workers"),
		MaxRetries:            v.GetInt("max-retries"),
		RetryBackoff:          v.GetDuration("retry-backoff"),
		LogLevel:              v.GetString("log-level"),
	}

	return cfg, nil
}
