package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all terminal configuration.
type Config struct {
	Terminal TerminalConfig `mapstructure:"terminal"`
	Relay    RelayConfig    `mapstructure:"relay"`
	Sync     SyncConfig     `mapstructure:"sync"`
	Forward  ForwardConfig  `mapstructure:"forward"`
	Queue    QueueConfig    `mapstructure:"queue"`
	Mints    MintsConfig    `mapstructure:"mints"`
	Storage  StorageConfig  `mapstructure:"storage"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Log      LogConfig      `mapstructure:"log"`
}

type TerminalConfig struct {
	Name       string `mapstructure:"name"`
	Role       string `mapstructure:"role"` // main, sub
	MerchantID string `mapstructure:"merchant_id"`
	MainPubkey string `mapstructure:"main_pubkey"` // required for sub terminals
}

// IsMain reports whether this terminal holds the main role.
func (t TerminalConfig) IsMain() bool {
	return t.Role == "main"
}

type RelayConfig struct {
	URLs           []string      `mapstructure:"urls"`
	PublishTimeout time.Duration `mapstructure:"publish_timeout"`
}

type SyncConfig struct {
	DrainInterval time.Duration `mapstructure:"drain_interval"`
}

type ForwardConfig struct {
	Expiry        time.Duration `mapstructure:"expiry"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

type QueueConfig struct {
	MaxSinglePayment int64         `mapstructure:"max_single_payment"` // sats
	MaxPendingCount  int           `mapstructure:"max_pending_count"`
	MaxPendingAmount int64         `mapstructure:"max_pending_amount"` // sats
	ProcessInterval  time.Duration `mapstructure:"process_interval"`
}

type MintsConfig struct {
	Trusted []string `mapstructure:"trusted"`
}

type StorageConfig struct {
	Path string `mapstructure:"path"` // sqlite database file
}

type HTTPConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

// Addr returns the operator API listen address.
func (h HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: CPOS_.
// Nested keys use underscore: CPOS_TERMINAL_ROLE, CPOS_STORAGE_PATH, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("terminal.name", "terminal")
	v.SetDefault("terminal.role", "sub")
	v.SetDefault("terminal.merchant_id", "")
	v.SetDefault("terminal.main_pubkey", "")
	v.SetDefault("relay.urls", []string{"wss://relay.damus.io", "wss://nos.lol"})
	v.SetDefault("relay.publish_timeout", "10s")
	v.SetDefault("sync.drain_interval", "30s")
	v.SetDefault("forward.expiry", "24h")
	v.SetDefault("forward.sweep_interval", "5m")
	v.SetDefault("queue.max_single_payment", 10000)
	v.SetDefault("queue.max_pending_count", 20)
	v.SetDefault("queue.max_pending_amount", 50000)
	v.SetDefault("queue.process_interval", "60s")
	v.SetDefault("mints.trusted", []string{})
	v.SetDefault("storage.path", "cashu-pos.db")
	v.SetDefault("http.host", "127.0.0.1")
	v.SetDefault("http.port", 8390)
	v.SetDefault("http.mode", "release")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: CPOS_RELAY_PUBLISH_TIMEOUT -> relay.publish_timeout
	v.SetEnvPrefix("CPOS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required — env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Terminal.Role != "main" && c.Terminal.Role != "sub" {
		return fmt.Errorf("terminal.role must be main or sub, got %q", c.Terminal.Role)
	}
	if c.Queue.MaxPendingCount < 0 || c.Queue.MaxPendingAmount < 0 || c.Queue.MaxSinglePayment < 0 {
		return fmt.Errorf("queue limits must not be negative")
	}
	if len(c.Relay.URLs) == 0 {
		return fmt.Errorf("at least one relay URL is required")
	}
	return nil
}
