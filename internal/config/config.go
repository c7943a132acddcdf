// Package config provides configuration management using viper.
// It supports loading from YAML files and environment variable overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Sync      SyncConfig      `mapstructure:"sync"`
	Platforms PlatformsConfig `mapstructure:"platforms"`
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	PoolSize        int           `mapstructure:"pool_size"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
}

// SyncConfig holds the daily sync job tunables. BatchSize bounds how many
// students are synced concurrently; BatchDelay is the pause between
// batches and is the sole admission-control knob against the external
// platform APIs.
type SyncConfig struct {
	BatchSize    int           `mapstructure:"batch_size"`
	BatchDelay   time.Duration `mapstructure:"batch_delay"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
	Timezone     string        `mapstructure:"timezone"`
	MetricsAddr  string        `mapstructure:"metrics_addr"`
}

// PlatformsConfig holds the base URLs of the external platform APIs.
// Overridable so tests can point adapters at local fakes.
type PlatformsConfig struct {
	LeetCodeURL   string `mapstructure:"leetcode_url"`
	CodeChefURL   string `mapstructure:"codechef_url"`
	CodeforcesURL string `mapstructure:"codeforces_url"`
	HackerRankURL string `mapstructure:"hackerrank_url"`
}

// DSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name,
	)
}

// Load reads configuration from file and environment variables.
// It looks for config.yaml in the config directory.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Configure viper
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Enable environment variable override
	// Environment variables use underscore separator and uppercase
	// e.g., DATABASE_HOST, SYNC_BATCH_SIZE
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (optional - env vars can provide all config)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK - we can use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "codetrack")
	v.SetDefault("database.name", "codetrack")
	v.SetDefault("database.pool_size", 20)
	v.SetDefault("database.connect_timeout", "10s")
	v.SetDefault("database.max_conn_lifetime", "1h")
	v.SetDefault("database.max_conn_idle_time", "30m")

	// Sync defaults
	v.SetDefault("sync.batch_size", 10)
	v.SetDefault("sync.batch_delay", "500ms")
	v.SetDefault("sync.fetch_timeout", "10s")
	v.SetDefault("sync.timezone", "Local")
	v.SetDefault("sync.metrics_addr", "")

	// Platform API defaults
	v.SetDefault("platforms.leetcode_url", "https://leetcode.com/graphql")
	v.SetDefault("platforms.codechef_url", "https://codechef-api.vercel.app")
	v.SetDefault("platforms.codeforces_url", "https://codeforces.com")
	v.SetDefault("platforms.hackerrank_url", "https://www.hackerrank.com")
}
