package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL     string `mapstructure:"PGSQL_URL"`
	DefaultCurrency string `mapstructure:"DEFAULT_CURRENCY_CODE"`
	MigrationsPath  string `mapstructure:"MIGRATIONS_PATH"`
	IsProduction    bool   `mapstructure:"IS_PRODUCTION"`
	EnableDBCheck   bool   `mapstructure:"ENABLE_DB_CHECK"`
}

// LoadConfig loads configuration from environment variables.
// It looks for a .env file first.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("DEFAULT_CURRENCY_CODE", "USD")
	v.SetDefault("MIGRATIONS_PATH", "migrations")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	return &cfg, nil
}
