// Package config is responsible for initializing the application's
// configuration. It uses the Viper library to read settings from a config
// file, environment variables, and command-line flags, providing a unified
// configuration system.
package config

import (
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/quotesdb/quotes-crawler/internal/logging"
)

// InitConfig initializes the application's configuration using Viper.
// It sets up default values, defines configuration search paths, and
// enables reading from environment variables. Called once at startup.
func InitConfig() {
	viper.SetConfigName("config")
	viper.AddConfigPath(".")                     // current working directory
	viper.AddConfigPath("/etc/quotes-crawler/")  // system-wide configuration
	viper.AddConfigPath("$HOME/.quotes-crawler") // user-specific configuration

	// Scraper defaults.
	viper.SetDefault("scraper.base_url", "https://quotes.toscrape.com")
	viper.SetDefault("scraper.user_agent", "quotes-crawler/1.0 (+https://github.com/quotesdb/quotes-crawler)")
	viper.SetDefault("scraper.request_timeout", "15s")
	viper.SetDefault("scraper.respect_robots", false)

	// Database defaults. The engine is selected by which connection
	// parameters are present: the embedded engine takes a file path, the
	// client-server engine a DSN.
	viper.SetDefault("database.engine", "sqlite")
	viper.SetDefault("database.sqlite.path", "quotes.db")
	viper.SetDefault("database.postgres.dsn", "")

	// Scheduler and API defaults.
	viper.SetDefault("scheduler.interval", "24h")
	viper.SetDefault("api.addr", ":8080")

	viper.SetDefault("logging.development", false)

	// Environment variables, e.g. QUOTES_DATABASE_POSTGRES_DSN.
	viper.SetEnvPrefix("QUOTES")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Not fatal: defaults plus environment variables suffice.
			logging.L.Warn("Config file not found; using defaults and environment variables.")
		} else {
			logging.L.Error("Error reading config file", zap.Error(err))
		}
	} else {
		logging.L.Info("Using config file", zap.String("path", viper.ConfigFileUsed()))
	}
}
