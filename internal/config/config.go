package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server   Server   `mapstructure:"server"`
	Database Database `mapstructure:"database"`
	Logger   Logger   `mapstructure:"logger"`
	Market   Market   `mapstructure:"market"`
	AI       AI       `mapstructure:"ai"`
	Refresh  Refresh  `mapstructure:"refresh"`
}

// Server holds the configuration for the HTTP API server.
type Server struct {
	Port int `mapstructure:"port"`
}

// Database holds the configuration for the local store.
type Database struct {
	DSN string `mapstructure:"dsn"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Market holds the configuration for the market-data provider.
type Market struct {
	BaseURL        string  `mapstructure:"base_url"`
	ApiKey         string  `mapstructure:"apiKey"`
	RateLimit      float64 `mapstructure:"rate_limit"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
	CacheTTL       int     `mapstructure:"cache_ttl"` // seconds
}

// AI holds the configuration for the AI analysis provider.
// An empty ApiKey switches the client to canned offline commentary.
type AI struct {
	BaseURL string `mapstructure:"base_url"`
	ApiKey  string `mapstructure:"apiKey"`
	Model   string `mapstructure:"model"`
}

// Refresh holds the configuration for the watchlist quote refresher.
type Refresh struct {
	Enabled  bool `mapstructure:"enabled"`
	Interval int  `mapstructure:"interval"` // seconds
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yml")    // or yaml, json

	// Allow environment variables to override config file
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("database.dsn", "journal.db")
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")
	viper.SetDefault("market.rate_limit", 5)       // requests per second
	viper.SetDefault("market.rate_limit_burst", 2) // burst size
	viper.SetDefault("market.cache_ttl", 30)
	viper.SetDefault("ai.model", "gpt-4o-mini")
	viper.SetDefault("refresh.enabled", true)
	viper.SetDefault("refresh.interval", 60)

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
