// Package config provides centralized configuration management using Viper,
// with file, environment and default-value layering.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Provider  ProviderConfig  `mapstructure:"provider"`
	Retrieval RetrievalConfig `mapstructure:"retrieval"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Knowledge KnowledgeConfig `mapstructure:"knowledge"`
}

// AppConfig contains application-level configuration.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	EnableMetrics   bool          `mapstructure:"enable_metrics"`
}

// ProviderConfig contains external recipe provider settings.
type ProviderConfig struct {
	BaseURL           string  `mapstructure:"base_url"`
	APIKey            string  `mapstructure:"api_key"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
}

// RetrievalConfig tunes candidate fetching and caching behavior.
type RetrievalConfig struct {
	Pages       int           `mapstructure:"pages"`
	MaxPages    int           `mapstructure:"max_pages"`
	PageSize    int           `mapstructure:"page_size"`
	MinResults  int           `mapstructure:"min_results"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`
	FallbackTTL time.Duration `mapstructure:"fallback_ttl"`
}

// CacheConfig selects and sizes the candidate cache backend.
type CacheConfig struct {
	// Backend is "local" or "redis".
	Backend    string `mapstructure:"backend"`
	MaxEntries int    `mapstructure:"max_entries"`
}

// RedisConfig contains Redis connection settings.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	Database int    `mapstructure:"database"`
}

// DatabaseConfig contains the saved-plan store configuration.
type DatabaseConfig struct {
	Driver      string `mapstructure:"driver"`
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	Database    string `mapstructure:"database"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	SSLMode     string `mapstructure:"ssl_mode"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

// KnowledgeConfig points at an optional rule file that overrides the built-in
// goal and disease tables.
type KnowledgeConfig struct {
	RulesPath string `mapstructure:"rules_path"`
}

// Load reads configuration from the given file (or the default search paths
// when empty), layered with PLATEWISE_ environment variables and defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/platewise")
	}

	v.SetEnvPrefix("PLATEWISE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Defaults carry the application when no config file exists.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks configuration consistency.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}

	switch c.Cache.Backend {
	case "local", "redis":
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}

	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}

	if c.Retrieval.Pages > c.Retrieval.MaxPages {
		return fmt.Errorf("retrieval pages %d exceeds max_pages %d", c.Retrieval.Pages, c.Retrieval.MaxPages)
	}

	return nil
}

// IsProduction reports whether the app runs in the production environment.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func setDefaults(v *viper.Viper) {
	// App
	v.SetDefault("app.name", "platewise")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", false)
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "json")

	// Server
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.enable_metrics", true)

	// Provider
	v.SetDefault("provider.base_url", "https://api.recipedb.example.com/v1")
	v.SetDefault("provider.requests_per_second", 5.0)

	// Retrieval
	v.SetDefault("retrieval.pages", 3)
	v.SetDefault("retrieval.max_pages", 5)
	v.SetDefault("retrieval.page_size", 20)
	v.SetDefault("retrieval.min_results", 10)
	v.SetDefault("retrieval.cache_ttl", "1h")
	v.SetDefault("retrieval.fallback_ttl", "60s")

	// Cache
	v.SetDefault("cache.backend", "local")
	v.SetDefault("cache.max_entries", 1000)

	// Redis
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.database", 0)

	// Database
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.database", "platewise.db")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.auto_migrate", true)

	// Knowledge
	v.SetDefault("knowledge.rules_path", "")
}
