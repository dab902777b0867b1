package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Storage providers for generated personas
const (
	StorageMemory   = "memory"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `json:"server"`
	Storage   StorageConfig   `json:"storage"`
	Content   ContentConfig   `json:"content"`
	Generator GeneratorConfig `json:"generator"`
	Logging   LoggingConfig   `json:"logging"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Name         string `json:"name"`
	Version      string `json:"version"`
	Port         int    `json:"port"`
	Host         string `json:"host"`
	ReadTimeout  int    `json:"read_timeout_seconds"`
	WriteTimeout int    `json:"write_timeout_seconds"`
}

// StorageConfig selects where generated personas are kept
type StorageConfig struct {
	Provider      string `json:"provider"`
	SQLitePath    string `json:"sqlite_path"`
	PostgresDSN   string `json:"-"` // carries credentials
	RedisAddr     string `json:"redis_addr"`
	RedisPassword string `json:"-"`
	RedisDB       int    `json:"redis_db"`
	KeyPrefix     string `json:"key_prefix"`
}

// ContentConfig locates on-disk content served as resources
type ContentConfig struct {
	ExamplesDir string `json:"examples_dir"`
}

// GeneratorConfig tunes the persona generator
type GeneratorConfig struct {
	MinAge int   `json:"min_age"`
	MaxAge int   `json:"max_age"`
	Seed   int64 `json:"seed"` // 0 seeds from the clock
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name:         "seg-mcp-server",
			Version:      "1.1.0",
			Port:         8080,
			Host:         "localhost",
			ReadTimeout:  30,
			WriteTimeout: 30,
		},
		Storage: StorageConfig{
			Provider:   StorageMemory,
			SQLitePath: "./data/seg.db",
			RedisAddr:  "localhost:6379",
			KeyPrefix:  "seg:",
		},
		Content: ContentConfig{
			ExamplesDir: "./docs",
		},
		Generator: GeneratorConfig{
			MinAge: 25,
			MaxAge: 75,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadConfig loads configuration from .env and environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// Don't fail if .env doesn't exist
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	config := DefaultConfig()
	loadFromEnv(config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func loadFromEnv(config *Config) {
	loadServerConfig(config)
	loadStorageConfig(config)
	loadContentConfig(config)
	loadGeneratorConfig(config)
	loadLoggingConfig(config)
}

func loadServerConfig(config *Config) {
	if name := os.Getenv("SEG_MCP_SERVER_NAME"); name != "" {
		config.Server.Name = name
	}
	if version := os.Getenv("SEG_MCP_SERVER_VERSION"); version != "" {
		config.Server.Version = version
	}
	if port := os.Getenv("SEG_MCP_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("SEG_MCP_HOST"); host != "" {
		config.Server.Host = host
	}
	if readTimeout := os.Getenv("SEG_MCP_READ_TIMEOUT_SECONDS"); readTimeout != "" {
		if rt, err := strconv.Atoi(readTimeout); err == nil {
			config.Server.ReadTimeout = rt
		}
	}
	if writeTimeout := os.Getenv("SEG_MCP_WRITE_TIMEOUT_SECONDS"); writeTimeout != "" {
		if wt, err := strconv.Atoi(writeTimeout); err == nil {
			config.Server.WriteTimeout = wt
		}
	}
}

func loadStorageConfig(config *Config) {
	if provider := os.Getenv("SEG_MCP_STORAGE_PROVIDER"); provider != "" {
		config.Storage.Provider = strings.ToLower(provider)
	}
	if path := os.Getenv("SEG_MCP_SQLITE_PATH"); path != "" {
		config.Storage.SQLitePath = path
	}
	if dsn := os.Getenv("SEG_MCP_POSTGRES_DSN"); dsn != "" {
		config.Storage.PostgresDSN = dsn
	}
	if addr := os.Getenv("SEG_MCP_REDIS_ADDR"); addr != "" {
		config.Storage.RedisAddr = addr
	}
	if password := os.Getenv("SEG_MCP_REDIS_PASSWORD"); password != "" {
		config.Storage.RedisPassword = password
	}
	if db := os.Getenv("SEG_MCP_REDIS_DB"); db != "" {
		if d, err := strconv.Atoi(db); err == nil {
			config.Storage.RedisDB = d
		}
	}
	if prefix, ok := os.LookupEnv("SEG_MCP_KEY_PREFIX"); ok {
		config.Storage.KeyPrefix = prefix
	}
}

func loadContentConfig(config *Config) {
	if dir := os.Getenv("SEG_MCP_EXAMPLES_DIR"); dir != "" {
		config.Content.ExamplesDir = dir
	}
}

func loadGeneratorConfig(config *Config) {
	if minAge := os.Getenv("SEG_MCP_MIN_AGE"); minAge != "" {
		if v, err := strconv.Atoi(minAge); err == nil {
			config.Generator.MinAge = v
		}
	}
	if maxAge := os.Getenv("SEG_MCP_MAX_AGE"); maxAge != "" {
		if v, err := strconv.Atoi(maxAge); err == nil {
			config.Generator.MaxAge = v
		}
	}
	if seed := os.Getenv("SEG_MCP_SEED"); seed != "" {
		if v, err := strconv.ParseInt(seed, 10, 64); err == nil {
			config.Generator.Seed = v
		}
	}
}

func loadLoggingConfig(config *Config) {
	if level := os.Getenv("SEG_MCP_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("SEG_MCP_LOG_FORMAT"); format != "" {
		config.Logging.Format = strings.ToLower(format)
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Name == "" {
		return fmt.Errorf("server name cannot be empty")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.Host == "" {
		return fmt.Errorf("server host cannot be empty")
	}

	switch c.Storage.Provider {
	case StorageMemory:
	case StorageSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("sqlite path cannot be empty when storage provider is sqlite")
		}
	case StoragePostgres:
		if c.Storage.PostgresDSN == "" {
			return fmt.Errorf("postgres DSN is required when storage provider is postgres")
		}
	case StorageRedis:
		if c.Storage.RedisAddr == "" {
			return fmt.Errorf("redis address cannot be empty when storage provider is redis")
		}
	default:
		return fmt.Errorf("unknown storage provider: %s", c.Storage.Provider)
	}

	if c.Generator.MinAge < 1 {
		return fmt.Errorf("min age must be at least 1, got %d", c.Generator.MinAge)
	}
	if c.Generator.MaxAge < c.Generator.MinAge {
		return fmt.Errorf("max age must be greater than or equal to min age")
	}

	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("log format must be json or text, got %q", c.Logging.Format)
	}

	return nil
}
