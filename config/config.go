package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	API        APIConfig
	Storage    StorageConfig
	Pagination PaginationConfig
	Search     SearchConfig
	Camera     CameraConfig
	Auth       AuthConfig
	Log        LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// APIConfig holds recipe API configuration
type APIConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	RateLimit  float64       `mapstructure:"rate_limit"` // requests per second
	RateBurst  int           `mapstructure:"rate_burst"`
	MaxRetries int           `mapstructure:"max_retries"`
	Debug      bool          `mapstructure:"debug"`
}

// StorageConfig holds local storage configuration
type StorageConfig struct {
	Type     string `mapstructure:"type"` // "memory", "file", "sqlite" or "redis"
	Path     string `mapstructure:"path"`
	RedisURL string `mapstructure:"redis_url"`
}

// PaginationConfig holds infinite-scroll configuration
type PaginationConfig struct {
	PageSize int `mapstructure:"page_size"`
}

// SearchConfig holds search configuration
type SearchConfig struct {
	Debounce    time.Duration `mapstructure:"debounce"`
	WindowLimit int           `mapstructure:"window_limit"`
}

// CameraConfig holds capture configuration
type CameraConfig struct {
	Mirror      bool `mapstructure:"mirror"`
	JPEGQuality int  `mapstructure:"jpeg_quality"`
}

// AuthConfig holds mock authentication configuration
type AuthConfig struct {
	Delay time.Duration `mapstructure:"delay"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

var storageTypes = map[string]bool{
	"memory": true,
	"file":   true,
	"sqlite": true,
	"redis":  true,
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file. An empty path searches the
// default locations.
func LoadFile(path string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/savora/")
	}

	v.SetEnvPrefix("SAVORA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults still apply
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads a .env file from the working directory if present.
// Variables already set in the environment win.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(".env")
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173", "http://localhost:8080"})

	v.SetDefault("api.base_url", "http://localhost:8000")
	v.SetDefault("api.timeout", "30s")
	v.SetDefault("api.rate_limit", 10.0)
	v.SetDefault("api.rate_burst", 20)
	v.SetDefault("api.max_retries", 3)
	v.SetDefault("api.debug", false)

	v.SetDefault("storage.type", "file")
	v.SetDefault("storage.path", "savora-storage.json")
	v.SetDefault("storage.redis_url", "")

	v.SetDefault("pagination.page_size", 8)

	v.SetDefault("search.debounce", "300ms")
	v.SetDefault("search.window_limit", 200)

	v.SetDefault("camera.mirror", true)
	v.SetDefault("camera.jpeg_quality", 80)

	v.SetDefault("auth.delay", "500ms")

	v.SetDefault("log.level", "info")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.API.BaseURL == "" {
		return fmt.Errorf("recipe API base URL is required (set SAVORA_API_BASE_URL)")
	}

	if !storageTypes[config.Storage.Type] {
		return fmt.Errorf("storage type must be one of memory, file, sqlite, redis, got: %s", config.Storage.Type)
	}

	if (config.Storage.Type == "file" || config.Storage.Type == "sqlite") && config.Storage.Path == "" {
		return fmt.Errorf("storage path is required when storage type is '%s'", config.Storage.Type)
	}

	if config.Storage.Type == "redis" && config.Storage.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when storage type is 'redis'")
	}

	if config.Pagination.PageSize <= 0 {
		return fmt.Errorf("pagination page size must be positive, got: %d", config.Pagination.PageSize)
	}

	if config.Camera.JPEGQuality < 1 || config.Camera.JPEGQuality > 100 {
		return fmt.Errorf("camera JPEG quality must be between 1 and 100, got: %d", config.Camera.JPEGQuality)
	}

	return nil
}
