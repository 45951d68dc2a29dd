package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	OCR       OCRConfig
	Refiner   RefinerConfig
	Engine    EngineConfig
	Artifacts ArtifactsConfig
	Cache     CacheConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	MaxUploadMB    int      `mapstructure:"max_upload_mb"`
}

// OCRConfig holds OCR inference service configuration
type OCRConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// RefinerConfig holds the LLM refinement service configuration
type RefinerConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
}

// EngineConfig holds extraction engine tuning knobs
type EngineConfig struct {
	Tolerance           int `mapstructure:"tolerance"`
	AnchorTolerance     int `mapstructure:"anchor_tolerance"`
	YCutoffNutrition    int `mapstructure:"y_cutoff_nutrition"`
	YCutoffDefault      int `mapstructure:"y_cutoff_default"`
	FuzzyThreshold      int `mapstructure:"fuzzy_threshold"`
	CorrectionThreshold int `mapstructure:"correction_threshold"`
}

// ArtifactsConfig holds pipeline artifact output configuration
type ArtifactsConfig struct {
	Dir string `mapstructure:"dir"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type string        `mapstructure:"type"` // "memory" only for now
	TTL  time.Duration `mapstructure:"ttl"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/labellens/")

	// Environment variable settings
	v.SetEnvPrefix("LABELLENS")
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.max_upload_mb", 10)

	// OCR defaults
	v.SetDefault("ocr.base_url", "http://localhost:8868")
	v.SetDefault("ocr.timeout", "60s")

	// Refiner defaults
	v.SetDefault("refiner.base_url", "https://generativelanguage.googleapis.com")
	v.SetDefault("refiner.model", "gemini-2.0-flash")

	// Engine defaults
	v.SetDefault("engine.tolerance", 5)
	v.SetDefault("engine.anchor_tolerance", 500)
	v.SetDefault("engine.y_cutoff_nutrition", 2000)
	v.SetDefault("engine.y_cutoff_default", 200)
	v.SetDefault("engine.fuzzy_threshold", 85)
	v.SetDefault("engine.correction_threshold", 85)

	// Artifact defaults
	v.SetDefault("artifacts.dir", "outputs")

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.ttl", "24h")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.OCR.BaseURL == "" {
		return fmt.Errorf("OCR base URL is required (set LABELLENS_OCR_BASE_URL)")
	}

	if config.Refiner.APIKey == "" {
		return fmt.Errorf("refiner API key is required (set LABELLENS_REFINER_API_KEY)")
	}

	if config.Cache.Type != "memory" {
		return fmt.Errorf("cache type must be 'memory', got: %s", config.Cache.Type)
	}

	if config.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("max upload size must be positive, got: %d", config.Server.MaxUploadMB)
	}

	return nil
}
