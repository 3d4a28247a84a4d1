// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultRecipesBaseURL   = "https://dummyjson.com"
	DefaultAssistantBaseURL = "https://api.openai.com/v1"
	DefaultAssistantName    = "Lucy"
	DefaultAssistantModel   = "gpt-3.5-turbo-0125"

	DefaultAssistantInstructions = "You are a virtual assistant for providing recipe recommendations based on ingredients in the user's cart. " +
		"You do not need to verify any of the backend processes, they will be passed to you, all you have to do is convert what the user wanted to do and the results to natural language. " +
		"Lucy acts as a knowledgeable cooking friend, providing friendly advice and responses. " +
		"She responds in a way that feels personal and relatable, not overly robotic. " +
		"Lucy provides succinct and contextually relevant information to minimize the need for additional user prompts and to conserve API calls. " +
		"You will recieve information from the backend about user requests which you are to process into coherent phrases. " +
		"If you recieve an 'N' it means that no matching results were found"
)

func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")
	if root := findProjectRoot(); root != "" {
		v.AddConfigPath(filepath.Join(root, "configs"))
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // optional

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// loadEnvFile loads the first .env found in the usual run locations or at the module root.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// expandEnvVars replaces ${VAR} placeholders in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal {
				v.Set(key, expanded)
			}
		}
	}
}

// Direct override if secrets are still empty after expansion
func overrideEmptyConfig(cfg *Config) {
	if cfg.Assistant.APIKey == "" {
		if val := os.Getenv("OPENAI_API_KEY"); val != "" {
			cfg.Assistant.APIKey = val
		}
	}
	if cfg.Assistant.AssistantID == "" {
		if val := os.Getenv("OPENAI_ASSISTANT_ID"); val != "" {
			cfg.Assistant.AssistantID = val
		}
	}
	if cfg.Database.Postgres.User == "" {
		if val := os.Getenv("DB_USER"); val != "" {
			cfg.Database.Postgres.User = val
		}
	}
	if cfg.Database.Postgres.Password == "" {
		if val := os.Getenv("DB_PASSWORD"); val != "" {
			cfg.Database.Postgres.Password = val
		}
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "lucy-chat"
	}

	// Assistant defaults
	if cfg.Assistant.BaseURL == "" {
		cfg.Assistant.BaseURL = DefaultAssistantBaseURL
	}
	if cfg.Assistant.Name == "" {
		cfg.Assistant.Name = DefaultAssistantName
	}
	if cfg.Assistant.Model == "" {
		cfg.Assistant.Model = DefaultAssistantModel
	}
	if cfg.Assistant.Instructions == "" {
		cfg.Assistant.Instructions = DefaultAssistantInstructions
	}
	if cfg.Assistant.PollInterval == 0 {
		cfg.Assistant.PollInterval = 500
	}
	if cfg.Assistant.MaxPollAttempts == 0 {
		cfg.Assistant.MaxPollAttempts = 120
	}
	if cfg.Assistant.RunTimeout == 0 {
		cfg.Assistant.RunTimeout = 60000
	}
	if cfg.Assistant.RequestTimeout == 0 {
		cfg.Assistant.RequestTimeout = 30000
	}

	// Recipe source defaults
	if cfg.Recipes.BaseURL == "" {
		cfg.Recipes.BaseURL = DefaultRecipesBaseURL
	}
	if cfg.Recipes.Timeout == 0 {
		cfg.Recipes.Timeout = 10000
	}
	if cfg.Recipes.CacheTTL == 0 {
		cfg.Recipes.CacheTTL = 300
	}

	// Catalog and cart defaults
	if cfg.Catalog.Source == "" {
		cfg.Catalog.Source = "file"
	}
	if cfg.Catalog.Path == "" {
		cfg.Catalog.Path = "public/products.json"
	}
	if cfg.Cart.UserID == "" {
		cfg.Cart.UserID = "1"
	}
	if cfg.Cart.KeyPrefix == "" {
		cfg.Cart.KeyPrefix = "lucy:cart"
	}

	// Database defaults
	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 25
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}
	if cfg.Database.Redis.Address == "" {
		cfg.Database.Redis.Address = "localhost:6379"
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}

	if cfg.Metrics.Address == "" {
		cfg.Metrics.Address = ":9090"
	}

	for key, worker := range cfg.Workers {
		if worker.Timeout == 0 {
			worker.Timeout = 30000
		}
		cfg.Workers[key] = worker
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	if cfg.Assistant.APIKey == "" {
		return fmt.Errorf("assistant.api_key is required (or OPENAI_API_KEY)")
	}
	if cfg.Assistant.PollInterval < 0 {
		return fmt.Errorf("assistant.poll_interval must not be negative")
	}
	if cfg.Assistant.MaxPollAttempts < 0 {
		return fmt.Errorf("assistant.max_poll_attempts must not be negative")
	}

	switch cfg.Catalog.Source {
	case "file":
		if cfg.Catalog.Path == "" {
			return fmt.Errorf("catalog.path is required for the file catalog")
		}
	case "postgres":
		if cfg.Database.Postgres.Host == "" {
			return fmt.Errorf("database.postgres.host is required")
		}
		if cfg.Database.Postgres.Database == "" {
			return fmt.Errorf("database.postgres.database is required")
		}
		if cfg.Database.Postgres.User == "" {
			return fmt.Errorf("database.postgres.user is required")
		}
	default:
		return fmt.Errorf("catalog.source must be file or postgres, got %q", cfg.Catalog.Source)
	}

	if cfg.Database.Redis.Address == "" {
		return fmt.Errorf("database.redis.address is required")
	}
	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// GetWorkerConfig retrieves worker-specific configuration with fallback to defaults
func GetWorkerConfig(cfg *Config, workerName string) WorkerConfig {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker
	}
	return WorkerConfig{
		Timeout: 30000,
	}
}
