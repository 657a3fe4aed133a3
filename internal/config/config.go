package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Economy policy selection values for ECONOMY_POLICY.
const (
	PolicyDupeCredit = "dupe_credit"
	PolicyShards     = "shards"
)

// Storage backend selection values for STORAGE.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds the application configuration
type Config struct {
	Port        int
	LogLevel    string
	LogFormat   string
	Environment string
	ServiceName string
	Version     string
	APIKey      string

	Storage    string
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	CatalogPath string

	EconomyPolicy    string
	DupeCreditAmount int64
	ShardThreshold   int

	DevEndpointsEnabled bool
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:      getEnv("LOG_LEVEL", "INFO"),
		LogFormat:     getEnv("LOG_FORMAT", "text"),
		Environment:   getEnv("ENVIRONMENT", "dev"),
		ServiceName:   getEnv("SERVICE_NAME", "stemcrate"),
		Version:       getEnv("VERSION", "dev"),
		APIKey:        getEnv("API_KEY", ""),
		Storage:       getEnv("STORAGE", StorageMemory),
		DBUser:        getEnv("DB_USER", "postgres"),
		DBPassword:    getEnv("DB_PASSWORD", "postgres"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBName:        getEnv("DB_NAME", "stemcrate"),
		CatalogPath:   getEnv("CATALOG_PATH", "configs/catalog.json"),
		EconomyPolicy: getEnv("ECONOMY_POLICY", PolicyShards),
	}

	port, err := getEnvInt("PORT", 8080)
	if err != nil {
		return nil, err
	}
	cfg.Port = port

	dupeCredit, err := getEnvInt("DUPE_CREDIT_AMOUNT", 25)
	if err != nil {
		return nil, err
	}
	cfg.DupeCreditAmount = int64(dupeCredit)

	shardThreshold, err := getEnvInt("SHARD_THRESHOLD", 10)
	if err != nil {
		return nil, err
	}
	cfg.ShardThreshold = shardThreshold

	cfg.DevEndpointsEnabled = getEnv("DEV_ENDPOINTS_ENABLED", "false") == "true"

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("API_KEY environment variable must be set for security")
	}
	if c.EconomyPolicy != PolicyDupeCredit && c.EconomyPolicy != PolicyShards {
		return fmt.Errorf("invalid ECONOMY_POLICY %q: must be %q or %q", c.EconomyPolicy, PolicyDupeCredit, PolicyShards)
	}
	if c.Storage != StoragePostgres && c.Storage != StorageMemory {
		return fmt.Errorf("invalid STORAGE %q: must be %q or %q", c.Storage, StoragePostgres, StorageMemory)
	}
	if c.ShardThreshold < 1 {
		return fmt.Errorf("SHARD_THRESHOLD must be at least 1")
	}
	if c.DevEndpointsEnabled && c.Environment == "prod" {
		return fmt.Errorf("DEV_ENDPOINTS_ENABLED must not be set in prod")
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := getEnv(key, strconv.Itoa(defaultValue))
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
