package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Census   CensusConfig
	Listings ListingsConfig
	Analysis AnalysisConfig
	Redis    RedisConfig
	App      AppConfig
}

type ServerConfig struct {
	Port string
}

type CensusConfig struct {
	BaseURL string
	Year    string
	TTL     time.Duration
}

type ListingsConfig struct {
	APIKey         string
	APIHost        string
	BaseURL        string
	MaxConcurrent  int
	MaxRetries     int
	RequestsPerSec float64
}

type AnalysisConfig struct {
	DefaultPriceMin  int
	DefaultPriceMax  int
	MaxMarketLookups int
	Timeout          time.Duration
	PrewarmCron      bool
}

type RedisConfig struct {
	Addr string
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Census: CensusConfig{
			BaseURL: getEnv("CENSUS_BASE_URL", "https://api.census.gov"),
			Year:    getEnv("CENSUS_ACS_YEAR", "2023"),
			TTL:     time.Duration(getEnvAsInt("CENSUS_TTL_HOURS", 24)) * time.Hour,
		},
		Listings: ListingsConfig{
			APIKey:         getEnv("RAPIDAPI_KEY", ""),
			APIHost:        getEnv("RAPIDAPI_HOST", "realty-in-us.p.rapidapi.com"),
			BaseURL:        getEnv("LISTINGS_BASE_URL", "https://realty-in-us.p.rapidapi.com/properties/v3/list"),
			MaxConcurrent:  getEnvAsInt("MARKET_MAX_CONCURRENT", 4),
			MaxRetries:     getEnvAsInt("MARKET_MAX_RETRIES", 2),
			RequestsPerSec: getEnvAsFloat("MARKET_REQUESTS_PER_SEC", 5),
		},
		Analysis: AnalysisConfig{
			DefaultPriceMin:  getEnvAsInt("PRICE_MIN", 200000),
			DefaultPriceMax:  getEnvAsInt("PRICE_MAX", 225000),
			MaxMarketLookups: getEnvAsInt("MARKET_MAX_LOOKUPS", 10),
			Timeout:          time.Duration(getEnvAsInt("ANALYZE_TIMEOUT_SECONDS", 30)) * time.Second,
			PrewarmCron:      getEnvAsBool("PREWARM_CRON_ENABLED", false),
		},
		Redis: RedisConfig{
			Addr: getEnv("REDIS_ADDR", ""),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Listings.APIKey == "" {
		return fmt.Errorf("RAPIDAPI_KEY is required")
	}

	if c.Census.TTL <= 0 {
		return fmt.Errorf("CENSUS_TTL_HOURS must be positive")
	}

	if c.Listings.MaxConcurrent <= 0 {
		return fmt.Errorf("MARKET_MAX_CONCURRENT must be positive")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid number for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}
