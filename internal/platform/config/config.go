package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers accepted in STORAGE_DRIVER.
const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

const (
	insecureJWTSecret     = "a-very-secret-key-should-be-longer-and-random"
	insecureCardKey       = "dev-only-card-encryption-key-change-me"
	defaultRateSourceURL  = "https://nbg.gov.ge/gw/api/ct/monetarypolicy/currencies/en/json"
	defaultAtmRateLimit   = "20-M"
	defaultRateCacheTTL   = time.Hour
	defaultRateFetchLimit = 10 * time.Second
)

// Config holds application configuration.
type Config struct {
	DatabaseURL        string
	Port               string
	IsProduction       bool
	EnableDBCheck      bool
	JWTSecret          string
	JWTIssuer          string
	StorageDriver      string
	RateSourceURL      string
	RateCacheTTL       time.Duration
	RateFetchTimeout   time.Duration
	CardEncryptionKey  string
	AtmRateLimit       string
	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ISSUER", "bank-core")
	v.SetDefault("STORAGE_DRIVER", StorageDriverPostgres)
	v.SetDefault("RATE_SOURCE_URL", defaultRateSourceURL)
	v.SetDefault("RATE_CACHE_TTL", defaultRateCacheTTL.String())
	v.SetDefault("RATE_FETCH_TIMEOUT", defaultRateFetchLimit.String())
	v.SetDefault("CARD_ENCRYPTION_KEY", "")
	v.SetDefault("ATM_RATE_LIMIT", defaultAtmRateLimit)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	// Environment variables override defaults and .env values.
	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:       v.GetString("PGSQL_URL"),
		Port:              v.GetString("PORT"),
		IsProduction:      v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:     v.GetBool("ENABLE_DB_CHECK"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		JWTIssuer:         v.GetString("JWT_ISSUER"),
		StorageDriver:     strings.ToLower(strings.TrimSpace(v.GetString("STORAGE_DRIVER"))),
		RateSourceURL:     v.GetString("RATE_SOURCE_URL"),
		CardEncryptionKey: v.GetString("CARD_ENCRYPTION_KEY"),
		AtmRateLimit:      v.GetString("ATM_RATE_LIMIT"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	switch cfg.StorageDriver {
	case StorageDriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL is required when STORAGE_DRIVER is %q", StorageDriverPostgres)
		}
	case StorageDriverMemory:
		if cfg.IsProduction {
			return nil, fmt.Errorf("STORAGE_DRIVER %q is not allowed in production", StorageDriverMemory)
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = insecureJWTSecret
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	if cfg.CardEncryptionKey == "" {
		if cfg.IsProduction {
			return nil, fmt.Errorf("CARD_ENCRYPTION_KEY must be set in production")
		}
		cfg.CardEncryptionKey = insecureCardKey
		log.Println("Warning: CARD_ENCRYPTION_KEY not set. Using default insecure key. THIS IS NOT FOR PRODUCTION.")
	}

	cfg.RateCacheTTL = parseDuration(v, "RATE_CACHE_TTL", defaultRateCacheTTL)
	cfg.RateFetchTimeout = parseDuration(v, "RATE_FETCH_TIMEOUT", defaultRateFetchLimit)

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	return cfg, nil
}

// parseDuration reads key as a Go duration ("60m", "1h"), falling back to def on bad input.
func parseDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def)
		}
		return def
	}
	return d
}
