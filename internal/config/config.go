package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Ramcharan1706/BlockEstate/internal/domain"
)

// Config is the immutable runtime configuration. It is resolved once at
// process start; nothing mutates it afterwards.
type Config struct {
	BuyerAddress     string
	BuyerPrivateKey  string
	SellerAddress    string
	SellerPrivateKey string
	LandTokenID      uint64

	APIURL   string
	TokenURL string

	AlgodToken   string
	AlgodAddress string

	HTTPAddr         string
	PostgresDSN      string
	PolicyBundlePath string

	ConfirmMaxRetries int
	ConfirmDelay      time.Duration
	Workers           int

	RateLimitRequests      int
	RateLimitWindowSeconds int

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// FromEnv resolves the configuration and validates that every value the
// pipeline depends on is present. A missing value is fatal before any
// network call is made.
func FromEnv() (Config, error) {
	cfg := Config{
		BuyerAddress:           os.Getenv("BUYER_ADDRESS"),
		BuyerPrivateKey:        os.Getenv("BUYER_PRIVATE_KEY"),
		SellerAddress:          os.Getenv("SELLER_ADDRESS"),
		SellerPrivateKey:       os.Getenv("SELLER_PRIVATE_KEY"),
		APIURL:                 os.Getenv("API_URL"),
		TokenURL:               os.Getenv("TOKEN_URL"),
		AlgodToken:             os.Getenv("ALGOD_TOKEN"),
		AlgodAddress:           os.Getenv("ALGOD_ADDRESS"),
		HTTPAddr:               envDefault("HTTP_ADDR", ":8080"),
		PostgresDSN:            os.Getenv("POSTGRES_DSN"),
		PolicyBundlePath:       os.Getenv("POLICY_BUNDLE_PATH"),
		ConfirmMaxRetries:      envIntDefault("CONFIRM_MAX_RETRIES", 10),
		ConfirmDelay:           time.Duration(envIntDefault("CONFIRM_DELAY_SECONDS", 2)) * time.Second,
		Workers:                envIntDefault("WORKERS", 1),
		RateLimitRequests:      envIntDefault("RATE_LIMIT_REQUESTS", 0),
		RateLimitWindowSeconds: envIntDefault("RATE_LIMIT_WINDOW_SECONDS", 60),
		RedisAddr:              os.Getenv("REDIS_ADDR"),
		RedisPassword:          os.Getenv("REDIS_PASSWORD"),
		RedisDB:                envIntDefault("REDIS_DB", 0),
	}

	missing := missingVars()
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: missing %s", domain.ErrConfiguration, strings.Join(missing, ", "))
	}

	tokenID, err := strconv.ParseUint(os.Getenv("LAND_TOKEN_ID"), 10, 64)
	if err != nil {
		return Config{}, fmt.Errorf("%w: LAND_TOKEN_ID must be an integer: %v", domain.ErrConfiguration, err)
	}
	cfg.LandTokenID = tokenID

	return cfg, nil
}

var requiredVars = []string{
	"BUYER_ADDRESS",
	"BUYER_PRIVATE_KEY",
	"SELLER_ADDRESS",
	"SELLER_PRIVATE_KEY",
	"LAND_TOKEN_ID",
	"API_URL",
	"TOKEN_URL",
	"ALGOD_TOKEN",
	"ALGOD_ADDRESS",
}

func missingVars() []string {
	var missing []string
	for _, name := range requiredVars {
		if os.Getenv(name) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

func envDefault(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func envIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.Atoi(v)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
