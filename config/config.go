package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting. It is built once in main and handed to
// the components that need it; nothing reads the environment after startup.
type Config struct {
	Port          string
	MongoURI      string
	MongoDB       string
	RedisAddr     string
	RedisPassword string

	JWTSecret     []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	VoucherSecret []byte

	TourPicDir string

	// EnforceOrderOwner gates ownership checks on order reads and mutations.
	// The cart always enforces ownership regardless of this flag.
	EnforceOrderOwner bool
}

// Load reads .env (if present) plus the process environment and validates the
// result. Missing required settings are a startup failure, not a runtime one.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	cfg := &Config{
		Port:              getEnv("PORT", ":8080"),
		MongoURI:          getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDB:           getEnv("MONGODB_DB", "tourdb"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		JWTSecret:         []byte(os.Getenv("JWT_SECRET")),
		VoucherSecret:     []byte(getEnv("VOUCHER_SECRET", os.Getenv("JWT_SECRET"))),
		AccessTTL:         getDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTTL:        getDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		TourPicDir:        getEnv("TOUR_PIC_DIR", "./static/tourpic"),
		EnforceOrderOwner: getBool("ENFORCE_ORDER_OWNER", true),
	}

	if cfg.Port[0] != ':' {
		cfg.Port = ":" + cfg.Port
	}
	if len(cfg.JWTSecret) == 0 {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGODB_URI is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("invalid %s=%q, using %v", key, v, fallback)
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("invalid %s=%q, using %v", key, v, fallback)
		return fallback
	}
	return d
}
