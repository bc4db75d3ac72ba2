package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBSSLMode  string
	DBTimeZone string

	AutoMigrate bool
	LogLevel    string

	// AllowCancelPaid permits Paid -> Cancelled. Institutions differ on
	// whether a disbursed payroll may be reversed.
	AllowCancelPaid    bool
	BulkApproveWorkers int
	StoreTimeout       time.Duration
	UpdateRetries      int

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	StatsCacheTTL time.Duration
}

// LoadConfig loads environment variables from .env file.
func LoadConfig() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: Could not load .env file. Using environment variables.")
	}
}

// Load reads .env (when present) and builds a Config from the environment.
func Load() *Config {
	LoadConfig()
	return FromEnv()
}

// FromEnv builds a Config from the current environment without touching .env.
func FromEnv() *Config {
	return &Config{
		Port:               getEnvOrDefault("PORT", "8080"),
		DBHost:             getEnvOrDefault("DB_HOST", "localhost"),
		DBUser:             os.Getenv("DB_USER"),
		DBPassword:         os.Getenv("DB_PASSWORD"),
		DBName:             os.Getenv("DB_NAME"),
		DBPort:             getEnvOrDefault("DB_PORT", "5432"),
		DBSSLMode:          getEnvOrDefault("DB_SSLMODE", "disable"),
		DBTimeZone:         getEnvOrDefault("DB_TIMEZONE", "UTC"),
		AutoMigrate:        parseBool(os.Getenv("AUTO_MIGRATE"), true),
		LogLevel:           getEnvOrDefault("LOG_LEVEL", "info"),
		AllowCancelPaid:    parseBool(os.Getenv("PAYROLL_ALLOW_CANCEL_PAID"), false),
		BulkApproveWorkers: parseInt(os.Getenv("PAYROLL_BULK_WORKERS"), 4),
		StoreTimeout:       parseDuration(os.Getenv("PAYROLL_STORE_TIMEOUT"), 5*time.Second),
		UpdateRetries:      parseInt(os.Getenv("PAYROLL_UPDATE_RETRIES"), 3),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:            parseInt(os.Getenv("REDIS_DB"), 0),
		StatsCacheTTL:      parseDuration(os.Getenv("PAYROLL_STATS_CACHE_TTL"), 30*time.Second),
	}
}

func getEnvOrDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func parseBool(v string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func parseInt(v string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return n
}

func parseDuration(v string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil || d <= 0 {
		return def
	}
	return d
}
