package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported values for Config.DataSource.
const (
	SourceStatic   = "static"
	SourceSheet    = "sheet"
	SourcePostgres = "postgres"
)

// Supported values for Config.FeedFetcher.
const (
	FetcherHTTP    = "http"
	FetcherBrowser = "browser"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	DataSource   string
	FeedURL      string
	FeedFetcher  string
	FetchTimeout time.Duration
	StaticPath   string
	ChromeBin    string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
	MaxRetries       int

	ListenAddr    string
	LogLevel      string
	CSVOutputPath string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		DataSource:   strings.ToLower(getEnv("DATA_SOURCE", SourceStatic)),
		FeedURL:      getEnv("FEED_URL", ""),
		FeedFetcher:  strings.ToLower(getEnv("FEED_FETCHER", FetcherHTTP)),
		FetchTimeout: time.Duration(getEnvInt("FETCH_TIMEOUT_SEC", 30)) * time.Second,
		StaticPath:   getEnv("STATIC_PATH", ""),
		ChromeBin:    getEnv("CHROME_BIN", ""),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "rentals"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "rentals123"),
		PostgresDB:       getEnv("POSTGRES_DB", "rental_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		MaxRetries:       getEnvInt("MAX_RETRIES", 5),

		ListenAddr:    getEnv("LISTEN_ADDR", ":8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		CSVOutputPath: getEnv("CSV_OUTPUT_PATH", "./output/listings.csv"),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// MigrateURL returns the postgres:// URL form of the connection, as golang-migrate expects it.
func (c *Config) MigrateURL() string {
	return "postgres://" + c.PostgresUser + ":" + c.PostgresPassword +
		"@" + c.PostgresHost + ":" + c.PostgresPort +
		"/" + c.PostgresDB + "?sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}
