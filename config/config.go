package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Snapshot source: a saved page, or a live search URL.
	InputHTML string
	SearchURL string
	BaseURL   string
	RulesFile string

	OutputName        string
	OutputDir         string
	XLSXOutput        bool
	JSONOutput        string
	ExportConcurrency int

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	SQLitePath string

	ChromeBin      string
	Headless       bool
	CaptureTimeout time.Duration
	MaxRetries     int

	LogLevel string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}
	return fromEnv()
}

// LoadFile reads the given env file on top of what Load already applied.
// Variables already set, including those from ./.env, win.
func LoadFile(path string) (*Config, error) {
	if err := godotenv.Load(path); err != nil {
		return nil, err
	}
	return fromEnv(), nil
}

func fromEnv() *Config {
	return &Config{
		InputHTML: getEnv("INPUT_HTML", ""),
		SearchURL: getEnv("SEARCH_URL", ""),
		BaseURL:   getEnv("BASE_URL", ""),
		RulesFile: getEnv("RULES_FILE", ""),

		OutputName:        getEnv("OUTPUT_NAME", ""),
		OutputDir:         getEnv("OUTPUT_DIR", "./output"),
		XLSXOutput:        getEnvBool("XLSX_OUTPUT", false),
		JSONOutput:        getEnv("JSON_OUTPUT", ""),
		ExportConcurrency: getEnvInt("EXPORT_CONCURRENCY", 3),

		PostgresHost:     getEnv("POSTGRES_HOST", ""),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "scraper"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "scraper123"),
		PostgresDB:       getEnv("POSTGRES_DB", "gmaps"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		SQLitePath: getEnv("SQLITE_PATH", ""),

		ChromeBin:      getEnv("CHROME_BIN", ""),
		Headless:       getEnvBool("HEADLESS", true),
		CaptureTimeout: time.Duration(getEnvInt("CAPTURE_TIMEOUT_SEC", 60)) * time.Second,
		MaxRetries:     getEnvInt("MAX_RETRIES", 3),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// PostgresEnabled reports whether exports should also go to PostgreSQL.
func (c *Config) PostgresEnabled() bool {
	return strings.TrimSpace(c.PostgresHost) != ""
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

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
