package config

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// It is composed of smaller structs that represent different concerns of the system:
// server settings, Postgres connection details, market-data provider credentials,
// and the enrichment pipeline tuning knobs.
//
// Example YAML/ENV equivalent:
//
//	SERVER_PORT=8080
//	POSTGRES_HOST=localhost
//	POSTGRES_PORT=5432
//	POSTGRES_USER=admin
//	POSTGRES_PASSWORD=secret
//	POSTGRES_DB=stockpulse
//	POSTGRES_SSLMODE=disable
//	FINNHUB_API_KEY=xxx
//	FMP_KEY=yyy
//	TWELVEDATA_API_KEY=zzz
type Config struct {
	Server    ServerConfig   // HTTP server configuration
	Postgres  PostgresConfig // PostgreSQL connection settings
	Providers ProviderConfig // Market-data provider credentials and endpoints
	Enrich    EnrichConfig   // Quote enrichment pipeline tuning
}

// ServerConfig holds HTTP server settings such as the port to listen on.
type ServerConfig struct {
	Port string // The TCP port the HTTP server will listen on (e.g., "8080")
}

// PostgresConfig defines connection details for PostgreSQL.
//
// Fields:
//   - Host: hostname of the database server.
//   - Port: port number of the database server (default 5432).
//   - User: username for authentication.
//   - Password: password for authentication.
//   - DBName: target database name.
//   - SSLMode: SSL mode (e.g., "disable", "require").
//   - URL: computed DSN used by database/sql to connect.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string
}

// ProviderConfig holds API keys and base URLs for the external quote providers.
//
// Keys are optional: an adapter without a key is never consulted and the
// enrichment pipeline degrades to the remaining providers. Base URLs are
// overridable so tests can point adapters at local httptest servers.
type ProviderConfig struct {
	FinnhubKey    string
	FMPKey        string
	TwelveDataKey string

	YahooBaseURL      string
	TwelveDataBaseURL string
	FinnhubBaseURL    string
	FMPBaseURL        string
}

// EnrichConfig tunes the enrichment pipeline: batch sizes, worker pool width,
// the per-minute call budget for the rate-limited provider, and the cache
// freshness windows.
//
// Two distinct freshness windows exist because a cached row can be fresh
// enough for slow-changing fundamentals (market cap, float) while already
// stale for price-sensitive fields.
type EnrichConfig struct {
	BatchSize             int           // symbols per batch-provider round trip
	Concurrency           int           // worker pool width for the single-symbol provider
	CallsPerMinute        int           // sliding-window budget (safety buffer under the provider quota)
	RealtimeFreshness     time.Duration // max cache age for price-sensitive fields
	FundamentalsFreshness time.Duration // max cache age for market cap / float
	DeltaTopN             int           // symbol budget for delta updates
	MaxSymbols            int           // default screener candidate sample size
	UpsertChunkSize       int           // rows per store round trip on persistence
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and used throughout the application.
// All services should import this package and read from AppConfig instead of
// reloading environment variables directly.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Behavior:
//   - Sets defaults for all required fields.
//   - Reads environment variables automatically with viper.AutomaticEnv().
//   - Constructs the PostgreSQL connection string (DSN).
//   - Calls validateConfig() to ensure required fields are present.
//
// Fatal exit:
//   - If required variables are missing, validateConfig() will terminate the app
//     with a descriptive log message.
func LoadConfig() {
	// Default values
	viper.SetDefault("SERVER_PORT", "8080")

	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "stockpulse")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")

	viper.SetDefault("YAHOO_BASE_URL", "https://query1.finance.yahoo.com")
	viper.SetDefault("TWELVEDATA_BASE_URL", "https://api.twelvedata.com")
	viper.SetDefault("FINNHUB_BASE_URL", "https://finnhub.io/api/v1")
	viper.SetDefault("FMP_BASE_URL", "https://financialmodelingprep.com/api/v3")

	viper.SetDefault("ENRICH_BATCH_SIZE", 100)
	viper.SetDefault("ENRICH_CONCURRENCY", 3)
	viper.SetDefault("ENRICH_CALLS_PER_MINUTE", 55) // provider quota is 60/min; keep a buffer
	viper.SetDefault("ENRICH_REALTIME_FRESHNESS", "5m")
	viper.SetDefault("ENRICH_FUNDAMENTALS_FRESHNESS", "24h")
	viper.SetDefault("ENRICH_DELTA_TOP_N", 500)
	viper.SetDefault("ENRICH_MAX_SYMBOLS", 100)
	viper.SetDefault("ENRICH_UPSERT_CHUNK_SIZE", 100)

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	// Read environment variables automatically
	viper.AutomaticEnv()

	// Populate global config instance
	AppConfig = Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetInt("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			DBName:   viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		},
		Providers: ProviderConfig{
			FinnhubKey:        viper.GetString("FINNHUB_API_KEY"),
			FMPKey:            viper.GetString("FMP_KEY"),
			TwelveDataKey:     viper.GetString("TWELVEDATA_API_KEY"),
			YahooBaseURL:      viper.GetString("YAHOO_BASE_URL"),
			TwelveDataBaseURL: viper.GetString("TWELVEDATA_BASE_URL"),
			FinnhubBaseURL:    viper.GetString("FINNHUB_BASE_URL"),
			FMPBaseURL:        viper.GetString("FMP_BASE_URL"),
		},
		Enrich: EnrichConfig{
			BatchSize:             viper.GetInt("ENRICH_BATCH_SIZE"),
			Concurrency:           viper.GetInt("ENRICH_CONCURRENCY"),
			CallsPerMinute:        viper.GetInt("ENRICH_CALLS_PER_MINUTE"),
			RealtimeFreshness:     viper.GetDuration("ENRICH_REALTIME_FRESHNESS"),
			FundamentalsFreshness: viper.GetDuration("ENRICH_FUNDAMENTALS_FRESHNESS"),
			DeltaTopN:             viper.GetInt("ENRICH_DELTA_TOP_N"),
			MaxSymbols:            viper.GetInt("ENRICH_MAX_SYMBOLS"),
			UpsertChunkSize:       viper.GetInt("ENRICH_UPSERT_CHUNK_SIZE"),
		},
	}

	// Construct Postgres DSN (used by database/sql)
	AppConfig.Postgres.URL = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		AppConfig.Postgres.User,
		AppConfig.Postgres.Password,
		AppConfig.Postgres.Host,
		AppConfig.Postgres.Port,
		AppConfig.Postgres.DBName,
		AppConfig.Postgres.SSLMode,
	)

	// Validate critical fields
	validateConfig()
}

// validateConfig ensures required variables are present and terminates
// the application if they are missing.
//
// Provider API keys are intentionally not required: adapters without a key
// are skipped at runtime and the pipeline falls through to the next provider.
func validateConfig() {
	var missing []string

	if AppConfig.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if AppConfig.Postgres.Host == "" {
		missing = append(missing, "POSTGRES_HOST")
	}
	if AppConfig.Postgres.Port == 0 {
		missing = append(missing, "POSTGRES_PORT")
	}
	if AppConfig.Postgres.User == "" {
		missing = append(missing, "POSTGRES_USER")
	}
	if AppConfig.Postgres.Password == "" {
		missing = append(missing, "POSTGRES_PASSWORD")
	}
	if AppConfig.Postgres.DBName == "" {
		missing = append(missing, "POSTGRES_DB")
	}

	if len(missing) > 0 {
		log.Fatalf("missing required environment variables: %v\n", missing)
	}
}
