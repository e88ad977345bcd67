// Package config provides application configuration with multi-source
// priority.
//
// Sources (highest to lowest):
//  1. Environment variables (runtime override)
//  2. Config file (~/.docquery/config.yaml, or ./config.yaml)
//  3. Defaults
//
// Categories:
//   - Model: completion model, embedder model, temperature
//   - Retrieval: match function name, top-k bounds, similarity threshold
//   - History: turn count and per-turn length bounds for the prompt
//   - Storage: PostgreSQL connection (pgvector corpus)
//   - Server: listen address, CORS, proxy trust, rate limiting
//   - Observability: OTLP trace exporter
//
// Sensitive values (the database password) are masked in String() and
// MarshalJSON. Validation is fail-fast with sentinel errors so callers can
// use errors.Is.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrMissingAPIKey indicates GEMINI_API_KEY is not set.
	ErrMissingAPIKey = errors.New("missing API key")

	// ErrInvalidModelName indicates an empty or malformed model name.
	ErrInvalidModelName = errors.New("invalid model name")

	// ErrInvalidTemperature indicates the temperature is out of range.
	ErrInvalidTemperature = errors.New("invalid temperature")

	// ErrInvalidTopK indicates top-k bounds are out of range or inverted.
	ErrInvalidTopK = errors.New("invalid top-k bounds")

	// ErrInvalidThreshold indicates the similarity threshold is out of range.
	ErrInvalidThreshold = errors.New("invalid similarity threshold")

	// ErrInvalidRPCName indicates the match function name is empty.
	ErrInvalidRPCName = errors.New("invalid match function name")

	// ErrInvalidPostgres indicates the PostgreSQL settings are unusable.
	ErrInvalidPostgres = errors.New("invalid PostgreSQL configuration")
)

// Defaults for the answer pipeline. The retrieval defaults mirror the chat
// widget surface: 20 passages by default, never more than 60.
const (
	DefaultModelName     = "gemini-2.5-flash"
	DefaultEmbedderModel = "text-embedding-004"
	DefaultTemperature   = 0.1
	DefaultRPCName       = "match_documents"
	DefaultTopK          = 20
	DefaultMaxTopK       = 60
	DefaultMaxHistory    = 12
	DefaultMaxTurnLen    = 2000
)

// Config stores application configuration.
// SECURITY: sensitive fields are masked in MarshalJSON; update it when
// adding new secrets.
type Config struct {
	// Model configuration
	ModelName     string  `mapstructure:"model_name" json:"model_name"`
	EmbedderModel string  `mapstructure:"embedder_model" json:"embedder_model"`
	Temperature   float32 `mapstructure:"temperature" json:"temperature"`

	// Retrieval configuration
	RPCName   string  `mapstructure:"rpc_name" json:"rpc_name"`
	TopK      int     `mapstructure:"top_k" json:"top_k"`
	MaxTopK   int     `mapstructure:"max_top_k" json:"max_top_k"`
	Threshold float64 `mapstructure:"threshold" json:"threshold"` // 0 = disabled

	// History bounds
	MaxHistoryTurns int `mapstructure:"max_history_turns" json:"max_history_turns"`
	MaxTurnLength   int `mapstructure:"max_turn_length" json:"max_turn_length"`

	// Storage configuration
	PostgresHost     string `mapstructure:"postgres_host" json:"postgres_host"`
	PostgresPort     int    `mapstructure:"postgres_port" json:"postgres_port"`
	PostgresUser     string `mapstructure:"postgres_user" json:"postgres_user"`
	PostgresPassword string `mapstructure:"postgres_password" json:"postgres_password"` // SENSITIVE: masked
	PostgresDBName   string `mapstructure:"postgres_db_name" json:"postgres_db_name"`
	PostgresSSLMode  string `mapstructure:"postgres_ssl_mode" json:"postgres_ssl_mode"`

	// Server configuration
	ListenAddr  string   `mapstructure:"listen_addr" json:"listen_addr"`
	CORSOrigins []string `mapstructure:"cors_origins" json:"cors_origins"`
	TrustProxy  bool     `mapstructure:"trust_proxy" json:"trust_proxy"`
	RateBurst   int      `mapstructure:"rate_burst" json:"rate_burst"`

	// Observability configuration
	OTLPEndpoint string `mapstructure:"otlp_endpoint" json:"otlp_endpoint"` // empty = tracing disabled
	ServiceName  string `mapstructure:"service_name" json:"service_name"`
	Environment  string `mapstructure:"environment" json:"environment"`
}

// Load loads configuration with priority env > file > defaults.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}
	configDir := filepath.Join(home, ".docquery")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.AddConfigPath(".")

	setDefaults()
	bindEnvVariables()

	if err := viper.ReadInConfig(); err != nil {
		// A missing file is fine; defaults apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using defaults",
			"search_paths", []string{configDir, "."})
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	// DATABASE_URL, when set, overrides the individual postgres keys.
	if err := cfg.applyDatabaseURL(os.Getenv("DATABASE_URL")); err != nil {
		return nil, fmt.Errorf("parsing DATABASE_URL: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("model_name", DefaultModelName)
	viper.SetDefault("embedder_model", DefaultEmbedderModel)
	viper.SetDefault("temperature", DefaultTemperature)

	viper.SetDefault("rpc_name", DefaultRPCName)
	viper.SetDefault("top_k", DefaultTopK)
	viper.SetDefault("max_top_k", DefaultMaxTopK)
	viper.SetDefault("threshold", 0.0)

	viper.SetDefault("max_history_turns", DefaultMaxHistory)
	viper.SetDefault("max_turn_length", DefaultMaxTurnLen)

	viper.SetDefault("postgres_host", "localhost")
	viper.SetDefault("postgres_port", 5432)
	viper.SetDefault("postgres_user", "docquery")
	viper.SetDefault("postgres_password", "docquery_dev_password")
	viper.SetDefault("postgres_db_name", "docquery")
	viper.SetDefault("postgres_ssl_mode", "disable")

	viper.SetDefault("listen_addr", ":8080")
	viper.SetDefault("cors_origins", []string{"http://localhost:5173"})
	viper.SetDefault("trust_proxy", false)
	viper.SetDefault("rate_burst", 60)

	viper.SetDefault("service_name", "docquery")
	viper.SetDefault("environment", "dev")
}

// bindEnvVariables binds runtime overrides explicitly. GEMINI_API_KEY is
// read directly by Genkit, not via viper; Validate only checks its presence.
func bindEnvVariables() {
	mustBind := func(key, envVar string) {
		if err := viper.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("model_name", "DOCQUERY_MODEL_NAME")
	mustBind("embedder_model", "DOCQUERY_EMBEDDER_MODEL")
	mustBind("rpc_name", "DOCQUERY_RPC_NAME")
	mustBind("threshold", "DOCQUERY_THRESHOLD")
	mustBind("listen_addr", "DOCQUERY_LISTEN_ADDR")
	mustBind("cors_origins", "DOCQUERY_CORS_ORIGINS")
	mustBind("trust_proxy", "DOCQUERY_TRUST_PROXY")
	mustBind("otlp_endpoint", "DOCQUERY_OTLP_ENDPOINT")
}

// applyDatabaseURL overrides the postgres fields from a postgres:// URL.
// An empty input is a no-op.
func (c *Config) applyDatabaseURL(raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("malformed URL: %w", err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	c.PostgresHost = u.Hostname()
	if port := u.Port(); port != "" {
		p, convErr := strconv.Atoi(port)
		if convErr != nil {
			return fmt.Errorf("malformed port %q", port)
		}
		c.PostgresPort = p
	}
	if u.User != nil {
		c.PostgresUser = u.User.Username()
		if pw, ok := u.User.Password(); ok {
			c.PostgresPassword = pw
		}
	}
	if db := filepath.Base(u.Path); db != "." && db != "/" {
		c.PostgresDBName = db
	}
	if ssl := u.Query().Get("sslmode"); ssl != "" {
		c.PostgresSSLMode = ssl
	}
	return nil
}

// ConnURL renders the postgres:// connection URL for pgx and migrations.
func (c *Config) ConnURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.PostgresUser, c.PostgresPassword),
		Host:     fmt.Sprintf("%s:%d", c.PostgresHost, c.PostgresPort),
		Path:     "/" + c.PostgresDBName,
		RawQuery: "sslmode=" + c.PostgresSSLMode,
	}
	return u.String()
}

// maskedValue replaces secrets in rendered output. Full-width blocks avoid
// accidental substring matches against real secret content.
const maskedValue = "████████"

func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return maskedValue
	}
	return s[:2] + "<" + maskedValue + ">" + s[len(s)-2:]
}

// MarshalJSON masks sensitive fields.
func (c Config) MarshalJSON() ([]byte, error) {
	type alias Config
	a := alias(c)
	a.PostgresPassword = maskSecret(a.PostgresPassword)
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

// String implements Stringer so accidental printing never leaks secrets.
func (c Config) String() string {
	data, err := c.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("Config{error: %v}", err)
	}
	return string(data)
}
