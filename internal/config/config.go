// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes application settings
// such as server timeouts, logging, database paths, rate limiting, messaging
// limits, notification storage, background jobs and observability.
//
// An optional YAML file named by CONFIG_FILE supplies values for the same keys
// (e.g. `RATE_RPS: 10`). Environment variables always win over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/adhocore/gronx"
	"gopkg.in/yaml.v3"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "go-social-backend")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// MongoConfig points the notification store at a MongoDB deployment.
type MongoConfig struct {
	URI      string // MONGODB_URI
	Database string // MONGODB_DATABASE
}

// AuthConfig enables bearer-token authentication when Secret is set.
type AuthConfig struct {
	JWTSecret string // JWT_SECRET (empty: X-User-ID header identity)
	JWTIssuer string // JWT_ISSUER (optional iss check)
}

// Notification store backends.
const (
	StoreSQL   = "sql"
	StoreMongo = "mongo"
)

// Access log styles.
const (
	AccessLogRedacted = "redacted"
	AccessLogPlain    = "plain"
)

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route
	APIBasePath    string // base path for API routes
	AccessLog      string // redacted|plain
	ConfigFile     string // CONFIG_FILE the values were overlaid from

	// App
	DBPath          string // SQLite path
	MessageMaxRunes int    // direct message length cap
	TweetMaxRunes   int    // tweet length cap
	StreamBuffer    int    // per-subscriber realtime buffer

	// Notifications
	NotificationStore       string        // sql|mongo
	NotificationDedupWindow time.Duration // identical events inside the window are suppressed
	NotificationRetention   time.Duration // read notifications older than this are purged
	Mongo                   MongoConfig

	// Background jobs
	RecountEnabled bool
	RecountCron    string // five-field cron expression

	// Auth
	Auth AuthConfig

	// Rate limiting
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Idempotency
	IdempotencyTTL time.Duration // how long a given Idempotency-Key is valid

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	path := strings.TrimSpace(os.Getenv("CONFIG_FILE"))
	ov, err := readOverlay(path)
	if err != nil {
		return Config{}, err
	}
	overlay = ov

	cfg := Config{
		// Server
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/api/v1")),
		AccessLog:      strings.ToLower(getenv("ACCESS_LOG", AccessLogRedacted)),
		ConfigFile:     path,

		// App
		DBPath:          getenv("DB_PATH", "app.db"),
		MessageMaxRunes: getint("MESSAGE_MAX_RUNES", 1000),
		TweetMaxRunes:   getint("TWEET_MAX_RUNES", 280),
		StreamBuffer:    getint("STREAM_BUFFER", 64),

		// Notifications
		NotificationStore:       strings.ToLower(getenv("NOTIFICATION_STORE", StoreSQL)),
		NotificationDedupWindow: getdur("NOTIFICATION_DEDUP_WINDOW", 24*time.Hour),
		NotificationRetention:   getdur("NOTIFICATION_RETENTION", 90*24*time.Hour),
		Mongo: MongoConfig{
			URI:      getenv("MONGODB_URI", ""),
			Database: getenv("MONGODB_DATABASE", "social"),
		},

		// Background jobs
		RecountEnabled: getbool("RECOUNT_ENABLED", true),
		RecountCron:    getenv("RECOUNT_CRON", "*/15 * * * *"),

		// Auth
		Auth: AuthConfig{
			JWTSecret: getenv("JWT_SECRET", ""),
			JWTIssuer: getenv("JWT_ISSUER", ""),
		},

		// Rate limiting
		RateRPS:   getfloat("RATE_RPS", 5.0),
		RateBurst: getint("RATE_BURST", 10),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Idempotency
		IdempotencyTTL: getdur("IDEMPOTENCY_TTL", 24*time.Hour),

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "go-social-backend"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return cfg, errors.New("DB_PATH must not be empty")
	}
	switch cfg.AccessLog {
	case AccessLogRedacted, AccessLogPlain:
	default:
		return cfg, errors.New("ACCESS_LOG must be one of: redacted, plain")
	}
	if cfg.MessageMaxRunes <= 0 || cfg.TweetMaxRunes <= 0 {
		return cfg, errors.New("MESSAGE_MAX_RUNES and TWEET_MAX_RUNES must be > 0")
	}
	if cfg.StreamBuffer <= 0 {
		return cfg, errors.New("STREAM_BUFFER must be > 0")
	}
	switch cfg.NotificationStore {
	case StoreSQL:
	case StoreMongo:
		if strings.TrimSpace(cfg.Mongo.URI) == "" {
			return cfg, errors.New("MONGODB_URI is required when NOTIFICATION_STORE=mongo")
		}
		if strings.TrimSpace(cfg.Mongo.Database) == "" {
			return cfg, errors.New("MONGODB_DATABASE must not be empty")
		}
	default:
		return cfg, errors.New("NOTIFICATION_STORE must be one of: sql, mongo")
	}
	if cfg.NotificationDedupWindow < 0 {
		return cfg, errors.New("NOTIFICATION_DEDUP_WINDOW must be >= 0")
	}
	if cfg.NotificationRetention <= 0 {
		return cfg, errors.New("NOTIFICATION_RETENTION must be > 0")
	}
	if cfg.RecountEnabled && !gronx.New().IsValid(cfg.RecountCron) {
		return cfg, fmt.Errorf("RECOUNT_CRON %q is not a valid cron expression", cfg.RecountCron)
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.IdempotencyTTL <= 0 {
		return cfg, errors.New("IDEMPOTENCY_TTL must be > 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}
	// if cfg.APIBasePath == "" || cfg.APIBasePath[0] != '/' {
	// 	return cfg, errors.New("API_BASE_PATH must start with '/'")
	// }

	return cfg, nil
}

// ---- helpers ----

// overlay holds values read from CONFIG_FILE for the current Load.
var overlay map[string]string

// readOverlay parses a flat YAML mapping of configuration keys. An empty path
// yields no overlay.
func readOverlay(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read CONFIG_FILE: %w", err)
	}
	raw := map[string]any{}
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("parse CONFIG_FILE %s: %w", path, err)
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if v == nil {
			continue
		}
		switch t := v.(type) {
		case []any:
			parts := make([]string, 0, len(t))
			for _, p := range t {
				parts = append(parts, fmt.Sprint(p))
			}
			out[strings.ToUpper(k)] = strings.Join(parts, ",")
		default:
			out[strings.ToUpper(k)] = fmt.Sprint(t)
		}
	}
	return out, nil
}

// lookup returns the environment value for k, then the overlay value.
func lookup(k string) (string, bool) {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v, true
	}
	if v, ok := overlay[k]; ok && v != "" {
		return v, true
	}
	return "", false
}

func getenv(k, def string) string {
	if v, ok := lookup(k); ok {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := lookup(k); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := lookup(k); ok {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := lookup(k); ok {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := lookup(k); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
