package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/riskibarqy/cricket-fantasy/internal/platform/logging"
)

const (
	FixtureCachePolicyFixed  = "fixed"
	FixtureCachePolicyStatus = "status"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                          string
	ServiceName                     string
	ServiceVersion                  string
	HTTPAddr                        string
	DBURL                           string
	DBDisablePreparedBinary         bool
	CacheEnabled                    bool
	CacheTTL                        time.Duration
	CORSAllowedOrigins              []string
	ReadTimeout                     time.Duration
	WriteTimeout                    time.Duration
	ShutdownTimeout                 time.Duration
	PprofEnabled                    bool
	PprofAddr                       string
	MetricsEnabled                  bool
	AuthJWTSecret                   string
	AuthJWTIssuer                   string
	UptraceEnabled                  bool
	UptraceDSN                      string
	PyroscopeEnabled                bool
	PyroscopeServerAddress          string
	PyroscopeAppName                string
	PyroscopeAuthToken              string
	PyroscopeBasicAuthUser          string
	PyroscopeBasicAuthPassword      string
	PyroscopeUploadRate             time.Duration
	SportMonksEnabled               bool
	SportMonksBaseURL               string
	SportMonksToken                 string
	SportMonksLeagueID              int64
	SportMonksTimeout               time.Duration
	SportMonksMaxRetries            int
	SportMonksCircuitEnabled        bool
	SportMonksCircuitFailureCount   int
	SportMonksCircuitOpenTimeout    time.Duration
	SportMonksCircuitHalfOpenMaxReq int
	FixtureCachePolicy              string
	FixtureCacheTTL                 time.Duration
	FixtureDaysBefore               int
	FixtureDaysAfter                int
	SquadCacheTTL                   time.Duration
	LeaderboardFetchWorkers         int
	LeaderboardWriteConcurrency     int
	LeaderboardIncludeZeroRows      bool
	InternalJobToken                string
	QStashEnabled                   bool
	QStashBaseURL                   string
	QStashToken                     string
	QStashTargetBaseURL             string
	QStashRetries                   int
	QStashTimeout                   time.Duration
	QStashCircuitEnabled            bool
	QStashCircuitFailureCount       int
	QStashCircuitOpenTimeout        time.Duration
	QStashCircuitHalfOpenMaxReq     int
	LogLevel                        logging.Level
	LogFormat                       string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first without overriding variables that are already set.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        getEnv("APP_SERVICE_NAME", "cricket-fantasy-api"),
		ServiceVersion:     getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("APP_HTTP_ADDR", ":8080"),
		DBURL:              strings.TrimSpace(getEnv("DB_URL", "")),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:           logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
		LogFormat:          strings.ToLower(strings.TrimSpace(getEnv("APP_LOG_FORMAT", logging.FormatJSON))),
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	if cfg.LogFormat != logging.FormatJSON && cfg.LogFormat != logging.FormatConsole {
		return Config{}, fmt.Errorf("invalid APP_LOG_FORMAT %q: valid values are %s, %s", cfg.LogFormat, logging.FormatJSON, logging.FormatConsole)
	}

	if cfg.ReadTimeout, err = getEnvAsPositiveDuration("APP_READ_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}
	if cfg.WriteTimeout, err = getEnvAsPositiveDuration("APP_WRITE_TIMEOUT", "60s"); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownTimeout, err = getEnvAsPositiveDuration("APP_SHUTDOWN_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}
	if cfg.DBDisablePreparedBinary, err = getEnvAsBool("DB_DISABLE_PREPARED_BINARY_RESULT", true); err != nil {
		return Config{}, err
	}
	if cfg.CacheEnabled, err = getEnvAsBool("CACHE_ENABLED", true); err != nil {
		return Config{}, err
	}
	if cfg.CacheTTL, err = getEnvAsPositiveDuration("CACHE_TTL", "60s"); err != nil {
		return Config{}, err
	}

	if cfg.PprofEnabled, err = getEnvAsBool("PPROF_ENABLED", false); err != nil {
		return Config{}, err
	}
	cfg.PprofAddr = strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if cfg.PprofEnabled && cfg.PprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}
	if cfg.MetricsEnabled, err = getEnvAsBool("METRICS_ENABLED", true); err != nil {
		return Config{}, err
	}

	cfg.AuthJWTSecret = strings.TrimSpace(getEnv("AUTH_JWT_SECRET", ""))
	cfg.AuthJWTIssuer = strings.TrimSpace(getEnv("AUTH_JWT_ISSUER", ""))
	if appEnv != EnvDev && cfg.AuthJWTSecret == "" {
		return Config{}, fmt.Errorf("AUTH_JWT_SECRET is required when APP_ENV=%s", appEnv)
	}

	if cfg.UptraceEnabled, err = getEnvAsBool("UPTRACE_ENABLED", false); err != nil {
		return Config{}, err
	}
	cfg.UptraceDSN = strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	if cfg.PyroscopeEnabled, err = getEnvAsBool("PYROSCOPE_ENABLED", false); err != nil {
		return Config{}, err
	}
	cfg.PyroscopeServerAddress = strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	cfg.PyroscopeAuthToken = strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", ""))
	cfg.PyroscopeBasicAuthUser = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", ""))
	cfg.PyroscopeBasicAuthPassword = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""))
	if cfg.PyroscopeUploadRate, err = getEnvAsPositiveDuration("PYROSCOPE_UPLOAD_RATE", "15s"); err != nil {
		return Config{}, err
	}

	if err := loadSportMonks(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadFixtureCache(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadLeaderboard(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadQStash(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func loadSportMonks(cfg *Config) error {
	var err error
	if cfg.SportMonksEnabled, err = getEnvAsBool("SPORTMONKS_ENABLED", false); err != nil {
		return err
	}
	cfg.SportMonksBaseURL = strings.TrimRight(strings.TrimSpace(getEnv("SPORTMONKS_BASE_URL", "https://cricket.sportmonks.com/api/v2.0")), "/")
	cfg.SportMonksToken = strings.TrimSpace(getEnv("SPORTMONKS_TOKEN", ""))
	if cfg.SportMonksEnabled && cfg.SportMonksToken == "" {
		return fmt.Errorf("SPORTMONKS_TOKEN is required when SPORTMONKS_ENABLED=true")
	}

	leagueID, err := getEnvAsInt("SPORTMONKS_LEAGUE_ID", 0)
	if err != nil {
		return fmt.Errorf("parse SPORTMONKS_LEAGUE_ID: %w", err)
	}
	if leagueID < 0 {
		return fmt.Errorf("SPORTMONKS_LEAGUE_ID must be >= 0")
	}
	cfg.SportMonksLeagueID = int64(leagueID)

	if cfg.SportMonksTimeout, err = getEnvAsPositiveDuration("SPORTMONKS_TIMEOUT", "20s"); err != nil {
		return err
	}
	if cfg.SportMonksMaxRetries, err = getEnvAsInt("SPORTMONKS_MAX_RETRIES", 1); err != nil {
		return fmt.Errorf("parse SPORTMONKS_MAX_RETRIES: %w", err)
	}
	if cfg.SportMonksMaxRetries < 0 {
		return fmt.Errorf("SPORTMONKS_MAX_RETRIES must be >= 0")
	}

	enabled, failures, openTimeout, halfOpen, err := loadCircuit("SPORTMONKS")
	if err != nil {
		return err
	}
	cfg.SportMonksCircuitEnabled = enabled
	cfg.SportMonksCircuitFailureCount = failures
	cfg.SportMonksCircuitOpenTimeout = openTimeout
	cfg.SportMonksCircuitHalfOpenMaxReq = halfOpen
	return nil
}

func loadFixtureCache(cfg *Config) error {
	var err error
	cfg.FixtureCachePolicy = strings.ToLower(strings.TrimSpace(getEnv("FIXTURE_CACHE_POLICY", FixtureCachePolicyFixed)))
	switch cfg.FixtureCachePolicy {
	case FixtureCachePolicyFixed, FixtureCachePolicyStatus:
	default:
		return fmt.Errorf("invalid FIXTURE_CACHE_POLICY %q: valid values are %s, %s", cfg.FixtureCachePolicy, FixtureCachePolicyFixed, FixtureCachePolicyStatus)
	}
	if cfg.FixtureCacheTTL, err = getEnvAsPositiveDuration("FIXTURE_CACHE_TTL", "6m"); err != nil {
		return err
	}
	if cfg.FixtureDaysBefore, err = getEnvAsInt("FIXTURE_DAYS_BEFORE", 1); err != nil {
		return fmt.Errorf("parse FIXTURE_DAYS_BEFORE: %w", err)
	}
	if cfg.FixtureDaysAfter, err = getEnvAsInt("FIXTURE_DAYS_AFTER", 2); err != nil {
		return fmt.Errorf("parse FIXTURE_DAYS_AFTER: %w", err)
	}
	if cfg.FixtureDaysBefore < 0 || cfg.FixtureDaysAfter < 0 {
		return fmt.Errorf("FIXTURE_DAYS_BEFORE and FIXTURE_DAYS_AFTER must be >= 0")
	}
	if cfg.SquadCacheTTL, err = getEnvAsPositiveDuration("SQUAD_CACHE_TTL", "24h"); err != nil {
		return err
	}
	return nil
}

func loadLeaderboard(cfg *Config) error {
	var err error
	if cfg.LeaderboardFetchWorkers, err = getEnvAsInt("LEADERBOARD_FETCH_WORKERS", 4); err != nil {
		return fmt.Errorf("parse LEADERBOARD_FETCH_WORKERS: %w", err)
	}
	if cfg.LeaderboardFetchWorkers < 1 {
		return fmt.Errorf("LEADERBOARD_FETCH_WORKERS must be >= 1")
	}
	if cfg.LeaderboardWriteConcurrency, err = getEnvAsInt("LEADERBOARD_WRITE_CONCURRENCY", 4); err != nil {
		return fmt.Errorf("parse LEADERBOARD_WRITE_CONCURRENCY: %w", err)
	}
	if cfg.LeaderboardWriteConcurrency < 1 {
		return fmt.Errorf("LEADERBOARD_WRITE_CONCURRENCY must be >= 1")
	}
	if cfg.LeaderboardIncludeZeroRows, err = getEnvAsBool("LEADERBOARD_INCLUDE_ZERO_ROWS", true); err != nil {
		return err
	}
	return nil
}

func loadQStash(cfg *Config) error {
	var err error
	if cfg.QStashEnabled, err = getEnvAsBool("QSTASH_ENABLED", false); err != nil {
		return err
	}
	if cfg.QStashRetries, err = getEnvAsInt("QSTASH_RETRIES", 3); err != nil {
		return fmt.Errorf("parse QSTASH_RETRIES: %w", err)
	}
	if cfg.QStashRetries < 0 {
		return fmt.Errorf("QSTASH_RETRIES must be >= 0")
	}
	if cfg.QStashTimeout, err = getEnvAsPositiveDuration("QSTASH_TIMEOUT", "10s"); err != nil {
		return err
	}

	enabled, failures, openTimeout, halfOpen, err := loadCircuit("QSTASH")
	if err != nil {
		return err
	}
	cfg.QStashCircuitEnabled = enabled
	cfg.QStashCircuitFailureCount = failures
	cfg.QStashCircuitOpenTimeout = openTimeout
	cfg.QStashCircuitHalfOpenMaxReq = halfOpen

	cfg.QStashBaseURL = strings.TrimSpace(getEnv("QSTASH_BASE_URL", "https://qstash.upstash.io"))
	cfg.QStashToken = strings.TrimSpace(getEnv("QSTASH_TOKEN", ""))
	cfg.QStashTargetBaseURL = strings.TrimSpace(getEnv("QSTASH_TARGET_BASE_URL", ""))
	cfg.InternalJobToken = strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", ""))
	if cfg.QStashEnabled {
		if cfg.QStashToken == "" {
			return fmt.Errorf("QSTASH_TOKEN is required when QSTASH_ENABLED=true")
		}
		if cfg.QStashTargetBaseURL == "" {
			return fmt.Errorf("QSTASH_TARGET_BASE_URL is required when QSTASH_ENABLED=true")
		}
		if cfg.InternalJobToken == "" {
			return fmt.Errorf("INTERNAL_JOB_TOKEN is required when QSTASH_ENABLED=true")
		}
	}
	return nil
}

func loadCircuit(prefix string) (bool, int, time.Duration, int, error) {
	enabled, err := getEnvAsBool(prefix+"_CIRCUIT_ENABLED", true)
	if err != nil {
		return false, 0, 0, 0, err
	}
	failures, err := getEnvAsInt(prefix+"_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return false, 0, 0, 0, fmt.Errorf("parse %s_CIRCUIT_FAILURE_COUNT: %w", prefix, err)
	}
	if failures < 1 {
		return false, 0, 0, 0, fmt.Errorf("%s_CIRCUIT_FAILURE_COUNT must be >= 1", prefix)
	}
	openTimeout, err := getEnvAsPositiveDuration(prefix+"_CIRCUIT_OPEN_TIMEOUT", "15s")
	if err != nil {
		return false, 0, 0, 0, err
	}
	halfOpen, err := getEnvAsInt(prefix+"_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return false, 0, 0, 0, fmt.Errorf("parse %s_CIRCUIT_HALF_OPEN_MAX_REQ: %w", prefix, err)
	}
	if halfOpen < 1 {
		return false, 0, 0, 0, fmt.Errorf("%s_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1", prefix)
	}
	return enabled, failures, openTimeout, halfOpen, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsBool(key string, fallback bool) (bool, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	out, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return out, nil
}

func getEnvAsPositiveDuration(key, fallback string) (time.Duration, error) {
	out, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
