package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gridironlabs/nfl-stats/internal/platform/logging"
)

// Config stores runtime configuration for the loader and the API.
type Config struct {
	AppEnv                        string
	ServiceName                   string
	ServiceVersion                string
	HTTPAddr                      string
	DBPath                        string
	Seasons                       []int
	CurrentSeason                 int
	CacheEnabled                  bool
	CacheTTL                      time.Duration
	CORSAllowedOrigins            []string
	ReadTimeout                   time.Duration
	WriteTimeout                  time.Duration
	PprofEnabled                  bool
	PprofAddr                     string
	UptraceEnabled                bool
	UptraceDSN                    string
	PyroscopeEnabled              bool
	PyroscopeServerAddress        string
	PyroscopeAppName              string
	PyroscopeAuthToken            string
	PyroscopeBasicAuthUser        string
	PyroscopeBasicAuthPassword    string
	PyroscopeUploadRate           time.Duration
	NFLverseBaseURL               string
	NFLverseTeamsURL              string
	NFLverseTimeout               time.Duration
	NFLverseMaxRetries            int
	NFLverseCircuitEnabled        bool
	NFLverseCircuitFailureCount   int
	NFLverseCircuitOpenTimeout    time.Duration
	NFLverseCircuitHalfOpenMaxReq int
	RefdataEnabled                bool
	LoaderMaxWorkers              int
	LogLevel                      logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	seasons, err := parseSeasons(getEnv("NFL_SEASONS", "2022,2023,2024"))
	if err != nil {
		return Config{}, fmt.Errorf("parse NFL_SEASONS: %w", err)
	}
	if len(seasons) == 0 {
		return Config{}, fmt.Errorf("NFL_SEASONS cannot be empty")
	}

	currentSeason, err := getEnvAsInt("NFL_CURRENT_SEASON", seasons[len(seasons)-1])
	if err != nil {
		return Config{}, fmt.Errorf("parse NFL_CURRENT_SEASON: %w", err)
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	nflverseTimeout, err := time.ParseDuration(getEnv("NFLVERSE_TIMEOUT", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse NFLVERSE_TIMEOUT: %w", err)
	}
	if nflverseTimeout <= 0 {
		return Config{}, fmt.Errorf("NFLVERSE_TIMEOUT must be > 0")
	}
	nflverseMaxRetries, err := getEnvAsInt("NFLVERSE_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse NFLVERSE_MAX_RETRIES: %w", err)
	}
	if nflverseMaxRetries < 0 {
		return Config{}, fmt.Errorf("NFLVERSE_MAX_RETRIES must be >= 0")
	}
	nflverseCircuitEnabled, err := strconv.ParseBool(getEnv("NFLVERSE_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse NFLVERSE_CIRCUIT_ENABLED: %w", err)
	}
	nflverseCircuitFailureCount, err := getEnvAsInt("NFLVERSE_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse NFLVERSE_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if nflverseCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("NFLVERSE_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	nflverseCircuitOpenTimeout, err := time.ParseDuration(getEnv("NFLVERSE_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse NFLVERSE_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if nflverseCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("NFLVERSE_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	nflverseCircuitHalfOpenMaxReq, err := getEnvAsInt("NFLVERSE_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse NFLVERSE_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if nflverseCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("NFLVERSE_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	refdataEnabled, err := strconv.ParseBool(getEnv("REFDATA_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse REFDATA_ENABLED: %w", err)
	}

	loaderMaxWorkers, err := getEnvAsInt("LOADER_MAX_WORKERS", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse LOADER_MAX_WORKERS: %w", err)
	}
	if loaderMaxWorkers < 1 {
		return Config{}, fmt.Errorf("LOADER_MAX_WORKERS must be >= 1")
	}

	cfg := Config{
		AppEnv:                        appEnv,
		ServiceName:                   getEnv("APP_SERVICE_NAME", "nfl-stats-api"),
		ServiceVersion:                getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                      getEnv("APP_HTTP_ADDR", ":8080"),
		DBPath:                        getEnv("NFL_DB_PATH", "nfl.db"),
		Seasons:                       seasons,
		CurrentSeason:                 currentSeason,
		CacheEnabled:                  cacheEnabled,
		CacheTTL:                      cacheTTL,
		CORSAllowedOrigins:            splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")),
		ReadTimeout:                   readTimeout,
		WriteTimeout:                  writeTimeout,
		PprofEnabled:                  pprofEnabled,
		PprofAddr:                     pprofAddr,
		UptraceEnabled:                uptraceEnabled,
		UptraceDSN:                    uptraceDSN,
		PyroscopeEnabled:              pyroscopeEnabled,
		PyroscopeServerAddress:        pyroscopeServerAddress,
		PyroscopeAuthToken:            strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:        strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword:    strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:           pyroscopeUploadRate,
		NFLverseBaseURL:               strings.TrimSpace(getEnv("NFLVERSE_BASE_URL", "https://github.com/nflverse/nflverse-data/releases/download")),
		NFLverseTeamsURL:              strings.TrimSpace(getEnv("NFLVERSE_TEAMS_URL", "https://raw.githubusercontent.com/nflverse/nflverse-pbp/master/teams_colors_logos.csv")),
		NFLverseTimeout:               nflverseTimeout,
		NFLverseMaxRetries:            nflverseMaxRetries,
		NFLverseCircuitEnabled:        nflverseCircuitEnabled,
		NFLverseCircuitFailureCount:   nflverseCircuitFailureCount,
		NFLverseCircuitOpenTimeout:    nflverseCircuitOpenTimeout,
		NFLverseCircuitHalfOpenMaxReq: nflverseCircuitHalfOpenMaxReq,
		RefdataEnabled:                refdataEnabled,
		LoaderMaxWorkers:              loaderMaxWorkers,
		LogLevel:                      parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return Config{}, fmt.Errorf("NFL_DB_PATH cannot be empty")
	}

	return cfg, nil
}

func parseSeasons(raw string) ([]int, error) {
	parts := strings.Split(raw, ",")
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		season, err := strconv.Atoi(item)
		if err != nil {
			return nil, fmt.Errorf("invalid season %q: %w", item, err)
		}
		out = append(out, season)
	}

	return out, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
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
