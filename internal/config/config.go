package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config centraliza a configuração carregada do ambiente.
type Config struct {
	Port            int
	APIBaseURL      string
	APITimeout      time.Duration
	RedisURL        string
	SessionTTL      time.Duration
	LogoutGrace     time.Duration
	CookieSecure    bool
	AllowOrigins    []string
	CatalogCacheTTL time.Duration
	ScopeCache      CacheConfig
	RateLimitPublic RateLimitConfig
	RateLimitAuth   RateLimitConfig
	Monitoring      MonitoringConfig
}

// RateLimitConfig representa limites simples para throttling.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// CacheConfig dimensiona caches LRU em memória.
type CacheConfig struct {
	Size int
	TTL  time.Duration
}

// MonitoringConfig controla a verificação periódica da API de eventos.
type MonitoringConfig struct {
	Enabled         bool
	Interval        time.Duration
	RequestTimeout  time.Duration
	LatencyWarning  time.Duration
	SlackWebhookURL string
}

// Load carrega variáveis de ambiente e aplica defaults seguros.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	port, err := parseIntEnv("PORT", 8080)
	if err != nil || port <= 0 {
		return nil, errors.New("PORT inválida")
	}
	cfg.Port = port

	cfg.APIBaseURL = strings.TrimRight(strings.TrimSpace(getEnv("API_BASE_URL", "")), "/")
	if cfg.APIBaseURL == "" {
		return nil, errors.New("API_BASE_URL obrigatório")
	}

	if cfg.APITimeout, err = parseDurationEnv("API_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}

	// vazio usa armazenamento de sessão em memória
	cfg.RedisURL = strings.TrimSpace(getEnv("REDIS_URL", ""))

	if cfg.SessionTTL, err = parseDurationEnv("SESSION_TTL", 2*time.Hour); err != nil {
		return nil, err
	}
	if cfg.LogoutGrace, err = parseDurationEnv("LOGOUT_GRACE", 110*time.Millisecond); err != nil {
		return nil, err
	}
	cfg.CookieSecure = parseBoolEnv("COOKIE_SECURE", false)

	allowOrigins := strings.Split(getEnv("ALLOW_ORIGINS", ""), ",")
	for _, origin := range allowOrigins {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			cfg.AllowOrigins = append(cfg.AllowOrigins, origin)
		}
	}

	if cfg.CatalogCacheTTL, err = parseDurationEnv("CATALOG_CACHE_TTL", 30*time.Second); err != nil {
		return nil, err
	}

	size, err := parseIntEnv("SCOPE_CACHE_SIZE", 256)
	if err != nil || size <= 0 {
		return nil, errors.New("SCOPE_CACHE_SIZE inválido")
	}
	cfg.ScopeCache.Size = size
	if cfg.ScopeCache.TTL, err = parseDurationEnv("SCOPE_CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}

	cfg.RateLimitPublic = RateLimitConfig{RequestsPerSecond: 10, Burst: 20}
	cfg.RateLimitAuth = RateLimitConfig{RequestsPerSecond: 10, Burst: 40}

	cfg.Monitoring.Enabled = parseBoolEnv("MONITOR_ENABLED", true)
	if cfg.Monitoring.Interval, err = parseDurationEnv("MONITOR_INTERVAL", time.Minute); err != nil {
		return nil, err
	}
	if cfg.Monitoring.RequestTimeout, err = parseDurationEnv("MONITOR_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.Monitoring.LatencyWarning, err = parseDurationEnv("MONITOR_LATENCY_WARNING", 2*time.Second); err != nil {
		return nil, err
	}
	cfg.Monitoring.SlackWebhookURL = strings.TrimSpace(getEnv("NOTIFY_SLACK_WEBHOOK", ""))

	return cfg, nil
}

func getEnv(key, def string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	val := getEnv(key, "")
	if val == "" {
		return def, nil
	}
	dur, err := time.ParseDuration(val)
	if err != nil {
		return 0, errors.New(key + " inválido")
	}
	return dur, nil
}

func parseIntEnv(key string, def int) (int, error) {
	val := strings.TrimSpace(getEnv(key, ""))
	if val == "" {
		return def, nil
	}
	return strconv.Atoi(val)
}

func parseBoolEnv(key string, def bool) bool {
	val := strings.TrimSpace(getEnv(key, ""))
	if val == "" {
		return def
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return def
	}
	return b
}
