package shared

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv           string
	LogLevel         string
	HTTPAddr         string
	MetricsAddr      string
	RedisAddr        string // empty: in-process LRU
	RedisDB          int
	RedisPass        string
	CacheTTL         time.Duration
	CacheCapacity    int
	GlobeRadius      float64
	CORSOrigins      []string
	ResolveRPS       int
	ResolveWorkers   int
	CataloguePath    string // empty: embedded catalogue
	TimezonesEnabled bool
}

var defaults = map[string]any{
	"APP_ENV":           "prod",
	"LOG_LEVEL":         "info",
	"HTTP_ADDR":         ":8080",
	"METRICS_ADDR":      "",
	"REDIS_ADDR":        "",
	"REDIS_PASSWORD":    "",
	"REDIS_DB":          0,
	"CACHE_TTL_SECONDS": 900,
	"CACHE_CAPACITY":    4096,
	"GLOBE_RADIUS":      5.0,
	"CORS_ORIGINS":      "*",
	"RESOLVE_RPS":       50,
	"RESOLVE_WORKERS":   8,
	"CATALOGUE_PATH":    "",
	"TIMEZONES_ENABLED": true,
}

// Load reads .env (if present), then globe.yaml from . or ./config (if
// present), then the environment. Later sources win.
func Load() (Config, error) {
	_ = godotenv.Load(".env")

	v := viper.New()
	v.SetConfigName("globe")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	c := Config{
		AppEnv:           v.GetString("APP_ENV"),
		LogLevel:         v.GetString("LOG_LEVEL"),
		HTTPAddr:         v.GetString("HTTP_ADDR"),
		MetricsAddr:      v.GetString("METRICS_ADDR"),
		RedisAddr:        v.GetString("REDIS_ADDR"),
		RedisPass:        v.GetString("REDIS_PASSWORD"),
		RedisDB:          v.GetInt("REDIS_DB"),
		CacheTTL:         time.Duration(v.GetInt("CACHE_TTL_SECONDS")) * time.Second,
		CacheCapacity:    v.GetInt("CACHE_CAPACITY"),
		GlobeRadius:      v.GetFloat64("GLOBE_RADIUS"),
		CORSOrigins:      splitList(v.GetString("CORS_ORIGINS")),
		ResolveRPS:       v.GetInt("RESOLVE_RPS"),
		ResolveWorkers:   v.GetInt("RESOLVE_WORKERS"),
		CataloguePath:    v.GetString("CATALOGUE_PATH"),
		TimezonesEnabled: v.GetBool("TIMEZONES_ENABLED"),
	}
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	if c.RedisAddr == "" {
		log.Warn().Msg("REDIS_ADDR is empty, using in-process cache")
	}
	return c, nil
}

func (c Config) validate() error {
	var errs []error
	if c.GlobeRadius <= 0 {
		errs = append(errs, fmt.Errorf("GLOBE_RADIUS must be positive, got %v", c.GlobeRadius))
	}
	if c.ResolveRPS <= 0 {
		errs = append(errs, fmt.Errorf("RESOLVE_RPS must be positive, got %d", c.ResolveRPS))
	}
	if c.ResolveWorkers <= 0 {
		errs = append(errs, fmt.Errorf("RESOLVE_WORKERS must be positive, got %d", c.ResolveWorkers))
	}
	if c.CacheCapacity <= 0 {
		errs = append(errs, fmt.Errorf("CACHE_CAPACITY must be positive, got %d", c.CacheCapacity))
	}
	return errors.Join(errs...)
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
