package config

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/fx"
)

// AppConfig holds the application's resolved configuration (spec §6).
type AppConfig struct {
	Port        string
	Environment string
	ServiceName string
	SentryDSN   string

	CORSOrigin string

	RateLimitPerHour      int
	IdempotencyTTLSeconds int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ExtractionCacheSize       int
	ExtractionCacheTTLSeconds int
	PIIFieldCacheSize         int
	MaxRequestBodyBytes       int64
}

// NewAppConfig loads and validates the application configuration. A present-but-malformed
// CORS_ORIGIN, RATE_LIMIT_PER_HOUR, or IDEMPOTENCY_TTL_SECONDS fails boot immediately rather
// than silently falling back to a default.
func NewAppConfig() *AppConfig {
	LoadEnvVars()

	rateLimit, err := getEnvIntStrict("RATE_LIMIT_PER_HOUR", 60)
	if err != nil || rateLimit <= 0 {
		exitOnConfigError("RATE_LIMIT_PER_HOUR", err, rateLimit <= 0 && err == nil)
	}
	idemTTL, err := getEnvIntStrict("IDEMPOTENCY_TTL_SECONDS", 86400)
	if err != nil || idemTTL <= 0 {
		exitOnConfigError("IDEMPOTENCY_TTL_SECONDS", err, idemTTL <= 0 && err == nil)
	}
	corsOrigin := EnvCORSOrigin()
	if strings.TrimSpace(corsOrigin) == "" {
		exitOnConfigError("CORS_ORIGIN", fmt.Errorf("CORS_ORIGIN must not be blank"), false)
	}

	return &AppConfig{
		Port:                      EnvPort(),
		Environment:               EnvironmentConfig(),
		ServiceName:               EnvServiceName(),
		SentryDSN:                 EnvSentryDSN(),
		CORSOrigin:                corsOrigin,
		RateLimitPerHour:          rateLimit,
		IdempotencyTTLSeconds:     idemTTL,
		RedisAddr:                 EnvRedisAddr(),
		RedisPassword:             EnvRedisPassword(),
		RedisDB:                   EnvRedisDB(),
		ExtractionCacheSize:       EnvExtractionCacheSize(),
		ExtractionCacheTTLSeconds: EnvExtractionCacheTTLSeconds(),
		PIIFieldCacheSize:         EnvPIIFieldCacheSize(),
		MaxRequestBodyBytes:       EnvMaxRequestBodyBytes(),
	}
}

func exitOnConfigError(key string, err error, nonPositive bool) {
	if nonPositive {
		fmt.Fprintf(os.Stderr, "config: %s must be > 0\n", key)
	} else {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
	}
	os.Exit(1)
}

// Module provides the fx module for AppConfig.
var Module = fx.Module("config", fx.Provide(NewAppConfig))
