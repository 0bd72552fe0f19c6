package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/mmtuentertainment/payplan/core/entities"

	"github.com/joho/godotenv"
)

// GetEnv retrieves the value of the specified environment variable.
func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)

	if value != "" {
		return value
	}

	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return v
}

// getEnvIntStrict parses key as an int, distinguishing "absent" (returns the default, no
// error) from "present but malformed" (returns an error the caller should fail boot on).
func getEnvIntStrict(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s=%q is not a valid integer", key, raw)
	}
	return v, nil
}

// EnvPort returns the HTTP listen port.
func EnvPort() string {
	return GetEnv("PORT", "8080")
}

// EnvironmentConfig returns the deployment environment name.
func EnvironmentConfig() string {
	return GetEnv("ENV", "development")
}

// EnvServiceName returns the service name used in logs and Sentry.
func EnvServiceName() string {
	return GetEnv("SERVICE_NAME", "payplan")
}

// EnvSentryDSN returns the Sentry DSN, empty when crash reporting is disabled.
func EnvSentryDSN() string {
	return GetEnv("SENTRY_DSN", "")
}

// EnvCORSOrigin returns the allowed CORS origin (spec §6, default "*").
func EnvCORSOrigin() string {
	return GetEnv("CORS_ORIGIN", "*")
}

// EnvRedisAddr returns the Redis/KV backend address as REDIS_HOST:REDIS_PORT (defaults
// localhost:6379). The address is used by the native RESP client (internal/kv.RedisStore);
// an Upstash REST URL is not read here.
func EnvRedisAddr() string {
	return fmt.Sprintf("%s:%s", GetEnv("REDIS_HOST", "localhost"), GetEnv("REDIS_PORT", "6379"))
}

// EnvRedisPassword returns the Redis password, preferring UPSTASH_REDIS_REST_TOKEN when
// REDIS_PASSWORD is unset (spec §6 equivalent KV credentials).
func EnvRedisPassword() string {
	if pw := os.Getenv("REDIS_PASSWORD"); pw != "" {
		return pw
	}
	return os.Getenv("UPSTASH_REDIS_REST_TOKEN")
}

// EnvRedisDB returns the Redis logical database number.
func EnvRedisDB() int {
	return getEnvInt("REDIS_DB", 0)
}

// EnvExtractionCacheSize returns the max number of entries in the extraction result LRU (C5).
func EnvExtractionCacheSize() int {
	return getEnvInt("EXTRACTION_CACHE_SIZE", 512)
}

// EnvExtractionCacheTTLSeconds returns the extraction cache entry TTL in seconds (C5).
func EnvExtractionCacheTTLSeconds() int {
	return getEnvInt("EXTRACTION_CACHE_TTL_SECONDS", 900)
}

// EnvPIIFieldCacheSize returns the max number of entries in the PII field-name match LRU (C2).
func EnvPIIFieldCacheSize() int {
	return getEnvInt("PII_FIELD_CACHE_SIZE", 4096)
}

// EnvMaxRequestBodyBytes returns the maximum accepted /api/plan request body size (spec
// §4.C15 step 5, "limit payload size sanely").
func EnvMaxRequestBodyBytes() int64 {
	return int64(getEnvInt("MAX_REQUEST_BODY_BYTES", 1<<20)) // 1 MiB
}

// LoadEnvVars loads environment variables from a .env file outside production/staging.
func LoadEnvVars() {
	env := EnvironmentConfig()
	if env == entities.Environment.Production || env == entities.Environment.Staging {
		return
	}

	filename := fmt.Sprintf(".env.%s", env)

	if _, err := os.Stat(filename); os.IsNotExist(err) {
		filename = ".env"
	}

	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return
	}

	if err := godotenv.Load(filename); err != nil {
		fmt.Fprintf(os.Stderr, "warning: .env file present but failed to load: %v\n", err)
	}
}
