package config

import (
	"fmt"

	"github.com/getsentry/sentry-go"
)

// SentryConfig initializes crash reporting. Called only when SentryDSN is set.
func SentryConfig() {
	if err := sentry.Init(sentry.ClientOptions{
		Dsn: EnvSentryDSN(),
	}); err != nil {
		fmt.Printf("Sentry initialization failed: %v\n", err)
	}
}
