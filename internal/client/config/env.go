package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/dmitrijs2005/govadmin/internal/timex"
	"github.com/joho/godotenv"
)

// Environment variables read by parseEnv.
const (
	EnvServerURL      = "GOVADMIN_SERVER_URL"
	EnvRequestTimeout = "GOVADMIN_REQUEST_TIMEOUT"
	EnvStoreDriver    = "GOVADMIN_STORE_DRIVER"
	EnvStorePath      = "GOVADMIN_STORE_PATH"
	EnvPageSize       = "GOVADMIN_PAGE_SIZE"
	EnvRateLimit      = "GOVADMIN_RATE_LIMIT"
	EnvRateBurst      = "GOVADMIN_RATE_BURST"
	EnvLogLevel       = "GOVADMIN_LOG_LEVEL"
	EnvLogFormat      = "GOVADMIN_LOG_FORMAT"
)

// parseEnv overlays cfg with GOVADMIN_* variables. The dotenv files are
// loaded first when they exist; variables already set in the process
// environment win over them.
func parseEnv(cfg *Config, dotenv ...string) {
	for _, f := range dotenv {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			panic(fmt.Errorf("load %s: %w", f, err))
		}
	}

	setString(&cfg.ServerBaseURL, EnvServerURL)
	setString(&cfg.StoreDriver, EnvStoreDriver)
	setString(&cfg.StorePath, EnvStorePath)
	setString(&cfg.LogLevel, EnvLogLevel)
	setString(&cfg.LogFormat, EnvLogFormat)

	if v, ok := os.LookupEnv(EnvRequestTimeout); ok {
		var d timex.Duration
		if err := d.UnmarshalText([]byte(v)); err != nil {
			panic(fmt.Errorf("%s: %w", EnvRequestTimeout, err))
		}
		cfg.RequestTimeout = d.Duration
	}
	if v, ok := os.LookupEnv(EnvPageSize); ok {
		cfg.PageSize = mustAtoi(EnvPageSize, v)
	}
	if v, ok := os.LookupEnv(EnvRateBurst); ok {
		cfg.RateBurst = mustAtoi(EnvRateBurst, v)
	}
	if v, ok := os.LookupEnv(EnvRateLimit); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			panic(fmt.Errorf("%s: %w", EnvRateLimit, err))
		}
		cfg.RateLimit = f
	}
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func mustAtoi(key, v string) int {
	n, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Errorf("%s: %w", key, err))
	}
	return n
}
