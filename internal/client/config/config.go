package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/govadmin/internal/common"
)

// Config holds runtime settings for the govadmin CLI.
//
// Fields:
//   - ServerBaseURL: absolute base URL of the admin REST API.
//   - RequestTimeout: fixed budget applied to every request.
//   - StoreDriver / StorePath: backend and file of the local credential store.
//   - PageSize: default page size of listing screens.
//   - RateLimit / RateBurst: outbound requests per second; 0 disables.
//   - LogLevel / LogFormat: see logging.Options.
type Config struct {
	ServerBaseURL  string
	RequestTimeout time.Duration
	StoreDriver    string
	StorePath      string
	PageSize       int
	RateLimit      float64
	RateBurst      int
	LogLevel       string
	LogFormat      string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:5000"
	c.RequestTimeout = 30 * time.Second
	c.StoreDriver = "sqlite"
	c.StorePath = defaultStorePath()
	c.PageSize = 10
	c.RateLimit = 0
	c.RateBurst = 1
	c.LogLevel = "info"
	c.LogFormat = "text"
}

func defaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, common.AppName, "state.db")
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (including a .env file in the working directory), a JSON
// or TOML file (if given) and command-line flags. Later sources take
// precedence over earlier ones. Invalid values panic.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg, ".env")
	parseFile(cfg, os.Args[1:])
	parseFlags(cfg, os.Args[1:])
	return cfg
}
