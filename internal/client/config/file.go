package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/dmitrijs2005/govadmin/internal/flagx"
	"github.com/dmitrijs2005/govadmin/internal/timex"
)

// FileConfig is a DTO used exclusively for file unmarshalling. It relies on
// timex.Duration so the timeout can be written as "3s" (or, in JSON, as
// integer nanoseconds). Zero values leave the current setting alone.
type FileConfig struct {
	ServerBaseURL  string         `json:"server_base_url" toml:"server_base_url"`
	RequestTimeout timex.Duration `json:"request_timeout" toml:"request_timeout"`
	StoreDriver    string         `json:"store_driver" toml:"store_driver"`
	StorePath      string         `json:"store_path" toml:"store_path"`
	PageSize       int            `json:"page_size" toml:"page_size"`
	RateLimit      float64        `json:"rate_limit" toml:"rate_limit"`
	RateBurst      int            `json:"rate_burst" toml:"rate_burst"`
	LogLevel       string         `json:"log_level" toml:"log_level"`
	LogFormat      string         `json:"log_format" toml:"log_format"`
}

// parseFile overlays cfg with the file named by -c / -config. Files ending
// in .toml are decoded as TOML, anything else as JSON. Read or decode
// errors panic.
func parseFile(cfg *Config, args []string) {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return
	}

	var fc FileConfig
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.DecodeFile(path, &fc); err != nil {
			panic(err)
		}
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			panic(err)
		}
		if err := json.Unmarshal(data, &fc); err != nil {
			panic(err)
		}
	}

	fc.apply(cfg)
}

func (fc FileConfig) apply(cfg *Config) {
	if fc.ServerBaseURL != "" {
		cfg.ServerBaseURL = fc.ServerBaseURL
	}
	if fc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.StoreDriver != "" {
		cfg.StoreDriver = fc.StoreDriver
	}
	if fc.StorePath != "" {
		cfg.StorePath = fc.StorePath
	}
	if fc.PageSize > 0 {
		cfg.PageSize = fc.PageSize
	}
	if fc.RateLimit > 0 {
		cfg.RateLimit = fc.RateLimit
	}
	if fc.RateBurst > 0 {
		cfg.RateBurst = fc.RateBurst
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
	if fc.LogFormat != "" {
		cfg.LogFormat = fc.LogFormat
	}
}
