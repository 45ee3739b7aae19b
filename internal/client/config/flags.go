package config

import (
	"flag"

	"github.com/dmitrijs2005/govadmin/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-u string    base URL of the admin API
//	-t duration  request timeout, e.g. 15s
//	-s string    credential store driver (sqlite, bolt)
//	-p string    credential store file
//	-n int       default page size
//	-r float     outbound requests per second (0 disables)
//	-b int       rate limit burst
//	-l string    log level (debug, info, warn, error)
//	-f string    log format (text, json, zap, zap-dev)
//
// The args are filtered with flagx.FilterArgs so flags owned by other
// loaders (-c) do not break parsing.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-u", "-t", "-s", "-p", "-n", "-r", "-b", "-l", "-f"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerBaseURL, "u", cfg.ServerBaseURL, "base URL of the admin API")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout")
	fs.StringVar(&cfg.StoreDriver, "s", cfg.StoreDriver, "credential store driver (sqlite, bolt)")
	fs.StringVar(&cfg.StorePath, "p", cfg.StorePath, "credential store file")
	fs.IntVar(&cfg.PageSize, "n", cfg.PageSize, "default page size")
	fs.Float64Var(&cfg.RateLimit, "r", cfg.RateLimit, "outbound requests per second (0 disables)")
	fs.IntVar(&cfg.RateBurst, "b", cfg.RateBurst, "rate limit burst")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "f", cfg.LogFormat, "log format (text, json, zap, zap-dev)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
