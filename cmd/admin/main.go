package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/govadmin/internal/buildinfo"
	"github.com/dmitrijs2005/govadmin/internal/client/cli"
	"github.com/dmitrijs2005/govadmin/internal/client/config"
	"github.com/dmitrijs2005/govadmin/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()

	logger, flush, err := logging.New(logging.Options{Format: cfg.LogFormat, Level: cfg.LogLevel})
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer func() { _ = flush() }()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "startup failed", "error", err)
		return
	}
	defer func() { _ = app.Close() }()

	app.Run(ctx)

}
