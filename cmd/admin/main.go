package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/common-nighthawk/go-figure"

	"github.com/dmitrijs2005/shopadmin/internal/client/cli"
	"github.com/dmitrijs2005/shopadmin/internal/client/config"
	"github.com/dmitrijs2005/shopadmin/internal/logging"
)

const appname = "shop admin"

func main() {

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.LogFormat, cfg.LogLevel, os.Stderr)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	// The REPL notices ctx at the next line; a second interrupt kills the process.
	go func() {
		<-ctx.Done()
		stop()
	}()

	figure.NewFigure(appname, "cybermedium", true).Print()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	if err := app.Run(ctx); err != nil {
		logger.Error(ctx, "console stopped", "error", err)
	}
}
