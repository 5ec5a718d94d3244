package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/gradebook/internal/cli"
	"github.com/dmitrijs2005/gradebook/internal/common"
	"github.com/dmitrijs2005/gradebook/internal/config"
	"github.com/dmitrijs2005/gradebook/internal/cryptox"
	"github.com/dmitrijs2005/gradebook/internal/logging"
	"github.com/dmitrijs2005/gradebook/internal/repositories/repomanager"
	"github.com/dmitrijs2005/gradebook/internal/services"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()

	if err := run(ctx, cfg); err != nil {
		if !errors.Is(err, common.ErrTooManyLoginAttempts) {
			log.Printf("%v", err)
		}
		stop()
		os.Exit(1)
	}

}

func run(ctx context.Context, cfg *config.Config) error {
	logger, err := logging.New(os.Stderr, cfg.LogLevel)
	if err != nil {
		return err
	}

	driver, err := cryptox.ParseDriverName(cfg.HashDriver)
	if err != nil {
		return err
	}
	hasher, err := cryptox.NewDefaultManager(driver)
	if err != nil {
		return err
	}

	store, err := repomanager.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	svc, err := services.NewUserService(store, hasher, cfg, logger)
	if err != nil {
		return err
	}

	logger.Debug(ctx, "starting", "store", cfg.Store, "driver", driver)
	return cli.NewApp(cfg, svc, logger, os.Stdin, os.Stdout).Run(ctx)
}
