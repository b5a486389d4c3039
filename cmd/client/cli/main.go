package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/aliaskeeper/internal/buildinfo"
	"github.com/dmitrijs2005/aliaskeeper/internal/client/backup"
	"github.com/dmitrijs2005/aliaskeeper/internal/client/cli"
	"github.com/dmitrijs2005/aliaskeeper/internal/client/config"
	"github.com/dmitrijs2005/aliaskeeper/internal/client/database"
	"github.com/dmitrijs2005/aliaskeeper/internal/client/features"
	"github.com/dmitrijs2005/aliaskeeper/internal/client/gateway"
	"github.com/dmitrijs2005/aliaskeeper/internal/client/services"
	"github.com/dmitrijs2005/aliaskeeper/internal/client/storage"
	"github.com/dmitrijs2005/aliaskeeper/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	logger := logging.New(cfg.LogLevel, os.Stderr)

	db, err := database.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	sealer, err := storage.OpenSealer(ctx, db, cfg.VaultPassphrase)
	if err != nil {
		return fmt.Errorf("open vault: %w", err)
	}
	store := storage.New(db, storage.WithSealer(sealer))

	gw := gateway.NewHTTPGateway(cfg.GatewayURL, cfg.RequestTimeout,
		gateway.WithRateLimit(cfg.RequestsPerSecond, cfg.RequestBurst),
		gateway.WithLogger(logger),
	)

	backups, err := backup.Open(ctx, cfg.Backup)
	if err != nil {
		return fmt.Errorf("open backups: %w", err)
	}

	// The approver prompts through the App, which needs the service first.
	var app *cli.App
	approve := func(ctx context.Context, caps []string) (bool, error) {
		return app.Approve(ctx, caps)
	}
	autofill := features.NewAutofill(store, features.NewStoredChecker(store, approve),
		features.Platform(cfg.Platform), logger)

	svc, err := services.NewAliasService(ctx, services.Deps{
		Store:    store,
		Gateway:  gw,
		Backups:  backups,
		Autofill: autofill,
		Domain:   cfg.Domain,
		Log:      logger,
	})
	if err != nil {
		return err
	}

	app = cli.NewApp(svc, os.Stdin, os.Stdout, logger)
	app.Run(ctx)
	return nil
}
