package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sfvdirectory/sitegen/internal/config"
	"github.com/sfvdirectory/sitegen/internal/database"
	"github.com/sfvdirectory/sitegen/internal/images"
	"github.com/sfvdirectory/sitegen/internal/repository"
	"github.com/sfvdirectory/sitegen/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	placeholdersOnly := flag.Bool("placeholders", false, "use the built-in placeholder images even when an Unsplash key is set")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration: %v\n", err)
		return 1
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to database")
		return 1
	}
	defer db.Close()

	var lookup images.Lookup = images.NewLookup(cfg.Images)
	if *placeholdersOnly {
		lookup = images.NewPlaceholderLookup()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos := repository.New(db)
	backfiller := images.NewBackfiller(repos.Business, lookup, cfg.Site.Region, cfg.Images.BackfillDelay, log)

	summary, err := backfiller.Run(ctx)
	if summary != nil {
		fmt.Printf("updated %d of %d (not found %d, failed %d) in %s\n",
			summary.Updated, summary.Total, summary.NotFound, summary.Failed, summary.Duration.Round(1e6))
	}
	switch {
	case errors.Is(err, context.Canceled):
		return 130
	case err != nil:
		log.Error().Err(err).Msg("Backfill failed")
		return 1
	}
	return 0
}
