package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sfvdirectory/sitegen/internal/config"
	"github.com/sfvdirectory/sitegen/internal/database"
	"github.com/sfvdirectory/sitegen/internal/generator"
	"github.com/sfvdirectory/sitegen/internal/models"
	"github.com/sfvdirectory/sitegen/internal/repository"
	"github.com/sfvdirectory/sitegen/pkg/logger"
)

const (
	exitOK          = 0
	exitFailure     = 1
	exitUsage       = 2
	exitInterrupted = 130
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: generate [flags] <businesses|categories|sitemap|all>\n\n")
	flag.PrintDefaults()
}

func main() {
	os.Exit(run())
}

func run() int {
	output := flag.String("output", "", "output directory (overrides OUTPUT_DIR)")
	sequential := flag.Bool("sequential", false, "generate one page at a time")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
		return exitUsage
	}
	kind := models.BuildKind(strings.ToLower(flag.Arg(0)))
	if !models.ValidBuildKinds[kind] {
		fmt.Fprintf(os.Stderr, "unknown artifact kind %q\n\n", flag.Arg(0))
		usage()
		return exitUsage
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration: %v\n", err)
		return exitFailure
	}
	if *output != "" {
		cfg.Site.OutputDir = *output
	}
	if *sequential {
		cfg.Build.Concurrency = 1
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to database")
		return exitFailure
	}
	defer db.Close()

	gen, err := generator.New(cfg, repository.New(db), generator.NewFSWriter(cfg.Site.OutputDir), log)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize generator")
		return exitFailure
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("kind", string(kind)).
		Str("output_dir", cfg.Site.OutputDir).
		Int("concurrency", cfg.Build.Concurrency).
		Msg("Starting generation")

	summaries, err := gen.Run(ctx, kind)
	printSummaries(summaries)

	switch {
	case errors.Is(err, context.Canceled):
		log.Warn().Msg("Generation interrupted")
		return exitInterrupted
	case err != nil:
		log.Error().Err(err).Bool("bulk_fetch", generator.IsBulkFetchError(err)).Msg("Generation failed")
		return exitFailure
	}
	return exitOK
}

func printSummaries(summaries []*models.BuildSummary) {
	for _, s := range summaries {
		fmt.Printf("%-10s generated %d of %d", s.Kind, s.Generated, s.Total)
		if s.Skipped > 0 {
			fmt.Printf(", skipped %d", s.Skipped)
		}
		fmt.Printf(" in %s\n", s.Duration.Round(1e6))
		for _, f := range s.Failed {
			fmt.Printf("  failed %s (%s): %s\n", f.Slug, f.Stage, f.Error)
		}
	}
}
