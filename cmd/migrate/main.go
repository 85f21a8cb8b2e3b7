package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/sfvdirectory/sitegen/internal/config"
	"github.com/sfvdirectory/sitegen/internal/database"
	"github.com/sfvdirectory/sitegen/pkg/logger"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: migrate <up|down|version N>")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	migrationsPath := os.Getenv("MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "./migrations"
	}

	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	switch os.Args[1] {
	case "up":
		err = db.RunMigrations(migrationsPath)
	case "down":
		err = db.MigrateDown(migrationsPath)
	case "version":
		if len(os.Args) != 3 {
			usage()
			os.Exit(2)
		}
		version, convErr := strconv.ParseUint(os.Args[2], 10, 32)
		if convErr != nil {
			fmt.Fprintf(os.Stderr, "invalid version %q\n", os.Args[2])
			os.Exit(2)
		}
		err = db.MigrateToVersion(migrationsPath, uint(version))
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Error().Err(err).Msg("Migration failed")
		db.Close()
		os.Exit(1)
	}
}
