package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"epicure-backend/internal/catalog"
	"epicure-backend/internal/config"
	"epicure-backend/internal/database"
	"epicure-backend/internal/logger"
)

func main() {
	file := flag.String("file", "", "path to the .xlsx catalog")
	sheetName := flag.String("sheet", "", "sheet to read (default: first sheet)")
	dryRun := flag.Bool("dry-run", false, "validate rows without writing them")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: seed -file foods.xlsx [-sheet Menu] [-dry-run]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger.Init(cfg.Environment)

	f, err := os.Open(*file)
	if err != nil {
		logger.Fatal().Err(err).Str("file", *file).Msg("cannot open catalog")
	}
	defer f.Close()

	sheet, err := catalog.Read(f, *sheetName, time.Now().UTC())
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot read catalog")
	}
	for _, rowErr := range sheet.Skipped {
		logger.Warn().Int("row", rowErr.Row).Err(rowErr.Err).Msg("row skipped")
	}

	imported := 0
	if !*dryRun && len(sheet.Foods) > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		repo, err := database.Open(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("database connection failed")
		}
		defer repo.Close(context.Background())

		imported, err = catalog.Import(ctx, repo, sheet.Foods)
		if err != nil {
			logger.Error().Err(err).Int("imported", imported).Msg("import stopped")
		}
	}

	fmt.Printf("valid: %d, imported: %d, skipped: %d\n", len(sheet.Foods), imported, len(sheet.Skipped))
}
