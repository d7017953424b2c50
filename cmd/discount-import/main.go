package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fedkart/internal/catalog"
	"fedkart/internal/config"
	"fedkart/internal/database"
	"fedkart/internal/repository"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	migrate := flag.Bool("migrate", false, "apply the database schema before importing")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-migrate] <catalogue.yaml[.gz]>...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		return fmt.Errorf("no catalogue given")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if *migrate || cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, pool, logger); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	// S3 first when enabled, local file system as fallback
	var s3Loader catalog.Loader
	if cfg.Catalog.S3Enabled {
		s3Loader, err = catalog.NewS3Loader(ctx, cfg.Catalog.S3Bucket, cfg.Catalog.S3Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		}
	} else {
		logger.Info().Msg("using local file system for catalogues (S3 disabled)")
	}
	loader := catalog.NewFallbackLoader(s3Loader, catalog.NewFileLoader(logger), cfg.Catalog.S3Prefix, cfg.Catalog.S3Enabled, logger)

	importer := catalog.NewImporter(loader, repository.NewDiscountRepository(pool, logger), logger)

	total := 0
	for _, path := range flag.Args() {
		n, err := importer.Import(ctx, path)
		if err != nil {
			return err
		}
		total += n
	}

	logger.Info().
		Int("catalogues", flag.NArg()).
		Int("discounts", total).
		Msg("import completed")

	return nil
}
