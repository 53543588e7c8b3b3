// cmd/ingress/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/fleximart/data-ingress/pkg/cleaner"
	"github.com/fleximart/data-ingress/pkg/config"
	"github.com/fleximart/data-ingress/pkg/connector"
	"github.com/fleximart/data-ingress/pkg/loader"
	"github.com/fleximart/data-ingress/pkg/report"
	"github.com/fleximart/data-ingress/pkg/source"
)

func main() {
	// Load .env if present; environment variables win otherwise.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error("Run failed",
			zap.String("kind", loader.KindOf(err).String()),
			zap.Error(err))
		os.Exit(1)
	}
}

// run executes one full extract-clean-load cycle. The sink connection is
// acquired once here and released on every exit path.
func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	pg, err := connector.NewPostgresConnector(ctx, cfg.Postgres, logger)
	if err != nil {
		return loader.NewSinkError(err)
	}
	defer pg.Close()

	if err := pg.EnsureSchema(ctx); err != nil {
		return loader.NewSinkError(err)
	}

	// Extract. A missing source is fatal before any sink write.
	extractor, err := source.NewExtractor(logger.Named("source"))
	if err != nil {
		return loader.NewUnexpectedError(err)
	}

	extract, err := extractor.ExtractAll(cfg.CustomersPath(), cfg.ProductsPath(), cfg.SalesPath())
	if err != nil {
		if errors.Is(err, source.ErrSourceNotFound) {
			return loader.NewSourceNotFoundError(err)
		}
		return loader.NewUnexpectedError(err)
	}

	// Transform.
	cl, err := cleaner.NewCleaner(logger.Named("cleaner"))
	if err != nil {
		return loader.NewUnexpectedError(err)
	}

	quality := report.NewQuality()

	customers, customerCounts := cl.CleanCustomers(extract.Customers)
	products, productCounts := cl.CleanProducts(extract.Products)
	sales, saleCounts := cl.CleanSales(extract.Sales)

	quality.CustomersOriginal = customerCounts.Original
	quality.ProductsOriginal = productCounts.Original
	quality.SalesOriginal = saleCounts.Original

	// Load. Everything below runs in a single transaction; the loader
	// rolls back and re-signals on any sink error.
	sink, err := pg.Begin(ctx)
	if err != nil {
		return loader.NewSinkError(err)
	}

	ld, err := loader.NewLoader(logger.Named("loader"))
	if err != nil {
		return loader.NewUnexpectedError(err)
	}

	result, err := ld.Run(ctx, sink, loader.CleanedSet{
		Customers: customers,
		Products:  products,
		Sales:     sales,
	})
	if err != nil {
		return err
	}

	quality.CustomersLoaded = result.CustomersLoaded
	quality.ProductsLoaded = result.ProductsLoaded
	quality.OrdersLoaded = result.OrdersLoaded
	quality.OrdersSkipped = result.OrdersSkipped
	quality.Complete()

	// Post-commit verification against the sink's own counts.
	if err := pg.VerifyLoaded(ctx, map[string]int64{
		"customers":   int64(result.CustomersLoaded),
		"products":    int64(result.ProductsLoaded),
		"orders":      int64(result.OrdersLoaded),
		"order_items": int64(result.OrdersLoaded),
	}); err != nil {
		return loader.NewSinkError(err)
	}

	// Report, only after a successful commit.
	writer, err := report.NewWriter(cfg.ReportPath, logger.Named("report"))
	if err != nil {
		return loader.NewUnexpectedError(err)
	}
	if err := writer.Write(quality); err != nil {
		return loader.NewUnexpectedError(err)
	}

	logger.Info("ETL process completed successfully",
		zap.String("runID", quality.RunID),
		zap.String("report", cfg.ReportPath))

	return nil
}

// newLogger builds a zap logger from the configured level and format
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	var zapCfg zap.Config
	if cfg.LogFormat == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = level

	return zapCfg.Build()
}
