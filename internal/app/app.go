package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/heartmarshall/lexigraph/internal/adapter/neo4j/graphsync"
	"github.com/heartmarshall/lexigraph/internal/adapter/postgres"
	"github.com/heartmarshall/lexigraph/internal/adapter/postgres/lexstore"
	"github.com/heartmarshall/lexigraph/internal/adapter/redis/entrycache"
	"github.com/heartmarshall/lexigraph/internal/app/loader"
	"github.com/heartmarshall/lexigraph/internal/config"
)

// Compile-time interface assertions.
var (
	_ loader.Store      = (*lexstore.Repo)(nil)
	_ loader.TxManager  = (*postgres.TxManager)(nil)
	_ loader.EntryCache = (*entrycache.Cache)(nil)
	_ loader.GraphSink  = (*graphsync.Syncer)(nil)
)

// Options carries command-line overrides for a load.
type Options struct {
	Phases           string
	DryRun           bool
	ClearExisting    bool
	Migrate          bool
	LoaderConfigPath string
	// Out receives the printed report. Defaults to os.Stdout.
	Out io.Writer
}

// Run is the application entry point. It loads configuration, connects to
// PostgreSQL and the optional Redis and Neo4j sinks, and runs the loader
// pipeline. The report is logged and printed even when a phase fails.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting lexiload",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	loaderCfg, err := loader.LoadConfig(opts.LoaderConfigPath)
	if err != nil {
		return err
	}
	// CLI flags override config.
	if opts.DryRun {
		loaderCfg.DryRun = true
	}
	if opts.ClearExisting {
		loaderCfg.ClearExisting = true
	}

	phases, err := loader.ParsePhases(opts.Phases)
	if err != nil {
		return err
	}

	if opts.Migrate {
		versions, err := postgres.Migrate(ctx, cfg.Database.DSN)
		if err != nil {
			return err
		}
		logger.Info("migrations applied", slog.Int("count", len(versions)))
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	var pipelineOpts []loader.Option

	rdb, err := entrycache.Connect(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
		pipelineOpts = append(pipelineOpts, loader.WithEntryCache(entrycache.New(rdb, cfg.Redis.KeyPrefix)))
		logger.Info("entry cache enabled", slog.String("addr", cfg.Redis.Addr))
	}

	graphClient, err := graphsync.Connect(ctx, cfg.Graph)
	if err != nil {
		return err
	}
	if graphClient != nil {
		defer graphClient.Close(context.WithoutCancel(ctx))
		pipelineOpts = append(pipelineOpts, loader.WithGraphSink(graphsync.NewSyncer(graphClient, logger, loaderCfg.BatchSize)))
		logger.Info("graph sync enabled", slog.String("uri", cfg.Graph.URI))
	}

	txm := postgres.NewTxManager(pool)
	repo := lexstore.New(pool)

	pipeline := loader.NewPipeline(logger, repo, txm, *loaderCfg, pipelineOpts...)
	runErr := pipeline.Run(ctx, phases)

	report := pipeline.Report()
	report.Log(logger)
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	if err := report.Print(out); err != nil {
		logger.Warn("print report", slog.String("error", err.Error()))
	}

	return runErr
}
