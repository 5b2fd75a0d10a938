// Command lexiload loads a WordNet lexicon and a lemma frequency list into
// PostgreSQL, precomputing per-entry definitions, hypernym closures,
// synonyms and word-level cross-references. It is intended to be run
// offline, not as part of a server.
//
// Flags:
//
//	--phase          comma-separated list of phases to run (default: all)
//	                 lemmas, definitions, cache, graph, stats
//	--dry-run        parse and plan without writing anywhere
//	--clear          delete existing derived rows before inserting
//	--migrate        apply embedded migrations before loading
//	--loader-config  path to loader YAML config file
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/lexigraph/internal/app"
)

func main() {
	phaseFlag := flag.String("phase", "", "comma-separated phases to run (default: all)")
	dryRunFlag := flag.Bool("dry-run", false, "parse and plan without writing")
	clearFlag := flag.Bool("clear", false, "delete existing definitions, synonyms and references first")
	migrateFlag := flag.Bool("migrate", false, "apply database migrations before loading")
	loaderConfigFlag := flag.String("loader-config", "", "path to loader YAML config file")
	flag.Parse()

	// 60-minute context timeout.
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Minute)
	defer cancel()

	err := app.Run(ctx, app.Options{
		Phases:           *phaseFlag,
		DryRun:           *dryRunFlag,
		ClearExisting:    *clearFlag,
		Migrate:          *migrateFlag,
		LoaderConfigPath: *loaderConfigFlag,
	})
	if err != nil {
		slog.Error("lexiload failed", slog.String("error", err.Error()))
		cancel()
		os.Exit(1)
	}
}
