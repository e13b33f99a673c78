package main

import (
	"fmt"
	"os"
	"path/filepath"

	configfile "github.com/mbrus062/corpus/internal/adapters/driven/config/file"
	"github.com/mbrus062/corpus/internal/adapters/driven/storage/sqlite"
	"github.com/mbrus062/corpus/internal/adapters/driving/cli"
	"github.com/mbrus062/corpus/internal/chunker"
	"github.com/mbrus062/corpus/internal/core/ports/driven"
	"github.com/mbrus062/corpus/internal/core/services"
	"github.com/mbrus062/corpus/internal/extractors/jsontext"
	"github.com/mbrus062/corpus/internal/extractors/pdf"
	"github.com/mbrus062/corpus/internal/extractors/plaintext"
	"github.com/mbrus062/corpus/internal/logger"
)

func main() {
	cli.SetInitializer(buildServices)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildServices assembles the real adapters and services. The data dir
// comes from the --data-dir flag; the config file and finally
// ~/.corpus/data fill in when it is empty.
func buildServices(opts cli.InitOptions) (cli.Services, func(), error) {
	cfgStore, err := configfile.NewStore("")
	if err != nil {
		return cli.Services{}, nil, fmt.Errorf("loading config: %w", err)
	}
	cfg := cfgStore.Config()

	dataDir := opts.DataDir
	if dataDir == "" {
		dataDir = cfg.DataDir
	}
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cli.Services{}, nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".corpus", "data")
	}

	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return cli.Services{}, nil, fmt.Errorf("opening store: %w", err)
	}
	logger.Debug("store: %s", store.Path())

	root, err := os.Getwd()
	if err != nil {
		store.Close()
		return cli.Services{}, nil, fmt.Errorf("getting working directory: %w", err)
	}

	ck := chunker.New(
		chunker.WithTargetSize(cfg.Chunking.TargetSize),
		chunker.WithOverlap(cfg.Chunking.Overlap),
	)
	extractors := []driven.Extractor{plaintext.New(), pdf.New(), jsontext.New()}

	minText := cfg.Ingest.MinTextChars
	if opts.IngestMinText > 0 {
		minText = opts.IngestMinText
	}
	ingestor := services.NewIngestService(store, ck, root, dataDir, extractors,
		services.WithMinTextChars(minText))

	planner := services.NewQueryPlanner(store,
		services.WithAnchorTerms(cfg.Query.AnchorTerms),
		services.WithBaselineTerms(cfg.Query.BaselineTerms),
		services.WithStopwords(cfg.Query.Stopwords),
		services.WithBoilerplateMarkers(cfg.Query.BoilerplateMarkers),
		services.WithMaxORTerms(cfg.Query.MaxORTerms),
		services.WithFetchFactors(cfg.Query.AnswerFetchFactor, cfg.Query.SearchFetchFactor),
	)

	svcs := cli.Services{
		Ingestor:  ingestor,
		Query:     planner,
		Linker:    services.NewWorkLinker(store),
		Documents: services.NewDocumentService(store),
		Store:     store,
	}

	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Warn("closing store: %v", err)
		}
	}
	return svcs, cleanup, nil
}
