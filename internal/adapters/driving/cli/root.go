// Package cli implements the corpus command-line interface. Commands
// talk to the core through the driving ports; concrete services are
// wired in by the entry point before Execute runs.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mbrus062/corpus/internal/core/ports/driven"
	"github.com/mbrus062/corpus/internal/core/ports/driving"
	"github.com/mbrus062/corpus/internal/logger"
)

// version is overridden at build time via -ldflags.
var version = "dev"

// Persistent flags.
var (
	verbose bool
	dataDir string
)

// Services bundles everything the commands need.
type Services struct {
	Ingestor  driving.Ingestor
	Query     driving.QueryService
	Linker    driving.WorkLinker
	Documents driving.DocumentService
	Store     driven.DocumentStore
}

// InitOptions carries the parsed flag values the service factory needs.
type InitOptions struct {
	// DataDir overrides the store and artifact location.
	DataDir string

	// IngestMinText overrides the minimum accepted normalized length;
	// zero means use the configured value.
	IngestMinText int
}

var (
	app   Services
	wired bool

	// initServices builds the real services once flags are parsed.
	// Tests bypass it with SetServices.
	initServices func(opts InitOptions) (Services, func(), error)
	teardown     func()
)

// SetServices injects pre-built services, skipping lazy initialization.
func SetServices(s Services) {
	app = s
	wired = true
}

// SetInitializer registers the factory used to build services after
// flag parsing; the returned func is called when the command finishes.
func SetInitializer(fn func(opts InitOptions) (Services, func(), error)) {
	initServices = fn
}

var rootCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Ingest and search a local document corpus",
	Long: `corpus ingests plain text, PDF and JSON documents into a local
SQLite store, chunks them for full-text search, links multi-volume
works, and answers questions with ranked passages.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)

		if wired || initServices == nil {
			return nil
		}
		s, cleanup, err := initServices(InitOptions{
			DataDir:       dataDir,
			IngestMinText: ingestMinText,
		})
		if err != nil {
			return fmt.Errorf("initializing services: %w", err)
		}
		app = s
		teardown = cleanup
		wired = true
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if teardown != nil {
			teardown()
			teardown = nil
			wired = false
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.corpus/data)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
