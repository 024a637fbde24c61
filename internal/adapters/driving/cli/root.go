// Package cli implements the quill command-line interface on top of
// the driving ports. Commands talk to the core through interfaces and
// carry no retrieval logic of their own.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/quilline-labs/quill-cli/internal/core/ports/driven"
	"github.com/quilline-labs/quill-cli/internal/core/ports/driving"
	"github.com/quilline-labs/quill-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services injected by the composition root before Execute.
var (
	ingestService driving.Ingestor
	queryService  driving.Answerer
	configStore   driven.ConfigStore
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "quill",
	Short: "Ask questions about your own documents",
	Long: `Quill is a local retrieval-augmented generation engine.

Ingest documents, search them semantically, and ask questions answered
by a local language model grounded in your own files. Everything runs
on this machine; no document content leaves it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Dependencies carries the wired services from the composition root.
type Dependencies struct {
	Ingestor driving.Ingestor
	Answerer driving.Answerer
	Config   driven.ConfigStore
}

// Configure injects the services the commands run against.
func Configure(deps Dependencies) {
	ingestService = deps.Ingestor
	queryService = deps.Answerer
	configStore = deps.Config
}

// SetVersion sets the version string printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
