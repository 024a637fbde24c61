package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/quilline-labs/quill-cli/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a directory and ingest dropped files",
	Long: `Watches a directory and mirrors it into the index: files dropped in
are ingested, modified files are re-ingested, removed files have their
documents deleted. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return errors.New(dir + " is not a directory")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		cmd.Println("\nShutting down...")
		cancel()
	}()

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", dir)
	err = watcher.New(dir, ingestService).Run(ctx)
	if errors.Is(err, context.Canceled) {
		ingestService.Wait()
		return nil
	}
	return err
}
