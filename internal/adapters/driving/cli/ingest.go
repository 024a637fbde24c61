package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quilline-labs/quill-cli/internal/core/domain"
)

var ingestNoWait bool

var ingestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Ingest documents into the index",
	Long: `Extracts text from the given files, chunks it, embeds each chunk and
adds them to the vector index. Supported formats: plain text, Markdown
and HTML; unknown extensions are treated as plain text.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestNoWait, "no-wait", false, "accept files without waiting for indexing to finish")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	ctx := context.Background()

	ids := make([]string, 0, len(args))
	var failed int
	for _, path := range args {
		id, err := ingestService.IngestFile(ctx, path)
		if err != nil {
			cmd.PrintErrf("Skipping %s: %v\n", path, err)
			failed++
			continue
		}
		cmd.Printf("Accepted %s (%s)\n", path, id)
		ids = append(ids, id)
	}

	if ingestNoWait {
		if failed > 0 {
			return fmt.Errorf("%d file(s) could not be ingested", failed)
		}
		return nil
	}

	ingestService.Wait()

	for _, id := range ids {
		st, err := ingestService.Status(ctx, id)
		if err != nil {
			cmd.PrintErrf("Status %s: %v\n", id, err)
			failed++
			continue
		}
		switch st.Status {
		case domain.StatusIndexed:
			cmd.Printf("Indexed %s: %d chunks\n", id, st.ChunksIndexed)
		default:
			doc, derr := docStatusMessage(ctx, id)
			cmd.PrintErrf("Failed %s: %s\n", id, doc)
			if derr != nil {
				cmd.PrintErrf("  (%v)\n", derr)
			}
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d file(s) could not be ingested", failed)
	}
	return nil
}

// docStatusMessage fetches the failure reason recorded for a document.
func docStatusMessage(ctx context.Context, id string) (string, error) {
	docs, err := ingestService.List(ctx)
	if err != nil {
		return "ingestion failed", err
	}
	for _, doc := range docs {
		if doc.ID == id && doc.StatusMessage != "" {
			return doc.StatusMessage, nil
		}
	}
	return "ingestion failed", nil
}
