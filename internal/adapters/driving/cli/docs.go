package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quilline-labs/quill-cli/internal/core/domain"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Manage indexed documents",
	Long:  `List indexed documents, inspect ingestion status, or delete documents.`,
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all documents",
	Args:  cobra.NoArgs,
	RunE:  runDocsList,
}

var docsStatusCmd = &cobra.Command{
	Use:   "status [doc-id]",
	Short: "Show ingestion status for a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocsStatus,
}

var docsDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Delete a document and its index entries",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocsDelete,
}

func init() {
	docsCmd.AddCommand(docsListCmd)
	docsCmd.AddCommand(docsStatusCmd)
	docsCmd.AddCommand(docsDeleteCmd)
	rootCmd.AddCommand(docsCmd)
}

func runDocsList(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	ctx := context.Background()

	docs, err := ingestService.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents ingested yet.")
		return nil
	}

	cmd.Println("Documents:")
	cmd.Println()
	for i := range docs {
		cmd.Printf("  %s\n", docs[i].ID)
		cmd.Printf("    Name:    %s\n", docs[i].Name)
		cmd.Printf("    Status:  %s\n", docs[i].Status)
		if docs[i].Status == domain.StatusIndexed {
			cmd.Printf("    Chunks:  %d\n", docs[i].ChunkCount)
		}
		if docs[i].StatusMessage != "" {
			cmd.Printf("    Reason:  %s\n", docs[i].StatusMessage)
		}
		cmd.Printf("    Created: %s\n", docs[i].CreatedAt.Format("2006-01-02 15:04:05"))
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocsStatus(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	ctx := context.Background()

	st, err := ingestService.Status(ctx, args[0])
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no document with ID %s", args[0])
		}
		return fmt.Errorf("failed to get status: %w", err)
	}

	cmd.Printf("Document: %s\n", st.DocumentID)
	cmd.Printf("  Status:          %s\n", st.Status)
	cmd.Printf("  Chunks indexed:  %d\n", st.ChunksIndexed)
	if st.ChunksSkipped > 0 {
		cmd.Printf("  Chunks skipped:  %d\n", st.ChunksSkipped)
	}
	return nil
}

func runDocsDelete(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	ctx := context.Background()

	if err := ingestService.Delete(ctx, args[0]); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	cmd.Printf("Deleted %s\n", args[0])
	return nil
}
