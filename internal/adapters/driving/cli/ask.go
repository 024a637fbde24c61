package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/quilline-labs/quill-cli/internal/core/domain"
)

var askNoStream bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about your documents",
	Long: `Answers a question using the indexed documents.

The question is embedded, the most similar chunks are retrieved, and a
local language model generates an answer grounded in them. The sources
used are listed after the answer.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askNoStream, "no-stream", false, "wait for the full answer instead of streaming")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]

	if queryService == nil {
		return errors.New("query service not configured")
	}

	ctx := context.Background()

	var answer *domain.Answer
	var err error
	if askNoStream {
		answer, err = queryService.Answer(ctx, question)
		if err == nil {
			cmd.Println(answer.Text)
		}
	} else {
		answer, err = queryService.AnswerStream(ctx, question, func(token string) {
			cmd.Print(token)
		})
		if err == nil {
			cmd.Println()
		}
	}
	if err != nil {
		if errors.Is(err, domain.ErrModelUnavailable) {
			return fmt.Errorf("model unavailable - is Ollama running? (%w)", err)
		}
		return fmt.Errorf("answer failed: %w", err)
	}

	printSources(cmd, answer.Sources)
	return nil
}

// printSources lists the chunks the answer was grounded in.
func printSources(cmd *cobra.Command, sources []domain.SearchHit) {
	if len(sources) == 0 {
		return
	}

	bold := color.New(color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	cmd.Println()
	cmd.Println(bold("Sources:"))
	for i, src := range sources {
		cmd.Printf("  [%d] %s (chunk %d, %.2f)\n", i+1, cyan(src.DocumentName), src.ChunkIndex+1, src.Score)
	}
}
