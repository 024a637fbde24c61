// Command quill is a local retrieval-augmented generation engine:
// ingest documents, search them semantically and ask questions answered
// by a local language model grounded in your own files.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/quilline-labs/quill-cli/internal/adapters/driven/cache/memory"
	"github.com/quilline-labs/quill-cli/internal/adapters/driven/config/file"
	embeddingollama "github.com/quilline-labs/quill-cli/internal/adapters/driven/embedding/ollama"
	llmollama "github.com/quilline-labs/quill-cli/internal/adapters/driven/llm/ollama"
	"github.com/quilline-labs/quill-cli/internal/adapters/driven/storage/sqlite"
	"github.com/quilline-labs/quill-cli/internal/adapters/driven/vector/bolt"
	"github.com/quilline-labs/quill-cli/internal/adapters/driving/cli"
	"github.com/quilline-labs/quill-cli/internal/chunker"
	"github.com/quilline-labs/quill-cli/internal/core/ports/driven"
	"github.com/quilline-labs/quill-cli/internal/core/services"
	"github.com/quilline-labs/quill-cli/internal/extractors"
	"github.com/quilline-labs/quill-cli/internal/logger"
)

// version is injected at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configDir := os.Getenv("QUILL_CONFIG_DIR")

	config, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("initialise config: %w", err)
	}

	dataDir := filepath.Join(filepath.Dir(config.Path()), "data")

	docStore, err := sqlite.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("initialise metadata store: %w", err)
	}
	defer docStore.Close()

	index := bolt.NewIndex(filepath.Join(dataDir, "vectors.db"))
	defer index.Close()

	embedder := embeddingollama.NewEmbeddingService(embeddingollama.Config{
		BaseURL: config.GetString("ollama.url"),
		Model:   config.GetString("ollama.embed_model"),
	})
	defer embedder.Close()

	generator := llmollama.NewGenerationService(llmollama.Config{
		BaseURL: config.GetString("ollama.url"),
		Model:   config.GetString("ollama.chat_model"),
	})
	defer generator.Close()

	var chunkOpts []chunker.Option
	if size := config.GetInt("chunking.size"); size > 0 {
		chunkOpts = append(chunkOpts, chunker.WithChunkSize(size))
	}
	if _, ok := config.Get("chunking.overlap"); ok {
		chunkOpts = append(chunkOpts, chunker.WithOverlap(config.GetInt("chunking.overlap")))
	}
	chunks := chunker.New(chunkOpts...)

	cache := memory.New()

	ingestor := services.NewIngestService(
		docStore,
		index,
		embedder,
		extractors.NewDefaultRegistry(),
		chunks,
		cache,
	)

	answerer := services.NewQueryService(index, embedder, generator, nil)
	answerer.SetCache(cache)
	if topK := config.GetInt("query.top_k"); topK > 0 {
		answerer.SetTopK(topK)
	}

	prompts, err := file.NewPromptStore(filepath.Join(filepath.Dir(config.Path()), "prompts"))
	if err == nil {
		if prompt, perr := prompts.Load(driven.PromptAnswerSystem); perr == nil {
			answerer.SetSystemPrompt(prompt)
		}
	}

	cli.SetVersion(version)
	cli.Configure(cli.Dependencies{
		Ingestor: ingestor,
		Answerer: answerer,
		Config:   config,
	})

	if err := cli.Execute(); err != nil {
		return err
	}

	// Commands that accept work asynchronously settle before exit.
	ingestor.Wait()
	logger.Debug("Shutdown complete")
	return nil
}
