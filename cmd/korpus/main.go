// Copyright 2026 Noemata Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	korpus "github.com/noemata/korpus"
	"github.com/noemata/korpus/ai"
	"github.com/noemata/korpus/ai/openai"
	"github.com/noemata/korpus/config"
)

func main() {
	app := &cli.App{
		Name:  "korpus",
		Usage: "Local semantic knowledge base over your documents",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
				Value:   config.DefaultPath,
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:      "index",
				Usage:     "Index documents into the knowledge base",
				ArgsUsage: "<path> [path...]",
				Action:    indexCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of documents indexed concurrently",
						Value: 2,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum attempts per embedding request",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
			{
				Name:      "query",
				Usage:     "Search the knowledge base",
				ArgsUsage: "<text>",
				Action:    queryCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Maximum number of results (config default if unset)",
					},
					&cli.Float64Flag{
						Name:  "threshold",
						Usage: "Minimum similarity score in [0,1] (config default if unset)",
						Value: -1,
					},
				},
			},
			{
				Name:      "load",
				Usage:     "Parse and chunk a document without indexing, printing chunks as JSON",
				ArgsUsage: "<path>",
				Action:    loadCommand,
			},
			{
				Name:   "list",
				Usage:  "List indexed documents",
				Action: listCommand,
			},
			{
				Name:      "delete",
				Usage:     "Remove a document from the knowledge base",
				ArgsUsage: "<path>",
				Action:    deleteCommand,
			},
			{
				Name:   "clear",
				Usage:  "Remove every document from the knowledge base",
				Action: clearCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "yes",
						Usage: "Skip the confirmation prompt",
					},
				},
			},
			{
				Name:   "stats",
				Usage:  "Show knowledge base statistics",
				Action: statsCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// setup loads .env, configures logging, and parses the configuration file.
func setup(c *cli.Context) error {
	// Missing .env is fine; malformed .env is not worth failing over either.
	_ = godotenv.Load()

	if err := setupLogger(c); err != nil {
		return err
	}

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	c.App.Metadata = map[string]any{"config": cfg}
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

func appConfig(c *cli.Context) *config.Config {
	if cfg, ok := c.App.Metadata["config"].(*config.Config); ok {
		return cfg
	}
	return config.Default()
}

// openKnowledgeBase builds the knowledge base from the parsed configuration.
// extra options come from command flags.
func openKnowledgeBase(c *cli.Context, opts ...korpus.KnowledgeBaseOption) (*korpus.KnowledgeBase, error) {
	return korpus.Open(appConfig(c), opts...)
}

func indexCommand(c *cli.Context) error {
	ctx := context.Background()
	paths := c.Args().Slice()
	if len(paths) == 0 {
		return fmt.Errorf("at least one document path is required")
	}

	cfg := appConfig(c)

	embedder, err := openai.NewEmbedder(ai.NewConfig(
		ai.WithHost(cfg.Embedding.Host),
		ai.WithModel(cfg.Embedding.Model),
		ai.WithAPIKeyEnv(cfg.Embedding.APIKeyEnv),
		ai.WithBatchSize(cfg.Embedding.BatchSize),
	))
	if err != nil {
		return err
	}

	var wrapped ai.Embedder = embedder
	if c.Int("max-retries") > 1 {
		wrapped, err = ai.NewRetryingEmbedder(embedder, c.Int("max-retries"), c.Duration("retry-delay"))
		if err != nil {
			return err
		}
	}

	kb, err := openKnowledgeBase(c,
		korpus.WithEmbedder(wrapped),
		korpus.WithWorkers(c.Int("workers")),
	)
	if err != nil {
		return err
	}
	defer kb.Close()

	if len(paths) == 1 {
		result, err := kb.IndexDocumentWithMonitor(ctx, paths[0], newProgressReporter(os.Stderr))
		if err != nil {
			return err
		}
		fmt.Printf("indexed %s (%d chunks)\n", result.Path, result.ChunksIndexed)
		return nil
	}

	outcomes, err := kb.IndexAll(ctx, paths)
	if err != nil {
		return err
	}

	failures := 0
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			failures++
			fmt.Fprintf(os.Stderr, "FAILED  %s: %v\n", outcome.Path, outcome.Err)
			continue
		}
		fmt.Printf("indexed %s (%d chunks)\n", outcome.Path, outcome.Result.ChunksIndexed)
	}
	if failures > 0 {
		return fmt.Errorf("%d of %d documents failed", failures, len(paths))
	}
	return nil
}

func queryCommand(c *cli.Context) error {
	ctx := context.Background()
	text := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("query text is required")
	}

	cfg := appConfig(c)
	topK := cfg.Retrieval.TopK
	if c.IsSet("top-k") {
		topK = c.Int("top-k")
	}
	threshold := cfg.Retrieval.ScoreThreshold
	if c.IsSet("threshold") {
		threshold = float32(c.Float64("threshold"))
	}

	kb, err := openKnowledgeBase(c)
	if err != nil {
		return err
	}
	defer kb.Close()

	results, err := kb.QueryWith(ctx, text, topK, threshold)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Println("no results")
		return nil
	}

	for i, result := range results {
		fmt.Printf("%d. [%.3f] %s", i+1, result.Score, result.Chunk.Metadata.Source)
		if result.Chunk.Metadata.Section != "" {
			fmt.Printf(" (%s)", result.Chunk.Metadata.Section)
		}
		fmt.Printf("\n%s\n\n", result.Chunk.Text)
	}
	return nil
}

func loadCommand(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("document path is required")
	}

	kb, err := openKnowledgeBase(c, korpus.WithInMemory())
	if err != nil {
		return err
	}
	defer kb.Close()

	chunks, err := kb.LoadDocument(path)
	if err != nil {
		return err
	}

	type chunkJSON struct {
		ID      string `json:"id"`
		Index   int    `json:"index"`
		Text    string `json:"text"`
		Source  string `json:"source"`
		Format  string `json:"format"`
		Section string `json:"section,omitempty"`
	}
	out := make([]chunkJSON, len(chunks))
	for i, chunk := range chunks {
		out[i] = chunkJSON{
			ID:      chunk.ID(),
			Index:   chunk.Index,
			Text:    chunk.Text,
			Source:  chunk.Metadata.Source,
			Format:  chunk.Metadata.Format,
			Section: chunk.Metadata.Section,
		}
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func listCommand(c *cli.Context) error {
	ctx := context.Background()

	kb, err := openKnowledgeBase(c)
	if err != nil {
		return err
	}
	defer kb.Close()

	docs, err := kb.ListDocuments(ctx)
	if err != nil {
		return err
	}

	if len(docs) == 0 {
		fmt.Println("knowledge base is empty")
		return nil
	}

	for _, doc := range docs {
		fmt.Printf("%s\t%s\t%d chunks\tindexed %s\n",
			doc.Source, doc.Format, doc.Chunks, doc.IndexedAt.Format(time.RFC3339))
	}
	return nil
}

func deleteCommand(c *cli.Context) error {
	ctx := context.Background()
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("document path is required")
	}

	kb, err := openKnowledgeBase(c)
	if err != nil {
		return err
	}
	defer kb.Close()

	removed, err := kb.DeleteDocument(ctx, path)
	if err != nil {
		return err
	}
	fmt.Printf("removed %d chunks for %s\n", removed, path)
	return nil
}

func clearCommand(c *cli.Context) error {
	ctx := context.Background()

	if !c.Bool("yes") {
		fmt.Print("remove ALL indexed documents? [y/N] ")
		var answer string
		fmt.Scanln(&answer)
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Println("aborted")
			return nil
		}
	}

	kb, err := openKnowledgeBase(c)
	if err != nil {
		return err
	}
	defer kb.Close()

	if err := kb.Clear(ctx); err != nil {
		return err
	}
	fmt.Println("knowledge base cleared")
	return nil
}

func statsCommand(c *cli.Context) error {
	ctx := context.Background()

	kb, err := openKnowledgeBase(c)
	if err != nil {
		return err
	}
	defer kb.Close()

	stats, err := kb.Stats(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("documents:     %d\n", stats.Documents)
	fmt.Printf("chunks:        %d\n", stats.Chunks)
	fmt.Printf("chunk size:    %d\n", stats.ChunkSize)
	fmt.Printf("chunk overlap: %d\n", stats.ChunkOverlap)
	return nil
}
