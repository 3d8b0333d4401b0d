// Copyright 2025 Poiesic Systems
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
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/lexlink"
	"github.com/poiesic/lexlink/ai"
	"github.com/poiesic/lexlink/ai/hash"
	"github.com/poiesic/lexlink/ai/openai"
	"github.com/poiesic/lexlink/annotate"
	"github.com/poiesic/lexlink/core"
	"github.com/poiesic/lexlink/lexicon"
	"github.com/poiesic/lexlink/semantic"
	badgerstore "github.com/poiesic/lexlink/storage/badger"
	"github.com/poiesic/lexlink/token"
	"github.com/poiesic/lexlink/vectorize"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "lexlink",
		Usage: "Dictionary and pattern based concept extraction",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "seed",
				Usage:  "Load a lexicon from CSV/JSON sources into the database",
				Action: seedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "concepts",
						Usage:    "Path to the concept CSV file",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "patterns",
						Usage: "Path to the combined-pattern JSON file",
					},
				},
			},
			{
				Name:   "annotate",
				Usage:  "Annotate text against the seeded lexicon",
				Action: annotateCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "text",
						Usage: "Text to annotate (reads stdin when omitted)",
					},
					&cli.Float64Flag{
						Name:  "min-confidence",
						Usage: "Drop annotations below this confidence",
					},
					&cli.StringFlag{
						Name:  "semantic",
						Usage: "Semantic fallback backend: none, local, or openai",
						Value: "none",
					},
					&cli.Float64Flag{
						Name:  "min-similarity",
						Usage: "Minimum cosine similarity for semantic matches",
						Value: semantic.DefaultMinSimilarity,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL (openai backend)",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name (openai backend)",
					},
				},
			},
			{
				Name:   "embed",
				Usage:  "Fill in concept embedding vectors for the semantic index",
				Action: embedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "backend",
						Usage: "Embedding backend: local or openai",
						Value: "local",
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL (openai backend)",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name (openai backend)",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of concepts to embed in each batch",
						Value: vectorize.DefaultBatchSize,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed embedding calls",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: time.Second,
					},
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Re-embed concepts that already have vectors",
					},
				},
			},
			{
				Name:   "stats",
				Usage:  "Print lexicon statistics",
				Action: statsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func seedCommand(c *cli.Context) error {
	records, err := lexicon.ReadConceptsFile(c.String("concepts"))
	if err != nil {
		return fmt.Errorf("failed to read concepts: %w", err)
	}

	var patterns []*core.CombinedPattern
	if path := c.String("patterns"); path != "" {
		patterns, err = lexicon.ReadPatternsFile(path)
		if err != nil {
			return fmt.Errorf("failed to read patterns: %w", err)
		}
	}

	engine, err := lexlink.Open(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer engine.Close()

	if err := engine.Seed(context.Background(), records, patterns); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Seeded %d concepts, %d patterns\n",
		engine.Lexicon().Len(), len(engine.Lexicon().Patterns()))
	return nil
}

// annotationOutput is the JSON shape written per annotation.
type annotationOutput struct {
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Surface    string  `json:"surface"`
	CUI        string  `json:"cui"`
	Name       string  `json:"name,omitempty"`
	Confidence float32 `json:"confidence"`
	Source     string  `json:"source"`
}

func annotateCommand(c *cli.Context) error {
	engine, err := lexlink.Open(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer engine.Close()

	text := c.String("text")
	if text == "" {
		data, err := readAllStdin()
		if err != nil {
			return err
		}
		text = data
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("no text to annotate")
	}

	var opts []annotate.Option
	if c.IsSet("min-confidence") {
		opts = append(opts, annotate.WithMinConfidence(float32(c.Float64("min-confidence"))))
	}

	fallback, err := buildFallback(c, engine)
	if err != nil {
		return err
	}
	if fallback != nil {
		opts = append(opts,
			annotate.WithFallback(fallback),
			annotate.WithMinSimilarity(float32(c.Float64("min-similarity"))),
		)
	}

	annotator, err := engine.NewAnnotator(opts...)
	if err != nil {
		return fmt.Errorf("failed to create annotator: %w", err)
	}

	doc := token.Document("stdin", text)
	annotations, err := annotator.Annotate(context.Background(), doc)
	if err != nil {
		return fmt.Errorf("annotation failed: %w", err)
	}

	out := make([]annotationOutput, 0, len(annotations))
	for _, a := range annotations {
		out = append(out, annotationOutput{
			Start:      a.Start,
			End:        a.End,
			Surface:    text[a.Start:a.End],
			CUI:        string(a.CUI),
			Name:       engine.Lexicon().PreferredName(a.CUI),
			Confidence: a.Confidence,
			Source:     a.Source.String(),
		})
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// buildFallback wires the semantic backend selected by the --semantic flag.
// Returns nil when the fallback is disabled or the lexicon carries no vectors.
func buildFallback(c *cli.Context, engine *lexlink.Engine) (semantic.Fallback, error) {
	mode := strings.ToLower(c.String("semantic"))
	switch mode {
	case "", "none":
		return nil, nil
	case "local", "openai":
	default:
		return nil, fmt.Errorf("unknown semantic backend %q: must be none, local, or openai", mode)
	}

	index, err := semantic.NewIndex(engine.Lexicon().Concepts())
	if err != nil {
		return nil, fmt.Errorf("failed to build semantic index: %w", err)
	}
	if index.Len() == 0 {
		fmt.Fprintln(os.Stderr, "Warning: no concept vectors in lexicon, semantic fallback disabled")
		return nil, nil
	}

	var embedder ai.Embedder
	if mode == "local" {
		embedder = hash.NewWithDimension(index.Dims())
	} else {
		config := ai.NewConfig(
			ai.WithHost(c.String("embedding-host")),
			ai.WithEmbeddingModel(c.String("embedding-model")),
		)
		if err := config.Validate(); err != nil {
			return nil, fmt.Errorf("invalid embedding configuration: %w", err)
		}
		embedder, err = openai.NewEmbedder(config)
		if err != nil {
			return nil, fmt.Errorf("failed to create embedder: %w", err)
		}
	}

	return semantic.NewBackend(mode, embedder, index)
}

func embedCommand(c *cli.Context) error {
	backend, err := badgerstore.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()
	repo := badgerstore.NewLexiconRepository(backend)

	var embedder ai.Embedder
	switch mode := strings.ToLower(c.String("backend")); mode {
	case "local":
		embedder = hash.New()
	case "openai":
		config := ai.NewConfig(
			ai.WithHost(c.String("embedding-host")),
			ai.WithEmbeddingModel(c.String("embedding-model")),
		)
		if err := config.Validate(); err != nil {
			return fmt.Errorf("invalid embedding configuration: %w", err)
		}
		provider, err := openai.NewProvider(config)
		if err != nil {
			return fmt.Errorf("failed to create embedding provider: %w", err)
		}
		defer provider.Close()
		embedder = provider.Embedder()
	default:
		return fmt.Errorf("unknown embedding backend %q: must be local or openai", mode)
	}

	config := vectorize.DefaultConfig()
	config.BatchSize = c.Int("batch-size")
	config.MaxRetries = c.Int("max-retries")
	config.RetryDelay = c.Duration("retry-delay")
	config.Force = c.Bool("force")

	vectorizer := vectorize.NewVectorizer(repo, embedder, config, os.Stderr)
	if err := vectorizer.Run(context.Background()); err != nil {
		return fmt.Errorf("vectorization failed: %w", err)
	}
	return nil
}

func statsCommand(c *cli.Context) error {
	engine, err := lexlink.Open(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer engine.Close()

	db := engine.Lexicon()

	names := 0
	vectors := 0
	for _, concept := range db.Concepts() {
		names += len(concept.Names)
		if len(concept.Vector) > 0 {
			vectors++
		}
	}

	fmt.Printf("Concepts:        %d\n", db.Len())
	fmt.Printf("Names:           %d\n", names)
	fmt.Printf("Patterns:        %d\n", len(db.Patterns()))
	fmt.Printf("With vectors:    %d\n", vectors)
	fmt.Printf("Max name tokens: %d\n", db.MaxNameTokens())
	return nil
}

func readAllStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
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
