// Copyright 2026 CoolTech Labs
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
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/cooltech/fridgebot"
	"github.com/cooltech/fridgebot/ai"
	"github.com/cooltech/fridgebot/catalog"
	"github.com/cooltech/fridgebot/chat"
	"github.com/cooltech/fridgebot/guard"
	"github.com/cooltech/fridgebot/retrieval"
)

func main() {
	app := &cli.App{
		Name:  "fridgebot",
		Usage: "Retrieval-grounded sales assistant for the refrigerator catalog",
		Flags: []cli.Flag{
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
				Name:   "chat",
				Usage:  "Start an interactive chat session against the catalog",
				Action: chatCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "host",
						Usage: "OpenAI-compatible service host URL for both embedding and chat",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL (defaults to host)",
					},
					&cli.StringFlag{
						Name:  "chat-host",
						Usage: "Chat service host URL (defaults to host)",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "embeddinggemma",
					},
					&cli.StringFlag{
						Name:  "chat-model",
						Usage: "Chat model name",
						Value: "llama-3.3-70b-versatile",
					},
					&cli.Float64Flag{
						Name:  "temperature",
						Usage: "Generation temperature",
						Value: 0.8,
					},
					&cli.IntFlag{
						Name:  "max-tokens",
						Usage: "Completion token cap",
						Value: 1024,
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Number of catalog entries retrieved per question",
						Value: retrieval.DefaultTopK,
					},
					&cli.Float64Flag{
						Name:  "min-similarity",
						Usage: "Similarity floor below which retrieved entries are discarded",
						Value: retrieval.DefaultMinSimilarity,
					},
					&cli.IntFlag{
						Name:  "max-repairs",
						Usage: "Maximum repair attempts for answers that fail validation",
						Value: guard.DefaultMaxRepairs,
					},
					&cli.StringFlag{
						Name:  "index-cache",
						Usage: "Path to an index snapshot file reused across runs",
					},
					&cli.StringFlag{
						Name:  "session",
						Usage: "Session identifier (defaults to a fresh UUID)",
					},
				},
			},
			{
				Name:   "seed",
				Usage:  "Load the demo refrigerator lineup into the catalog",
				Action: seedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
				},
			},
			{
				Name:   "stats",
				Usage:  "Print summary statistics for the stored catalog",
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

func chatCommand(c *cli.Context) error {
	ctx := context.Background()

	// Per-concern hosts fall back to the shared host flag.
	embeddingHost := c.String("embedding-host")
	if embeddingHost == "" {
		embeddingHost = c.String("host")
	}
	chatHost := c.String("chat-host")
	if chatHost == "" {
		chatHost = c.String("host")
	}

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(embeddingHost),
		ai.WithChatHost(chatHost),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithChatModel(c.String("chat-model")),
		ai.WithTemperature(c.Float64("temperature")),
		ai.WithMaxTokens(c.Int("max-tokens")),
		ai.WithAPIKey(os.Getenv("FRIDGEBOT_API_KEY")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	minSimilarity := c.Float64("min-similarity")
	topK := c.Int("top-k")
	if topK <= 0 {
		return fmt.Errorf("top-k must be greater than 0")
	}
	maxRepairs := c.Int("max-repairs")
	if maxRepairs < 0 {
		return fmt.Errorf("max-repairs must not be negative")
	}

	assistant, err := fridgebot.NewAssistant(c.String("db"),
		fridgebot.WithAIConfig(aiConfig),
		fridgebot.WithRetrievalOptions(retrieval.WithMinSimilarity(float32(minSimilarity))),
		fridgebot.WithGuardOptions(guard.WithMaxRepairs(maxRepairs)),
		fridgebot.WithChatOptions(chat.WithTopK(topK)),
	)
	if err != nil {
		return fmt.Errorf("failed to create assistant: %w", err)
	}
	defer assistant.Close()

	count, err := assistant.Catalog().Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to read catalog: %w", err)
	}
	if count == 0 {
		fmt.Fprintln(os.Stderr, "Catalog is empty. Run `fridgebot seed` first.")
		return nil
	}

	if err := prepareIndex(ctx, assistant, c.String("index-cache")); err != nil {
		return err
	}

	sessionID := c.String("session")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	fmt.Fprintf(os.Stderr, "Catalog: %d products, session %s\n", count, sessionID)
	fmt.Fprintln(os.Stderr, "Type a question, `reset` to clear the session, or `exit` to leave.")
	fmt.Fprintln(os.Stderr)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("you> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "exit", "quit":
			return scanner.Err()
		case "reset":
			if err := assistant.EndSession(sessionID); err != nil && !errors.Is(err, chat.ErrSessionNotFound) {
				return err
			}
			fmt.Fprintln(os.Stderr, "Session cleared.")
			continue
		}

		result, err := assistant.Chat(ctx, sessionID, line)
		if err != nil {
			slog.Error("turn failed", "error", err)
			continue
		}

		fmt.Printf("alex> %s\n\n", result.Answer)
		if len(result.RetrievedIDs) > 0 {
			slog.Debug("turn grounded",
				"outcome", result.Outcome,
				"retrieved", strings.Join(result.RetrievedIDs, ","))
		}
	}

	return scanner.Err()
}

// prepareIndex restores the vector index from a snapshot file when one is
// present, and rebuilds from the stored catalog otherwise. A fresh rebuild is
// written back to the cache path when one was given.
func prepareIndex(ctx context.Context, assistant *fridgebot.Assistant, cachePath string) error {
	if cachePath != "" {
		bs, err := os.ReadFile(cachePath)
		switch {
		case err == nil:
			loadErr := assistant.LoadIndex(bs)
			if loadErr == nil {
				slog.Info("index restored from snapshot", "path", cachePath)
				return nil
			}
			slog.Warn("index snapshot unusable, rebuilding", "path", cachePath, "error", loadErr)
		case !os.IsNotExist(err):
			return fmt.Errorf("failed to read index snapshot: %w", err)
		}
	}

	slog.Info("building vector index from catalog")
	if err := assistant.RebuildIndex(ctx); err != nil {
		return fmt.Errorf("failed to build index: %w", err)
	}

	if cachePath != "" {
		bs, err := assistant.SaveIndex()
		if err != nil {
			return fmt.Errorf("failed to encode index snapshot: %w", err)
		}
		if err := os.WriteFile(cachePath, bs, 0o644); err != nil {
			return fmt.Errorf("failed to write index snapshot: %w", err)
		}
		slog.Info("index snapshot written", "path", cachePath)
	}

	return nil
}

func seedCommand(c *cli.Context) error {
	ctx := context.Background()

	store, err := catalog.OpenStore(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer store.Close()

	records := catalog.Demo()
	if err := store.ReplaceAll(ctx, records); err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}

	revision, err := store.Revision(ctx)
	if err != nil {
		return fmt.Errorf("failed to read catalog revision: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Seeded %d products (revision %016x)\n", len(records), revision)
	return nil
}

func statsCommand(c *cli.Context) error {
	ctx := context.Background()

	store, err := catalog.OpenStore(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer store.Close()

	stats, err := store.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to compute stats: %w", err)
	}

	fmt.Printf("Products:   %d\n", stats.TotalProducts)
	fmt.Printf("Categories: %s\n", strings.Join(stats.Categories, ", "))
	fmt.Printf("Price:      %s - %s\n", stats.PriceRange.Min, stats.PriceRange.Max)
	fmt.Printf("Capacity:   %s - %s\n", stats.CapacityRange.Min, stats.CapacityRange.Max)
	return nil
}

func setup(c *cli.Context) error {
	// A .env file is optional. When present it supplies FRIDGEBOT_API_KEY
	// for hosted providers.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

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
