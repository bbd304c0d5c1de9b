// Package cli implements the command-line interface (primary/driving adapter).
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	configfile "github.com/vibelab/promptrec/internal/adapters/driven/config/file"
	embedcache "github.com/vibelab/promptrec/internal/adapters/driven/embedcache/sqlite"
	"github.com/vibelab/promptrec/internal/adapters/driven/embedding/ollama"
	"github.com/vibelab/promptrec/internal/adapters/driven/embedding/openai"
	"github.com/vibelab/promptrec/internal/adapters/driven/store"
	"github.com/vibelab/promptrec/internal/core/ports/driven"
	"github.com/vibelab/promptrec/internal/core/services"
	"github.com/vibelab/promptrec/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services wired by initServices. Tests replace these directly.
var (
	promptStore driven.PromptStore
	recommender *services.Recommender
	closers     []func() error
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "promptrec",
	Short: "Prompt library with hybrid recommendations",
	Long: `promptrec stores a library of reusable prompts and recommends the
best ones for a task. Recommendations combine keyword matching with
semantic (vector) similarity.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		switch cmd.Name() {
		case "version", "help", "completion":
			return nil
		}
		return initServices(cmd.Context())
	},
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		return closeServices()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.promptrec/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initServices wires the store, embedder and recommendation engine from the
// configuration. Idempotent: already-wired services (including test doubles)
// are kept.
func initServices(ctx context.Context) error {
	if recommender != nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := configfile.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	promptStore, err = store.Select(ctx, store.Options{
		RemoteURL: cfg.Remote.URL,
		RemoteKey: cfg.Remote.Key,
		LocalPath: cfg.Store.Path,
	})
	if err != nil {
		return fmt.Errorf("open prompt store: %w", err)
	}
	closers = append(closers, promptStore.Close)

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return err
	}
	if embedder != nil {
		closers = append(closers, embedder.Close)
	}

	var cache driven.EmbeddingCache
	if embedder != nil {
		sqlCache, err := embedcache.NewCache(cfg.Data.Dir)
		if err != nil {
			// A broken cache only costs re-embedding, never the command.
			logger.Warn("Embedding cache unavailable: %v", err)
		} else {
			cache = sqlCache
			closers = append(closers, sqlCache.Close)
		}
	}

	builder := services.NewIndexBuilder(embedder, cache)
	recommender = services.NewRecommender(
		promptStore,
		services.NewKeywordScorer(services.DefaultVocabulary()),
		builder,
	)
	return nil
}

// buildEmbedder constructs the configured embedding provider. An empty or
// "none" provider disables the vector leg: keyword mode still works and
// hybrid mode degrades.
func buildEmbedder(cfg *configfile.Config) (driven.EmbeddingService, error) {
	switch strings.ToLower(cfg.Embedding.Provider) {
	case "", "none":
		logger.Debug("No embedding provider configured")
		return nil, nil
	case "openai":
		return openai.NewEmbeddingService(openai.Config{
			APIKey:  cfg.Embedding.APIKey,
			BaseURL: cfg.Embedding.BaseURL,
			Model:   cfg.Embedding.Model,
		})
	case "ollama":
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL: cfg.Embedding.BaseURL,
			Model:   cfg.Embedding.Model,
		}), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Embedding.Provider)
	}
}

func closeServices() error {
	var firstErr error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	closers = nil
	return firstErr
}
