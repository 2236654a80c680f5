// Package cli implements the docent command line interface.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/docent-dev/docent/internal/adapters/driven/ai"
	"github.com/docent-dev/docent/internal/adapters/driven/ai/retry"
	configfile "github.com/docent-dev/docent/internal/adapters/driven/config/file"
	"github.com/docent-dev/docent/internal/adapters/driven/storage/bolt"
	"github.com/docent-dev/docent/internal/adapters/driven/storage/file"
	"github.com/docent-dev/docent/internal/adapters/driven/storage/sqlite"
	"github.com/docent-dev/docent/internal/core/ports/driven"
	"github.com/docent-dev/docent/internal/core/ports/driving"
	"github.com/docent-dev/docent/internal/core/services"
	"github.com/docent-dev/docent/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services wired by initServices and consumed by the commands.
var (
	assistantService driving.AssistantService
	aiService        driven.AIService
	answerCache      driven.AnswerCache
	conversations    driven.ConversationStore
	queryRouter      *services.Router
	aiAvailable      bool
	closers          []io.Closer
)

// Persistent flags.
var (
	flagUser    int64
	flagConfig  string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "docent",
	Short: "Ask questions against your personal document collection",
	Long: `Docent keeps a per-user collection of documents and answers
questions from it: each question is routed to a search strategy,
matched against document summaries by vector similarity, and answered
by a language model grounded in the most relevant excerpts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(flagVerbose)
		return initServices()
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		closeServices()
	},
}

func init() {
	rootCmd.PersistentFlags().Int64VarP(&flagUser, "user", "u", 1, "User id owning the documents")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config directory (default: ~/.docent)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Verbose output")
}

// Execute runs the root command.
func Execute() error {
	defer closeServices()
	return rootCmd.Execute()
}

// initServices loads the configuration and wires the service graph:
// storage backends, the decorated AI client, and the assistant core.
// Safe to call more than once; the graph is built on the first call.
func initServices() error {
	if assistantService != nil {
		return nil
	}

	configDir := flagConfig
	if configDir == "" {
		dir, err := configfile.DefaultDir()
		if err != nil {
			return err
		}
		configDir = dir
	}
	cfg, err := configfile.Load(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	dataDir := cfg.Storage.DataDir
	if dataDir == "" {
		dataDir = filepath.Join(configDir, "data")
	}

	docs, cache, history, err := openMetadataBackend(cfg, dataDir)
	if err != nil {
		return err
	}
	blobs, err := openBlobBackend(cfg, dataDir)
	if err != nil {
		return err
	}
	closers = append(closers, blobs)

	aiService = buildAIService(cfg)

	assistantService = services.NewAssistant(aiService, docs, blobs, cache, history, services.Options{
		SummaryMaxLen:       cfg.Search.SummaryMaxChars,
		SummarizeInputChars: cfg.Search.SummarizeInputChars,
		SmallDocChars:       cfg.Search.SmallDocChars,
		ExtractChunkSize:    cfg.Search.ExtractChunkSize,
		ExtractMaxChunks:    cfg.Search.ExtractMaxChunks,
		MaxDocTokens:        cfg.Search.MaxDocTokens,
		MaxContextTokens:    cfg.Search.MaxContextTokens,
		HistoryLimit:        cfg.History.GenerationLimit,
	})
	answerCache = cache
	conversations = history
	queryRouter = services.NewRouter()
	return nil
}

// openMetadataBackend opens the configured document, cache and
// conversation stores.
func openMetadataBackend(cfg configfile.Config, dataDir string) (driven.DocumentStore, driven.AnswerCache, driven.ConversationStore, error) {
	ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second

	switch cfg.Storage.Backend {
	case "sqlite":
		store, err := sqlite.NewStore(dataDir)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("opening sqlite backend: %w", err)
		}
		closers = append(closers, store)
		return store.DocumentStore(), store.AnswerCache(ttl), store.ConversationStore(cfg.History.MaxPairs), nil

	case "", "file":
		docs, err := file.NewDocStore(dataDir)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("opening document store: %w", err)
		}
		cache, err := file.NewAnswerCache(dataDir, ttl)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("opening answer cache: %w", err)
		}
		history, err := file.NewHistoryStore(dataDir, cfg.History.MaxPairs)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("opening history store: %w", err)
		}
		return docs, cache, history, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// openBlobBackend opens the configured full-text store.
func openBlobBackend(cfg configfile.Config, dataDir string) (driven.BlobStore, error) {
	switch cfg.Storage.BlobBackend {
	case "bolt":
		blobs, err := bolt.NewBlobStore(dataDir)
		if err != nil {
			return nil, fmt.Errorf("opening bolt blob store: %w", err)
		}
		return blobs, nil

	case "", "file":
		blobs, err := file.NewBlobStore(dataDir)
		if err != nil {
			return nil, fmt.Errorf("opening blob store: %w", err)
		}
		return blobs, nil

	default:
		return nil, fmt.Errorf("unknown blob backend %q", cfg.Storage.BlobBackend)
	}
}

// buildAIService creates the decorated model client from the
// configuration. Without an API key the assistant still serves
// document management and cache inspection; only ask and add are
// gated.
func buildAIService(cfg configfile.Config) driven.AIService {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		aiAvailable = false
		return nil
	}

	svc, err := ai.New(ai.Settings{
		APIKey:            apiKey,
		BaseURL:           cfg.AI.BaseURL,
		ChatModel:         cfg.AI.ChatModel,
		EmbeddingModel:    cfg.AI.EmbeddingModel,
		RequestsPerSecond: cfg.AI.RequestsPerSecond,
		BurstSize:         cfg.AI.BurstSize,
		Retry: retry.Policy{
			MaxRetries:   cfg.Retry.MaxRetries,
			InitialDelay: time.Duration(cfg.Retry.InitialDelaySeconds * float64(time.Second)),
			MaxDelay:     time.Duration(cfg.Retry.MaxDelaySeconds * float64(time.Second)),
			Base:         cfg.Retry.Base,
		},
	})
	if err != nil {
		logger.Error("AI client unavailable: %v", err)
		aiAvailable = false
		return nil
	}

	closers = append(closers, svc)
	aiAvailable = true
	return svc
}

// requireAI guards the commands that call the model.
func requireAI() error {
	if !aiAvailable {
		return fmt.Errorf("OPENAI_API_KEY is not set")
	}
	return nil
}

// closeServices releases every backend opened by initServices.
func closeServices() {
	for _, c := range closers {
		if err := c.Close(); err != nil {
			logger.Error("Close failed: %v", err)
		}
	}
	closers = nil
}
