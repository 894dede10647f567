// Package cli implements the docquery command-line interface.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/docquery-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docquery-cli/internal/adapters/driven/embedding/cached"
	ollamaembed "github.com/custodia-labs/docquery-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/docquery-cli/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/custodia-labs/docquery-cli/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/docquery-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/docquery-cli/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/docquery-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docquery-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docquery-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docquery-cli/internal/core/services"
	"github.com/custodia-labs/docquery-cli/internal/index/lexical"
	"github.com/custodia-labs/docquery-cli/internal/index/vector"
	"github.com/custodia-labs/docquery-cli/internal/logger"
	"github.com/custodia-labs/docquery-cli/internal/segmenter"
)

// Persistent flags.
var (
	verbose   bool
	configDir string
)

// Wired services. Tests replace these with mocks.
var (
	cfg           *configfile.Config
	vectorStore   *vector.Store
	lexicalStore  *lexical.Store
	historyStore  driven.HistoryStore
	embedService  driven.EmbeddingService
	llmService    driven.LLMService
	ingestService driving.IngestService
	answerService driving.AnswerService
)

var rootCmd = &cobra.Command{
	Use:   "docquery",
	Short: "Ask questions about your documents",
	Long: `docquery ingests text documents into a local vector index and
answers natural-language questions about them with cited sources.`,
	SilenceUsage:      true,
	PersistentPreRunE: initApp,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.docquery)")
}

// Execute runs the CLI and releases resources on exit.
func Execute() error {
	defer closeApp()
	return rootCmd.Execute()
}

// initApp loads configuration and wires the service graph. The version
// command runs without it.
func initApp(cmd *cobra.Command, _ []string) error {
	switch cmd.Name() {
	case "version", "help", "completion":
		return nil
	}

	// Wired already (tests inject their own services)
	if answerService != nil || ingestService != nil {
		return nil
	}

	var err error
	cfg, err = configfile.Load(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger.SetVerbose(verbose || cfg.Verbose)

	embedService, err = buildEmbedder(cfg)
	if err != nil {
		return err
	}

	llmService, err = buildLLM(cfg)
	if err != nil {
		return err
	}

	vectorStore = vector.New(embedService,
		vector.WithSnapshotPath(cfg.SnapshotPath()),
		vector.WithWeights(cfg.RankingWeights()),
	)
	lexicalStore = lexical.New(lexical.WithWeights(cfg.RankingWeights()))
	seedLexical()

	historyStore, err = sqlite.NewHistoryStore(cfg.HistoryPath())
	if err != nil {
		logger.Warn("History store unavailable: %v", err)
		historyStore = nil
	}

	ingestService = services.NewIngestService(segmenter.New(), vectorStore, lexicalStore)

	answerOpts := []services.AnswerOption{
		services.WithConfidenceAdjustments(cfg.ConfidenceAdjustments()),
	}
	if historyStore != nil {
		answerOpts = append(answerOpts, services.WithHistoryStore(historyStore))
	}
	if cfg.Answer.MaxContext != nil {
		answerOpts = append(answerOpts, services.WithMaxContextLength(*cfg.Answer.MaxContext))
	}
	answerService = services.NewAnswerService(vectorStore, lexicalStore, llmService, answerOpts...)

	return nil
}

// seedLexical replays the vector snapshot into the in-memory lexical
// store so keyword fallback works across restarts.
func seedLexical() {
	docs := vectorStore.GetAll()
	if len(docs) == 0 {
		return
	}
	entries := make([]lexical.Entry, len(docs))
	for i, d := range docs {
		entries[i] = lexical.Entry{ID: d.ID, Text: d.Text, Metadata: d.Metadata}
	}
	if err := lexicalStore.Add(entries); err != nil {
		logger.Warn("Lexical seed failed: %v", err)
	}
}

func buildEmbedder(cfg *configfile.Config) (driven.EmbeddingService, error) {
	var inner driven.EmbeddingService

	switch cfg.Embedding.Provider {
	case "openai":
		svc, err := openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     cfg.Embedding.APIKey,
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
		})
		if err != nil {
			return nil, fmt.Errorf("embedding provider: %w", err)
		}
		inner = svc
	case "ollama":
		inner = ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
		})
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Embedding.Provider)
	}

	var opts []cached.Option
	if cfg.Embedding.CacheTTLSeconds > 0 {
		opts = append(opts, cached.WithTTL(time.Duration(cfg.Embedding.CacheTTLSeconds)*time.Second))
	}
	if cfg.Embedding.RequestsPerSecond > 0 && cfg.Embedding.Burst > 0 {
		opts = append(opts, cached.WithRateLimit(cfg.Embedding.RequestsPerSecond, cfg.Embedding.Burst))
	}
	return cached.New(inner, opts...), nil
}

func buildLLM(cfg *configfile.Config) (driven.LLMService, error) {
	switch cfg.LLM.Provider {
	case "none":
		return nil, nil
	case "openai":
		return openaillm.NewLLMService(openaillm.Config{
			APIKey:  cfg.LLM.APIKey,
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
		})
	case "ollama":
		return ollamallm.NewLLMService(ollamallm.Config{
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
		}), nil
	case "anthropic":
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  cfg.LLM.APIKey,
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
		})
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}
}

// closeApp releases wired resources. Safe to call with partial wiring.
func closeApp() {
	if vectorStore != nil {
		if err := vectorStore.Close(); err != nil {
			logger.Warn("Closing vector store: %v", err)
		}
	}
	if historyStore != nil {
		if err := historyStore.Close(); err != nil {
			logger.Warn("Closing history store: %v", err)
		}
	}
	if embedService != nil {
		_ = embedService.Close()
	}
	if llmService != nil {
		_ = llmService.Close()
	}
}
