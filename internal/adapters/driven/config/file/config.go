package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/docquery-cli/internal/core/domain"
)

// Default file layout under the docquery home directory.
const (
	DefaultDirName  = ".docquery"
	configFileName  = "config.toml"
	DefaultProvider = "openai"
)

// Config is the typed on-disk configuration.
type Config struct {
	// DataDir holds the index snapshot and history database.
	// Defaults to the config directory itself.
	DataDir string `toml:"data_dir,omitempty"`

	Verbose bool `toml:"verbose,omitempty"`

	Embedding EmbeddingConfig  `toml:"embedding"`
	LLM       LLMConfig        `toml:"llm"`
	Ranking   RankingConfig    `toml:"ranking,omitempty"`
	Answer    ConfidenceConfig `toml:"answer,omitempty"`
	Watch     WatchConfig      `toml:"watch,omitempty"`
}

// EmbeddingConfig selects and tunes the embedding provider.
type EmbeddingConfig struct {
	// Provider is "openai" or "ollama".
	Provider string `toml:"provider"`
	BaseURL  string `toml:"base_url,omitempty"`
	APIKey   string `toml:"api_key,omitempty"`
	Model    string `toml:"model,omitempty"`

	// Dimensions overrides the model default vector size.
	Dimensions int `toml:"dimensions,omitempty"`

	// CacheTTLSeconds and the rate limit tune the caching decorator.
	CacheTTLSeconds   int     `toml:"cache_ttl_seconds,omitempty"`
	RequestsPerSecond float64 `toml:"requests_per_second,omitempty"`
	Burst             int     `toml:"burst,omitempty"`
}

// LLMConfig selects and tunes the answer generation provider.
type LLMConfig struct {
	// Provider is "openai", "ollama", "anthropic" or "none".
	// With "none" answers fall back to templated extraction.
	Provider    string  `toml:"provider"`
	BaseURL     string  `toml:"base_url,omitempty"`
	APIKey      string  `toml:"api_key,omitempty"`
	Model       string  `toml:"model,omitempty"`
	MaxTokens   int     `toml:"max_tokens,omitempty"`
	Temperature float64 `toml:"temperature,omitempty"`
}

// RankingConfig overrides individual ranking weights. Zero values keep
// the built-in defaults; a pointer distinguishes "unset" from "zero".
type RankingConfig struct {
	Vector           *float64 `toml:"vector,omitempty"`
	Lexical          *float64 `toml:"lexical,omitempty"`
	ExactPhrase      *float64 `toml:"exact_phrase,omitempty"`
	KeywordOverlap   *float64 `toml:"keyword_overlap,omitempty"`
	MetadataMatch    *float64 `toml:"metadata_match,omitempty"`
	Question         *float64 `toml:"question,omitempty"`
	LexicalThreshold *float64 `toml:"lexical_threshold,omitempty"`
}

// ConfidenceConfig overrides individual confidence adjustments.
type ConfidenceConfig struct {
	DataBonus       *float64 `toml:"data_bonus,omitempty"`
	CoverageWeight  *float64 `toml:"coverage_weight,omitempty"`
	ShortPenalty    *float64 `toml:"short_penalty,omitempty"`
	HedgePenalty    *float64 `toml:"hedge_penalty,omitempty"`
	MinAnswerLength *int     `toml:"min_answer_length,omitempty"`
	MaxContext      *int     `toml:"max_context,omitempty"`
}

// WatchConfig configures the ingest inbox watcher.
type WatchConfig struct {
	// Dir is the directory watched for new documents.
	Dir string `toml:"dir,omitempty"`

	// DebounceMillis delays ingestion after the last write event.
	DebounceMillis int `toml:"debounce_millis,omitempty"`
}

// DefaultDir returns the docquery home directory (~/.docquery).
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, DefaultDirName), nil
}

// Load reads the config file from dir, creating the directory and
// filling defaults as needed. A missing file yields the defaults.
func Load(dir string) (*Config, error) {
	if dir == "" {
		var err error
		dir, err = DefaultDir()
		if err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}

	cfg := &Config{}
	path := filepath.Join(dir, configFileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults(dir)
	return cfg, nil
}

// Save writes the config back to dir with restricted permissions.
func (c *Config) Save(dir string) error {
	if dir == "" {
		var err error
		dir, err = DefaultDir()
		if err != nil {
			return err
		}
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, configFileName), data, 0600)
}

// applyDefaults fills unset fields. API keys fall back to the
// conventional environment variables.
func (c *Config) applyDefaults(dir string) {
	if c.DataDir == "" {
		c.DataDir = dir
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = DefaultProvider
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = DefaultProvider
	}
	if c.Embedding.APIKey == "" {
		c.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if c.LLM.APIKey == "" {
		switch c.LLM.Provider {
		case "anthropic":
			c.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		case "openai":
			c.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	}
	if c.Watch.DebounceMillis == 0 {
		c.Watch.DebounceMillis = 500
	}
}

// SnapshotPath returns the index snapshot location under DataDir.
func (c *Config) SnapshotPath() string {
	return filepath.Join(c.DataDir, "index.json")
}

// HistoryPath returns the query history database location under DataDir.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.DataDir, "history.db")
}

// RankingWeights merges configured overrides onto the defaults.
func (c *Config) RankingWeights() domain.RankingWeights {
	w := domain.DefaultRankingWeights()
	applyFloat(&w.Vector, c.Ranking.Vector)
	applyFloat(&w.Lexical, c.Ranking.Lexical)
	applyFloat(&w.ExactPhrase, c.Ranking.ExactPhrase)
	applyFloat(&w.KeywordOverlap, c.Ranking.KeywordOverlap)
	applyFloat(&w.MetadataMatch, c.Ranking.MetadataMatch)
	applyFloat(&w.Question, c.Ranking.Question)
	applyFloat(&w.LexicalThreshold, c.Ranking.LexicalThreshold)
	return w
}

// ConfidenceAdjustments merges configured overrides onto the defaults.
func (c *Config) ConfidenceAdjustments() domain.ConfidenceAdjustments {
	a := domain.DefaultConfidenceAdjustments()
	applyFloat(&a.DataBonus, c.Answer.DataBonus)
	applyFloat(&a.CoverageWeight, c.Answer.CoverageWeight)
	applyFloat(&a.ShortPenalty, c.Answer.ShortPenalty)
	applyFloat(&a.HedgePenalty, c.Answer.HedgePenalty)
	if c.Answer.MinAnswerLength != nil {
		a.MinAnswerLength = *c.Answer.MinAnswerLength
	}
	return a
}

func applyFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}
