// Package commands defines the Cobra CLI commands for the supportrag binary.
package commands

import (
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"supportrag/internal/answer"
	"supportrag/internal/config"
	"supportrag/internal/index"
	"supportrag/internal/llm"
)

// configPath holds the --config flag value.
var configPath string

// NewRootCmd constructs the root Cobra command that all subcommands attach to.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "supportrag",
		Short: "Retrieval-augmented answering over tabular support logs",
		Long: `supportrag indexes tabular support-log files (CSV and JSON lines) into a
keyword-similarity index, retrieves the most relevant records for a query,
and answers via an external completion API, flagging interactions that
should be escalated to a human agent.

The generation credential is read from the environment variable named in
the config (default PERPLEXITY_API_KEY) or supplied per request.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file (default: ./config.yaml, then ~/.config/supportrag/config.yaml)")

	root.AddCommand(
		NewServeCmd(),
		NewChatCmd(),
		NewRebuildCmd(),
		NewStatusCmd(),
		NewVersionCmd(),
	)

	return root
}

// loadConfig resolves the configuration from the --config flag or the
// default search paths.
func loadConfig() (*config.AppConfig, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	cfg, _, err := config.LoadDefault()
	return cfg, err
}

// buildService opens the index store and wires the answering service.
func buildService(cfg *config.AppConfig, log *slog.Logger) (*index.Store, *answer.Service, error) {
	store := index.NewStore(cfg.DataDir, cfg.IndexPath, cfg.Retrieval.TopK, log)
	if err := store.Open(); err != nil {
		return nil, nil, err
	}

	client := llm.NewClient(llm.Config{
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     time.Duration(cfg.LLM.TimeoutSecs) * time.Second,
	})

	svc := answer.NewService(store, client, answer.Config{
		APIKey:              os.Getenv(cfg.LLM.APIKeyEnv),
		FinalK:              cfg.Retrieval.FinalK,
		MaxContextChars:     cfg.Retrieval.MaxContextChars,
		SimilarityThreshold: cfg.Retrieval.SimilarityThreshold,
	}, log)

	return store, svc, nil
}
