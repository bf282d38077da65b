// Package cli implements the notes-server command line.
package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/brain-battle/notes-server/config"
	"github.com/brain-battle/notes-server/llm/providers"
	"github.com/brain-battle/notes-server/llm/providers/openai"
	"github.com/brain-battle/notes-server/llm/providers/openrouter"
	"github.com/brain-battle/notes-server/llm/providers/shared"
)

var cfgFile string

// NewRootCmd builds the root command with its subcommands.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "notes-server",
		Short: "Turns uploaded study documents into structured study notes",
		Long: `notes-server runs the Brain Battle notes-generation pipeline: five
LLM agents extract, classify, organize, and question a set of uploaded
study documents, and the results are assembled into one StudyNotes
document.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./config.yaml)")

	root.AddCommand(newServeCmd())
	root.AddCommand(newGenerateCmd())

	return root
}

// Execute runs the CLI.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
}

// buildProvider registers the configured backends and returns the one
// the config selects.
func buildProvider(cfg *config.Config) (shared.LLMProvider, error) {
	registry := providers.NewRegistry()

	switch cfg.LLM.Provider {
	case "openai":
		p, err := openai.NewProvider(openai.Config{
			APIKey:  cfg.LLM.APIKey,
			BaseURL: cfg.LLM.BaseURL,
		})
		if err != nil {
			return nil, err
		}
		registry.Register(p.Name(), p)
	case "openrouter":
		p, err := openrouter.NewProvider(openrouter.Config{
			APIKey:  cfg.LLM.APIKey,
			BaseURL: cfg.LLM.BaseURL,
			Timeout: cfg.LLM.Timeout,
		})
		if err != nil {
			return nil, err
		}
		registry.Register(p.Name(), p)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.LLM.Provider)
	}

	return registry.Get(cfg.LLM.Provider)
}
