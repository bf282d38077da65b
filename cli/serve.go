package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brain-battle/notes-server/api/server"
	"github.com/brain-battle/notes-server/notes/orchestrator"
	"github.com/brain-battle/notes-server/storage"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the notes HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			llm, err := buildProvider(cfg)
			if err != nil {
				return err
			}

			store, err := storage.Open(cmd.Context(), cfg.Storage)
			if err != nil {
				return fmt.Errorf("open storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			orch := orchestrator.New(llm, cfg.LLM.Model, logger)

			srv := server.NewServer(server.Config{Address: cfg.Server.Address}, orch, store, logger)
			return srv.Start()
		},
	}
}
