package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/brain-battle/notes-server/notes"
	"github.com/brain-battle/notes-server/notes/orchestrator"
)

func newGenerateCmd() *cobra.Command {
	var (
		topic      string
		difficulty string
	)

	cmd := &cobra.Command{
		Use:   "generate <file>...",
		Short: "Run the pipeline over local text files and print the notes JSON",
		Args:  cobra.MinimumNArgs(1),
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

			input := &notes.AgentInput{
				Topic:      topic,
				Difficulty: difficulty,
			}
			texts := make([]string, 0, len(args))
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}
				input.FileNames = append(input.FileNames, filepath.Base(path))
				texts = append(texts, string(data))
			}
			input.DocumentText = strings.Join(texts, "\n\n")

			orch := orchestrator.New(llm, cfg.LLM.Model, logger)
			result := orch.GenerateNotes(cmd.Context(), input)

			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))

			if !result.Success {
				return fmt.Errorf("notes generation failed: %s", strings.Join(result.Errors, "; "))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&topic, "topic", "", "topic hint for the generated notes")
	cmd.Flags().StringVar(&difficulty, "difficulty", "", "target difficulty (easy|medium|hard)")

	return cmd
}
