package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"trivia-service/internal/config"
	"trivia-service/internal/domain"
	"trivia-service/internal/infra/postgres"
)

// NewSeedCmd loads a clue corpus dump (JSON array) into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load clues from a JSON dump into the corpus",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Postgres.URL == "" {
				return fmt.Errorf("postgres url not configured")
			}

			logger, err := zap.NewProduction()
			if err != nil {
				return err
			}
			defer logger.Sync()

			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read clue dump: %w", err)
			}
			var clues []domain.Clue
			if err := json.Unmarshal(data, &clues); err != nil {
				return fmt.Errorf("parse clue dump: %w", err)
			}

			db := openBun(cfg.Postgres.URL)
			defer db.Close()

			if err := postgres.InsertClues(cmd.Context(), db, clues); err != nil {
				return err
			}
			logger.Info("corpus seeded", zap.Int("clues", len(clues)))
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "clues.json", "path to the JSON clue dump")
	return cmd
}
