package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"supportrag/internal/index"
	"supportrag/internal/logging"
)

// NewRebuildCmd constructs the `supportrag rebuild` command, which discards
// any persisted index and performs a full offline build pass.
func NewRebuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild",
		Short: "Rebuild the index from the data directory",
		Long: `Rebuild the keyword-similarity index from scratch.

New data files are only picked up by a full rebuild; the index is never
partially updated. Run this offline, not against a serving process.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logging.New()

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("rebuild: load config: %w", err)
			}
			store := index.NewStore(cfg.DataDir, cfg.IndexPath, cfg.Retrieval.TopK, log)
			if err := store.Rebuild(); err != nil {
				return fmt.Errorf("rebuild: %w", err)
			}
			st := store.Status()
			fmt.Printf("index rebuilt: %s, %d documents\n", st.State, st.DocCount)
			return nil
		},
	}
}
