package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"supportrag/internal/index"
	"supportrag/internal/logging"
)

// NewStatusCmd constructs the `supportrag status` command, which opens the
// index and prints its state as JSON.
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the index status",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logging.New()

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("status: load config: %w", err)
			}
			store := index.NewStore(cfg.DataDir, cfg.IndexPath, cfg.Retrieval.TopK, log)
			if err := store.Open(); err != nil {
				return fmt.Errorf("status: %w", err)
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(store.Status())
		},
	}
}
