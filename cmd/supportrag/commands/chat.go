package commands

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"supportrag/internal/logging"
	"supportrag/internal/tui"
)

// NewChatCmd constructs the `supportrag chat` command, an interactive
// terminal chat over the same answering service the HTTP server uses.
func NewChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Chat with the support-log assistant in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logging.New()

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("chat: load config: %w", err)
			}
			store, svc, err := buildService(cfg, log)
			if err != nil {
				return fmt.Errorf("chat: %w", err)
			}

			m := tui.New(svc, store.Status())
			if _, err := tea.NewProgram(m).Run(); err != nil {
				return fmt.Errorf("chat: %w", err)
			}
			return nil
		},
	}
}
