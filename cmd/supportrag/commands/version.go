package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags "-X ...commands.version=v1.2.3".
var version = "dev"

// NewVersionCmd constructs the `supportrag version` command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the supportrag version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("supportrag", version)
		},
	}
}
