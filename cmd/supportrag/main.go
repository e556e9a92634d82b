// Command supportrag is the entry point for the support-log retrieval and
// escalation service. It offers an HTTP server, an interactive terminal
// chat, and index maintenance commands.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"supportrag/cmd/supportrag/commands"
)

func main() {
	_ = godotenv.Load()

	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
