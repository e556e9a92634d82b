package commands

import (
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"supportrag/internal/logging"
	"supportrag/internal/server"
)

// NewServeCmd constructs the `supportrag serve` command, which builds or
// loads the index and starts the HTTP server.
func NewServeCmd() *cobra.Command {
	var host string
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the supportrag HTTP server",
		Long: `Start the supportrag HTTP server.

The index is built from the data directory on first start and loaded from
its persisted cache afterwards. The server exposes POST /chat, GET /status,
GET /healthz, and GET /metrics.

Examples:
  supportrag serve
  supportrag serve --port 8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log := logging.New()

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("serve: load config: %w", err)
			}
			if host != "" {
				cfg.Server.Host = host
			}
			if port != 0 {
				cfg.Server.Port = port
			}

			store, svc, err := buildService(cfg, log)
			if err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			st := store.Status()
			log.Info("index ready", slog.String("state", st.State), slog.Int("documents", st.DocCount))

			srv, err := server.New(svc, store, &server.Config{
				Host: cfg.Server.Host,
				Port: cfg.Server.Port,
			}, log)
			if err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			return srv.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Host address to bind to (overrides config)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "TCP port to listen on (overrides config)")

	return cmd
}
