package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sparktype/blockdown/internal/config"
	"github.com/sparktype/blockdown/internal/logging"
	"github.com/sparktype/blockdown/internal/registry"
	"github.com/sparktype/blockdown/internal/server"
)

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the preview server",
	Long: `Start the preview server. The server parses every block document
under the configured scan paths, serves the trees as JSON, and pushes reload
events to connected editing surfaces over WebSocket when files change.

Endpoints:
  /health          liveness and document count
  /documents       registered document paths
  /document?path=  one parsed document as JSON
  /ws              reload event subscription`,
	RunE: runServeCommand,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 0, "Port to bind (overrides config)")
	serveCmd.Flags().String("host", "", "Host to bind (overrides config)")
	bindFlag(serveCmd.Flags(), "server.port", "port")
	bindFlag(serveCmd.Flags(), "server.host", "host")
}

func runServeCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.NewLogger(&logging.Config{
		Level:  logging.ParseLevel(viper.GetString("log-level")),
		Format: "text",
		Output: os.Stderr,
	})

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srv := server.New(cfg, registry.NewDocumentRegistry(), logger)
	return srv.Start(ctx)
}
