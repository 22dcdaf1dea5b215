package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/IAMSamuelRodda/zero-agent-sub002/internal/server"
)

var (
	serveTransport string
	servePort      int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server (stdio or http transport)",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		srv, err := server.New(store)
		if err != nil {
			return err
		}

		transport := serveTransport
		if transport == "" {
			transport = cfg.Server.Transport
		}
		port := servePort
		if port == 0 {
			port = cfg.Server.HTTPPort
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		switch transport {
		case "stdio":
			log.Infow("memory engine starting", "transport", "stdio", "db", cfg.Storage.Path)
			return srv.Run(ctx, &mcp.StdioTransport{})
		case "http":
			addr := fmt.Sprintf(":%d", port)
			handler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
				return srv
			}, nil)
			log.Infow("memory engine listening", "transport", "http", "addr", addr, "db", cfg.Storage.Path)
			return http.ListenAndServe(addr, handler)
		default:
			return fmt.Errorf("unknown transport %q (use stdio or http)", transport)
		}
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveTransport, "transport", "", "Transport mode: stdio or http")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "HTTP port (only used with --transport http)")
	rootCmd.AddCommand(serveCmd)
}
