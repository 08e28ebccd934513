package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/novelforge/tracker/internal/config"
	"github.com/novelforge/tracker/internal/dashboard"
	"github.com/novelforge/tracker/internal/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local dashboard server",
	Long: `Start an HTTP and WebSocket server for a live browser dashboard.

The HTTP API exposes the word-count summary, the raw collections, and
the snapshot list. The WebSocket endpoint pushes a fresh summary
whenever the store file changes, so the dashboard stays live while the
CLI edits the same store from another terminal.

Example usage:
  nft serve               # Start on default port 8080
  nft serve --port 9000   # Start on custom port

Connect with a WebSocket client:
  ws://localhost:8080/ws`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetInt("port")
		if !cmd.Flags().Changed("port") {
			port = config.ServePort()
		}

		t, cleanup, err := openTracker()
		if err != nil {
			fail("%v", err)
		}
		defer cleanup()

		server := dashboard.NewServer(t, &dashboard.Config{
			Port:   port,
			Logger: logging.New("[dashboard] ", config.LogFile()),
		})

		if err := server.Start(); err != nil {
			fail("failed to start dashboard: %v", err)
		}

		fmt.Printf("Dashboard server started on http://localhost:%d\n", port)
		fmt.Printf("WebSocket endpoint: ws://localhost:%d/ws\n", port)
		fmt.Printf("Health check: http://localhost:%d/health\n", port)
		fmt.Println("\nPress Ctrl+C to stop...")

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		<-ctx.Done()

		fmt.Println("\nShutting down dashboard server...")
		if err := server.Stop(); err != nil {
			fail("error during shutdown: %v", err)
		}

		fmt.Println("Dashboard server stopped")
	},
}

func init() {
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}
