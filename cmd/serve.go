package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"gocargo/config"
	"gocargo/storage"
	"gocargo/web"
)

var (
	servePort    int
	serveDBPath  string
	serveNoStore bool
	serveNoOpen  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local web UI for uploading workbooks and viewing reports",
	Long: `Start a local HTTP server with an upload form and an HTML report page.

Routes:
- GET  /               upload form and stored runs
- POST /report         HTML report for an uploaded workbook
- POST /api/analyze    JSON report for an uploaded workbook
- GET  /api/runs       stored run snapshots
- GET  /api/runs/{id}  JSON report of one snapshot
- GET  /metrics        Prometheus metrics`,
	Example: `
  # Start local server on the configured port
  gocargo serve

  # Custom port and database, without opening a browser
  gocargo serve --port 9090 --db ./gocargo.db --no-open

  # Serve without run storage
  gocargo serve --no-store
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}
		port := resolveServePort(servePort, *cfg)

		var store web.RunStore
		if !serveNoStore {
			sqliteStore, err := storage.OpenSQLite(resolveDBPath(serveDBPath, *cfg))
			if err != nil {
				return err
			}
			defer sqliteStore.Close()
			store = sqliteStore
		}

		server := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           web.NewServer(store, *cfg, slog.Default()),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.ListenAndServe()
		}()

		listenURL := fmt.Sprintf("http://localhost:%d", port)
		fmt.Printf("Listening on %s\n", listenURL)
		if !serveNoOpen {
			if openErr := openURLInBrowser(listenURL); openErr != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to open browser: %v\n", openErr)
			}
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-sigCh:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("shutdown server: %w", err)
			}
			err := <-errCh
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVar(&servePort, "port", 0, "HTTP port for the local web server (default: serve.port)")
	serveCmd.Flags().StringVar(&serveDBPath, "db", "", "Path to local SQLite database (default: storage.db)")
	serveCmd.Flags().BoolVar(&serveNoStore, "no-store", false, "Disable run snapshots and the run endpoints")
	serveCmd.Flags().BoolVar(&serveNoOpen, "no-open", false, "Do not open browser automatically")
}

func resolveServePort(flagValue int, cfg config.Config) int {
	if flagValue > 0 {
		return flagValue
	}
	return cfg.Serve.Port
}

func openURLInBrowser(rawURL string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", rawURL)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL)
	default:
		cmd = exec.Command("xdg-open", rawURL)
	}
	return cmd.Start()
}
