package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Antoink/SDRV3/internal/dataset"
	"github.com/Antoink/SDRV3/internal/logging"
	"github.com/Antoink/SDRV3/internal/mcpserver"
)

var (
	mcpHTTPAddr string
	mcpPath     string
	mcpAPIKey   string
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Expose the analysis as MCP tools",
	Long: `Run a Model Context Protocol server exposing athlete listing, profiles, rankings,
asymmetries and strengths/weaknesses as tools. Stdio is used by default; --http serves the
streamable HTTP transport instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := ensureConfig()
		if err != nil {
			return err
		}
		reg, err := loadRegistry()
		if err != nil {
			return err
		}
		srv := mcpserver.New(mcpserver.Options{
			Registry: reg,
			Load: func() (*dataset.Dataset, error) {
				path, ok := workingFile(c)
				if !ok {
					return nil, errNoData
				}
				return dataset.Load(path, dataset.Options{Sheet: c.Sheet})
			},
			TopN:    c.TopN,
			Version: Version,
		})

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if mcpHTTPAddr == "" {
			return srv.RunStdio(ctx)
		}

		key := c.APIKey
		if cmd.Flags().Changed("api-key") {
			key = mcpAPIKey
		}
		httpSrv := &http.Server{
			Addr:              mcpHTTPAddr,
			Handler:           srv.Handler(mcpPath, key),
			ReadHeaderTimeout: 5 * time.Second,
		}
		log := logging.For("mcp")
		errCh := make(chan error, 1)
		go func() {
			log.WithField("addr", mcpHTTPAddr).WithField("path", mcpPath).Info("starting MCP HTTP server")
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()
		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("mcp http: %w", err)
			}
			return nil
		case <-ctx.Done():
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().StringVar(&mcpHTTPAddr, "http", "", "serve streamable HTTP on this address instead of stdio")
	mcpCmd.Flags().StringVar(&mcpPath, "path", "/mcp", "HTTP path of the MCP endpoint")
	mcpCmd.Flags().StringVar(&mcpAPIKey, "api-key", "", "API key required over HTTP (default api_key)")
}
