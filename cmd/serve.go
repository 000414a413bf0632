package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Antoink/SDRV3/internal/dataset"
	"github.com/Antoink/SDRV3/internal/logging"
	"github.com/Antoink/SDRV3/internal/photo"
	"github.com/Antoink/SDRV3/internal/server"
	"github.com/Antoink/SDRV3/internal/session"
)

var (
	serveAddr   string
	serveAPIKey string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis over HTTP",
	Long: `Serve profiles, reports, squad comparisons and CMJ analysis as a JSON API. Every client
gets its own session (cookie ` + server.SessionCookie + `) holding its dataset snapshot, selection,
relative mode and notes. Prometheus metrics are exposed on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := ensureConfig()
		if err != nil {
			return err
		}
		reg, err := loadRegistry()
		if err != nil {
			return err
		}
		dataPath, _ := workingFile(c)
		load := func() (*dataset.Dataset, error) {
			if dataPath == "" {
				return nil, errNoData
			}
			return dataset.Load(dataPath, dataset.Options{Sheet: c.Sheet})
		}

		addr := c.ServerAddr
		if serveAddr != "" {
			addr = serveAddr
		}
		key := c.APIKey
		if cmd.Flags().Changed("api-key") {
			key = serveAPIKey
		}
		if key == "" {
			logging.For("cli").Warn("no api_key configured, the API is open")
		}

		srv := server.New(server.Options{
			Addr:        addr,
			APIKey:      key,
			ReadTimeout: time.Duration(c.ReadTimeoutSec) * time.Second,
			Registry:    reg,
			Sessions:    session.NewManager(load, time.Duration(c.SessionTTLMin)*time.Minute),
			Photos:      photo.Finder{Dir: c.PhotosDir},
			Logos:       c.Logos,
			TopN:        c.TopN,
			DataPath:    dataPath,
			Sheet:       c.Sheet,
			CMJ: func() (*dataset.Dataset, error) {
				return loadCMJ("")
			},
		})

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default server_addr)")
	serveCmd.Flags().StringVar(&serveAPIKey, "api-key", "", "API key required on /api routes (default api_key)")
}
