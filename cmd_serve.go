package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lauvickie617/vickie-ai-portfolio/config"
	"github.com/lauvickie617/vickie-ai-portfolio/server"
	"github.com/lauvickie617/vickie-ai-portfolio/storage"
)

const reloadDebounce = 250 * time.Millisecond

var (
	servePort    int
	serveNoWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP chat backend",
	Long: `Serve POST /api/chat, GET /api/health and GET /api/store-info for the
web front end and for "portfolio chat --backend".

config.toml is watched while the server runs: model, sampling, store and
timeout changes take effect without a restart.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (overrides server.port and PORT)")
	serveCmd.Flags().BoolVar(&serveNoWatch, "no-watch", false, "Do not reload config.toml on change")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	port := cfg.Port
	if servePort != 0 {
		port = servePort
	}

	// A server never proxies to another server.
	b, err := newBackend(cfg, "", logger)
	if err != nil {
		return err
	}

	srv := server.New(b, server.OptionsFrom(cfg), server.SettingsFrom(cfg), logger)

	if cfg.LogTranscripts {
		transcripts, err := storage.NewTranscriptLog(cfg.DataDir())
		if err != nil {
			return fmt.Errorf("failed to open transcript log: %w", err)
		}
		defer transcripts.Close()
		srv.WithTranscripts(transcripts)
	}

	if !cfg.HasFileSearchStore() {
		logger.Warn("no file search store configured, answers will not be grounded in documents; run setup-store")
	}
	logger.Info("server starting",
		zap.Int("port", port),
		zap.String("prefix", cfg.APIPrefix),
		zap.String("model", b.Name()),
		zap.String("store", cfg.FileSearchStoreName),
		zap.Strings("allowed_origins", cfg.AllowedOrigins))

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		return srv.Run(ctx, fmt.Sprintf(":%d", port))
	})
	if !serveNoWatch {
		g.Go(func() error {
			return config.Watch(ctx, cfg, reloadDebounce,
				func(next *config.Config) {
					b.Apply(next)
					srv.UpdateSettings(server.SettingsFrom(next))
					logger.Info("config reloaded",
						zap.String("store", next.FileSearchStoreName),
						zap.Duration("request_timeout", next.RequestTimeout))
				},
				func(err error) {
					logger.Error("config reload failed", zap.Error(err))
				})
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
