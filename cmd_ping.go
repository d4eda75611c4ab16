package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lauvickie617/vickie-ai-portfolio/model"
	"github.com/lauvickie617/vickie-ai-portfolio/provider"
)

var (
	pingBackend string
	pingAsk     bool
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the AI service is reachable",
	Long: `Check the configured provider (or --backend server), then ask a short
question end to end unless --ask=false.`,
	Args: cobra.NoArgs,
	RunE: runPing,
}

func init() {
	pingCmd.Flags().StringVar(&pingBackend, "backend", "", "URL of a running chat server")
	pingCmd.Flags().BoolVar(&pingAsk, "ask", true, "Also ask a test question")
}

func runPing(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	backendURL := pingBackend
	if backendURL == "" {
		backendURL = cfg.BackendURL
	}
	b, err := newBackend(cfg, backendURL, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	start := time.Now()
	err = b.Ping(ctx)
	cancel()
	if err != nil {
		fmt.Fprintf(out, "✗ %s is not reachable: %v\n", b.Name(), err)
		return err
	}
	fmt.Fprintf(out, "✓ %s reachable (%s)\n", b.Name(), time.Since(start).Round(time.Millisecond))

	if !pingAsk {
		return nil
	}

	ctx, cancel = context.WithTimeout(cmd.Context(), cfg.RequestTimeout)
	defer cancel()
	start = time.Now()
	reply, err := b.Generate(ctx, provider.SmokeQuestion, nil)
	if err != nil {
		logger.Debug("smoke question failed", zap.Error(err))
		fmt.Fprintf(out, "✗ %q failed: %s\n", provider.SmokeQuestion, model.ProseFor(err))
		return err
	}
	fmt.Fprintf(out, "✓ %q answered in %s\n\n%s\n", provider.SmokeQuestion, time.Since(start).Round(time.Millisecond), reply)
	return nil
}
