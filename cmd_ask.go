package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lauvickie617/vickie-ai-portfolio/config"
	"github.com/lauvickie617/vickie-ai-portfolio/model"
	"github.com/lauvickie617/vickie-ai-portfolio/storage"
	"github.com/lauvickie617/vickie-ai-portfolio/typewriter"
)

var (
	askMarkdown bool
	askBackend  string
	askInstant  bool
)

var askCmd = &cobra.Command{
	Use:   "ask QUESTION...",
	Short: "Ask one question and print the answer",
	Long: `Ask a single question without opening the chat. The answer is typed
out like in the chat unless --instant or --markdown is given.`,
	Example: `  portfolio ask "What projects has Vickie led?"
  portfolio ask --markdown Tell me about her AI work`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askMarkdown, "markdown", false, "Render the answer as formatted markdown")
	askCmd.Flags().BoolVar(&askInstant, "instant", false, "Print the answer at once instead of typing it out")
	askCmd.Flags().StringVar(&askBackend, "backend", "", "URL of a running chat server")
}

func runAsk(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return fmt.Errorf("question is empty")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	backendURL := askBackend
	if backendURL == "" {
		backendURL = cfg.BackendURL
	}
	b, err := newBackend(cfg, backendURL, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout)
	defer cancel()

	start := time.Now()
	answer, genErr := b.Generate(ctx, question, nil)
	took := time.Since(start)

	if cfg.LogTranscripts {
		recordAsk(cfg, b.Name(), question, answer, genErr, took)
	}

	if genErr != nil {
		logger.Debug("generation failed", zap.Error(genErr))
		fmt.Fprintln(out, model.ProseFor(genErr))
		return genErr
	}

	switch {
	case askMarkdown:
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(80))
		if err != nil {
			return fmt.Errorf("failed to create markdown renderer: %w", err)
		}
		rendered, err := r.Render(answer)
		if err != nil {
			return fmt.Errorf("failed to render answer: %w", err)
		}
		fmt.Fprint(out, rendered)
	case askInstant:
		fmt.Fprintln(out, answer)
	default:
		delay := typewriter.AssistantDelay
		if cfg.RevealDelay > 0 {
			delay = cfg.RevealDelay
		}
		if err := typeOut(cmd.Context(), out, answer, typewriter.ParseUnit(cfg.Split), delay); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}
	return nil
}

// typeOut reveals text on w, writing only what each step adds.
func typeOut(ctx context.Context, w io.Writer, text string, unit typewriter.Unit, delay time.Duration) error {
	written := 0
	return typewriter.RunUnits(ctx, text, unit, delay, func(revealed string) {
		io.WriteString(w, revealed[written:])
		written = len(revealed)
	})
}

func recordAsk(cfg *config.Config, modelName, question, answer string, genErr error, took time.Duration) {
	transcripts, err := storage.NewTranscriptLog(cfg.DataDir())
	if err != nil {
		logger.Warn("failed to open transcript log", zap.Error(err))
		return
	}
	defer transcripts.Close()

	if genErr != nil {
		answer = model.ProseFor(genErr)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := transcripts.Record(ctx, storage.Transcript{
		Source:     "ask",
		Question:   question,
		Answer:     answer,
		Failed:     genErr != nil,
		Model:      modelName,
		DurationMS: took.Milliseconds(),
	}); err != nil {
		logger.Warn("failed to record transcript", zap.Error(err))
	}
}
