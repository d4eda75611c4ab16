package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lauvickie617/vickie-ai-portfolio/storage"
)

var (
	historyLimit      int
	historyPruneOlder time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent questions from the transcript log",
	Long: `List the latest exchanges recorded while logging.transcripts is on in
config.toml. --prune-older-than deletes old entries instead.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of entries to show")
	historyCmd.Flags().DurationVar(&historyPruneOlder, "prune-older-than", 0, "Delete entries older than this (e.g. 720h)")
}

var (
	historyHeader = lipgloss.NewStyle().Bold(true)
	historyDim    = lipgloss.NewStyle().Faint(true)
	historyFailed = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

const historyQuestionWidth = 60

func runHistory(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	transcripts, err := storage.NewTranscriptLog(cfg.DataDir())
	if err != nil {
		return fmt.Errorf("failed to open transcript log: %w", err)
	}
	defer transcripts.Close()

	ctx := cmd.Context()

	if historyPruneOlder > 0 {
		cutoff := time.Now().Add(-historyPruneOlder)
		n, err := transcripts.Prune(ctx, cutoff)
		if err != nil {
			return err
		}
		logger.Info("transcripts pruned", zap.Int64("deleted", n), zap.Time("cutoff", cutoff))
		fmt.Fprintf(out, "Deleted %d entries older than %s\n", n, cutoff.Format(time.DateTime))
		return nil
	}

	total, err := transcripts.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count transcripts: %w", err)
	}
	if total == 0 {
		fmt.Fprintln(out, "No transcripts recorded.")
		if !cfg.LogTranscripts {
			fmt.Fprintln(out, "Set transcripts = true under [logging] in config.toml to start recording.")
		}
		return nil
	}

	entries, err := transcripts.Recent(ctx, historyLimit)
	if err != nil {
		return fmt.Errorf("failed to read transcripts: %w", err)
	}

	fmt.Fprint(out, formatHistory(entries, total))
	return nil
}

func formatHistory(entries []storage.Transcript, total int) string {
	var b strings.Builder
	b.WriteString(historyHeader.Render(fmt.Sprintf("%-16s  %-6s  %-7s  %s", "TIME", "SOURCE", "TOOK", "QUESTION")))
	b.WriteString("\n")
	for _, t := range entries {
		question := strings.Join(strings.Fields(t.Question), " ")
		question = runewidth.Truncate(question, historyQuestionWidth, "…")
		if t.Failed {
			question = historyFailed.Render(question + " (failed)")
		}
		took := time.Duration(t.DurationMS) * time.Millisecond
		fmt.Fprintf(&b, "%-16s  %-6s  %-7s  %s\n",
			t.CreatedAt.Local().Format("2006-01-02 15:04"),
			t.Source,
			took.Round(100*time.Millisecond).String(),
			question)
	}
	b.WriteString(historyDim.Render(fmt.Sprintf("%d of %d entries", len(entries), total)))
	b.WriteString("\n")
	return b.String()
}
