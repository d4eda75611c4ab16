package main

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lauvickie617/vickie-ai-portfolio/config"
	"github.com/lauvickie617/vickie-ai-portfolio/model"
	"github.com/lauvickie617/vickie-ai-portfolio/storage"
	"github.com/lauvickie617/vickie-ai-portfolio/typewriter"
	"github.com/lauvickie617/vickie-ai-portfolio/ui"
)

var (
	chatBackend   string
	chatTheme     string
	chatSkipIntro bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start the terminal chat (default)",
	Long: `Open the full-screen chat: the intro animation, suggested questions,
and answers revealed character by character.

With --backend the questions are sent to a running "portfolio serve"
instead of calling the AI provider directly.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func registerChatFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&chatBackend, "backend", "", "URL of a running chat server (overrides ui.backend_url)")
	cmd.Flags().StringVar(&chatTheme, "theme", "", "Color theme: dark, light or auto")
	cmd.Flags().BoolVar(&chatSkipIntro, "skip-intro", false, "Show the landing screen without the typing animation")
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	kb, err := config.LoadKeybindings(cfg.DataDir())
	if err != nil {
		if config.Debug {
			config.DebugLog.Printf("[Main] Keybindings unreadable, using defaults: %v", err)
		}
		kb = config.DefaultKeybindings()
	}
	if ok, msg := kb.Validate(); !ok {
		return fmt.Errorf("invalid keybindings: %s", msg)
	}

	backendURL := chatBackend
	if backendURL == "" {
		backendURL = cfg.BackendURL
	}
	// The chat owns the terminal, so nothing may write to stderr while it runs.
	b, err := newBackend(cfg, backendURL, zap.NewNop())
	if err != nil {
		return err
	}

	opts := chatOptions(cfg, b.Name())

	if cfg.LogTranscripts {
		transcripts, err := storage.NewTranscriptLog(cfg.DataDir())
		if err != nil {
			return fmt.Errorf("failed to open transcript log: %w", err)
		}
		defer transcripts.Close()
		opts.Transcripts = transcripts
	}

	ctrl := model.NewModel(b, opts)
	// Runs before the transcript log closes, so pending exchanges are written.
	defer ctrl.Close()

	theme := cfg.Theme
	if chatTheme != "" {
		theme = chatTheme
	}

	view := ui.NewAppView(ctrl, ui.Options{
		Keybindings: kb,
		Theme:       theme,
		Intro:       chatIntro(cfg, opts.Unit),
		SkipIntro:   cfg.SkipIntro || chatSkipIntro,
		Suggestions: config.SuggestedQuestions,
		Backend:     b.Name(),
		BackendPing: b,
	})

	if config.Debug {
		config.DebugLog.Printf("[Main] Starting chat with backend %s", b.Name())
	}

	p := tea.NewProgram(view, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	final, err := p.Run()
	if v, ok := final.(ui.AppView); ok {
		v.Stop()
	}
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("chat exited: %w", err)
	}
	return nil
}

func chatOptions(cfg *config.Config, modelName string) model.Options {
	opts := model.DefaultOptions()
	opts.Overlap = model.ParseOverlap(cfg.Overlap)
	opts.Unit = typewriter.ParseUnit(cfg.Split)
	if cfg.RevealDelay > 0 {
		opts.RevealDelay = cfg.RevealDelay
	}
	if cfg.RequestTimeout > 0 {
		opts.Timeout = cfg.RequestTimeout
	}
	opts.ModelName = modelName
	return opts
}

func chatIntro(cfg *config.Config, unit typewriter.Unit) typewriter.Intro {
	intro := typewriter.DefaultIntro()
	if cfg.TitleDelay > 0 {
		intro.TitleDelay = cfg.TitleDelay
	}
	if cfg.SubtitleDelay > 0 {
		intro.SubtitleDelay = cfg.SubtitleDelay
	}
	intro.Unit = unit
	return intro
}
