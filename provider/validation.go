package provider

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lauvickie617/vickie-ai-portfolio/config"
)

// SmokeQuestion is asked by the ping command to check retrieval end to end.
const SmokeQuestion = "Hello, who is Vickie?"

const pingTimeout = 10 * time.Second

// Pinger is anything that can check its backend is reachable. Every
// model.Provider and RemoteGenerator qualify.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingResultMsg is sent when a backend ping completes
type PingResultMsg struct {
	Backend   string
	Reachable bool
	Err       error
}

// PingCmd checks a backend in the background so the chat can warn the
// visitor before the first question instead of after it.
func PingCmd(backend string, p Pinger) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		defer cancel()

		if err := p.Ping(ctx); err != nil {
			if config.Debug {
				config.DebugLog.Printf("[Provider] Ping of %s failed: %v", backend, err)
			}
			return PingResultMsg{
				Backend: backend,
				Err:     fmt.Errorf("connection failed: %w", err),
			}
		}

		if config.Debug {
			config.DebugLog.Printf("[Provider] Ping of %s successful", backend)
		}
		return PingResultMsg{Backend: backend, Reachable: true}
	}
}

// Ping reports whether the backend answers its health check with "ok".
func (g *RemoteGenerator) Ping(ctx context.Context) error {
	health, err := g.Health(ctx)
	if err != nil {
		return err
	}
	if health.Status != "ok" {
		return fmt.Errorf("backend status %q", health.Status)
	}
	return nil
}
