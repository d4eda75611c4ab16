package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/lauvickie617/vickie-ai-portfolio/config"
	"github.com/lauvickie617/vickie-ai-portfolio/conversation"
	"github.com/lauvickie617/vickie-ai-portfolio/model"
	"github.com/lauvickie617/vickie-ai-portfolio/provider"
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	config.InitDebugLog(cfg.DataDir())
	return cfg, nil
}

// backend is the generation side of every command: either a remote chat
// server or a local provider behind a Responder. A provider that cannot be
// built for lack of credentials still answers, with the credentials prose.
type backend struct {
	logger *zap.Logger

	current atomic.Pointer[config.Config]

	mu          sync.RWMutex
	gen         model.Generator
	responder   *provider.Responder
	remote      *provider.RemoteGenerator
	providerCfg provider.Config
	setupErr    error
}

// newBackend uses the server at backendURL when one is given, otherwise the
// configured provider.
func newBackend(cfg *config.Config, backendURL string, logger *zap.Logger) (*backend, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &backend{logger: logger}
	b.current.Store(cfg)

	if backendURL != "" {
		remote, err := provider.NewRemoteGenerator(backendURL, &http.Client{Timeout: cfg.RequestTimeout})
		if err != nil {
			return nil, err
		}
		b.remote = remote
		b.gen = remote
		return b, nil
	}

	b.providerCfg = provider.ConfigFrom(cfg)
	p, err := provider.NewProvider(b.providerCfg)
	if err != nil {
		if !errors.Is(err, provider.ErrMissingAPIKey) {
			return nil, err
		}
		logger.Warn("no API key configured, answers will explain the service is not set up",
			zap.String("provider", string(b.providerCfg.Type)))
		b.setupErr = err
		b.gen = unconfigured(err)
		return b, nil
	}

	b.responder = provider.NewResponder(p, b.prompt)
	b.gen = b.responder
	return b, nil
}

// unconfigured answers every question with the prose for err.
func unconfigured(err error) model.Generator {
	return model.GeneratorFunc(func(ctx context.Context, message string, history []conversation.Turn) (string, error) {
		return "", provider.ClassifyError(err)
	})
}

func (b *backend) prompt() string {
	return b.current.Load().Prompt()
}

func (b *backend) Generate(ctx context.Context, message string, history []conversation.Turn) (string, error) {
	b.mu.RLock()
	gen := b.gen
	b.mu.RUnlock()
	return gen.Generate(ctx, message, history)
}

// Ping checks whichever backend answers questions.
func (b *backend) Ping(ctx context.Context) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	switch {
	case b.remote != nil:
		return b.remote.Ping(ctx)
	case b.responder != nil:
		return b.responder.Provider().Ping(ctx)
	default:
		return b.setupErr
	}
}

// Name identifies the backend in logs, transcripts and the chat warning.
func (b *backend) Name() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	switch {
	case b.remote != nil:
		return b.remote.BaseURL()
	case b.responder != nil:
		return b.responder.Provider().GetModel()
	default:
		return string(b.providerCfg.Type)
	}
}

// Apply takes a reloaded config. Sampling, store and model changes are
// applied to the running Gemini provider in place; anything touching the
// client (type, endpoint, key) builds a new provider. A remote backend keeps
// its server; the server owns its own prompt and sampling.
func (b *backend) Apply(next *config.Config) {
	b.current.Store(next)
	if b.remote != nil {
		return
	}

	pcfg := provider.ConfigFrom(next)

	b.mu.Lock()
	defer b.mu.Unlock()

	if gp, ok := b.activeGemini(); ok && sameClient(b.providerCfg, pcfg) {
		gp.SetFileSearchStore(pcfg.FileSearchStore)
		gp.SetSampling(pcfg.Temperature, pcfg.TopP)
		if pcfg.Model != "" {
			gp.SetModel(pcfg.Model)
		}
		b.providerCfg = pcfg
		b.logger.Info("provider settings updated",
			zap.String("model", gp.GetModel()),
			zap.Bool("file_search", pcfg.FileSearchStore != ""))
		return
	}

	p, err := provider.NewProvider(pcfg)
	if err != nil {
		b.logger.Error("reloaded config rejected, keeping current provider", zap.Error(err))
		return
	}
	b.providerCfg = pcfg
	b.setupErr = nil
	if b.responder == nil {
		b.responder = provider.NewResponder(p, b.prompt)
		b.gen = b.responder
	} else {
		b.responder.SetProvider(p)
	}
	b.logger.Info("provider rebuilt", zap.String("provider", string(pcfg.Type)), zap.String("model", p.GetModel()))
}

// activeGemini must be called with b.mu held.
func (b *backend) activeGemini() (*provider.GeminiProvider, bool) {
	if b.responder == nil {
		return nil, false
	}
	gp, ok := b.responder.Provider().(*provider.GeminiProvider)
	return gp, ok
}

func sameClient(a, b provider.Config) bool {
	return a.Type == b.Type && a.BaseURL == b.BaseURL && a.APIKey == b.APIKey
}
