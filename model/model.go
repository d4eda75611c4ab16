package model

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lauvickie617/vickie-ai-portfolio/config"
	"github.com/lauvickie617/vickie-ai-portfolio/conversation"
	"github.com/lauvickie617/vickie-ai-portfolio/storage"
	"github.com/lauvickie617/vickie-ai-portfolio/typewriter"
)

// State is a step of one submission's pipeline.
type State int

const (
	StateIdle State = iota
	StateUserAppended
	StateAwaitingResponse
	StateAssistantPlaceholderAppended
	StateRevealing
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateUserAppended:
		return "user_appended"
	case StateAwaitingResponse:
		return "awaiting_response"
	case StateAssistantPlaceholderAppended:
		return "assistant_placeholder_appended"
	case StateRevealing:
		return "revealing"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Transition reports a pipeline step. AssistantID is empty until the
// placeholder exists.
type Transition struct {
	UserID      string
	AssistantID string
	State       State
}

// Overlap decides what happens when a question is sent while an earlier
// one is still being answered.
type Overlap int

const (
	// OverlapConcurrent runs every submission as its own pipeline; reveals
	// are keyed by assistant message id and may interleave across messages.
	OverlapConcurrent Overlap = iota
	// OverlapSerial queues submissions so only one is generating or
	// revealing at a time.
	OverlapSerial
)

func ParseOverlap(s string) Overlap {
	if s == "serial" {
		return OverlapSerial
	}
	return OverlapConcurrent
}

const transcriptTimeout = 5 * time.Second

// TranscriptRecorder receives every finished exchange. Failures are logged
// and otherwise ignored.
type TranscriptRecorder interface {
	Record(ctx context.Context, t storage.Transcript) error
}

type Options struct {
	RevealDelay  time.Duration
	Overlap      Overlap
	Timeout      time.Duration
	Unit         typewriter.Unit
	Transcripts  TranscriptRecorder
	ModelName    string
	OnTransition func(Transition)
}

func DefaultOptions() Options {
	return Options{
		RevealDelay: typewriter.AssistantDelay,
		Overlap:     OverlapConcurrent,
		Timeout:     120 * time.Second,
	}
}

// Model holds the conversation and drives the submit pipeline
type Model struct {
	// Core dependencies
	Store     *conversation.Store
	Generator Generator
	Engine    *typewriter.Engine

	opts Options

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	closed  bool
	wg      sync.WaitGroup
	pending atomic.Int32
	token   chan struct{}
	changes chan struct{}

	// unanswered holds user message ids whose generation has not returned.
	unanswered map[string]struct{}
}

// NewModel creates a controller over an empty conversation
func NewModel(gen Generator, opts Options) *Model {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultOptions().Timeout
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Model{
		Store:     conversation.NewStore(),
		Generator: gen,
		Engine:    typewriter.NewEngine(opts.Unit),
		opts:      opts,
		ctx:       ctx,
		cancel:    cancel,
		token:      make(chan struct{}, 1),
		changes:    make(chan struct{}, 1),
		unanswered: make(map[string]struct{}),
	}
}

// Submit starts the pipeline for text. Blank input is rejected and leaves
// the conversation untouched; anything else is stored and sent as typed.
// The returned id is the user message's id. Submit never blocks on the
// generation call.
func (m *Model) Submit(text string) (string, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return "", false
	}
	m.wg.Add(1)
	msg := conversation.NewUserMessage(text)
	m.unanswered[msg.ID] = struct{}{}
	m.mu.Unlock()

	m.Store.Append(msg)
	var history []conversation.Turn
	if m.opts.Overlap != OverlapSerial {
		history = m.Store.HistoryBefore(msg.ID)
	}
	m.pending.Add(1)

	m.transition(Transition{UserID: msg.ID, State: StateUserAppended})
	m.notify()

	go m.pipeline(msg.ID, text, history)

	return msg.ID, true
}

// answeredHistory is the history a queued question sees once it holds the
// token: every completed turn except questions still waiting on a reply.
func (m *Model) answeredHistory() []conversation.Turn {
	m.mu.Lock()
	skip := make(map[string]struct{}, len(m.unanswered))
	for id := range m.unanswered {
		skip[id] = struct{}{}
	}
	m.mu.Unlock()
	return m.Store.HistoryWithout(skip)
}

func (m *Model) answered(userID string) {
	m.mu.Lock()
	delete(m.unanswered, userID)
	m.mu.Unlock()
	m.pending.Add(-1)
}

func (m *Model) pipeline(userID, question string, history []conversation.Turn) {
	defer m.wg.Done()

	if m.opts.Overlap == OverlapSerial {
		select {
		case m.token <- struct{}{}:
			defer func() { <-m.token }()
		case <-m.ctx.Done():
			m.answered(userID)
			return
		}
		history = m.answeredHistory()
	}

	m.transition(Transition{UserID: userID, State: StateAwaitingResponse})

	started := time.Now()
	ctx, cancel := context.WithTimeout(m.ctx, m.opts.Timeout)
	reply, err := m.Generator.Generate(ctx, question, history)
	cancel()

	m.answered(userID)
	if m.ctx.Err() != nil {
		m.notify()
		return
	}

	failed := err != nil
	if failed {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Model] generation failed for %s: %v", userID, err)
		}
		reply = ProseFor(err)
	}

	m.record(question, reply, failed, time.Since(started))

	placeholder := conversation.NewAssistantPlaceholder()
	m.Store.Append(placeholder)
	m.transition(Transition{UserID: userID, AssistantID: placeholder.ID, State: StateAssistantPlaceholderAppended})
	m.notify()

	m.transition(Transition{UserID: userID, AssistantID: placeholder.ID, State: StateRevealing})
	reveal := m.Engine.Start(m.ctx, placeholder.ID, reply, m.opts.RevealDelay,
		func(revealed string) {
			m.Store.UpdateContent(placeholder.ID, revealed)
			m.notify()
		},
		func() {
			m.Store.MarkDone(placeholder.ID)
			m.transition(Transition{UserID: userID, AssistantID: placeholder.ID, State: StateDone})
			m.notify()
		})

	if err := reveal.Err(); err != nil && config.DebugLog != nil {
		config.DebugLog.Printf("[Model] reveal of %s stopped: %v", placeholder.ID, err)
	}
}

// record writes the exchange in the background. Close waits for it, so the
// log can be closed right after.
func (m *Model) record(question, answer string, failed bool, took time.Duration) {
	if m.opts.Transcripts == nil {
		return
	}
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), transcriptTimeout)
		defer cancel()
		err := m.opts.Transcripts.Record(ctx, storage.Transcript{
			Source:     "chat",
			Question:   question,
			Answer:     answer,
			Failed:     failed,
			Model:      m.opts.ModelName,
			DurationMS: took.Milliseconds(),
		})
		if err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("[Model] transcript write failed: %v", err)
		}
	}()
}

func (m *Model) transition(t Transition) {
	if config.Debug && config.DebugLog != nil {
		config.DebugLog.Printf("[Model] %s user=%s assistant=%s", t.State, t.UserID, t.AssistantID)
	}
	if m.opts.OnTransition != nil {
		m.opts.OnTransition(t)
	}
}

// notify signals a change without blocking; bursts coalesce into one
// pending notification.
func (m *Model) notify() {
	select {
	case m.changes <- struct{}{}:
	default:
	}
}

// Changes delivers a value whenever the conversation or the thinking
// indicator changed since the last receive.
func (m *Model) Changes() <-chan struct{} {
	return m.changes
}

// Thinking reports whether any generation call is outstanding.
func (m *Model) Thinking() bool {
	return m.pending.Load() > 0
}

// HasMessages drives the switch between the hero layout and the thread.
func (m *Model) HasMessages() bool {
	return m.Store.Len() > 0
}

func (m *Model) Messages() []conversation.Message {
	return m.Store.Snapshot()
}

// Wait blocks until every submitted pipeline has finished.
func (m *Model) Wait() {
	m.wg.Wait()
}

// Close cancels outstanding generations and reveals and waits for their
// goroutines. Later writes are dropped and Submit is rejected.
func (m *Model) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.mu.Unlock()

	m.cancel()
	m.Engine.CancelAll()
	m.wg.Wait()
	m.Engine.Wait()
}
