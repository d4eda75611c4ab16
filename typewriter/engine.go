package typewriter

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Reveal is one running reveal loop.
type Reveal struct {
	target    string
	cancel    context.CancelFunc
	cancelled atomic.Bool
	steps     atomic.Int64

	// mu orders Cancel against the completion decision.
	mu       sync.Mutex
	finished bool

	done      chan struct{}
	err       error
}

// Cancel stops the reveal before its next step. It is safe to call from
// within the reveal's own sink and more than once. Once the reveal has
// committed to completing, Cancel has no effect.
func (r *Reveal) Cancel() {
	r.mu.Lock()
	if r.finished {
		r.mu.Unlock()
		return
	}
	r.cancelled.Store(true)
	r.mu.Unlock()
	r.cancel()
}

// complete commits the reveal to finishing unless Cancel got there first.
func (r *Reveal) complete() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancelled.Load() {
		return false
	}
	r.finished = true
	return true
}

// Done is closed once the reveal loop has returned.
func (r *Reveal) Done() <-chan struct{} {
	return r.done
}

// Err waits for the reveal to return. It is nil when the reveal completed
// and the cancellation cause when it was stopped.
func (r *Reveal) Err() error {
	<-r.done
	return r.err
}

// Steps reports how many sink calls have been made so far.
func (r *Reveal) Steps() int {
	return int(r.steps.Load())
}

func (r *Reveal) Target() string {
	return r.target
}

// Engine runs reveal loops keyed by target, at most one per target.
type Engine struct {
	Unit Unit

	mu     sync.Mutex
	active map[string]*Reveal
	wg     sync.WaitGroup
}

func NewEngine(unit Unit) *Engine {
	return &Engine{
		Unit:   unit,
		active: make(map[string]*Reveal),
	}
}

// Start reveals text into sink on its own goroutine. Any reveal already
// running for target is cancelled and waited for first, so two loops never
// write the same target. onDone, if set, runs exactly once after the last
// sink call and never for a cancelled reveal.
//
// Start blocks while a previous reveal for the same target winds down, so it
// must not be called from that reveal's sink.
func (e *Engine) Start(ctx context.Context, target, text string, delay time.Duration, sink Sink, onDone func()) *Reveal {
	rctx, cancel := context.WithCancel(ctx)
	r := &Reveal{
		target: target,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	e.mu.Lock()
	if e.active == nil {
		e.active = make(map[string]*Reveal)
	}
	prev := e.active[target]
	e.active[target] = r
	e.wg.Add(1)
	e.mu.Unlock()

	if prev != nil {
		prev.Cancel()
		<-prev.done
	}

	go func() {
		defer e.wg.Done()
		defer cancel()

		r.err = run(rctx, &r.cancelled, &r.steps, text, e.Unit, delay, sink)
		if r.err == nil && !r.complete() {
			r.err = context.Canceled
		}
		if r.err == nil && onDone != nil {
			onDone()
		}
		e.release(r)
		close(r.done)
	}()

	return r
}

func (e *Engine) release(r *Reveal) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active[r.target] == r {
		delete(e.active, r.target)
	}
}

// Cancel stops the reveal running for target, if any.
func (e *Engine) Cancel(target string) {
	e.mu.Lock()
	r := e.active[target]
	e.mu.Unlock()

	if r != nil {
		r.Cancel()
	}
}

// CancelAll stops every running reveal.
func (e *Engine) CancelAll() {
	e.mu.Lock()
	reveals := make([]*Reveal, 0, len(e.active))
	for _, r := range e.active {
		reveals = append(reveals, r)
	}
	e.mu.Unlock()

	for _, r := range reveals {
		r.Cancel()
	}
}

// Active reports how many reveals are running.
func (e *Engine) Active() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.active)
}

// Wait blocks until every started reveal has returned.
func (e *Engine) Wait() {
	e.wg.Wait()
}
