package typewriter

import (
	"context"
	"sync/atomic"
	"time"
)

// Default delays per reveal use.
const (
	TitleDelay     = 60 * time.Millisecond
	SubtitleDelay  = 30 * time.Millisecond
	AssistantDelay = 15 * time.Millisecond
)

// Sink receives the text revealed so far after each step.
type Sink func(revealed string)

// Run reveals text into sink one grapheme at a time. The sink is called
// len+1 times, from "" up to the full text, with delay between steps.
// It returns ctx.Err() once the context is cancelled; no sink call happens
// after that point.
func Run(ctx context.Context, text string, delay time.Duration, sink Sink) error {
	return run(ctx, nil, nil, text, UnitGrapheme, delay, sink)
}

// RunUnits is Run with an explicit split unit.
func RunUnits(ctx context.Context, text string, unit Unit, delay time.Duration, sink Sink) error {
	return run(ctx, nil, nil, text, unit, delay, sink)
}

func run(ctx context.Context, cancelled *atomic.Bool, steps *atomic.Int64, text string, unit Unit, delay time.Duration, sink Sink) error {
	offsets := Boundaries(text, unit)

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for _, end := range offsets {
		if err := alive(ctx, cancelled); err != nil {
			return err
		}
		sink(text[:end])
		if steps != nil {
			steps.Add(1)
		}

		if delay <= 0 {
			continue
		}
		if timer == nil {
			timer = time.NewTimer(delay)
		} else {
			timer.Reset(delay)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return alive(ctx, cancelled)
}

func alive(ctx context.Context, cancelled *atomic.Bool) error {
	if cancelled != nil && cancelled.Load() {
		return context.Canceled
	}
	return ctx.Err()
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
