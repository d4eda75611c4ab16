package typewriter

import (
	"context"
	"time"
)

// Phase is the stage of the intro sequence.
type Phase int

const (
	PhaseTitle Phase = iota
	PhaseSubtitle
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseTitle:
		return "title"
	case PhaseSubtitle:
		return "subtitle"
	case PhaseComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// IntroState is what the hero view renders at any moment of the intro.
type IntroState struct {
	Phase    Phase
	Title    string
	Subtitle string
}

// Intro describes the startup animation: a lead-in pause, the title typed
// out, a short pause, then the subtitle.
type Intro struct {
	Title         string
	Subtitle      string
	TitleDelay    time.Duration
	SubtitleDelay time.Duration
	LeadIn        time.Duration
	Pause         time.Duration
	Unit          Unit
}

func DefaultIntro() Intro {
	return Intro{
		Title:         "Hi, I'm Vickie Liu.",
		Subtitle:      "Ask my AI about my Product Management journey.",
		TitleDelay:    TitleDelay,
		SubtitleDelay: SubtitleDelay,
		LeadIn:        500 * time.Millisecond,
		Pause:         400 * time.Millisecond,
	}
}

// Final is the state the intro ends in, used when the animation is skipped.
func (in Intro) Final() IntroState {
	return IntroState{Phase: PhaseComplete, Title: in.Title, Subtitle: in.Subtitle}
}

// Run plays the intro, reporting every change to onChange. The title is
// fully typed before the subtitle starts. When ctx is cancelled Run returns
// its error and onChange is not called again.
func (in Intro) Run(ctx context.Context, onChange func(IntroState)) error {
	state := IntroState{Phase: PhaseTitle}

	if err := sleep(ctx, in.LeadIn); err != nil {
		return err
	}

	err := RunUnits(ctx, in.Title, in.Unit, in.TitleDelay, func(revealed string) {
		state.Title = revealed
		onChange(state)
	})
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	state.Phase = PhaseSubtitle
	onChange(state)

	if err := sleep(ctx, in.Pause); err != nil {
		return err
	}

	err = RunUnits(ctx, in.Subtitle, in.Unit, in.SubtitleDelay, func(revealed string) {
		state.Subtitle = revealed
		onChange(state)
	})
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	state.Phase = PhaseComplete
	onChange(state)
	return nil
}
