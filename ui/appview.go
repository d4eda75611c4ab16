package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lauvickie617/vickie-ai-portfolio/config"
	appmodel "github.com/lauvickie617/vickie-ai-portfolio/model"
	"github.com/lauvickie617/vickie-ai-portfolio/provider"
	"github.com/lauvickie617/vickie-ai-portfolio/typewriter"
)

// Options configure the chat shell.
type Options struct {
	Keybindings *config.KeyBindingsConfig
	Theme       string // dark, light or auto
	Intro       typewriter.Intro
	SkipIntro   bool
	Suggestions []string

	// Backend is checked once at startup so the visitor is warned early.
	Backend     string
	BackendPing provider.Pinger
}

// AppView is the terminal chat. All conversation state lives in the
// controller; the view only keeps presentation state.
type AppView struct {
	ctrl *appmodel.Model
	keys keyMap
	opts Options

	// UI Components
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	help     help.Model

	// Window state
	width  int
	height int
	ready  bool

	theme    Theme
	showHelp bool
	status   string
	warning  string

	// Intro animation
	introState  typewriter.IntroState
	introCh     chan typewriter.IntroState
	introCtx    context.Context
	introCancel context.CancelFunc

	// Suggested prompts
	suggestions        []string
	selectedSuggestion int

	// Rendered markdown per assistant message, valid for renderWidth.
	// Maps are shared between copies of the view.
	rendered    map[string]markdownRenderedMsg
	rendering   map[string]int
	renderWidth int
}

func NewAppView(ctrl *appmodel.Model, opts Options) AppView {
	if opts.Suggestions == nil {
		opts.Suggestions = config.SuggestedQuestions
	}
	if opts.Intro.Title == "" {
		opts.Intro = typewriter.DefaultIntro()
	}

	ti := textinput.New()
	ti.Placeholder = "Ask about Vickie's experience, projects or skills..."
	ti.Prompt = "> "
	ti.CharLimit = 2000
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	theme := NewTheme(ResolveDark(opts.Theme, nil))

	a := AppView{
		ctrl:               ctrl,
		keys:               newKeyMap(opts.Keybindings),
		opts:               opts,
		input:              ti,
		viewport:           viewport.New(0, 0),
		spinner:            sp,
		help:               help.New(),
		theme:              theme,
		suggestions:        opts.Suggestions,
		selectedSuggestion: -1,
		rendered:           make(map[string]markdownRenderedMsg),
		rendering:          make(map[string]int),
	}
	a.applyTheme()

	if opts.SkipIntro {
		a.introState = opts.Intro.Final()
	} else {
		a.introCtx, a.introCancel = context.WithCancel(context.Background())
		a.introCh = make(chan typewriter.IntroState, 8)
		a.introState = typewriter.IntroState{Phase: typewriter.PhaseTitle}
	}
	return a
}

func (a AppView) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textinput.Blink,
		a.spinner.Tick,
		a.ctrl.WaitForChange(),
	}
	if a.introCh != nil {
		cmds = append(cmds, playIntro(a.introCtx, a.opts.Intro, a.introCh), waitForIntro(a.introCh))
	}
	if a.opts.BackendPing != nil {
		cmds = append(cmds, provider.PingCmd(a.opts.Backend, a.opts.BackendPing))
	}
	return tea.Batch(cmds...)
}

// introRunning reports whether the animation is still playing.
func (a AppView) introRunning() bool {
	return a.introState.Phase != typewriter.PhaseComplete
}

// skipIntro jumps to the final intro frame.
func (a *AppView) skipIntro() {
	if a.introCancel != nil {
		a.introCancel()
	}
	a.introState = a.opts.Intro.Final()
}

// Stop releases the intro animation. The controller is closed by its owner.
func (a AppView) Stop() {
	if a.introCancel != nil {
		a.introCancel()
	}
}

func (a AppView) visibleSuggestions() []string {
	return FilterSuggestions(a.input.Value(), a.suggestions)
}

func (a *AppView) applyTheme() {
	a.input.PromptStyle = a.theme.User
	a.input.PlaceholderStyle = a.theme.Dim
	a.spinner.Style = a.theme.Cursor
	a.help.Styles.ShortKey = a.theme.Dim
	a.help.Styles.ShortDesc = a.theme.Key
	a.help.Styles.FullKey = a.theme.Dim
	a.help.Styles.FullDesc = a.theme.Key
}
