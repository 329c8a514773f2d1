package ui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/checkmate/internal/feed"
	"github.com/five82/checkmate/internal/prefs"
	"github.com/five82/checkmate/internal/state"
	"github.com/five82/checkmate/internal/submission"
)

// Submitter starts headline submissions.
type Submitter interface {
	Begin(text string) (*submission.Submission, error)
	State() submission.State
}

// HealthMonitor triggers availability probes.
type HealthMonitor interface {
	Refresh(ctx context.Context) state.Snapshot
	Revalidate(ctx context.Context) bool
}

// SnapshotSource exposes the latest availability snapshot.
type SnapshotSource interface {
	Snapshot() state.Snapshot
}

// FeedSource loads candidate headlines.
type FeedSource interface {
	Fetch(ctx context.Context, feedURL string, limit int) ([]feed.Candidate, error)
}

// View represents the active screen.
type View int

const (
	ViewCheck View = iota
	ViewLogs
)

type focusArea int

const (
	focusInput focusArea = iota
	focusFeed
)

// Options configures the UI.
type Options struct {
	Context    context.Context
	Controller Submitter
	Health     HealthMonitor
	Store      SnapshotSource
	Feed       FeedSource
	FeedURL    string
	FeedLimit  int
	LogPath    string
	APIURL     string
	Tick       time.Duration
	ThemeName  string
	ShowFeed   bool
	PrefsPath  string // empty disables saving preferences
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	ctrl      Submitter
	monitor   HealthMonitor
	store     SnapshotSource
	feeds     FeedSource
	feedURL   string
	feedLimit int
	logPath   string
	apiURL    string
	prefsPath string
	tick      time.Duration

	theme  Theme
	keys   keyMap
	help   help.Model
	width  int
	height int
	ready  bool
	view   View
	focus  focusArea

	input         textarea.Model
	validationErr error
	sub           submission.State
	spinner       spinner.Model
	realBar       progress.Model
	fakeBar       progress.Model
	confidenceBar progress.Model

	health state.Snapshot

	showFeed    bool
	feedItems   []feed.Candidate
	feedSel     int
	feedErr     error
	feedLoading bool

	logViewport viewport.Model
	logLines    []string
	logErr      error

	showHelp bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	tick := opts.Tick
	if tick <= 0 {
		tick = DefaultUIInterval
	}

	m := Model{
		ctx:       ctx,
		ctrl:      opts.Controller,
		monitor:   opts.Health,
		store:     opts.Store,
		feeds:     opts.Feed,
		feedURL:   opts.FeedURL,
		feedLimit: opts.FeedLimit,
		logPath:   opts.LogPath,
		apiURL:    opts.APIURL,
		prefsPath: opts.PrefsPath,
		tick:      tick,
		theme:     GetTheme(opts.ThemeName),
		keys:      DefaultKeyMap(),
		help:      help.New(),
		showFeed:  opts.ShowFeed,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		input:     newHeadlineInput(),
	}
	if m.ctrl != nil {
		m.sub = m.ctrl.State()
	}
	if m.store != nil {
		m.health = m.store.Snapshot()
	}
	m.logViewport = viewport.New(0, 0)
	m.applyTheme()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textarea.Blink,
		tickCmd(m.tick),
		m.spinner.Tick,
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.showFeed {
		if cmd := m.loadFeed(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.health = state.Snapshot(msg)
		return m, nil

	case resolvedMsg:
		if errors.Is(msg.err, submission.ErrSuperseded) || errors.Is(msg.err, submission.ErrClosed) {
			return m, nil
		}
		if msg.state.Seq >= m.sub.Seq {
			m.sub = msg.state
		}
		return m, nil

	case feedMsg:
		m.feedLoading = false
		m.feedErr = msg.err
		if msg.err == nil {
			m.feedItems = msg.items
			if m.feedSel >= len(m.feedItems) {
				m.feedSel = 0
			}
		}
		if len(m.feedItems) == 0 && m.focus == focusFeed {
			m.focusInput()
		}
		return m, nil

	case logsMsg:
		m.logErr = msg.err
		if msg.err == nil {
			m.logLines = msg.lines
		}
		m.updateLogViewport()
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.applyTheme()
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Recheck):
		return m, m.refreshHealth()

	case key.Matches(msg, m.keys.ToggleLogs):
		if m.view == ViewLogs {
			return m, m.enterCheckView()
		}
		m.view = ViewLogs
		m.input.Blur()
		return m, m.loadLogs()

	case key.Matches(msg, m.keys.ToggleFeed):
		m.showFeed = !m.showFeed
		m.savePrefs()
		if !m.showFeed {
			return m, m.focusInput()
		}
		if len(m.feedItems) == 0 {
			return m, m.loadFeed()
		}
		return m, nil
	}

	if m.view == ViewLogs {
		return m.handleLogsKey(msg)
	}
	if m.focus == focusFeed {
		return m.handleFeedKey(msg)
	}
	return m.handleInputKey(msg)
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.Clear):
		m.input.Reset()
		m.validationErr = nil
		return m, nil

	case key.Matches(msg, m.keys.Focus):
		if m.showFeed && len(m.feedItems) > 0 {
			m.focus = focusFeed
			m.input.Blur()
		}
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.validationErr = nil
	}
	return m, cmd
}

func (m Model) handleFeedKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.feedSel > 0 {
			m.feedSel--
		}
	case key.Matches(msg, m.keys.Down):
		if m.feedSel < len(m.feedItems)-1 {
			m.feedSel++
		}
	case key.Matches(msg, m.keys.ReloadFeed):
		return m, m.loadFeed()
	case key.Matches(msg, m.keys.Submit):
		if m.feedSel < len(m.feedItems) {
			m.input.SetValue(m.feedItems[m.feedSel].Headline)
			focus := m.focusInput()
			next, cmd := m.submit()
			return next, tea.Batch(focus, cmd)
		}
	case key.Matches(msg, m.keys.Focus), key.Matches(msg, m.keys.Escape):
		return m, m.focusInput()
	}
	return m, nil
}

func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Escape) {
		return m, m.enterCheckView()
	}
	var cmd tea.Cmd
	m.logViewport, cmd = m.logViewport.Update(msg)
	return m, cmd
}

// submit hands the current input to the controller. Validation failures are
// shown inline and never reach the network.
func (m Model) submit() (Model, tea.Cmd) {
	if m.ctrl == nil {
		return m, nil
	}
	sub, err := m.ctrl.Begin(m.input.Value())
	if err != nil {
		m.validationErr = err
		return m, nil
	}
	m.validationErr = nil
	m.sub = m.ctrl.State()
	return m, tea.Batch(resolveCmd(m.ctx, sub), m.spinner.Tick)
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{tickCmd(m.tick)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.view == ViewLogs {
		if cmd := m.loadLogs(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, tea.Batch(cmds...)
}

// busy reports whether anything on screen is animating.
func (m Model) busy() bool {
	return m.sub.Phase == submission.PhasePending ||
		m.health.Status == state.StatusChecking ||
		m.health.InFlight ||
		m.feedLoading
}

func (m *Model) focusInput() tea.Cmd {
	m.focus = focusInput
	return m.input.Focus()
}

// enterCheckView returns to the main screen and revalidates a stale status.
func (m *Model) enterCheckView() tea.Cmd {
	m.view = ViewCheck
	return tea.Batch(m.focusInput(), revalidateCmd(m.ctx, m.monitor, m.store))
}

func (m *Model) refreshHealth() tea.Cmd {
	if m.monitor == nil {
		return nil
	}
	m.health.InFlight = true
	return tea.Batch(refreshCmd(m.ctx, m.monitor), m.spinner.Tick)
}

func (m *Model) loadFeed() tea.Cmd {
	if m.feeds == nil || m.feedURL == "" {
		return nil
	}
	m.feedLoading = true
	return tea.Batch(fetchFeedCmd(m.ctx, m.feeds, m.feedURL, m.feedLimit), m.spinner.Tick)
}

func (m *Model) loadLogs() tea.Cmd {
	if m.logPath == "" {
		return nil
	}
	return readLogsCmd(m.logPath, LogBufferLimit)
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	_ = prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, ShowFeed: m.showFeed})
}

// Run starts the Bubble Tea program and blocks until the user quits or ctx
// is cancelled.
func Run(opts Options) error {
	m := New(opts)
	programOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Context != nil {
		programOpts = append(programOpts, tea.WithContext(opts.Context))
	}
	_, err := tea.NewProgram(m, programOpts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && opts.Context != nil && opts.Context.Err() != nil {
		return nil
	}
	return err
}
