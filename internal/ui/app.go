package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/studydesk/internal/download"
	"github.com/five82/studydesk/internal/logging"
	"github.com/five82/studydesk/internal/model"
	"github.com/five82/studydesk/internal/prefs"
	"github.com/five82/studydesk/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewLibrary View = iota
	ViewMaterial
	ViewSearch
	ViewDownloads
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Store     *state.Store
	Engine    *download.Engine
	Log       *logging.Logger
	ThemeName string
	PrefsPath string
	// Refresh re-reads the snapshot so the clock-dependent header stays
	// current between changes. Zero uses a minute.
	Refresh time.Duration
	Now     func() time.Time
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	store     *state.Store
	engine    *download.Engine
	log       *logging.Logger
	prefsPath string
	refresh   time.Duration
	now       func() time.Time

	keys  keyMap
	help  help.Model
	theme Theme

	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	// flash is the outcome of the last action, shown in the command bar.
	flash string

	snapshot *model.AppState

	library libraryState

	// Material detail
	materialID   string
	returnView   View
	notesInput   textinput.Model
	editingNotes bool
	bar          progress.Model

	search searchState

	downloadsRow int
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	log := opts.Log
	if log == nil {
		log = logging.Nop()
	}
	refresh := opts.Refresh
	if refresh <= 0 {
		refresh = time.Minute
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	themeName := opts.ThemeName
	if themeName == "" {
		themeName = DefaultThemeName
	}

	notes := textinput.New()
	notes.Placeholder = "Notes"
	notes.CharLimit = 2000

	query := textinput.New()
	query.Placeholder = "Search subjects, topics, materials"
	query.Prompt = "/ "

	m := Model{
		ctx:         ctx,
		store:       opts.Store,
		engine:      opts.Engine,
		log:         log,
		prefsPath:   opts.PrefsPath,
		refresh:     refresh,
		now:         now,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		theme:       GetTheme(themeName),
		currentView: ViewLibrary,
		notesInput:  notes,
		bar:         progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		search:      searchState{input: query},
	}
	m.reload()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.refresh)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.bar.Width = max(msg.Width/3, 10)
		m.ready = true
		return m, nil

	case changeMsg:
		m.reload()
		return m, nil

	case tickMsg:
		m.reload()
		return m, tickCmd(m.refresh)
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	return b.String()
}

func (m Model) renderContent() string {
	switch m.currentView {
	case ViewMaterial:
		return m.renderMaterial()
	case ViewSearch:
		return m.renderSearch()
	case ViewDownloads:
		return m.renderDownloads()
	default:
		return m.renderLibrary()
	}
}

// reload takes a fresh snapshot and repairs selections that no longer exist.
func (m *Model) reload() {
	if m.store == nil {
		m.snapshot = &model.AppState{}
		return
	}
	m.snapshot = m.store.Snapshot()
	m.clampLibrary()
	if m.currentView == ViewMaterial && m.material() == nil {
		m.currentView = ViewLibrary
		m.editingNotes = false
	}
	m.downloadsRow = clampRow(m.downloadsRow, len(m.downloadItems()))
	if m.search.query != "" {
		m.runSearch()
	}
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	// Text inputs own the keyboard while focused.
	if m.editingNotes {
		return m.handleNotesKey(msg)
	}
	if m.currentView == ViewSearch && m.search.input.Focused() {
		return m.handleSearchInputKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.cycleTheme()
		return m, nil
	case key.Matches(msg, m.keys.ViewLibrary):
		m.currentView = ViewLibrary
		return m, nil
	case key.Matches(msg, m.keys.ViewSearch):
		m.currentView = ViewSearch
		cmd := m.search.input.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.ViewDownloads):
		m.currentView = ViewDownloads
		return m, nil
	}

	m.flash = ""
	switch m.currentView {
	case ViewMaterial:
		return m.handleMaterialKey(msg)
	case ViewSearch:
		return m.handleSearchKey(msg)
	case ViewDownloads:
		return m.handleDownloadsKey(msg)
	default:
		return m.handleLibraryKey(msg)
	}
}

func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	if m.prefsPath == "" {
		return
	}
	p, _ := prefs.Load(m.prefsPath)
	p.Theme = m.theme.Name
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.log.Warn("save prefs failed", "path", m.prefsPath, "error", err)
	}
}

// openMaterial shows the detail view for id, remembering where to return.
// Opening counts as an access, so the material moves to the front of the
// recently opened list.
func (m *Model) openMaterial(id string) {
	m.returnView = m.currentView
	m.materialID = id
	m.currentView = ViewMaterial
	m.editingNotes = false
	if mat := m.material(); mat != nil {
		m.store.UpdateMaterialProgress(id, mat.Progress)
		m.reload()
	}
}

func (m *Model) material() *model.Material {
	if m.materialID == "" {
		return nil
	}
	for _, sub := range m.snapshot.Subjects {
		for _, t := range sub.Topics {
			for _, mat := range t.Materials {
				if mat.ID == m.materialID {
					return mat
				}
			}
		}
	}
	return nil
}

// startDownload reports a start that the engine refused.
func (m *Model) startDownload(id string) {
	if m.engine == nil {
		return
	}
	if !m.engine.Download(id) {
		m.flash = "already downloaded or downloading"
	}
	m.reload()
}

func clampRow(row, n int) int {
	if n == 0 || row < 0 {
		return 0
	}
	if row >= n {
		return n - 1
	}
	return row
}

// moveRow applies the shared list navigation keys.
func (m Model) moveRow(msg tea.KeyMsg, row, n int) (int, bool) {
	switch {
	case key.Matches(msg, m.keys.Down):
		return clampRow(row+1, n), true
	case key.Matches(msg, m.keys.Up):
		return clampRow(row-1, n), true
	case key.Matches(msg, m.keys.Top):
		return 0, true
	case key.Matches(msg, m.keys.Bottom):
		return clampRow(n-1, n), true
	}
	return row, false
}

// Messages

type tickMsg time.Time

type changeMsg state.Change

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Run starts the Bubble Tea program and blocks until it exits or ctx is
// cancelled. Store changes are forwarded through a one-slot mailbox: a
// change that finds the slot full is covered by the pending one, since each
// delivery re-reads the whole snapshot.
func Run(ctx context.Context, opts Options) error {
	if opts.Store == nil {
		return errors.New("ui requires a store")
	}
	opts.Context = ctx

	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))

	mailbox := make(chan state.Change, 1)
	unsubscribe := opts.Store.Subscribe(func(ch state.Change) {
		select {
		case mailbox <- ch:
		default:
		}
	})
	defer unsubscribe()

	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case ch := <-mailbox:
				p.Send(changeMsg(ch))
			case <-done:
				return
			}
		}
	}()

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
