// Package app wires the stores, the tracker, the persistence
// coordinator and the TUI together, and owns the program lifecycle.
package app

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"sync"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/apagar/certo/internal/bank"
	"github.com/apagar/certo/internal/config"
	"github.com/apagar/certo/internal/difficulty"
	"github.com/apagar/certo/internal/persist"
	"github.com/apagar/certo/internal/progress"
	"github.com/apagar/certo/internal/router"
	"github.com/apagar/certo/internal/screen"
	"github.com/apagar/certo/internal/screens/home"
	"github.com/apagar/certo/internal/screens/quiz"
	"github.com/apagar/certo/internal/session"
	"github.com/apagar/certo/internal/store"
	"github.com/apagar/certo/internal/ui/layout"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	tracker *progress.Tracker
	width   int
	height  int
}

func newAppModel(initial screen.Screen, tracker *progress.Tracker) AppModel {
	return AppModel{
		router:  router.New(initial),
		tracker: tracker,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	streak := 0
	mastered := 0
	if m.tracker != nil {
		streak = m.tracker.Streak().Current
		for _, p := range m.tracker.Profiles() {
			if p.Level == progress.LevelAdvanced {
				mastered++
			}
		}
	}
	header := layout.RenderHeader(title, streak, mastered, m.width)

	var footerHints []layout.KeyHint
	if provider, ok := active.(screen.KeyHintProvider); ok {
		footerHints = provider.KeyHints()
	}
	if footerHints == nil {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// keepSnapshots bounds snapshot history growth.
const keepSnapshots = 10

// Options configures a program run.
type Options struct {
	DBPath   string
	BankPath string
	Config   *config.Config

	// StartMode skips the home menu and opens a session directly.
	StartMode session.Mode
	HasMode   bool
	// Count overrides the configured session length when positive.
	Count int
}

// Run opens the stores, restores learner state, and drives the TUI
// until exit. Unsaved state is flushed on the way out.
func Run(opts Options) error {
	cfg := opts.Config
	if cfg == nil {
		var err error
		cfg, err = config.Load(config.DefaultPath())
		if err != nil {
			return err
		}
	}
	difficulty.SetWeights(cfg.Weights())

	b, err := bank.NewStore().LoadFile(opts.BankPath)
	if err != nil {
		return fmt.Errorf("loading question bank: %w", err)
	}

	st, err := store.Open(opts.DBPath)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	snapRepo := st.SnapshotRepo()
	eventRepo := st.EventRepo()

	// An unreadable snapshot means starting fresh, not crashing.
	var data *store.SnapshotData
	if snap, err := snapRepo.Latest(context.Background()); err == nil && snap != nil {
		data = &snap.Data
	}

	tracker := progress.NewTracker(data, cfg.Thresholds())

	var histMu sync.Mutex
	var history []store.SessionRecord
	if data != nil {
		history = append(history, data.Sessions...)
	}

	coord := persist.New(
		func() *store.SnapshotData {
			histMu.Lock()
			sessions := make([]store.SessionRecord, len(history))
			copy(sessions, history)
			histMu.Unlock()
			return &store.SnapshotData{
				Version:  store.SchemaVersion,
				Progress: tracker.SnapshotData(),
				Sessions: sessions,
			}
		},
		func(ctx context.Context, data *store.SnapshotData) error {
			if err := snapRepo.Save(ctx, &store.Snapshot{Data: *data}); err != nil {
				return err
			}
			return snapRepo.Prune(ctx, keepSnapshots)
		},
		persist.WithDelay(cfg.Debounce()),
	)

	deps := quiz.Deps{
		Tracker: tracker,
		Events:  eventRepo,
		Saver:   coord,
		OnComplete: func(record *store.SessionRecord) {
			histMu.Lock()
			history = append(history, *record)
			histMu.Unlock()
		},
		Count:     cfg.Session.Count,
		TimeLimit: cfg.TimeLimit(),
		Rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	if opts.Count > 0 {
		deps.Count = opts.Count
	}

	model := newAppModel(home.New(b, deps), tracker)
	if opts.HasMode {
		pool := b.All()
		if opts.StartMode == session.ModeReview {
			var err error
			pool, err = session.ReviewPool(context.Background(), eventRepo, b)
			if err != nil {
				return err
			}
			if len(pool) == 0 {
				return fmt.Errorf("nothing to review: no questions have been missed yet")
			}
		}
		model.router.Push(quiz.New(deps, opts.StartMode, pool))
	}

	p := tea.NewProgram(model)
	_, runErr := p.Run()
	if runErr != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", runErr)
	}

	if err := coord.Close(); err != nil {
		return fmt.Errorf("flushing progress: %w", err)
	}
	return runErr
}
