// Package home is the entry screen: exam title, learner stats, and the
// menu that launches sessions.
package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/apagar/certo/internal/bank"
	"github.com/apagar/certo/internal/progress"
	"github.com/apagar/certo/internal/router"
	"github.com/apagar/certo/internal/screen"
	"github.com/apagar/certo/internal/screens/quiz"
	"github.com/apagar/certo/internal/screens/stats"
	"github.com/apagar/certo/internal/session"
	"github.com/apagar/certo/internal/ui/components"
	"github.com/apagar/certo/internal/ui/theme"
)

// HomeScreen is the main menu of the application.
type HomeScreen struct {
	menu      components.Menu
	examTitle string
	questions int
	topics    int
	mastered  int
	streak    progress.Streak
	missed    int
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates the home screen. The review entry is disabled until the
// learner has missed questions to revisit.
func New(b *bank.Bank, deps quiz.Deps) *HomeScreen {
	h := &HomeScreen{
		examTitle: b.Info.Title,
		questions: b.Len(),
		topics:    len(b.Topics()),
	}
	h.refreshStats(deps.Tracker)

	var missed []int
	if deps.Events != nil {
		missed, _ = deps.Events.MissedQuestionIDs(context.Background())
	}
	h.missed = len(missed)

	items := []components.MenuItem{
		{Label: "PRACTICE", Action: func() tea.Cmd {
			return pushQuiz(deps, session.ModePractice, b.All())
		}},
		{Label: "TIMED EXAM", Action: func() tea.Cmd {
			return pushQuiz(deps, session.ModeTimed, b.All())
		}},
		{Label: "REVIEW MISSED", Disabled: h.missed == 0, Action: func() tea.Cmd {
			pool, err := session.ReviewPool(context.Background(), deps.Events, b)
			if err != nil || len(pool) == 0 {
				return nil
			}
			return pushQuiz(deps, session.ModeReview, pool)
		}},
		{Label: "PROGRESS", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: stats.New(deps.Tracker, deps.Events, b.Topics())}
			}
		}},
		{Label: "QUIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
	h.menu = components.NewMenu(items)
	return h
}

func pushQuiz(deps quiz.Deps, mode session.Mode, pool []*bank.Question) tea.Cmd {
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: quiz.New(deps, mode, pool)}
	}
}

func (h *HomeScreen) refreshStats(tracker *progress.Tracker) {
	if tracker == nil {
		return
	}
	h.streak = tracker.Streak()
	h.mastered = 0
	for _, p := range tracker.Profiles() {
		if p.Level == progress.LevelAdvanced {
			h.mastered++
		}
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var sections []string

	sections = append(sections,
		theme.Title.Width(width).Render(h.examTitle),
		theme.Subtitle.Width(width).Render(
			fmt.Sprintf("%d questions across %d topics", h.questions, h.topics)))

	statsLine := fmt.Sprintf("★ %d day streak    ✓ %d topics mastered", h.streak.Current, h.mastered)
	if h.missed > 0 {
		statsLine += fmt.Sprintf("    ↻ %d to review", h.missed)
	}
	sections = append(sections, lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Accent).
		Render(statsLine))

	sections = append(sections,
		lipgloss.PlaceHorizontal(width, lipgloss.Center, h.menu.View()))

	content := strings.Join(sections, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
