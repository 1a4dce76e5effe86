// Package stats renders per-topic mastery: level, accuracy bar, and
// when the topic was last practiced.
package stats

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/apagar/certo/internal/progress"
	"github.com/apagar/certo/internal/screen"
	"github.com/apagar/certo/internal/store"
	"github.com/apagar/certo/internal/ui/components"
	"github.com/apagar/certo/internal/ui/layout"
	"github.com/apagar/certo/internal/ui/theme"
)

// topicRow is one line of the mastery table. allTime comes from the
// event log, which outlives snapshot resets.
type topicRow struct {
	topic         string
	profile       progress.Profile
	allTime       float64
	hasLog        bool
	lastPracticed time.Time
}

// StatsScreen shows the learner's standing across every bank topic,
// including topics never practiced.
type StatsScreen struct {
	rows   []topicRow
	streak progress.Streak
}

var _ screen.Screen = (*StatsScreen)(nil)
var _ screen.KeyHintProvider = (*StatsScreen)(nil)

// New builds the screen from the tracker and the event log. The event
// log is optional; without it the last-practiced column stays empty.
func New(tracker *progress.Tracker, events store.EventRepo, topics []string) *StatsScreen {
	s := &StatsScreen{streak: tracker.Streak()}
	for _, topic := range topics {
		row := topicRow{topic: topic, profile: tracker.Profile(topic)}
		if events != nil {
			row.lastPracticed, _ = events.LatestAnswerTime(context.Background(), topic)
			if acc, err := events.TopicAccuracy(context.Background(), topic); err == nil {
				row.allTime = acc
				row.hasLog = !row.lastPracticed.IsZero()
			}
		}
		s.rows = append(s.rows, row)
	}
	return s
}

func (s *StatsScreen) Init() tea.Cmd {
	return nil
}

func (s *StatsScreen) Title() string {
	return "Progress"
}

func (s *StatsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
	}
}

func (s *StatsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	return s, nil
}

func (s *StatsScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString(theme.Subtitle.Width(width).Render(
		fmt.Sprintf("★ %d day streak (best %d)", s.streak.Current, s.streak.Best)))
	b.WriteString("\n\n")

	barWidth := 24
	for _, row := range s.rows {
		p := row.profile
		bar := components.NewProgressBar("", p.Ratio(), false, barWidth)

		levelStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
		if p.Level == progress.LevelAdvanced {
			levelStyle = levelStyle.Foreground(theme.Success)
		} else if p.Level == progress.LevelIntermediate {
			levelStyle = levelStyle.Foreground(theme.Secondary)
		}

		line := fmt.Sprintf("  %-32s %s  %-12s %s",
			row.topic, bar.View(), levelStyle.Render(string(p.Level)), detail(row))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Left, line))
		b.WriteString("\n")
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}

func detail(row topicRow) string {
	p := row.profile
	if p.Answered == 0 && !row.hasLog {
		return theme.Hint.Render("not practiced yet")
	}
	out := fmt.Sprintf("%d/%d", p.Correct, p.Answered)
	if row.hasLog {
		out += theme.Hint.Render(fmt.Sprintf("  all-time %.0f%%", row.allTime*100))
	}
	if !row.lastPracticed.IsZero() {
		out += theme.Hint.Render("  last " + humanizeSince(time.Since(row.lastPracticed)))
	}
	return out
}

func humanizeSince(d time.Duration) string {
	switch {
	case d < time.Hour:
		return "under an hour ago"
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
