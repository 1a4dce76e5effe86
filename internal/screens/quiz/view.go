package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/apagar/certo/internal/progress"
	"github.com/apagar/certo/internal/session"
	"github.com/apagar/certo/internal/ui/theme"
)

func (s *QuizScreen) View(width, height int) string {
	if s.state == nil {
		return theme.Incorrect.Render("Could not start the session: "+s.errMsg) +
			"\n\n" + theme.Hint.Render("Press Esc to go back.")
	}

	var b strings.Builder

	topic := ""
	if q := s.state.Current; q != nil {
		topic = q.Topic
	}
	header := theme.Subtitle.Render(s.progressLine())
	if topic != "" {
		header += "   " + lipgloss.NewStyle().Foreground(theme.Secondary).Render(topic)
	}
	b.WriteString(header + "\n\n")

	if s.errMsg != "" {
		b.WriteString(theme.Incorrect.Render(s.errMsg) + "\n\n")
	}

	if q := s.state.Current; q != nil {
		if q.Exhibit != "" {
			b.WriteString(theme.Card.Render(q.Exhibit) + "\n\n")
		}
		b.WriteString(s.choice.View())
	}

	if s.state.Phase == session.PhaseFeedback {
		b.WriteString("\n" + s.feedbackView())
	}

	if save := s.save.View(); save != "" {
		b.WriteString("\n" + save)
	}

	card := theme.Card.Width(contentWidth(width)).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

func (s *QuizScreen) feedbackView() string {
	out := s.resultLine()

	q := s.state.Current
	if q != nil && q.Explanation != "" {
		out += "\n" + theme.Body.Render(q.Explanation)
	}
	out += "\n" + theme.Hint.Render(fmt.Sprintf("Difficulty: %s", s.state.LastOutcome.Tier))
	return out
}

func (s *QuizScreen) resultLine() string {
	if s.state.LastOutcome.Correct {
		line := theme.Correct.Render("Correct!")
		if s.state.LastOutcome.Level == progress.LevelAdvanced {
			line += theme.Hint.Render("  topic mastered")
		}
		return line
	}
	return theme.Incorrect.Render("Not quite.")
}

func contentWidth(width int) int {
	cw := width - 12
	if cw > 88 {
		cw = 88
	}
	if cw < 40 {
		cw = 40
	}
	return cw
}
