package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/apagar/certo/internal/ui/theme"
)

var optionLabels = []string{"A", "B", "C", "D", "E", "F", "G", "H"}

// MultiChoice is the answer selector. Single-answer questions submit on
// enter directly; multi-answer questions toggle choices with space and
// submit the whole set with enter.
type MultiChoice struct {
	Prompt    string
	Options   []string
	Correct   []int // sorted option indices
	Multi     bool
	Cursor    int
	Chosen    map[int]bool
	Submitted bool
}

// NewMultiChoice creates a selector for one question.
func NewMultiChoice(prompt string, options []string, correct []int, multi bool) MultiChoice {
	return MultiChoice{
		Prompt:  prompt,
		Options: options,
		Correct: correct,
		Multi:   multi,
		Chosen:  make(map[int]bool),
	}
}

// Init returns nil.
func (m MultiChoice) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation, toggling and submission.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Submitted {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Options)-1 {
			m.Cursor++
		}
	case "space", " ":
		if m.Multi {
			m.Chosen[m.Cursor] = !m.Chosen[m.Cursor]
		}
	case "enter":
		if !m.Multi {
			m.Chosen = map[int]bool{m.Cursor: true}
			m.Submitted = true
		} else if len(m.Selection()) > 0 {
			m.Submitted = true
		}
	}

	return m, nil
}

// Selection returns the chosen option indices in ascending order.
func (m MultiChoice) Selection() []int {
	var sel []int
	for i := range m.Options {
		if m.Chosen[i] {
			sel = append(sel, i)
		}
	}
	return sel
}

// View renders the prompt and the option list. After submission the
// correct set is highlighted green and wrong picks red.
func (m MultiChoice) View() string {
	promptStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	s := promptStyle.Render(m.Prompt) + "\n"
	if m.Multi && !m.Submitted {
		s += theme.Hint.Render("Select all that apply") + "\n"
	}
	s += "\n"

	correct := make(map[int]bool, len(m.Correct))
	for _, i := range m.Correct {
		correct[i] = true
	}

	for i, opt := range m.Options {
		label := "?"
		if i < len(optionLabels) {
			label = optionLabels[i]
		}

		cursor := "  "
		if i == m.Cursor && !m.Submitted {
			cursor = "▸ "
		}

		box := ""
		if m.Multi {
			if m.Chosen[i] {
				box = "[x] "
			} else {
				box = "[ ] "
			}
		}

		line := fmt.Sprintf("%s%s%s)  %s", cursor, box, label, opt)

		switch {
		case m.Submitted && correct[i]:
			s += theme.Correct.Render(line) + "\n"
		case m.Submitted && m.Chosen[i]:
			s += theme.Incorrect.Render(line) + "\n"
		case m.Submitted:
			s += lipgloss.NewStyle().Foreground(theme.TextDim).Render(line) + "\n"
		case i == m.Cursor:
			s += theme.Selected.Render(line) + "\n"
		default:
			s += lipgloss.NewStyle().Foreground(theme.Text).Render(line) + "\n"
		}
	}

	return s
}

// IsCorrect reports whether the submitted selection matches the correct
// set exactly.
func (m MultiChoice) IsCorrect() bool {
	if !m.Submitted {
		return false
	}
	sel := m.Selection()
	if len(sel) != len(m.Correct) {
		return false
	}
	for i, v := range sel {
		if m.Correct[i] != v {
			return false
		}
	}
	return true
}
