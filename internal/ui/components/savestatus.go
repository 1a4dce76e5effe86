package components

import (
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/apagar/certo/internal/persist"
	"github.com/apagar/certo/internal/ui/theme"
)

// SaveStatus renders the persistence coordinator state in a corner of
// the quiz screen: a spinner while a write is in flight, a checkmark
// once saved, a warning on failure.
type SaveStatus struct {
	Status  persist.Status
	spinner spinner.Model
}

// NewSaveStatus creates the indicator in the idle state.
func NewSaveStatus() SaveStatus {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Secondary)
	return SaveStatus{spinner: sp}
}

// Init starts the spinner ticker.
func (s SaveStatus) Init() tea.Cmd {
	return s.spinner.Tick
}

// Update advances the spinner animation.
func (s SaveStatus) Update(msg tea.Msg) (SaveStatus, tea.Cmd) {
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return s, cmd
}

// View renders the current save state.
func (s SaveStatus) View() string {
	switch s.Status {
	case persist.StatusSaving:
		return s.spinner.View() + theme.Hint.Render(" saving")
	case persist.StatusSaved:
		return lipgloss.NewStyle().Foreground(theme.Success).Render("✓ saved")
	case persist.StatusError:
		return lipgloss.NewStyle().Foreground(theme.Error).Render("! save failed, retrying")
	default:
		return ""
	}
}
