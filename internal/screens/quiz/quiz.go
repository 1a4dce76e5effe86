// Package quiz is the active-session screen: it serves questions from
// the adaptive selector, grades submissions, shows feedback with the
// explanation, and hands off to the summary screen when the session ends.
package quiz

import (
	"fmt"
	"math/rand"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/apagar/certo/internal/bank"
	"github.com/apagar/certo/internal/persist"
	"github.com/apagar/certo/internal/progress"
	"github.com/apagar/certo/internal/router"
	"github.com/apagar/certo/internal/screen"
	"github.com/apagar/certo/internal/screens/summary"
	"github.com/apagar/certo/internal/session"
	"github.com/apagar/certo/internal/store"
	"github.com/apagar/certo/internal/ui/components"
	"github.com/apagar/certo/internal/ui/layout"
)

// Deps are the collaborators a quiz session needs. OnComplete receives
// the finished session record for the history kept in the snapshot.
type Deps struct {
	Tracker    *progress.Tracker
	Events     store.EventRepo
	Saver      *persist.Coordinator
	OnComplete func(*store.SessionRecord)
	Count      int
	TimeLimit  time.Duration
	Rng        *rand.Rand
}

// tickMsg drives the timed-mode countdown.
type tickMsg time.Time

// QuizScreen implements screen.Screen for an active session.
type QuizScreen struct {
	deps   Deps
	state  *session.State
	choice components.MultiChoice
	save   components.SaveStatus
	errMsg string
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)

// New starts a session over the given pool and returns its screen.
func New(deps Deps, mode session.Mode, pool []*bank.Question) *QuizScreen {
	s := &QuizScreen{
		deps: deps,
		save: components.NewSaveStatus(),
	}

	state, err := session.New(session.Options{
		Mode:      mode,
		Count:     deps.Count,
		TimeLimit: deps.TimeLimit,
		Pool:      pool,
		Tracker:   deps.Tracker,
		Rng:       deps.Rng,
		Events:    deps.Events,
	})
	if err != nil {
		s.errMsg = err.Error()
		return s
	}
	s.state = state
	s.serveNext()
	return s
}

func (s *QuizScreen) Init() tea.Cmd {
	cmds := []tea.Cmd{s.save.Init()}
	if s.state != nil && s.state.Mode == session.ModeTimed {
		cmds = append(cmds, tickCmd())
	}
	return tea.Batch(cmds...)
}

func (s *QuizScreen) Title() string {
	if s.state == nil {
		return "Session"
	}
	switch s.state.Mode {
	case session.ModeTimed:
		return "Timed Exam"
	case session.ModeReview:
		return "Review"
	default:
		return "Practice"
	}
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if s.state == nil {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	if s.state.Phase == session.PhaseFeedback {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Continue"},
			{Key: "Esc", Description: "Abandon session"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Move"},
	}
	if q := s.state.Current; q != nil && q.MultiAnswer() {
		hints = append(hints, layout.KeyHint{Key: "Space", Description: "Toggle"})
	}
	hints = append(hints,
		layout.KeyHint{Key: "Enter", Description: "Submit"},
		layout.KeyHint{Key: "Esc", Description: "Abandon session"},
	)
	return hints
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmds []tea.Cmd

	s.save.Status = s.saverStatus()
	var saveCmd tea.Cmd
	s.save, saveCmd = s.save.Update(msg)
	if saveCmd != nil {
		cmds = append(cmds, saveCmd)
	}

	if s.state == nil {
		return s, tea.Batch(cmds...)
	}

	switch msg := msg.(type) {
	case tickMsg:
		if s.state.Mode == session.ModeTimed {
			if s.state.Expired() {
				return s, tea.Batch(append(cmds, s.finish())...)
			}
			cmds = append(cmds, tickCmd())
		}
		return s, tea.Batch(cmds...)

	case tea.KeyMsg:
		switch s.state.Phase {
		case session.PhaseActive:
			cmd := s.updateActive(msg)
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
		case session.PhaseFeedback:
			if msg.String() == "enter" {
				s.state.Advance()
				if cmd := s.serveNext(); cmd != nil {
					cmds = append(cmds, cmd)
				}
			}
		}
	}

	return s, tea.Batch(cmds...)
}

func (s *QuizScreen) updateActive(msg tea.KeyMsg) tea.Cmd {
	s.choice, _ = s.choice.Update(msg)
	if !s.choice.Submitted {
		return nil
	}

	if _, err := s.state.Submit(s.choice.Selection()); err != nil {
		s.errMsg = err.Error()
		return nil
	}
	// Every answer dirties the learner state.
	s.deps.Saver.Schedule()
	return nil
}

// serveNext draws the next question, or ends the session when the
// selector is done. Returns a command only on session end.
func (s *QuizScreen) serveNext() tea.Cmd {
	q := s.state.Next()
	if q == nil {
		return s.finish()
	}
	s.choice = components.NewMultiChoice(q.Prompt, q.Options, q.Correct, q.MultiAnswer())
	return nil
}

// finish completes the session, records it, forces a save and swaps in
// the summary screen.
func (s *QuizScreen) finish() tea.Cmd {
	record, _ := s.state.Complete()
	if s.deps.OnComplete != nil {
		s.deps.OnComplete(record)
	}
	s.deps.Saver.SaveNow()

	sum := session.BuildSummary(s.state)
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: summary.New(sum)}
	}
}

func (s *QuizScreen) saverStatus() persist.Status {
	if s.deps.Saver == nil {
		return persist.StatusIdle
	}
	return s.deps.Saver.Status()
}

func (s *QuizScreen) progressLine() string {
	line := fmt.Sprintf("Question %d of %d", s.state.Answered+1, s.state.Target())
	if s.state.Phase == session.PhaseFeedback {
		line = fmt.Sprintf("Question %d of %d", s.state.Answered, s.state.Target())
	}
	if s.state.Mode == session.ModeTimed {
		rem := s.state.Remaining().Round(time.Second)
		line += fmt.Sprintf("   %02d:%02d left", int(rem.Minutes()), int(rem.Seconds())%60)
	}
	return line
}
