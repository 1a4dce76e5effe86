// Package session drives one practice run: it wires the adaptive
// selector to the progress tracker, enforces the plan size and the timed
// deadline, and turns the finished run into an immutable record.
package session

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/apagar/certo/internal/adaptive"
	"github.com/apagar/certo/internal/bank"
	"github.com/apagar/certo/internal/progress"
	"github.com/apagar/certo/internal/store"
)

// Mode selects how the question pool is built and when the session ends.
type Mode int

const (
	ModePractice Mode = iota // adaptive, ends after the planned count
	ModeTimed                // adaptive with a hard deadline
	ModeReview               // pool restricted to previously missed questions
)

func (m Mode) String() string {
	switch m {
	case ModeTimed:
		return "timed"
	case ModeReview:
		return "review"
	default:
		return "practice"
	}
}

// Phase is the session state machine position.
type Phase int

const (
	PhaseActive   Phase = iota // a question is live
	PhaseFeedback              // the last answer's outcome is displayed
	PhaseSummary               // the session is complete
)

// DefaultQuestionCount is the planned session length when none is given.
const DefaultQuestionCount = 10

// DefaultTimeLimit is the timed-mode deadline when none is given.
const DefaultTimeLimit = 10 * time.Minute

// Options configures a new session.
type Options struct {
	Mode      Mode
	Count     int           // 0 means DefaultQuestionCount, capped at the pool size
	TimeLimit time.Duration // timed mode only; 0 means DefaultTimeLimit
	Pool      []*bank.Question
	Tracker   *progress.Tracker
	Rng       *rand.Rand      // nil selects deterministically
	Events    store.EventRepo // optional append-only log
	Now       func() time.Time
}

// TopicResult accumulates per-topic performance within one session.
type TopicResult struct {
	Topic     string
	Attempted int
	Correct   int
	Level     progress.MasteryLevel
}

// State is the runtime state of an active session.
type State struct {
	ID    string
	Mode  Mode
	Phase Phase

	// Current is the live question, nil between questions.
	Current *bank.Question

	// Asked is the ordered sequence of question ids served so far.
	Asked []int
	// Answers maps a question id to the option indices the learner
	// submitted for it.
	Answers map[int][]int

	Answered     int
	CorrectCount int
	LastOutcome  progress.Outcome

	pool     []*bank.Question
	selector *adaptive.Selector
	tracker  *progress.Tracker
	events   store.EventRepo
	now      func() time.Time

	target        int
	startedAt     time.Time
	deadline      time.Time
	questionStart time.Time
	expired       bool

	topics map[string]*TopicResult
	record *store.SessionRecord
	streak progress.Streak
}

// New starts a session. The pool must be non-empty and the tracker
// non-nil.
func New(opts Options) (*State, error) {
	if len(opts.Pool) == 0 {
		return nil, fmt.Errorf("session: empty question pool")
	}
	if opts.Tracker == nil {
		return nil, fmt.Errorf("session: tracker required")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	target := opts.Count
	if target <= 0 {
		target = DefaultQuestionCount
	}
	if target > len(opts.Pool) {
		target = len(opts.Pool)
	}

	s := &State{
		ID:       uuid.NewString(),
		Mode:     opts.Mode,
		Phase:    PhaseActive,
		Answers:  make(map[int][]int),
		pool:     opts.Pool,
		selector: adaptive.New(opts.Tracker, opts.Rng),
		tracker:  opts.Tracker,
		events:   opts.Events,
		now:      now,
		target:   target,
		topics:   make(map[string]*TopicResult),
	}
	s.startedAt = now()
	if opts.Mode == ModeTimed {
		limit := opts.TimeLimit
		if limit <= 0 {
			limit = DefaultTimeLimit
		}
		s.deadline = s.startedAt.Add(limit)
	}

	s.logSession(store.SessionEventData{
		SessionID: s.ID,
		Action:    "start",
		Mode:      s.Mode.String(),
	})
	return s, nil
}

// Next advances to the next question, or returns nil when the session
// is over (plan reached, deadline passed, or pool exhausted). A nil
// return means the caller should Complete the session.
func (s *State) Next() *bank.Question {
	if s.Phase == PhaseSummary || s.Answered >= s.target || s.Expired() {
		s.Current = nil
		return nil
	}
	q := s.selector.Next(s.pool)
	s.Current = q
	if q == nil {
		return nil
	}
	s.Asked = append(s.Asked, q.ID)
	s.Phase = PhaseActive
	s.questionStart = s.now()
	return q
}

// Submit records the learner's answer for the current question and
// moves the session into the feedback phase.
func (s *State) Submit(submitted []int) (progress.Outcome, error) {
	q := s.Current
	if q == nil || s.Phase != PhaseActive {
		return progress.Outcome{}, fmt.Errorf("session: no active question")
	}

	outcome := s.tracker.RecordAnswer(q, submitted)
	s.LastOutcome = outcome
	s.Answers[q.ID] = append([]int(nil), submitted...)
	s.Answered++
	if outcome.Correct {
		s.CorrectCount++
	}

	tr := s.topics[q.Topic]
	if tr == nil {
		tr = &TopicResult{Topic: q.Topic}
		s.topics[q.Topic] = tr
	}
	tr.Attempted++
	if outcome.Correct {
		tr.Correct++
	}
	tr.Level = outcome.Level

	s.logAnswer(store.AnswerEventData{
		SessionID:  s.ID,
		QuestionID: q.ID,
		Topic:      q.Topic,
		Tier:       outcome.Tier.String(),
		Correct:    outcome.Correct,
		TimeMs:     int(s.now().Sub(s.questionStart).Milliseconds()),
	})

	s.Phase = PhaseFeedback
	return outcome, nil
}

// Advance leaves the feedback phase. The next call to Next serves a new
// question or ends the session.
func (s *State) Advance() {
	if s.Phase == PhaseFeedback {
		s.Phase = PhaseActive
		s.Current = nil
	}
}

// Expired reports whether a timed session has passed its deadline. Once
// expired it stays expired.
func (s *State) Expired() bool {
	if s.expired {
		return true
	}
	if s.Mode != ModeTimed || s.deadline.IsZero() {
		return false
	}
	if s.now().After(s.deadline) {
		s.expired = true
	}
	return s.expired
}

// Remaining returns the time left in a timed session, zero otherwise.
func (s *State) Remaining() time.Duration {
	if s.Mode != ModeTimed || s.deadline.IsZero() {
		return 0
	}
	d := s.deadline.Sub(s.now())
	if d < 0 {
		return 0
	}
	return d
}

// Accuracy is the fraction of answered questions that were correct.
func (s *State) Accuracy() float64 {
	if s.Answered == 0 {
		return 0
	}
	return float64(s.CorrectCount) / float64(s.Answered)
}

// Target is the planned question count for this session.
func (s *State) Target() int {
	return s.target
}

// Complete finalizes the session: it settles the streak, emits the end
// event and freezes the run into a SessionRecord. Calling it again
// returns the same record.
func (s *State) Complete() (*store.SessionRecord, progress.Streak) {
	if s.record != nil {
		return s.record, s.streak
	}
	accuracy := s.Accuracy()
	s.streak = s.tracker.CompleteSession(accuracy)

	duration := s.now().Sub(s.startedAt)
	s.record = &store.SessionRecord{
		SessionID:    s.ID,
		Mode:         s.Mode.String(),
		StartedAt:    s.startedAt.UTC().Format(time.RFC3339),
		DurationSecs: int(duration.Seconds()),
		Questions:    s.Answered,
		Correct:      s.CorrectCount,
		Score:        accuracy,
		Asked:        append([]int(nil), s.Asked...),
		Answers:      copyAnswers(s.Answers),
	}

	s.logSession(store.SessionEventData{
		SessionID:    s.ID,
		Action:       "end",
		Mode:         s.Mode.String(),
		Questions:    s.Answered,
		Correct:      s.CorrectCount,
		DurationSecs: s.record.DurationSecs,
	})

	s.Phase = PhaseSummary
	s.Current = nil
	return s.record, s.streak
}

func copyAnswers(answers map[int][]int) map[int][]int {
	out := make(map[int][]int, len(answers))
	for id, sel := range answers {
		out[id] = append([]int(nil), sel...)
	}
	return out
}

// Event writes are best effort; a logging failure never interrupts the
// learning loop.
func (s *State) logAnswer(data store.AnswerEventData) {
	if s.events == nil {
		return
	}
	_ = s.events.AppendAnswerEvent(context.Background(), data)
}

func (s *State) logSession(data store.SessionEventData) {
	if s.events == nil {
		return
	}
	_ = s.events.AppendSessionEvent(context.Background(), data)
}
