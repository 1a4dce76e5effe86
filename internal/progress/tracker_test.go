package progress

import (
	"testing"

	"github.com/apagar/certo/internal/bank"
	"github.com/apagar/certo/internal/difficulty"
	"github.com/apagar/certo/internal/store"
)

func q(id int, topic string, correct ...int) *bank.Question {
	return &bank.Question{
		ID:      id,
		Prompt:  "prompt",
		Options: []string{"a", "b", "c", "d"},
		Correct: correct,
		Topic:   topic,
	}
}

func TestRecordAnswer_SetEquality(t *testing.T) {
	tests := []struct {
		name      string
		correct   []int
		submitted []int
		want      bool
	}{
		{name: "single correct", correct: []int{1}, submitted: []int{1}, want: true},
		{name: "single wrong", correct: []int{1}, submitted: []int{2}, want: false},
		{name: "multi order-independent", correct: []int{2, 1}, submitted: []int{1, 2}, want: true},
		{name: "multi partial is wrong", correct: []int{1, 2}, submitted: []int{1}, want: false},
		{name: "multi superset is wrong", correct: []int{1, 2}, submitted: []int{1, 2, 3}, want: false},
		{name: "empty submission", correct: []int{1}, submitted: nil, want: false},
		{name: "duplicate submission collapses", correct: []int{1, 2}, submitted: []int{2, 1, 2}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTracker(nil, DefaultThresholds())
			out := tr.RecordAnswer(q(1, "Routing", tt.correct...), tt.submitted)
			if out.Correct != tt.want {
				t.Errorf("Correct = %v, want %v", out.Correct, tt.want)
			}
		})
	}
}

func TestTracker_MasteryGating(t *testing.T) {
	tr := NewTracker(nil, DefaultThresholds())

	// Two perfect answers: still beginner, sample floor not met.
	for i := 0; i < 2; i++ {
		tr.RecordAnswer(q(i, "Cloud", 0), []int{0})
	}
	if got := tr.Profile("Cloud").Level; got != LevelBeginner {
		t.Errorf("level after 2 perfect = %s, want beginner", got)
	}

	// Third perfect answer crosses the intermediate floor.
	tr.RecordAnswer(q(2, "Cloud", 0), []int{0})
	if got := tr.Profile("Cloud").Level; got != LevelIntermediate {
		t.Errorf("level after 3 perfect = %s, want intermediate", got)
	}

	// Five perfect answers reach advanced.
	tr.RecordAnswer(q(3, "Cloud", 0), []int{0})
	tr.RecordAnswer(q(4, "Cloud", 0), []int{0})
	if got := tr.Profile("Cloud").Level; got != LevelAdvanced {
		t.Errorf("level after 5 perfect = %s, want advanced", got)
	}
}

func TestTracker_ImmediateVisibility(t *testing.T) {
	tr := NewTracker(nil, DefaultThresholds())
	tr.RecordAnswer(q(1, "Security", 1), []int{1})

	p := tr.Profile("Security")
	if p.Answered != 1 || p.Correct != 1 {
		t.Errorf("profile = %+v, want answered=1 correct=1", p)
	}
}

func TestTracker_UnseenTopic(t *testing.T) {
	tr := NewTracker(nil, DefaultThresholds())
	p := tr.Profile("Wireless")
	if p.Answered != 0 || p.Level != LevelBeginner {
		t.Errorf("unseen profile = %+v", p)
	}
}

func TestTracker_Streak(t *testing.T) {
	tr := NewTracker(nil, DefaultThresholds())

	if s := tr.CompleteSession(0.75); s.Current != 1 {
		t.Errorf("streak = %d, want 1", s.Current)
	}
	if s := tr.CompleteSession(0.70); s.Current != 2 || s.Best != 2 {
		t.Errorf("streak = %+v, want current=2 best=2", s)
	}
	if s := tr.CompleteSession(0.69); s.Current != 0 || s.Best != 2 {
		t.Errorf("streak after reset = %+v, want current=0 best=2", s)
	}
}

func TestTracker_TierCorrectCounting(t *testing.T) {
	tr := NewTracker(nil, DefaultThresholds())

	question := q(1, "Network Fundamentals", 0)
	tier := difficulty.Classify(question)

	tr.RecordAnswer(question, []int{0})
	tr.RecordAnswer(question, []int{1}) // wrong, no tier credit

	if got := tr.TierCorrect("Network Fundamentals", tier); got != 1 {
		t.Errorf("TierCorrect = %d, want 1", got)
	}
}

func TestTracker_SnapshotRoundTrip(t *testing.T) {
	tr := NewTracker(nil, DefaultThresholds())
	for i := 0; i < 4; i++ {
		tr.RecordAnswer(q(i, "Routing", 0), []int{0})
	}
	tr.RecordAnswer(q(9, "Routing", 0), []int{1})
	tr.CompleteSession(0.8)

	snap := &store.SnapshotData{Version: store.SchemaVersion, Progress: tr.SnapshotData()}
	tr2 := NewTracker(snap, DefaultThresholds())

	p := tr2.Profile("Routing")
	if p.Answered != 5 || p.Correct != 4 {
		t.Errorf("restored profile = %+v, want answered=5 correct=4", p)
	}
	if p.Level != LevelAdvanced {
		t.Errorf("restored level = %s, want advanced", p.Level)
	}
	if tr2.Streak().Current != 1 {
		t.Errorf("restored streak = %d, want 1", tr2.Streak().Current)
	}

	tier := difficulty.Classify(q(0, "Routing", 0))
	if got := tr2.TierCorrect("Routing", tier); got != tr.TierCorrect("Routing", tier) {
		t.Error("tier correct counts did not survive the round trip")
	}
}

func TestTracker_Reset(t *testing.T) {
	tr := NewTracker(nil, DefaultThresholds())
	tr.RecordAnswer(q(1, "Cloud", 0), []int{0})
	tr.CompleteSession(1.0)

	tr.Reset()

	if p := tr.Profile("Cloud"); p.Answered != 0 {
		t.Errorf("profile after reset = %+v", p)
	}
	if s := tr.Streak(); s.Current != 0 || s.Best != 0 {
		t.Errorf("streak after reset = %+v", s)
	}
}
