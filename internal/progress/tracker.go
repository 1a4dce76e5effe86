package progress

import (
	"sync"

	"github.com/apagar/certo/internal/bank"
	"github.com/apagar/certo/internal/difficulty"
	"github.com/apagar/certo/internal/store"
)

// Outcome is the result of recording one answered question.
type Outcome struct {
	Correct bool
	Tier    difficulty.Tier
	Level   MasteryLevel // topic level after the update
}

// Tracker accumulates per-topic and per-tier mastery statistics. All
// mutation is synchronous; a profile read after RecordAnswer reflects it.
// Profiles are never deleted, only reset by explicit user action.
// Safe for concurrent use: the persistence coordinator exports snapshots
// from a background goroutine while answers are being recorded.
type Tracker struct {
	mu          sync.Mutex
	thresholds  Thresholds
	profiles    map[string]*Profile
	tierCorrect map[string]map[difficulty.Tier]int
	streak      Streak
}

// NewTracker creates a tracker, loading state from a snapshot when present.
func NewTracker(snap *store.SnapshotData, th Thresholds) *Tracker {
	t := &Tracker{
		thresholds:  th,
		profiles:    make(map[string]*Profile),
		tierCorrect: make(map[string]map[difficulty.Tier]int),
	}

	if snap == nil || snap.Progress == nil {
		return t
	}

	for topic, td := range snap.Progress.Topics {
		t.profiles[topic] = &Profile{
			Topic:    topic,
			Answered: td.Answered,
			Correct:  td.Correct,
			Level:    levelFor(th, td.Answered, td.Correct),
		}
	}
	for topic, tiers := range snap.Progress.TierCorrect {
		m := make(map[difficulty.Tier]int, len(tiers))
		for name, n := range tiers {
			m[difficulty.TierFromString(name)] = n
		}
		t.tierCorrect[topic] = m
	}
	t.streak = Streak{
		Current: snap.Progress.Streak.Current,
		Best:    snap.Progress.Streak.Best,
	}

	return t
}

// RecordAnswer grades a submitted answer and updates topic counters.
// Correctness is exact set equality between the submitted indices and the
// question's correct set: order-independent, all-or-nothing.
func (t *Tracker) RecordAnswer(q *bank.Question, submitted []int) Outcome {
	t.mu.Lock()
	defer t.mu.Unlock()

	correct := sameSet(submitted, q.Correct)
	tier := difficulty.Classify(q)

	p := t.profile(q.Topic)
	p.Answered++
	if correct {
		p.Correct++
		tiers := t.tierCorrect[q.Topic]
		if tiers == nil {
			tiers = make(map[difficulty.Tier]int)
			t.tierCorrect[q.Topic] = tiers
		}
		tiers[tier]++
	}
	p.Level = levelFor(t.thresholds, p.Answered, p.Correct)

	return Outcome{Correct: correct, Tier: tier, Level: p.Level}
}

// Profile returns a copy of the topic's profile. Unseen topics report an
// empty beginner profile.
func (t *Tracker) Profile(topic string) Profile {
	t.mu.Lock()
	defer t.mu.Unlock()
	if p, ok := t.profiles[topic]; ok {
		return *p
	}
	return Profile{Topic: topic, Level: LevelBeginner}
}

// Profiles returns copies of all known profiles keyed by topic.
func (t *Tracker) Profiles() map[string]Profile {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]Profile, len(t.profiles))
	for topic, p := range t.profiles {
		out[topic] = *p
	}
	return out
}

// TierCorrect returns how often the learner answered the topic correctly
// at the given tier. Used by the selector's within-topic ordering.
func (t *Tracker) TierCorrect(topic string, tier difficulty.Tier) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tierCorrect[topic][tier]
}

// CompleteSession updates the streak for a finished session: accuracy at
// or above the bar extends it, anything less resets it.
func (t *Tracker) CompleteSession(accuracy float64) Streak {
	t.mu.Lock()
	defer t.mu.Unlock()
	if accuracy >= StreakAccuracyBar {
		t.streak.Current++
		if t.streak.Current > t.streak.Best {
			t.streak.Best = t.streak.Current
		}
	} else {
		t.streak.Current = 0
	}
	return t.streak
}

// Streak returns the current streak counters.
func (t *Tracker) Streak() Streak {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.streak
}

// Reset clears all accumulated state. Explicit user action only.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.profiles = make(map[string]*Profile)
	t.tierCorrect = make(map[string]map[difficulty.Tier]int)
	t.streak = Streak{}
}

// SnapshotData exports the tracker state for persistence.
func (t *Tracker) SnapshotData() *store.ProgressSnapshotData {
	t.mu.Lock()
	defer t.mu.Unlock()
	data := &store.ProgressSnapshotData{
		Topics:      make(map[string]*store.TopicProgressData, len(t.profiles)),
		TierCorrect: make(map[string]map[string]int, len(t.tierCorrect)),
		Streak:      store.StreakData{Current: t.streak.Current, Best: t.streak.Best},
	}
	for topic, p := range t.profiles {
		data.Topics[topic] = &store.TopicProgressData{
			Topic:    topic,
			Answered: p.Answered,
			Correct:  p.Correct,
		}
	}
	for topic, tiers := range t.tierCorrect {
		m := make(map[string]int, len(tiers))
		for tier, n := range tiers {
			m[tier.String()] = n
		}
		data.TierCorrect[topic] = m
	}
	return data
}

func (t *Tracker) profile(topic string) *Profile {
	if p, ok := t.profiles[topic]; ok {
		return p
	}
	p := &Profile{Topic: topic, Level: LevelBeginner}
	t.profiles[topic] = p
	return p
}

// sameSet reports whether a and b contain the same indices, ignoring
// order and duplicates.
func sameSet(a, b []int) bool {
	if len(b) == 0 {
		return false
	}
	seen := make(map[int]bool, len(b))
	for _, v := range b {
		seen[v] = true
	}
	matched := make(map[int]bool, len(a))
	for _, v := range a {
		if !seen[v] {
			return false
		}
		matched[v] = true
	}
	return len(matched) == len(seen)
}
