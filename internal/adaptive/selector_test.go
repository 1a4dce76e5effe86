package adaptive

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/apagar/certo/internal/bank"
	"github.com/apagar/certo/internal/progress"
)

func makePool(count int, topics ...string) []*bank.Question {
	pool := make([]*bank.Question, 0, count)
	for i := 0; i < count; i++ {
		topic := topics[i%len(topics)]
		pool = append(pool, &bank.Question{
			ID:      i + 1,
			Prompt:  fmt.Sprintf("question %d", i+1),
			Options: []string{"a", "b", "c", "d"},
			Correct: []int{0},
			Topic:   topic,
		})
	}
	return pool
}

func TestSelector_NoRepeatUntilExhaustion(t *testing.T) {
	tr := progress.NewTracker(nil, progress.DefaultThresholds())
	sel := New(tr, rand.New(rand.NewSource(42)))
	pool := makePool(30, "A", "B", "C")

	seen := make(map[int]bool)
	for {
		q := sel.Next(pool)
		if q == nil {
			break
		}
		if seen[q.ID] {
			t.Fatalf("question %d returned twice", q.ID)
		}
		seen[q.ID] = true
	}
	if len(seen) != len(pool) {
		t.Errorf("served %d questions, want %d", len(seen), len(pool))
	}
}

func TestSelector_ExhaustedReturnsNil(t *testing.T) {
	tr := progress.NewTracker(nil, progress.DefaultThresholds())
	sel := New(tr, nil)
	pool := makePool(2, "A")

	sel.Next(pool)
	sel.Next(pool)
	if q := sel.Next(pool); q != nil {
		t.Errorf("expected nil after exhaustion, got question %d", q.ID)
	}
	// Stays nil on repeated calls.
	if q := sel.Next(pool); q != nil {
		t.Errorf("expected nil to be terminal, got question %d", q.ID)
	}
}

func TestSelector_FavorsWeakTopic_Deterministic(t *testing.T) {
	tr := progress.NewTracker(nil, progress.DefaultThresholds())
	pool := makePool(20, "A", "B")

	// All of topic A correct, all of topic B wrong.
	for _, q := range pool {
		if q.Topic == "A" {
			tr.RecordAnswer(q, []int{0})
		} else {
			tr.RecordAnswer(q, []int{1})
		}
	}

	sel := New(tr, nil)
	for i := 0; i < 10; i++ {
		q := sel.Next(pool)
		if q == nil {
			t.Fatal("pool exhausted early")
		}
		if q.Topic != "B" {
			t.Fatalf("draw %d came from topic %s, want the weak topic B", i, q.Topic)
		}
	}
}

func TestSelector_FavorsWeakTopic_Statistical(t *testing.T) {
	pool := makePool(400, "A", "B")
	fromB := 0
	const trials = 50

	for trial := 0; trial < trials; trial++ {
		tr := progress.NewTracker(nil, progress.DefaultThresholds())
		for i, q := range pool {
			if i >= 20 {
				break
			}
			if q.Topic == "A" {
				tr.RecordAnswer(q, []int{0})
			} else {
				tr.RecordAnswer(q, []int{1})
			}
		}
		sel := New(tr, rand.New(rand.NewSource(int64(trial))))
		if q := sel.Next(pool); q.Topic == "B" {
			fromB++
		}
	}

	// Weakness 1.0 vs the 0.05 floor: topic B should dominate heavily.
	if fromB < trials*3/4 {
		t.Errorf("weak topic drawn %d/%d times, expected a strong majority", fromB, trials)
	}
}

func TestSelector_UnseenTopicGetsCoverage(t *testing.T) {
	tr := progress.NewTracker(nil, progress.DefaultThresholds())
	pool := makePool(20, "A", "B")

	// Topic A heavily studied with middling results; B never seen.
	for _, q := range pool {
		if q.Topic == "A" {
			tr.RecordAnswer(q, []int{0})
			tr.RecordAnswer(q, []int{1})
		}
	}

	sel := New(tr, nil)
	q := sel.Next(pool)
	if q.Topic != "B" {
		t.Errorf("first draw topic = %s, want never-studied B", q.Topic)
	}
}

func TestSelector_TieBreakPrefersLessAnswered(t *testing.T) {
	tr := progress.NewTracker(nil, progress.DefaultThresholds())
	pool := makePool(20, "A", "B")

	// Identical 50% accuracy in both topics, but A has far more history.
	record := func(q *bank.Question, n int) {
		for i := 0; i < n; i++ {
			if i%2 == 0 {
				tr.RecordAnswer(q, []int{0})
			} else {
				tr.RecordAnswer(q, []int{1})
			}
		}
	}
	record(pool[0], 8) // topic A
	record(pool[1], 4) // topic B

	sel := New(tr, nil)
	q := sel.Next(pool)
	if q.Topic != "B" {
		t.Errorf("tie-break drew %s, want the less-answered topic B", q.Topic)
	}
}

func TestSelector_ColdStartLeansEasy(t *testing.T) {
	tr := progress.NewTracker(nil, progress.DefaultThresholds())

	// One clearly easy and one clearly hard question in the same topic.
	easy := &bank.Question{
		ID:      1,
		Prompt:  "Short prompt.",
		Options: []string{"a", "b"},
		Correct: []int{0},
		Topic:   "Network Fundamentals",
	}
	hard := &bank.Question{
		ID:          3,
		Prompt:      strings.Repeat("p", 250),
		Options:     []string{"a", "b", "c", "d", "e", "f"},
		Correct:     []int{0, 1},
		Topic:       "Network Fundamentals",
		Explanation: strings.Repeat("e", 400),
	}

	sel := New(tr, nil)
	q := sel.Next([]*bank.Question{hard, easy})
	if q.ID != easy.ID {
		t.Errorf("cold start drew question %d, want the easy one", q.ID)
	}
}

func TestSelector_SingleTopicTerminates(t *testing.T) {
	tr := progress.NewTracker(nil, progress.DefaultThresholds())
	sel := New(tr, rand.New(rand.NewSource(7)))
	pool := makePool(5, "Only")

	for i := 0; i < 5; i++ {
		if sel.Next(pool) == nil {
			t.Fatalf("exhausted after %d draws, want 5", i)
		}
	}
	if sel.Next(pool) != nil {
		t.Error("expected nil after single-topic pool drained")
	}
}
