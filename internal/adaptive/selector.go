package adaptive

import (
	"math/rand"
	"sort"

	"github.com/apagar/certo/internal/bank"
	"github.com/apagar/certo/internal/difficulty"
	"github.com/apagar/certo/internal/progress"
)

// ProfileSource supplies the learner statistics the selector biases on.
// *progress.Tracker satisfies it.
type ProfileSource interface {
	Profile(topic string) progress.Profile
	TierCorrect(topic string, tier difficulty.Tier) int
}

// ColdStartSamples is the per-topic answer count below which selection
// leans on the easy-to-hard on-ramp instead of tier statistics.
const ColdStartSamples = 3

// minWeakness keeps well-mastered topics selectable at a low rate so they
// are not starved entirely.
const minWeakness = 0.05

// Selector picks the next question for a session, biasing toward topics
// where the learner is weak. It owns the session's consumed set, so a
// question id is never returned twice from the same Selector.
type Selector struct {
	profiles ProfileSource
	rng      *rand.Rand
	consumed map[int]bool
}

// New creates a Selector. A nil rng makes selection fully deterministic:
// the weakest topic wins outright and the lowest question id is served
// first, which is the mode tests and drills use.
func New(profiles ProfileSource, rng *rand.Rand) *Selector {
	return &Selector{
		profiles: profiles,
		rng:      rng,
		consumed: make(map[int]bool),
	}
}

// Consumed reports whether a question id has already been served.
func (s *Selector) Consumed(id int) bool {
	return s.consumed[id]
}

// Next picks the next question from the pool, or nil when every question
// in the pool has been served. Runs in bounded time: one pass to partition,
// one weighted draw, one pass per tier within the chosen topic.
func (s *Selector) Next(pool []*bank.Question) *bank.Question {
	byTopic := make(map[string][]*bank.Question)
	for _, q := range pool {
		if s.consumed[q.ID] {
			continue
		}
		byTopic[q.Topic] = append(byTopic[q.Topic], q)
	}
	if len(byTopic) == 0 {
		return nil
	}

	topic := s.pickTopic(byTopic)
	q := s.pickWithinTopic(topic, byTopic[topic])
	s.consumed[q.ID] = true
	return q
}

type topicWeight struct {
	topic    string
	weight   float64
	answered int
}

// pickTopic draws a topic favoring high weakness scores. Topics never
// studied get the maximum score, so coverage comes before reinforcement.
// Ties break toward the topic with fewer historical answers, then
// lexicographically for stability.
func (s *Selector) pickTopic(byTopic map[string][]*bank.Question) string {
	weights := make([]topicWeight, 0, len(byTopic))
	for topic := range byTopic {
		p := s.profiles.Profile(topic)
		weights = append(weights, topicWeight{
			topic:    topic,
			weight:   weaknessScore(p),
			answered: p.Answered,
		})
	}
	sort.Slice(weights, func(i, j int) bool {
		if weights[i].weight != weights[j].weight {
			return weights[i].weight > weights[j].weight
		}
		if weights[i].answered != weights[j].answered {
			return weights[i].answered < weights[j].answered
		}
		return weights[i].topic < weights[j].topic
	})

	if s.rng == nil {
		return weights[0].topic
	}

	total := 0.0
	for _, w := range weights {
		total += w.weight
	}
	draw := s.rng.Float64() * total
	for _, w := range weights {
		draw -= w.weight
		if draw < 0 {
			return w.topic
		}
	}
	return weights[len(weights)-1].topic
}

// weaknessScore is 1 − masteryRatio, floored so strong topics remain
// reachable. A topic with no history is fully weak.
func weaknessScore(p progress.Profile) float64 {
	if p.Answered == 0 {
		return 1.0
	}
	w := 1.0 - p.Ratio()
	if w < minWeakness {
		return minWeakness
	}
	return w
}

// pickWithinTopic chooses the question inside the selected topic. During
// cold start the easy-to-hard progression applies; afterwards the tier the
// learner has answered correctly least often comes first.
func (s *Selector) pickWithinTopic(topic string, candidates []*bank.Question) *bank.Question {
	byTier := make(map[difficulty.Tier][]*bank.Question)
	for _, q := range candidates {
		tier := difficulty.Classify(q)
		byTier[tier] = append(byTier[tier], q)
	}

	for _, tier := range s.tierOrder(topic) {
		if qs := byTier[tier]; len(qs) > 0 {
			return s.pickQuestion(qs)
		}
	}
	// Unreachable as long as candidates is non-empty, but stay total.
	return s.pickQuestion(candidates)
}

// tierOrder ranks tiers for a topic: cold start walks easy → hard;
// otherwise ascending correct-answer count, ties easy first.
func (s *Selector) tierOrder(topic string) []difficulty.Tier {
	order := difficulty.Tiers()
	if s.profiles.Profile(topic).Answered < ColdStartSamples {
		return order
	}
	sort.SliceStable(order, func(i, j int) bool {
		return s.profiles.TierCorrect(topic, order[i]) < s.profiles.TierCorrect(topic, order[j])
	})
	return order
}

func (s *Selector) pickQuestion(qs []*bank.Question) *bank.Question {
	if s.rng == nil {
		lowest := qs[0]
		for _, q := range qs[1:] {
			if q.ID < lowest.ID {
				lowest = q
			}
		}
		return lowest
	}
	return qs[s.rng.Intn(len(qs))]
}
