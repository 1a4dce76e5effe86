package session

import (
	"sort"
	"time"

	"github.com/apagar/certo/internal/progress"
)

// Summary holds the data displayed on the summary screen.
type Summary struct {
	Mode      Mode
	Duration  time.Duration
	Questions int
	Correct   int
	Accuracy  float64
	Streak    progress.Streak
	Topics    []TopicResult
}

// BuildSummary creates a Summary from a completed session. It completes
// the session if the caller has not already done so.
func BuildSummary(s *State) *Summary {
	record, streak := s.Complete()

	topics := make([]TopicResult, 0, len(s.topics))
	for _, tr := range s.topics {
		topics = append(topics, *tr)
	}
	sort.Slice(topics, func(i, j int) bool { return topics[i].Topic < topics[j].Topic })

	return &Summary{
		Mode:      s.Mode,
		Duration:  time.Duration(record.DurationSecs) * time.Second,
		Questions: record.Questions,
		Correct:   record.Correct,
		Accuracy:  record.Score,
		Streak:    streak,
		Topics:    topics,
	}
}
