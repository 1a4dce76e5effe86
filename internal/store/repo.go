package store

import (
	"context"
	"time"
)

// SnapshotData is the durable learner state, written and read wholesale.
// It is owned exclusively by the persistence coordinator; every other
// component works against an in-memory copy.
type SnapshotData struct {
	Version  int                   `json:"version"`
	Progress *ProgressSnapshotData `json:"progress,omitempty"`
	Sessions []SessionRecord       `json:"sessions,omitempty"`
}

// SchemaVersion is the current SnapshotData layout version.
const SchemaVersion = 1

// ProgressSnapshotData is the serialized form of the progress tracker.
type ProgressSnapshotData struct {
	Topics map[string]*TopicProgressData `json:"topics"`
	// TierCorrect counts correct answers per topic per difficulty tier,
	// keyed topic → tier name.
	TierCorrect map[string]map[string]int `json:"tier_correct,omitempty"`
	Streak      StreakData                `json:"streak"`
}

// TopicProgressData holds per-topic mastery counters.
type TopicProgressData struct {
	Topic    string `json:"topic"`
	Answered int    `json:"answered"`
	Correct  int    `json:"correct"`
}

// StreakData holds the session-completion streak counters.
type StreakData struct {
	Current int `json:"current"`
	Best    int `json:"best"`
}

// SessionRecord is the immutable historical record of a completed session.
// Asked preserves presentation order; Answers keeps the exact option sets
// the learner submitted, keyed by question id.
type SessionRecord struct {
	SessionID    string        `json:"session_id"`
	Mode         string        `json:"mode"`
	StartedAt    string        `json:"started_at"` // RFC 3339
	DurationSecs int           `json:"duration_secs"`
	Questions    int           `json:"questions"`
	Correct      int           `json:"correct"`
	Score        float64       `json:"score"`
	Asked        []int         `json:"asked,omitempty"`
	Answers      map[int][]int `json:"answers,omitempty"`
}

// Snapshot is a point-in-time capture of learner state.
type Snapshot struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	Data      SnapshotData
}

// SnapshotRepo manages learner state snapshots.
type SnapshotRepo interface {
	// Save stores a new snapshot.
	Save(ctx context.Context, snap *Snapshot) error

	// Latest returns the most recent snapshot, or nil if none exist.
	Latest(ctx context.Context) (*Snapshot, error)

	// Prune deletes all but the N most recent snapshots.
	Prune(ctx context.Context, keep int) error
}

// AnswerEventData captures one answered question.
type AnswerEventData struct {
	SessionID  string
	QuestionID int
	Topic      string
	Tier       string
	Correct    bool
	TimeMs     int
}

// SessionEventData captures a session lifecycle event (start/end).
type SessionEventData struct {
	SessionID    string
	Action       string // "start" or "end"
	Mode         string
	Questions    int // on end only
	Correct      int // on end only
	DurationSecs int // on end only
}

// EventRepo provides append and query access to the event log.
type EventRepo interface {
	AppendAnswerEvent(ctx context.Context, data AnswerEventData) error
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// TopicAccuracy returns the all-time correctness ratio for a topic,
	// 0 when the topic has never been answered.
	TopicAccuracy(ctx context.Context, topic string) (float64, error)

	// LatestAnswerTime returns the timestamp of the most recent answer
	// for a topic, zero when none exists.
	LatestAnswerTime(ctx context.Context, topic string) (time.Time, error)

	// MissedQuestionIDs returns ids whose most recent answer was wrong,
	// for review-mode pools.
	MissedQuestionIDs(ctx context.Context) ([]int, error)
}
