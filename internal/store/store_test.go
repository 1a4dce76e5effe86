package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "certo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSnapshotRepo_SaveAndLatest(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	got, err := repo.Latest(ctx)
	require.NoError(t, err)
	require.Nil(t, got, "empty store should have no snapshot")

	snap := &Snapshot{
		Data: SnapshotData{
			Version: SchemaVersion,
			Progress: &ProgressSnapshotData{
				Topics: map[string]*TopicProgressData{
					"Routing": {Topic: "Routing", Answered: 10, Correct: 7},
				},
				Streak: StreakData{Current: 2, Best: 4},
			},
		},
	}
	require.NoError(t, repo.Save(ctx, snap))

	got, err = repo.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, SchemaVersion, got.Data.Version)
	require.Equal(t, 7, got.Data.Progress.Topics["Routing"].Correct)
	require.Equal(t, 4, got.Data.Progress.Streak.Best)
}

func TestSnapshotRepo_LatestWins(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 1; i <= 3; i++ {
		require.NoError(t, repo.Save(ctx, &Snapshot{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Data:      SnapshotData{Version: i},
		}))
	}

	got, err := repo.Latest(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, got.Data.Version)
}

func TestSnapshotRepo_Prune(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 1; i <= 5; i++ {
		require.NoError(t, repo.Save(ctx, &Snapshot{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Data:      SnapshotData{Version: i},
		}))
	}
	require.NoError(t, repo.Prune(ctx, 2))

	var count int
	require.NoError(t, s.DB().QueryRow(`SELECT COUNT(*) FROM snapshots`).Scan(&count))
	require.Equal(t, 2, count)

	got, err := repo.Latest(ctx)
	require.NoError(t, err)
	require.Equal(t, 5, got.Data.Version, "prune keeps the most recent snapshots")
}

func TestEventRepo_TopicAccuracy(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	acc, err := repo.TopicAccuracy(ctx, "Routing")
	require.NoError(t, err)
	require.Zero(t, acc)

	answers := []bool{true, true, false, true}
	for i, correct := range answers {
		require.NoError(t, repo.AppendAnswerEvent(ctx, AnswerEventData{
			SessionID:  "s1",
			QuestionID: i + 1,
			Topic:      "Routing",
			Tier:       "easy",
			Correct:    correct,
			TimeMs:     1200,
		}))
	}

	acc, err = repo.TopicAccuracy(ctx, "Routing")
	require.NoError(t, err)
	require.InDelta(t, 0.75, acc, 1e-9)
}

func TestEventRepo_MissedQuestionIDs(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	// q1 wrong then corrected, q2 wrong, q3 always right.
	events := []AnswerEventData{
		{SessionID: "s1", QuestionID: 1, Topic: "Security", Tier: "easy", Correct: false},
		{SessionID: "s1", QuestionID: 2, Topic: "Security", Tier: "hard", Correct: false},
		{SessionID: "s1", QuestionID: 3, Topic: "Security", Tier: "easy", Correct: true},
		{SessionID: "s2", QuestionID: 1, Topic: "Security", Tier: "easy", Correct: true},
	}
	for _, e := range events {
		require.NoError(t, repo.AppendAnswerEvent(ctx, e))
	}

	ids, err := repo.MissedQuestionIDs(ctx)
	require.NoError(t, err)
	require.Equal(t, []int{2}, ids, "only questions whose latest answer is wrong")
}

func TestEventRepo_SequenceOrdering(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendSessionEvent(ctx, SessionEventData{SessionID: "s1", Action: "start", Mode: "practice"}))
	require.NoError(t, repo.AppendAnswerEvent(ctx, AnswerEventData{SessionID: "s1", QuestionID: 1, Topic: "Cloud", Tier: "easy", Correct: true}))
	require.NoError(t, repo.AppendSessionEvent(ctx, SessionEventData{SessionID: "s1", Action: "end", Mode: "practice", Questions: 1, Correct: 1}))

	var answerSeq, startSeq, endSeq int64
	require.NoError(t, s.DB().QueryRow(`SELECT sequence FROM answer_events`).Scan(&answerSeq))
	require.NoError(t, s.DB().QueryRow(`SELECT sequence FROM session_events WHERE action = 'start'`).Scan(&startSeq))
	require.NoError(t, s.DB().QueryRow(`SELECT sequence FROM session_events WHERE action = 'end'`).Scan(&endSeq))

	require.Less(t, startSeq, answerSeq)
	require.Less(t, answerSeq, endSeq)
}

func TestStore_Wipe(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SnapshotRepo().Save(ctx, &Snapshot{Data: SnapshotData{Version: 1}}))
	require.NoError(t, s.EventRepo().AppendAnswerEvent(ctx, AnswerEventData{SessionID: "s1", QuestionID: 1, Topic: "Cloud", Tier: "easy"}))

	require.NoError(t, s.Wipe(ctx))

	snap, err := s.SnapshotRepo().Latest(ctx)
	require.NoError(t, err)
	require.Nil(t, snap)
}
