package session

import (
	"context"
	"fmt"

	"github.com/apagar/certo/internal/bank"
	"github.com/apagar/certo/internal/store"
)

// ReviewPool builds the review-mode pool: every question whose most
// recent recorded answer was wrong. Missed ids no longer present in the
// bank are skipped.
func ReviewPool(ctx context.Context, events store.EventRepo, b *bank.Bank) ([]*bank.Question, error) {
	ids, err := events.MissedQuestionIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading missed questions: %w", err)
	}
	var pool []*bank.Question
	for _, id := range ids {
		if q := b.ByID(id); q != nil {
			pool = append(pool, q)
		}
	}
	return pool, nil
}
