package bank

import "fmt"

// Validation failure reasons.
const (
	ReasonUnmappableAnswer = "unmappable answer"
	ReasonNoValidAnswer    = "no valid answer"
	ReasonIndexOutOfRange  = "answer index out of range"
	ReasonDuplicateID      = "duplicate question id"
)

// ValidationError reports a malformed bank entry. Any malformed entry
// rejects the whole bank; nothing is silently coerced or skipped.
type ValidationError struct {
	QuestionID int
	Reason     string
	Detail     string
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("question %d: %s", e.QuestionID, e.Reason)
	}
	return fmt.Sprintf("question %d: %s (%s)", e.QuestionID, e.Reason, e.Detail)
}
