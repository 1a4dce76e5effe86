package bank

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// rawBank mirrors the question-bank document shape.
type rawBank struct {
	ExamInfo  rawExamInfo   `json:"exam_info"`
	Questions []rawQuestion `json:"questions"`
}

type rawExamInfo struct {
	Title          string   `json:"title"`
	TotalQuestions int      `json:"total_questions"`
	Topics         []string `json:"topics"`
}

type rawQuestion struct {
	ID       int      `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	// Both spellings appear in the wild; CorrectAnswer wins when both are set.
	CorrectAnswer json.RawMessage `json:"correctAnswer"`
	CorrectSnake  json.RawMessage `json:"correct_answer"`
	Explanation   string          `json:"explanation"`
	Topic         string          `json:"topic"`
	Exhibit       string          `json:"exhibit"`
}

// normalize converts a raw document into canonical questions, failing fast
// on the first malformed entry.
func normalize(raw *rawBank) (*Bank, error) {
	questions := make([]Question, 0, len(raw.Questions))
	seen := make(map[int]bool, len(raw.Questions))

	for i := range raw.Questions {
		rq := &raw.Questions[i]
		if seen[rq.ID] {
			return nil, &ValidationError{QuestionID: rq.ID, Reason: ReasonDuplicateID}
		}
		seen[rq.ID] = true

		correct, err := mapCorrectAnswer(rq)
		if err != nil {
			return nil, err
		}

		questions = append(questions, Question{
			ID:          rq.ID,
			Prompt:      rq.Question,
			Options:     rq.Options,
			Correct:     correct,
			Topic:       rq.Topic,
			Explanation: rq.Explanation,
			Exhibit:     rq.Exhibit,
		})
	}

	info := ExamInfo{
		Title:          raw.ExamInfo.Title,
		TotalQuestions: raw.ExamInfo.TotalQuestions,
		Topics:         raw.ExamInfo.Topics,
	}
	if info.TotalQuestions == 0 {
		info.TotalQuestions = len(questions)
	}

	return newBank(info, questions), nil
}

// mapCorrectAnswer resolves whichever correct-answer field is present into
// a sorted, deduplicated index slice.
func mapCorrectAnswer(rq *rawQuestion) ([]int, error) {
	field := rq.CorrectAnswer
	if len(field) == 0 {
		field = rq.CorrectSnake
	}
	if len(field) == 0 {
		return nil, &ValidationError{QuestionID: rq.ID, Reason: ReasonNoValidAnswer, Detail: "missing correct answer"}
	}

	values, err := answerValues(field)
	if err != nil {
		return nil, &ValidationError{QuestionID: rq.ID, Reason: ReasonUnmappableAnswer, Detail: err.Error()}
	}

	indexSet := make(map[int]bool, len(values))
	for _, v := range values {
		idx, err := resolveValue(v, rq.Options)
		if err != nil {
			return nil, &ValidationError{QuestionID: rq.ID, Reason: reasonFor(err), Detail: err.Error()}
		}
		indexSet[idx] = true
	}

	if len(indexSet) == 0 {
		return nil, &ValidationError{QuestionID: rq.ID, Reason: ReasonNoValidAnswer}
	}

	correct := make([]int, 0, len(indexSet))
	for idx := range indexSet {
		correct = append(correct, idx)
	}
	sort.Ints(correct)
	return correct, nil
}

// answerValues flattens the raw field into a list of scalars: either a
// single string/number or an array of them.
func answerValues(field json.RawMessage) ([]any, error) {
	var v any
	if err := json.Unmarshal(field, &v); err != nil {
		return nil, fmt.Errorf("parse correct answer: %w", err)
	}
	switch vv := v.(type) {
	case []any:
		return vv, nil
	default:
		return []any{v}, nil
	}
}

var errOutOfRange = fmt.Errorf("index out of range")

func reasonFor(err error) string {
	if strings.Contains(err.Error(), errOutOfRange.Error()) {
		return ReasonIndexOutOfRange
	}
	return ReasonUnmappableAnswer
}

// resolveValue maps one scalar answer value to an option index. Numbers are
// taken as indices and must be in range; strings are matched against option
// text, exact first, then case-insensitively with surrounding space ignored.
// An index that cannot be resolved is an error, never stored as-is.
func resolveValue(v any, options []string) (int, error) {
	switch vv := v.(type) {
	case float64:
		idx := int(vv)
		if idx < 0 || idx >= len(options) {
			return 0, fmt.Errorf("%w: %d (have %d options)", errOutOfRange, idx, len(options))
		}
		return idx, nil
	case string:
		for i, opt := range options {
			if opt == vv {
				return i, nil
			}
		}
		want := strings.ToLower(strings.TrimSpace(vv))
		for i, opt := range options {
			if strings.ToLower(strings.TrimSpace(opt)) == want {
				return i, nil
			}
		}
		return 0, fmt.Errorf("answer text %q not found among options", vv)
	default:
		return 0, fmt.Errorf("unsupported answer value type %T", v)
	}
}
