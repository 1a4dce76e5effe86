package difficulty

import (
	"strings"
	"unicode/utf8"

	"github.com/apagar/certo/internal/bank"
)

// active is the process-wide weight table. Overridden once at startup
// when the user config tunes banding or topic weights; never mutated
// after classification begins.
var active = DefaultWeights()

// SetWeights replaces the process-wide weight table. Call before any
// classification happens.
func SetWeights(w Weights) {
	active = w
}

// Classify maps a question to a tier using the process-wide weights.
// Pure and total: two questions with identical attribute values always
// land in the same tier.
func Classify(q *bank.Question) Tier {
	return ClassifyWith(active, q)
}

// ClassifyWith maps a question to a tier using the given weight table.
func ClassifyWith(w Weights, q *bank.Question) Tier {
	score := Score(w, q)
	switch {
	case score >= w.HardThreshold:
		return TierHard
	case score >= w.MediumThreshold:
		return TierMedium
	default:
		return TierEasy
	}
}

// Score is the weighted sum of all six signals.
func Score(w Weights, q *bank.Question) float64 {
	return TopicScore(w, q.Topic) +
		PromptScore(w, q.Prompt) +
		OptionScore(w, len(q.Options)) +
		MultiAnswerScore(w, len(q.Correct)) +
		ExplanationScore(w, q.Explanation) +
		TermScore(w, q)
}

// TopicScore looks up the topic weight table.
func TopicScore(w Weights, topic string) float64 {
	if pts, ok := w.Topic[topic]; ok {
		return pts
	}
	return w.DefaultTopic
}

// PromptScore scores prompt length, in characters, as a monotonic step
// function.
func PromptScore(w Weights, prompt string) float64 {
	length := utf8.RuneCountInString(prompt)
	for _, s := range w.PromptSteps {
		if length > s.Threshold {
			return s.Points
		}
	}
	return w.PromptBase
}

// OptionScore scores the number of answer choices.
func OptionScore(w Weights, optionCount int) float64 {
	for _, s := range w.OptionSteps {
		if optionCount >= s.Threshold {
			return s.Points
		}
	}
	return 0
}

// MultiAnswerScore adds the multi-answer bonus when the correct set has
// more than one member.
func MultiAnswerScore(w Weights, correctCount int) float64 {
	if correctCount <= 1 {
		return 0
	}
	return w.MultiAnswerBase + w.MultiAnswerPer*float64(correctCount)
}

// ExplanationScore scores explanation richness by character count.
func ExplanationScore(w Weights, explanation string) float64 {
	length := utf8.RuneCountInString(explanation)
	for _, s := range w.ExplanationSteps {
		if length > s.Threshold {
			return s.Points
		}
	}
	return 0
}

// TermScore scores technical-term density over the prompt and options.
func TermScore(w Weights, q *bank.Question) float64 {
	count := termMatches(w.Vocabulary, q)
	for _, s := range w.TermSteps {
		if count >= s.Threshold {
			return s.Points
		}
	}
	return 0
}

// termMatches counts vocabulary terms appearing in the prompt or any
// option. Each term counts at most once.
func termMatches(vocabulary []string, q *bank.Question) int {
	haystack := strings.ToLower(q.Prompt + " " + strings.Join(q.Options, " "))
	count := 0
	for _, term := range vocabulary {
		if strings.Contains(haystack, strings.ToLower(term)) {
			count++
		}
	}
	return count
}
