package bank

import "sort"

// Question is the canonical, normalized form of a bank entry.
// Correct always holds sorted option indices, regardless of whether the
// raw document gave answers as text, a single index, or an index list.
type Question struct {
	ID          int
	Prompt      string
	Options     []string
	Correct     []int
	Topic       string
	Explanation string
	Exhibit     string
}

// MultiAnswer reports whether the question expects more than one choice.
func (q *Question) MultiAnswer() bool {
	return len(q.Correct) > 1
}

// ExamInfo describes the exam a bank prepares for.
type ExamInfo struct {
	Title          string
	TotalQuestions int
	Topics         []string
}

// Bank is an immutable, validated question bank.
type Bank struct {
	Info      ExamInfo
	Questions []Question

	byID    map[int]*Question
	byTopic map[string][]*Question
}

// newBank builds the lookup indexes. Questions must already be validated.
func newBank(info ExamInfo, questions []Question) *Bank {
	b := &Bank{
		Info:      info,
		Questions: questions,
		byID:      make(map[int]*Question, len(questions)),
		byTopic:   make(map[string][]*Question),
	}
	for i := range b.Questions {
		q := &b.Questions[i]
		b.byID[q.ID] = q
		b.byTopic[q.Topic] = append(b.byTopic[q.Topic], q)
	}
	return b
}

// Len returns the number of questions in the bank.
func (b *Bank) Len() int {
	return len(b.Questions)
}

// ByID returns the question with the given id, or nil.
func (b *Bank) ByID(id int) *Question {
	return b.byID[id]
}

// Topic returns all questions with the given topic label.
func (b *Bank) Topic(topic string) []*Question {
	return b.byTopic[topic]
}

// Topics returns the topic labels present in the bank, sorted.
func (b *Bank) Topics() []string {
	topics := make([]string, 0, len(b.byTopic))
	for t := range b.byTopic {
		topics = append(topics, t)
	}
	sort.Strings(topics)
	return topics
}

// All returns pointers to every question, in document order.
func (b *Bank) All() []*Question {
	all := make([]*Question, len(b.Questions))
	for i := range b.Questions {
		all[i] = &b.Questions[i]
	}
	return all
}
