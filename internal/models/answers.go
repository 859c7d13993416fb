// internal/models/answers.go
package models

import "encoding/json"

// Answers maps each question to its answer and remembers insertion order.
// Setting an existing question replaces the answer in place.
type Answers struct {
	order  []string
	values map[string]string
}

func NewAnswers() *Answers {
	return &Answers{values: make(map[string]string)}
}

// Set stores the answer for question.
func (a *Answers) Set(question, answer string) {
	if a.values == nil {
		a.values = make(map[string]string)
	}
	if _, exists := a.values[question]; !exists {
		a.order = append(a.order, question)
	}
	a.values[question] = answer
}

// Get returns the answer for question.
func (a *Answers) Get(question string) (string, bool) {
	v, ok := a.values[question]
	return v, ok
}

// Questions returns the questions in insertion order.
func (a *Answers) Questions() []string {
	out := make([]string, len(a.order))
	copy(out, a.order)
	return out
}

func (a *Answers) Len() int {
	return len(a.order)
}

// Each calls fn for every entry in insertion order.
func (a *Answers) Each(fn func(question, answer string)) {
	for _, q := range a.order {
		fn(q, a.values[q])
	}
}

type answerEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// MarshalJSON encodes the answers as an ordered list of entries.
func (a *Answers) MarshalJSON() ([]byte, error) {
	entries := make([]answerEntry, 0, len(a.order))
	a.Each(func(q, ans string) {
		entries = append(entries, answerEntry{Question: q, Answer: ans})
	})
	return json.Marshal(entries)
}
