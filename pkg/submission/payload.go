package submission

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Entry is the submitted answer to one question.
type Entry struct {
	ID       string     `json:"id,omitempty" yaml:"id,omitempty"`
	Question string     `json:"question" yaml:"question"`
	Kind     model.Kind `json:"kind" yaml:"kind"`
	Answer   string     `json:"answer,omitempty" yaml:"answer,omitempty"`
	Selected []string   `json:"selected,omitempty" yaml:"selected,omitempty"`
	Other    string     `json:"other,omitempty" yaml:"other,omitempty"`
}

// Payload is an immutable copy of a validated form. It shares no storage with
// the model it was taken from.
type Payload struct {
	Entries []Entry `json:"entries" yaml:"entries"`
}

// Len reports the number of entries.
func (p Payload) Len() int { return len(p.Entries) }

// Clone returns a deep copy.
func (p Payload) Clone() Payload {
	if p.Entries == nil {
		return Payload{}
	}
	out := Payload{Entries: make([]Entry, len(p.Entries))}
	for i, entry := range p.Entries {
		entry.Selected = append([]string(nil), entry.Selected...)
		out.Entries[i] = entry
	}
	return out
}

// Display renders the entry value as a single line.
func (e Entry) Display() string {
	if e.Kind != model.KindCheckbox {
		return e.Answer
	}
	parts := make([]string, 0, len(e.Selected))
	for _, label := range e.Selected {
		if label == model.OtherLabel && e.Other != "" {
			parts = append(parts, fmt.Sprintf("%s: %s", label, e.Other))
			continue
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, ", ")
}

// ValidationError lists the constraints the form failed at submit time.
type ValidationError struct {
	Issues []model.Issue
}

func (e *ValidationError) Error() string {
	switch len(e.Issues) {
	case 0:
		return "submission: form is invalid"
	case 1:
		issue := e.Issues[0]
		return fmt.Sprintf("submission: question %d %q: %s", issue.Index+1, issue.Question, issue.Message)
	default:
		return fmt.Sprintf("submission: %d questions failed validation", len(e.Issues))
	}
}

// MissingSubmissionError is returned when the review surface is opened with
// no pending payload.
type MissingSubmissionError struct{}

func (e *MissingSubmissionError) Error() string {
	return "submission: missing submission data"
}

// Snapshot validates form and, when every node passes, copies its values into
// a Payload. On failure no payload is produced.
func Snapshot(form model.FormModel) (Payload, error) {
	if issues := model.Validate(form); len(issues) > 0 {
		return Payload{}, &ValidationError{Issues: issues}
	}

	payload := Payload{Entries: make([]Entry, 0, form.Len())}
	for _, node := range form.Nodes {
		answer := model.AnswerOf(node)
		entry := Entry{
			ID:       node.DefinitionID(),
			Question: node.Question(),
			Kind:     node.Kind(),
			Answer:   answer.Answer,
			Selected: append([]string(nil), answer.Selected...),
			Other:    answer.Other,
		}
		payload.Entries = append(payload.Entries, entry)
	}
	return payload, nil
}
