package openapi

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/question"
	"github.com/goliatone/go-formbuilder/pkg/submission"
)

// Issue is one schema violation. Key is the answer property it belongs to,
// empty for problems with the document as a whole.
type Issue struct {
	Key     string `json:"key,omitempty"`
	Pointer string `json:"pointer"`
	Message string `json:"message"`
}

// ValidationError lists every violation found in a set of answers.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	switch len(e.Issues) {
	case 0:
		return "openapi: answers failed validation"
	case 1:
		return fmt.Sprintf("openapi: answers failed validation: %s: %s", e.Issues[0].Pointer, e.Issues[0].Message)
	default:
		return fmt.Sprintf("openapi: answers failed validation: %d issues", len(e.Issues))
	}
}

// Fields groups the messages by answer key.
func (e *ValidationError) Fields() map[string][]string {
	out := make(map[string][]string, len(e.Issues))
	for _, issue := range e.Issues {
		out[issue.Key] = append(out[issue.Key], issue.Message)
	}
	return out
}

// ValidateAnswers checks a decoded JSON value against the answers schema and
// returns *ValidationError listing every violation.
func (d *Document) ValidateAnswers(value any) error {
	err := d.answers.VisitJSON(value, openapi3.MultiErrors())
	if err == nil {
		return nil
	}
	issues := collectIssues(err, nil)
	if len(issues) == 0 {
		return fmt.Errorf("openapi: validate answers: %w", err)
	}
	return &ValidationError{Issues: issues}
}

// ValidatePayload checks a reviewed payload against the schema.
func (d *Document) ValidatePayload(p submission.Payload) error {
	value, err := d.AnswersFromPayload(p)
	if err != nil {
		return err
	}
	return d.ValidateAnswers(value)
}

// AnswersFromPayload converts payload entries, matched by position, into the
// JSON object the schema describes.
func (d *Document) AnswersFromPayload(p submission.Payload) (map[string]any, error) {
	if p.Len() != len(d.keys) {
		return nil, fmt.Errorf("openapi: payload has %d entries for %d questions", p.Len(), len(d.keys))
	}
	out := make(map[string]any, len(d.keys))
	for i, entry := range p.Entries {
		if entry.Kind == model.KindCheckbox {
			group := map[string]any{selectedKey: toAnySlice(entry.Selected)}
			if entry.Other != "" {
				group[otherKey] = entry.Other
			}
			out[d.keys[i]] = group
			continue
		}
		if entry.Answer != "" {
			out[d.keys[i]] = entry.Answer
		}
	}
	return out, nil
}

// DecodeAnswers parses a JSON answers object, validates it and returns the
// answers in definition order, ready for model.Synthesizer.Apply.
func (d *Document) DecodeAnswers(data []byte) ([]model.Answer, error) {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("openapi: decode answers: %w", err)
	}
	object, ok := value.(map[string]any)
	if !ok {
		return nil, errNotObject
	}
	if err := d.ValidateAnswers(object); err != nil {
		return nil, err
	}

	answers := make([]model.Answer, len(d.defs))
	for i, def := range d.defs {
		raw, ok := object[d.keys[i]]
		if !ok {
			continue
		}
		if def.Type != question.TypeCheckBoxes {
			answers[i].Answer, _ = raw.(string)
			continue
		}
		group, _ := raw.(map[string]any)
		for _, label := range asSlice(group[selectedKey]) {
			if s, ok := label.(string); ok {
				answers[i].Selected = append(answers[i].Selected, s)
			}
		}
		answers[i].Other, _ = group[otherKey].(string)
	}
	return answers, nil
}

func collectIssues(err error, out []Issue) []Issue {
	switch e := err.(type) {
	case openapi3.MultiError:
		for _, inner := range e {
			out = collectIssues(inner, out)
		}
	case *openapi3.SchemaError:
		path := e.JSONPointer()
		issue := Issue{Pointer: "/" + strings.Join(path, "/"), Message: e.Reason}
		if len(path) > 0 {
			issue.Key = path[0]
		}
		out = append(out, issue)
	}
	return out
}

func toAnySlice(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func asSlice(value any) []any {
	items, _ := value.([]any)
	return items
}
