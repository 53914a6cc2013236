package model

import (
	"fmt"
	"strings"
)

// RestoreKey selects how captured values are matched to freshly built nodes.
type RestoreKey int

const (
	// RestoreByPosition matches values to nodes by index.
	RestoreByPosition RestoreKey = iota
	// RestoreByIdentity matches values to nodes by definition ID. Nodes without
	// an ID fall back to their position.
	RestoreByIdentity
)

// ParseRestoreKey maps "position" / "identity" onto a RestoreKey.
func ParseRestoreKey(raw string) (RestoreKey, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "position":
		return RestoreByPosition, nil
	case "identity", "id":
		return RestoreByIdentity, nil
	default:
		return RestoreByPosition, fmt.Errorf("model: unknown restore key %q", raw)
	}
}

func (k RestoreKey) String() string {
	if k == RestoreByIdentity {
		return "identity"
	}
	return "position"
}

// Value is the user-entered state of one node, detached from the node.
type Value struct {
	Kind         Kind
	DefinitionID string
	Answer       string
	Selected     []bool
	Other        string
}

// Capture takes a deep snapshot of the live values in form, keyed by position.
func Capture(form FormModel) []Value {
	if len(form.Nodes) == 0 {
		return nil
	}
	values := make([]Value, len(form.Nodes))
	for i, node := range form.Nodes {
		value := Value{Kind: node.Kind(), DefinitionID: node.DefinitionID()}
		switch typed := node.(type) {
		case *ParagraphNode:
			value.Answer = typed.Answer
		case *CheckboxNode:
			value.Selected = make([]bool, len(typed.Options))
			for j, opt := range typed.Options {
				value.Selected[j] = opt.Selected
			}
			value.Other = typed.OtherValue
		}
		values[i] = value
	}
	return values
}

// Restore writes captured values back onto form. A value only applies when
// the target node has the same kind; option selections are restored per index
// up to the shorter of the two option lists. Restore writes values only and
// never changes the structure of form.
func Restore(form FormModel, values []Value, key RestoreKey) {
	if len(values) == 0 || len(form.Nodes) == 0 {
		return
	}

	var byID map[string]Value
	if key == RestoreByIdentity {
		byID = make(map[string]Value, len(values))
		for _, value := range values {
			if value.DefinitionID != "" {
				byID[value.DefinitionID] = value
			}
		}
	}

	for i, node := range form.Nodes {
		value, ok := lookupValue(node, i, values, byID, key)
		if !ok {
			continue
		}
		applyValue(node, value)
	}
}

func lookupValue(node Node, index int, values []Value, byID map[string]Value, key RestoreKey) (Value, bool) {
	if key == RestoreByIdentity && node.DefinitionID() != "" {
		value, ok := byID[node.DefinitionID()]
		return value, ok
	}
	if index >= len(values) {
		return Value{}, false
	}
	return values[index], true
}

func applyValue(node Node, value Value) {
	if node.Kind() != value.Kind {
		return
	}
	switch typed := node.(type) {
	case *ParagraphNode:
		typed.Answer = value.Answer
	case *CheckboxNode:
		for j := range typed.Options {
			if j >= len(value.Selected) {
				break
			}
			typed.Options[j].Selected = value.Selected[j]
		}
		if typed.AllowOther {
			typed.OtherValue = value.Other
		}
	}
}

// Answer is externally supplied input for one node, expressed with labels
// rather than indexes so it can come from files or form posts.
type Answer struct {
	Answer   string   `json:"answer,omitempty" yaml:"answer,omitempty"`
	Selected []string `json:"selected,omitempty" yaml:"selected,omitempty"`
	Other    string   `json:"other,omitempty" yaml:"other,omitempty"`
}

// ApplyAnswer writes a into node. Paragraph nodes take Answer; checkbox nodes
// tick exactly the options named in Selected and take Other when they allow
// free text. Each entry of Selected ticks one option: the first unticked one
// carrying that label, so a repeated label only ticks as many options as it
// is listed. Unknown labels are rejected without modifying the node.
func ApplyAnswer(node Node, a Answer) error {
	switch typed := node.(type) {
	case *ParagraphNode:
		typed.Answer = a.Answer
		return nil
	case *CheckboxNode:
		picked := make([]bool, len(typed.Options))
		for _, label := range a.Selected {
			if indexOfLabel(typed.Options, label) < 0 {
				return fmt.Errorf("model: question %q has no option %q", typed.Text, label)
			}
			if j := nextUnpicked(typed.Options, picked, label); j >= 0 {
				picked[j] = true
			}
		}
		for j := range typed.Options {
			typed.Options[j].Selected = picked[j]
		}
		if typed.AllowOther {
			typed.OtherValue = a.Other
		}
		return nil
	default:
		return fmt.Errorf("model: unsupported node %T", node)
	}
}

// SelectOptions ticks exactly the options at the given indexes, keeping the
// free-text value.
func SelectOptions(node Node, options ...int) error {
	group, ok := node.(*CheckboxNode)
	if !ok {
		return fmt.Errorf("model: node %q is not a checkbox group", node.Question())
	}
	picked := make([]bool, len(group.Options))
	for _, j := range options {
		if j < 0 || j >= len(group.Options) {
			return fmt.Errorf("model: question %q has no option %d", group.Text, j)
		}
		picked[j] = true
	}
	for j := range group.Options {
		group.Options[j].Selected = picked[j]
	}
	return nil
}

// AnswerOf converts a node's live values back into an Answer.
func AnswerOf(node Node) Answer {
	switch typed := node.(type) {
	case *ParagraphNode:
		return Answer{Answer: typed.Answer}
	case *CheckboxNode:
		answer := Answer{Selected: typed.SelectedLabels()}
		if typed.AllowOther {
			answer.Other = typed.OtherValue
		}
		return answer
	default:
		return Answer{}
	}
}

func nextUnpicked(options []Option, picked []bool, label string) int {
	for i, opt := range options {
		if opt.Label == label && !picked[i] {
			return i
		}
	}
	return -1
}

func indexOfLabel(options []Option, label string) int {
	for i, opt := range options {
		if opt.Label == label {
			return i
		}
	}
	return -1
}
