package model

import "github.com/goliatone/go-formbuilder/pkg/question"

// Kind identifies the shape of a form node.
type Kind string

const (
	KindParagraph Kind = "paragraph"
	KindCheckbox  Kind = "checkbox"
)

// OtherLabel is the label of the synthetic trailing option added to
// checkbox nodes that allow a free-text answer.
const OtherLabel = question.OtherLabel

const (
	ValidationRuleRequired    = "required"
	ValidationRuleMinSelected = "minSelected"
	ValidationRuleMaxSelected = "maxSelected"
)

// ValidationRule is a single constraint attached to a node. Selection bounds
// encode their threshold in Params["value"].
type ValidationRule struct {
	Kind   string            `json:"kind"`
	Params map[string]string `json:"params,omitempty"`
}

// Node is one editable question inside a FormModel. The set of
// implementations is closed: ParagraphNode and CheckboxNode.
type Node interface {
	Kind() Kind
	DefinitionID() string
	Question() string
	Rules() []ValidationRule
	cloneNode() Node
}

// ParagraphNode holds a free-text answer.
type ParagraphNode struct {
	ID          string           `json:"definitionId,omitempty"`
	Text        string           `json:"question"`
	Answer      string           `json:"answer"`
	Validations []ValidationRule `json:"validations,omitempty"`
}

func (n *ParagraphNode) Kind() Kind { return KindParagraph }
func (n *ParagraphNode) DefinitionID() string { return n.ID }
func (n *ParagraphNode) Question() string { return n.Text }
func (n *ParagraphNode) Rules() []ValidationRule { return cloneRules(n.Validations) }
func (n *ParagraphNode) cloneNode() Node {
	clone := *n
	clone.Validations = cloneRules(n.Validations)
	return &clone
}

// Option is a selectable entry of a checkbox node.
type Option struct {
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// CheckboxNode holds a group of selectable options. When AllowOther is set
// the last option is the synthetic "Other" entry and OtherValue carries the
// accompanying free text.
type CheckboxNode struct {
	ID          string           `json:"definitionId,omitempty"`
	Text        string           `json:"question"`
	Options     []Option         `json:"options"`
	AllowOther  bool             `json:"allowOther"`
	OtherValue  string           `json:"otherValue,omitempty"`
	Validations []ValidationRule `json:"validations,omitempty"`
}

func (n *CheckboxNode) Kind() Kind { return KindCheckbox }
func (n *CheckboxNode) DefinitionID() string { return n.ID }
func (n *CheckboxNode) Question() string { return n.Text }
func (n *CheckboxNode) Rules() []ValidationRule { return cloneRules(n.Validations) }
func (n *CheckboxNode) cloneNode() Node {
	clone := *n
	clone.Options = append([]Option(nil), n.Options...)
	clone.Validations = cloneRules(n.Validations)
	return &clone
}

// SelectedLabels returns the labels of the ticked options in display order.
func (n *CheckboxNode) SelectedLabels() []string {
	var out []string
	for _, opt := range n.Options {
		if opt.Selected {
			out = append(out, opt.Label)
		}
	}
	return out
}

// OtherSelected reports whether the synthetic "Other" option is ticked.
func (n *CheckboxNode) OtherSelected() bool {
	if !n.AllowOther || len(n.Options) == 0 {
		return false
	}
	return n.Options[len(n.Options)-1].Selected
}

// FormModel is the editable structure derived from a definition list. Nodes
// mirror the definitions one to one by position.
type FormModel struct {
	Nodes []Node `json:"nodes"`
}

// Clone returns a deep copy of the model.
func (f FormModel) Clone() FormModel {
	if f.Nodes == nil {
		return FormModel{}
	}
	out := FormModel{Nodes: make([]Node, len(f.Nodes))}
	for i, node := range f.Nodes {
		out.Nodes[i] = node.cloneNode()
	}
	return out
}

// Len reports the number of nodes.
func (f FormModel) Len() int { return len(f.Nodes) }

// Rule describes how one question type synthesises a node.
type Rule func(def question.Definition) Node

func cloneRules(rules []ValidationRule) []ValidationRule {
	if rules == nil {
		return nil
	}
	out := make([]ValidationRule, len(rules))
	for i, rule := range rules {
		out[i] = ValidationRule{Kind: rule.Kind}
		if rule.Params != nil {
			out[i].Params = make(map[string]string, len(rule.Params))
			for k, v := range rule.Params {
				out[i].Params[k] = v
			}
		}
	}
	return out
}
