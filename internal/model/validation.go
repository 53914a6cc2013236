package model

import (
	"fmt"
	"strconv"
)

// Issue describes one failed constraint.
type Issue struct {
	Index        int    `json:"index"`
	DefinitionID string `json:"definitionId,omitempty"`
	Question     string `json:"question"`
	Rule         string `json:"rule"`
	Message      string `json:"message"`
}

// Validate evaluates every node and returns the issues in node order. An
// empty model has no issues.
func Validate(form FormModel) []Issue {
	var issues []Issue
	for i, node := range form.Nodes {
		for _, issue := range ValidateNode(node) {
			issue.Index = i
			issues = append(issues, issue)
		}
	}
	return issues
}

// ValidateNode evaluates the rules attached to a single node.
func ValidateNode(node Node) []Issue {
	if node == nil {
		return nil
	}
	var issues []Issue
	for _, rule := range node.Rules() {
		msg, ok := checkRule(node, rule)
		if ok {
			continue
		}
		issues = append(issues, Issue{
			DefinitionID: node.DefinitionID(),
			Question:     node.Question(),
			Rule:         rule.Kind,
			Message:      msg,
		})
	}
	return issues
}

// Valid reports whether the node satisfies all its rules.
func Valid(node Node) bool {
	return len(ValidateNode(node)) == 0
}

func checkRule(node Node, rule ValidationRule) (string, bool) {
	switch rule.Kind {
	case ValidationRuleRequired:
		if p, ok := node.(*ParagraphNode); ok && p.Answer == "" {
			return "answer is required", false
		}
	case ValidationRuleMinSelected:
		lower := ruleValue(rule, 1)
		if selectedCount(node) < lower {
			return fmt.Sprintf("select at least %d %s", lower, plural(lower, "option", "options")), false
		}
	case ValidationRuleMaxSelected:
		upper := ruleValue(rule, 0)
		if upper > 0 && selectedCount(node) > upper {
			return fmt.Sprintf("select at most %d %s", upper, plural(upper, "option", "options")), false
		}
	}
	return "", true
}

func selectedCount(node Node) int {
	group, ok := node.(*CheckboxNode)
	if !ok {
		return 0
	}
	count := 0
	for _, opt := range group.Options {
		if opt.Selected {
			count++
		}
	}
	return count
}

func ruleValue(rule ValidationRule, fallback int) int {
	raw, ok := rule.Params["value"]
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
