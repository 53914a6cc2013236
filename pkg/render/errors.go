package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

const fieldPrefix = "questions"

// FieldKey is the key renderers use for the question at index, both in error
// maps and as the input name prefix.
func FieldKey(index int) string {
	return fmt.Sprintf("%s.%d", fieldPrefix, index)
}

// ErrorMapping splits messages into per-question and form-level groups.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MapIssues groups model validation issues by FieldKey.
func MapIssues(issues []model.Issue) ErrorMapping {
	mapping := ErrorMapping{}
	for _, issue := range issues {
		if mapping.Fields == nil {
			mapping.Fields = make(map[string][]string)
		}
		key := FieldKey(issue.Index)
		mapping.Fields[key] = normalizeMessages(append(mapping.Fields[key], issue.Message))
	}
	return mapping
}

// MapErrorPayload normalises externally produced error keys onto FieldKey.
// Keys may be a FieldKey, a JSON pointer or bracket path into the submission
// entries ("/entries/1", "entries[1].selected") or a definition ID. Anything
// else is kept as a form-level message.
func MapErrorPayload(form model.FormModel, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{}
	if len(payload) == 0 {
		return mapping
	}

	byID := make(map[string]int, form.Len())
	for i, node := range form.Nodes {
		if id := node.DefinitionID(); id != "" {
			byID[id] = i
		}
	}

	for raw, messages := range payload {
		clean := normalizeMessages(messages)
		if len(clean) == 0 {
			continue
		}
		index, ok := resolveIndex(raw, byID, form.Len())
		if !ok {
			mapping.Form = append(mapping.Form, clean...)
			continue
		}
		if mapping.Fields == nil {
			mapping.Fields = make(map[string][]string)
		}
		key := FieldKey(index)
		mapping.Fields[key] = normalizeMessages(append(mapping.Fields[key], clean...))
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

// MergeFormErrors concatenates message slices, trimming and de-duplicating
// while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

func resolveIndex(raw string, byID map[string]int, count int) (int, bool) {
	segments := parsePathSegments(raw)
	if len(segments) == 0 {
		return 0, false
	}
	if index, ok := byID[segments[0]]; ok {
		return index, true
	}
	switch strings.ToLower(segments[0]) {
	case fieldPrefix, "entries", "nodes":
		if len(segments) < 2 {
			return 0, false
		}
		index, err := strconv.Atoi(segments[1])
		if err != nil || index < 0 || index >= count {
			return 0, false
		}
		return index, true
	}
	return 0, false
}

func parsePathSegments(path string) []string {
	clean := strings.TrimSpace(path)
	clean = strings.TrimLeft(clean, "#$/.")
	clean = strings.NewReplacer("[", ".", "]", "").Replace(clean)
	if clean == "" {
		return nil
	}
	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})
	out := parts[:0]
	for _, part := range parts {
		if segment := strings.TrimSpace(part); segment != "" {
			out = append(out, segment)
		}
	}
	return out
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}
	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
