package openapi

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/question"
	"github.com/goliatone/go-formbuilder/pkg/submission"
)

func sampleDefinitions() []question.Definition {
	return []question.Definition{
		{ID: "name", Type: question.TypeParagraph, Config: question.ParagraphConfig{Question: "Name?", Required: true}},
		{ID: "pick", Type: question.TypeCheckBoxes, Config: question.CheckBoxConfig{
			Question:      "Pick one",
			Required:      true,
			Choices:       []string{"A", "B"},
			AllowOther:    true,
			MaxSelections: 2,
		}},
		{Type: question.TypeParagraph, Config: question.ParagraphConfig{Question: "Comments"}},
	}
}

func build(t *testing.T) *Document {
	t.Helper()
	doc, err := Build(sampleDefinitions(), WithTitle("Survey"))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return doc
}

func TestBuild_ProducesValidDocument(t *testing.T) {
	doc := build(t)
	if err := doc.Validate(context.Background()); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if diff := cmp.Diff([]string{"name", "pick", "q3"}, doc.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"name", "pick"}, doc.AnswersSchema().Required); diff != "" {
		t.Fatalf("required mismatch (-want +got):\n%s", diff)
	}

	pick := doc.AnswersSchema().Properties["pick"].Value
	selected := pick.Properties["selected"].Value
	if selected.MaxItems == nil || *selected.MaxItems != 2 || selected.MinItems != 1 {
		t.Fatalf("unexpected selection bounds: min=%d max=%v", selected.MinItems, selected.MaxItems)
	}
	if diff := cmp.Diff([]any{"A", "B", model.OtherLabel}, selected.Items.Value.Enum); diff != "" {
		t.Fatalf("enum mismatch (-want +got):\n%s", diff)
	}
}

func TestDocument_JSONAndYAML(t *testing.T) {
	doc := build(t)
	data, err := doc.JSON()
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded["openapi"] != "3.0.3" {
		t.Fatalf("unexpected openapi version %v", decoded["openapi"])
	}
	if !strings.Contains(string(data), `"$ref": "#/components/schemas/Answers"`) {
		t.Fatalf("request body does not reference the answers schema:\n%s", data)
	}

	out, err := doc.YAML()
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if !strings.Contains(string(out), "title: Survey") {
		t.Fatalf("yaml misses the title:\n%s", out)
	}
}

func TestDecodeAnswers(t *testing.T) {
	doc := build(t)
	got, err := doc.DecodeAnswers([]byte(`{"name":"Ada","pick":{"selected":["B","Other"],"other":"C"}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []model.Answer{
		{Answer: "Ada"},
		{Selected: []string{"B", model.OtherLabel}, Other: "C"},
		{},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("answers mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeAnswers_ReportsEveryIssue(t *testing.T) {
	doc := build(t)
	_, err := doc.DecodeAnswers([]byte(`{"pick":{"selected":["Z"]},"extra":1}`))
	var invalid *ValidationError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	fields := invalid.Fields()
	for _, key := range []string{"name", "pick"} {
		if len(fields[key]) == 0 {
			t.Fatalf("expected an issue for %q, got %+v", key, invalid.Issues)
		}
	}
	if !strings.Contains(strings.Join(fields[""], " "), `"extra"`) {
		t.Fatalf("expected the unknown property to be reported, got %+v", invalid.Issues)
	}
}

func TestDecodeAnswers_RejectsNonObject(t *testing.T) {
	doc := build(t)
	if _, err := doc.DecodeAnswers([]byte(`[]`)); err == nil {
		t.Fatalf("expected an error for a JSON array")
	}
}

func TestValidatePayload(t *testing.T) {
	doc := build(t)
	valid := submission.Payload{Entries: []submission.Entry{
		{ID: "name", Question: "Name?", Kind: model.KindParagraph, Answer: "Ada"},
		{ID: "pick", Question: "Pick one", Kind: model.KindCheckbox, Selected: []string{"A"}},
		{Question: "Comments", Kind: model.KindParagraph},
	}}
	if err := doc.ValidatePayload(valid); err != nil {
		t.Fatalf("validate payload: %v", err)
	}

	tooMany := valid.Clone()
	tooMany.Entries[1].Selected = []string{"A", "B", model.OtherLabel}
	if err := doc.ValidatePayload(tooMany); err == nil {
		t.Fatalf("expected maxItems to reject three selections")
	}

	if err := doc.ValidatePayload(submission.Payload{}); err == nil {
		t.Fatalf("expected an entry count mismatch")
	}
}

func TestBuild_RejectsMalformedDefinition(t *testing.T) {
	_, err := Build([]question.Definition{{Type: question.TypeCheckBoxes, Config: question.ParagraphConfig{Question: "x"}}})
	if err == nil {
		t.Fatalf("expected an error")
	}
}
