package model

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/question"
)

func paragraph(id, text string, required bool) question.Definition {
	return question.Definition{
		ID:     id,
		Type:   question.TypeParagraph,
		Config: question.ParagraphConfig{Question: text, Required: required},
	}
}

func checkboxes(id, text string, required, allowOther bool, choices ...string) question.Definition {
	return question.Definition{
		ID:   id,
		Type: question.TypeCheckBoxes,
		Config: question.CheckBoxConfig{
			Question:   text,
			Required:   required,
			Choices:    choices,
			AllowOther: allowOther,
		},
	}
}

func TestBuild_OneNodePerDefinition(t *testing.T) {
	b := New(Options{})
	lists := [][]question.Definition{
		nil,
		{paragraph("a", "A?", false)},
		{paragraph("a", "A?", true), checkboxes("b", "B?", false, true, "x", "y")},
		{paragraph("a", "A?", false), {ID: "c", Type: "Rating", Config: question.ParagraphConfig{Question: "C?"}}},
	}
	for _, defs := range lists {
		form := b.Build(defs)
		if form.Len() != len(defs) {
			t.Fatalf("expected %d nodes, got %d", len(defs), form.Len())
		}
	}
}

func TestBuild_ParagraphNodeShape(t *testing.T) {
	form := New(Options{}).Build([]question.Definition{paragraph("q1", "Name?", true)})

	want := &ParagraphNode{
		ID:          "q1",
		Text:        "Name?",
		Validations: []ValidationRule{{Kind: ValidationRuleRequired}},
	}
	if diff := cmp.Diff(want, form.Nodes[0]); diff != "" {
		t.Fatalf("paragraph node mismatch (-want +got):\n%s", diff)
	}
	if Valid(form.Nodes[0]) {
		t.Fatalf("required paragraph with empty answer must be invalid")
	}
}

func TestBuild_CheckboxNodeWithOther(t *testing.T) {
	form := New(Options{}).Build([]question.Definition{
		checkboxes("q1", "Pick one", true, true, "A", "B"),
	})

	node, ok := form.Nodes[0].(*CheckboxNode)
	if !ok {
		t.Fatalf("expected checkbox node, got %T", form.Nodes[0])
	}
	wantOptions := []Option{{Label: "A"}, {Label: "B"}, {Label: OtherLabel}}
	if diff := cmp.Diff(wantOptions, node.Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	if node.OtherValue != "" || !node.AllowOther {
		t.Fatalf("unexpected other state: %+v", node)
	}
	if Valid(node) {
		t.Fatalf("required checkbox with nothing selected must be invalid")
	}

	node.Options[0].Selected = true
	if !Valid(node) {
		t.Fatalf("selecting one option should satisfy the group, issues: %+v", ValidateNode(node))
	}
}

func TestBuild_CheckboxWithoutOtherHasNoSyntheticOption(t *testing.T) {
	form := New(Options{}).Build([]question.Definition{
		checkboxes("q1", "Pick", false, false, "A", "B", "C"),
	})
	node := form.Nodes[0].(*CheckboxNode)
	if len(node.Options) != 3 {
		t.Fatalf("expected 3 options, got %d", len(node.Options))
	}
	if len(node.Validations) != 0 || !Valid(node) {
		t.Fatalf("optional checkbox must carry no constraint")
	}
}

func TestBuild_MaxSelections(t *testing.T) {
	def := question.Definition{
		Type: question.TypeCheckBoxes,
		Config: question.CheckBoxConfig{
			Question:      "Pick two",
			Choices:       []string{"A", "B", "C"},
			MaxSelections: 2,
		},
	}
	node := New(Options{}).BuildNode(def).(*CheckboxNode)
	for i := range node.Options {
		node.Options[i].Selected = true
	}
	issues := ValidateNode(node)
	if len(issues) != 1 || issues[0].Rule != ValidationRuleMaxSelected {
		t.Fatalf("expected maxSelected issue, got %+v", issues)
	}
	if issues[0].Message != "select at most 2 options" {
		t.Fatalf("unexpected message %q", issues[0].Message)
	}
}

func TestBuild_UnknownTypeFallsBackToParagraph(t *testing.T) {
	def := question.Definition{ID: "x", Type: "Slider", Config: question.ParagraphConfig{Question: "How much?", Required: true}}
	node := New(Options{}).BuildNode(def)
	if node.Kind() != KindParagraph {
		t.Fatalf("expected paragraph fallback, got %s", node.Kind())
	}
}

func TestBuild_CustomRuleOverridesBuiltin(t *testing.T) {
	custom := func(def question.Definition) Node {
		return &ParagraphNode{ID: def.ID, Text: "custom:" + def.Question()}
	}
	b := New(Options{Rules: map[question.Type]Rule{question.TypeParagraph: custom}})
	node := b.BuildNode(paragraph("a", "A?", false))
	if node.Question() != "custom:A?" {
		t.Fatalf("custom rule not applied: %q", node.Question())
	}
}

func TestValidate_RequiredGating(t *testing.T) {
	node := ParagraphRule(paragraph("a", "A?", true)).(*ParagraphNode)
	if Valid(node) {
		t.Fatalf("empty answer must fail")
	}
	node.Answer = "x"
	if !Valid(node) {
		t.Fatalf("non-empty answer must pass")
	}
}

func TestValidate_EmptyModelIsValid(t *testing.T) {
	if issues := Validate(FormModel{}); len(issues) != 0 {
		t.Fatalf("expected no issues, got %+v", issues)
	}
}

func TestValidate_ReportsIndexes(t *testing.T) {
	form := New(Options{}).Build([]question.Definition{
		paragraph("a", "A?", false),
		paragraph("b", "B?", true),
		checkboxes("c", "C?", true, false, "x", "y"),
	})
	issues := Validate(form)
	want := []Issue{
		{Index: 1, DefinitionID: "b", Question: "B?", Rule: ValidationRuleRequired, Message: "answer is required"},
		{Index: 2, DefinitionID: "c", Question: "C?", Rule: ValidationRuleMinSelected, Message: "select at least 1 option"},
	}
	if diff := cmp.Diff(want, issues); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}
}

func TestCaptureRestore_ByPosition(t *testing.T) {
	b := New(Options{})
	defs := []question.Definition{
		paragraph("a", "A?", true),
		checkboxes("b", "B?", true, true, "x", "y"),
	}
	form := b.Build(defs)
	form.Nodes[0].(*ParagraphNode).Answer = "hello"
	group := form.Nodes[1].(*CheckboxNode)
	group.Options[2].Selected = true
	group.OtherValue = "something else"

	values := Capture(form)
	rebuilt := b.Build(append(defs, paragraph("c", "C?", false)))
	Restore(rebuilt, values, RestoreByPosition)

	if got := rebuilt.Nodes[0].(*ParagraphNode).Answer; got != "hello" {
		t.Fatalf("answer not preserved: %q", got)
	}
	restored := rebuilt.Nodes[1].(*CheckboxNode)
	if !restored.Options[2].Selected || restored.OtherValue != "something else" {
		t.Fatalf("checkbox state not preserved: %+v", restored)
	}
	if got := rebuilt.Nodes[2].(*ParagraphNode).Answer; got != "" {
		t.Fatalf("new node must start empty, got %q", got)
	}
}

func TestRestore_SkipsKindMismatch(t *testing.T) {
	b := New(Options{})
	form := b.Build([]question.Definition{paragraph("a", "A?", false)})
	form.Nodes[0].(*ParagraphNode).Answer = "text"
	values := Capture(form)

	other := b.Build([]question.Definition{checkboxes("b", "B?", false, false, "x", "y")})
	Restore(other, values, RestoreByPosition)

	if labels := other.Nodes[0].(*CheckboxNode).SelectedLabels(); len(labels) != 0 {
		t.Fatalf("mismatched kinds must not restore, got %v", labels)
	}
}

func TestRestore_ByIdentityFollowsDefinitions(t *testing.T) {
	b := New(Options{})
	form := b.Build([]question.Definition{paragraph("a", "A?", false), paragraph("b", "B?", false)})
	form.Nodes[0].(*ParagraphNode).Answer = "first"
	form.Nodes[1].(*ParagraphNode).Answer = "second"
	values := Capture(form)

	reordered := b.Build([]question.Definition{paragraph("b", "B?", false), paragraph("a", "A?", false)})
	Restore(reordered, values, RestoreByIdentity)

	got := []string{reordered.Nodes[0].(*ParagraphNode).Answer, reordered.Nodes[1].(*ParagraphNode).Answer}
	if diff := cmp.Diff([]string{"second", "first"}, got); diff != "" {
		t.Fatalf("identity restore mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyAnswer(t *testing.T) {
	node := CheckBoxRule(checkboxes("b", "B?", true, true, "x", "y"))
	if err := ApplyAnswer(node, Answer{Selected: []string{"y", OtherLabel}, Other: "z"}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if diff := cmp.Diff(Answer{Selected: []string{"y", OtherLabel}, Other: "z"}, AnswerOf(node)); diff != "" {
		t.Fatalf("answer mismatch (-want +got):\n%s", diff)
	}
	if err := ApplyAnswer(node, Answer{Selected: []string{"nope"}}); err == nil {
		t.Fatalf("expected unknown label error")
	}
	if diff := cmp.Diff([]string{"y", OtherLabel}, node.(*CheckboxNode).SelectedLabels()); diff != "" {
		t.Fatalf("rejected answer must not modify node (-want +got):\n%s", diff)
	}
}

func TestClone_IsDeep(t *testing.T) {
	form := New(Options{}).Build([]question.Definition{checkboxes("b", "B?", true, false, "x", "y")})
	clone := form.Clone()
	clone.Nodes[0].(*CheckboxNode).Options[0].Selected = true

	if form.Nodes[0].(*CheckboxNode).Options[0].Selected {
		t.Fatalf("clone shares option storage with the original")
	}
}

func TestMarshalJSON_IncludesKind(t *testing.T) {
	form := New(Options{}).Build([]question.Definition{paragraph("a", "Name?", false)})
	raw, err := json.Marshal(form)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"nodes":[{"kind":"paragraph","definitionId":"a","question":"Name?","answer":""}]}`
	if string(raw) != want {
		t.Fatalf("unexpected json:\n got %s\nwant %s", raw, want)
	}
}
