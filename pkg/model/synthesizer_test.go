package model_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/question"
	"github.com/goliatone/go-formbuilder/pkg/store"
)

func TestSynthesizer_PreservesAnswersAcrossAppend(t *testing.T) {
	s := store.New()
	synth := model.NewSynthesizer()
	stop := synth.Bind(s)
	defer stop()

	if synth.Len() != 0 {
		t.Fatalf("expected empty model, got %d nodes", synth.Len())
	}

	mustAppend(t, s, question.TypeParagraph, question.ParagraphConfig{Question: "Name?", Required: true})
	if err := synth.SetAnswer(0, "hello"); err != nil {
		t.Fatalf("set answer: %v", err)
	}

	mustAppend(t, s, question.TypeCheckBoxes, question.CheckBoxConfig{
		Question:   "Pick one",
		Required:   true,
		Choices:    []string{"A", "B"},
		AllowOther: true,
	})

	form := synth.Current()
	if form.Len() != 2 {
		t.Fatalf("expected 2 nodes, got %d", form.Len())
	}
	if got := form.Nodes[0].(*model.ParagraphNode).Answer; got != "hello" {
		t.Fatalf("answer lost across append: %q", got)
	}
	group := form.Nodes[1].(*model.CheckboxNode)
	wantOptions := []model.Option{{Label: "A"}, {Label: "B"}, {Label: model.OtherLabel}}
	if diff := cmp.Diff(wantOptions, group.Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}

	issues := synth.Validate()
	if len(issues) != 1 || issues[0].Index != 1 {
		t.Fatalf("expected the unanswered group to be the only issue, got %+v", issues)
	}

	if err := synth.SetSelected(1, 0, true); err != nil {
		t.Fatalf("select: %v", err)
	}
	if issues := synth.Validate(); len(issues) != 0 {
		t.Fatalf("selecting A should make the form valid, got %+v", issues)
	}
}

func TestSynthesizer_RebuildIsIdempotent(t *testing.T) {
	defs := []question.Definition{
		{ID: "a", Type: question.TypeParagraph, Config: question.ParagraphConfig{Question: "A?"}},
		{ID: "b", Type: question.TypeCheckBoxes, Config: question.CheckBoxConfig{Question: "B?", Choices: []string{"x", "y"}}},
	}
	synth := model.NewSynthesizer()
	synth.Rebuild(defs)
	_ = synth.SetAnswer(0, "kept")
	_ = synth.SetSelectedLabels(1, "y")

	before := synth.Current()
	synth.Rebuild(defs)
	after := synth.Current()

	if diff := cmp.Diff(before, after); diff != "" {
		t.Fatalf("rebuild with the same list changed the model (-want +got):\n%s", diff)
	}
}

func TestSynthesizer_OnRebuildIgnoresValueWrites(t *testing.T) {
	synth := model.NewSynthesizer()
	var calls []int
	unsubscribe := synth.OnRebuild(func(form model.FormModel) {
		calls = append(calls, form.Len())
	})

	synth.Rebuild([]question.Definition{{Type: question.TypeParagraph, Config: question.ParagraphConfig{Question: "A?"}}})
	_ = synth.SetAnswer(0, "x")
	unsubscribe()
	synth.Rebuild(nil)

	if diff := cmp.Diff([]int{1}, calls); diff != "" {
		t.Fatalf("listener calls mismatch (-want +got):\n%s", diff)
	}
}

func TestSynthesizer_CurrentIsDetached(t *testing.T) {
	synth := model.NewSynthesizer()
	synth.Rebuild([]question.Definition{{Type: question.TypeParagraph, Config: question.ParagraphConfig{Question: "A?"}}})

	form := synth.Current()
	form.Nodes[0].(*model.ParagraphNode).Answer = "leaked"

	if got := synth.Current().Nodes[0].(*model.ParagraphNode).Answer; got != "" {
		t.Fatalf("mutating a copy reached the live model: %q", got)
	}
}

func TestSynthesizer_SetterErrors(t *testing.T) {
	synth := model.NewSynthesizer()
	synth.Rebuild([]question.Definition{
		{Type: question.TypeParagraph, Config: question.ParagraphConfig{Question: "A?"}},
		{Type: question.TypeCheckBoxes, Config: question.CheckBoxConfig{Question: "B?", Choices: []string{"x", "y"}}},
	})

	if err := synth.SetAnswer(5, "x"); !errors.Is(err, model.ErrIndexOutOfRange) {
		t.Fatalf("expected out of range, got %v", err)
	}
	if err := synth.SetAnswer(1, "x"); !errors.Is(err, model.ErrKindMismatch) {
		t.Fatalf("expected kind mismatch, got %v", err)
	}
	if err := synth.SetSelected(1, 9, true); !errors.Is(err, model.ErrIndexOutOfRange) {
		t.Fatalf("expected option out of range, got %v", err)
	}
	if err := synth.SetOther(1, "z"); !errors.Is(err, model.ErrOtherNotAllowed) {
		t.Fatalf("expected other not allowed, got %v", err)
	}
}

func TestSynthesizer_ApplyIsAllOrNothing(t *testing.T) {
	synth := model.NewSynthesizer()
	synth.Rebuild([]question.Definition{
		{Type: question.TypeParagraph, Config: question.ParagraphConfig{Question: "A?"}},
		{Type: question.TypeCheckBoxes, Config: question.CheckBoxConfig{Question: "B?", Choices: []string{"x", "y"}}},
	})

	err := synth.Apply([]model.Answer{{Answer: "first"}, {Selected: []string{"missing"}}})
	if err == nil {
		t.Fatalf("expected unknown label error")
	}
	if got := synth.Current().Nodes[0].(*model.ParagraphNode).Answer; got != "" {
		t.Fatalf("failed apply must not write partial answers, got %q", got)
	}

	if err := synth.Apply([]model.Answer{{Answer: "first"}, {Selected: []string{"x"}}}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	got := []model.Answer{
		model.AnswerOf(synth.Current().Nodes[0]),
		model.AnswerOf(synth.Current().Nodes[1]),
	}
	want := []model.Answer{{Answer: "first"}, {Selected: []string{"x"}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("answers mismatch (-want +got):\n%s", diff)
	}

	if err := synth.Apply(make([]model.Answer, 3)); !errors.Is(err, model.ErrIndexOutOfRange) {
		t.Fatalf("expected too many answers to fail, got %v", err)
	}
}

func TestSynthesizer_IdentityRestore(t *testing.T) {
	synth := model.NewSynthesizer(model.WithRestoreKey(model.RestoreByIdentity))
	a := question.Definition{ID: "a", Type: question.TypeParagraph, Config: question.ParagraphConfig{Question: "A?"}}
	b := question.Definition{ID: "b", Type: question.TypeParagraph, Config: question.ParagraphConfig{Question: "B?"}}

	synth.Rebuild([]question.Definition{a, b})
	_ = synth.SetAnswer(1, "for b")
	synth.Rebuild([]question.Definition{b, a})

	if got := synth.Current().Nodes[0].(*model.ParagraphNode).Answer; got != "for b" {
		t.Fatalf("identity restore should follow the definition, got %q", got)
	}
}

func TestSynthesizer_RepeatedLabelsTickOneOptionEach(t *testing.T) {
	synth := model.NewSynthesizer()
	// Loaded without validation, so the repeated label reaches the model.
	synth.Rebuild([]question.Definition{{
		ID:   "dup",
		Type: question.TypeCheckBoxes,
		Config: question.CheckBoxConfig{
			Question:      "Pick",
			Choices:       []string{"A", "A", "B"},
			MaxSelections: 1,
		},
	}})

	if err := synth.SetSelectedLabels(0, "A"); err != nil {
		t.Fatalf("select by label: %v", err)
	}
	if diff := cmp.Diff([]bool{true, false, false}, ticked(synth, 0)); diff != "" {
		t.Fatalf("label selection mismatch (-want +got):\n%s", diff)
	}
	if issues := synth.Validate(); len(issues) != 0 {
		t.Fatalf("one listed label must stay within the limit, got %v", issues)
	}

	if err := synth.SelectOptions(0, 1); err != nil {
		t.Fatalf("select by index: %v", err)
	}
	if diff := cmp.Diff([]bool{false, true, false}, ticked(synth, 0)); diff != "" {
		t.Fatalf("index selection mismatch (-want +got):\n%s", diff)
	}
}

func TestSynthesizer_SelectOptionsKeepsFreeTextOptionApart(t *testing.T) {
	synth := model.NewSynthesizer()
	synth.Rebuild([]question.Definition{{
		ID:   "tools",
		Type: question.TypeCheckBoxes,
		Config: question.CheckBoxConfig{
			Question:   "Tools",
			Choices:    []string{model.OtherLabel, "B"},
			AllowOther: true,
		},
	}})
	if err := synth.SetOther(0, "Zig"); err != nil {
		t.Fatalf("set other: %v", err)
	}

	if err := synth.SelectOptions(0, 2); err != nil {
		t.Fatalf("select free-text option: %v", err)
	}
	if diff := cmp.Diff([]bool{false, false, true}, ticked(synth, 0)); diff != "" {
		t.Fatalf("selection mismatch (-want +got):\n%s", diff)
	}
	if got := synth.Current().Nodes[0].(*model.CheckboxNode).OtherValue; got != "Zig" {
		t.Fatalf("free text should survive index selection, got %q", got)
	}
}

func TestSynthesizer_SelectOptionsErrors(t *testing.T) {
	synth := model.NewSynthesizer()
	synth.Rebuild([]question.Definition{
		{ID: "p", Type: question.TypeParagraph, Config: question.ParagraphConfig{Question: "Name?"}},
		{ID: "c", Type: question.TypeCheckBoxes, Config: question.CheckBoxConfig{Question: "Pick", Choices: []string{"A", "B"}}},
	})

	if err := synth.SelectOptions(0, 0); !errors.Is(err, model.ErrKindMismatch) {
		t.Fatalf("expected ErrKindMismatch, got %v", err)
	}
	if err := synth.SelectOptions(1, 0, 5); !errors.Is(err, model.ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
	if diff := cmp.Diff([]bool{false, false}, ticked(synth, 1)); diff != "" {
		t.Fatalf("failed selection must not modify the node (-want +got):\n%s", diff)
	}
}

func ticked(synth *model.Synthesizer, index int) []bool {
	group := synth.Current().Nodes[index].(*model.CheckboxNode)
	out := make([]bool, len(group.Options))
	for i, opt := range group.Options {
		out[i] = opt.Selected
	}
	return out
}

func mustAppend(t *testing.T, s *store.Store, typ question.Type, cfg question.Config) {
	t.Helper()
	if _, err := s.Append(typ, cfg); err != nil {
		t.Fatalf("append: %v", err)
	}
}
