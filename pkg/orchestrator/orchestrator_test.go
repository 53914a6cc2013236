package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/question"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/submission"
)

func sampleDocument() question.Document {
	return question.Document{
		Title: "Survey",
		Questions: []question.Definition{
			{ID: "name", Type: question.TypeParagraph, Config: question.ParagraphConfig{Question: "Name?", Required: true}},
			{ID: "pick", Type: question.TypeCheckBoxes, Config: question.CheckBoxConfig{
				Question: "Pick one",
				Required: true,
				Choices:  []string{"A", "B"},
			}},
		},
	}
}

func newSession(t *testing.T, options ...Option) *Orchestrator {
	t.Helper()
	o := New(options...)
	t.Cleanup(func() { _ = o.Close() })
	if err := o.LoadDocument(sampleDocument()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return o
}

func TestRender_DefaultRendererShowsLiveForm(t *testing.T) {
	o := newSession(t)
	out, err := o.Render(context.Background(), Request{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)
	for _, want := range []string{"<title>Survey</title>", "Name?", `value="B"`} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected output to contain %q", want)
		}
	}
	if o.ContentType("") != "text/html; charset=utf-8" {
		t.Fatalf("unexpected content type %q", o.ContentType(""))
	}
}

func TestSubmitAndReview(t *testing.T) {
	o := newSession(t)
	ctx := context.Background()

	_, err := o.Submit()
	var invalid *submission.ValidationError
	if !errors.As(err, &invalid) || len(invalid.Issues) != 2 {
		t.Fatalf("expected two issues, got %v", err)
	}
	if _, err := o.Review(ctx, Request{}); !isMissing(err) {
		t.Fatalf("failed submit must not reach the review, got %v", err)
	}

	if err := o.Form().Apply([]model.Answer{{Answer: "Ada"}, {Selected: []string{"B"}}}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if _, err := o.Submit(); err != nil {
		t.Fatalf("submit: %v", err)
	}
	out, err := o.Review(ctx, Request{})
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if !strings.Contains(string(out), "Ada") {
		t.Fatalf("review misses the answer:\n%s", out)
	}
	if _, err := o.Review(ctx, Request{}); !isMissing(err) {
		t.Fatalf("payload must be consumed by the first review, got %v", err)
	}
}

func TestAddQuestion_KeepsInProgressAnswers(t *testing.T) {
	o := newSession(t)
	if err := o.Form().SetAnswer(0, "hello"); err != nil {
		t.Fatalf("set answer: %v", err)
	}

	draft := builder.NewDraft(question.TypeParagraph)
	draft.SetQuestion("Anything else?")
	closed := false
	if _, err := o.AddQuestion(draft, builder.SurfaceFunc(func() { closed = true })); err != nil {
		t.Fatalf("add question: %v", err)
	}
	if !closed {
		t.Fatalf("surface was not closed")
	}

	form := o.Form().Current()
	if form.Len() != 3 {
		t.Fatalf("expected 3 nodes, got %d", form.Len())
	}
	if got := model.AnswerOf(form.Nodes[0]).Answer; got != "hello" {
		t.Fatalf("answer lost across append, got %q", got)
	}
}

func TestClose_StopsSession(t *testing.T) {
	o := newSession(t)
	if err := o.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := o.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if err := o.Load(sampleDocument().Questions...); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if _, err := o.Submit(); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}

	if _, err := o.Store().Append(question.TypeParagraph, question.ParagraphConfig{Question: "late"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if o.Form().Len() != 2 {
		t.Fatalf("closed session must not follow the store, got %d nodes", o.Form().Len())
	}
}

func TestClose_GuardsRenderAndReview(t *testing.T) {
	o := newSession(t)
	ctx := context.Background()
	if err := o.Form().Apply([]model.Answer{{Answer: "Ada"}, {Selected: []string{"A"}}}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	payload, err := o.Submit()
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := o.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if _, err := o.Render(ctx, Request{}); !errors.Is(err, ErrClosed) {
		t.Fatalf("render: expected ErrClosed, got %v", err)
	}
	if _, err := o.RenderReview(ctx, payload, Request{}); !errors.Is(err, ErrClosed) {
		t.Fatalf("render review: expected ErrClosed, got %v", err)
	}
	if _, err := o.Review(ctx, Request{}); !errors.Is(err, ErrClosed) {
		t.Fatalf("review: expected ErrClosed, got %v", err)
	}
	if !o.Handoff().Pending() {
		t.Fatalf("a rejected review must leave the submission pending")
	}
}

func TestOnClose_RunsHooksOnce(t *testing.T) {
	o := New()
	var calls []string
	o.OnClose(func() { calls = append(calls, "first") })
	o.OnClose(nil)
	o.OnClose(func() { calls = append(calls, "second") })

	_ = o.Close()
	_ = o.Close()
	o.OnClose(func() { calls = append(calls, "late") })

	want := []string{"second", "first", "late"}
	if strings.Join(calls, ",") != strings.Join(want, ",") {
		t.Fatalf("hooks ran as %v, want %v", calls, want)
	}
}

func TestOnClose_UnsubscribesStoreObserver(t *testing.T) {
	o := New()
	seen := 0
	o.OnClose(o.Store().Subscribe(func([]question.Definition) { seen++ }))

	if _, err := o.Store().Append(question.TypeParagraph, question.ParagraphConfig{Question: "A?"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	_ = o.Close()
	if _, err := o.Store().Append(question.TypeParagraph, question.ParagraphConfig{Question: "B?"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	// One delivery on subscribe, one for the append before close.
	if seen != 2 {
		t.Fatalf("observer should stop at close, saw %d deliveries", seen)
	}
}

func TestRender_ThemeSelector(t *testing.T) {
	manifest := &theme.Manifest{
		Name:   "acme",
		Tokens: map[string]string{"brand": "#111111"},
		Variants: map[string]theme.Variant{
			"dark": {Tokens: map[string]string{"brand": "#000000"}},
		},
	}
	o := newSession(t, WithThemeSelector(render.StaticSelector{Manifest: manifest}, "", "dark"))

	out, err := o.Render(context.Background(), Request{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), "--brand: #000000;") {
		t.Fatalf("variant tokens missing:\n%s", out)
	}
}

func TestRender_TransformerSeesCopy(t *testing.T) {
	o := newSession(t, WithTransformer(TransformerFunc(func(_ context.Context, form *model.FormModel) error {
		form.Nodes = form.Nodes[:1]
		return nil
	})))

	out, err := o.Render(context.Background(), Request{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(string(out), "Pick one") {
		t.Fatalf("transformer was not applied")
	}
	if o.Form().Len() != 2 {
		t.Fatalf("transformer changed the live model")
	}
}

func TestRender_UnknownRenderer(t *testing.T) {
	o := newSession(t)
	if _, err := o.Render(context.Background(), Request{Renderer: "pdf"}); err == nil {
		t.Fatalf("expected an error for an unknown renderer")
	}
}

func isMissing(err error) bool {
	var missing *submission.MissingSubmissionError
	return errors.As(err, &missing)
}
