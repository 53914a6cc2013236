package store_test

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/question"
	"github.com/goliatone/go-formbuilder/pkg/store"
)

func sequentialIDs() store.IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("q-%d", n)
	}
}

func questionsOf(defs []question.Definition) []string {
	out := make([]string, 0, len(defs))
	for _, def := range defs {
		out = append(out, def.Question())
	}
	return out
}

func TestSubscribe_ReceivesCurrentListImmediately(t *testing.T) {
	s := store.New(store.WithIDGenerator(sequentialIDs()))
	if _, err := s.Append(question.TypeParagraph, question.ParagraphConfig{Question: "Name?"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	var received [][]string
	unsubscribe := s.Subscribe(func(defs []question.Definition) {
		received = append(received, questionsOf(defs))
	})
	defer unsubscribe()

	want := [][]string{{"Name?"}}
	if diff := cmp.Diff(want, received); diff != "" {
		t.Fatalf("initial delivery mismatch (-want +got):\n%s", diff)
	}
}

func TestAppend_PublishesVersionsInOrder(t *testing.T) {
	s := store.New(store.WithIDGenerator(sequentialIDs()))

	var first, second [][]string
	s.Subscribe(func(defs []question.Definition) { first = append(first, questionsOf(defs)) })
	s.Subscribe(func(defs []question.Definition) { second = append(second, questionsOf(defs)) })

	for _, q := range []string{"A?", "B?", "C?"} {
		if _, err := s.Append(question.TypeParagraph, question.ParagraphConfig{Question: q}); err != nil {
			t.Fatalf("append %s: %v", q, err)
		}
	}

	want := [][]string{{}, {"A?"}, {"A?", "B?"}, {"A?", "B?", "C?"}}
	if diff := cmp.Diff(want, first); diff != "" {
		t.Fatalf("first observer mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, second); diff != "" {
		t.Fatalf("second observer mismatch (-want +got):\n%s", diff)
	}
}

func TestAppend_AssignsIdentityAndKeepsExplicitIDs(t *testing.T) {
	s := store.New(store.WithIDGenerator(sequentialIDs()))

	generated, err := s.Append(question.TypeParagraph, question.ParagraphConfig{Question: "A?"})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	explicit, err := s.AppendDefinition(question.Definition{
		ID:     "custom",
		Type:   question.TypeParagraph,
		Config: question.ParagraphConfig{Question: "B?"},
	})
	if err != nil {
		t.Fatalf("append definition: %v", err)
	}

	if generated.ID != "q-1" || explicit.ID != "custom" {
		t.Fatalf("unexpected ids: %q %q", generated.ID, explicit.ID)
	}
}

func TestAppend_RejectsMalformedDefinition(t *testing.T) {
	s := store.New()
	var calls int
	s.Subscribe(func([]question.Definition) { calls++ })

	_, err := s.Append(question.TypeCheckBoxes, question.ParagraphConfig{Question: "mixed"})
	if err == nil {
		t.Fatalf("expected error for mismatched config")
	}
	if s.Len() != 0 || calls != 1 {
		t.Fatalf("malformed append must not publish: len=%d calls=%d", s.Len(), calls)
	}
}

func TestSnapshot_IsDetachedFromStore(t *testing.T) {
	s := store.New()
	if _, err := s.Append(question.TypeCheckBoxes, question.CheckBoxConfig{
		Question: "Pick",
		Choices:  []string{"A", "B"},
	}); err != nil {
		t.Fatalf("append: %v", err)
	}

	snapshot := s.Snapshot()
	snapshot[0].Config.(question.CheckBoxConfig).Choices[0] = "mutated"
	snapshot = append(snapshot, question.Definition{})

	again := s.Snapshot()
	if len(again) != 1 {
		t.Fatalf("store length changed through snapshot: %d", len(again))
	}
	if got := again[0].Config.(question.CheckBoxConfig).Choices[0]; got != "A" {
		t.Fatalf("store choices mutated through snapshot: %q", got)
	}
}

func TestAppend_DoesNotMutatePreviouslyPublishedList(t *testing.T) {
	s := store.New()
	var versions [][]question.Definition
	s.Subscribe(func(defs []question.Definition) { versions = append(versions, defs) })

	if _, err := s.Append(question.TypeParagraph, question.ParagraphConfig{Question: "A?"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := s.Append(question.TypeParagraph, question.ParagraphConfig{Question: "B?"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	if len(versions[1]) != 1 || len(versions[2]) != 2 {
		t.Fatalf("unexpected version lengths: %d %d", len(versions[1]), len(versions[2]))
	}
}

func TestUnsubscribe_StopsDelivery(t *testing.T) {
	s := store.New()
	var calls int
	unsubscribe := s.Subscribe(func([]question.Definition) { calls++ })
	unsubscribe()
	unsubscribe()

	if _, err := s.Append(question.TypeParagraph, question.ParagraphConfig{Question: "A?"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected only the initial delivery, got %d", calls)
	}
}
