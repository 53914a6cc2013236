package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/submission"
	"github.com/goliatone/go-formbuilder/pkg/testsupport"
)

func samplePayload() submission.Payload {
	return submission.Payload{Entries: []submission.Entry{
		{ID: "name", Question: "Name?", Kind: model.KindParagraph, Answer: "Ada"},
		{ID: "pick", Question: "Pick one", Kind: model.KindCheckbox, Selected: []string{"B", model.OtherLabel}, Other: "C"},
	}}
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{"json": FormatJSON, ".YML": FormatYAML, "yaml": FormatYAML, "xlsx": FormatXLSX}
	for raw, want := range cases {
		got, err := ParseFormat(raw)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v; want %q", raw, got, err, want)
		}
	}
	if _, err := ParseFormat("csv"); err == nil {
		t.Fatalf("expected csv to be rejected")
	}
}

func TestEncode_JSONGolden(t *testing.T) {
	data, err := Encode(FormatJSON, samplePayload())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	testsupport.AssertGolden(t, filepath.Join("testdata", "payload.golden.json"), data)
}

func TestEncode_JSONAndYAMLDecodeBack(t *testing.T) {
	want := samplePayload()

	data, err := Encode(FormatJSON, want)
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	var fromJSON submission.Payload
	if err := json.Unmarshal(data, &fromJSON); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if diff := cmp.Diff(want, fromJSON); diff != "" {
		t.Fatalf("json payload mismatch (-want +got):\n%s", diff)
	}

	data, err = Encode(FormatYAML, want)
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	var fromYAML submission.Payload
	if err := yaml.Unmarshal(data, &fromYAML); err != nil {
		t.Fatalf("decode yaml: %v", err)
	}
	if diff := cmp.Diff(want, fromYAML); diff != "" {
		t.Fatalf("yaml payload mismatch (-want +got):\n%s", diff)
	}
}

func TestEncode_Workbook(t *testing.T) {
	data, err := Encode(FormatXLSX, samplePayload())
	if err != nil {
		t.Fatalf("xlsx: %v", err)
	}
	rows, err := ReadRows(data)
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	want := [][]string{
		{"1", "Name?", "paragraph", "Ada"},
		{"2", "Pick one", "checkbox", "B, Other", "C"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	var sb strings.Builder
	if err := Write(&sb, Format("pdf"), samplePayload()); err == nil {
		t.Fatalf("expected an error")
	}
}

func TestLoadAnswers(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "answers.yaml")
	if err := os.WriteFile(yamlPath, []byte("- answer: Ada\n- selected: [B, Other]\n  other: C\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := LoadAnswers(yamlPath)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := []model.Answer{{Answer: "Ada"}, {Selected: []string{"B", model.OtherLabel}, Other: "C"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("answers mismatch (-want +got):\n%s", diff)
	}

	jsonPath := filepath.Join(dir, "answers.json")
	if err := os.WriteFile(jsonPath, []byte(`[{"answer":"Ada"}]`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got, err := LoadAnswers(jsonPath); err != nil || len(got) != 1 {
		t.Fatalf("load json: %v %+v", err, got)
	}
}
