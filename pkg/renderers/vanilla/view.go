package vanilla

import (
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/question"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/submission"
)

const themeStylesheetAsset = "stylesheet"

type themeView struct {
	Name          string `json:"name,omitempty"`
	Variant       string `json:"variant,omitempty"`
	CSSVarsStyle  string `json:"cssVarsStyle,omitempty"`
	StylesheetURL string `json:"stylesheetUrl,omitempty"`
}

type optionView struct {
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

type questionView struct {
	Key          string       `json:"key"`
	ID           string       `json:"id,omitempty"`
	Kind         model.Kind   `json:"kind"`
	Text         string       `json:"text"`
	Required     bool         `json:"required"`
	ControlID    string       `json:"controlId"`
	AnswerName   string       `json:"answerName,omitempty"`
	Answer       string       `json:"answer,omitempty"`
	SelectedName string       `json:"selectedName,omitempty"`
	Options      []optionView `json:"options,omitempty"`
	AllowOther   bool         `json:"allowOther,omitempty"`
	OtherName    string       `json:"otherName,omitempty"`
	OtherValue   string       `json:"otherValue,omitempty"`
	Errors       []string     `json:"errors,omitempty"`
}

type formPage struct {
	Title         string                `json:"title"`
	Stylesheet    string                `json:"stylesheet,omitempty"`
	Theme         themeView             `json:"theme"`
	Action        string                `json:"action"`
	Notice        string                `json:"notice,omitempty"`
	FormErrors    []string              `json:"formErrors,omitempty"`
	Hidden        []render.HiddenField  `json:"hidden,omitempty"`
	Questions     []questionView        `json:"questions,omitempty"`
	BuilderAction string                `json:"builderAction,omitempty"`
	BuilderErrors []string              `json:"builderErrors,omitempty"`
	Types         []question.TypeOption `json:"types,omitempty"`
}

type reviewPage struct {
	Title      string             `json:"title"`
	Stylesheet string             `json:"stylesheet,omitempty"`
	Theme      themeView          `json:"theme"`
	Entries    []submission.Entry `json:"entries,omitempty"`
	BackURL    string             `json:"backUrl,omitempty"`
}

func buildFormPage(form model.FormModel, opts render.RenderOptions, stylesheet string) formPage {
	page := formPage{
		Title:         defaultString(opts.Title, defaultFormTitle),
		Stylesheet:    stylesheet,
		Theme:         buildTheme(opts.Theme),
		Action:        opts.Action,
		Notice:        opts.Notice,
		FormErrors:    render.MergeFormErrors(opts.FormErrors),
		BuilderAction: opts.BuilderAction,
		BuilderErrors: flattenErrors(opts.BuilderErrors),
		Types:         opts.Types,
	}
	page.Hidden = render.SortedHiddenFields(opts.Hidden)
	if page.BuilderAction != "" && len(page.Types) == 0 {
		page.Types = question.Types()
	}
	for i, node := range form.Nodes {
		page.Questions = append(page.Questions, buildQuestion(i, node, opts.Errors[render.FieldKey(i)]))
	}
	return page
}

func buildQuestion(index int, node model.Node, errors []string) questionView {
	key := render.FieldKey(index)
	view := questionView{
		Key:       key,
		ID:        node.DefinitionID(),
		Kind:      node.Kind(),
		Text:      node.Question(),
		ControlID: "fb-" + strings.ReplaceAll(key, ".", "-"),
		Errors:    errors,
	}
	for _, rule := range node.Rules() {
		if rule.Kind == model.ValidationRuleRequired || rule.Kind == model.ValidationRuleMinSelected {
			view.Required = true
		}
	}

	switch typed := node.(type) {
	case *model.ParagraphNode:
		view.AnswerName = render.AnswerField(index)
		view.Answer = typed.Answer
	case *model.CheckboxNode:
		view.SelectedName = render.SelectedField(index)
		for _, opt := range typed.Options {
			view.Options = append(view.Options, optionView{Label: opt.Label, Selected: opt.Selected})
		}
		if typed.AllowOther {
			view.AllowOther = true
			view.OtherName = render.OtherField(index)
			view.OtherValue = typed.OtherValue
		}
	}
	return view
}

func buildReviewPage(payload submission.Payload, opts render.RenderOptions, stylesheet, backURL string) reviewPage {
	return reviewPage{
		Title:      defaultString(opts.Title, defaultReviewTitle),
		Stylesheet: stylesheet,
		Theme:      buildTheme(opts.Theme),
		Entries:    payload.Clone().Entries,
		BackURL:    backURL,
	}
}

func buildTheme(cfg *theme.RendererConfig) themeView {
	if cfg == nil {
		return themeView{}
	}
	view := themeView{
		Name:         cfg.Theme,
		Variant:      cfg.Variant,
		CSSVarsStyle: render.CSSVarsStyle(cfg.CSSVars),
	}
	if cfg.AssetURL != nil {
		view.StylesheetURL = cfg.AssetURL(themeStylesheetAsset)
	}
	return view
}

func flattenErrors(errs map[string][]string) []string {
	if len(errs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(errs))
	for key := range errs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var out []string
	for _, key := range keys {
		for _, message := range errs[key] {
			out = append(out, key+" "+message)
		}
	}
	return render.MergeFormErrors(out)
}

func defaultString(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
