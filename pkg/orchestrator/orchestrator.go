package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/question"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/renderers/vanilla"
	"github.com/goliatone/go-formbuilder/pkg/store"
	"github.com/goliatone/go-formbuilder/pkg/submission"
)

const defaultRendererName = "vanilla"

// ErrClosed is returned by operations on a closed orchestrator.
var ErrClosed = errors.New("orchestrator: session closed")

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithStore injects the definition store.
func WithStore(s *store.Store) Option {
	return func(o *Orchestrator) {
		o.store = s
	}
}

// WithModelBuilder injects a custom form model builder.
func WithModelBuilder(b model.Builder) Option {
	return func(o *Orchestrator) {
		o.modelBuilder = b
	}
}

// WithRestoreKey selects how values survive a rebuild.
func WithRestoreKey(key model.RestoreKey) Option {
	return func(o *Orchestrator) {
		o.restoreKey = key
	}
}

// WithBuilderOptions forwards options to the definition builder.
func WithBuilderOptions(options ...builder.Option) Option {
	return func(o *Orchestrator) {
		o.builderOptions = append(o.builderOptions, options...)
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithTransformer registers a Transformer applied to the model copy handed to
// renderers.
func WithTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithSubmissionHook observes accepted and rejected submissions.
func WithSubmissionHook(hook submission.Hook) Option {
	return func(o *Orchestrator) {
		o.hook = hook
	}
}

// WithThemeSelector resolves name and variant into the theme passed to
// renderers when a request does not carry one.
func WithThemeSelector(selector render.ThemeSelector, name, variant string) Option {
	return func(o *Orchestrator) {
		o.themeSelector = selector
		o.themeName = name
		o.themeVariant = variant
	}
}

// WithThemeFallbacks supplies partials used when the theme omits them.
func WithThemeFallbacks(fallbacks map[string]string) Option {
	return func(o *Orchestrator) {
		o.themeFallbacks = fallbacks
	}
}

// WithTitle sets the title used when a request leaves it empty.
func WithTitle(title string) Option {
	return func(o *Orchestrator) {
		o.title = title
	}
}

// WithLogger attaches a structured logger shared by every component the
// orchestrator creates.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Orchestrator is one form-building session. Construct it with New and tear
// it down with Close; nothing is shared between sessions.
type Orchestrator struct {
	mu         sync.Mutex
	closed     bool
	unbind     func()
	closeHooks []func()

	store          *store.Store
	modelBuilder   model.Builder
	restoreKey     model.RestoreKey
	synth          *model.Synthesizer
	builder        *builder.Builder
	builderOptions []builder.Option
	handoff        *submission.Handoff
	transfer       *submission.Transfer
	hook           submission.Hook

	registry        *render.Registry
	defaultRenderer string
	transformer     Transformer
	initialiseErr   error

	themeSelector  render.ThemeSelector
	themeName      string
	themeVariant   string
	themeFallbacks map[string]string
	title          string

	logger *slog.Logger
}

// New constructs an Orchestrator applying any provided options. The
// synthesizer is bound to the store before New returns, so the live form
// already reflects any definitions the store holds.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

func (o *Orchestrator) applyDefaults() {
	if o.store == nil {
		o.store = store.New(store.WithLogger(o.logger))
	}
	if o.modelBuilder == nil {
		o.modelBuilder = model.NewBuilder()
	}
	o.synth = model.NewSynthesizer(
		model.WithBuilder(o.modelBuilder),
		model.WithRestoreKey(o.restoreKey),
		model.WithLogger(o.logger),
	)
	o.unbind = o.synth.Bind(o.store)

	builderOptions := append([]builder.Option{builder.WithLogger(o.logger)}, o.builderOptions...)
	o.builder = builder.New(o.store, builderOptions...)

	o.handoff = submission.NewHandoff()
	transferOptions := []submission.TransferOption{submission.WithLogger(o.logger)}
	if o.hook != nil {
		transferOptions = append(transferOptions, submission.WithHook(o.hook))
	}
	o.transfer = submission.NewTransfer(o.synth, o.handoff, transferOptions...)

	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := vanilla.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.registry.MustRegister(renderer)
		}
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
}

// Store returns the definition store.
func (o *Orchestrator) Store() *store.Store { return o.store }

// Form returns the synthesizer holding the live form model.
func (o *Orchestrator) Form() *model.Synthesizer { return o.synth }

// Builder returns the definition builder appending into the store.
func (o *Orchestrator) Builder() *builder.Builder { return o.builder }

// Handoff returns the one-shot channel between submit and review.
func (o *Orchestrator) Handoff() *submission.Handoff { return o.handoff }

// Registry returns the renderer registry.
func (o *Orchestrator) Registry() *render.Registry { return o.registry }

// Title returns the configured session title.
func (o *Orchestrator) Title() string { return o.title }

// Load appends every definition in order. It stops at the first rejected
// definition; the ones before it stay appended.
func (o *Orchestrator) Load(defs ...question.Definition) error {
	if err := o.checkOpen(); err != nil {
		return err
	}
	for i, def := range defs {
		if _, err := o.store.AppendDefinition(def); err != nil {
			return fmt.Errorf("orchestrator: load definition %d: %w", i, err)
		}
	}
	return nil
}

// LoadDocument appends the document's questions and adopts its title when
// none is configured.
func (o *Orchestrator) LoadDocument(doc question.Document) error {
	if err := o.Load(doc.Questions...); err != nil {
		return err
	}
	if o.title == "" {
		o.title = doc.Title
	}
	return nil
}

// AddQuestion finalises the draft through the builder and closes surface on
// success.
func (o *Orchestrator) AddQuestion(d *builder.Draft, surface builder.Surface) (question.Definition, error) {
	if err := o.checkOpen(); err != nil {
		return question.Definition{}, err
	}
	return o.builder.Submit(d, surface)
}

// Submit validates the live form and hands a payload to the review.
func (o *Orchestrator) Submit() (submission.Payload, error) {
	if err := o.checkOpen(); err != nil {
		return submission.Payload{}, err
	}
	return o.transfer.Submit()
}

// Request describes a single render.
type Request struct {
	// Renderer names the renderer to use. If empty, the orchestrator falls back
	// to the configured default renderer.
	Renderer string

	// RenderOptions carries per-request values such as validation errors.
	RenderOptions render.RenderOptions
}

// Render renders the live form with the requested renderer.
func (o *Orchestrator) Render(ctx context.Context, req Request) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := o.checkOpen(); err != nil {
		return nil, err
	}
	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	form := o.synth.Current()
	if o.transformer != nil {
		if err := o.transformer.Transform(ctx, &form); err != nil {
			return nil, fmt.Errorf("orchestrator: transform form: %w", err)
		}
	}
	opts, err := o.prepareOptions(req.RenderOptions)
	if err != nil {
		return nil, err
	}
	output, err := renderer.Render(ctx, form, opts)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// RenderReview renders payload with the requested renderer's review view.
func (o *Orchestrator) RenderReview(ctx context.Context, payload submission.Payload, req Request) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := o.checkOpen(); err != nil {
		return nil, err
	}
	if err := o.ready(); err != nil {
		return nil, err
	}
	reviewer, err := o.registry.Reviewer(o.rendererName(req.Renderer))
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	opts, err := o.prepareOptions(req.RenderOptions)
	if err != nil {
		return nil, err
	}
	output, err := reviewer.RenderReview(ctx, payload, opts)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render review: %w", err)
	}
	return output, nil
}

// Review takes the pending submission and renders it. Without one it returns
// *submission.MissingSubmissionError. A closed session leaves the pending
// submission untouched.
func (o *Orchestrator) Review(ctx context.Context, req Request) ([]byte, error) {
	if err := o.checkOpen(); err != nil {
		return nil, err
	}
	payload, err := o.handoff.Take()
	if err != nil {
		o.logger.Warn("review requested without a submission")
		return nil, err
	}
	return o.RenderReview(ctx, payload, req)
}

// ContentType reports the content type of the named renderer.
func (o *Orchestrator) ContentType(name string) string {
	renderer, err := o.rendererFor(name)
	if err != nil {
		return ""
	}
	return renderer.ContentType()
}

// OnClose registers fn to run when the session closes, typically the
// unsubscribe func of an observer attached to the store or the form. Hooks run
// in reverse registration order. On a closed session fn runs immediately.
func (o *Orchestrator) OnClose(fn func()) {
	if fn == nil {
		return
	}
	o.mu.Lock()
	if !o.closed {
		o.closeHooks = append(o.closeHooks, fn)
		o.mu.Unlock()
		return
	}
	o.mu.Unlock()
	fn()
}

// Close unbinds the synthesizer from the store and runs the OnClose hooks.
// Later loads, submissions, renders and reviews fail with ErrClosed. Close is
// idempotent.
func (o *Orchestrator) Close() error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return nil
	}
	o.closed = true
	unbind, hooks := o.unbind, o.closeHooks
	o.unbind, o.closeHooks = nil, nil
	o.mu.Unlock()

	if unbind != nil {
		unbind()
	}
	for i := len(hooks) - 1; i >= 0; i-- {
		hooks[i]()
	}
	if o.handoff.Pending() {
		o.logger.Warn("session closed with an unreviewed submission")
	}
	return nil
}

func (o *Orchestrator) checkOpen() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return ErrClosed
	}
	return nil
}

func (o *Orchestrator) ready() error {
	if o.initialiseErr != nil {
		return o.initialiseErr
	}
	if o.registry == nil {
		return errors.New("orchestrator: renderer registry is nil")
	}
	return nil
}

// rendererName falls back to the default renderer, then to the registry's
// first registration when the default is not registered.
func (o *Orchestrator) rendererName(name string) string {
	if name != "" {
		return name
	}
	if o.registry.Has(o.defaultRenderer) {
		return o.defaultRenderer
	}
	return ""
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if err := o.ready(); err != nil {
		return nil, err
	}
	renderer, err := o.registry.Resolve(o.rendererName(name))
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	return renderer, nil
}

func (o *Orchestrator) prepareOptions(opts render.RenderOptions) (render.RenderOptions, error) {
	if opts.Title == "" {
		opts.Title = o.title
	}
	if opts.Theme == nil && o.themeSelector != nil {
		sel, err := o.themeSelector.Select(o.themeName, o.themeVariant)
		if err != nil {
			return opts, fmt.Errorf("orchestrator: select theme: %w", err)
		}
		opts.Theme = render.ThemeConfig(sel, o.themeFallbacks)
	}
	return opts, nil
}
