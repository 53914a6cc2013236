package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-formbuilder/internal/logging"
	"github.com/goliatone/go-formbuilder/internal/metrics"
	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/openapi"
	"github.com/goliatone/go-formbuilder/pkg/orchestrator"
	"github.com/goliatone/go-formbuilder/pkg/question"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/renderers/vanilla"
	"github.com/goliatone/go-formbuilder/pkg/submission"
)

// Routes served by the handler.
const (
	PathForm        = "/"
	PathQuestions   = "/questions"
	PathAnswers     = "/answers"
	PathReview      = "/review"
	PathSchema      = "/schema.json"
	PathSubmissions = "/api/submissions"
	PathMetrics     = "/metrics"
	PathAssets      = "/assets/"

	missingSubmissionMessage = "Missing submission data"
	pendingReviewNotice      = "A submission is waiting for review"
	staleFormMessage         = "Questions were added since this page loaded. Your answers are saved; check the new questions and submit again."
	maxBodyBytes             = 1 << 20

	// revisionField carries the number of definitions the page was rendered
	// from, so a post from an outdated page can be told apart.
	revisionField = "revision"
)

// Option configures the handler.
type Option func(*Server)

// WithMetrics records session metrics and exposes them at /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRenderer selects the registered renderer used for pages.
func WithRenderer(name string) Option {
	return func(s *Server) {
		s.renderer = name
	}
}

// Server adapts one session to HTTP: the preview with its builder form, the
// submit flow and the review page.
type Server struct {
	session  *orchestrator.Orchestrator
	metrics  *metrics.Metrics
	logger   *slog.Logger
	renderer string
}

// NewHandler creates the HTTP handler for session.
func NewHandler(session *orchestrator.Orchestrator, options ...Option) http.Handler {
	s := &Server{session: session, logger: logging.NewNop()}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get(PathForm, s.showForm)
	r.Post(PathQuestions, s.addQuestion)
	r.Post(PathAnswers, s.saveAnswers)
	r.Get(PathReview, s.showReview)
	r.Get(PathSchema, s.showSchema)
	r.Post(PathSubmissions, s.submitJSON)
	r.Handle(PathAssets+"*", http.StripPrefix(PathAssets, http.FileServerFS(vanilla.AssetsFS())))
	if s.metrics != nil {
		r.Handle(PathMetrics, s.metrics.Handler())
	}
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

func (s *Server) pageOptions() render.RenderOptions {
	return render.RenderOptions{
		Action:        PathAnswers,
		BuilderAction: PathQuestions,
		Hidden:        render.MergeHiddenFields(nil, render.Hidden(revisionField, s.session.Store().Len())),
	}
}

func (s *Server) showForm(w http.ResponseWriter, r *http.Request) {
	opts := s.pageOptions()
	if msg := r.URL.Query().Get("error"); msg != "" {
		opts.FormErrors = render.MergeFormErrors(opts.FormErrors, msg)
	}
	opts.Notice = r.URL.Query().Get("notice")
	if opts.Notice == "" && s.session.Handoff().Pending() {
		opts.Notice = pendingReviewNotice
	}
	s.writePage(w, r, http.StatusOK, opts)
}

func (s *Server) writePage(w http.ResponseWriter, r *http.Request, status int, opts render.RenderOptions) {
	out, err := s.session.Render(r.Context(), orchestrator.Request{Renderer: s.renderer, RenderOptions: opts})
	if err != nil {
		s.fail(w, "render form", err)
		return
	}
	w.Header().Set("Content-Type", s.session.ContentType(s.renderer))
	w.WriteHeader(status)
	_, _ = w.Write(out)
}

func (s *Server) addQuestion(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	draft, err := draftFromForm(r.PostForm)
	if err != nil {
		opts := s.pageOptions()
		opts.BuilderErrors = map[string][]string{"maxSelections": {err.Error()}}
		s.writePage(w, r, http.StatusUnprocessableEntity, opts)
		return
	}
	if _, err := s.session.AddQuestion(draft, nil); err != nil {
		var invalid *builder.DefinitionValidationError
		if errors.As(err, &invalid) {
			opts := s.pageOptions()
			opts.BuilderErrors = invalid.Fields()
			s.writePage(w, r, http.StatusUnprocessableEntity, opts)
			return
		}
		s.fail(w, "add question", err)
		return
	}
	http.Redirect(w, r, PathForm, http.StatusSeeOther)
}

// draftFromForm fills a draft from the builder form. Choices arrive one per
// line or as repeated fields.
func draftFromForm(values url.Values) (*builder.Draft, error) {
	draft := builder.NewDraft(question.ParseType(values.Get("type")))
	draft.SetQuestion(strings.TrimSpace(values.Get("question")))
	draft.SetRequired(values.Get("required") == "true")
	if !draft.HasChoices() {
		return draft, nil
	}

	var choices []string
	for _, raw := range values["choices"] {
		for _, line := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				choices = append(choices, line)
			}
		}
	}
	if len(choices) > 0 {
		if err := draft.SetChoices(choices...); err != nil {
			return nil, err
		}
	}
	if err := draft.SetAllowOther(values.Get("allowOther") == "true"); err != nil {
		return nil, err
	}
	if raw := strings.TrimSpace(values.Get("maxSelections")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return nil, errors.New("must be a non-negative number")
		}
		if err := draft.SetMaxSelections(n); err != nil {
			return nil, err
		}
	}
	return draft, nil
}

func (s *Server) saveAnswers(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	form := s.session.Form()
	answers := render.ParseAnswers(form.Current(), r.PostForm)
	if err := form.Apply(answers); err != nil {
		opts := s.pageOptions()
		opts.FormErrors = []string{err.Error()}
		s.writePage(w, r, http.StatusBadRequest, opts)
		return
	}

	if s.stale(r.PostForm.Get(revisionField)) {
		opts := s.pageOptions()
		opts.FormErrors = []string{staleFormMessage}
		s.writePage(w, r, http.StatusConflict, opts)
		return
	}

	if r.PostForm.Get("action") != "submit" {
		http.Redirect(w, r, PathForm+"?notice="+url.QueryEscape("Answers saved"), http.StatusSeeOther)
		return
	}

	if _, err := s.session.Submit(); err != nil {
		var invalid *submission.ValidationError
		if errors.As(err, &invalid) {
			mapping := render.MapIssues(invalid.Issues)
			opts := s.pageOptions()
			opts.Errors = mapping.Fields
			opts.FormErrors = mapping.Form
			s.writePage(w, r, http.StatusUnprocessableEntity, opts)
			return
		}
		s.fail(w, "submit", err)
		return
	}
	http.Redirect(w, r, PathReview, http.StatusSeeOther)
}

// stale reports whether a posted revision predates the current definitions.
// Posts without one are accepted.
func (s *Server) stale(revision string) bool {
	if revision == "" {
		return false
	}
	current := s.session.Store().Len()
	if revision == strconv.Itoa(current) {
		return false
	}
	s.logger.Info("answers posted from an outdated page", "revision", revision, "current", current)
	return true
}

func (s *Server) showReview(w http.ResponseWriter, r *http.Request) {
	out, err := s.session.Review(r.Context(), orchestrator.Request{
		Renderer:      s.renderer,
		RenderOptions: render.RenderOptions{Action: PathForm},
	})
	var missing *submission.MissingSubmissionError
	if errors.As(err, &missing) {
		s.reviewed(true)
		http.Redirect(w, r, PathForm+"?error="+url.QueryEscape(missingSubmissionMessage), http.StatusSeeOther)
		return
	}
	if err != nil {
		s.fail(w, "render review", err)
		return
	}
	s.reviewed(false)
	w.Header().Set("Content-Type", s.session.ContentType(s.renderer))
	_, _ = w.Write(out)
}

func (s *Server) reviewed(missing bool) {
	if s.metrics != nil {
		s.metrics.Reviewed(missing)
	}
}

func (s *Server) schema() (*openapi.Document, error) {
	return openapi.Build(s.session.Store().Snapshot(),
		openapi.WithTitle(s.session.Title()),
		openapi.WithPath(PathSubmissions),
	)
}

func (s *Server) showSchema(w http.ResponseWriter, _ *http.Request) {
	doc, err := s.schema()
	if err != nil {
		s.fail(w, "build schema", err)
		return
	}
	data, err := doc.JSON()
	if err != nil {
		s.fail(w, "encode schema", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

// errorResponse keys Fields by render.FieldKey, the same keys the HTML pages
// use for per-question errors.
type errorResponse struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields,omitempty"`
	Form   []string            `json:"form,omitempty"`
}

func (s *Server) submitJSON(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	doc, err := s.schema()
	if err != nil {
		s.fail(w, "build schema", err)
		return
	}

	answers, err := doc.DecodeAnswers(body)
	if err != nil {
		var invalid *openapi.ValidationError
		if errors.As(err, &invalid) {
			mapping := schemaErrors(doc, s.session.Form().Current(), invalid)
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
				Error:  invalid.Error(),
				Fields: mapping.Fields,
				Form:   mapping.Form,
			})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := s.session.Form().Apply(answers); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	payload, err := s.session.Submit()
	if err != nil {
		var invalid *submission.ValidationError
		if errors.As(err, &invalid) {
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
				Error:  invalid.Error(),
				Fields: render.MapIssues(invalid.Issues).Fields,
			})
			return
		}
		s.fail(w, "submit", err)
		return
	}
	writeJSON(w, http.StatusCreated, payload)
}

// schemaErrors moves schema violations onto question keys. Answer keys are
// rewritten by position first so definitions without an ID resolve too;
// violations of the object as a whole stay form-level.
func schemaErrors(doc *openapi.Document, form model.FormModel, invalid *openapi.ValidationError) render.ErrorMapping {
	keys := doc.Keys()
	fields := invalid.Fields()
	payload := make(map[string][]string, len(fields))
	for key, messages := range fields {
		if i := slices.Index(keys, key); i >= 0 && key != "" {
			key = render.FieldKey(i)
		}
		payload[key] = append(payload[key], messages...)
	}
	return render.MapErrorPayload(form, payload)
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	s.logger.Error("request failed", "op", op, "error", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
