package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/question"
	"github.com/goliatone/go-formbuilder/pkg/submission"
)

// Metrics holds the session collectors. Each instance owns its registry so
// sessions and tests never collide on registration.
type Metrics struct {
	registry    *prometheus.Registry
	questions   *prometheus.CounterVec
	rebuilds    prometheus.Counter
	nodes       prometheus.Gauge
	submissions *prometheus.CounterVec
	reviews     *prometheus.CounterVec
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		questions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "formbuilder_questions_added_total",
			Help: "Questions appended to the form, by type.",
		}, []string{"type"}),
		rebuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "formbuilder_model_rebuilds_total",
			Help: "Form model rebuilds triggered by definition changes.",
		}),
		nodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "formbuilder_model_nodes",
			Help: "Questions in the live form model.",
		}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "formbuilder_submissions_total",
			Help: "Submission attempts, by outcome.",
		}, []string{"outcome"}),
		reviews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "formbuilder_reviews_total",
			Help: "Review page visits, by outcome.",
		}, []string{"outcome"}),
	}
	m.registry.MustRegister(m.questions, m.rebuilds, m.nodes, m.submissions, m.reviews)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the collectors in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// QuestionAdded counts an appended question.
func (m *Metrics) QuestionAdded(questionType string) {
	m.questions.WithLabelValues(questionType).Inc()
}

// ObserveDefinitions returns a store observer counting every definition it
// has not seen before. Lists only ever grow, so the new ones are the tail.
func (m *Metrics) ObserveDefinitions() func([]question.Definition) {
	var (
		mu   sync.Mutex
		seen int
	)
	return func(defs []question.Definition) {
		mu.Lock()
		defer mu.Unlock()
		for _, def := range defs[min(seen, len(defs)):] {
			m.QuestionAdded(string(def.Type))
		}
		seen = max(seen, len(defs))
	}
}

// Rebuilt records a model rebuild. It has the shape of a synthesizer
// rebuild listener.
func (m *Metrics) Rebuilt(form model.FormModel) {
	m.rebuilds.Inc()
	m.nodes.Set(float64(form.Len()))
}

// Accepted implements submission.Hook.
func (m *Metrics) Accepted(submission.Payload) {
	m.submissions.WithLabelValues("accepted").Inc()
}

// Rejected implements submission.Hook.
func (m *Metrics) Rejected(*submission.ValidationError) {
	m.submissions.WithLabelValues("rejected").Inc()
}

// Reviewed counts a review visit; missing is true when no submission was
// pending.
func (m *Metrics) Reviewed(missing bool) {
	outcome := "shown"
	if missing {
		outcome = "missing"
	}
	m.reviews.WithLabelValues(outcome).Inc()
}

var _ submission.Hook = (*Metrics)(nil)
