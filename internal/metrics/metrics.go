package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hyakuninquiz/internal/quiz"
)

// Collector groups the quiz metrics on a private registry.
type Collector struct {
	registry *prometheus.Registry

	questions      *prometheus.CounterVec
	failures       *prometheus.CounterVec
	answers        *prometheus.CounterVec
	activeSessions prometheus.Gauge
}

// New creates a collector with Go runtime and process metrics registered.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		questions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quiz",
			Name:      "questions_generated_total",
			Help:      "Questions generated, by mode.",
		}, []string{"mode"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quiz",
			Name:      "generation_failures_total",
			Help:      "Failed question requests, by mode and reason.",
		}, []string{"mode", "reason"}),
		answers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quiz",
			Name:      "answers_total",
			Help:      "Scored answers, by mode and result.",
		}, []string{"mode", "result"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quiz",
			Name:      "active_sessions",
			Help:      "Game sessions currently held in memory.",
		}),
	}

	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.questions,
		c.failures,
		c.answers,
		c.activeSessions,
	)
	return c
}

// QuestionGenerated counts a successful question.
func (c *Collector) QuestionGenerated(mode string) {
	c.questions.WithLabelValues(mode).Inc()
}

// GenerationFailed counts a failed question request.
func (c *Collector) GenerationFailed(mode string, err error) {
	c.failures.WithLabelValues(mode, FailureReason(err)).Inc()
}

// AnswerRecorded counts an answer that changed the score.
func (c *Collector) AnswerRecorded(mode string, correct bool) {
	result := "incorrect"
	if correct {
		result = "correct"
	}
	c.answers.WithLabelValues(mode, result).Inc()
}

// SetActiveSessions reports the current session count.
func (c *Collector) SetActiveSessions(n int) {
	c.activeSessions.Set(float64(n))
}

// Registry exposes the underlying registry, mainly for tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// FailureReason maps a generation error to a low-cardinality label.
func FailureReason(err error) string {
	switch {
	case errors.Is(err, quiz.ErrInsufficientCorpus):
		return "insufficient_corpus"
	case errors.Is(err, quiz.ErrInvalidMode):
		return "invalid_mode"
	case errors.Is(err, quiz.ErrQuestionGenerationFailed):
		return "generation_failed"
	default:
		return "other"
	}
}
