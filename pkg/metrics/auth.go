package metrics

import "github.com/prometheus/client_golang/prometheus"

// Auth event names.
const (
	AuthEventSignup  = "signup"
	AuthEventLogin   = "login"
	AuthEventResolve = "resolve"
)

// Auth outcomes.
const (
	AuthOutcomeSuccess  = "success"
	AuthOutcomeRejected = "rejected"
	AuthOutcomeError    = "error"
)

// AuthMetrics counts signup, login and token resolution outcomes.
type AuthMetrics struct {
	events       *prometheus.CounterVec
	tokensIssued prometheus.Counter
}

// NewAuthMetrics registers the auth counters on the provided registerer.
func NewAuthMetrics(reg prometheus.Registerer) *AuthMetrics {
	if reg == nil {
		return &AuthMetrics{}
	}
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_events_total",
		Help:      "Authentication events by outcome.",
	}, []string{"event", "outcome"})
	tokensIssued := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_tokens_issued_total",
		Help:      "Access tokens minted.",
	})
	reg.MustRegister(events, tokensIssued)
	return &AuthMetrics{events: events, tokensIssued: tokensIssued}
}

// RecordEvent increments the counter for event/outcome.
func (m *AuthMetrics) RecordEvent(event, outcome string) {
	if m == nil || m.events == nil {
		return
	}
	m.events.WithLabelValues(normalizeLabel(event), normalizeLabel(outcome)).Inc()
}

// IncTokensIssued counts a minted access token.
func (m *AuthMetrics) IncTokensIssued() {
	if m == nil || m.tokensIssued == nil {
		return
	}
	m.tokensIssued.Inc()
}
