package metrics

import "github.com/prometheus/client_golang/prometheus"

// ModerationMetrics tracks review traffic per entity type.
type ModerationMetrics struct {
	submissions *prometheus.CounterVec
	decisions   *prometheus.CounterVec
	conflicts   *prometheus.CounterVec
	backlog     *prometheus.GaugeVec
}

// NewModerationMetrics registers the moderation metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewModerationMetrics(reg prometheus.Registerer) *ModerationMetrics {
	if reg == nil {
		return &ModerationMetrics{}
	}
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "moderation",
		Name:      "submissions_total",
		Help:      "Records entering review, by entity type and kind (submitted, resubmitted).",
	}, []string{"entity_type", "kind"})
	decisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "moderation",
		Name:      "decisions_total",
		Help:      "Admin decisions, by entity type and outcome.",
	}, []string{"entity_type", "decision"})
	conflicts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "moderation",
		Name:      "conflicts_total",
		Help:      "Rejected operations caused by concurrent writes or workflow rules.",
	}, []string{"entity_type", "code"})
	backlog := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "moderation",
		Name:      "pending_backlog",
		Help:      "Records waiting for review, sampled by the cron worker.",
	}, []string{"entity_type"})
	reg.MustRegister(submissions, decisions, conflicts, backlog)
	return &ModerationMetrics{
		submissions: submissions,
		decisions:   decisions,
		conflicts:   conflicts,
		backlog:     backlog,
	}
}

// IncSubmission counts a record entering (or re-entering) review.
func (m *ModerationMetrics) IncSubmission(entityType, kind string) {
	if m == nil || m.submissions == nil {
		return
	}
	m.submissions.WithLabelValues(normalizeLabel(entityType), normalizeLabel(kind)).Inc()
}

// IncDecision counts an approve or reject.
func (m *ModerationMetrics) IncDecision(entityType, decision string) {
	if m == nil || m.decisions == nil {
		return
	}
	m.decisions.WithLabelValues(normalizeLabel(entityType), normalizeLabel(decision)).Inc()
}

// IncConflict counts an operation refused with the given error code.
func (m *ModerationMetrics) IncConflict(entityType, code string) {
	if m == nil || m.conflicts == nil {
		return
	}
	m.conflicts.WithLabelValues(normalizeLabel(entityType), normalizeLabel(code)).Inc()
}

// SetBacklog records the pending count for one entity type.
func (m *ModerationMetrics) SetBacklog(entityType string, pending int64) {
	if m == nil || m.backlog == nil {
		return
	}
	m.backlog.WithLabelValues(normalizeLabel(entityType)).Set(float64(pending))
}
