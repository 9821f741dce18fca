package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestModerationMetricsExportsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewModerationMetrics(reg)

	m.IncSubmission("company", "submitted")
	m.IncDecision("company", "approved")
	m.IncDecision("company", "approved")
	m.IncConflict("certification", "CONFLICT")
	m.SetBacklog("certification", 7)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "myprofile_moderation_decisions_total", "entity_type", "company"); err != nil {
		t.Fatalf("fetch decisions: %v", err)
	} else if got != 2 {
		t.Fatalf("expected decisions=2, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "myprofile_moderation_submissions_total", "kind", "submitted"); err != nil {
		t.Fatalf("fetch submissions: %v", err)
	} else if got != 1 {
		t.Fatalf("expected submissions=1, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "myprofile_moderation_conflicts_total", "code", "CONFLICT"); err != nil {
		t.Fatalf("fetch conflicts: %v", err)
	} else if got != 1 {
		t.Fatalf("expected conflicts=1, got %f", got)
	}
	if got, err := fetchGaugeValue(mfs, "myprofile_moderation_pending_backlog", "entity_type", "certification"); err != nil {
		t.Fatalf("fetch backlog: %v", err)
	} else if got != 7 {
		t.Fatalf("expected backlog=7, got %f", got)
	}
}

func TestNilModerationMetricsAreNoop(t *testing.T) {
	var m *ModerationMetrics
	m.IncSubmission("company", "submitted")
	m.IncDecision("company", "approved")
	m.IncConflict("company", "CONFLICT")
	m.SetBacklog("company", 1)

	NewModerationMetrics(nil).IncDecision("company", "rejected")
}
