package prometheus

import (
	"testing"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsExporterCounters(t *testing.T) {
	reg := prom.NewRegistry()
	m, err := NewMetricsExporter("taskpool", reg)
	if err != nil {
		t.Fatalf("NewMetricsExporter failed: %v", err)
	}

	m.IncSubmitted()
	m.IncSubmitted()
	m.IncExecuted()
	m.IncFailed()
	m.IncStolen()
	m.AddQueued(3)
	m.AddQueued(-1)

	if got := testutil.ToFloat64(m.submittedTotal); got != 2 {
		t.Fatalf("submitted = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.executedTotal); got != 1 {
		t.Fatalf("executed = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.failedTotal); got != 1 {
		t.Fatalf("failed = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.stolenTotal); got != 1 {
		t.Fatalf("stolen = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.queueDepth); got != 2 {
		t.Fatalf("queue depth = %v, want 2", got)
	}
}

func TestMetricsExporterAlreadyRegisteredReuse(t *testing.T) {
	reg := prom.NewRegistry()
	first, err := NewMetricsExporter("taskpool", reg)
	if err != nil {
		t.Fatalf("first NewMetricsExporter failed: %v", err)
	}
	second, err := NewMetricsExporter("taskpool", reg)
	if err != nil {
		t.Fatalf("second NewMetricsExporter failed: %v", err)
	}

	first.IncSubmitted()
	second.IncSubmitted()

	if got := testutil.ToFloat64(second.submittedTotal); got != 2 {
		t.Fatalf("submitted = %v, want 2 (collectors not shared)", got)
	}
}
