package middleware

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/vango-dev/hashnav/pkg/hashroute"
)

func metricCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	if m.Counter == nil {
		t.Fatal("expected counter metric to have Counter field")
	}
	return m.GetCounter().GetValue()
}

func metricGaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("gauge Write() error: %v", err)
	}
	if m.Gauge == nil {
		t.Fatal("expected gauge metric to have Gauge field")
	}
	return m.GetGauge().GetValue()
}

func metricHistogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	metric, ok := o.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer %T does not implement prometheus.Metric", o)
	}
	var m dto.Metric
	if err := metric.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	if m.Histogram == nil {
		t.Fatal("expected histogram metric to have Histogram field")
	}
	return m.GetHistogram().GetSampleCount()
}

func TestPrometheusObservesNavigator(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := Prometheus(WithRegistry(reg), WithNamespace("test"))

	loc := hashroute.NewMemoryLocation("p/flag&a=1&a=2&b=%ZZ")
	nav := hashroute.NewNavigator(loc, hashroute.WithObserver(m))
	nav.ChangePage("q")

	if got := metricCounterValue(t, m.reads); got != 1 {
		t.Errorf("reads = %v, want 1", got)
	}
	if got := metricCounterValue(t, m.writes); got != 1 {
		t.Errorf("writes = %v, want 1", got)
	}
	if got := metricCounterValue(t, m.dropped); got != 1 {
		t.Errorf("dropped = %v, want 1", got)
	}
	if got := metricCounterValue(t, m.fallbacks); got != 1 {
		t.Errorf("fallbacks = %v, want 1", got)
	}
	if got := metricCounterValue(t, m.duplicates); got != 1 {
		t.Errorf("duplicates = %v, want 1", got)
	}
	if got := metricHistogramCount(t, m.opDuration.WithLabelValues("read")); got != 1 {
		t.Errorf("read duration samples = %d, want 1", got)
	}
	if got := metricHistogramCount(t, m.fragmentBytes); got != 2 {
		t.Errorf("fragment size samples = %d, want 2", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "test_reads_total" {
			found = true
		}
	}
	if !found {
		t.Error("test_reads_total not registered under custom namespace")
	}
}

func TestPrometheusBridgeAndLinkMetrics(t *testing.T) {
	m := Prometheus(WithRegistry(prometheus.NewRegistry()))

	m.SessionOpened()
	m.SessionOpened()
	m.SessionClosed()
	if got := metricGaugeValue(t, m.sessions); got != 1 {
		t.Errorf("sessions = %v, want 1", got)
	}

	m.BridgeMessage("in")
	m.BridgeMessage("out")
	m.BridgeMessage("out")
	if got := metricCounterValue(t, m.bridgeMessages.WithLabelValues("out")); got != 2 {
		t.Errorf("outbound messages = %v, want 2", got)
	}

	m.BridgeError("decode")
	if got := metricCounterValue(t, m.bridgeErrors.WithLabelValues("decode")); got != 1 {
		t.Errorf("decode errors = %v, want 1", got)
	}

	m.LinkOp("save", nil)
	m.LinkOp("load", errors.New("link not found"))
	if got := metricCounterValue(t, m.linkOps.WithLabelValues("save", "success")); got != 1 {
		t.Errorf("save successes = %v, want 1", got)
	}
	if got := metricCounterValue(t, m.linkErrors.WithLabelValues("load", "not_found")); got != 1 {
		t.Errorf("load not_found errors = %v, want 1", got)
	}
}

func TestCategorizeError(t *testing.T) {
	tests := []struct {
		err  string
		want string
	}{
		{"context deadline exceeded", "timeout"},
		{"i/o timeout", "timeout"},
		{"NoSuchKey: the key does not exist", "not_found"},
		{"invalid link id", "validation"},
		{"AccessDenied", "forbidden"},
		{"context canceled", "canceled"},
		{"disk full", "internal"},
	}
	for _, tt := range tests {
		if got := categorizeError(errors.New(tt.err)); got != tt.want {
			t.Errorf("categorizeError(%q) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
