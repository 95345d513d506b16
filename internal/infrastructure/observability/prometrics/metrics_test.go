package prometrics

import (
	"testing"

	"github.com/Zhima-Mochi/minishop-menu/internal/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounterRegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New("", "", reg)

	c1 := r.Counter("cart_test_total", "help", "command")
	c2 := r.Counter("cart_test_total", "help", "command")

	c1.Add(1, observability.L("command", "add"))
	c2.Add(2, observability.L("command", "add"))
	c1.Bind(observability.L("command", "clear")).Add(1)

	vec, ok := r.(*registry).counters.Load("cart_test_total")
	if !ok {
		t.Fatal("counter vector not stored")
	}
	cv := vec.(*prometheus.CounterVec)
	if got := testutil.ToFloat64(cv.WithLabelValues("add")); got != 3 {
		t.Fatalf("expected 3, got %v", got)
	}
	if got := testutil.ToFloat64(cv.WithLabelValues("clear")); got != 1 {
		t.Fatalf("expected 1, got %v", got)
	}
}

func TestStandardInstruments(t *testing.T) {
	reg := prometheus.NewRegistry()
	counters, histograms := Standard(New("", "", reg))

	for _, key := range []observability.MetricKey{
		observability.MUsecaseRequests,
		observability.MHTTPRequests,
		observability.MExternalRequests,
		observability.MCartMutations,
		observability.MCartPersistFailures,
	} {
		if counters[key] == nil {
			t.Fatalf("missing counter %s", key)
		}
	}
	for _, key := range []observability.MetricKey{
		observability.MUsecaseDuration,
		observability.MHTTPRequestDuration,
		observability.MExternalRequestDuration,
	} {
		if histograms[key] == nil {
			t.Fatalf("missing histogram %s", key)
		}
	}

	counters[observability.MCartPersistFailures].Add(1, observability.L("backend", "file"))
	histograms[observability.MUsecaseDuration].Observe(0.01, observability.L("use_case", "cart.add"))

	if n, err := testutil.GatherAndCount(reg, "cart_persist_failures_total"); err != nil || n != 1 {
		t.Fatalf("expected one persist failure series, got %d (%v)", n, err)
	}
}
