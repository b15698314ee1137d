package metrics

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewHTTPMetricsNilRegisterer(t *testing.T) {
	m := NewHTTPMetrics(nil)
	// must not panic on a no-op instance
	m.Observe(http.MethodGet, "/healthz", http.StatusOK, time.Millisecond)
}

func TestObserveRecords(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.Observe(http.MethodPost, "/api/orders", http.StatusCreated, 25*time.Millisecond)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(families) == 0 {
		t.Fatal("expected registered metric families")
	}
}
