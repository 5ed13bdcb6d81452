package observability

import (
	"testing"
	"time"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/api/tickets", "GET", 200, time.Millisecond)
	m.RecordRequest("/api/tickets", "GET", 200, time.Millisecond)
	m.RecordRequest("/api/tickets", "POST", 201, time.Millisecond)
	m.RecordError("/api/tickets", "POST", "VALIDATION_FAILED")

	requests, errors := m.Totals()
	if requests["/api/tickets|GET|200"] != 2 {
		t.Errorf("GET 200 count = %d, want 2", requests["/api/tickets|GET|200"])
	}
	if requests["/api/tickets|POST|201"] != 1 {
		t.Errorf("POST 201 count = %d, want 1", requests["/api/tickets|POST|201"])
	}
	if errors["/api/tickets|POST|VALIDATION_FAILED"] != 1 {
		t.Errorf("error count = %d, want 1", errors["/api/tickets|POST|VALIDATION_FAILED"])
	}
}

func TestMetricsTotalsReturnsCopies(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/x", "GET", 200, 0)

	requests, _ := m.Totals()
	requests["/x|GET|200"] = 99

	fresh, _ := m.Totals()
	if fresh["/x|GET|200"] != 1 {
		t.Errorf("Totals must return a copy, counter mutated to %d", fresh["/x|GET|200"])
	}
}

func TestMetricsNilReceiverSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/x", "GET", 200, 0)
	m.RecordError("/x", "GET", "INTERNAL_ERROR")
	requests, errors := m.Totals()
	if len(requests) != 0 || len(errors) != 0 {
		t.Errorf("nil metrics reported counters: %v %v", requests, errors)
	}
}
