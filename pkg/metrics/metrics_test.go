package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Transitions(t *testing.T) {
	m := NewWithRegistry("parking-test", prometheus.NewRegistry())

	m.SetOccupied(1)
	m.RecordCheckIn()
	m.RecordCheckIn()
	m.RecordCheckOut(12, 50)
	m.RecordRejected("checkin", "invalid_transition")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.slotsOccupied.WithLabelValues("parking-test")))
	assert.Equal(t, 2.0, testutil.ToFloat64(
		m.slotTransitionsTotal.WithLabelValues("parking-test", "checkin", ResultSuccess, "")))
	assert.Equal(t, 1.0, testutil.ToFloat64(
		m.slotTransitionsTotal.WithLabelValues("parking-test", "checkout", ResultSuccess, "")))
	assert.Equal(t, 1.0, testutil.ToFloat64(
		m.slotTransitionsTotal.WithLabelValues("parking-test", "checkin", ResultRejected, "invalid_transition")))
}

func TestMetrics_HTTP(t *testing.T) {
	m := NewWithRegistry("parking-test", prometheus.NewRegistry())

	m.ObserveHTTPRequest("GET", "/api/status", 200, 3*time.Millisecond)
	m.ObserveHTTPRequest("GET", "/api/status", 200, 5*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(
		m.httpRequestsTotal.WithLabelValues("parking-test", "GET", "/api/status", "200")))
}

func TestMetrics_DBPool(t *testing.T) {
	m := NewWithRegistry("parking-test", prometheus.NewRegistry())

	m.SetDBPoolStats(5, 2, 3)

	assert.Equal(t, 5.0, testutil.ToFloat64(m.dbOpenConnections.WithLabelValues("parking-test")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.dbInUseConnections.WithLabelValues("parking-test")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.dbIdleConnections.WithLabelValues("parking-test")))
}
