package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterMetricsAndRecordersAreSafe(t *testing.T) {
	RegisterMetrics()
	RegisterMetrics()

	RecordHTTPRequest("slimvfd", "GET", "/health", 200, 12*time.Millisecond)
	RecordDatagramReceived("display_update")
	RecordAnomaly("unknown_prefix")
	RecordDisplayTokens(0, 0)

	t.Logf("observability/metrics: registration idempotent and recording paths executed")
}

func TestDatagramSentResultLabel(t *testing.T) {
	before := testutil.ToFloat64(datagramsSent.WithLabelValues("hello", "host", "error"))
	RecordDatagramSent("hello", "host", errors.New("boom"))
	RecordDatagramSent("hello", "host", nil)
	after := testutil.ToFloat64(datagramsSent.WithLabelValues("hello", "host", "error"))
	if after-before != 1 {
		t.Fatalf("expected one error sample, got %v", after-before)
	}
}

func TestSessionConnectedGauge(t *testing.T) {
	RecordSessionTransition("connected", true)
	if v := testutil.ToFloat64(sessionConnected); v != 1 {
		t.Fatalf("gauge=%v after connect", v)
	}
	RecordSessionTransition("searching", false)
	if v := testutil.ToFloat64(sessionConnected); v != 0 {
		t.Fatalf("gauge=%v after search", v)
	}
}
