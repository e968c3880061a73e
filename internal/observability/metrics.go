package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "slimvfd"

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total admin HTTP requests.",
		},
		[]string{"node", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Admin HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "path", "status"},
	)
	datagramsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "udp",
			Name:      "datagrams_sent_total",
			Help:      "Client datagrams sent to the server.",
		},
		[]string{"type", "destination", "result"},
	)
	datagramsReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "udp",
			Name:      "datagrams_received_total",
			Help:      "Server datagrams received, by message type.",
		},
		[]string{"type"},
	)
	protocolAnomalies = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "protocol",
			Name:      "anomalies_total",
			Help:      "Malformed or unrecognized protocol input.",
		},
		[]string{"kind"},
	)
	sessionTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "transitions_total",
			Help:      "Session state transitions, by target state.",
		},
		[]string{"to"},
	)
	sessionConnected = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "connected",
			Help:      "1 while a server is pinned and alive.",
		},
	)
	displayTokens = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "display",
			Name:      "tokens_total",
			Help:      "Display-update tokens interpreted, by kind.",
		},
		[]string{"kind"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequests,
			httpDuration,
			datagramsSent,
			datagramsReceived,
			protocolAnomalies,
			sessionTransitions,
			sessionConnected,
			displayTokens,
		)
	})
}

func RecordHTTPRequest(node, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(node, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(node, method, path, statusLabel).Observe(duration.Seconds())
}

func RecordDatagramSent(msgType, destination string, err error) {
	RegisterMetrics()
	result := "ok"
	if err != nil {
		result = "error"
	}
	datagramsSent.WithLabelValues(msgType, destination, result).Inc()
}

func RecordDatagramReceived(msgType string) {
	RegisterMetrics()
	datagramsReceived.WithLabelValues(msgType).Inc()
}

func RecordAnomaly(kind string) {
	RegisterMetrics()
	protocolAnomalies.WithLabelValues(kind).Inc()
}

func RecordSessionTransition(to string, connected bool) {
	RegisterMetrics()
	sessionTransitions.WithLabelValues(to).Inc()
	if connected {
		sessionConnected.Set(1)
	} else {
		sessionConnected.Set(0)
	}
}

func RecordDisplayTokens(commands, data int) {
	RegisterMetrics()
	if commands > 0 {
		displayTokens.WithLabelValues("command").Add(float64(commands))
	}
	if data > 0 {
		displayTokens.WithLabelValues("data").Add(float64(data))
	}
}
