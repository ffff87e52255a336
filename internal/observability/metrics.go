package observability

import (
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/danmuck/cigi/internal/protocol/session"
	"github.com/danmuck/cigi/internal/transport"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cigi",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"role", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cigi",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"role", "method", "path", "status"},
	)
	recordsWritten = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cigi",
			Subsystem: "session",
			Name:      "records_written_total",
			Help:      "Records queued for sending.",
		},
		[]string{"role", "tag"},
	)
	recordsFlushed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cigi",
			Subsystem: "session",
			Name:      "records_flushed_total",
			Help:      "Records handed to the transport by flush.",
		},
		[]string{"role"},
	)
	datagramSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cigi",
			Subsystem: "session",
			Name:      "datagram_bytes",
			Help:      "Size of received datagrams.",
			Buckets:   prometheus.ExponentialBuckets(8, 2, 9),
		},
		[]string{"role"},
	)
	recordsReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cigi",
			Subsystem: "session",
			Name:      "records_received_total",
			Help:      "Records filed by tag from received datagrams.",
		},
		[]string{"role", "tag"},
	)
	recordsDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cigi",
			Subsystem: "session",
			Name:      "records_dropped_total",
			Help:      "Records or datagram tails discarded, by reason.",
		},
		[]string{"role", "tag", "reason"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequests, httpDuration,
			recordsWritten, recordsFlushed, datagramSize, recordsReceived, recordsDropped,
		)
	})
}

func RecordHTTPRequest(role, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(role, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(role, method, path, statusLabel).Observe(duration.Seconds())
}

// SessionRecorder feeds session traffic into the cigi_session_* metrics.
type SessionRecorder struct {
	role string
}

var _ session.Recorder = SessionRecorder{}

func NewSessionRecorder(role string) SessionRecorder {
	RegisterMetrics()
	return SessionRecorder{role: role}
}

func (r SessionRecorder) RecordWritten(tag uint8) {
	recordsWritten.WithLabelValues(r.role, tagLabel(tag)).Inc()
}

func (r SessionRecorder) RecordsFlushed(n int) {
	recordsFlushed.WithLabelValues(r.role).Add(float64(n))
}

func (r SessionRecorder) DatagramReceived(size int) {
	datagramSize.WithLabelValues(r.role).Observe(float64(size))
}

func (r SessionRecorder) RecordReceived(tag uint8) {
	recordsReceived.WithLabelValues(r.role, tagLabel(tag)).Inc()
}

func (r SessionRecorder) RecordDropped(tag uint8, reason string) {
	recordsDropped.WithLabelValues(r.role, tagLabel(tag), reason).Inc()
}

func tagLabel(tag uint8) string {
	return strconv.Itoa(int(tag))
}

// RegisterTransportStats exposes the counters returned by stats as
// cigi_transport_* metrics. It fails if role was already registered.
func RegisterTransportStats(reg prometheus.Registerer, role string, stats func() transport.Stats) error {
	labels := prometheus.Labels{"role": role}
	counter := func(name, help string, pick func(transport.Stats) uint64) prometheus.Collector {
		return prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace:   "cigi",
			Subsystem:   "transport",
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		}, func() float64 { return float64(pick(stats())) })
	}
	collectors := []prometheus.Collector{
		counter("datagrams_sent_total", "Datagrams written to the socket.",
			func(s transport.Stats) uint64 { return s.DatagramsSent }),
		counter("bytes_sent_total", "Bytes written to the socket.",
			func(s transport.Stats) uint64 { return s.BytesSent }),
		counter("datagrams_received_total", "Datagrams read from the socket.",
			func(s transport.Stats) uint64 { return s.DatagramsReceived }),
		counter("bytes_received_total", "Bytes read from the socket.",
			func(s transport.Stats) uint64 { return s.BytesReceived }),
	}
	var errs []error
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
