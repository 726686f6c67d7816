package observability

import (
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Stats is a point-in-time snapshot of the stream counters, for surfaces
// that want plain JSON rather than the prometheus exposition format.
type Stats struct {
	Connections     uint64 `json:"connections"`
	BytesRead       uint64 `json:"bytes_read"`
	EventsDecoded   uint64 `json:"events_decoded"`
	DecodeErrors    uint64 `json:"decode_errors"`
	FramesPublished uint64 `json:"frames_published"`
}

var totals struct {
	connections     atomic.Uint64
	bytesRead       atomic.Uint64
	eventsDecoded   atomic.Uint64
	decodeErrors    atomic.Uint64
	framesPublished atomic.Uint64
}

func Snapshot() Stats {
	return Stats{
		Connections:     totals.connections.Load(),
		BytesRead:       totals.bytesRead.Load(),
		EventsDecoded:   totals.eventsDecoded.Load(),
		DecodeErrors:    totals.decodeErrors.Load(),
		FramesPublished: totals.framesPublished.Load(),
	}
}

var (
	registerOnce sync.Once

	connectionsOpened = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tickwire",
			Subsystem: "ingest",
			Name:      "connections_total",
			Help:      "Producer connections accepted.",
		},
	)
	bytesRead = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tickwire",
			Subsystem: "ingest",
			Name:      "bytes_read_total",
			Help:      "Raw stream bytes consumed by decoders.",
		},
	)
	eventsDecoded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tickwire",
			Subsystem: "ingest",
			Name:      "events_decoded_total",
			Help:      "Events decoded from the stream, by kind.",
		},
		[]string{"kind"},
	)
	decodeErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tickwire",
			Subsystem: "ingest",
			Name:      "decode_errors_total",
			Help:      "Connections terminated by a decode failure, by reason.",
		},
		[]string{"reason"},
	)
	framesPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tickwire",
			Subsystem: "feed",
			Name:      "frames_published_total",
			Help:      "Frames written to the transport, by kind.",
		},
		[]string{"kind"},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tickwire",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total admin HTTP requests.",
		},
		[]string{"node", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tickwire",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Admin HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			connectionsOpened,
			bytesRead,
			eventsDecoded,
			decodeErrors,
			framesPublished,
			httpRequests,
			httpDuration,
		)
	})
}

func RecordConnectionOpened() {
	RegisterMetrics()
	connectionsOpened.Inc()
	totals.connections.Add(1)
}

func RecordBytesRead(n int) {
	RegisterMetrics()
	bytesRead.Add(float64(n))
	totals.bytesRead.Add(uint64(n))
}

func RecordEventDecoded(kind string) {
	RegisterMetrics()
	eventsDecoded.WithLabelValues(kind).Inc()
	totals.eventsDecoded.Add(1)
}

func RecordDecodeError(reason string) {
	RegisterMetrics()
	decodeErrors.WithLabelValues(reason).Inc()
	totals.decodeErrors.Add(1)
}

func RecordFramePublished(kind string) {
	RegisterMetrics()
	framesPublished.WithLabelValues(kind).Inc()
	totals.framesPublished.Add(1)
}

func RecordHTTPRequest(node, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(node, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(node, method, path, statusLabel).Observe(duration.Seconds())
}
