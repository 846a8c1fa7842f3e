package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"pricefeed-api/pkg/feed"
	"pricefeed-api/pkg/ticker"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "pricefeed",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pricefeed",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pricefeed",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	ingestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pricefeed",
			Name:      "ingest_total",
			Help:      "Fetch-and-store runs by ticker and outcome.",
		},
		[]string{"ticker", "result"},
	)

	feedDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pricefeed",
			Subsystem: "feed",
			Name:      "request_duration_seconds",
			Help:      "Duration of index price requests against the feed.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 11), // 10ms to ~10s
		},
		[]string{"ticker", "success"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		ingestTotal,
		feedDuration,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records HTTP metrics; it matches go-zero's rest.Middleware shape.
func Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		httpInFlight.Inc()
		defer httpInFlight.Dec()

		next(rec, r)

		path := canonicalPath(r.URL.Path)
		method := strings.ToUpper(r.Method)
		httpRequests.WithLabelValues(method, path, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

// IngestRecorder counts ingestion outcomes.
type IngestRecorder struct{}

func (IngestRecorder) ObserveIngest(t, result string) {
	ingestTotal.WithLabelValues(tickerLabel(t), result).Inc()
}

// InstrumentFeed wraps client so every request is timed.
func InstrumentFeed(client feed.Client) feed.Client {
	return feed.ClientFunc(func(ctx context.Context, t string) (decimal.Decimal, error) {
		start := time.Now()
		price, err := client.FetchIndexPrice(ctx, t)
		success := "true"
		if err != nil {
			success = "false"
			if errors.Is(err, context.Canceled) {
				success = "canceled"
			}
		}
		feedDuration.WithLabelValues(tickerLabel(t), success).Observe(time.Since(start).Seconds())
		return price, err
	})
}

// tickerLabel keeps label cardinality bounded to the allow-list.
func tickerLabel(t string) string {
	if ticker.IsAllowed(t) {
		return t
	}
	return "other"
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func canonicalPath(raw string) string {
	switch raw {
	case "/prices", "/prices/latest", "/prices/range", "/health":
		return raw
	default:
		return "other"
	}
}
