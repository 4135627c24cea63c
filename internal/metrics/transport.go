package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Transport instruments outgoing HTTP requests by method and status code.
type Transport struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewTransport creates the HTTP collectors and registers them on reg.
func NewTransport(reg prometheus.Registerer) (*Transport, error) {
	t := &Transport{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "client",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests sent to the App Search API.",
		}, []string{"method", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "client",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP round-trip duration in seconds.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"method"}),
	}
	if err := RegisterOrReuse(reg, &t.requests); err != nil {
		return nil, err
	}
	if err := RegisterOrReuse(reg, &t.duration); err != nil {
		return nil, err
	}
	return t, nil
}

// RoundTripper wraps next with request counting and latency observation.
// A nil next means http.DefaultTransport.
func (t *Transport) RoundTripper(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return promhttp.InstrumentRoundTripperCounter(t.requests,
		promhttp.InstrumentRoundTripperDuration(t.duration, next),
	)
}
