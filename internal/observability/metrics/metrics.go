package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"service", "method", "path", "status"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)

	PushSubscribesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "push_subscribes_total",
			Help: "Total number of push subscription upserts.",
		},
		[]string{"result"},
	)

	PushUnsubscribesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "push_unsubscribes_total",
			Help: "Total number of push subscription removals.",
		},
		[]string{"result"},
	)

	PushDispatchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "push_dispatches_total",
			Help: "Total number of push fan-out attempts handed to the dispatcher.",
		},
		[]string{"result"},
	)

	BookingTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_transitions_total",
			Help: "Total number of booking status transitions.",
		},
		[]string{"to_status", "result"},
	)

	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logins_total",
			Help: "Total number of login attempts.",
		},
		[]string{"result"},
	)
)

func MustRegister(serviceName string) {
	HTTPRequestsTotal = HTTPRequestsTotal.MustCurryWith(prometheus.Labels{"service": serviceName})
	HTTPRequestDurationSeconds = HTTPRequestDurationSeconds.MustCurryWith(prometheus.Labels{"service": serviceName}).(*prometheus.HistogramVec)

	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDurationSeconds,
		PushSubscribesTotal,
		PushUnsubscribesTotal,
		PushDispatchesTotal,
		BookingTransitionsTotal,
		LoginsTotal,
	)
}
