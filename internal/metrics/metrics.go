package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	clientsEnqueued = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "barberline",
			Name:      "clients_enqueued_total",
			Help:      "Count of clients added, by queue.",
		},
		[]string{"queue"},
	)

	clientsRemoved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "barberline",
			Name:      "clients_removed_total",
			Help:      "Count of clients removed without service, by queue.",
		},
		[]string{"queue"},
	)

	servicesStarted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "barberline",
			Name:      "services_started_total",
			Help:      "Count of service sessions started.",
		},
	)

	servicesFinished = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "barberline",
			Name:      "services_finished_total",
			Help:      "Count of service sessions completed.",
		},
	)

	staffResumed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "barberline",
			Name:      "staff_resumed_total",
			Help:      "Count of staff resumes, by trigger.",
		},
		[]string{"trigger"},
	)

	staffPaused = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "barberline",
			Name:      "staff_paused_total",
			Help:      "Count of staff pauses.",
		},
	)

	queueLength = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "barberline",
			Name:      "queue_length",
			Help:      "Current number of waiting clients, by queue.",
		},
		[]string{"queue"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			clientsEnqueued, clientsRemoved,
			servicesStarted, servicesFinished,
			staffResumed, staffPaused,
			queueLength,
		)
	})
}

func IncEnqueued(queue string) {
	clientsEnqueued.WithLabelValues(queue).Inc()
}

func IncRemoved(queue string) {
	clientsRemoved.WithLabelValues(queue).Inc()
}

func IncServiceStarted() {
	servicesStarted.Inc()
}

func IncServiceFinished() {
	servicesFinished.Inc()
}

func IncPaused() {
	staffPaused.Inc()
}

func AddResumed(trigger string, n int) {
	staffResumed.WithLabelValues(trigger).Add(float64(n))
}

func SetQueueLength(queue string, n int) {
	queueLength.WithLabelValues(queue).Set(float64(n))
}
