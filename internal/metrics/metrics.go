package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	// Accounts
	SignupsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "signups_total",
			Help: "Total successful signups",
		},
	)
	LoginsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "logins_total",
			Help: "Total successful logins",
		},
	)

	// Media
	ImagesProcessedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "images_processed_total",
			Help: "Total uploaded images re-encoded",
		},
	)
	MailSentTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mail_sent_total",
			Help: "Total transactional mails sent",
		},
	)

	// Worker queue
	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Current worker queue depth",
		},
	)
)

// Handler serves the /metrics endpoint.
var Handler = promhttp.Handler

func Init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(SignupsTotal)
	prometheus.MustRegister(LoginsTotal)
	prometheus.MustRegister(ImagesProcessedTotal)
	prometheus.MustRegister(MailSentTotal)
	prometheus.MustRegister(WorkerQueueDepth)
}
