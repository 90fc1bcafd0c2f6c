package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	Enqueued = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notifications_enqueued_total",
		Help: "Total notifications accepted into the mailbox",
	})
	Drained = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notifications_drained_total",
		Help: "Total notifications handed out by fetch calls",
	})
	Rejected = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ingest_rejected_total",
		Help: "Ingest requests rejected with 4xx",
	})
	FetchCalls = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fetch_calls_total",
		Help: "Fetch endpoint calls, including ones that drained nothing",
	})
)

func init() {
	prometheus.MustRegister(
		Enqueued,
		Drained,
		Rejected,
		FetchCalls,
	)
}
