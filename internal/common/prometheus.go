package common

import "github.com/prometheus/client_golang/prometheus"

const (
	HTTPRequestTotal           = "http_requests_total"
	HTTPRequestDurationSeconds = "http_request_duration_seconds"
	TaskCompletionTotal        = "task_completions_total"
	TicketMintedTotal          = "lottery_tickets_minted_total"
	DrawTotal                  = "draws_total"
)

var (
	PromCounters = map[string]*prometheus.CounterVec{
		HTTPRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: HTTPRequestTotal,
			Help: "Count of all HTTP requests",
		}, []string{"method", "status_code"}),
		TaskCompletionTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: TaskCompletionTotal,
			Help: "Count of accepted task completions",
		}, []string{"task_type"}),
		TicketMintedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: TicketMintedTotal,
			Help: "Count of minted lottery tickets",
		}, []string{"point_type"}),
		DrawTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: DrawTotal,
			Help: "Count of committed draws",
		}, []string{"kind"}),
	}

	PromHistograms = map[string]*prometheus.HistogramVec{
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: HTTPRequestDurationSeconds,
			Help: "Duration of all HTTP requests",
		}, []string{"method", "status_code"}),
	}
)
