package endpoints

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	gatewayRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dataportal_gateway_requests_total",
		Help: "Number of gateway requests by operation and status.",
	}, []string{"op", "status"})
	gatewayDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "dataportal_gateway_response_time_seconds",
		Help: "Duration of gateway requests.",
	}, []string{"op"})
	linksIssued = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dataportal_signed_links_total",
		Help: "Number of signed download links handed out.",
	}, []string{"type"})
	sideEffectFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dataportal_side_effect_failures_total",
		Help: "Number of activity/email side effects that failed.",
	}, []string{"effect"})
)
