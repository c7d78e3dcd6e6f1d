package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultApplied  = "applied"
	ResultBlocked  = "blocked"
	ResultRejected = "rejected"
)

var (
	WorkflowTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "workflow_transitions_total",
		Help: "Stage transition attempts by entity, action and result.",
	}, []string{"entity", "action", "result"})

	WorkflowNotices = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "workflow_notices_total",
		Help: "Notices returned to users by entity and notice type.",
	}, []string{"entity", "type"})
)

func ObserveTransition(entity, action, result string) {
	WorkflowTransitions.WithLabelValues(entity, action, result).Inc()
}

func ObserveNotice(entity, noticeType string) {
	WorkflowNotices.WithLabelValues(entity, noticeType).Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}
