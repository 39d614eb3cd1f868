package counters

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var gatewayRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "payfast",
	Name:      "gateway_request_count",
	Help:      "Total number of gateway requests by operation and status.",
}, []string{"operation", "status"})

var notifications = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "payfast",
	Name:      "notification_count",
	Help:      "Total number of received payment notifications.",
}, []string{"valid"})

func CountGatewayRequest(operation, status string) {
	if len(operation) == 0 || len(status) == 0 {
		return
	}
	gatewayRequests.With(prometheus.Labels{"operation": operation, "status": status}).Inc()
}

func CountNotification(valid bool) {
	label := "false"
	if valid {
		label = "true"
	}
	notifications.With(prometheus.Labels{"valid": label}).Inc()
}
