package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		codesIssuedTotal,
		codesRedeemedTotal,
		codeCollisionRetries,
		codeNotificationsTotal,
	)
}

var (
	codesIssuedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "activation_codes_issued_total",
			Help: "Activation codes issued after confirmed payment.",
		},
	)

	codesRedeemedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "activation_codes_redeemed_total",
			Help: "Activation codes successfully redeemed.",
		},
	)

	codeCollisionRetries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "activation_code_collision_retries_total",
			Help: "Times code generation hit an in-flight duplicate and retried.",
		},
	)

	codeNotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "code_notifications_total",
			Help: "Ops notifications by result (sent/duplicate/failed).",
		},
		[]string{"result"},
	)
)

func IncCodeIssued()         { codesIssuedTotal.Inc() }
func IncCodeRedeemed()       { codesRedeemedTotal.Inc() }
func IncCodeCollisionRetry() { codeCollisionRetries.Inc() }

func IncCodeNotification(result string) {
	codeNotificationsTotal.WithLabelValues(norm(result)).Inc()
}
