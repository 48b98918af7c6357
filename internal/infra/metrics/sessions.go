package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		sessionsOnline,
		sessionsExpiredTotal,
		sessionsDisconnectedTotal,
	)
}

var (
	sessionsOnline = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sessions_online",
			Help: "WiFi sessions currently online on this instance.",
		},
	)

	sessionsExpiredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sessions_expired_total",
			Help: "Sessions that ran out of time and went offline.",
		},
	)

	sessionsDisconnectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sessions_force_disconnected_total",
			Help: "Sessions cut by an operator before expiry.",
		},
	)
)

func SetSessionsOnline(n int)     { sessionsOnline.Set(float64(n)) }
func AddSessionsExpired(n int)    { sessionsExpiredTotal.Add(float64(n)) }
func IncSessionForceDisconnect() { sessionsDisconnectedTotal.Inc() }
