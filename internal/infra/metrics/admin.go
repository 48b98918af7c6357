package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		adminRequestTotal,
		adminLoginTotal,
		buildInfo,
	)
}

var (
	adminRequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_request_total",
			Help: "Tracks attempts to use console endpoints.",
		},
		[]string{"endpoint", "status"}, // status: 'authorized', 'unauthorized'
	)

	adminLoginTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_login_total",
			Help: "Console sign-in attempts by result.",
		},
		[]string{"result"}, // 'ok', 'not_allow_listed', 'bad_credentials'
	)

	buildInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "build_info",
			Help: "A constant metric with labels for version and commit hash.",
		},
		[]string{"version", "commit"},
	)
)

func IncAdminRequest(endpoint, status string) {
	adminRequestTotal.WithLabelValues(norm(endpoint), norm(status)).Inc()
}

func IncAdminLogin(result string) {
	adminLoginTotal.WithLabelValues(norm(result)).Inc()
}

func SetBuildInfo(version, commit string) {
	buildInfo.WithLabelValues(version, commit).Set(1)
}
