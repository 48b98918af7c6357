package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		purchasesTotal,
		purchaseRevenueKES,
	)
}

var (
	purchasesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "purchases_total",
			Help: "Purchases by status (pending/confirmed/failed).",
		},
		[]string{"status"},
	)

	purchaseRevenueKES = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "purchase_revenue_kes_total",
			Help: "Total shillings collected from confirmed purchases.",
		},
	)
)

func IncPurchase(status string) {
	purchasesTotal.WithLabelValues(norm(status)).Inc()
}

func AddPurchaseRevenue(amountKES int64) {
	purchaseRevenueKES.Add(float64(amountKES))
}
