package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mindpay_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mindpay_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	FinalizationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mindpay_commission_finalizations_total",
			Help: "Commission finalization attempts by unit kind and outcome",
		},
		[]string{"unit", "outcome"},
	)

	DefaultRateEstimatesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mindpay_default_rate_estimates_total",
			Help: "Pending estimates computed with the default commission rate",
		},
	)

	ScheduleUpdatesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mindpay_commission_schedule_updates_total",
			Help: "Total number of commission schedule versions activated",
		},
	)

	SettlementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mindpay_settlements_total",
			Help: "Settlement attempts by payment method and outcome",
		},
		[]string{"payment_method", "outcome"},
	)

	SettledPayoutCents = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mindpay_settled_payout_cents_total",
			Help: "Total net payout settled to providers in cents",
		},
	)

	NotificationQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mindpay_notification_queue_length",
			Help: "Current length of the payout notification queue",
		},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mindpay_notifications_total",
			Help: "Payout notifications by type and status",
		},
		[]string{"type", "status"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordFinalization(unit, outcome string) {
	FinalizationsTotal.WithLabelValues(unit, outcome).Inc()
}

func RecordDefaultRateEstimate() {
	DefaultRateEstimatesTotal.Inc()
}

func RecordScheduleUpdate() {
	ScheduleUpdatesTotal.Inc()
}

func RecordSettlement(paymentMethod, outcome string, netPayoutCents int64) {
	SettlementsTotal.WithLabelValues(paymentMethod, outcome).Inc()
	if netPayoutCents > 0 {
		SettledPayoutCents.Add(float64(netPayoutCents))
	}
}

func RecordNotification(notificationType, status string) {
	NotificationsTotal.WithLabelValues(notificationType, status).Inc()
}
