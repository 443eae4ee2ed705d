// Package metrics exposes settlement metrics to Prometheus.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	settlementTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wager_settlements_total",
			Help: "Game resolutions by mode and terminal status",
		},
		[]string{"mode", "status"},
	)

	withdrawalTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wager_withdrawals_total",
			Help: "Withdrawal outcomes",
		},
		[]string{"result"},
	)

	depositTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wager_deposits_total",
			Help: "Deposit webhooks by result (credited, duplicate)",
		},
		[]string{"result"},
	)

	velocityRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wager_velocity_rejections_total",
			Help: "Actions rejected by the velocity guard",
		},
		[]string{"action"},
	)

	sweeperCancelled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wager_sweeper_cancelled_total",
			Help: "Expired games cancelled by the sweeper",
		},
	)

	queueDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "wager_matchmaking_queue_depth",
			Help: "Players waiting per mode and stake bracket",
		},
		[]string{"queue"},
	)

	httpReqTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wager_http_requests_total",
			Help: "HTTP requests by route, method and status",
		},
		[]string{"path", "method", "status"},
	)

	httpReqDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wager_http_request_duration_ms",
			Help:    "HTTP request duration in ms",
			Buckets: prometheus.ExponentialBuckets(5, 2, 10),
		},
		[]string{"path", "method"},
	)
)

// RecordSettlement counts one applied terminal transition.
func RecordSettlement(mode, status string) {
	settlementTotal.WithLabelValues(mode, status).Inc()
}

// RecordWithdrawal counts a withdrawal by result: completed, pending, refunded, rejected.
func RecordWithdrawal(result string) {
	withdrawalTotal.WithLabelValues(result).Inc()
}

// RecordDeposit counts a deposit webhook.
func RecordDeposit(duplicate bool) {
	res := "credited"
	if duplicate {
		res = "duplicate"
	}
	depositTotal.WithLabelValues(res).Inc()
}

func RecordVelocityRejection(action string) {
	velocityRejected.WithLabelValues(action).Inc()
}

func RecordSweeperCancelled(n int) {
	sweeperCancelled.Add(float64(n))
}

// SetQueueDepth publishes the current size of one matchmaking queue.
func SetQueueDepth(queue string, n int) {
	queueDepth.WithLabelValues(queue).Set(float64(n))
}

// RecordHTTP records one served request.
func RecordHTTP(path, method string, status int, started time.Time) {
	httpReqTotal.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	httpReqDuration.WithLabelValues(path, method).Observe(float64(time.Since(started).Milliseconds()))
}
