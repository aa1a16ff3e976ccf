package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	purchaseOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_purchase_operations_total",
			Help: "Total ticket purchase attempts by outcome",
		},
		[]string{"event_id", "status"},
	)

	admissionOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gate_admission_operations_total",
			Help: "Total gate admission attempts by outcome",
		},
		[]string{"event_id", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// TrackPurchase records one purchase attempt. status is "ok" or the
// error code returned to the client.
func TrackPurchase(eventID uint, status string) {
	purchaseOperations.WithLabelValues(strconv.Itoa(int(eventID)), status).Inc()
}

func TrackAdmission(eventID uint, status string) {
	admissionOperations.WithLabelValues(strconv.Itoa(int(eventID)), status).Inc()
}

// RequestDuration is a gin middleware observing per-route latency.
func RequestDuration() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		path := ctx.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpDuration.
			WithLabelValues(ctx.Request.Method, path, strconv.Itoa(ctx.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the prometheus scrape endpoint.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
