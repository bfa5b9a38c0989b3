package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mindpay/internal/api"
	"mindpay/internal/logger"
)

const healthPingTimeout = 2 * time.Second

type pinger interface {
	PingContext(ctx context.Context) error
}

// @Summary      Health check
// @Description  Reports unavailable when the database does not answer a ping
// @Tags         system
// @Produce      json
// @Success      200 {object} api.HealthResponse
// @Failure      503 {object} api.HealthResponse
// @Router       /health [get]
func Health(db pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			logger.Warn("Health check failed", "error", err.Error())
			c.JSON(http.StatusServiceUnavailable, api.HealthResponse{Status: "unavailable", Database: "down"})
			return
		}
		c.JSON(http.StatusOK, api.HealthResponse{Status: "ok", Database: "up"})
	}
}

type QueueLengthResponse struct {
	Pending int64 `json:"pending" example:"3"`
}

type queueLengther interface {
	QueueLength(ctx context.Context) int64
}

// @Summary      Payout notice backlog
// @Description  Number of payout-settled notices waiting in Redis
// @Tags         admin,system
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} server.QueueLengthResponse
// @Router       /admin/notifications/queue [get]
func NotificationQueue(queue queueLengther) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, QueueLengthResponse{Pending: queue.QueueLength(c.Request.Context())})
	}
}

// @Summary      Prometheus metrics
// @Description  Exposes Prometheus metrics in text format
// @Tags         system
// @Produce      text/plain
// @Success      200 {string} string
// @Router       /metrics [get]
func Metrics() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
