package handler

import (
	"context"
	"net/http"
	"time"

	"pharmapos/internal/infra"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const healthCheckTimeout = 3 * time.Second

// Health probes the backing stores and reports the SMTP breaker state. The
// response names components, never credentials or addresses. Any failed
// probe turns the whole check into a 503 so load balancers pull the node.
func Health(db *gorm.DB, rdb *redis.Client, mailer *infra.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		defer cancel()

		dbOK := false
		if sqlDB, err := db.DB(); err == nil && sqlDB.PingContext(ctx) == nil {
			dbOK = true
		}
		redisOK := rdb.Ping(ctx).Err() == nil

		statusOf := func(ok bool) string {
			if ok {
				return "connected"
			}
			return "error"
		}

		status := http.StatusOK
		if !dbOK || !redisOK {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":    status == http.StatusOK,
			"db":    statusOf(dbOK),
			"redis": statusOf(redisOK),
			"smtp":  mailer.BreakerState(),
		})
	}
}
