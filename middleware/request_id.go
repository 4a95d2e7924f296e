package middleware

import (
	"time"

	"vehiclecare/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	requestIDKey = "requestID"
	loggerKey    = "logger"
)

// RequestID ensures every request has an ID and a logger that carries it.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(utils.RequestIDHeader)
		if rid == "" || len(rid) > 128 {
			rid = uuid.New().String()
		}
		c.Set(requestIDKey, rid)
		c.Set(loggerKey, utils.GetLogger().With(zap.String("requestID", rid)))
		c.Writer.Header().Set(utils.RequestIDHeader, rid)
		c.Next()
	}
}

// GetRequestID extracts the request id from gin context when available.
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// RequestLogger logs one line per request once the handler chain is done.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger := utils.GetLogger()
		if l, ok := c.Get(loggerKey); ok {
			if zl, ok := l.(*zap.Logger); ok {
				logger = zl
			}
		}
		logger.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", getClientIP(c)))
	}
}
