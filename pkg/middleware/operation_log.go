package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mssola/user_agent"
	"go.uber.org/zap"

	"github.com/afdhalrashid/voice-to-text-Manglish/pkg/logger"
)

// OperationLog writes one structured line per request with client
// details parsed from the User-Agent header.
func OperationLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		ua := user_agent.New(c.GetHeader("User-Agent"))
		browser, version := ua.Browser()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("ip", c.ClientIP()),
			zap.String("os", ua.OS()),
			zap.String("browser", browser+" "+version),
		}
		if uid := UserID(c); uid != 0 {
			fields = append(fields, zap.Uint("user_id", uid))
		}
		logger.Info("request", fields...)
	}
}
