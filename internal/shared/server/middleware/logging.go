package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ecotrack-backend/internal/shared/telemetry"
)

// Context keys handlers may set to enrich the request log line.
const (
	AnalysisIDKey    = "analysisId"
	CertificateIDKey = "certificateId"
	MaterialKey      = "material"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      c.Writer.Status(),
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"user_id":     UserIDFromContext(c),
			"role":        UserRoleFromContext(c),
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		for logKey, ctxKey := range map[string]string{
			"analysis_id":    AnalysisIDKey,
			"certificate_id": CertificateIDKey,
			"material":       MaterialKey,
		} {
			if v := c.GetString(ctxKey); v != "" {
				fields[logKey] = v
			}
		}
		telemetry.Info("request.complete", fields)
	}
}
