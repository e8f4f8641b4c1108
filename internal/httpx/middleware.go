package httpx

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const ridHeader = "X-Request-ID"

// RequestID tags every request with an ID, trusting an inbound one so a
// request can be traced across the gateway and this service.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(ridHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(ridKey, rid)
		c.Writer.Header().Set(ridHeader, rid)
		c.Next()
	}
}

const ridKey = "request_id"

// Logger writes one line per request. Probe endpoints are skipped to keep
// the log readable.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if path == "/healthz" || path == "/metrics" {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		log.Printf("[http] rid=%s ip=%s %s %s status=%d dur=%s",
			c.GetString(ridKey), c.ClientIP(), c.Request.Method, path,
			c.Writer.Status(), time.Since(start).Round(time.Microsecond))
	}
}

// CORS allows the single-page client origin with credentialed requests (the
// session cookie rides on every call).
func CORS(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// Recovery converts panics to a JSON 500. The panic detail is exposed only
// outside production.
func Recovery(production bool) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Printf("[http] panic: %v", recovered)
		msg := "internal server error"
		if !production {
			if err, ok := recovered.(error); ok {
				msg = err.Error()
			}
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": msg})
	})
}
