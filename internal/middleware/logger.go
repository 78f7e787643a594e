package middleware

import (
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// sensitiveHeaderPatterns matches headers that must never reach the logs;
// the render service API key travels in x-api-key.
var sensitiveHeaderPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)authorization`),
	regexp.MustCompile(`(?i)api[-_]?key`),
	regexp.MustCompile(`(?i)token`),
	regexp.MustCompile(`(?i)secret`),
	regexp.MustCompile(`(?i)cookie`),
}

// RequestLogger logs every request with method, path, status and latency.
// Sensitive header values are redacted before they are attached.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		c.Next()

		latency := time.Since(startTime)

		event := log.Info()
		if c.Writer.Status() >= 500 {
			event = log.Error()
		} else if c.Writer.Status() >= 400 {
			event = log.Warn()
		}

		headers := zerolog.Dict()
		for name, values := range c.Request.Header {
			if len(values) == 0 {
				continue
			}
			headers.Str(name, redactHeader(name, values[0]))
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Dict("headers", headers).
			Msg("request")
	}
}

// redactHeader hides the value of any header matching a sensitive pattern.
func redactHeader(name, value string) string {
	for _, pattern := range sensitiveHeaderPatterns {
		if pattern.MatchString(name) {
			return "[REDACTED]"
		}
	}
	return value
}
