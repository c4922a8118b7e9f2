package middleware

import (
	"log/slog"
	"net"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// SilentLogger logs requests but ignores "broken pipe" errors caused by
// client disconnects, which the <audio> element produces constantly when
// the listener skips around a track.
func SilentLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		for _, e := range c.Errors {
			if ne, ok := e.Err.(*net.OpError); ok {
				if se, ok := ne.Err.(*os.SyscallError); ok {
					errMsg := strings.ToLower(se.Error())
					if strings.Contains(errMsg, "broken pipe") ||
						strings.Contains(errMsg, "connection reset by peer") {
						return
					}
				}
			}
		}

		if query != "" {
			path = path + "?" + query
		}

		slog.Info("request",
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client", c.ClientIP(),
			"method", c.Request.Method,
			"path", path,
		)
	}
}
