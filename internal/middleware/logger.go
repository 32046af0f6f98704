package middleware

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger writes one access line per request. Health checks log at Debug;
// other requests log at Info, Warn for 4xx and Error for 5xx.
//
// route is the matched pattern, so every item of a resource shares one
// value (for example "/api/Customers/:code"). page and size are lifted out
// of the paging query; other filters are logged as the raw query.
func Logger(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		attrs := []slog.Attr{
			slog.String("method", c.Request.Method),
			slog.String("route", routeOf(c)),
			slog.Int("status", status),
			slog.Int("bytes", max(c.Writer.Size(), 0)),
			slog.Duration("latency", time.Since(start)),
		}
		if q := c.Request.URL.Query(); len(q) > 0 {
			if page := q.Get("pageNumber"); page != "" {
				attrs = append(attrs, slog.String("page", page), slog.String("size", q.Get("pageSize")))
			}
			attrs = append(attrs, slog.String("query", c.Request.URL.RawQuery))
		}

		logger.LogAttrs(c.Request.Context(), accessLevel(c.Request.URL.Path, status), "request", attrs...)
	}
}

func routeOf(c *gin.Context) string {
	if r := c.FullPath(); r != "" {
		return r
	}
	return c.Request.URL.Path
}

func accessLevel(path string, status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	case strings.HasPrefix(path, "/health"):
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}
