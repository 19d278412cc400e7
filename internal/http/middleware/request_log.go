package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lexiprogress-backend/internal/platform/ctxutil"
	"github.com/yungbote/lexiprogress-backend/internal/platform/logger"
)

// RequestLogger writes one line per request once the handler chain is done.
// Server errors log at error level, client errors at warn.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		began := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		code := c.Writer.Status()
		kv := append([]interface{}{
			"method", c.Request.Method,
			"route", route,
			"status", code,
			"bytes", c.Writer.Size(),
			"duration_ms", time.Since(began).Milliseconds(),
		}, ctxutil.LogFields(c.Request.Context())...)
		if len(c.Errors) > 0 {
			kv = append(kv, "error", c.Errors.Last().Error())
		}

		switch {
		case code >= http.StatusInternalServerError:
			log.Error("request served", kv...)
		case code >= http.StatusBadRequest:
			log.Warn("request served", kv...)
		default:
			log.Info("request served", kv...)
		}
	}
}
