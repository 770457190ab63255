package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/lingobook/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	userNameKey     = "user_name"
)

// RequestLogger writes one line per request. It also makes sure every
// response carries a request id.
func RequestLogger(log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqID := c.GetHeader(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header(requestIDHeader, reqID)

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		status := c.Writer.Status()
		fields := []any{
			"method", strings.ToUpper(c.Request.Method),
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", reqID,
		}
		if name := c.GetString(userNameKey); name != "" {
			fields = append(fields, "user", name)
		}

		ctx := c.Request.Context()
		switch {
		case status >= 500:
			log.Error(ctx, "http request", fields...)
		case status >= 400:
			log.Warn(ctx, "http request", fields...)
		default:
			log.Info(ctx, "http request", fields...)
		}
	}
}

// RequireSession rejects requests without a valid session cookie and
// stores the user name on the context.
func (s *Server) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(s.cookie.Name)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorEnvelope{
				Error: APIError{Message: "missing session", Code: "unauthorized"},
			})
			return
		}
		name, err := s.auth.UserNameFromToken(token)
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.Set(userNameKey, name)
		c.Next()
	}
}

func userName(c *gin.Context) string {
	return c.GetString(userNameKey)
}
