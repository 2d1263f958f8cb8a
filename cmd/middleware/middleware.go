package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"clubhub/internal/auth"
	"clubhub/internal/dto"
)

const RequestIDHeader = "X-Request-ID"

// LoggingMiddleware tags every request with an id and logs it when done.
func LoggingMiddleware(log *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)

		c.Next()

		status := c.Writer.Status()
		ev := log.Info()
		switch {
		case status >= 500:
			ev = log.Error()
		case status >= 400:
			ev = log.Warn()
		}
		ev.Str("request_id", id).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("request handled")
	}
}

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (auth.Identity, error)
}

// Auth reads a bearer token and stores the caller's identity. With required
// unset, requests without a token pass through anonymously.
func Auth(authn Authenticator, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearer(c.GetHeader("Authorization"))
		if token == "" {
			if required {
				dto.UnauthorizedError(c, "Authentication required")
				return
			}
			c.Next()
			return
		}

		id, err := authn.Authenticate(c.Request.Context(), token)
		if err != nil {
			dto.UnauthorizedError(c, "Invalid or expired token")
			return
		}
		c.Set(auth.IdentityKey, id)
		c.Next()
	}
}

// AdminOnly must run after Auth.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get(auth.IdentityKey)
		if !ok {
			dto.UnauthorizedError(c, "Authentication required")
			return
		}
		if id, _ := v.(auth.Identity); !id.IsAdmin() {
			dto.ForbiddenError(c)
			return
		}
		c.Next()
	}
}

func bearer(header string) string {
	const prefix = "bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
