// Package middleware holds the shared gin middleware: request logging, panic
// recovery, CORS, metrics and JWT authentication.
package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/wyfcoding/fruitable/pkg/logger"
	"github.com/wyfcoding/fruitable/pkg/metrics"
	"github.com/wyfcoding/fruitable/pkg/token"
)

const (
	RequestIDKey = "request_id"
	UserIDKey    = "user_id"
	UsernameKey  = "username"
)

// Logging tags each request with an id and logs start/completion.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.New().String()
		c.Set(RequestIDKey, requestID)

		ctx := logger.ContextWithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)

		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		logger.Info(ctx, "HTTP request started",
			"method", method,
			"path", path,
			"client_ip", c.ClientIP(),
		)

		c.Next()

		logger.Info(ctx, "HTTP request completed",
			"method", method,
			"path", path,
			"status_code", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// Recovery converts panics into 500 responses.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				requestID, _ := c.Get(RequestIDKey)
				logger.Error(c.Request.Context(), "HTTP request panicked", "panic", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":      "internal server error",
					"request_id": requestID,
				})
			}
		}()
		c.Next()
	}
}

// CORS allows cross-origin browser clients.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Authorization, Accept, Origin, X-Requested-With, X-Cart-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// Metrics records per-request counters and latency.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.ObserveHTTP(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}

// SessionStore reports whether the session behind a bearer token is still
// live. Logout deletes the session, which revokes the token before its JWT
// expiry.
type SessionStore interface {
	Exists(ctx context.Context, token string) (bool, error)
}

// RequireAuth rejects requests without a valid bearer token backed by a live
// session. The message nudges the caller toward logging in, matching the
// storefront's redirect behaviour for anonymous users.
func RequireAuth(tm *token.Manager, sessions SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseBearer(c, tm, sessions)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "please log in first"})
			return
		}
		c.Set(UserIDKey, claims.UserID)
		c.Set(UsernameKey, claims.Username)
		c.Next()
	}
}

// OptionalAuth resolves the user when a valid token is present but lets
// anonymous requests through. A revoked token degrades to anonymous rather
// than failing the request. Cart and checkout need both paths.
func OptionalAuth(tm *token.Manager, sessions SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := parseBearer(c, tm, sessions); ok {
			c.Set(UserIDKey, claims.UserID)
			c.Set(UsernameKey, claims.Username)
		}
		c.Next()
	}
}

func parseBearer(c *gin.Context, tm *token.Manager, sessions SessionStore) (*token.Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, false
	}
	claims, err := tm.Parse(parts[1])
	if err != nil {
		return nil, false
	}
	if sessions != nil {
		live, err := sessions.Exists(c.Request.Context(), parts[1])
		if err != nil || !live {
			return nil, false
		}
	}
	return claims, true
}

// UserID returns the authenticated user id from the gin context, 0 when the
// request is anonymous.
func UserID(c *gin.Context) uint {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return 0
	}
	id, ok := v.(uint)
	if !ok {
		return 0
	}
	return id
}
