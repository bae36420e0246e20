package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/stockops/backoffice/internal/domain/shared"
	applogger "github.com/stockops/backoffice/internal/infrastructure/logger"
)

// Request ID propagation keys
const (
	RequestIDHeader     = "X-Request-ID"
	RequestIDContextKey = "request_id"
)

// Actor header names. There is no session layer; the reverse proxy in
// front of this service authenticates and stamps these headers.
const (
	ActorIDHeader   = "X-User-ID"
	ActorNameHeader = "X-User-Name"
	ActorRoleHeader = "X-User-Role"

	actorContextKey = "actor"
)

// RequestID stamps each request with an ID, reusing the caller's when present
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = generateRequestID()
		}
		c.Set(RequestIDContextKey, requestID)
		c.Writer.Header().Set(RequestIDHeader, requestID)

		reqCtx := c.Request.Context()
		ctx, _ := applogger.WithRequestID(reqCtx, applogger.FromContext(reqCtx), requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func generateRequestID() string {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return time.Now().UTC().Format("20060102150405.000000000")
	}
	return hex.EncodeToString(bytes)
}

// Actor resolves the acting user from the request headers. Unknown or
// missing roles default to staff, the least privileged level.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := shared.Role(c.GetHeader(ActorRoleHeader))
		switch role {
		case shared.RoleAdmin, shared.RoleManager, shared.RoleStaff:
		default:
			role = shared.RoleStaff
		}
		c.Set(actorContextKey, shared.Actor{
			ID:   c.GetHeader(ActorIDHeader),
			Name: c.GetHeader(ActorNameHeader),
			Role: role,
		})
		c.Next()
	}
}

// ActorFromContext returns the actor resolved by the Actor middleware
func ActorFromContext(c *gin.Context) shared.Actor {
	if v, ok := c.Get(actorContextKey); ok {
		if actor, ok := v.(shared.Actor); ok {
			return actor
		}
	}
	return shared.Actor{Role: shared.RoleStaff}
}

// CORSConfig is the subset of CORS settings exposed in config
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// CORS builds the CORS middleware from configuration
func CORS(cfg CORSConfig) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     cfg.AllowedMethods,
		AllowHeaders:     cfg.AllowedHeaders,
		ExposeHeaders:    []string{RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	for _, origin := range cfg.AllowedOrigins {
		if origin == "*" {
			// Credentials with a wildcard origin is rejected by browsers
			corsCfg.AllowAllOrigins = true
			corsCfg.AllowOrigins = nil
			corsCfg.AllowCredentials = false
			break
		}
	}
	return cors.New(corsCfg)
}

// Tracing instruments requests with OpenTelemetry spans
func Tracing(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName)
}
