package middleware

import (
	"net/http"

	"github.com/fuelops/backend/internal/infrastructure/logger"
	"github.com/fuelops/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Headers carrying tenant and actor identity. The gateway in front of this
// service authenticates callers and stamps these headers.
const (
	TenantKeyHeader = "X-Tenant-Key"
	ActorIDHeader   = "X-Actor-ID"
)

// Gin context keys set by TenantKey
const (
	TenantKeyContextKey = "tenant_key"
	ActorIDContextKey   = "actor_id"
)

// TenantKey requires the tenant key header on every request it guards and
// threads it, with the optional actor ID, into the gin and request contexts.
// Existence of the tenant is not checked here; resolution happens lazily in
// the application layer.
func TenantKey(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantKey := c.GetHeader(TenantKeyHeader)
		if tenantKey == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeBadRequest,
				"Missing "+TenantKeyHeader+" header",
				GetRequestID(c),
			))
			return
		}
		c.Set(TenantKeyContextKey, tenantKey)

		ctx := c.Request.Context()
		ctx, _ = logger.WithRequestID(ctx, log, GetRequestID(c))
		ctx, reqLogger := logger.WithTenantKey(ctx, logger.FromContext(ctx), tenantKey)

		if actorID := c.GetHeader(ActorIDHeader); actorID != "" {
			if _, err := uuid.Parse(actorID); err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
					dto.ErrCodeBadRequest,
					"Malformed "+ActorIDHeader+" header",
					GetRequestID(c),
				))
				return
			}
			c.Set(ActorIDContextKey, actorID)
			ctx, _ = logger.WithActorID(ctx, reqLogger, actorID)
		}

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// GetTenantKey returns the tenant key extracted for this request
func GetTenantKey(c *gin.Context) string {
	return c.GetString(TenantKeyContextKey)
}

// GetActorID returns the acting user's ID, or nil when the request carried
// no actor header.
func GetActorID(c *gin.Context) *uuid.UUID {
	raw := c.GetString(ActorIDContextKey)
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}
