package ctxutil

import (
	"context"

	"marketplace/api/response"
	"marketplace/domain/shared"
	"marketplace/infrastructure/persistence"

	"github.com/gin-gonic/gin"
)

// PrincipalKey 是 gin context 中保存认证主体的键。
const PrincipalKey = "principal"

// Principal is the caller identity forwarded by the gateway.
type Principal struct {
	UserID string
	Roles  []shared.Role
}

func (p Principal) HasRole(role shared.Role) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (p Principal) IsAdmin() bool { return p.HasRole(shared.RoleAdmin) }

// PrincipalFrom returns the authenticated caller. ok is false on routes without authentication.
func PrincipalFrom(c *gin.Context) (Principal, bool) {
	v, exists := c.Get(PrincipalKey)
	if !exists {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}

func WithRequestID(ctx *gin.Context) context.Context {
	requestID := response.GetRequestID(ctx)
	return persistence.ContextWithRequestID(ctx.Request.Context(), requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	return persistence.RequestIDFromContext(ctx)
}
