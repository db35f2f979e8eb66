package middleware

import (
	"strings"

	"marketplace/api/ctxutil"
	"marketplace/api/response"
	"marketplace/domain/shared"
	"marketplace/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Identity headers set by the gateway after it has verified the caller's token.
const (
	UserIDHeader    = "X-User-ID"
	UserRolesHeader = "X-User-Roles"
)

// Authenticate turns the gateway identity headers into a ctxutil.Principal.
// A missing or malformed user id is rejected with 401. A caller without roles is a customer.
func Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(UserIDHeader))
		if _, err := uuid.Parse(userID); err != nil {
			response.HandleAppError(c, errors.Unauthorized("authentication required"))
			c.Abort()
			return
		}

		roles := make([]shared.Role, 0, 3)
		for _, raw := range strings.Split(c.GetHeader(UserRolesHeader), ",") {
			if strings.TrimSpace(raw) == "" {
				continue
			}
			role, err := shared.ParseRole(raw)
			if err != nil {
				response.HandleAppError(c, errors.Unauthorized("unknown role "+strings.TrimSpace(raw)))
				c.Abort()
				return
			}
			roles = append(roles, role)
		}
		if len(roles) == 0 {
			roles = append(roles, shared.RoleCustomer)
		}

		c.Set(ctxutil.PrincipalKey, ctxutil.Principal{UserID: userID, Roles: roles})
		c.Next()
	}
}

// RequireRole lets the request through when the principal holds any of roles.
func RequireRole(roles ...shared.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := ctxutil.PrincipalFrom(c)
		if !ok {
			response.HandleAppError(c, errors.Unauthorized("authentication required"))
			c.Abort()
			return
		}
		for _, r := range roles {
			if p.HasRole(r) {
				c.Next()
				return
			}
		}
		response.HandleAppError(c, errors.Forbidden("this action requires a different role"))
		c.Abort()
	}
}
