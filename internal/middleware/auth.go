package middleware

import (
	"strings"

	"unithrift-backend/internal/application/tokens"
	"unithrift-backend/internal/pkg/apperrors"
	"unithrift-backend/internal/pkg/constants"
	"unithrift-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const authLocal = "auth_user"

// AuthUser is the resolved caller identity handlers work with. Token
// parsing never leaks past this middleware.
type AuthUser struct {
	UserID   uuid.UUID
	UserType string
}

// RequireAuth verifies the bearer token and restricts access to the given
// roles (any role if none given).
func RequireAuth(secret string, roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		raw := strings.TrimPrefix(header, "Bearer ")
		if raw == "" || raw == header {
			return response.Unauthorized(c, "Missing bearer token")
		}
		claims, err := tokens.Verify(secret, raw)
		if err != nil || claims.TokenType != constants.TokenBearer {
			return response.FromError(c, apperrors.ErrTokenInvalid)
		}
		if len(roles) > 0 && !hasRole(roles, claims.UserType) {
			return response.FromError(c, apperrors.ErrForbiddenAccess)
		}
		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			return response.FromError(c, apperrors.ErrTokenInvalid)
		}
		c.Locals(authLocal, AuthUser{UserID: userID, UserType: claims.UserType})
		return c.Next()
	}
}

// Auth returns the resolved caller from Locals.
func Auth(c *fiber.Ctx) (AuthUser, bool) {
	u, ok := c.Locals(authLocal).(AuthUser)
	return u, ok
}

// SetAuth injects a caller identity, used by handler tests.
func SetAuth(c *fiber.Ctx, u AuthUser) {
	c.Locals(authLocal, u)
}

func hasRole(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
