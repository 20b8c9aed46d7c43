package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/edura-go-api/internal/utils"
)

// RequireRole ensures that the authenticated user possesses one of the allowed roles.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		normalized := strings.ToLower(strings.TrimSpace(role))
		if normalized != "" {
			allowed[normalized] = struct{}{}
		}
	}

	return func(c *fiber.Ctx) error {
		claims := ClaimsFromCtx(c)
		if _, ok := allowed[claims.Role]; !ok {
			return utils.SendErrorKind(c, fiber.StatusForbidden, utils.KindPermissionDenied, "insufficient permissions")
		}
		return c.Next()
	}
}
