package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/edura-go-api/internal/utils"
	"github.com/noah-isme/edura-go-api/pkg/identity"
)

const claimsLocal = "claims"

// JWTProtected returns a middleware that validates JWT bearer tokens and
// binds the caller's claims to the request. A token without a role claim is
// still accepted; authorization decisions happen downstream.
func JWTProtected(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authorization := c.Get("Authorization")
		if authorization == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authorization header missing")
		}

		const bearer = "Bearer "
		if !strings.HasPrefix(strings.ToLower(authorization), strings.ToLower(bearer)) {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid authorization header")
		}

		tokenString := strings.TrimSpace(authorization[len(bearer):])
		if tokenString == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		mapClaims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token claims")
		}

		claims := identity.Claims{
			Subject: extractStringClaim(mapClaims, "sub", "user_id"),
			Role:    normalizeRole(mapClaims["role"]),
		}

		c.Locals(claimsLocal, claims)
		if claims.Role != "" {
			c.Locals("user_role", claims.Role)
		}

		return c.Next()
	}
}

// ClaimsFromCtx returns the claims bound by JWTProtected, or zero claims for
// an unauthenticated request.
func ClaimsFromCtx(c *fiber.Ctx) identity.Claims {
	if value := c.Locals(claimsLocal); value != nil {
		if claims, ok := value.(identity.Claims); ok {
			return claims
		}
	}
	return identity.Claims{}
}

func extractStringClaim(claims jwt.MapClaims, keys ...string) string {
	for _, key := range keys {
		if value, ok := claims[key]; ok {
			if str, ok := value.(string); ok && strings.TrimSpace(str) != "" {
				return strings.TrimSpace(str)
			}
		}
	}
	return ""
}

func normalizeRole(value interface{}) string {
	switch v := value.(type) {
	case string:
		return strings.ToLower(strings.TrimSpace(v))
	case []interface{}:
		for _, item := range v {
			if str, ok := item.(string); ok {
				role := strings.ToLower(strings.TrimSpace(str))
				if role != "" {
					return role
				}
			}
		}
	}
	return ""
}
