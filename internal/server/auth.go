package server

import (
	"fmt"
	"strings"

	"auction-engine/services/auction/helpers"
	"auction-engine/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// BearerAuthMiddleware resolves the caller's user id from an HMAC-signed
// bearer token's "sub" claim. Requests without a usable token proceed
// anonymously; the engine itself rejects unauthenticated mutations, so the
// authentication decision stays with the core rather than the transport.
func BearerAuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			raw := strings.TrimPrefix(header, "Bearer ")
			token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return secret, nil
			})
			if err != nil {
				utils.Warn("auth: rejected bearer token", map[string]any{"error": err.Error()})
			} else if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
				if sub, ok := claims["sub"].(string); ok && sub != "" {
					c.Set(helpers.CallerIDKey, sub)
				}
			}
		}
		c.Next()
	}
}
