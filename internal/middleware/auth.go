package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleetflow/internal/api"
	"fleetflow/internal/auth"
)

const claimsKey = "claims"

// Auth rejects requests without a valid bearer token. Websocket clients
// that cannot set headers may pass the token as ?token=.
func Auth(tokens *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := auth.ExtractTokenFromHeader(c.GetHeader("Authorization"))
		if err != nil {
			raw = c.Query("token")
		}
		if raw == "" {
			unauthorized(c)
			return
		}

		claims, err := tokens.ValidateToken(raw)
		if err != nil {
			unauthorized(c)
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// ClaimsFrom returns the claims stored by Auth.
func ClaimsFrom(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

func unauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Detail: "Could not validate credentials"})
}
