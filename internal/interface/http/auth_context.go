package http

import (
	"github.com/gin-gonic/gin"

	"github.com/yanqian/ar-shop/internal/domain/auth"
)

const authClaimsKey = "auth_claims"

func setClaims(c *gin.Context, claims auth.Claims) {
	c.Set(authClaimsKey, claims)
}

func getClaims(c *gin.Context) (auth.Claims, bool) {
	value, ok := c.Get(authClaimsKey)
	if !ok {
		return auth.Claims{}, false
	}
	claims, ok := value.(auth.Claims)
	return claims, ok
}

// currentUser returns the signed-in user id and email, or zero values for anonymous requests.
func currentUser(c *gin.Context) (int64, string) {
	claims, ok := getClaims(c)
	if !ok {
		return 0, ""
	}
	return claims.UserID, claims.Email
}
