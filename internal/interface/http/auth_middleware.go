package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/ar-shop/internal/domain/auth"
	apperrors "github.com/yanqian/ar-shop/pkg/errors"
)

func authMiddleware(svc auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing authorization header", nil))
			return
		}
		if authenticate(c, svc, header) {
			c.Next()
		}
	}
}

// optionalAuthMiddleware attaches claims when a token is sent and lets anonymous requests through.
func optionalAuthMiddleware(svc auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}
		if authenticate(c, svc, header) {
			c.Next()
		}
	}
}

func authenticate(c *gin.Context, svc auth.Service, header string) bool {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "invalid authorization header", nil))
		return false
	}
	token := strings.TrimSpace(parts[1])
	claims, err := svc.ValidateToken(c.Request.Context(), token)
	if err != nil {
		status := http.StatusForbidden
		code := auth.CodeInvalidToken
		if !apperrors.IsCode(err, auth.CodeInvalidToken) {
			status = http.StatusInternalServerError
			code = "auth_failed"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return false
	}
	setClaims(c, claims)
	return true
}
