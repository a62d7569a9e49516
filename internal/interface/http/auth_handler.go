package http

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/ar-shop/internal/domain/appstate"
	"github.com/yanqian/ar-shop/internal/domain/auth"
)

// Register creates an account.
func (h *Handler) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	user, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Login exchanges credentials for tokens.
func (h *Handler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	resp, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Refresh rotates the access token.
func (h *Handler) Refresh(c *gin.Context) {
	var req auth.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	resp, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Me returns the signed-in user.
func (h *Handler) Me(c *gin.Context) {
	userID, _ := currentUser(c)
	user, err := h.auth.Profile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Logout revokes external tokens and drops the cached storefront state.
func (h *Handler) Logout(c *gin.Context) {
	userID, email := currentUser(c)
	if err := h.auth.Logout(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}
	if _, err := h.state.Dispatch(c.Request.Context(), userID, email, appstate.Reset{}); err != nil {
		h.logger.Warn("failed to reset state on logout", "user_id", userID, "error", err)
	}
	c.Status(http.StatusNoContent)
}

// GoogleLogin starts the PKCE authorization code flow.
func (h *Handler) GoogleLogin(c *gin.Context) {
	pkce, err := auth.NewPKCE()
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, auth.CodeAuthError, "failed to start sign-in", err))
		return
	}
	target, err := h.auth.GoogleAuthURL(c.Request.Context(), pkce.State, pkce.Challenge)
	if err != nil {
		respondError(c, err)
		return
	}
	setOAuthStateCookie(c, pkce.State, pkce.Verifier)
	c.Redirect(http.StatusFound, target)
}

// GoogleCallback completes sign-in and hands tokens to the storefront.
func (h *Handler) GoogleCallback(c *gin.Context) {
	stored, ok := readOAuthStateCookie(c)
	clearOAuthStateCookie(c)
	if !ok || stored.State != c.Query("state") {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_state", "oauth state mismatch", nil))
		return
	}
	code := c.Query("code")
	if code == "" {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "missing authorization code", nil))
		return
	}
	resp, err := h.auth.GoogleCallback(c.Request.Context(), code, stored.CodeVerifier)
	if err != nil {
		respondError(c, err)
		return
	}
	if h.cfg.PostLoginRedirectURL == "" {
		c.JSON(http.StatusOK, resp)
		return
	}
	fragment := url.Values{}
	fragment.Set("token", resp.Token)
	fragment.Set("refreshToken", resp.RefreshToken)
	fragment.Set("expiresAt", resp.ExpiresAt.Format(time.RFC3339))
	if resp.NewAccount {
		fragment.Set("newAccount", "true")
	}
	c.Redirect(http.StatusFound, h.cfg.PostLoginRedirectURL+"#"+fragment.Encode())
}
