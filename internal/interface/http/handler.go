package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/ar-shop/internal/domain/activity"
	"github.com/yanqian/ar-shop/internal/domain/appstate"
	"github.com/yanqian/ar-shop/internal/domain/auth"
	"github.com/yanqian/ar-shop/internal/domain/catalog"
	"github.com/yanqian/ar-shop/internal/domain/skintone"
	apperrors "github.com/yanqian/ar-shop/pkg/errors"
)

// HandlerConfig carries transport level limits.
type HandlerConfig struct {
	MaxUploadBytes       int64
	MaxFramePixels       int
	PostLoginRedirectURL string
}

// Handler wires the HTTP transport to domain services.
type Handler struct {
	cfg      HandlerConfig
	auth     auth.Service
	catalog  catalog.Service
	skinTone skintone.Service
	state    appstate.Service
	activity activity.Service
	logger   *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(
	cfg HandlerConfig,
	authSvc auth.Service,
	catalogSvc catalog.Service,
	skinToneSvc skintone.Service,
	stateSvc appstate.Service,
	activitySvc activity.Service,
	logger *slog.Logger,
) *Handler {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 8 << 20
	}
	if cfg.MaxFramePixels <= 0 {
		cfg.MaxFramePixels = skintone.DefaultMaxFramePixels
	}
	return &Handler{
		cfg:      cfg,
		auth:     authSvc,
		catalog:  catalogSvc,
		skinTone: skinToneSvc,
		state:    stateSvc,
		activity: activitySvc,
		logger:   logger.With("component", "http.handler"),
	}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondError translates a domain error into an HTTP error response.
func respondError(c *gin.Context, err error) {
	status, code := statusFor(err)
	httpErr := NewHTTPError(status, code, errMessage(err), err)
	if captureErr, ok := skintone.AsCaptureError(err); ok {
		httpErr.Details = map[string]any{"recovery": captureErr.Recovery}
	}
	abortWithError(c, httpErr)
}

func statusFor(err error) (int, string) {
	code := apperrors.CodeOf(err)
	switch code {
	case apperrors.CodeInvalidInput:
		return http.StatusBadRequest, code
	case apperrors.CodeUnauthorized, auth.CodeInvalidCredentials:
		return http.StatusUnauthorized, code
	case auth.CodeInvalidToken:
		return http.StatusForbidden, code
	case apperrors.CodeNotFound, auth.CodeUserNotFound:
		return http.StatusNotFound, code
	case auth.CodeEmailExists, auth.CodeLinkingDisabled:
		return http.StatusConflict, code
	case apperrors.CodeCaptureFailed, auth.CodeNotConfigured:
		return http.StatusServiceUnavailable, code
	case auth.CodeOAuthExchange:
		return http.StatusBadGateway, code
	case "":
		if errors.Is(err, skintone.ErrInvalidImage) {
			return http.StatusBadRequest, apperrors.CodeInvalidInput
		}
		return http.StatusInternalServerError, "internal_error"
	default:
		return http.StatusInternalServerError, code
	}
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func invalidRequest(c *gin.Context, err error) {
	abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
}
