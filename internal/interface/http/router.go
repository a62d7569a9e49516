package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/ar-shop/internal/infra/config"
)

const apiPrefix = "/api/v1"

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(handler.logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorHandlingMiddleware(handler.logger),
		oauthCodeRedirect(),
		rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger),
	)

	router.GET("/healthz", handler.Health)

	api := router.Group(apiPrefix)
	{
		api.GET("/healthz", handler.Health)

		authGroup := api.Group("/auth")
		authGroup.POST("/register", handler.Register)
		authGroup.POST("/login", handler.Login)
		authGroup.POST("/refresh", handler.Refresh)
		authGroup.GET("/google/login", handler.GoogleLogin)
		authGroup.GET("/google/callback", handler.GoogleCallback)

		api.GET("/products", handler.ListProducts)
		api.GET("/products/:id", handler.GetProduct)

		skin := api.Group("/skin-tone")
		skin.GET("/demo", handler.DemoSkinTone)
		skin.Use(optionalAuthMiddleware(handler.auth))
		skin.POST("/analyze", handler.AnalyzeSkinTone)
		skin.POST("/capture", handler.CaptureSkinTone)

		protected := api.Group("")
		protected.Use(authMiddleware(handler.auth))
		protected.GET("/auth/me", handler.Me)
		protected.POST("/auth/logout", handler.Logout)
		protected.GET("/products/personalized", handler.PersonalizedProducts)

		protected.GET("/state", handler.GetState)
		protected.POST("/state/view", handler.SetView)
		protected.POST("/state/select", handler.SelectProduct)

		protected.GET("/preferences", handler.GetPreferences)
		protected.PUT("/preferences", handler.UpdatePreferences)
		protected.POST("/preferences/skin-tone", handler.ApplySkinTone)

		protected.GET("/cart", handler.GetCart)
		protected.POST("/cart/items", handler.AddCartItem)
		protected.PATCH("/cart/items", handler.UpdateCartItem)
		protected.DELETE("/cart/items/:productId", handler.RemoveCartItem)
		protected.DELETE("/cart", handler.ClearCart)

		protected.GET("/activity", handler.ListActivity)
		protected.POST("/activity", handler.RecordActivity)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        withRetry(router, cfg.HTTP.Retry, handler.logger),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("http request", "method", c.Request.Method, "path", c.Request.URL.Path, "status", c.Writer.Status(), "latency_ms", latency.Milliseconds())
	}
}
