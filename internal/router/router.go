package router

import (
	"fmt"
	"strings"

	"github.com/aurelia-jewels/storefront/internal/cache"
	"github.com/aurelia-jewels/storefront/internal/config"
	adminhandlers "github.com/aurelia-jewels/storefront/internal/http/handlers/admin"
	publichandlers "github.com/aurelia-jewels/storefront/internal/http/handlers/public"
	"github.com/aurelia-jewels/storefront/internal/logger"
	"github.com/aurelia-jewels/storefront/internal/metrics"
	"github.com/aurelia-jewels/storefront/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "aj"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		MessageKey:    "error.login_too_many",
	}
	adminLoginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		MessageKey:    "error.login_too_many",
	}
	sessionCookie := cfg.Session.CookieName
	customerAuth := CustomerAuthMiddleware(cfg.CustomerJWT.SecretKey, sessionCookie, c.CustomerAuthService)
	optionalAuth := OptionalCustomerAuthMiddleware(sessionCookie, c.CustomerAuthService)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))
	if cfg.Metrics.Enabled {
		httpMetrics := metrics.NewHTTPMetrics(cfg.Metrics.Namespace, nil)
		r.Use(httpMetrics.Middleware())
		metricsPath := strings.TrimSpace(cfg.Metrics.Path)
		if metricsPath == "" {
			metricsPath = "/metrics"
		}
		r.GET(metricsPath, gin.WrapH(metrics.Handler(nil)))
	}

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		public.Use(optionalAuth)
		{
			public.GET("/products", publicHandler.GetProducts)
			public.GET("/products/:slug", publicHandler.GetProductBySlug)
			public.GET("/products/:slug/reviews", publicHandler.GetProductReviews)
			public.GET("/currencies", publicHandler.GetCurrencies)
		}
		apiV1.GET("/session", publicHandler.GetSession)
		apiV1.GET("/recently-viewed", optionalAuth, publicHandler.GetRecentlyViewed)
		apiV1.POST("/buy-now", optionalAuth, publicHandler.BuyNow)

		// 游客购物车
		guest := apiV1.Group("/guest")
		{
			guest.GET("/cart", publicHandler.GetGuestCart)
			guest.POST("/cart/items", publicHandler.AddGuestCartItem)
			guest.PATCH("/cart/items/:id", publicHandler.UpdateGuestCartItem)
			guest.DELETE("/cart/items/:id", publicHandler.DeleteGuestCartItem)
			guest.DELETE("/cart", publicHandler.ClearGuestCart)
		}

		// 顾客认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", publicHandler.Register)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.Login)
			auth.POST("/logout", publicHandler.Logout)
		}

		// 顾客接口（需鉴权）
		customer := apiV1.Group("")
		customer.Use(customerAuth)
		{
			customer.GET("/cart", publicHandler.GetCart)
			customer.POST("/cart/items", publicHandler.AddCartItem)
			customer.PATCH("/cart/items/:id", publicHandler.UpdateCartItem)
			customer.DELETE("/cart/items/:id", publicHandler.DeleteCartItem)
			customer.DELETE("/cart", publicHandler.ClearCart)

			customer.GET("/addresses", publicHandler.ListAddresses)
			customer.POST("/addresses", publicHandler.CreateAddress)

			customer.GET("/checkout/session", publicHandler.GetCheckoutSession)
			customer.POST("/checkout/address", publicHandler.SelectCheckoutAddress)
			customer.POST("/checkout/coupon", publicHandler.ApplyCoupon)
			customer.DELETE("/checkout/coupon", publicHandler.RemoveCoupon)
			customer.POST("/checkout/gift", publicHandler.ApplyGift)
			customer.DELETE("/checkout/gift", publicHandler.RemoveGift)
			customer.GET("/checkout/quote", publicHandler.GetQuote)
			customer.POST("/checkout/orders", publicHandler.PlaceOrder)
			customer.POST("/checkout/razorpay/verify", publicHandler.VerifyRazorpay)
			customer.POST("/checkout/paypal/verify", publicHandler.VerifyPaypal)
			customer.POST("/checkout/dismiss", publicHandler.DismissPayment)

			customer.GET("/orders", publicHandler.ListOrders)
			customer.GET("/orders/:id", publicHandler.GetOrder)

			customer.GET("/wishlist", publicHandler.ListWishlist)
			customer.POST("/wishlist", publicHandler.AddWishlist)
			customer.DELETE("/wishlist/:variant_id", publicHandler.RemoveWishlist)
			customer.POST("/public/products/:slug/reviews", publicHandler.CreateProductReview)
			customer.GET("/notifications", publicHandler.ListNotifications)
			customer.POST("/notifications/:id/read", publicHandler.MarkNotificationRead)
		}

		// 支付网关回调
		apiV1.POST("/payments/razorpay/webhook", publicHandler.RazorpayWebhook)
		apiV1.POST("/payments/paypal/webhook", publicHandler.PaypalWebhook)

		// 管理员接口
		admin := apiV1.Group("/admin")
		{
			// 登录接口（无需鉴权）
			admin.POST("/login", RateLimitMiddleware(redisClient, adminLoginRule, KeyByIPAndJSONField("username")), adminHandler.AdminLogin)

			// 需要鉴权的接口
			authorized := admin.Group("")
			authorized.Use(AdminAuthMiddleware(cfg.JWT.SecretKey, c.AdminAuthService), AdminRBACMiddleware(c.AuthzService))
			{
				authorized.GET("/currencies", adminHandler.GetCurrencies)
				authorized.PUT("/currencies/:code", adminHandler.UpdateCurrency)
				authorized.GET("/orders", adminHandler.GetOrders)
				authorized.GET("/roles", adminHandler.GetRoles)
				authorized.PUT("/admins/:id/roles", adminHandler.AssignAdminRoles)
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
