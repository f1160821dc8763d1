package router

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/aurelia-jewels/storefront/internal/authz"
	"github.com/aurelia-jewels/storefront/internal/cache"
	"github.com/aurelia-jewels/storefront/internal/config"
	handlershared "github.com/aurelia-jewels/storefront/internal/http/handlers/shared"
	"github.com/aurelia-jewels/storefront/internal/http/response"
	"github.com/aurelia-jewels/storefront/internal/i18n"
	"github.com/aurelia-jewels/storefront/internal/logger"
	"github.com/aurelia-jewels/storefront/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	requestIDKey           = "request_id"
	requestIDHeader        = "X-Request-ID"
	customerIDContextKey   = "customer_id"
	adminIDContextKey      = "admin_id"
	adminIsSuperContextKey = "admin_is_super"
)

// CORSMiddleware 跨域中间件
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	allowedMethods := cfg.AllowedMethods
	if len(allowedMethods) == 0 {
		allowedMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	}
	allowedHeaders := cfg.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = []string{
			"Content-Type",
			"Content-Length",
			"Accept-Encoding",
			"Authorization",
			"X-Admin-Authorization",
			"Cache-Control",
			"X-Requested-With",
			"X-CSRF-Token",
		}
	}
	methodsHeader := strings.Join(allowedMethods, ", ")
	headersHeader := strings.Join(allowedHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowedOrigin := resolveAllowedOrigin(origin, allowedOrigins, cfg.AllowCredentials)
		if allowedOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			if allowedOrigin != "*" {
				c.Writer.Header().Add("Vary", "Origin")
			}
		}
		if cfg.AllowCredentials {
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", headersHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", methodsHeader)
		if cfg.MaxAge > 0 {
			c.Writer.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func resolveAllowedOrigin(origin string, allowedOrigins []string, allowCredentials bool) string {
	if len(allowedOrigins) == 0 {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			if allowCredentials && origin != "" {
				return origin
			}
			return "*"
		}
	}
	if origin == "" {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// RequestIDMiddleware 请求 ID 中间件
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// LoggerMiddleware 结构化请求日志中间件
func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	sugar := logger.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log := sugar.With(
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
		if len(c.Errors) > 0 {
			log.Errorw("request", "errors", c.Errors.String())
			return
		}
		log.Infow("request")
	}
}

func getRequestID(c *gin.Context) string {
	value, ok := c.Get(requestIDKey)
	if !ok {
		return ""
	}
	if requestID, ok := value.(string); ok {
		return requestID
	}
	return ""
}

// CustomerAuthenticator 顾客令牌校验
type CustomerAuthenticator interface {
	Authenticate(ctx context.Context, tokenString string) (*service.CustomerJWTClaims, error)
}

// AdminAuthenticator 管理员令牌校验
type AdminAuthenticator interface {
	Authenticate(ctx context.Context, tokenString string) (*service.AdminJWTClaims, *cache.AdminAuthState, error)
}

// readCustomerToken 顾客令牌：优先会话 Cookie，其次 Bearer
func readCustomerToken(c *gin.Context, cookieName string) (string, string) {
	if token := handlershared.ReadCookie(c, cookieName); token != "" {
		return token, ""
	}
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", "error.auth_header_missing"
	}
	token := handlershared.BearerToken(authHeader)
	if token == "" {
		return "", "error.auth_header_invalid"
	}
	return token, ""
}

func abortUnauthorized(c *gin.Context, key string) {
	msg := i18n.T(i18n.ResolveLocale(c), key)
	response.Unauthorized(c, msg)
	c.Abort()
}

func authErrorKey(err error) string {
	if errors.Is(err, service.ErrCustomerDisabled) {
		return "error.user_disabled"
	}
	return "error.token_invalid"
}

// CustomerAuthMiddleware 顾客鉴权中间件
func CustomerAuthMiddleware(secretKey, cookieName string, auth CustomerAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secretKey == "" {
			abortUnauthorized(c, "error.jwt_secret_missing")
			return
		}
		if auth == nil {
			abortUnauthorized(c, "error.token_invalid")
			return
		}
		token, missingKey := readCustomerToken(c, cookieName)
		if token == "" {
			abortUnauthorized(c, missingKey)
			return
		}
		claims, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, service.ErrTokenInvalid) && !errors.Is(err, service.ErrCustomerDisabled) {
				logger.Warnw("customer_auth_failed", "error", err)
			}
			abortUnauthorized(c, authErrorKey(err))
			return
		}
		c.Set(customerIDContextKey, claims.CustomerID)
		c.Set("customer_email", claims.Email)
		c.Next()
	}
}

// OptionalCustomerAuthMiddleware 可选顾客鉴权：令牌有效时写入顾客 ID，否则按游客处理
func OptionalCustomerAuthMiddleware(cookieName string, auth CustomerAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if auth != nil {
			if token, _ := readCustomerToken(c, cookieName); token != "" {
				if claims, err := auth.Authenticate(c.Request.Context(), token); err == nil {
					c.Set(customerIDContextKey, claims.CustomerID)
					c.Set("customer_email", claims.Email)
				}
			}
		}
		c.Next()
	}
}

// AdminAuthMiddleware 管理员 JWT 鉴权中间件
func AdminAuthMiddleware(secretKey string, auth AdminAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secretKey == "" {
			abortUnauthorized(c, "error.jwt_secret_missing")
			return
		}
		if auth == nil {
			abortUnauthorized(c, "error.token_invalid")
			return
		}
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "error.auth_header_missing")
			return
		}
		token := handlershared.BearerToken(authHeader)
		if token == "" {
			abortUnauthorized(c, "error.auth_header_invalid")
			return
		}
		claims, state, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, service.ErrTokenInvalid) {
				abortUnauthorized(c, "error.token_invalid")
				return
			}
			logger.Warnw("admin_auth_failed", "error", err)
			abortUnauthorized(c, "error.token_invalid")
			return
		}
		c.Set(adminIDContextKey, claims.AdminID)
		c.Set("username", claims.Username)
		c.Set(adminIsSuperContextKey, state != nil && state.IsSuper)
		c.Next()
	}
}

// AdminRBACMiddleware 管理端 RBAC 鉴权中间件，超级管理员直接放行
func AdminRBACMiddleware(authzService *authz.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if isSuper, ok := c.Get(adminIsSuperContextKey); ok {
			if superValue, typeOK := isSuper.(bool); typeOK && superValue {
				c.Next()
				return
			}
		}
		if authzService == nil {
			logger.Errorw("admin_rbac_service_unavailable")
			abortUnauthorized(c, "error.unauthorized")
			return
		}

		adminID := c.GetUint(adminIDContextKey)
		if adminID == 0 {
			abortUnauthorized(c, "error.unauthorized")
			return
		}

		resource := c.FullPath()
		if strings.TrimSpace(resource) == "" {
			resource = c.Request.URL.Path
		}

		allowed, err := authzService.EnforceAdmin(adminID, resource, c.Request.Method)
		if err != nil {
			logger.Errorw("admin_rbac_enforce_failed",
				"admin_id", adminID,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", err,
			)
			abortUnauthorized(c, "error.unauthorized")
			return
		}
		if !allowed {
			logger.Warnw("admin_rbac_permission_denied",
				"admin_id", adminID,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"resource", authz.NormalizeObject(resource),
			)
			msg := i18n.T(i18n.ResolveLocale(c), "error.forbidden")
			response.Forbidden(c, msg)
			c.Abort()
			return
		}

		c.Next()
	}
}
