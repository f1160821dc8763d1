package public

import (
	"context"
	"time"

	handlershared "github.com/aurelia-jewels/storefront/internal/http/handlers/shared"
	"github.com/aurelia-jewels/storefront/internal/http/response"
	"github.com/aurelia-jewels/storefront/internal/i18n"
	"github.com/aurelia-jewels/storefront/internal/models"
	"github.com/aurelia-jewels/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email    string           `json:"email" binding:"required"`
	Password string           `json:"password" binding:"required"`
	Name     string           `json:"name"`
	Phone    string           `json:"phone"`
	Intent   *CartItemRequest `json:"intent"`
}

// LoginRequest 登录请求，intent 为游客立即购买时暂存的商品
type LoginRequest struct {
	Email    string           `json:"email" binding:"required"`
	Password string           `json:"password" binding:"required"`
	Intent   *CartItemRequest `json:"intent"`
}

// LoginResponse 登录/注册响应
type LoginResponse struct {
	Token     string                        `json:"token"`
	ExpiresAt time.Time                     `json:"expires_at"`
	Customer  *models.Customer              `json:"customer"`
	Cart      *service.LoginReconcileResult `json:"cart,omitempty"`
}

// Register 顾客注册，成功后按登录处理
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	customer, token, expiresAt, err := h.CustomerAuthService.Register(service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Phone:    req.Phone,
	})
	if err != nil {
		respondAuthError(c, err, "error.register_failed")
		return
	}
	h.finishLogin(c, customer, token, expiresAt, req.Intent)
}

// Login 顾客登录
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	customer, token, expiresAt, err := h.CustomerAuthService.Login(req.Email, req.Password)
	if err != nil {
		respondAuthError(c, err, "error.login_failed")
		return
	}
	h.finishLogin(c, customer, token, expiresAt, req.Intent)
}

// finishLogin 写入会话 Cookie 并对账游客购物车；对账失败不影响登录结果
func (h *Handler) finishLogin(c *gin.Context, customer *models.Customer, token string, expiresAt time.Time, intentReq *CartItemRequest) {
	maxAge := int(time.Until(expiresAt).Seconds())
	handlershared.WriteCookie(c, h.Config.Session.CookieName, token, h.sessionCookieOptions(maxAge))

	var intent *service.CartItemInput
	if intentReq != nil {
		input := intentReq.ToInput()
		intent = &input
	}
	resp := LoginResponse{Token: token, ExpiresAt: expiresAt, Customer: customer}

	guestID := h.readGuestID(c)
	if guestID != "" || intent != nil {
		// 迁移使用独立上下文，客户端断开不应中断对账
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		reconciled, err := h.CartMigrationService.ReconcileAfterLogin(ctx, customer.ID, guestID, intent)
		if err != nil {
			handlershared.RequestLog(c).Warnw("login_cart_reconcile_failed", "customer_id", customer.ID, "error", err)
		} else {
			if reconciled.Migration != nil {
				reconciled.Migration.Localize(i18n.ResolveLocale(c))
			}
			resp.Cart = reconciled
		}
		if guestID != "" {
			h.clearGuestID(c)
		}
	}
	response.Success(c, resp)
}

// Logout 顾客退出登录，令牌版本递增使旧令牌失效
func (h *Handler) Logout(c *gin.Context) {
	ctx := c.Request.Context()
	if token := h.readCustomerToken(c); token != "" {
		if claims, err := h.CustomerAuthService.Authenticate(ctx, token); err == nil {
			if err := h.CustomerAuthService.Logout(ctx, claims.CustomerID); err != nil {
				respondError(c, response.CodeInternal, "error.logout_failed", err)
				return
			}
		}
	}
	handlershared.ClearCookie(c, h.Config.Session.CookieName, h.sessionCookieOptions(-1))
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "auth.logged_out"), gin.H{"logged_out": true})
}

// GetSession 并发校验顾客与管理员令牌，返回当前登录态
func (h *Handler) GetSession(c *gin.Context) {
	adminToken := handlershared.BearerToken(c.GetHeader("X-Admin-Authorization"))
	status, err := h.SessionService.Check(c.Request.Context(), h.readCustomerToken(c), adminToken)
	if err != nil {
		respondError(c, response.CodeInternal, "error.session_check_failed", err)
		return
	}
	data := gin.H{"customer": nil, "admin": nil}
	if status.Customer != nil {
		data["customer"] = gin.H{"id": status.Customer.CustomerID, "email": status.Customer.Email}
	}
	if status.Admin != nil {
		data["admin"] = gin.H{"id": status.Admin.AdminID, "username": status.Admin.Username}
	}
	response.Success(c, data)
}
