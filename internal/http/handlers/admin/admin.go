package admin

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/aurelia-jewels/storefront/internal/authz"
	handlershared "github.com/aurelia-jewels/storefront/internal/http/handlers/shared"
	"github.com/aurelia-jewels/storefront/internal/http/response"
	"github.com/aurelia-jewels/storefront/internal/repository"
	"github.com/aurelia-jewels/storefront/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token     string                 `json:"token"`
	User      map[string]interface{} `json:"user"`
	ExpiresAt string                 `json:"expires_at"`
}

// UpdateCurrencyRequest 更新汇率请求
type UpdateCurrencyRequest struct {
	ExchangeRate string  `json:"exchange_rate" binding:"required"`
	Symbol       *string `json:"symbol"`
}

// AssignRolesRequest 分配角色请求
type AssignRolesRequest struct {
	Roles []string `json:"roles"`
}

// AdminLogin 管理员登录
func (h *Handler) AdminLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	admin, token, expiresAt, err := h.AdminAuthService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(c, response.CodeUnauthorized, "error.invalid_credentials", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.login_failed", err)
		return
	}
	response.Success(c, LoginResponse{
		Token: token,
		User: map[string]interface{}{
			"id":       admin.ID,
			"username": admin.Username,
			"is_super": admin.IsSuper,
		},
		ExpiresAt: expiresAt.Format(time.RFC3339),
	})
}

// GetCurrencies 全部币种 (Admin)
func (h *Handler) GetCurrencies(c *gin.Context) {
	currencies, err := h.CurrencyService.ListAll()
	if err != nil {
		respondError(c, response.CodeInternal, "error.currency_fetch_failed", err)
		return
	}
	response.Success(c, currencies)
}

// UpdateCurrency 更新汇率与符号，基础币种汇率固定为 1
func (h *Handler) UpdateCurrency(c *gin.Context) {
	var req UpdateCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	rate, err := decimal.NewFromString(strings.TrimSpace(req.ExchangeRate))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.currency_rate_invalid", nil)
		return
	}
	currency, err := h.CurrencyService.UpdateRate(c.Request.Context(), c.Param("code"), rate, req.Symbol)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCurrencyNotFound):
			respondError(c, response.CodeNotFound, "error.currency_not_found", nil)
		case errors.Is(err, service.ErrCurrencyRateInvalid):
			respondError(c, response.CodeBadRequest, "error.currency_rate_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.currency_update_failed", err)
		}
		return
	}
	if adminID, ok := c.Get("admin_id"); ok {
		requestLog(c).Infow("admin_currency_rate_updated", "admin_id", adminID, "code", currency.Code, "rate", currency.ExchangeRate.String())
	}
	response.Success(c, currency)
}

// GetOrders 订单列表 (Admin)
func (h *Handler) GetOrders(c *gin.Context) {
	page, pageSize := handlershared.ReadPagination(c)

	filter := repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.TrimSpace(c.Query("status")),
		OrderNo:  strings.TrimSpace(c.Query("order_no")),
	}
	if raw := strings.TrimSpace(c.Query("customer_id")); raw != "" {
		customerID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return
		}
		filter.CustomerID = uint(customerID)
	}
	var ok bool
	if filter.CreatedFrom, ok = parseDateQuery(c, "created_from"); !ok {
		return
	}
	if filter.CreatedTo, ok = parseDateQuery(c, "created_to"); !ok {
		return
	}

	orders, total, err := h.OrderService.ListAdmin(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, orders, response.BuildPagination(page, pageSize, total))
}

// GetRoles 可分配的后台角色
func (h *Handler) GetRoles(c *gin.Context) {
	response.Success(c, authz.Roles())
}

// AssignAdminRoles 覆盖设置管理员角色
func (h *Handler) AssignAdminRoles(c *gin.Context) {
	operatorID, ok := getAdminID(c)
	if !ok {
		return
	}
	adminID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || adminID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	var req AssignRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	roles, err := h.AdminRoleService.AssignRoles(operatorID, uint(adminID), req.Roles)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "error.admin_not_found", nil)
		case errors.Is(err, service.ErrAdminRoleInvalid):
			respondError(c, response.CodeBadRequest, "error.admin_role_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.admin_roles_failed", err)
		}
		return
	}
	response.Success(c, gin.H{"admin_id": adminID, "roles": roles})
}

// parseDateQuery 解析 YYYY-MM-DD 日期查询参数
func parseDateQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return nil, false
	}
	return &parsed, true
}
