package public

import (
	"strings"

	handlershared "github.com/aurelia-jewels/storefront/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

const defaultGuestCookieName = "guest_cart_id"

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func getContextUintWithKeys(c *gin.Context, key, invalidKey, typeInvalidKey string) (uint, bool) {
	return handlershared.GetContextUintWithKeys(c, key, invalidKey, typeInvalidKey)
}

func getCustomerID(c *gin.Context) (uint, bool) {
	return getContextUintWithKeys(c, "customer_id", "error.customer_id_invalid", "error.customer_id_type_invalid")
}

// optionalCustomerID 可选鉴权路由中读取顾客 ID，未登录返回 0
func optionalCustomerID(c *gin.Context) uint {
	value, ok := c.Get("customer_id")
	if !ok {
		return 0
	}
	if id, ok := value.(uint); ok {
		return id
	}
	return 0
}

func (h *Handler) guestCookieName() string {
	if name := strings.TrimSpace(h.Config.Cart.GuestCookieName); name != "" {
		return name
	}
	return defaultGuestCookieName
}

func (h *Handler) guestCookieOptions() handlershared.CookieOptions {
	return handlershared.CookieOptions{
		Domain: h.Config.Session.CookieDomain,
		Secure: h.Config.Session.CookieSecure,
		MaxAge: h.Config.Cart.GuestTTLHours * 3600,
	}
}

// readGuestID 只读游客 ID，不写 Cookie
func (h *Handler) readGuestID(c *gin.Context) string {
	return handlershared.ReadCookie(c, h.guestCookieName())
}

// ensureGuestID 游客写操作前确保存在游客 ID
func (h *Handler) ensureGuestID(c *gin.Context) string {
	return handlershared.EnsureGuestID(c, h.guestCookieName(), h.guestCookieOptions())
}

func (h *Handler) clearGuestID(c *gin.Context) {
	handlershared.ClearCookie(c, h.guestCookieName(), h.guestCookieOptions())
}

func (h *Handler) sessionCookieOptions(maxAge int) handlershared.CookieOptions {
	return handlershared.CookieOptions{
		Domain: h.Config.Session.CookieDomain,
		Secure: h.Config.Session.CookieSecure,
		MaxAge: maxAge,
	}
}

// readCustomerToken 顾客令牌：优先 Cookie，其次 Bearer
func (h *Handler) readCustomerToken(c *gin.Context) string {
	if token := handlershared.ReadCookie(c, h.Config.Session.CookieName); token != "" {
		return token
	}
	return handlershared.BearerToken(c.GetHeader("Authorization"))
}
