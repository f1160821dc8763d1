package shared

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CookieOptions Cookie 写入参数
type CookieOptions struct {
	Domain string
	Secure bool
	MaxAge int
}

// ReadCookie 读取 Cookie，不存在时返回空字符串
func ReadCookie(c *gin.Context, name string) string {
	value, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(value)
}

// WriteCookie 写入 httpOnly Cookie
func WriteCookie(c *gin.Context, name, value string, opts CookieOptions) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, opts.MaxAge, "/", opts.Domain, opts.Secure, true)
}

// ClearCookie 删除 Cookie
func ClearCookie(c *gin.Context, name string, opts CookieOptions) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, "", -1, "/", opts.Domain, opts.Secure, true)
}

// EnsureGuestID 读取游客 ID，不存在或格式不合法时生成并写回
func EnsureGuestID(c *gin.Context, name string, opts CookieOptions) string {
	if existing := ReadCookie(c, name); existing != "" {
		if _, err := uuid.Parse(existing); err == nil {
			return existing
		}
	}
	id := uuid.NewString()
	WriteCookie(c, name, id, opts)
	return id
}
