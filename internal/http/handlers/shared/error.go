package shared

import (
	"github.com/aurelia-jewels/storefront/internal/http/response"
	"github.com/aurelia-jewels/storefront/internal/i18n"
	"github.com/aurelia-jewels/storefront/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回国际化错误响应；服务端错误记 error，其余有原始错误时记 warn
func RespondError(c *gin.Context, code int, key string, err error) {
	appErr := response.WrapError(code, key, i18n.T(i18n.ResolveLocale(c), key), err)
	if err != nil {
		log := RequestLog(c)
		if customerID, ok := c.Get("customer_id"); ok {
			log = log.With("customer_id", customerID)
		}
		if code >= response.CodeInternal {
			log.Errorw("handler_error", "code", appErr.Code, "key", appErr.Key, "path", c.FullPath(), "error", err)
		} else {
			log.Warnw("handler_rejected", "code", appErr.Code, "key", appErr.Key, "path", c.FullPath(), "error", err)
		}
	}
	response.Error(c, appErr.Code, appErr.Message)
}

// RespondConflict 返回 409 并附带服务端当前状态
func RespondConflict(c *gin.Context, key string, current interface{}) {
	RequestLog(c).Infow("handler_conflict", "key", key, "path", c.FullPath())
	response.Conflict(c, i18n.T(i18n.ResolveLocale(c), key), current)
}
