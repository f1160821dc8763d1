package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	LocaleEnIN = "en-IN"
	LocaleHiIN = "hi-IN"

	// DefaultLocale 默认语言
	DefaultLocale = LocaleEnIN
)

var supportedLocales = []string{LocaleEnIN, LocaleHiIN}

// ResolveLocale 解析请求语言：X-Locale 优先，其次 Accept-Language
func ResolveLocale(c *gin.Context) string {
	if c == nil || c.Request == nil {
		return DefaultLocale
	}
	if locale := NormalizeLocale(c.GetHeader("X-Locale")); locale != "" {
		return locale
	}
	for _, part := range strings.Split(c.GetHeader("Accept-Language"), ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if locale := NormalizeLocale(tag); locale != "" {
			return locale
		}
	}
	return DefaultLocale
}

// NormalizeLocale 归一化语言标签，不支持时返回空字符串
func NormalizeLocale(raw string) string {
	tag := strings.ToLower(strings.TrimSpace(raw))
	if tag == "" {
		return ""
	}
	tag = strings.ReplaceAll(tag, "_", "-")
	for _, locale := range supportedLocales {
		if strings.EqualFold(locale, tag) {
			return locale
		}
	}
	switch {
	case tag == "hi" || strings.HasPrefix(tag, "hi-"):
		return LocaleHiIN
	case tag == "en" || strings.HasPrefix(tag, "en-"):
		return LocaleEnIN
	}
	return ""
}

// T 翻译消息 key，缺失时回退默认语言，再回退 key 本身
func T(locale, key string) string {
	if msgs, ok := catalog[locale]; ok {
		if msg, ok := msgs[key]; ok {
			return msg
		}
	}
	if msg, ok := catalog[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Sprintf 翻译并格式化
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}
