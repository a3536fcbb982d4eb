package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// 支持的语言
const (
	LocaleRU = "ru"
	LocaleUZ = "uz"
	LocaleEN = "en"
)

// DefaultLocale 默认语言
const DefaultLocale = LocaleRU

// ResolveLocale 解析请求语言（query > header > 默认）
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return DefaultLocale
	}
	if lang := normalizeLocale(c.Query("lang")); lang != "" {
		return lang
	}
	if lang := normalizeLocale(c.GetHeader("Accept-Language")); lang != "" {
		return lang
	}
	return DefaultLocale
}

// Normalize 规范化语言代码
func Normalize(locale string) string {
	if lang := normalizeLocale(locale); lang != "" {
		return lang
	}
	return DefaultLocale
}

// T 返回指定语言的文案，缺失时回退默认语言
func T(locale, key string) string {
	locale = Normalize(locale)
	if catalog, ok := messages[locale]; ok {
		if message, ok := catalog[key]; ok {
			return message
		}
	}
	if message, ok := messages[DefaultLocale][key]; ok {
		return message
	}
	return key
}

// Sprintf 返回格式化后的本地化文案
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}

func normalizeLocale(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return ""
	}
	// Accept-Language 可能是 "ru-RU,ru;q=0.9"
	if idx := strings.IndexAny(raw, ",;"); idx >= 0 {
		raw = raw[:idx]
	}
	if idx := strings.Index(raw, "-"); idx >= 0 {
		raw = raw[:idx]
	}
	switch raw {
	case LocaleRU, LocaleUZ, LocaleEN:
		return raw
	}
	return ""
}
