package cache

import (
	"context"
	"time"
)

const faqListKey = "faq:list"

func faqKey(category string) string {
	if category == "" {
		return faqListKey + ":all"
	}
	return faqListKey + ":" + category
}

// GetFAQList 获取某分类的已发布条目快照
func GetFAQList(ctx context.Context, category string, dest interface{}) (bool, error) {
	return GetJSON(ctx, faqKey(category), dest)
}

// SetFAQList 写入某分类的已发布条目快照
func SetFAQList(ctx context.Context, category string, value interface{}, ttl time.Duration) error {
	return SetJSON(ctx, faqKey(category), value, ttl)
}

// DelFAQList 失效某分类的条目快照（内容变更后调用）
func DelFAQList(ctx context.Context, category string) error {
	if err := Del(ctx, faqKey(category)); err != nil {
		return err
	}
	// 全量列表与分类列表同时失效
	return Del(ctx, faqKey(""))
}
