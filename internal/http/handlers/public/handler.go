package public

import "github.com/yurline/yurline/internal/provider"

// Handler 公开/机器人侧接口处理器入口
// 说明：该处理器仅用于 Telegram 机器人与公开 API。
type Handler struct {
	*provider.Container
}

// New 创建公开处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
