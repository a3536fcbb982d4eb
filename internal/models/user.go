package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户表
type User struct {
	ID          uint           `gorm:"primarykey" json:"id"`                    // 主键
	TelegramID  int64          `gorm:"uniqueIndex;not null" json:"telegram_id"` // Telegram 用户ID
	Username    string         `gorm:"index" json:"username,omitempty"`         // Telegram 用户名
	FullName    string         `gorm:"default:''" json:"full_name"`             // 姓名
	PhoneNumber string         `json:"phone_number,omitempty"`                  // 联系电话
	Language    string         `gorm:"default:'ru'" json:"language"`            // 语言偏好（ru/uz/en）
	Status      string         `gorm:"index;default:'active'" json:"status"`    // 账号状态
	BlockedAt   *time.Time     `json:"blocked_at,omitempty"`                    // 封禁时间
	LastSeenAt  *time.Time     `json:"last_seen_at"`                            // 最后活跃时间
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                 // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                              // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                          // 软删除时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// IsBlocked 判断是否被封禁
func (u *User) IsBlocked() bool {
	return u.Status == "blocked"
}
