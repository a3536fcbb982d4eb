package models

import (
	"time"

	"gorm.io/gorm"
)

// Question 用户提问表
type Question struct {
	ID         uint           `gorm:"primarykey" json:"id"`                  // 主键
	UserID     uint           `gorm:"index;not null" json:"user_id"`         // 用户ID
	Text       string         `gorm:"type:text;not null" json:"text"`        // 问题内容
	Category   string         `gorm:"index" json:"category,omitempty"`       // 问题分类
	Language   string         `gorm:"default:'ru'" json:"language"`          // 提问语言
	Status     string         `gorm:"index;default:'pending'" json:"status"` // 问题状态
	Answer     string         `gorm:"type:text" json:"answer,omitempty"`     // 回答内容
	AnsweredBy uint           `json:"answered_by,omitempty"`                 // 回答管理员ID
	AnsweredAt *time.Time     `json:"answered_at,omitempty"`                 // 回答时间
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`               // 创建时间
	UpdatedAt  time.Time      `json:"updated_at"`                            // 更新时间
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`                        // 软删除时间
}

// TableName 指定表名
func (Question) TableName() string {
	return "questions"
}
