package models

import (
	"time"

	"gorm.io/gorm"
)

// Consultation 咨询表
type Consultation struct {
	ID                 uint           `gorm:"primarykey" json:"id"`                               // 主键
	UserID             uint           `gorm:"index;not null" json:"user_id"`                      // 用户ID
	Type               string         `gorm:"not null" json:"type"`                               // 咨询类型（online/office）
	Status             string         `gorm:"index;not null" json:"status"`                       // 咨询状态
	Amount             Money          `gorm:"type:decimal(20,2);not null" json:"amount"`          // 咨询金额（创建后不可变）
	Currency           string         `gorm:"not null;default:'UZS'" json:"currency"`             // 币种
	PhoneNumber        string         `gorm:"not null" json:"phone_number"`                       // 联系电话
	Description        string         `gorm:"type:text;not null" json:"description"`              // 问题描述
	ScheduledTime      *time.Time     `gorm:"index" json:"scheduled_time"`                        // 预约时间（仅 scheduled/completed 状态）
	PaidAt             *time.Time     `json:"paid_at"`                                            // 支付确认时间
	CompletedAt        *time.Time     `gorm:"index" json:"completed_at"`                          // 完成时间
	CancelledAt        *time.Time     `json:"cancelled_at"`                                       // 取消时间
	CancellationReason string         `json:"cancellation_reason,omitempty"`                      // 取消原因
	Version            uint64         `gorm:"not null;default:0" json:"-"`                        // 乐观锁版本号
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`                            // 创建时间
	UpdatedAt          time.Time      `json:"updated_at"`                                         // 更新时间
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`                                     // 软删除时间
	Payments           []Payment      `gorm:"foreignKey:ConsultationID" json:"payments,omitempty"` // 支付记录

	Events []ConsultationEvent `gorm:"foreignKey:ConsultationID" json:"timeline,omitempty"` // 时间线事件
}

// TableName 指定表名
func (Consultation) TableName() string {
	return "consultations"
}

// IsTerminal 判断是否终态
func (c *Consultation) IsTerminal() bool {
	return c.Status == "completed" || c.Status == "cancelled"
}

// ConsultationEvent 咨询时间线事件（仅追加，不修改不重排）
type ConsultationEvent struct {
	ID             uint      `gorm:"primarykey" json:"id"`                   // 主键
	ConsultationID uint      `gorm:"index;not null" json:"consultation_id"`  // 咨询ID
	Type           string    `gorm:"not null" json:"type"`                   // 事件类型
	Description    string    `gorm:"type:text" json:"description,omitempty"` // 事件描述
	CreatedAt      time.Time `gorm:"index" json:"created_at"`                // 事件时间
}

// TableName 指定表名
func (ConsultationEvent) TableName() string {
	return "consultation_events"
}
