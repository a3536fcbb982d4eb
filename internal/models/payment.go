package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment 支付记录
type Payment struct {
	ID             uint           `gorm:"primarykey" json:"id"`                            // 主键
	ConsultationID uint           `gorm:"index;not null" json:"consultation_id"`           // 咨询ID
	UserID         uint           `gorm:"index;not null" json:"user_id"`                   // 用户ID
	Provider       string         `gorm:"index;not null" json:"provider"`                  // 支付提供方（click/payme/uzum）
	Status         string         `gorm:"index;not null" json:"status"`                    // 支付状态
	Amount         Money          `gorm:"type:decimal(20,2);not null" json:"amount"`       // 支付金额
	Currency       string         `gorm:"not null;default:'UZS'" json:"currency"`          // 币种
	TransactionID  string         `gorm:"index" json:"transaction_id"`                     // 本地交易号
	ProviderRef    string         `gorm:"index" json:"provider_ref"`                       // 第三方流水号
	PayURL         string         `gorm:"type:text" json:"pay_url,omitempty"`              // 跳转链接
	ErrorCode      string         `json:"error_code,omitempty"`                            // 网关错误码
	ErrorMessage   string         `json:"error_message,omitempty"`                         // 网关错误信息
	RefundAmount   *Money         `gorm:"type:decimal(20,2)" json:"refund_amount,omitempty"` // 退款金额
	RefundReason   string         `json:"refund_reason,omitempty"`                         // 退款原因
	RefundRef      string         `json:"refund_ref,omitempty"`                            // 退款流水号
	RefundedAt     *time.Time     `json:"refunded_at,omitempty"`                           // 退款时间
	PaidAt         *time.Time     `gorm:"index" json:"paid_at"`                            // 支付时间
	ExpiredAt      *time.Time     `gorm:"index" json:"expired_at"`                         // 过期时间
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                         // 创建时间
	UpdatedAt      time.Time      `json:"updated_at"`                                      // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                  // 软删除时间
}

// TableName 指定表名
func (Payment) TableName() string {
	return "payments"
}

// IsRefundable 判断是否可退款
func (p *Payment) IsRefundable() bool {
	return p.Status == "completed" && p.RefundAmount == nil
}
