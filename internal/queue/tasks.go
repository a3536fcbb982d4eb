package queue

import (
	"encoding/json"

	"github.com/yurline/yurline/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskConsultationReminder 咨询开始前提醒任务
	TaskConsultationReminder = constants.TaskConsultationReminder
	// TaskConsultationNotify 咨询状态通知任务
	TaskConsultationNotify = constants.TaskConsultationNotify
	// TaskPaymentExpire 支付超时关闭任务
	TaskPaymentExpire = constants.TaskPaymentExpire
)

// ConsultationReminderPayload 提醒任务载荷
type ConsultationReminderPayload struct {
	ConsultationID uint   `json:"consultation_id"`
	Kind           string `json:"kind"` // 24h / 2h / 30m
}

// ConsultationNotifyPayload 状态通知任务载荷
type ConsultationNotifyPayload struct {
	ConsultationID uint   `json:"consultation_id"`
	Kind           string `json:"kind"` // 时间线事件类型
}

// PaymentExpirePayload 支付超时任务载荷
type PaymentExpirePayload struct {
	PaymentID uint `json:"payment_id"`
}

// NewConsultationReminderTask 创建提醒任务
func NewConsultationReminderTask(payload ConsultationReminderPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskConsultationReminder, body), nil
}

// NewConsultationNotifyTask 创建状态通知任务
func NewConsultationNotifyTask(payload ConsultationNotifyPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskConsultationNotify, body), nil
}

// NewPaymentExpireTask 创建支付超时任务
func NewPaymentExpireTask(payload PaymentExpirePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPaymentExpire, body), nil
}
