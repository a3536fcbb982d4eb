package constants

// 咨询状态常量
const (
	ConsultationStatusPending   = "pending"
	ConsultationStatusPaid      = "paid"
	ConsultationStatusScheduled = "scheduled"
	ConsultationStatusCompleted = "completed"
	ConsultationStatusCancelled = "cancelled"
)

// 咨询类型常量
const (
	ConsultationTypeOnline = "online"
	ConsultationTypeOffice = "office"
)

// 咨询时间线事件类型常量
const (
	EventTypeCreated          = "created"
	EventTypePaymentCompleted = "payment_completed"
	EventTypeApproved         = "approved"
	EventTypeScheduled        = "scheduled"
	EventTypeCompleted        = "completed"
	EventTypeCancelled        = "cancelled"
	EventTypeRefundRequested  = "refund_requested"
	EventTypeRefunded         = "refunded"
	EventTypeRefundFailed     = "refund_failed"
)

// 支付状态常量
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

// 支付提供方常量
const (
	PaymentProviderClick = "click"
	PaymentProviderPayme = "payme"
	PaymentProviderUzum  = "uzum"
)

// 问题状态常量
const (
	QuestionStatusPending  = "pending"
	QuestionStatusAnswered = "answered"
)

// 用户状态常量
const (
	UserStatusActive  = "active"
	UserStatusBlocked = "blocked"
)

// 队列名称常量
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 异步任务名称常量
const (
	TaskConsultationReminder = "consultation:reminder"
	TaskConsultationNotify   = "consultation:notify"
	TaskPaymentExpire        = "payment:expire"
)

// 提醒档位常量
const (
	ReminderKind24h = "24h"
	ReminderKind2h  = "2h"
	ReminderKind30m = "30m"
)
