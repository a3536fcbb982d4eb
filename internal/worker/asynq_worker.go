package worker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/yurline/yurline/internal/logger"
	"github.com/yurline/yurline/internal/provider"
	"github.com/yurline/yurline/internal/queue"
	"github.com/yurline/yurline/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskConsultationNotify, c.handleConsultationNotify)
	mux.HandleFunc(queue.TaskConsultationReminder, c.handleConsultationReminder)
	mux.HandleFunc(queue.TaskPaymentExpire, c.handlePaymentExpire)
}

func (c *Consumer) handleConsultationNotify(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_consultation_notify_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.ConsultationNotifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_consultation_notify_unmarshal_failed", "error", err)
		return err
	}
	if payload.ConsultationID == 0 {
		logger.Debugw("worker_consultation_notify_skip_invalid_payload", "consultation_id", payload.ConsultationID)
		return nil
	}
	if c.NotificationService == nil {
		logger.Warnw("worker_consultation_notify_skip_service_nil", "consultation_id", payload.ConsultationID)
		return nil
	}
	if err := c.NotificationService.NotifyConsultationEvent(payload.ConsultationID, payload.Kind); err != nil {
		if errors.Is(err, service.ErrConsultationNotFound) {
			logger.Debugw("worker_consultation_notify_skip_not_found", "consultation_id", payload.ConsultationID)
			return nil
		}
		logger.Warnw("worker_consultation_notify_failed",
			"consultation_id", payload.ConsultationID,
			"kind", payload.Kind,
			"error", err,
		)
		return err
	}
	return nil
}

func (c *Consumer) handleConsultationReminder(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_consultation_reminder_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.ConsultationReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_consultation_reminder_unmarshal_failed", "error", err)
		return err
	}
	if payload.ConsultationID == 0 {
		logger.Debugw("worker_consultation_reminder_skip_invalid_payload", "consultation_id", payload.ConsultationID)
		return nil
	}
	if c.NotificationService == nil {
		logger.Warnw("worker_consultation_reminder_skip_service_nil", "consultation_id", payload.ConsultationID)
		return nil
	}
	if err := c.NotificationService.SendReminder(payload.ConsultationID, payload.Kind); err != nil {
		if errors.Is(err, service.ErrConsultationNotFound) {
			logger.Debugw("worker_consultation_reminder_skip_not_found", "consultation_id", payload.ConsultationID)
			return nil
		}
		logger.Warnw("worker_consultation_reminder_failed",
			"consultation_id", payload.ConsultationID,
			"kind", payload.Kind,
			"error", err,
		)
		return err
	}
	return nil
}

func (c *Consumer) handlePaymentExpire(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_payment_expire_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.PaymentExpirePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_payment_expire_unmarshal_failed", "error", err)
		return err
	}
	if payload.PaymentID == 0 {
		logger.Debugw("worker_payment_expire_skip_invalid_payload", "payment_id", payload.PaymentID)
		return nil
	}
	if c.PaymentService == nil {
		logger.Warnw("worker_payment_expire_skip_service_nil", "payment_id", payload.PaymentID)
		return nil
	}
	if err := c.PaymentService.ExpirePayment(payload.PaymentID); err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentNotFound):
			logger.Debugw("worker_payment_expire_skip_not_found", "payment_id", payload.PaymentID)
			return nil
		case errors.Is(err, service.ErrPaymentStateInvalid):
			logger.Debugw("worker_payment_expire_skip_state", "payment_id", payload.PaymentID)
			return nil
		default:
			logger.Warnw("worker_payment_expire_failed", "payment_id", payload.PaymentID, "error", err)
			return err
		}
	}
	return nil
}
