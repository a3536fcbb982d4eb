package service

import (
	"strings"
	"time"

	"github.com/yurline/yurline/internal/constants"
	"github.com/yurline/yurline/internal/i18n"
	"github.com/yurline/yurline/internal/logger"
	"github.com/yurline/yurline/internal/models"
	"github.com/yurline/yurline/internal/repository"

	tele "gopkg.in/telebot.v3"
)

// NotificationService 通过 Telegram 机器人向用户推送通知。
// 只做下发，不处理入站消息。
type NotificationService struct {
	bot              *tele.Bot
	consultationRepo repository.ConsultationRepository
	paymentRepo      repository.PaymentRepository
	userRepo         repository.UserRepository
}

// NewNotificationService 创建通知服务
func NewNotificationService(botToken string, consultationRepo repository.ConsultationRepository, paymentRepo repository.PaymentRepository, userRepo repository.UserRepository) (*NotificationService, error) {
	service := &NotificationService{
		consultationRepo: consultationRepo,
		paymentRepo:      paymentRepo,
		userRepo:         userRepo,
	}
	token := strings.TrimSpace(botToken)
	if token == "" {
		return service, nil
	}
	bot, err := tele.NewBot(tele.Settings{
		Token:   token,
		Offline: false,
	})
	if err != nil {
		return nil, err
	}
	service.bot = bot
	return service, nil
}

// Enabled 判断机器人是否可用
func (s *NotificationService) Enabled() bool {
	return s != nil && s.bot != nil
}

// NotifyConsultationEvent 按事件类型向用户推送咨询通知
func (s *NotificationService) NotifyConsultationEvent(consultationID uint, kind string) error {
	consultation, user, err := s.loadConsultationUser(consultationID)
	if err != nil {
		return err
	}
	if consultation == nil || user == nil {
		return nil
	}

	locale := i18n.Normalize(user.Language)
	var message string
	switch kind {
	case constants.EventTypePaymentCompleted:
		message = i18n.Sprintf(locale, "bot.consultation_paid", consultation.ID)
	case constants.EventTypeApproved:
		message = i18n.Sprintf(locale, "bot.consultation_approved", consultation.ID)
	case constants.EventTypeScheduled:
		message = i18n.Sprintf(locale, "bot.consultation_scheduled", consultation.ID, formatScheduledTime(consultation))
	case constants.EventTypeCompleted:
		message = i18n.Sprintf(locale, "bot.consultation_completed", consultation.ID)
	case constants.EventTypeCancelled:
		reason := consultation.CancellationReason
		if reason == "" {
			reason = "-"
		}
		message = i18n.Sprintf(locale, "bot.consultation_cancelled", consultation.ID, reason)
	case constants.EventTypeRefunded:
		payment, err := s.paymentRepo.GetByID(latestRefundedPaymentID(consultation))
		if err != nil {
			return err
		}
		amount, currency := "-", consultation.Currency
		if payment != nil && payment.RefundAmount != nil {
			amount = payment.RefundAmount.String()
			currency = payment.Currency
		}
		message = i18n.Sprintf(locale, "bot.payment_refunded", consultation.ID, amount, currency)
	default:
		logger.Warnw("notification_unknown_kind", "consultation_id", consultationID, "kind", kind)
		return nil
	}

	return s.send(user, message)
}

// SendReminder 发送咨询开始前的提醒
func (s *NotificationService) SendReminder(consultationID uint, kind string) error {
	consultation, user, err := s.loadConsultationUser(consultationID)
	if err != nil {
		return err
	}
	if consultation == nil || user == nil {
		return nil
	}
	// 状态在排期后可能已变化，只提醒仍然有效的预约
	if consultation.Status != constants.ConsultationStatusScheduled || consultation.ScheduledTime == nil {
		logger.Infow("reminder_skipped",
			"consultation_id", consultationID,
			"kind", kind,
			"status", consultation.Status,
		)
		return nil
	}

	locale := i18n.Normalize(user.Language)
	timeLabel := consultation.ScheduledTime.Format("15:04")
	var messageKey string
	switch kind {
	case constants.ReminderKind24h:
		messageKey = "bot.reminder_24h"
	case constants.ReminderKind2h:
		messageKey = "bot.reminder_2h"
	case constants.ReminderKind30m:
		messageKey = "bot.reminder_30m"
	default:
		logger.Warnw("reminder_unknown_kind", "consultation_id", consultationID, "kind", kind)
		return nil
	}
	return s.send(user, i18n.Sprintf(locale, messageKey, consultation.ID, timeLabel))
}

// NotifyQuestionAnswered 推送律师答复
func (s *NotificationService) NotifyQuestionAnswered(question *models.Question) error {
	if question == nil {
		return nil
	}
	user, err := s.userRepo.GetByID(question.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}
	locale := i18n.Normalize(user.Language)
	return s.send(user, i18n.Sprintf(locale, "bot.question_answered", question.Answer))
}

func (s *NotificationService) loadConsultationUser(consultationID uint) (*models.Consultation, *models.User, error) {
	consultation, err := s.consultationRepo.GetByID(consultationID)
	if err != nil {
		return nil, nil, err
	}
	if consultation == nil {
		logger.Warnw("notification_consultation_missing", "consultation_id", consultationID)
		return nil, nil, nil
	}
	user, err := s.userRepo.GetByID(consultation.UserID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		logger.Warnw("notification_user_missing", "consultation_id", consultationID, "user_id", consultation.UserID)
		return consultation, nil, nil
	}
	return consultation, user, nil
}

func (s *NotificationService) send(user *models.User, message string) error {
	if !s.Enabled() {
		logger.Debugw("notification_bot_disabled", "telegram_id", user.TelegramID)
		return nil
	}
	recipient := &tele.User{ID: user.TelegramID}
	if _, err := s.bot.Send(recipient, message); err != nil {
		logger.Warnw("notification_send_failed",
			"telegram_id", user.TelegramID,
			"error", err,
		)
		return err
	}
	return nil
}

func formatScheduledTime(consultation *models.Consultation) string {
	if consultation.ScheduledTime == nil {
		return "-"
	}
	return consultation.ScheduledTime.Format("2006-01-02 15:04")
}

func latestRefundedPaymentID(consultation *models.Consultation) uint {
	var latest uint
	var latestAt time.Time
	for _, payment := range consultation.Payments {
		if payment.RefundedAt != nil && payment.RefundedAt.After(latestAt) {
			latest = payment.ID
			latestAt = *payment.RefundedAt
		}
	}
	return latest
}
