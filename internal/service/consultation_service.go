package service

import (
	"strings"
	"time"

	"github.com/yurline/yurline/internal/constants"
	"github.com/yurline/yurline/internal/logger"
	"github.com/yurline/yurline/internal/models"
	"github.com/yurline/yurline/internal/queue"
	"github.com/yurline/yurline/internal/repository"

	"github.com/shopspring/decimal"
)

// ConsultationService 咨询生命周期服务
type ConsultationService struct {
	consultationRepo repository.ConsultationRepository
	paymentRepo      repository.PaymentRepository
	userRepo         repository.UserRepository
	queueClient      *queue.Client
	availability     *AvailabilityService
	locks            *consultationLocks
	minAmount        decimal.Decimal
	maxAmount        decimal.Decimal
	currency         string
}

// NewConsultationService 创建咨询服务
func NewConsultationService(consultationRepo repository.ConsultationRepository, paymentRepo repository.PaymentRepository, userRepo repository.UserRepository, queueClient *queue.Client, availability *AvailabilityService, minAmount, maxAmount float64, currency string) *ConsultationService {
	return &ConsultationService{
		consultationRepo: consultationRepo,
		paymentRepo:      paymentRepo,
		userRepo:         userRepo,
		queueClient:      queueClient,
		availability:     availability,
		locks:            newConsultationLocks(),
		minAmount:        decimal.NewFromFloat(minAmount),
		maxAmount:        decimal.NewFromFloat(maxAmount),
		currency:         currency,
	}
}

var allowedTransitions = map[string]map[string]bool{
	constants.ConsultationStatusPending: {
		constants.ConsultationStatusPaid:      true,
		constants.ConsultationStatusCancelled: true,
	},
	constants.ConsultationStatusPaid: {
		constants.ConsultationStatusScheduled: true,
		constants.ConsultationStatusCancelled: true,
	},
	constants.ConsultationStatusScheduled: {
		constants.ConsultationStatusCompleted: true,
		constants.ConsultationStatusCancelled: true,
	},
}

func isTransitionAllowed(current, target string) bool {
	nexts, ok := allowedTransitions[current]
	if !ok {
		return false
	}
	return nexts[target]
}

// CreateConsultationInput 创建咨询输入
type CreateConsultationInput struct {
	UserID      uint
	Type        string
	Amount      models.Money
	PhoneNumber string
	Description string
}

// Create 创建咨询申请
func (s *ConsultationService) Create(input CreateConsultationInput) (*models.Consultation, error) {
	if input.UserID == 0 {
		return nil, ErrUserNotFound
	}
	user, err := s.userRepo.GetByID(input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.IsBlocked() {
		return nil, ErrUserBlocked
	}

	consultationType := strings.TrimSpace(input.Type)
	if consultationType != constants.ConsultationTypeOnline && consultationType != constants.ConsultationTypeOffice {
		return nil, ErrConsultationStateInvalid
	}
	amount := input.Amount.Decimal
	if amount.Cmp(s.minAmount) < 0 || amount.Cmp(s.maxAmount) > 0 {
		return nil, ErrAmountOutOfRange
	}
	phone := strings.TrimSpace(input.PhoneNumber)
	description := strings.TrimSpace(input.Description)
	if phone == "" || description == "" {
		return nil, ErrConsultationStateInvalid
	}

	consultation := &models.Consultation{
		UserID:      input.UserID,
		Type:        consultationType,
		Status:      constants.ConsultationStatusPending,
		Amount:      input.Amount,
		Currency:    s.currency,
		PhoneNumber: phone,
		Description: description,
	}
	if err := s.consultationRepo.Create(consultation); err != nil {
		return nil, err
	}
	s.appendEvent(consultation.ID, constants.EventTypeCreated, "consultation requested")

	logger.Infow("consultation_created",
		"consultation_id", consultation.ID,
		"user_id", consultation.UserID,
		"type", consultation.Type,
		"amount", consultation.Amount.String(),
	)
	return consultation, nil
}

// MarkPaid 支付确认后推进咨询状态（由支付回调触发）
func (s *ConsultationService) MarkPaid(consultationID uint) (*models.Consultation, error) {
	unlock := s.locks.Lock(consultationID)
	defer unlock()

	consultation, err := s.consultationRepo.GetByID(consultationID)
	if err != nil {
		return nil, err
	}
	if consultation == nil {
		return nil, ErrConsultationNotFound
	}
	if consultation.Status == constants.ConsultationStatusPaid {
		return consultation, nil
	}
	if !isTransitionAllowed(consultation.Status, constants.ConsultationStatusPaid) {
		return nil, ErrConsultationStateInvalid
	}

	now := time.Now()
	hit, err := s.consultationRepo.UpdateStatusWithVersion(consultation.ID, consultation.Version, constants.ConsultationStatusPaid, map[string]interface{}{
		"paid_at": now,
	})
	if err != nil {
		return nil, err
	}
	if !hit {
		return nil, ErrConsultationConflict
	}
	s.appendEvent(consultation.ID, constants.EventTypePaymentCompleted, "payment confirmed")
	s.enqueueNotify(consultation.ID, constants.EventTypePaymentCompleted)

	logger.Infow("consultation_paid",
		"consultation_id", consultation.ID,
		"user_id", consultation.UserID,
	)
	return s.consultationRepo.GetByID(consultation.ID)
}

// Approve 律师确认受理。待支付状态下核对支付记录，存在已完成支付则推进为已支付。
func (s *ConsultationService) Approve(consultationID uint) (*models.Consultation, error) {
	unlock := s.locks.Lock(consultationID)
	defer unlock()

	consultation, err := s.consultationRepo.GetByID(consultationID)
	if err != nil {
		return nil, err
	}
	if consultation == nil {
		return nil, ErrConsultationNotFound
	}

	if consultation.Status == constants.ConsultationStatusPending {
		payment, err := s.paymentRepo.GetCompletedByConsultation(consultation.ID)
		if err != nil {
			return nil, err
		}
		if payment == nil {
			return nil, ErrPaymentNotConfirmed
		}

		now := time.Now()
		hit, err := s.consultationRepo.UpdateStatusWithVersion(consultation.ID, consultation.Version, constants.ConsultationStatusPaid, map[string]interface{}{
			"paid_at": now,
		})
		if err != nil {
			return nil, err
		}
		if !hit {
			return nil, ErrConsultationConflict
		}
		s.appendEvent(consultation.ID, constants.EventTypePaymentCompleted, "payment confirmed")
	} else if consultation.Status != constants.ConsultationStatusPaid {
		return nil, ErrConsultationStateInvalid
	}

	s.appendEvent(consultation.ID, constants.EventTypeApproved, "accepted by lawyer")
	s.enqueueNotify(consultation.ID, constants.EventTypeApproved)

	logger.Infow("consultation_approved", "consultation_id", consultation.ID)
	return s.consultationRepo.GetByID(consultation.ID)
}

// Schedule 为已支付的咨询安排时间
func (s *ConsultationService) Schedule(consultationID uint, slot time.Time) (*models.Consultation, error) {
	unlock := s.locks.Lock(consultationID)
	defer unlock()

	consultation, err := s.consultationRepo.GetByID(consultationID)
	if err != nil {
		return nil, err
	}
	if consultation == nil {
		return nil, ErrConsultationNotFound
	}
	if consultation.Status == constants.ConsultationStatusPending {
		return nil, ErrPaymentNotConfirmed
	}
	if !isTransitionAllowed(consultation.Status, constants.ConsultationStatusScheduled) {
		return nil, ErrConsultationStateInvalid
	}

	slot = slot.Truncate(time.Minute)
	if err := s.availability.ValidateSlot(slot); err != nil {
		return nil, err
	}
	taken, err := s.consultationRepo.ExistsScheduledAt(slot)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSlotUnavailable
	}

	hit, err := s.consultationRepo.UpdateStatusWithVersion(consultation.ID, consultation.Version, constants.ConsultationStatusScheduled, map[string]interface{}{
		"scheduled_time": slot,
	})
	if err != nil {
		return nil, err
	}
	if !hit {
		return nil, ErrConsultationConflict
	}

	s.appendEvent(consultation.ID, constants.EventTypeScheduled, "scheduled for "+slot.Format("2006-01-02 15:04"))
	s.availability.InvalidateDay(slot)
	s.enqueueNotify(consultation.ID, constants.EventTypeScheduled)
	s.enqueueReminders(consultation.ID, slot)

	logger.Infow("consultation_scheduled",
		"consultation_id", consultation.ID,
		"scheduled_time", slot,
	)
	return s.consultationRepo.GetByID(consultation.ID)
}

// Cancel 取消咨询（pending/paid/scheduled 均可）
func (s *ConsultationService) Cancel(consultationID uint, reason string) (*models.Consultation, error) {
	unlock := s.locks.Lock(consultationID)
	defer unlock()

	consultation, err := s.consultationRepo.GetByID(consultationID)
	if err != nil {
		return nil, err
	}
	if consultation == nil {
		return nil, ErrConsultationNotFound
	}
	if !isTransitionAllowed(consultation.Status, constants.ConsultationStatusCancelled) {
		return nil, ErrConsultationStateInvalid
	}

	now := time.Now()
	reason = strings.TrimSpace(reason)
	hit, err := s.consultationRepo.UpdateStatusWithVersion(consultation.ID, consultation.Version, constants.ConsultationStatusCancelled, map[string]interface{}{
		"cancelled_at":        now,
		"cancellation_reason": reason,
	})
	if err != nil {
		return nil, err
	}
	if !hit {
		return nil, ErrConsultationConflict
	}

	description := "cancelled"
	if reason != "" {
		description = "cancelled: " + reason
	}
	s.appendEvent(consultation.ID, constants.EventTypeCancelled, description)
	if consultation.ScheduledTime != nil {
		s.availability.InvalidateDay(*consultation.ScheduledTime)
	}
	s.enqueueNotify(consultation.ID, constants.EventTypeCancelled)

	logger.Infow("consultation_cancelled",
		"consultation_id", consultation.ID,
		"previous_status", consultation.Status,
		"reason", reason,
	)
	return s.consultationRepo.GetByID(consultation.ID)
}

// Complete 完成咨询（预约时间已过方可）
func (s *ConsultationService) Complete(consultationID uint) (*models.Consultation, error) {
	unlock := s.locks.Lock(consultationID)
	defer unlock()

	consultation, err := s.consultationRepo.GetByID(consultationID)
	if err != nil {
		return nil, err
	}
	if consultation == nil {
		return nil, ErrConsultationNotFound
	}
	if !isTransitionAllowed(consultation.Status, constants.ConsultationStatusCompleted) {
		return nil, ErrConsultationStateInvalid
	}
	if consultation.ScheduledTime == nil || consultation.ScheduledTime.After(time.Now()) {
		return nil, ErrConsultationNotDue
	}

	now := time.Now()
	hit, err := s.consultationRepo.UpdateStatusWithVersion(consultation.ID, consultation.Version, constants.ConsultationStatusCompleted, map[string]interface{}{
		"completed_at": now,
	})
	if err != nil {
		return nil, err
	}
	if !hit {
		return nil, ErrConsultationConflict
	}

	s.appendEvent(consultation.ID, constants.EventTypeCompleted, "consultation completed")
	s.enqueueNotify(consultation.ID, constants.EventTypeCompleted)

	logger.Infow("consultation_completed", "consultation_id", consultation.ID)
	return s.consultationRepo.GetByID(consultation.ID)
}

func (s *ConsultationService) appendEvent(consultationID uint, eventType, description string) {
	event := &models.ConsultationEvent{
		ConsultationID: consultationID,
		Type:           eventType,
		Description:    description,
	}
	if err := s.consultationRepo.AppendEvent(event); err != nil {
		logger.Warnw("consultation_event_append_failed",
			"consultation_id", consultationID,
			"event_type", eventType,
			"error", err,
		)
	}
}

func (s *ConsultationService) enqueueNotify(consultationID uint, kind string) {
	if s.queueClient == nil {
		return
	}
	if err := s.queueClient.EnqueueConsultationNotify(consultationID, kind); err != nil {
		logger.Warnw("consultation_notify_enqueue_failed",
			"consultation_id", consultationID,
			"kind", kind,
			"error", err,
		)
	}
}

func (s *ConsultationService) enqueueReminders(consultationID uint, slot time.Time) {
	if s.queueClient == nil {
		return
	}
	offsets := map[string]time.Duration{
		constants.ReminderKind24h: 24 * time.Hour,
		constants.ReminderKind2h:  2 * time.Hour,
		constants.ReminderKind30m: 30 * time.Minute,
	}
	now := time.Now()
	for kind, offset := range offsets {
		fireAt := slot.Add(-offset)
		if !fireAt.After(now) {
			continue
		}
		if err := s.queueClient.EnqueueConsultationReminder(consultationID, kind, fireAt); err != nil {
			logger.Warnw("consultation_reminder_enqueue_failed",
				"consultation_id", consultationID,
				"kind", kind,
				"error", err,
			)
		}
	}
}
