package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/yurline/yurline/internal/constants"
	"github.com/yurline/yurline/internal/logger"
	"github.com/yurline/yurline/internal/models"
	"github.com/yurline/yurline/internal/queue"
	"github.com/yurline/yurline/internal/repository"

	"github.com/shopspring/decimal"
)

// PaymentService 支付服务
type PaymentService struct {
	paymentRepo      repository.PaymentRepository
	consultationRepo repository.ConsultationRepository
	userRepo         repository.UserRepository
	queueClient      *queue.Client
	consultationSvc  *ConsultationService
	gateways         *GatewayRegistry
	locks            *consultationLocks
	minAmount        decimal.Decimal
	maxAmount        decimal.Decimal
	expireMinutes    int
}

// NewPaymentService 创建支付服务
func NewPaymentService(paymentRepo repository.PaymentRepository, consultationRepo repository.ConsultationRepository, userRepo repository.UserRepository, queueClient *queue.Client, consultationSvc *ConsultationService, gateways *GatewayRegistry, minAmount, maxAmount float64, expireMinutes int) *PaymentService {
	if expireMinutes <= 0 {
		expireMinutes = 15
	}
	return &PaymentService{
		paymentRepo:      paymentRepo,
		consultationRepo: consultationRepo,
		userRepo:         userRepo,
		queueClient:      queueClient,
		consultationSvc:  consultationSvc,
		gateways:         gateways,
		locks:            newConsultationLocks(),
		minAmount:        decimal.NewFromFloat(minAmount),
		maxAmount:        decimal.NewFromFloat(maxAmount),
		expireMinutes:    expireMinutes,
	}
}

// CreatePaymentInput 创建支付请求
type CreatePaymentInput struct {
	ConsultationID uint
	UserID         uint
	Provider       string
	ReturnURL      string
}

// CreatePayment 为待支付的咨询发起网关支付
func (s *PaymentService) CreatePayment(ctx context.Context, input CreatePaymentInput) (*models.Payment, error) {
	gateway, ok := s.gateways.Resolve(input.Provider)
	if !ok {
		return nil, ErrPaymentProviderUnknown
	}

	consultation, err := s.consultationRepo.GetByID(input.ConsultationID)
	if err != nil {
		return nil, err
	}
	if consultation == nil {
		return nil, ErrConsultationNotFound
	}
	if input.UserID != 0 && consultation.UserID != input.UserID {
		return nil, ErrConsultationNotFound
	}
	if consultation.Status != constants.ConsultationStatusPending {
		return nil, ErrConsultationStateInvalid
	}

	amount := consultation.Amount.Decimal
	if amount.Cmp(s.minAmount) < 0 || amount.Cmp(s.maxAmount) > 0 {
		return nil, ErrAmountOutOfRange
	}

	// 同一咨询复用未过期的待支付记录
	if pending, err := s.paymentRepo.GetPendingByConsultation(consultation.ID); err != nil {
		return nil, err
	} else if pending != nil && pending.Provider == gateway.Name() {
		if pending.ExpiredAt == nil || pending.ExpiredAt.After(time.Now()) {
			return pending, nil
		}
	}

	now := time.Now()
	expiredAt := now.Add(time.Duration(s.expireMinutes) * time.Minute)
	payment := &models.Payment{
		ConsultationID: consultation.ID,
		UserID:         consultation.UserID,
		Provider:       gateway.Name(),
		Status:         constants.PaymentStatusPending,
		Amount:         consultation.Amount,
		Currency:       consultation.Currency,
		TransactionID:  generatePaymentNo(),
		ExpiredAt:      &expiredAt,
	}
	if err := s.paymentRepo.Create(payment); err != nil {
		return nil, err
	}

	result, err := gateway.CreatePayment(ctx, GatewayCreateInput{
		OrderNo:   payment.TransactionID,
		Amount:    payment.Amount.String(),
		Currency:  payment.Currency,
		ReturnURL: input.ReturnURL,
	})
	if err != nil {
		s.markPaymentFailed(payment, err)
		return nil, err
	}

	updates := map[string]interface{}{
		"pay_url": result.PayURL,
	}
	if result.TradeNo != "" {
		updates["provider_ref"] = result.TradeNo
	}
	if err := s.paymentRepo.UpdateStatus(payment.ID, constants.PaymentStatusPending, updates); err != nil {
		return nil, err
	}
	payment.PayURL = result.PayURL
	payment.ProviderRef = result.TradeNo

	if s.queueClient != nil {
		if err := s.queueClient.EnqueuePaymentExpire(payment.ID, expiredAt); err != nil {
			logger.Warnw("payment_expire_enqueue_failed", "payment_id", payment.ID, "error", err)
		}
	}

	logger.Infow("payment_created",
		"payment_id", payment.ID,
		"consultation_id", consultation.ID,
		"provider", payment.Provider,
		"amount", payment.Amount.String(),
	)
	return payment, nil
}

// RefundInput 退款请求
type RefundInput struct {
	PaymentID uint
	Amount    models.Money
	Reason    string
}

// Refund 对已完成的支付执行网关退款。
// 网关调用在释放锁后进行，提交前重新校验状态；退款落账后关联咨询若未终态则随之取消。
func (s *PaymentService) Refund(ctx context.Context, input RefundInput) (*models.Payment, error) {
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return nil, ErrRefundReasonInvalid
	}

	payment, consultation, gateway, err := s.validateRefund(input)
	if err != nil {
		return nil, err
	}

	s.appendConsultationEvent(consultation.ID, constants.EventTypeRefundRequested,
		fmt.Sprintf("refund of %s %s requested", input.Amount.String(), payment.Currency))

	// 锁外调用网关，避免持锁等待慢网关
	result, gatewayErr := gateway.Refund(ctx, GatewayRefundInput{
		TradeNo: payment.ProviderRef,
		OrderNo: payment.TransactionID,
		Amount:  input.Amount.String(),
		Reason:  reason,
	})
	if gatewayErr != nil {
		s.recordRefundFailure(payment, consultation.ID, gatewayErr)
		return nil, gatewayErr
	}

	payment, err = s.commitRefund(consultation.ID, payment.ID, input.Amount.Decimal, reason, result.RefundRef)
	if err != nil {
		return nil, err
	}

	s.appendConsultationEvent(consultation.ID, constants.EventTypeRefunded,
		fmt.Sprintf("refund of %s %s issued", input.Amount.String(), payment.Currency))
	if s.queueClient != nil {
		if err := s.queueClient.EnqueueConsultationNotify(consultation.ID, constants.EventTypeRefunded); err != nil {
			logger.Warnw("refund_notify_enqueue_failed", "consultation_id", consultation.ID, "error", err)
		}
	}

	// 已退款的咨询无法继续履约，未终态则随退款取消
	if _, err := s.consultationSvc.Cancel(consultation.ID, "payment refunded"); err != nil && !errors.Is(err, ErrConsultationStateInvalid) {
		logger.Warnw("refund_consultation_cancel_failed",
			"consultation_id", consultation.ID,
			"error", err,
		)
	}

	logger.Infow("payment_refunded",
		"payment_id", payment.ID,
		"consultation_id", consultation.ID,
		"refund_amount", input.Amount.String(),
		"refund_ref", result.RefundRef,
	)
	return s.paymentRepo.GetByID(payment.ID)
}

// CancelConsultation 取消咨询；存在已完成支付时先全额退款，退款失败则取消不生效。
func (s *PaymentService) CancelConsultation(ctx context.Context, consultationID uint, reason string) (*models.Consultation, error) {
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

	payment, err := s.paymentRepo.GetCompletedByConsultation(consultationID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return s.consultationSvc.Cancel(consultationID, reason)
	}

	gateway, ok := s.gateways.Resolve(payment.Provider)
	if !ok {
		return nil, ErrPaymentProviderUnknown
	}
	refundReason := strings.TrimSpace(reason)
	if refundReason == "" {
		refundReason = "consultation cancelled"
	}

	s.appendConsultationEvent(consultationID, constants.EventTypeRefundRequested,
		fmt.Sprintf("refund of %s %s requested", payment.Amount.String(), payment.Currency))

	// 锁外调用网关；退款失败则咨询保持原状态
	result, gatewayErr := gateway.Refund(ctx, GatewayRefundInput{
		TradeNo: payment.ProviderRef,
		OrderNo: payment.TransactionID,
		Amount:  payment.Amount.String(),
		Reason:  refundReason,
	})
	if gatewayErr != nil {
		s.recordRefundFailure(payment, consultationID, gatewayErr)
		return nil, gatewayErr
	}

	payment, err = s.commitRefund(consultationID, payment.ID, payment.Amount.Decimal, refundReason, result.RefundRef)
	if err != nil {
		return nil, err
	}

	s.appendConsultationEvent(consultationID, constants.EventTypeRefunded,
		fmt.Sprintf("refund of %s %s issued", payment.Amount.String(), payment.Currency))

	logger.Infow("payment_refunded",
		"payment_id", payment.ID,
		"consultation_id", consultationID,
		"refund_amount", payment.Amount.String(),
		"refund_ref", result.RefundRef,
	)
	return s.consultationSvc.Cancel(consultationID, reason)
}

// validateRefund 持锁校验退款前置条件
func (s *PaymentService) validateRefund(input RefundInput) (*models.Payment, *models.Consultation, PaymentGateway, error) {
	payment, err := s.paymentRepo.GetByID(input.PaymentID)
	if err != nil {
		return nil, nil, nil, err
	}
	if payment == nil {
		return nil, nil, nil, ErrPaymentNotFound
	}

	unlock := s.locks.Lock(payment.ConsultationID)
	defer unlock()

	if payment.Status != constants.PaymentStatusCompleted {
		return nil, nil, nil, ErrPaymentStateInvalid
	}

	consultation, err := s.consultationRepo.GetByID(payment.ConsultationID)
	if err != nil {
		return nil, nil, nil, err
	}
	if consultation == nil {
		return nil, nil, nil, ErrConsultationNotFound
	}

	amount := input.Amount.Decimal
	if amount.IsZero() || amount.IsNegative() || amount.Cmp(payment.Amount.Decimal) > 0 {
		return nil, nil, nil, ErrRefundAmountInvalid
	}

	gateway, ok := s.gateways.Resolve(payment.Provider)
	if !ok {
		return nil, nil, nil, ErrPaymentProviderUnknown
	}
	return payment, consultation, gateway, nil
}

// commitRefund 持锁复核支付状态并落账退款。
// 网关调用期间状态可能被并发修改，仅对仍为已完成的支付提交。
func (s *PaymentService) commitRefund(consultationID, paymentID uint, amount decimal.Decimal, reason, refundRef string) (*models.Payment, error) {
	unlock := s.locks.Lock(consultationID)
	defer unlock()

	payment, err := s.paymentRepo.GetByID(paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}
	if payment.Status != constants.PaymentStatusCompleted {
		return nil, ErrPaymentStateInvalid
	}

	now := time.Now()
	if err := s.paymentRepo.UpdateStatus(payment.ID, constants.PaymentStatusRefunded, map[string]interface{}{
		"refund_amount": amount,
		"refund_reason": reason,
		"refund_ref":    refundRef,
		"refunded_at":   now,
	}); err != nil {
		return nil, err
	}
	return s.paymentRepo.GetByID(payment.ID)
}

// ExpirePayment 到期关闭未完成的支付，并释放待支付的咨询
func (s *PaymentService) ExpirePayment(paymentID uint) error {
	payment, err := s.paymentRepo.GetByID(paymentID)
	if err != nil {
		return err
	}
	if payment == nil {
		return ErrPaymentNotFound
	}
	if payment.Status != constants.PaymentStatusPending {
		return nil
	}

	if err := s.paymentRepo.UpdateStatus(payment.ID, constants.PaymentStatusFailed, map[string]interface{}{
		"error_code":    "expired",
		"error_message": "payment window elapsed",
	}); err != nil {
		return err
	}

	consultation, err := s.consultationRepo.GetByID(payment.ConsultationID)
	if err != nil {
		return err
	}
	if consultation != nil && consultation.Status == constants.ConsultationStatusPending {
		if _, err := s.consultationSvc.Cancel(consultation.ID, "payment expired"); err != nil {
			logger.Warnw("payment_expire_cancel_failed",
				"consultation_id", consultation.ID,
				"error", err,
			)
		}
	}

	logger.Infow("payment_expired", "payment_id", payment.ID, "consultation_id", payment.ConsultationID)
	return nil
}

// Get 获取支付详情
func (s *PaymentService) Get(paymentID uint) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByID(paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}
	return payment, nil
}

// List 管理端支付列表
func (s *PaymentService) List(filter repository.PaymentListFilter) ([]models.Payment, int64, error) {
	return s.paymentRepo.List(filter)
}

// recordRefundFailure 记录网关退款失败：支付保持已完成，错误码/错误信息落库并写入时间线
func (s *PaymentService) recordRefundFailure(payment *models.Payment, consultationID uint, cause error) {
	updates := map[string]interface{}{
		"error_message": cause.Error(),
	}
	if gatewayErr, ok := AsGatewayError(cause); ok {
		updates["error_code"] = gatewayErr.Code
		updates["error_message"] = gatewayErr.Message
	} else if errors.Is(cause, ErrGatewayTimeout) {
		updates["error_code"] = "timeout"
	}
	if err := s.paymentRepo.UpdateStatus(payment.ID, constants.PaymentStatusCompleted, updates); err != nil {
		logger.Errorw("refund_failure_record_error", "payment_id", payment.ID, "error", err)
	}
	s.appendConsultationEvent(consultationID, constants.EventTypeRefundFailed,
		"refund rejected by gateway")
	logger.Warnw("payment_refund_gateway_failed",
		"payment_id", payment.ID,
		"consultation_id", consultationID,
		"error", cause,
	)
}

func (s *PaymentService) markPaymentFailed(payment *models.Payment, cause error) {
	updates := map[string]interface{}{
		"error_message": cause.Error(),
	}
	if gatewayErr, ok := AsGatewayError(cause); ok {
		updates["error_code"] = gatewayErr.Code
		updates["error_message"] = gatewayErr.Message
	} else if errors.Is(cause, ErrGatewayTimeout) {
		updates["error_code"] = "timeout"
	}
	if err := s.paymentRepo.UpdateStatus(payment.ID, constants.PaymentStatusFailed, updates); err != nil {
		logger.Errorw("payment_mark_failed_error", "payment_id", payment.ID, "error", err)
	}
}

func (s *PaymentService) appendConsultationEvent(consultationID uint, eventType, description string) {
	event := &models.ConsultationEvent{
		ConsultationID: consultationID,
		Type:           eventType,
		Description:    description,
	}
	if err := s.consultationRepo.AppendEvent(event); err != nil {
		logger.Warnw("payment_event_append_failed",
			"consultation_id", consultationID,
			"event_type", eventType,
			"error", err,
		)
	}
}

func generatePaymentNo() string {
	now := time.Now().Format("20060102150405")
	return fmt.Sprintf("YL%s%s", now, randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		fmt.Fprintf(&b, "%d", n.Int64())
	}
	return b.String()
}
