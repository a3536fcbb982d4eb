package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/yurline/yurline/internal/constants"
	"github.com/yurline/yurline/internal/models"
	"github.com/yurline/yurline/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// fakeGateway 测试替身，按需注入各操作的结果
type fakeGateway struct {
	name        string
	createErr   error
	refundErr   error
	verifyErr   error
	payURL      string
	tradeNo     string
	refundRef   string
	refundCalls int
}

func (g *fakeGateway) Name() string { return g.name }

func (g *fakeGateway) CreatePayment(_ context.Context, _ GatewayCreateInput) (*GatewayCreateResult, error) {
	if g.createErr != nil {
		return nil, g.createErr
	}
	return &GatewayCreateResult{PayURL: g.payURL, TradeNo: g.tradeNo}, nil
}

func (g *fakeGateway) Refund(_ context.Context, _ GatewayRefundInput) (*GatewayRefundResult, error) {
	g.refundCalls++
	if g.refundErr != nil {
		return nil, g.refundErr
	}
	return &GatewayRefundResult{RefundRef: g.refundRef}, nil
}

func (g *fakeGateway) VerifyCallback(_ map[string]string) error {
	return g.verifyErr
}

type paymentTestEnv struct {
	paymentSvc      *PaymentService
	consultationSvc *ConsultationService
	paymentRepo     repository.PaymentRepository
	gateway         *fakeGateway
	db              *gorm.DB
}

func setupPaymentServiceTest(t *testing.T) *paymentTestEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:payment_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Consultation{}, &models.ConsultationEvent{}, &models.Payment{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	consultationRepo := repository.NewConsultationRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	userRepo := repository.NewUserRepository(db)
	availability := NewAvailabilityService(consultationRepo, 0, 24, []int{0, 1, 2, 3, 4, 5, 6}, 60, 0, 30)
	consultationSvc := NewConsultationService(consultationRepo, paymentRepo, userRepo, nil, availability, 10000, 1000000, "UZS")

	gateway := &fakeGateway{
		name:      constants.PaymentProviderClick,
		payURL:    "https://my.click.uz/services/pay?x=1",
		tradeNo:   "click-100",
		refundRef: "refund-100",
	}
	paymentSvc := NewPaymentService(paymentRepo, consultationRepo, userRepo, nil, consultationSvc,
		NewGatewayRegistry(gateway), 10000, 1000000, 15)

	return &paymentTestEnv{
		paymentSvc:      paymentSvc,
		consultationSvc: consultationSvc,
		paymentRepo:     paymentRepo,
		gateway:         gateway,
		db:              db,
	}
}

func (env *paymentTestEnv) createConsultation(t *testing.T) *models.Consultation {
	t.Helper()
	return createPendingConsultation(t, env.consultationSvc, env.db)
}

func TestCreatePayment(t *testing.T) {
	env := setupPaymentServiceTest(t)
	consultation := env.createConsultation(t)

	payment, err := env.paymentSvc.CreatePayment(context.Background(), CreatePaymentInput{
		ConsultationID: consultation.ID,
		UserID:         consultation.UserID,
		Provider:       constants.PaymentProviderClick,
	})
	if err != nil {
		t.Fatalf("create payment failed: %v", err)
	}
	if payment.Status != constants.PaymentStatusPending {
		t.Fatalf("expected pending, got %s", payment.Status)
	}
	if payment.PayURL == "" {
		t.Fatalf("expected pay url to be set")
	}
	if payment.TransactionID == "" {
		t.Fatalf("expected transaction id to be generated")
	}
	if payment.ExpiredAt == nil || !payment.ExpiredAt.After(time.Now()) {
		t.Fatalf("expected future expiry, got %v", payment.ExpiredAt)
	}
}

func TestCreatePaymentReusesPendingRecord(t *testing.T) {
	env := setupPaymentServiceTest(t)
	consultation := env.createConsultation(t)

	input := CreatePaymentInput{
		ConsultationID: consultation.ID,
		Provider:       constants.PaymentProviderClick,
	}
	first, err := env.paymentSvc.CreatePayment(context.Background(), input)
	if err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	second, err := env.paymentSvc.CreatePayment(context.Background(), input)
	if err != nil {
		t.Fatalf("second create failed: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected pending payment to be reused, got %d and %d", first.ID, second.ID)
	}
}

func TestCreatePaymentValidation(t *testing.T) {
	env := setupPaymentServiceTest(t)
	consultation := env.createConsultation(t)

	if _, err := env.paymentSvc.CreatePayment(context.Background(), CreatePaymentInput{
		ConsultationID: consultation.ID,
		Provider:       "stripe",
	}); err != ErrPaymentProviderUnknown {
		t.Fatalf("expected unknown provider, got %v", err)
	}

	if _, err := env.paymentSvc.CreatePayment(context.Background(), CreatePaymentInput{
		ConsultationID: 99999,
		Provider:       constants.PaymentProviderClick,
	}); err != ErrConsultationNotFound {
		t.Fatalf("expected consultation not found, got %v", err)
	}

	// 他人的咨询不可代付
	if _, err := env.paymentSvc.CreatePayment(context.Background(), CreatePaymentInput{
		ConsultationID: consultation.ID,
		UserID:         consultation.UserID + 1,
		Provider:       constants.PaymentProviderClick,
	}); err != ErrConsultationNotFound {
		t.Fatalf("expected consultation not found for foreign user, got %v", err)
	}

	if _, err := env.consultationSvc.MarkPaid(consultation.ID); err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}
	if _, err := env.paymentSvc.CreatePayment(context.Background(), CreatePaymentInput{
		ConsultationID: consultation.ID,
		Provider:       constants.PaymentProviderClick,
	}); err != ErrConsultationStateInvalid {
		t.Fatalf("expected state invalid for paid consultation, got %v", err)
	}
}

func TestCreatePaymentGatewayFailureMarksPaymentFailed(t *testing.T) {
	env := setupPaymentServiceTest(t)
	consultation := env.createConsultation(t)
	env.gateway.createErr = &GatewayError{Provider: constants.PaymentProviderClick, Code: "-9", Message: "merchant disabled"}

	_, err := env.paymentSvc.CreatePayment(context.Background(), CreatePaymentInput{
		ConsultationID: consultation.ID,
		Provider:       constants.PaymentProviderClick,
	})
	if _, ok := AsGatewayError(err); !ok {
		t.Fatalf("expected gateway error, got %v", err)
	}

	payments, total, listErr := env.paymentRepo.List(repository.PaymentListFilter{ConsultationID: consultation.ID})
	if listErr != nil {
		t.Fatalf("list payments failed: %v", listErr)
	}
	if total != 1 {
		t.Fatalf("expected 1 payment record, got %d", total)
	}
	if payments[0].Status != constants.PaymentStatusFailed {
		t.Fatalf("expected failed, got %s", payments[0].Status)
	}
	if payments[0].ErrorCode != "-9" {
		t.Fatalf("expected error code -9, got %s", payments[0].ErrorCode)
	}
}

func completePaidFlow(t *testing.T, env *paymentTestEnv) (*models.Consultation, *models.Payment) {
	t.Helper()

	consultation := env.createConsultation(t)
	payment, err := env.paymentSvc.CreatePayment(context.Background(), CreatePaymentInput{
		ConsultationID: consultation.ID,
		Provider:       constants.PaymentProviderClick,
	})
	if err != nil {
		t.Fatalf("create payment failed: %v", err)
	}
	if err := env.paymentRepo.UpdateStatus(payment.ID, constants.PaymentStatusCompleted, map[string]interface{}{
		"paid_at": time.Now(),
	}); err != nil {
		t.Fatalf("complete payment failed: %v", err)
	}
	if _, err := env.consultationSvc.MarkPaid(consultation.ID); err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}
	if _, err := env.consultationSvc.Schedule(consultation.ID, futureSlot(2)); err != nil {
		t.Fatalf("schedule failed: %v", err)
	}
	past := time.Now().Add(-2 * time.Hour)
	if err := env.db.Model(&models.Consultation{}).Where("id = ?", consultation.ID).
		Update("scheduled_time", past).Error; err != nil {
		t.Fatalf("rewind scheduled_time failed: %v", err)
	}
	if _, err := env.consultationSvc.Complete(consultation.ID); err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	refreshed, err := env.paymentRepo.GetByID(payment.ID)
	if err != nil {
		t.Fatalf("get payment failed: %v", err)
	}
	return consultation, refreshed
}

func TestRefund(t *testing.T) {
	env := setupPaymentServiceTest(t)
	consultation, payment := completePaidFlow(t, env)

	refunded, err := env.paymentSvc.Refund(context.Background(), RefundInput{
		PaymentID: payment.ID,
		Amount:    payment.Amount,
		Reason:    "no-show",
	})
	if err != nil {
		t.Fatalf("refund failed: %v", err)
	}
	if refunded.Status != constants.PaymentStatusRefunded {
		t.Fatalf("expected refunded, got %s", refunded.Status)
	}
	if refunded.RefundRef != "refund-100" {
		t.Fatalf("expected refund ref from gateway, got %s", refunded.RefundRef)
	}
	if refunded.RefundedAt == nil {
		t.Fatalf("expected refunded_at to be set")
	}
	if env.gateway.refundCalls != 1 {
		t.Fatalf("expected one gateway refund call, got %d", env.gateway.refundCalls)
	}

	// 已完成的咨询不随退款改变状态
	current, err := repository.NewConsultationRepository(env.db).GetByID(consultation.ID)
	if err != nil {
		t.Fatalf("get consultation failed: %v", err)
	}
	if current.Status != constants.ConsultationStatusCompleted {
		t.Fatalf("expected consultation to stay completed, got %s", current.Status)
	}
}

func TestRefundCancelsActiveConsultation(t *testing.T) {
	env := setupPaymentServiceTest(t)
	consultation := env.createConsultation(t)
	payment, err := env.paymentSvc.CreatePayment(context.Background(), CreatePaymentInput{
		ConsultationID: consultation.ID,
		Provider:       constants.PaymentProviderClick,
	})
	if err != nil {
		t.Fatalf("create payment failed: %v", err)
	}
	if err := env.paymentRepo.UpdateStatus(payment.ID, constants.PaymentStatusCompleted, map[string]interface{}{
		"paid_at": time.Now(),
	}); err != nil {
		t.Fatalf("complete payment failed: %v", err)
	}
	if _, err := env.consultationSvc.MarkPaid(consultation.ID); err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}

	refunded, err := env.paymentSvc.Refund(context.Background(), RefundInput{
		PaymentID: payment.ID,
		Amount:    payment.Amount,
		Reason:    "lawyer is unavailable this week",
	})
	if err != nil {
		t.Fatalf("refund failed: %v", err)
	}
	if refunded.Status != constants.PaymentStatusRefunded {
		t.Fatalf("expected refunded, got %s", refunded.Status)
	}

	current, err := repository.NewConsultationRepository(env.db).GetByID(consultation.ID)
	if err != nil {
		t.Fatalf("get consultation failed: %v", err)
	}
	if current.Status != constants.ConsultationStatusCancelled {
		t.Fatalf("expected consultation cancelled after refund, got %s", current.Status)
	}
}

func TestRefundValidation(t *testing.T) {
	env := setupPaymentServiceTest(t)
	_, payment := completePaidFlow(t, env)

	if _, err := env.paymentSvc.Refund(context.Background(), RefundInput{
		PaymentID: payment.ID,
		Amount:    payment.Amount,
		Reason:    "   ",
	}); err != ErrRefundReasonInvalid {
		t.Fatalf("expected refund reason invalid for blank reason, got %v", err)
	}

	over := models.NewMoneyFromDecimal(payment.Amount.Decimal.Add(payment.Amount.Decimal))
	if _, err := env.paymentSvc.Refund(context.Background(), RefundInput{
		PaymentID: payment.ID,
		Amount:    over,
		Reason:    "amount exceeds the original payment",
	}); err != ErrRefundAmountInvalid {
		t.Fatalf("expected refund amount invalid, got %v", err)
	}

	if _, err := env.paymentSvc.Refund(context.Background(), RefundInput{
		PaymentID: payment.ID,
		Amount:    models.NewMoneyFromInt(0),
		Reason:    "zero amount should be rejected",
	}); err != ErrRefundAmountInvalid {
		t.Fatalf("expected refund amount invalid for zero, got %v", err)
	}

	if env.gateway.refundCalls != 0 {
		t.Fatalf("gateway must not be called on validation failure, got %d calls", env.gateway.refundCalls)
	}
}

func TestRefundRequiresCompletedPayment(t *testing.T) {
	env := setupPaymentServiceTest(t)
	consultation := env.createConsultation(t)
	payment, err := env.paymentSvc.CreatePayment(context.Background(), CreatePaymentInput{
		ConsultationID: consultation.ID,
		Provider:       constants.PaymentProviderClick,
	})
	if err != nil {
		t.Fatalf("create payment failed: %v", err)
	}

	// 支付未完成
	if _, err := env.paymentSvc.Refund(context.Background(), RefundInput{
		PaymentID: payment.ID,
		Amount:    payment.Amount,
		Reason:    "pending payment refund attempt",
	}); err != ErrPaymentStateInvalid {
		t.Fatalf("expected payment state invalid, got %v", err)
	}
	if env.gateway.refundCalls != 0 {
		t.Fatalf("gateway must not be called for pending payment, got %d calls", env.gateway.refundCalls)
	}
}

func TestCancelConsultationRefundsCompletedPayment(t *testing.T) {
	env := setupPaymentServiceTest(t)
	consultation := env.createConsultation(t)
	payment, err := env.paymentSvc.CreatePayment(context.Background(), CreatePaymentInput{
		ConsultationID: consultation.ID,
		Provider:       constants.PaymentProviderClick,
	})
	if err != nil {
		t.Fatalf("create payment failed: %v", err)
	}
	if err := env.paymentRepo.UpdateStatus(payment.ID, constants.PaymentStatusCompleted, map[string]interface{}{
		"paid_at": time.Now(),
	}); err != nil {
		t.Fatalf("complete payment failed: %v", err)
	}
	if _, err := env.consultationSvc.MarkPaid(consultation.ID); err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}

	cancelled, err := env.paymentSvc.CancelConsultation(context.Background(), consultation.ID, "client asked to cancel")
	if err != nil {
		t.Fatalf("cancel consultation failed: %v", err)
	}
	if cancelled.Status != constants.ConsultationStatusCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}
	if env.gateway.refundCalls != 1 {
		t.Fatalf("expected one gateway refund call, got %d", env.gateway.refundCalls)
	}

	refunded, err := env.paymentRepo.GetByID(payment.ID)
	if err != nil {
		t.Fatalf("get payment failed: %v", err)
	}
	if refunded.Status != constants.PaymentStatusRefunded {
		t.Fatalf("expected refunded, got %s", refunded.Status)
	}
	if refunded.RefundAmount == nil || !refunded.RefundAmount.Decimal.Equal(payment.Amount.Decimal) {
		t.Fatalf("expected full refund %s, got %v", payment.Amount.String(), refunded.RefundAmount)
	}
	if refunded.RefundRef != "refund-100" {
		t.Fatalf("expected refund ref from gateway, got %s", refunded.RefundRef)
	}
}

func TestCancelConsultationGatewayFailureLeavesStateIntact(t *testing.T) {
	env := setupPaymentServiceTest(t)
	consultation := env.createConsultation(t)
	payment, err := env.paymentSvc.CreatePayment(context.Background(), CreatePaymentInput{
		ConsultationID: consultation.ID,
		Provider:       constants.PaymentProviderClick,
	})
	if err != nil {
		t.Fatalf("create payment failed: %v", err)
	}
	if err := env.paymentRepo.UpdateStatus(payment.ID, constants.PaymentStatusCompleted, nil); err != nil {
		t.Fatalf("complete payment failed: %v", err)
	}
	if _, err := env.consultationSvc.MarkPaid(consultation.ID); err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}
	env.gateway.refundErr = &GatewayError{Provider: constants.PaymentProviderClick, Code: "-32", Message: "reversal rejected"}

	_, err = env.paymentSvc.CancelConsultation(context.Background(), consultation.ID, "client asked to cancel")
	if _, ok := AsGatewayError(err); !ok {
		t.Fatalf("expected gateway error, got %v", err)
	}

	current, err := repository.NewConsultationRepository(env.db).GetByID(consultation.ID)
	if err != nil {
		t.Fatalf("get consultation failed: %v", err)
	}
	if current.Status != constants.ConsultationStatusPaid {
		t.Fatalf("expected consultation to keep prior state, got %s", current.Status)
	}
	stillCompleted, err := env.paymentRepo.GetByID(payment.ID)
	if err != nil {
		t.Fatalf("get payment failed: %v", err)
	}
	if stillCompleted.Status != constants.PaymentStatusCompleted {
		t.Fatalf("expected payment to remain completed, got %s", stillCompleted.Status)
	}
	if stillCompleted.ErrorCode != "-32" {
		t.Fatalf("expected gateway error code on payment, got %q", stillCompleted.ErrorCode)
	}
}

func TestCancelConsultationWithoutPayment(t *testing.T) {
	env := setupPaymentServiceTest(t)
	consultation := env.createConsultation(t)

	cancelled, err := env.paymentSvc.CancelConsultation(context.Background(), consultation.ID, "changed my mind")
	if err != nil {
		t.Fatalf("cancel consultation failed: %v", err)
	}
	if cancelled.Status != constants.ConsultationStatusCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}
	if env.gateway.refundCalls != 0 {
		t.Fatalf("expected no gateway refund call, got %d", env.gateway.refundCalls)
	}

	// 终态不可再次取消
	if _, err := env.paymentSvc.CancelConsultation(context.Background(), consultation.ID, "again"); err != ErrConsultationStateInvalid {
		t.Fatalf("expected state invalid for terminal consultation, got %v", err)
	}
	if _, err := env.paymentSvc.CancelConsultation(context.Background(), 99999, "missing"); err != ErrConsultationNotFound {
		t.Fatalf("expected consultation not found, got %v", err)
	}
}

func TestRefundGatewayFailureKeepsPaymentCompleted(t *testing.T) {
	env := setupPaymentServiceTest(t)
	consultation, payment := completePaidFlow(t, env)
	env.gateway.refundErr = &GatewayError{Provider: constants.PaymentProviderClick, Code: "-32", Message: "reversal rejected"}

	_, err := env.paymentSvc.Refund(context.Background(), RefundInput{
		PaymentID: payment.ID,
		Amount:    payment.Amount,
		Reason:    "client was not satisfied",
	})
	if _, ok := AsGatewayError(err); !ok {
		t.Fatalf("expected gateway error, got %v", err)
	}

	current, err := env.paymentRepo.GetByID(payment.ID)
	if err != nil {
		t.Fatalf("get payment failed: %v", err)
	}
	if current.Status != constants.PaymentStatusCompleted {
		t.Fatalf("expected payment to remain completed, got %s", current.Status)
	}
	if current.ErrorCode != "-32" || current.ErrorMessage != "reversal rejected" {
		t.Fatalf("expected gateway failure recorded, got code=%q message=%q", current.ErrorCode, current.ErrorMessage)
	}

	events, err := repository.NewConsultationRepository(env.db).ListEvents(consultation.ID)
	if err != nil {
		t.Fatalf("list events failed: %v", err)
	}
	last := events[len(events)-1]
	if last.Type != constants.EventTypeRefundFailed {
		t.Fatalf("expected refund_failed event, got %s", last.Type)
	}
}

func TestExpirePayment(t *testing.T) {
	env := setupPaymentServiceTest(t)
	consultation := env.createConsultation(t)
	payment, err := env.paymentSvc.CreatePayment(context.Background(), CreatePaymentInput{
		ConsultationID: consultation.ID,
		Provider:       constants.PaymentProviderClick,
	})
	if err != nil {
		t.Fatalf("create payment failed: %v", err)
	}

	if err := env.paymentSvc.ExpirePayment(payment.ID); err != nil {
		t.Fatalf("expire payment failed: %v", err)
	}

	expired, err := env.paymentRepo.GetByID(payment.ID)
	if err != nil {
		t.Fatalf("get payment failed: %v", err)
	}
	if expired.Status != constants.PaymentStatusFailed {
		t.Fatalf("expected failed, got %s", expired.Status)
	}
	if expired.ErrorCode != "expired" {
		t.Fatalf("expected error code expired, got %s", expired.ErrorCode)
	}

	current, err := repository.NewConsultationRepository(env.db).GetByID(consultation.ID)
	if err != nil {
		t.Fatalf("get consultation failed: %v", err)
	}
	if current.Status != constants.ConsultationStatusCancelled {
		t.Fatalf("expected consultation cancelled, got %s", current.Status)
	}

	// 已终态的支付重复过期处理应当为空操作
	if err := env.paymentSvc.ExpirePayment(payment.ID); err != nil {
		t.Fatalf("repeated expire failed: %v", err)
	}
	if err := env.paymentSvc.ExpirePayment(99999); err != ErrPaymentNotFound {
		t.Fatalf("expected payment not found, got %v", err)
	}
}
