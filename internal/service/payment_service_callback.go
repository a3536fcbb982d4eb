package service

import (
	"strings"
	"time"

	"github.com/yurline/yurline/internal/constants"
	"github.com/yurline/yurline/internal/logger"
	"github.com/yurline/yurline/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentCallbackInput 网关回调输入
type PaymentCallbackInput struct {
	Provider string
	Params   map[string]string
}

// HandleCallback 处理网关支付回调。
// 验签通过后确认支付并推进咨询状态，重复回调幂等返回。
func (s *PaymentService) HandleCallback(input PaymentCallbackInput) (*models.Payment, error) {
	gateway, ok := s.gateways.Resolve(input.Provider)
	if !ok {
		return nil, ErrPaymentProviderUnknown
	}

	log := callbackLogger(
		"provider", input.Provider,
		"callback_order_no", callbackOrderNo(input.Params),
	)
	log.Infow("payment_callback_received")

	if err := gateway.VerifyCallback(input.Params); err != nil {
		log.Warnw("payment_callback_signature_invalid")
		return nil, ErrSignatureInvalid
	}

	orderNo := callbackOrderNo(input.Params)
	if orderNo == "" {
		log.Warnw("payment_callback_order_no_missing")
		return nil, ErrPaymentNotFound
	}

	payment, err := s.paymentRepo.GetByTransactionID(gateway.Name(), orderNo)
	if err != nil {
		log.Errorw("payment_callback_fetch_failed", "error", err)
		return nil, err
	}
	if payment == nil {
		log.Warnw("payment_callback_payment_not_found")
		return nil, ErrPaymentNotFound
	}

	// 幂等处理：已成功的不再回退状态
	if payment.Status == constants.PaymentStatusCompleted {
		log.Infow("payment_callback_idempotent", "payment_id", payment.ID)
		return payment, nil
	}
	if payment.Status != constants.PaymentStatusPending {
		log.Warnw("payment_callback_state_invalid",
			"payment_id", payment.ID,
			"current_status", payment.Status,
		)
		return nil, ErrPaymentStateInvalid
	}

	if amountRaw := strings.TrimSpace(input.Params["amount"]); amountRaw != "" {
		callbackAmount, err := decimal.NewFromString(amountRaw)
		if err != nil || callbackAmount.Cmp(payment.Amount.Decimal) != 0 {
			log.Warnw("payment_callback_amount_mismatch",
				"payment_id", payment.ID,
				"stored_amount", payment.Amount.String(),
				"callback_amount", amountRaw,
			)
			return nil, ErrPaymentAmountMismatch
		}
	}

	now := time.Now()
	updates := map[string]interface{}{
		"paid_at": now,
	}
	if ref := callbackProviderRef(input.Params); ref != "" {
		updates["provider_ref"] = ref
	}
	if err := s.paymentRepo.UpdateStatus(payment.ID, constants.PaymentStatusCompleted, updates); err != nil {
		log.Errorw("payment_callback_update_failed", "payment_id", payment.ID, "error", err)
		return nil, err
	}

	if _, err := s.consultationSvc.MarkPaid(payment.ConsultationID); err != nil {
		// 支付已落账，咨询推进失败只记录，等待人工或重试处理
		log.Errorw("payment_callback_consultation_advance_failed",
			"payment_id", payment.ID,
			"consultation_id", payment.ConsultationID,
			"error", err,
		)
	}

	log.Infow("payment_callback_completed", "payment_id", payment.ID)
	return s.paymentRepo.GetByID(payment.ID)
}

func callbackOrderNo(params map[string]string) string {
	for _, key := range []string{"merchant_trans_id", "order_id", "orderId", "transaction_param"} {
		if value := strings.TrimSpace(params[key]); value != "" {
			return value
		}
	}
	return ""
}

func callbackProviderRef(params map[string]string) string {
	for _, key := range []string{"click_trans_id", "transaction_id", "paymentId"} {
		if value := strings.TrimSpace(params[key]); value != "" {
			return value
		}
	}
	return ""
}

func callbackLogger(kv ...interface{}) *zap.SugaredLogger {
	if len(kv) == 0 {
		return logger.S()
	}
	return logger.S().With(kv...)
}
