package service

import (
	"errors"
	"fmt"
)

// 咨询相关错误
var (
	ErrConsultationNotFound     = errors.New("consultation not found")
	ErrConsultationStateInvalid = errors.New("consultation state transition not allowed")
	ErrConsultationConflict     = errors.New("consultation modified concurrently")
	ErrPaymentNotConfirmed      = errors.New("payment not confirmed")
	ErrSlotUnavailable          = errors.New("slot unavailable")
	ErrSlotOutsideWorkHours     = errors.New("slot outside working hours")
	ErrAmountOutOfRange         = errors.New("amount out of allowed range")
	ErrConsultationNotDue       = errors.New("scheduled time has not passed yet")
	ErrUserBlocked              = errors.New("user is blocked")
)

// 支付相关错误
var (
	ErrPaymentNotFound        = errors.New("payment not found")
	ErrPaymentStateInvalid    = errors.New("payment state invalid")
	ErrPaymentProviderUnknown = errors.New("unknown payment provider")
	ErrPaymentAmountMismatch  = errors.New("payment amount mismatch")
	ErrSignatureInvalid       = errors.New("callback signature invalid")
	ErrRefundAmountInvalid    = errors.New("refund amount invalid")
	ErrRefundReasonInvalid    = errors.New("refund reason too short")
	ErrGatewayTimeout         = errors.New("payment gateway timeout")
)

// 问题与认证相关错误
var (
	ErrQuestionNotFound     = errors.New("question not found")
	ErrQuestionStateInvalid = errors.New("question already handled")
	ErrFAQNotFound          = errors.New("faq entry not found")
	ErrFAQInvalid           = errors.New("faq entry invalid")
	ErrLoginFailed          = errors.New("invalid username or password")
	ErrCaptchaInvalid       = errors.New("captcha invalid")
	ErrUserNotFound         = errors.New("user not found")
	ErrAdminNotFound        = errors.New("admin not found")
	ErrPasswordInvalid      = errors.New("old password mismatch")
	ErrPasswordWeak         = errors.New("new password too weak")
)

// GatewayError 支付网关拒绝时携带渠道侧错误码与描述
type GatewayError struct {
	Provider string
	Code     string
	Message  string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway %s rejected: %s (%s)", e.Provider, e.Message, e.Code)
}

// AsGatewayError 判定错误是否为网关拒绝
func AsGatewayError(err error) (*GatewayError, bool) {
	var gatewayErr *GatewayError
	if errors.As(err, &gatewayErr) {
		return gatewayErr, true
	}
	return nil, false
}
