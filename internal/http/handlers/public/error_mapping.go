package public

import (
	"errors"

	"github.com/yurline/yurline/internal/http/response"
	"github.com/yurline/yurline/internal/i18n"
	"github.com/yurline/yurline/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	if respondGatewayError(c, err) {
		return
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

// respondGatewayError 将网关错误映射为 502/504 响应。
func respondGatewayError(c *gin.Context, err error) bool {
	if errors.Is(err, service.ErrGatewayTimeout) {
		respondError(c, response.CodeGatewayTimeout, "error.gateway_timeout", nil)
		return true
	}
	if gwErr, ok := service.AsGatewayError(err); ok {
		locale := i18n.ResolveLocale(c)
		msg := i18n.T(locale, "error.gateway_failure")
		response.ErrorWithData(c, response.CodeBadGateway, msg, gin.H{
			"provider": gwErr.Provider,
			"code":     gwErr.Code,
			"message":  gwErr.Message,
		})
		return true
	}
	return false
}

var consultationCreateErrorRules = []mappedHandlerError{
	{target: service.ErrUserNotFound, code: response.CodeNotFound, key: "error.not_found"},
	{target: service.ErrUserBlocked, code: response.CodeForbidden, key: "error.user_blocked"},
	{target: service.ErrAmountOutOfRange, code: response.CodeBadRequest, key: "error.amount_out_of_range"},
}

var paymentCreateErrorRules = []mappedHandlerError{
	{target: service.ErrPaymentProviderUnknown, code: response.CodeBadRequest, key: "error.bad_request"},
	{target: service.ErrConsultationNotFound, code: response.CodeNotFound, key: "error.consultation_not_found"},
	{target: service.ErrConsultationStateInvalid, code: response.CodeConflict, key: "error.consultation_state_invalid"},
	{target: service.ErrAmountOutOfRange, code: response.CodeBadRequest, key: "error.amount_out_of_range"},
}

var paymentCallbackErrorRules = []mappedHandlerError{
	{target: service.ErrPaymentProviderUnknown, code: response.CodeBadRequest, key: "error.bad_request"},
	{target: service.ErrSignatureInvalid, code: response.CodeForbidden, key: "error.bad_request"},
	{target: service.ErrPaymentNotFound, code: response.CodeNotFound, key: "error.payment_not_found"},
	{target: service.ErrPaymentStateInvalid, code: response.CodeConflict, key: "error.payment_state_invalid"},
	{target: service.ErrPaymentAmountMismatch, code: response.CodeBadRequest, key: "error.bad_request"},
}

var questionCreateErrorRules = []mappedHandlerError{
	{target: service.ErrUserNotFound, code: response.CodeNotFound, key: "error.not_found"},
	{target: service.ErrUserBlocked, code: response.CodeForbidden, key: "error.user_blocked"},
	{target: service.ErrQuestionStateInvalid, code: response.CodeBadRequest, key: "error.bad_request"},
}

func respondConsultationCreateError(c *gin.Context, err error) {
	respondWithMappedError(c, err, consultationCreateErrorRules, response.CodeInternal, "error.internal")
}

func respondPaymentCreateError(c *gin.Context, err error) {
	respondWithMappedError(c, err, paymentCreateErrorRules, response.CodeInternal, "error.internal")
}

func respondQuestionCreateError(c *gin.Context, err error) {
	respondWithMappedError(c, err, questionCreateErrorRules, response.CodeInternal, "error.internal")
}
