package admin

import (
	"errors"
	"strconv"

	"github.com/yurline/yurline/internal/http/response"
	"github.com/yurline/yurline/internal/i18n"
	"github.com/yurline/yurline/internal/models"
	"github.com/yurline/yurline/internal/repository"
	"github.com/yurline/yurline/internal/service"

	"github.com/gin-gonic/gin"
)

// GetAdminPayments 获取支付列表 (Admin)
func (h *Handler) GetAdminPayments(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)
	userID, _ := strconv.ParseUint(c.Query("user_id"), 10, 64)
	consultationID, _ := strconv.ParseUint(c.Query("consultation_id"), 10, 64)

	payments, total, err := h.PaymentService.List(repository.PaymentListFilter{
		Page:           page,
		PageSize:       pageSize,
		UserID:         uint(userID),
		ConsultationID: uint(consultationID),
		Status:         c.Query("status"),
		Provider:       c.Query("provider"),
		TransactionID:  c.Query("transaction_id"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, payments, pagination)
}

// GetAdminPayment 获取支付详情 (Admin)
func (h *Handler) GetAdminPayment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	payment, err := h.PaymentService.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrPaymentNotFound) {
			respondError(c, response.CodeNotFound, "error.payment_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, payment)
}

// RefundPaymentRequest 退款请求
type RefundPaymentRequest struct {
	Amount models.Money `json:"amount" binding:"required"`
	Reason string       `json:"reason" binding:"required"`
}

// RefundPayment 对已完成咨询的支付执行退款
func (h *Handler) RefundPayment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req RefundPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	requestLog(c).Infow("payment_refund_requested",
		"payment_id", id,
		"admin_id", adminID,
		"amount", req.Amount.String(),
	)

	payment, err := h.PaymentService.Refund(c.Request.Context(), service.RefundInput{
		PaymentID: id,
		Amount:    req.Amount,
		Reason:    req.Reason,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentNotFound):
			respondError(c, response.CodeNotFound, "error.payment_not_found", nil)
		case errors.Is(err, service.ErrPaymentStateInvalid):
			respondError(c, response.CodeConflict, "error.payment_state_invalid", nil)
		case errors.Is(err, service.ErrConsultationStateInvalid):
			respondError(c, response.CodeConflict, "error.consultation_state_invalid", nil)
		case errors.Is(err, service.ErrRefundAmountInvalid):
			respondError(c, response.CodeBadRequest, "error.refund_amount_invalid", nil)
		case errors.Is(err, service.ErrRefundReasonInvalid):
			respondError(c, response.CodeBadRequest, "error.refund_reason_invalid", nil)
		case errors.Is(err, service.ErrGatewayTimeout):
			respondError(c, response.CodeGatewayTimeout, "error.gateway_timeout", nil)
		default:
			if gwErr, isGw := service.AsGatewayError(err); isGw {
				locale := i18n.ResolveLocale(c)
				msg := i18n.T(locale, "error.gateway_failure")
				response.ErrorWithData(c, response.CodeBadGateway, msg, gin.H{
					"provider": gwErr.Provider,
					"code":     gwErr.Code,
					"message":  gwErr.Message,
				})
				return
			}
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}
	response.Success(c, payment)
}
