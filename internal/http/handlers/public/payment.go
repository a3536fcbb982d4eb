package public

import (
	"errors"

	"github.com/yurline/yurline/internal/http/response"
	"github.com/yurline/yurline/internal/service"

	"github.com/gin-gonic/gin"
)

// CreatePaymentRequest 发起支付请求
type CreatePaymentRequest struct {
	TelegramID     int64  `json:"telegram_id" binding:"required"`
	ConsultationID uint   `json:"consultation_id" binding:"required"`
	Provider       string `json:"provider" binding:"required"`
	ReturnURL      string `json:"return_url"`
}

// CreatePayment 为咨询发起网关支付
func (h *Handler) CreatePayment(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	userID, ok := h.resolveBotUser(c, req.TelegramID)
	if !ok {
		return
	}

	// 校验咨询归属
	if _, err := h.ConsultationService.GetForUser(req.ConsultationID, userID); err != nil {
		if errors.Is(err, service.ErrConsultationNotFound) {
			respondError(c, response.CodeNotFound, "error.consultation_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	payment, err := h.PaymentService.CreatePayment(c.Request.Context(), service.CreatePaymentInput{
		ConsultationID: req.ConsultationID,
		UserID:         userID,
		Provider:       req.Provider,
		ReturnURL:      req.ReturnURL,
	})
	if err != nil {
		respondPaymentCreateError(c, err)
		return
	}
	response.Success(c, payment)
}
