package public

import (
	"errors"
	"strconv"

	"github.com/yurline/yurline/internal/http/response"
	"github.com/yurline/yurline/internal/models"
	"github.com/yurline/yurline/internal/repository"
	"github.com/yurline/yurline/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateConsultationRequest 创建咨询请求
type CreateConsultationRequest struct {
	TelegramID  int64        `json:"telegram_id" binding:"required"`
	Type        string       `json:"type" binding:"required"`
	Amount      models.Money `json:"amount" binding:"required"`
	PhoneNumber string       `json:"phone_number" binding:"required"`
	Description string       `json:"description" binding:"required"`
}

// CreateConsultation 创建咨询申请
func (h *Handler) CreateConsultation(c *gin.Context) {
	var req CreateConsultationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	userID, ok := h.resolveBotUser(c, req.TelegramID)
	if !ok {
		return
	}

	consultation, err := h.ConsultationService.Create(service.CreateConsultationInput{
		UserID:      userID,
		Type:        req.Type,
		Amount:      req.Amount,
		PhoneNumber: req.PhoneNumber,
		Description: req.Description,
	})
	if err != nil {
		respondConsultationCreateError(c, err)
		return
	}
	response.Success(c, consultation)
}

// ListUserConsultations 查询用户自己的咨询列表
func (h *Handler) ListUserConsultations(c *gin.Context) {
	telegramID, _ := strconv.ParseInt(c.Query("telegram_id"), 10, 64)
	userID, ok := h.resolveBotUser(c, telegramID)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	consultations, total, err := h.ConsultationService.ListForUser(repository.ConsultationListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   userID,
		Status:   c.Query("status"),
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
	response.SuccessWithPage(c, consultations, pagination)
}

// GetUserConsultation 查询用户自己的咨询详情
func (h *Handler) GetUserConsultation(c *gin.Context) {
	consultationID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || consultationID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	telegramID, _ := strconv.ParseInt(c.Query("telegram_id"), 10, 64)
	userID, ok := h.resolveBotUser(c, telegramID)
	if !ok {
		return
	}

	consultation, err := h.ConsultationService.GetForUser(uint(consultationID), userID)
	if err != nil {
		if errors.Is(err, service.ErrConsultationNotFound) {
			respondError(c, response.CodeNotFound, "error.consultation_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, consultation)
}

// CancelConsultationRequest 取消咨询请求
type CancelConsultationRequest struct {
	TelegramID int64  `json:"telegram_id" binding:"required"`
	Reason     string `json:"reason"`
}

// CancelUserConsultation 用户取消自己的咨询
func (h *Handler) CancelUserConsultation(c *gin.Context) {
	consultationID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || consultationID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	var req CancelConsultationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	userID, ok := h.resolveBotUser(c, req.TelegramID)
	if !ok {
		return
	}

	// 校验归属后再执行取消
	if _, err := h.ConsultationService.GetForUser(uint(consultationID), userID); err != nil {
		if errors.Is(err, service.ErrConsultationNotFound) {
			respondError(c, response.CodeNotFound, "error.consultation_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	consultation, err := h.PaymentService.CancelConsultation(c.Request.Context(), uint(consultationID), req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrConsultationNotFound):
			respondError(c, response.CodeNotFound, "error.consultation_not_found", nil)
		case errors.Is(err, service.ErrConsultationStateInvalid), errors.Is(err, service.ErrConsultationConflict):
			respondError(c, response.CodeConflict, "error.consultation_state_invalid", nil)
		default:
			if respondGatewayError(c, err) {
				return
			}
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}
	response.Success(c, consultation)
}
