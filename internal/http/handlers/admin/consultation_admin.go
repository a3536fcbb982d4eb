package admin

import (
	"errors"
	"strconv"
	"time"

	"github.com/yurline/yurline/internal/http/response"
	"github.com/yurline/yurline/internal/i18n"
	"github.com/yurline/yurline/internal/repository"
	"github.com/yurline/yurline/internal/service"

	"github.com/gin-gonic/gin"
)

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return 0, false
	}
	return uint(id), true
}

func parseTimeQuery(c *gin.Context, key string) *time.Time {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	if t, err := time.ParseInLocation("2006-01-02", raw, time.Local); err == nil {
		return &t
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t
	}
	return nil
}

// GetAdminConsultations 获取咨询列表 (Admin)
func (h *Handler) GetAdminConsultations(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)
	userID, _ := strconv.ParseUint(c.Query("user_id"), 10, 64)

	consultations, total, err := h.ConsultationService.List(repository.ConsultationListFilter{
		Page:          page,
		PageSize:      pageSize,
		UserID:        uint(userID),
		Status:        c.Query("status"),
		Type:          c.Query("type"),
		PhoneNumber:   c.Query("phone_number"),
		ScheduledFrom: parseTimeQuery(c, "scheduled_from"),
		ScheduledTo:   parseTimeQuery(c, "scheduled_to"),
		CreatedFrom:   parseTimeQuery(c, "created_from"),
		CreatedTo:     parseTimeQuery(c, "created_to"),
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

// GetAdminConsultation 获取咨询详情 (Admin)
func (h *Handler) GetAdminConsultation(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	consultation, err := h.ConsultationService.Get(id)
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

// GetAdminConsultationTimeline 获取咨询时间线 (Admin)
func (h *Handler) GetAdminConsultationTimeline(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	events, err := h.ConsultationService.Timeline(id)
	if err != nil {
		if errors.Is(err, service.ErrConsultationNotFound) {
			respondError(c, response.CodeNotFound, "error.consultation_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, events)
}

func respondConsultationTransitionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrConsultationNotFound):
		respondError(c, response.CodeNotFound, "error.consultation_not_found", nil)
	case errors.Is(err, service.ErrPaymentNotConfirmed):
		respondError(c, response.CodeConflict, "error.payment_not_confirmed", nil)
	case errors.Is(err, service.ErrConsultationStateInvalid), errors.Is(err, service.ErrConsultationConflict):
		respondError(c, response.CodeConflict, "error.consultation_state_invalid", nil)
	case errors.Is(err, service.ErrSlotUnavailable):
		respondError(c, response.CodeConflict, "error.slot_unavailable", nil)
	case errors.Is(err, service.ErrSlotOutsideWorkHours):
		respondError(c, response.CodeBadRequest, "error.slot_outside_work_hours", nil)
	case errors.Is(err, service.ErrConsultationNotDue):
		respondError(c, response.CodeConflict, "error.consultation_state_invalid", nil)
	default:
		respondError(c, response.CodeInternal, "error.internal", err)
	}
}

// ApproveConsultation 管理员确认已支付的咨询
func (h *Handler) ApproveConsultation(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	consultation, err := h.ConsultationService.Approve(id)
	if err != nil {
		respondConsultationTransitionError(c, err)
		return
	}
	response.Success(c, consultation)
}

// ScheduleConsultationRequest 排期请求
type ScheduleConsultationRequest struct {
	ScheduledTime time.Time `json:"scheduled_time" binding:"required"`
}

// ScheduleConsultation 为已支付咨询指定时间
func (h *Handler) ScheduleConsultation(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req ScheduleConsultationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	consultation, err := h.ConsultationService.Schedule(id, req.ScheduledTime)
	if err != nil {
		respondConsultationTransitionError(c, err)
		return
	}
	response.Success(c, consultation)
}

// CancelConsultationRequest 取消请求
type CancelConsultationRequest struct {
	Reason string `json:"reason"`
}

// CancelConsultation 取消咨询
func (h *Handler) CancelConsultation(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	// reason 可选，空请求体直接放行
	var req CancelConsultationRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return
		}
	}
	consultation, err := h.PaymentService.CancelConsultation(c.Request.Context(), id, req.Reason)
	if err != nil {
		switch {
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
			respondConsultationTransitionError(c, err)
		}
		return
	}
	response.Success(c, consultation)
}

// CompleteConsultation 完成咨询
func (h *Handler) CompleteConsultation(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	consultation, err := h.ConsultationService.Complete(id)
	if err != nil {
		respondConsultationTransitionError(c, err)
		return
	}
	response.Success(c, consultation)
}
