package admin

import (
	"errors"
	"strconv"

	"github.com/yurline/yurline/internal/http/response"
	"github.com/yurline/yurline/internal/repository"
	"github.com/yurline/yurline/internal/service"

	"github.com/gin-gonic/gin"
)

// GetAdminQuestions 获取问题列表 (Admin)
func (h *Handler) GetAdminQuestions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)
	userID, _ := strconv.ParseUint(c.Query("user_id"), 10, 64)

	questions, total, err := h.QuestionService.List(repository.QuestionListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   uint(userID),
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Search:   c.Query("search"),
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
	response.SuccessWithPage(c, questions, pagination)
}

// GetAdminQuestion 获取问题详情 (Admin)
func (h *Handler) GetAdminQuestion(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	question, err := h.QuestionService.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrQuestionNotFound) {
			respondError(c, response.CodeNotFound, "error.question_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, question)
}

// AnswerQuestionRequest 回答问题请求
type AnswerQuestionRequest struct {
	Answer string `json:"answer" binding:"required"`
}

// AnswerQuestion 回答法律问题
func (h *Handler) AnswerQuestion(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	var req AnswerQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	question, err := h.QuestionService.Answer(id, adminID, req.Answer)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrQuestionNotFound):
			respondError(c, response.CodeNotFound, "error.question_not_found", nil)
		case errors.Is(err, service.ErrQuestionStateInvalid):
			respondError(c, response.CodeConflict, "error.question_state_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}
	response.Success(c, question)
}
