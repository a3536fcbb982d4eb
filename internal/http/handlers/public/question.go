package public

import (
	"strconv"

	"github.com/yurline/yurline/internal/http/response"
	"github.com/yurline/yurline/internal/repository"
	"github.com/yurline/yurline/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateQuestionRequest 提交法律问题请求
type CreateQuestionRequest struct {
	TelegramID int64  `json:"telegram_id" binding:"required"`
	Text       string `json:"text" binding:"required"`
	Category   string `json:"category"`
	Language   string `json:"language"`
}

// CreateQuestion 提交法律问题
func (h *Handler) CreateQuestion(c *gin.Context) {
	var req CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	userID, ok := h.resolveBotUser(c, req.TelegramID)
	if !ok {
		return
	}

	question, err := h.QuestionService.Create(service.CreateQuestionInput{
		UserID:   userID,
		Text:     req.Text,
		Category: req.Category,
		Language: req.Language,
	})
	if err != nil {
		respondQuestionCreateError(c, err)
		return
	}
	response.Success(c, question)
}

// ListUserQuestions 查询用户自己的问题列表
func (h *Handler) ListUserQuestions(c *gin.Context) {
	telegramID, _ := strconv.ParseInt(c.Query("telegram_id"), 10, 64)
	userID, ok := h.resolveBotUser(c, telegramID)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	questions, total, err := h.QuestionService.List(repository.QuestionListFilter{
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
	response.SuccessWithPage(c, questions, pagination)
}
