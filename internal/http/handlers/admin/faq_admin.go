package admin

import (
	"errors"
	"strconv"

	"github.com/yurline/yurline/internal/http/response"
	"github.com/yurline/yurline/internal/repository"
	"github.com/yurline/yurline/internal/service"

	"github.com/gin-gonic/gin"
)

// GetAdminFAQs 获取常见问题列表 (Admin)
func (h *Handler) GetAdminFAQs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	faqs, total, err := h.FAQService.List(repository.FAQListFilter{
		Page:     page,
		PageSize: pageSize,
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
	response.SuccessWithPage(c, faqs, pagination)
}

// GetAdminFAQ 获取常见问题详情 (Admin)
func (h *Handler) GetAdminFAQ(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	faq, err := h.FAQService.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrFAQNotFound) {
			respondError(c, response.CodeNotFound, "error.faq_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, faq)
}

// FAQRequest 常见问题条目请求
type FAQRequest struct {
	Category    string `json:"category"`
	QuestionRu  string `json:"question_ru" binding:"required"`
	AnswerRu    string `json:"answer_ru" binding:"required"`
	QuestionUz  string `json:"question_uz"`
	AnswerUz    string `json:"answer_uz"`
	SortOrder   *int   `json:"sort_order"`
	IsPublished *bool  `json:"is_published"`
}

func (r *FAQRequest) toInput() service.FAQInput {
	return service.FAQInput{
		Category:    r.Category,
		QuestionRu:  r.QuestionRu,
		AnswerRu:    r.AnswerRu,
		QuestionUz:  r.QuestionUz,
		AnswerUz:    r.AnswerUz,
		SortOrder:   r.SortOrder,
		IsPublished: r.IsPublished,
	}
}

// CreateFAQ 创建常见问题条目
func (h *Handler) CreateFAQ(c *gin.Context) {
	var req FAQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	faq, err := h.FAQService.Create(req.toInput())
	if err != nil {
		respondFAQMutationError(c, err)
		return
	}
	response.Success(c, faq)
}

// UpdateFAQ 更新常见问题条目
func (h *Handler) UpdateFAQ(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req FAQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	faq, err := h.FAQService.Update(id, req.toInput())
	if err != nil {
		respondFAQMutationError(c, err)
		return
	}
	response.Success(c, faq)
}

// DeleteFAQ 删除常见问题条目
func (h *Handler) DeleteFAQ(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.FAQService.Delete(id); err != nil {
		respondFAQMutationError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

func respondFAQMutationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrFAQNotFound):
		respondError(c, response.CodeNotFound, "error.faq_not_found", nil)
	case errors.Is(err, service.ErrFAQInvalid):
		respondError(c, response.CodeBadRequest, "error.faq_invalid", nil)
	default:
		respondError(c, response.CodeInternal, "error.internal", err)
	}
}
