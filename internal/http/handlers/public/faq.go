package public

import (
	"errors"
	"strconv"

	"github.com/yurline/yurline/internal/http/response"
	"github.com/yurline/yurline/internal/models"
	"github.com/yurline/yurline/internal/service"

	"github.com/gin-gonic/gin"
)

// FAQView 按语言本地化后的常见问题条目
type FAQView struct {
	ID       uint   `json:"id"`
	Category string `json:"category,omitempty"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

func localizeFAQs(faqs []models.FAQ, language string) []FAQView {
	views := make([]FAQView, 0, len(faqs))
	for i := range faqs {
		faq := &faqs[i]
		views = append(views, FAQView{
			ID:       faq.ID,
			Category: faq.Category,
			Question: faq.LocalizedQuestion(language),
			Answer:   faq.LocalizedAnswer(language),
		})
	}
	return views
}

// ListFAQs 已发布常见问题列表（机器人端）
func (h *Handler) ListFAQs(c *gin.Context) {
	language := c.DefaultQuery("language", "ru")
	faqs, err := h.FAQService.Published(c.Request.Context(), c.Query("category"))
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, localizeFAQs(faqs, language))
}

// SearchFAQs 已发布常见问题检索（机器人端）
func (h *Handler) SearchFAQs(c *gin.Context) {
	language := c.DefaultQuery("language", "ru")
	faqs, err := h.FAQService.Search(c.Query("q"))
	if err != nil {
		if errors.Is(err, service.ErrFAQInvalid) {
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, localizeFAQs(faqs, language))
}

// GetFAQ 查看单条常见问题并计一次浏览
func (h *Handler) GetFAQ(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	language := c.DefaultQuery("language", "ru")
	faq, err := h.FAQService.View(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrFAQNotFound) {
			respondError(c, response.CodeNotFound, "error.faq_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, FAQView{
		ID:       faq.ID,
		Category: faq.Category,
		Question: faq.LocalizedQuestion(language),
		Answer:   faq.LocalizedAnswer(language),
	})
}
