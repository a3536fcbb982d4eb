package service

import (
	"context"
	"strings"
	"time"

	"github.com/yurline/yurline/internal/cache"
	"github.com/yurline/yurline/internal/logger"
	"github.com/yurline/yurline/internal/models"
	"github.com/yurline/yurline/internal/repository"
)

const faqCacheTTL = time.Hour

// FAQService 常见问题服务
type FAQService struct {
	faqRepo repository.FAQRepository
}

// NewFAQService 创建常见问题服务
func NewFAQService(faqRepo repository.FAQRepository) *FAQService {
	return &FAQService{faqRepo: faqRepo}
}

// FAQInput 常见问题条目输入
type FAQInput struct {
	Category    string
	QuestionRu  string
	AnswerRu    string
	QuestionUz  string
	AnswerUz    string
	SortOrder   *int
	IsPublished *bool
}

// Create 创建条目，未指定顺序时排在末尾
func (s *FAQService) Create(input FAQInput) (*models.FAQ, error) {
	questionRu := strings.TrimSpace(input.QuestionRu)
	answerRu := strings.TrimSpace(input.AnswerRu)
	if questionRu == "" || answerRu == "" {
		return nil, ErrFAQInvalid
	}

	sortOrder := 0
	if input.SortOrder != nil {
		sortOrder = *input.SortOrder
	} else {
		max, err := s.faqRepo.MaxSortOrder()
		if err != nil {
			return nil, err
		}
		sortOrder = max + 1
	}
	published := true
	if input.IsPublished != nil {
		published = *input.IsPublished
	}

	faq := &models.FAQ{
		Category:    strings.TrimSpace(input.Category),
		SortOrder:   sortOrder,
		QuestionRu:  questionRu,
		AnswerRu:    answerRu,
		QuestionUz:  strings.TrimSpace(input.QuestionUz),
		AnswerUz:    strings.TrimSpace(input.AnswerUz),
		IsPublished: published,
	}
	if err := s.faqRepo.Create(faq); err != nil {
		return nil, err
	}
	s.invalidate(faq.Category)

	logger.Infow("faq_created", "faq_id", faq.ID, "category", faq.Category)
	return faq, nil
}

// Update 更新条目内容
func (s *FAQService) Update(faqID uint, input FAQInput) (*models.FAQ, error) {
	faq, err := s.faqRepo.GetByID(faqID)
	if err != nil {
		return nil, err
	}
	if faq == nil {
		return nil, ErrFAQNotFound
	}

	questionRu := strings.TrimSpace(input.QuestionRu)
	answerRu := strings.TrimSpace(input.AnswerRu)
	if questionRu == "" || answerRu == "" {
		return nil, ErrFAQInvalid
	}

	updates := map[string]interface{}{
		"category":    strings.TrimSpace(input.Category),
		"question_ru": questionRu,
		"answer_ru":   answerRu,
		"question_uz": strings.TrimSpace(input.QuestionUz),
		"answer_uz":   strings.TrimSpace(input.AnswerUz),
	}
	if input.SortOrder != nil {
		updates["sort_order"] = *input.SortOrder
	}
	if input.IsPublished != nil {
		updates["is_published"] = *input.IsPublished
	}
	if err := s.faqRepo.Update(faq.ID, updates); err != nil {
		return nil, err
	}
	s.invalidate(faq.Category)
	s.invalidate(strings.TrimSpace(input.Category))

	logger.Infow("faq_updated", "faq_id", faq.ID)
	return s.faqRepo.GetByID(faq.ID)
}

// Delete 删除条目
func (s *FAQService) Delete(faqID uint) error {
	faq, err := s.faqRepo.GetByID(faqID)
	if err != nil {
		return err
	}
	if faq == nil {
		return ErrFAQNotFound
	}
	if err := s.faqRepo.Delete(faq.ID); err != nil {
		return err
	}
	s.invalidate(faq.Category)

	logger.Infow("faq_deleted", "faq_id", faq.ID)
	return nil
}

// Get 获取条目详情
func (s *FAQService) Get(faqID uint) (*models.FAQ, error) {
	faq, err := s.faqRepo.GetByID(faqID)
	if err != nil {
		return nil, err
	}
	if faq == nil {
		return nil, ErrFAQNotFound
	}
	return faq, nil
}

// View 用户查看已发布条目并记一次浏览
func (s *FAQService) View(faqID uint) (*models.FAQ, error) {
	faq, err := s.faqRepo.GetByID(faqID)
	if err != nil {
		return nil, err
	}
	if faq == nil || !faq.IsPublished {
		return nil, ErrFAQNotFound
	}
	if err := s.faqRepo.IncrementViewCount(faq.ID); err != nil {
		logger.Warnw("faq_view_count_failed", "faq_id", faq.ID, "error", err)
	}
	return faq, nil
}

// List 管理端条目列表（含未发布）
func (s *FAQService) List(filter repository.FAQListFilter) ([]models.FAQ, int64, error) {
	return s.faqRepo.List(filter)
}

// Published 已发布条目列表，按分类缓存
func (s *FAQService) Published(ctx context.Context, category string) ([]models.FAQ, error) {
	var cached []models.FAQ
	hit, err := cache.GetFAQList(ctx, category, &cached)
	if err != nil {
		logger.Warnw("faq_cache_read_failed", "category", category, "error", err)
	}
	if hit {
		return cached, nil
	}

	faqs, _, err := s.faqRepo.List(repository.FAQListFilter{
		Category:      category,
		PublishedOnly: true,
	})
	if err != nil {
		return nil, err
	}
	if err := cache.SetFAQList(ctx, category, faqs, faqCacheTTL); err != nil {
		logger.Warnw("faq_cache_write_failed", "category", category, "error", err)
	}
	return faqs, nil
}

// Search 在已发布条目中做关键词检索
func (s *FAQService) Search(query string) ([]models.FAQ, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrFAQInvalid
	}
	faqs, _, err := s.faqRepo.List(repository.FAQListFilter{
		Search:        query,
		PublishedOnly: true,
	})
	return faqs, err
}

func (s *FAQService) invalidate(category string) {
	if err := cache.DelFAQList(context.Background(), category); err != nil {
		logger.Warnw("faq_cache_invalidate_failed", "category", category, "error", err)
	}
}
