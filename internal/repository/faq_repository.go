package repository

import (
	"errors"

	"github.com/yurline/yurline/internal/models"

	"gorm.io/gorm"
)

// FAQRepository 常见问题数据访问接口
type FAQRepository interface {
	Create(faq *models.FAQ) error
	GetByID(id uint) (*models.FAQ, error)
	Update(id uint, updates map[string]interface{}) error
	Delete(id uint) error
	List(filter FAQListFilter) ([]models.FAQ, int64, error)
	MaxSortOrder() (int, error)
	IncrementViewCount(id uint) error
}

// GormFAQRepository GORM 实现
type GormFAQRepository struct {
	db *gorm.DB
}

// NewFAQRepository 创建常见问题仓库
func NewFAQRepository(db *gorm.DB) *GormFAQRepository {
	return &GormFAQRepository{db: db}
}

// Create 创建条目
func (r *GormFAQRepository) Create(faq *models.FAQ) error {
	return r.db.Create(faq).Error
}

// GetByID 根据 ID 获取条目
func (r *GormFAQRepository) GetByID(id uint) (*models.FAQ, error) {
	var faq models.FAQ
	if err := r.db.First(&faq, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &faq, nil
}

// Update 更新条目字段
func (r *GormFAQRepository) Update(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.FAQ{}).Where("id = ?", id).Updates(updates).Error
}

// Delete 软删除条目
func (r *GormFAQRepository) Delete(id uint) error {
	return r.db.Delete(&models.FAQ{}, id).Error
}

// List 条目列表，按展示顺序排序
func (r *GormFAQRepository) List(filter FAQListFilter) ([]models.FAQ, int64, error) {
	var faqs []models.FAQ
	query := r.db.Model(&models.FAQ{})

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.PublishedOnly {
		query = query.Where("is_published = ?", true)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"question_ru LIKE ? OR answer_ru LIKE ? OR question_uz LIKE ? OR answer_uz LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("sort_order asc, id asc").Find(&faqs).Error; err != nil {
		return nil, 0, err
	}
	return faqs, total, nil
}

// MaxSortOrder 当前最大展示顺序
func (r *GormFAQRepository) MaxSortOrder() (int, error) {
	var max *int
	if err := r.db.Model(&models.FAQ{}).Select("MAX(sort_order)").Scan(&max).Error; err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

// IncrementViewCount 累加查看次数
func (r *GormFAQRepository) IncrementViewCount(id uint) error {
	return r.db.Model(&models.FAQ{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}
