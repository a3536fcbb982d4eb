package repository

import (
	"errors"

	"github.com/yurline/yurline/internal/models"

	"gorm.io/gorm"
)

// QuestionRepository 法律问题数据访问接口
type QuestionRepository interface {
	Create(question *models.Question) error
	GetByID(id uint) (*models.Question, error)
	List(filter QuestionListFilter) ([]models.Question, int64, error)
	UpdateStatus(id uint, status string, updates map[string]interface{}) error
	WithTx(tx *gorm.DB) *GormQuestionRepository
}

// GormQuestionRepository GORM 实现
type GormQuestionRepository struct {
	db *gorm.DB
}

// NewQuestionRepository 创建法律问题仓库
func NewQuestionRepository(db *gorm.DB) *GormQuestionRepository {
	return &GormQuestionRepository{db: db}
}

// WithTx 绑定事务
func (r *GormQuestionRepository) WithTx(tx *gorm.DB) *GormQuestionRepository {
	if tx == nil {
		return r
	}
	return &GormQuestionRepository{db: tx}
}

// Create 创建问题
func (r *GormQuestionRepository) Create(question *models.Question) error {
	return r.db.Create(question).Error
}

// GetByID 根据 ID 获取问题
func (r *GormQuestionRepository) GetByID(id uint) (*models.Question, error) {
	var question models.Question
	if err := r.db.First(&question, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &question, nil
}

// List 问题列表
func (r *GormQuestionRepository) List(filter QuestionListFilter) ([]models.Question, int64, error) {
	var questions []models.Question
	query := r.db.Model(&models.Question{})

	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		query = query.Where("text LIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("id desc").Find(&questions).Error; err != nil {
		return nil, 0, err
	}
	return questions, total, nil
}

// UpdateStatus 更新问题状态
func (r *GormQuestionRepository) UpdateStatus(id uint, status string, updates map[string]interface{}) error {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = status
	return r.db.Model(&models.Question{}).Where("id = ?", id).Updates(updates).Error
}
