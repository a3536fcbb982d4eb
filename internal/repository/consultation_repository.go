package repository

import (
	"errors"
	"time"

	"github.com/yurline/yurline/internal/constants"
	"github.com/yurline/yurline/internal/models"

	"gorm.io/gorm"
)

// ConsultationRepository 咨询数据访问接口
type ConsultationRepository interface {
	Create(consultation *models.Consultation) error
	GetByID(id uint) (*models.Consultation, error)
	GetByIDAndUser(id uint, userID uint) (*models.Consultation, error)
	List(filter ConsultationListFilter) ([]models.Consultation, int64, error)
	ListByUser(filter ConsultationListFilter) ([]models.Consultation, int64, error)
	UpdateStatusWithVersion(id uint, version uint64, status string, updates map[string]interface{}) (bool, error)
	ListScheduledTimes(from, to time.Time) ([]time.Time, error)
	ExistsScheduledAt(slot time.Time) (bool, error)
	AppendEvent(event *models.ConsultationEvent) error
	ListEvents(consultationID uint) ([]models.ConsultationEvent, error)
	CountByStatus() (map[string]int64, error)
	WithTx(tx *gorm.DB) *GormConsultationRepository
}

// GormConsultationRepository GORM 实现
type GormConsultationRepository struct {
	db *gorm.DB
}

// NewConsultationRepository 创建咨询仓库
func NewConsultationRepository(db *gorm.DB) *GormConsultationRepository {
	return &GormConsultationRepository{db: db}
}

// WithTx 绑定事务
func (r *GormConsultationRepository) WithTx(tx *gorm.DB) *GormConsultationRepository {
	if tx == nil {
		return r
	}
	return &GormConsultationRepository{db: tx}
}

// Create 创建咨询
func (r *GormConsultationRepository) Create(consultation *models.Consultation) error {
	return r.db.Create(consultation).Error
}

// GetByID 根据 ID 获取咨询（含支付与时间线）
func (r *GormConsultationRepository) GetByID(id uint) (*models.Consultation, error) {
	var consultation models.Consultation
	query := r.db.Preload("Payments").Preload("Events", func(db *gorm.DB) *gorm.DB {
		return db.Order("id asc")
	})
	if err := query.First(&consultation, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &consultation, nil
}

// GetByIDAndUser 获取用户自己的咨询详情
func (r *GormConsultationRepository) GetByIDAndUser(id uint, userID uint) (*models.Consultation, error) {
	var consultation models.Consultation
	query := r.db.Preload("Payments").Preload("Events", func(db *gorm.DB) *gorm.DB {
		return db.Order("id asc")
	})
	if err := query.Where("id = ? AND user_id = ?", id, userID).First(&consultation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &consultation, nil
}

// List 管理端咨询列表
func (r *GormConsultationRepository) List(filter ConsultationListFilter) ([]models.Consultation, int64, error) {
	var consultations []models.Consultation
	query := r.db.Model(&models.Consultation{})

	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.PhoneNumber != "" {
		query = query.Where("phone_number LIKE ?", "%"+filter.PhoneNumber+"%")
	}
	if filter.ScheduledFrom != nil {
		query = query.Where("scheduled_time >= ?", *filter.ScheduledFrom)
	}
	if filter.ScheduledTo != nil {
		query = query.Where("scheduled_time <= ?", *filter.ScheduledTo)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Preload("Payments").Order("id desc").Find(&consultations).Error; err != nil {
		return nil, 0, err
	}
	return consultations, total, nil
}

// ListByUser 获取用户咨询列表
func (r *GormConsultationRepository) ListByUser(filter ConsultationListFilter) ([]models.Consultation, int64, error) {
	var consultations []models.Consultation
	query := r.db.Model(&models.Consultation{}).Where("user_id = ?", filter.UserID)

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("id desc").Find(&consultations).Error; err != nil {
		return nil, 0, err
	}
	return consultations, total, nil
}

// UpdateStatusWithVersion 乐观锁更新咨询状态。
// 仅当当前版本匹配时写入并递增版本号，返回是否命中。
func (r *GormConsultationRepository) UpdateStatusWithVersion(id uint, version uint64, status string, updates map[string]interface{}) (bool, error) {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = status
	updates["version"] = version + 1

	result := r.db.Model(&models.Consultation{}).
		Where("id = ? AND version = ?", id, version).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListScheduledTimes 获取时间区间内已占用的预约时间
func (r *GormConsultationRepository) ListScheduledTimes(from, to time.Time) ([]time.Time, error) {
	var times []time.Time
	if err := r.db.Model(&models.Consultation{}).
		Where("status = ? AND scheduled_time >= ? AND scheduled_time < ?", constants.ConsultationStatusScheduled, from, to).
		Order("scheduled_time asc").
		Pluck("scheduled_time", &times).Error; err != nil {
		return nil, err
	}
	return times, nil
}

// ExistsScheduledAt 判断某个时段是否已被占用
func (r *GormConsultationRepository) ExistsScheduledAt(slot time.Time) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Consultation{}).
		Where("status = ? AND scheduled_time = ?", constants.ConsultationStatusScheduled, slot).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// AppendEvent 追加时间线事件（只增不改）
func (r *GormConsultationRepository) AppendEvent(event *models.ConsultationEvent) error {
	return r.db.Create(event).Error
}

// ListEvents 获取咨询时间线
func (r *GormConsultationRepository) ListEvents(consultationID uint) ([]models.ConsultationEvent, error) {
	var events []models.ConsultationEvent
	if err := r.db.Where("consultation_id = ?", consultationID).
		Order("id asc").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// CountByStatus 按状态统计咨询数量
func (r *GormConsultationRepository) CountByStatus() (map[string]int64, error) {
	var rows []struct {
		Status string
		Total  int64
	}
	if err := r.db.Model(&models.Consultation{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}
