package service

import (
	"github.com/yurline/yurline/internal/models"
	"github.com/yurline/yurline/internal/repository"
)

// Get 获取咨询详情
func (s *ConsultationService) Get(consultationID uint) (*models.Consultation, error) {
	consultation, err := s.consultationRepo.GetByID(consultationID)
	if err != nil {
		return nil, err
	}
	if consultation == nil {
		return nil, ErrConsultationNotFound
	}
	return consultation, nil
}

// GetForUser 获取用户自己的咨询详情
func (s *ConsultationService) GetForUser(consultationID, userID uint) (*models.Consultation, error) {
	consultation, err := s.consultationRepo.GetByIDAndUser(consultationID, userID)
	if err != nil {
		return nil, err
	}
	if consultation == nil {
		return nil, ErrConsultationNotFound
	}
	return consultation, nil
}

// List 管理端咨询列表
func (s *ConsultationService) List(filter repository.ConsultationListFilter) ([]models.Consultation, int64, error) {
	return s.consultationRepo.List(filter)
}

// ListForUser 用户咨询列表
func (s *ConsultationService) ListForUser(filter repository.ConsultationListFilter) ([]models.Consultation, int64, error) {
	if filter.UserID == 0 {
		return nil, 0, ErrUserNotFound
	}
	return s.consultationRepo.ListByUser(filter)
}

// Timeline 获取咨询时间线
func (s *ConsultationService) Timeline(consultationID uint) ([]models.ConsultationEvent, error) {
	consultation, err := s.consultationRepo.GetByID(consultationID)
	if err != nil {
		return nil, err
	}
	if consultation == nil {
		return nil, ErrConsultationNotFound
	}
	return s.consultationRepo.ListEvents(consultationID)
}
