package service

import (
	"strings"
	"time"

	"github.com/yurline/yurline/internal/constants"
	"github.com/yurline/yurline/internal/i18n"
	"github.com/yurline/yurline/internal/logger"
	"github.com/yurline/yurline/internal/models"
	"github.com/yurline/yurline/internal/repository"
)

// UserService 用户服务
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService 创建用户服务
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// RegisterInput Telegram 用户注册/刷新输入
type RegisterInput struct {
	TelegramID  int64
	Username    string
	FullName    string
	PhoneNumber string
	Language    string
}

// Register 注册或刷新 Telegram 用户资料
func (s *UserService) Register(input RegisterInput) (*models.User, error) {
	if input.TelegramID == 0 {
		return nil, ErrUserNotFound
	}
	now := time.Now()
	user := &models.User{
		TelegramID:  input.TelegramID,
		Username:    strings.TrimSpace(input.Username),
		FullName:    strings.TrimSpace(input.FullName),
		PhoneNumber: strings.TrimSpace(input.PhoneNumber),
		Language:    i18n.Normalize(input.Language),
		Status:      constants.UserStatusActive,
		LastSeenAt:  &now,
	}
	if err := s.userRepo.Upsert(user); err != nil {
		return nil, err
	}
	return s.userRepo.GetByTelegramID(input.TelegramID)
}

// Get 获取用户详情
func (s *UserService) Get(userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// GetByTelegramID 根据 Telegram ID 获取用户
func (s *UserService) GetByTelegramID(telegramID int64) (*models.User, error) {
	user, err := s.userRepo.GetByTelegramID(telegramID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// List 管理端用户列表
func (s *UserService) List(filter repository.UserListFilter) ([]models.User, int64, error) {
	return s.userRepo.List(filter)
}

// Block 封禁用户
func (s *UserService) Block(userID uint) (*models.User, error) {
	user, err := s.Get(userID)
	if err != nil {
		return nil, err
	}
	if user.IsBlocked() {
		return user, nil
	}
	now := time.Now()
	if err := s.userRepo.UpdateStatus(userID, constants.UserStatusBlocked, map[string]interface{}{
		"blocked_at": now,
	}); err != nil {
		return nil, err
	}
	logger.Infow("user_blocked", "user_id", userID)
	return s.Get(userID)
}

// Unblock 解封用户
func (s *UserService) Unblock(userID uint) (*models.User, error) {
	user, err := s.Get(userID)
	if err != nil {
		return nil, err
	}
	if !user.IsBlocked() {
		return user, nil
	}
	if err := s.userRepo.UpdateStatus(userID, constants.UserStatusActive, map[string]interface{}{
		"blocked_at": nil,
	}); err != nil {
		return nil, err
	}
	logger.Infow("user_unblocked", "user_id", userID)
	return s.Get(userID)
}
