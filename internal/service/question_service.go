package service

import (
	"strings"
	"time"

	"github.com/yurline/yurline/internal/constants"
	"github.com/yurline/yurline/internal/logger"
	"github.com/yurline/yurline/internal/models"
	"github.com/yurline/yurline/internal/repository"
)

// QuestionService 法律问题服务
type QuestionService struct {
	questionRepo    repository.QuestionRepository
	userRepo        repository.UserRepository
	notificationSvc *NotificationService
}

// NewQuestionService 创建法律问题服务
func NewQuestionService(questionRepo repository.QuestionRepository, userRepo repository.UserRepository, notificationSvc *NotificationService) *QuestionService {
	return &QuestionService{
		questionRepo:    questionRepo,
		userRepo:        userRepo,
		notificationSvc: notificationSvc,
	}
}

// CreateQuestionInput 提交问题输入
type CreateQuestionInput struct {
	UserID   uint
	Text     string
	Category string
	Language string
}

// Create 提交法律问题
func (s *QuestionService) Create(input CreateQuestionInput) (*models.Question, error) {
	user, err := s.userRepo.GetByID(input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.IsBlocked() {
		return nil, ErrUserBlocked
	}

	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, ErrQuestionStateInvalid
	}
	language := strings.TrimSpace(input.Language)
	if language == "" {
		language = user.Language
	}

	question := &models.Question{
		UserID:   input.UserID,
		Text:     text,
		Category: strings.TrimSpace(input.Category),
		Language: language,
		Status:   constants.QuestionStatusPending,
	}
	if err := s.questionRepo.Create(question); err != nil {
		return nil, err
	}

	logger.Infow("question_created", "question_id", question.ID, "user_id", question.UserID)
	return question, nil
}

// Answer 律师答复问题并推送用户
func (s *QuestionService) Answer(questionID uint, adminID uint, answer string) (*models.Question, error) {
	question, err := s.questionRepo.GetByID(questionID)
	if err != nil {
		return nil, err
	}
	if question == nil {
		return nil, ErrQuestionNotFound
	}
	if question.Status != constants.QuestionStatusPending {
		return nil, ErrQuestionStateInvalid
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil, ErrQuestionStateInvalid
	}

	now := time.Now()
	if err := s.questionRepo.UpdateStatus(question.ID, constants.QuestionStatusAnswered, map[string]interface{}{
		"answer":      answer,
		"answered_by": adminID,
		"answered_at": now,
	}); err != nil {
		return nil, err
	}

	question, err = s.questionRepo.GetByID(question.ID)
	if err != nil {
		return nil, err
	}
	if s.notificationSvc != nil {
		if err := s.notificationSvc.NotifyQuestionAnswered(question); err != nil {
			logger.Warnw("question_answer_notify_failed", "question_id", questionID, "error", err)
		}
	}

	logger.Infow("question_answered", "question_id", questionID, "admin_id", adminID)
	return question, nil
}

// Get 获取问题详情
func (s *QuestionService) Get(questionID uint) (*models.Question, error) {
	question, err := s.questionRepo.GetByID(questionID)
	if err != nil {
		return nil, err
	}
	if question == nil {
		return nil, ErrQuestionNotFound
	}
	return question, nil
}

// List 问题列表
func (s *QuestionService) List(filter repository.QuestionListFilter) ([]models.Question, int64, error) {
	return s.questionRepo.List(filter)
}
