package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/yurline/yurline/internal/constants"
	"github.com/yurline/yurline/internal/models"
	"github.com/yurline/yurline/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupQuestionServiceTest(t *testing.T) (*QuestionService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:question_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Question{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	questionRepo := repository.NewQuestionRepository(db)
	userRepo := repository.NewUserRepository(db)
	return NewQuestionService(questionRepo, userRepo, nil), db
}

func TestCreateQuestion(t *testing.T) {
	svc, db := setupQuestionServiceTest(t)
	user := createServiceTestUser(t, db, constants.UserStatusActive)

	question, err := svc.Create(CreateQuestionInput{
		UserID:   user.ID,
		Text:     "Can my employer withhold my final salary?",
		Category: "labor",
	})
	if err != nil {
		t.Fatalf("create question failed: %v", err)
	}
	if question.Status != constants.QuestionStatusPending {
		t.Fatalf("expected pending, got %s", question.Status)
	}
	// 语言缺省回落到用户偏好
	if question.Language != user.Language {
		t.Fatalf("expected language %s, got %s", user.Language, question.Language)
	}
}

func TestCreateQuestionValidation(t *testing.T) {
	svc, db := setupQuestionServiceTest(t)
	user := createServiceTestUser(t, db, constants.UserStatusActive)
	blocked := createServiceTestUser(t, db, constants.UserStatusBlocked)

	if _, err := svc.Create(CreateQuestionInput{UserID: 99999, Text: "hello"}); err != ErrUserNotFound {
		t.Fatalf("expected user not found, got %v", err)
	}
	if _, err := svc.Create(CreateQuestionInput{UserID: blocked.ID, Text: "hello"}); err != ErrUserBlocked {
		t.Fatalf("expected user blocked, got %v", err)
	}
	if _, err := svc.Create(CreateQuestionInput{UserID: user.ID, Text: "   "}); err != ErrQuestionStateInvalid {
		t.Fatalf("expected invalid for empty text, got %v", err)
	}
}

func TestAnswerQuestion(t *testing.T) {
	svc, db := setupQuestionServiceTest(t)
	user := createServiceTestUser(t, db, constants.UserStatusActive)
	question, err := svc.Create(CreateQuestionInput{UserID: user.ID, Text: "question text"})
	if err != nil {
		t.Fatalf("create question failed: %v", err)
	}

	answered, err := svc.Answer(question.ID, 7, "You should file a written complaint first.")
	if err != nil {
		t.Fatalf("answer failed: %v", err)
	}
	if answered.Status != constants.QuestionStatusAnswered {
		t.Fatalf("expected answered, got %s", answered.Status)
	}
	if answered.AnsweredBy != 7 {
		t.Fatalf("expected answered_by 7, got %d", answered.AnsweredBy)
	}
	if answered.AnsweredAt == nil {
		t.Fatalf("expected answered_at to be set")
	}

	// 已答复的问题不可重复答复
	if _, err := svc.Answer(question.ID, 7, "second answer"); err != ErrQuestionStateInvalid {
		t.Fatalf("expected state invalid for repeated answer, got %v", err)
	}
}

func TestAnswerQuestionValidation(t *testing.T) {
	svc, db := setupQuestionServiceTest(t)
	user := createServiceTestUser(t, db, constants.UserStatusActive)
	question, err := svc.Create(CreateQuestionInput{UserID: user.ID, Text: "question text"})
	if err != nil {
		t.Fatalf("create question failed: %v", err)
	}

	if _, err := svc.Answer(99999, 1, "answer"); err != ErrQuestionNotFound {
		t.Fatalf("expected question not found, got %v", err)
	}
	if _, err := svc.Answer(question.ID, 1, "   "); err != ErrQuestionStateInvalid {
		t.Fatalf("expected invalid for empty answer, got %v", err)
	}
}
