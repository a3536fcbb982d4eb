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

func setupUserServiceTest(t *testing.T) (*UserService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:user_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewUserService(repository.NewUserRepository(db)), db
}

func TestRegisterUpsertsProfile(t *testing.T) {
	svc, _ := setupUserServiceTest(t)

	user, err := svc.Register(RegisterInput{
		TelegramID: 100500,
		Username:   "client",
		FullName:   "Aziz Karimov",
		Language:   "uz",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Status != constants.UserStatusActive {
		t.Fatalf("expected active, got %s", user.Status)
	}
	if user.Language != "uz" {
		t.Fatalf("expected language uz, got %s", user.Language)
	}

	updated, err := svc.Register(RegisterInput{
		TelegramID:  100500,
		Username:    "client",
		FullName:    "Aziz Karimov",
		PhoneNumber: "+998901234567",
		Language:    "ru",
	})
	if err != nil {
		t.Fatalf("repeated register failed: %v", err)
	}
	if updated.ID != user.ID {
		t.Fatalf("expected same user, got %d and %d", user.ID, updated.ID)
	}
	if updated.PhoneNumber != "+998901234567" || updated.Language != "ru" {
		t.Fatalf("expected profile to be refreshed, got %+v", updated)
	}
}

func TestRegisterNormalizesUnknownLanguage(t *testing.T) {
	svc, _ := setupUserServiceTest(t)

	user, err := svc.Register(RegisterInput{TelegramID: 100501, Language: "de"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Language != "ru" {
		t.Fatalf("expected fallback language ru, got %s", user.Language)
	}

	if _, err := svc.Register(RegisterInput{TelegramID: 0}); err != ErrUserNotFound {
		t.Fatalf("expected user not found for zero telegram id, got %v", err)
	}
}

func TestRegisterKeepsBlockedStatus(t *testing.T) {
	svc, _ := setupUserServiceTest(t)

	user, err := svc.Register(RegisterInput{TelegramID: 100502, Username: "client"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := svc.Block(user.ID); err != nil {
		t.Fatalf("block failed: %v", err)
	}

	// 已封禁的用户再次 /start 不能解除封禁
	again, err := svc.Register(RegisterInput{TelegramID: 100502, Username: "client-renamed"})
	if err != nil {
		t.Fatalf("repeated register failed: %v", err)
	}
	if !again.IsBlocked() {
		t.Fatalf("expected user to remain blocked, got %s", again.Status)
	}
}

func TestBlockAndUnblock(t *testing.T) {
	svc, _ := setupUserServiceTest(t)
	user, err := svc.Register(RegisterInput{TelegramID: 100503})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	blocked, err := svc.Block(user.ID)
	if err != nil {
		t.Fatalf("block failed: %v", err)
	}
	if !blocked.IsBlocked() || blocked.BlockedAt == nil {
		t.Fatalf("expected blocked with timestamp, got %+v", blocked)
	}

	// 重复封禁为空操作
	if _, err := svc.Block(user.ID); err != nil {
		t.Fatalf("repeated block failed: %v", err)
	}

	unblocked, err := svc.Unblock(user.ID)
	if err != nil {
		t.Fatalf("unblock failed: %v", err)
	}
	if unblocked.IsBlocked() || unblocked.BlockedAt != nil {
		t.Fatalf("expected active without blocked_at, got %+v", unblocked)
	}

	if _, err := svc.Block(99999); err != ErrUserNotFound {
		t.Fatalf("expected user not found, got %v", err)
	}
}
