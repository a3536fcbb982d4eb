package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/yurline/yurline/internal/config"
	"github.com/yurline/yurline/internal/models"
	"github.com/yurline/yurline/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthServiceTest(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:auth_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Admin{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	cfg := &config.Config{}
	cfg.JWT.SecretKey = "test-jwt-secret-key"
	cfg.JWT.ExpireHours = 24
	return NewAuthService(cfg, repository.NewAdminRepository(db)), db
}

func createTestAdmin(t *testing.T, svc *AuthService, db *gorm.DB, username, password string) *models.Admin {
	t.Helper()

	hash, err := svc.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	admin := &models.Admin{Username: username, PasswordHash: hash}
	if err := db.Create(admin).Error; err != nil {
		t.Fatalf("create admin failed: %v", err)
	}
	return admin
}

func TestLogin(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	createTestAdmin(t, svc, db, "lawyer", "correct-horse-battery")

	admin, token, expiresAt, err := svc.Login("lawyer", "correct-horse-battery")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token to be issued")
	}
	if !expiresAt.After(time.Now()) {
		t.Fatalf("expected future expiry, got %v", expiresAt)
	}

	claims, err := svc.ParseJWT(token)
	if err != nil {
		t.Fatalf("parse jwt failed: %v", err)
	}
	if claims.AdminID != admin.ID || claims.Username != "lawyer" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestLoginFailed(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	createTestAdmin(t, svc, db, "lawyer", "correct-horse-battery")

	if _, _, _, err := svc.Login("lawyer", "wrong-password"); err != ErrLoginFailed {
		t.Fatalf("expected login failed, got %v", err)
	}
	if _, _, _, err := svc.Login("nobody", "correct-horse-battery"); err != ErrLoginFailed {
		t.Fatalf("expected login failed for unknown user, got %v", err)
	}
}

func TestParseJWTRejectsForeignToken(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	createTestAdmin(t, svc, db, "lawyer", "correct-horse-battery")
	_, token, _, err := svc.Login("lawyer", "correct-horse-battery")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	otherCfg := &config.Config{}
	otherCfg.JWT.SecretKey = "another-secret"
	otherCfg.JWT.ExpireHours = 24
	other := NewAuthService(otherCfg, nil)
	if _, err := other.ParseJWT(token); err == nil {
		t.Fatalf("expected parse to fail with different secret")
	}
}

func TestChangePassword(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	admin := createTestAdmin(t, svc, db, "lawyer", "correct-horse-battery")

	if err := svc.ChangePassword(admin.ID, "wrong-old", "brand-new-password"); err != ErrPasswordInvalid {
		t.Fatalf("expected password invalid, got %v", err)
	}
	if err := svc.ChangePassword(admin.ID, "correct-horse-battery", "short"); err != ErrPasswordWeak {
		t.Fatalf("expected password weak, got %v", err)
	}
	if err := svc.ChangePassword(99999, "correct-horse-battery", "brand-new-password"); err != ErrAdminNotFound {
		t.Fatalf("expected admin not found, got %v", err)
	}

	if err := svc.ChangePassword(admin.ID, "correct-horse-battery", "brand-new-password"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}
	if _, _, _, err := svc.Login("lawyer", "brand-new-password"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
	if _, _, _, err := svc.Login("lawyer", "correct-horse-battery"); err != ErrLoginFailed {
		t.Fatalf("expected old password to be rejected, got %v", err)
	}
}
