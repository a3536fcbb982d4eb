package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/yurline/yurline/internal/constants"
	"github.com/yurline/yurline/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupDashboardRepositoryTest(t *testing.T) (*GormDashboardRepository, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:dashboard_repo_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Consultation{}, &models.ConsultationEvent{}, &models.Payment{}, &models.Question{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewDashboardRepository(db), db
}

func seedDashboardData(t *testing.T, db *gorm.DB, at time.Time) {
	t.Helper()

	user := &models.User{TelegramID: 100500, Status: constants.UserStatusActive}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}

	consultations := []models.Consultation{
		{UserID: user.ID, Type: constants.ConsultationTypeOnline, Status: constants.ConsultationStatusPending, Amount: models.NewMoneyFromInt(100000), Currency: "UZS", PhoneNumber: "x", Description: "x"},
		{UserID: user.ID, Type: constants.ConsultationTypeOnline, Status: constants.ConsultationStatusCompleted, Amount: models.NewMoneyFromInt(200000), Currency: "UZS", PhoneNumber: "x", Description: "x", PaidAt: &at},
		{UserID: user.ID, Type: constants.ConsultationTypeOffice, Status: constants.ConsultationStatusCancelled, Amount: models.NewMoneyFromInt(300000), Currency: "UZS", PhoneNumber: "x", Description: "x"},
	}
	for i := range consultations {
		if err := db.Create(&consultations[i]).Error; err != nil {
			t.Fatalf("create consultation failed: %v", err)
		}
	}

	payments := []models.Payment{
		{ConsultationID: consultations[1].ID, UserID: user.ID, Provider: constants.PaymentProviderClick, Status: constants.PaymentStatusCompleted, Amount: models.NewMoneyFromInt(200000), Currency: "UZS", PaidAt: &at},
		{ConsultationID: consultations[2].ID, UserID: user.ID, Provider: constants.PaymentProviderPayme, Status: constants.PaymentStatusFailed, Amount: models.NewMoneyFromInt(300000), Currency: "UZS"},
	}
	for i := range payments {
		if err := db.Create(&payments[i]).Error; err != nil {
			t.Fatalf("create payment failed: %v", err)
		}
	}

	question := &models.Question{UserID: user.ID, Text: "question", Status: constants.QuestionStatusPending}
	if err := db.Create(question).Error; err != nil {
		t.Fatalf("create question failed: %v", err)
	}
}

func TestGetOverview(t *testing.T) {
	repo, db := setupDashboardRepositoryTest(t)
	now := time.Now()
	seedDashboardData(t, db, now)

	overview, err := repo.GetOverview(now.Add(-time.Hour), now.Add(time.Hour))
	if err != nil {
		t.Fatalf("get overview failed: %v", err)
	}
	if overview.ConsultationsTotal != 3 {
		t.Fatalf("expected 3 consultations, got %d", overview.ConsultationsTotal)
	}
	if overview.PendingConsultations != 1 || overview.CompletedConsultations != 1 || overview.CancelledConsultations != 1 {
		t.Fatalf("unexpected status breakdown: %+v", overview)
	}
	if overview.RevenuePaid != 200000 {
		t.Fatalf("expected revenue 200000, got %v", overview.RevenuePaid)
	}
	if overview.PaymentsTotal != 2 || overview.PaymentsCompleted != 1 || overview.PaymentsFailed != 1 {
		t.Fatalf("unexpected payment counts: %+v", overview)
	}
	if overview.NewUsers != 1 {
		t.Fatalf("expected 1 new user, got %d", overview.NewUsers)
	}
	if overview.PendingQuestions != 1 {
		t.Fatalf("expected 1 pending question, got %d", overview.PendingQuestions)
	}
	if overview.Currency != "UZS" {
		t.Fatalf("expected currency UZS, got %s", overview.Currency)
	}
}

func TestGetOverviewEmptyWindow(t *testing.T) {
	repo, db := setupDashboardRepositoryTest(t)
	now := time.Now()
	seedDashboardData(t, db, now)

	// 统计区间在数据之前，聚合应为空
	overview, err := repo.GetOverview(now.Add(-2*time.Hour), now.Add(-time.Hour))
	if err != nil {
		t.Fatalf("get overview failed: %v", err)
	}
	if overview.ConsultationsTotal != 0 || overview.PaymentsTotal != 0 || overview.RevenuePaid != 0 {
		t.Fatalf("expected empty overview, got %+v", overview)
	}
}

func TestGetConsultationTrends(t *testing.T) {
	repo, db := setupDashboardRepositoryTest(t)
	now := time.Now()
	seedDashboardData(t, db, now)

	trends, err := repo.GetConsultationTrends(now.Add(-time.Hour), now.Add(time.Hour))
	if err != nil {
		t.Fatalf("get consultation trends failed: %v", err)
	}
	if len(trends) != 1 {
		t.Fatalf("expected 1 trend day, got %d", len(trends))
	}
	if trends[0].ConsultationsTotal != 3 || trends[0].ConsultationsPaid != 1 {
		t.Fatalf("unexpected trend row: %+v", trends[0])
	}
}

func TestGetRevenueTrends(t *testing.T) {
	repo, db := setupDashboardRepositoryTest(t)
	now := time.Now()
	seedDashboardData(t, db, now)

	trends, err := repo.GetRevenueTrends(now.Add(-time.Hour), now.Add(time.Hour))
	if err != nil {
		t.Fatalf("get revenue trends failed: %v", err)
	}
	if len(trends) != 1 {
		t.Fatalf("expected 1 trend day, got %d", len(trends))
	}
	if trends[0].PaymentsCompleted != 1 || trends[0].PaymentsFailed != 1 {
		t.Fatalf("unexpected trend counts: %+v", trends[0])
	}
	if trends[0].RevenuePaid != 200000 {
		t.Fatalf("expected revenue 200000, got %v", trends[0].RevenuePaid)
	}
}
