package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/yurline/yurline/internal/constants"
	"github.com/yurline/yurline/internal/models"
	"github.com/yurline/yurline/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAvailabilityServiceTest(t *testing.T) (*AvailabilityService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:availability_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Consultation{}, &models.ConsultationEvent{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	repo := repository.NewConsultationRepository(db)
	// 工作日周一至周五，9:00-18:00，60 分钟一档
	svc := NewAvailabilityService(repo, 9, 18, []int{0, 1, 2, 3, 4}, 60, 0, 14)
	return svc, db
}

// 2030-01-07 是周一，2030-01-06 是周日
var (
	testMonday = time.Date(2030, 1, 7, 0, 0, 0, 0, time.Local)
	testSunday = time.Date(2030, 1, 6, 0, 0, 0, 0, time.Local)
)

func TestIsWorkingDay(t *testing.T) {
	svc, _ := setupAvailabilityServiceTest(t)

	if !svc.IsWorkingDay(testMonday) {
		t.Fatalf("expected monday to be a working day")
	}
	if svc.IsWorkingDay(testSunday) {
		t.Fatalf("expected sunday to be a day off")
	}
	saturday := testSunday.AddDate(0, 0, -1)
	if svc.IsWorkingDay(saturday) {
		t.Fatalf("expected saturday to be a day off")
	}
}

func TestValidateSlot(t *testing.T) {
	svc, _ := setupAvailabilityServiceTest(t)

	if err := svc.ValidateSlot(testMonday.Add(10 * time.Hour)); err != nil {
		t.Fatalf("expected monday 10:00 to be valid, got %v", err)
	}
	if err := svc.ValidateSlot(time.Now().Add(-time.Hour)); err != ErrSlotUnavailable {
		t.Fatalf("expected past slot to be unavailable, got %v", err)
	}
	if err := svc.ValidateSlot(testSunday.Add(10 * time.Hour)); err != ErrSlotOutsideWorkHours {
		t.Fatalf("expected sunday slot to be outside work hours, got %v", err)
	}
	if err := svc.ValidateSlot(testMonday.Add(8 * time.Hour)); err != ErrSlotOutsideWorkHours {
		t.Fatalf("expected 8:00 to be outside work hours, got %v", err)
	}
	if err := svc.ValidateSlot(testMonday.Add(18 * time.Hour)); err != ErrSlotOutsideWorkHours {
		t.Fatalf("expected 18:00 to be outside work hours, got %v", err)
	}
	if err := svc.ValidateSlot(testMonday.Add(10*time.Hour + 30*time.Minute)); err != ErrSlotOutsideWorkHours {
		t.Fatalf("expected misaligned slot to be rejected, got %v", err)
	}
}

func TestDaySlotsExcludesTakenSlots(t *testing.T) {
	svc, db := setupAvailabilityServiceTest(t)

	taken := testMonday.Add(10 * time.Hour)
	consultation := &models.Consultation{
		UserID:        1,
		Type:          constants.ConsultationTypeOnline,
		Status:        constants.ConsultationStatusScheduled,
		Amount:        models.NewMoneyFromInt(150000),
		Currency:      "UZS",
		PhoneNumber:   "+998901234567",
		Description:   "scheduled consultation",
		ScheduledTime: &taken,
	}
	if err := db.Create(consultation).Error; err != nil {
		t.Fatalf("create consultation failed: %v", err)
	}

	slots, err := svc.DaySlots(context.Background(), testMonday)
	if err != nil {
		t.Fatalf("day slots failed: %v", err)
	}
	if len(slots) != 8 {
		t.Fatalf("expected 8 free slots, got %d: %v", len(slots), slots)
	}
	for _, slot := range slots {
		if slot == "10:00" {
			t.Fatalf("expected 10:00 to be excluded, got %v", slots)
		}
	}
	if slots[0] != "09:00" || slots[len(slots)-1] != "17:00" {
		t.Fatalf("unexpected slot bounds: %v", slots)
	}
}

func TestDaySlotsEmptyOnDayOff(t *testing.T) {
	svc, _ := setupAvailabilityServiceTest(t)

	slots, err := svc.DaySlots(context.Background(), testSunday)
	if err != nil {
		t.Fatalf("day slots failed: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("expected no slots on sunday, got %v", slots)
	}
}

func TestAvailableDaysSkipsDaysOff(t *testing.T) {
	svc, _ := setupAvailabilityServiceTest(t)

	days := svc.AvailableDays(testMonday)
	// 14 天窗口内 10 个工作日
	if len(days) != 10 {
		t.Fatalf("expected 10 working days, got %d: %v", len(days), days)
	}
	if days[0] != "2030-01-07" {
		t.Fatalf("expected window to start on monday, got %s", days[0])
	}
	for _, day := range days {
		if day == "2030-01-12" || day == "2030-01-13" {
			t.Fatalf("expected weekend to be excluded, got %v", days)
		}
	}
}
