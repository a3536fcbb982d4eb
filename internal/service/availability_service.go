package service

import (
	"context"
	"time"

	"github.com/yurline/yurline/internal/cache"
	"github.com/yurline/yurline/internal/logger"
	"github.com/yurline/yurline/internal/repository"
)

// AvailabilityService 预约时段服务
type AvailabilityService struct {
	consultationRepo repository.ConsultationRepository
	workHourStart    int
	workHourEnd      int
	workingDays      map[int]bool // 0=周一 ... 6=周日
	slotMinutes      int
	cacheTTL         time.Duration
	horizonDays      int
}

// NewAvailabilityService 创建预约时段服务
func NewAvailabilityService(consultationRepo repository.ConsultationRepository, workHourStart, workHourEnd int, workingDays []int, slotMinutes, cacheTTLSeconds, horizonDays int) *AvailabilityService {
	days := make(map[int]bool, len(workingDays))
	for _, day := range workingDays {
		days[day] = true
	}
	if slotMinutes <= 0 {
		slotMinutes = 60
	}
	if horizonDays <= 0 {
		horizonDays = 30
	}
	return &AvailabilityService{
		consultationRepo: consultationRepo,
		workHourStart:    workHourStart,
		workHourEnd:      workHourEnd,
		workingDays:      days,
		slotMinutes:      slotMinutes,
		cacheTTL:         time.Duration(cacheTTLSeconds) * time.Second,
		horizonDays:      horizonDays,
	}
}

// IsWorkingDay 判断是否工作日
func (s *AvailabilityService) IsWorkingDay(t time.Time) bool {
	// time.Weekday 周日为 0，内部约定周一为 0
	day := (int(t.Weekday()) + 6) % 7
	return s.workingDays[day]
}

// ValidateSlot 校验预约时段：工作日、工作时间内、对齐时段边界、不在过去
func (s *AvailabilityService) ValidateSlot(slot time.Time) error {
	if slot.Before(time.Now()) {
		return ErrSlotUnavailable
	}
	if !s.IsWorkingDay(slot) {
		return ErrSlotOutsideWorkHours
	}
	if slot.Hour() < s.workHourStart || slot.Hour() >= s.workHourEnd {
		return ErrSlotOutsideWorkHours
	}
	if slot.Minute()%s.slotMinutes != 0 || slot.Second() != 0 {
		return ErrSlotOutsideWorkHours
	}
	return nil
}

// DaySlots 获取某天的可预约时段，结果短暂缓存
func (s *AvailabilityService) DaySlots(ctx context.Context, date time.Time) ([]string, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dateKey := dayStart.Format("2006-01-02")

	if snapshot, hit, err := cache.GetDaySlots(ctx, dateKey); err == nil && hit {
		return snapshot.Slots, nil
	} else if err != nil {
		logger.Warnw("slot_cache_read_failed", "date", dateKey, "error", err)
	}

	slots, err := s.computeDaySlots(dayStart)
	if err != nil {
		return nil, err
	}

	if err := cache.SetDaySlots(ctx, &cache.DaySlots{Date: dateKey, Slots: slots}, s.cacheTTL); err != nil {
		logger.Warnw("slot_cache_write_failed", "date", dateKey, "error", err)
	}
	return slots, nil
}

// AvailableDays 获取预约窗口内的可选日期
func (s *AvailabilityService) AvailableDays(from time.Time) []string {
	days := make([]string, 0, s.horizonDays)
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	for i := 0; i < s.horizonDays; i++ {
		day := start.AddDate(0, 0, i)
		if s.IsWorkingDay(day) {
			days = append(days, day.Format("2006-01-02"))
		}
	}
	return days
}

// InvalidateDay 失效某天的时段缓存
func (s *AvailabilityService) InvalidateDay(t time.Time) {
	dateKey := t.Format("2006-01-02")
	if err := cache.DelDaySlots(context.Background(), dateKey); err != nil {
		logger.Warnw("slot_cache_invalidate_failed", "date", dateKey, "error", err)
	}
}

func (s *AvailabilityService) computeDaySlots(dayStart time.Time) ([]string, error) {
	slots := []string{}
	if !s.IsWorkingDay(dayStart) {
		return slots, nil
	}

	dayEnd := dayStart.AddDate(0, 0, 1)
	taken, err := s.consultationRepo.ListScheduledTimes(dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	takenSet := make(map[string]bool, len(taken))
	for _, t := range taken {
		takenSet[t.Format("15:04")] = true
	}

	now := time.Now()
	step := time.Duration(s.slotMinutes) * time.Minute
	for slot := dayStart.Add(time.Duration(s.workHourStart) * time.Hour); slot.Hour() < s.workHourEnd; slot = slot.Add(step) {
		if slot.Before(now) {
			continue
		}
		key := slot.Format("15:04")
		if takenSet[key] {
			continue
		}
		slots = append(slots, key)
	}
	return slots, nil
}
