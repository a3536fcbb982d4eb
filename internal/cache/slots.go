package cache

import (
	"context"
	"fmt"
	"time"
)

// DaySlots 某一天的可预约时段快照
type DaySlots struct {
	Date      string   `json:"date"` // YYYY-MM-DD
	Slots     []string `json:"slots"`
	UpdatedAt int64    `json:"updated_at"`
}

func daySlotsKey(date string) string {
	return fmt.Sprintf("slots:%s", date)
}

// GetDaySlots 获取某天的时段快照
func GetDaySlots(ctx context.Context, date string) (*DaySlots, bool, error) {
	if date == "" {
		return nil, false, nil
	}
	var snapshot DaySlots
	hit, err := GetJSON(ctx, daySlotsKey(date), &snapshot)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &snapshot, true, nil
}

// SetDaySlots 写入某天的时段快照
func SetDaySlots(ctx context.Context, snapshot *DaySlots, ttl time.Duration) error {
	if snapshot == nil || snapshot.Date == "" {
		return nil
	}
	snapshot.UpdatedAt = time.Now().Unix()
	return SetJSON(ctx, daySlotsKey(snapshot.Date), snapshot, ttl)
}

// DelDaySlots 失效某天的时段快照（预约或取消后调用）
func DelDaySlots(ctx context.Context, date string) error {
	if date == "" {
		return nil
	}
	return Del(ctx, daySlotsKey(date))
}
