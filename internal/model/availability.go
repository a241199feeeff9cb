package model

import (
	"strings"
	"time"
)

// AvailabilityConfig is the business operating calendar, stored as a single
// row. Days holds comma-joined 3-letter weekday abbreviations ("Mon,Thu");
// TimeSlots holds comma-joined time ranges ("6:00 PM - 9:00 PM").
type AvailabilityConfig struct {
	ID        int64     `gorm:"primaryKey"`
	Days      string    `gorm:"size:64"`
	TimeSlots string    `gorm:"size:512"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DayList returns the configured day abbreviations in source order.
func (a *AvailabilityConfig) DayList() []string {
	return splitList(a.Days)
}

// SlotList returns the configured time slots in source order.
func (a *AvailabilityConfig) SlotList() []string {
	return splitList(a.TimeSlots)
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
