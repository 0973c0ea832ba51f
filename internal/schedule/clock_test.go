package schedule

import (
	"testing"
	"time"
)

func TestNextRefresh(t *testing.T) {
	loc := time.UTC
	rc := NewRefreshClock(4, loc)

	tests := []struct {
		now  time.Time
		want time.Time
	}{
		{time.Date(2024, 1, 1, 9, 30, 0, 0, loc), time.Date(2024, 1, 1, 12, 0, 0, 0, loc)},
		{time.Date(2024, 1, 1, 8, 0, 0, 0, loc), time.Date(2024, 1, 1, 12, 0, 0, 0, loc)},
		{time.Date(2024, 1, 1, 0, 0, 1, 0, loc), time.Date(2024, 1, 1, 4, 0, 0, 0, loc)},
		{time.Date(2024, 1, 1, 22, 15, 0, 0, loc), time.Date(2024, 1, 2, 0, 0, 0, 0, loc)},
		{time.Date(2024, 12, 31, 23, 59, 0, 0, loc), time.Date(2025, 1, 1, 0, 0, 0, 0, loc)},
	}
	for _, tt := range tests {
		if got := rc.NextRefresh(tt.now); !got.Equal(tt.want) {
			t.Errorf("NextRefresh(%v) = %v, want %v", tt.now, got, tt.want)
		}
	}
}

func TestCountdown(t *testing.T) {
	loc := time.UTC
	rc := NewRefreshClock(4, loc)

	tests := []struct {
		now  time.Time
		want string
	}{
		{time.Date(2024, 1, 1, 9, 30, 0, 0, loc), "2시간 30분 후"},
		{time.Date(2024, 1, 1, 11, 18, 0, 0, loc), "42분 후"},
		{time.Date(2024, 1, 1, 8, 0, 0, 0, loc), "4시간 0분 후"},
		{time.Date(2024, 1, 1, 11, 59, 50, 0, loc), "0분 후"},
	}
	for _, tt := range tests {
		if got := rc.Countdown(tt.now); got != tt.want {
			t.Errorf("Countdown(%v) = %q, want %q", tt.now, got, tt.want)
		}
	}
}

func TestNewRefreshClockFallback(t *testing.T) {
	rc := NewRefreshClock(7, nil)
	if rc.boundaryHours != DefaultBoundary {
		t.Errorf("boundaryHours = %d, want %d", rc.boundaryHours, DefaultBoundary)
	}
	if rc.loc != time.Local {
		t.Error("nil location should fall back to time.Local")
	}
}

func TestUpdatedStamp(t *testing.T) {
	got := UpdatedStamp(time.Date(2024, 1, 1, 14, 5, 0, 0, time.UTC))
	if got != "14:05 업데이트" {
		t.Errorf("UpdatedStamp = %q", got)
	}
}
