// Package schedule computes the data refresh clock shown on the dashboard
// and the periods of its two timers.
package schedule

import (
	"fmt"
	"math"
	"time"
)

// Default timer periods.
const (
	CountdownInterval = time.Minute
	ReloadInterval    = 4 * time.Hour
	DefaultBoundary   = 4
)

// RefreshClock knows when the backend publishes new scores: on every
// boundary-hour mark of the local clock (00:00, 04:00, ... for 4).
type RefreshClock struct {
	boundaryHours int
	loc           *time.Location
}

// NewRefreshClock creates a RefreshClock for the given boundary in hours.
// Values that do not divide a day fall back to DefaultBoundary. A nil loc
// means time.Local.
func NewRefreshClock(boundaryHours int, loc *time.Location) *RefreshClock {
	if boundaryHours <= 0 || 24%boundaryHours != 0 {
		boundaryHours = DefaultBoundary
	}
	if loc == nil {
		loc = time.Local
	}
	return &RefreshClock{
		boundaryHours: boundaryHours,
		loc:           loc,
	}
}

// NextRefresh returns the first boundary strictly after now.
func (rc *RefreshClock) NextRefresh(now time.Time) time.Time {
	t := now.In(rc.loc)
	nextHour := (t.Hour()/rc.boundaryHours + 1) * rc.boundaryHours
	// Hour 24 normalises to midnight of the following day.
	return time.Date(t.Year(), t.Month(), t.Day(), nextHour, 0, 0, 0, rc.loc)
}

// Until returns the whole minutes until the next refresh, rounded.
func (rc *RefreshClock) Until(now time.Time) int {
	d := rc.NextRefresh(now).Sub(now)
	return int(math.Round(d.Minutes()))
}

// Countdown formats the time until the next refresh, e.g. "2시간 5분 후"
// or "42분 후".
func (rc *RefreshClock) Countdown(now time.Time) string {
	diff := rc.Until(now)
	h := diff / 60
	m := diff % 60
	if h > 0 {
		return fmt.Sprintf("%d시간 %d분 후", h, m)
	}
	return fmt.Sprintf("%d분 후", m)
}

// UpdatedStamp formats the "last updated" label, e.g. "14:05 업데이트".
func UpdatedStamp(t time.Time) string {
	return t.Format("15:04") + " 업데이트"
}
