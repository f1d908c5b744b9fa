package timeutil

import "time"

// Polling cadences. Evening hours carry most live games, so the loop
// trades request volume for freshness during that window.
const (
	PeakInterval    = 30 * time.Second
	OffPeakInterval = 60 * time.Second

	peakStartHour = 17
	peakEndHour   = 23
)

// IsPeakHour reports whether t falls inside the evening game window.
func IsPeakHour(t time.Time) bool {
	h := t.Hour()
	return h >= peakStartHour && h <= peakEndHour
}

// EpochMillis converts a time to milliseconds since the Unix epoch.
func EpochMillis(t time.Time) int64 {
	return t.UnixMilli()
}
