package helpers

import (
	"time"

	"github.com/rs/zerolog/log"
)

// DisplayTimeLayout is the timestamp layout used in API payloads and exports
const DisplayTimeLayout = "2006-01-02 15:04:05"

// ParseDuration parses a duration string, returns default duration on error.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		log.Warn().Err(err).Str("durationStr", durationStr).Dur("defaultDuration", defaultDuration).Msg("Failed to parse duration string, using default")
		return defaultDuration
	}
	return duration
}

// FormatTime renders t in local time with DisplayTimeLayout
func FormatTime(t time.Time) string {
	return t.Local().Format(DisplayTimeLayout)
}

// FormatTimePtr renders t, or returns nil when t is nil
func FormatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatTime(*t)
	return &s
}
