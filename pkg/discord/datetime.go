package discord

import (
	"fmt"
	"time"

	"eventosbot/pkg/tz"
)

// FormatEventDateTime renders t in loc followed by a Discord timestamp so
// every reader also sees it in their own zone.
func FormatEventDateTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s (<t:%d:R>)", tz.Format(t, loc), t.Unix())
}

// ProximityEmoji marks how soon an event starts: under an hour, under a day,
// or later.
func ProximityEmoji(start, now time.Time) string {
	switch until := start.Sub(now); {
	case until < time.Hour:
		return "🔥"
	case until < 24*time.Hour:
		return "⏰"
	default:
		return "📌"
	}
}
