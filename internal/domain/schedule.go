package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"eventosbot/internal/domain/entities"
)

// ReminderDue reports whether the one-shot reminder of e must fire at now.
// The condition is now >= start-lead, so events first observed long after
// their start still fire once.
func ReminderDue(e *entities.Event, now time.Time, lead time.Duration) bool {
	if e.ReminderSent {
		return false
	}
	return !now.Before(e.ReminderAt(lead))
}

var closeUnits = map[string]time.Duration{
	"m": time.Minute, "min": time.Minute, "mins": time.Minute,
	"minuto": time.Minute, "minutos": time.Minute,
	"minute": time.Minute, "minutes": time.Minute,
	"h": time.Hour, "hora": time.Hour, "horas": time.Hour,
	"hour": time.Hour, "hours": time.Hour,
	"d": 24 * time.Hour, "dia": 24 * time.Hour, "dias": 24 * time.Hour,
	"día": 24 * time.Hour, "días": 24 * time.Hour,
	"day": 24 * time.Hour, "days": 24 * time.Hour,
}

// ParseCloseOffset parses a registration close offset such as "10 minutos",
// "1 hora", "2 days" or a Go duration ("90m").
func ParseCloseOffset(s string) (time.Duration, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, fmt.Errorf("offset vacío")
	}
	if d, err := time.ParseDuration(s); err == nil && d >= 0 {
		return d, nil
	}
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return 0, fmt.Errorf("offset inválido: %q", s)
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 0 {
		return 0, fmt.Errorf("offset inválido: %q", s)
	}
	unit, ok := closeUnits[fields[1]]
	if !ok {
		return 0, fmt.Errorf("unidad desconocida: %q", fields[1])
	}
	return time.Duration(n) * unit, nil
}

// RegistrationClosed reports whether e no longer accepts registrations at now.
// An unparsable close offset is ignored.
func RegistrationClosed(e *entities.Event, now time.Time) bool {
	if !e.RegistrationOpen {
		return true
	}
	if e.RegistrationClose == "" {
		return false
	}
	d, err := ParseCloseOffset(e.RegistrationClose)
	if err != nil {
		return false
	}
	return !now.Before(e.Start.Add(-d))
}

// EndTime estimates when e finishes from its free-text duration ("2 horas",
// "90m"); text that is not a duration yields start+fallback.
func EndTime(e *entities.Event, fallback time.Duration) time.Time {
	if d, err := ParseCloseOffset(e.End); err == nil && d > 0 {
		return e.Start.Add(d)
	}
	return e.Start.Add(fallback)
}
