package tz

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
)

// Layout is the only accepted textual form of an event start, both in the
// wizard and in the persisted store.
const Layout = "2006-01-02 15:04"

// Load resolves an IANA zone name; an empty name means the process local zone.
func Load(name string) (*time.Location, error) {
	if strings.TrimSpace(name) == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("tz: load %s: %w", name, err)
	}
	return loc, nil
}

// Parse reads s in Layout within loc.
func Parse(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(Layout, strings.TrimSpace(s), loc)
}

// Format renders t in Layout within loc.
func Format(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(Layout)
}
