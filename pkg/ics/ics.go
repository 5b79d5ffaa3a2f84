// Package ics builds iCalendar invites for events.
package ics

import (
	"bytes"
	"fmt"
	"time"

	"github.com/emersion/go-ical"

	"eventosbot/internal/domain/entities"
)

const productID = "-//eventosbot//ES"

// Invite encodes e as a single-event calendar. start and end are written in
// UTC; stamp is the creation time of the invite.
func Invite(e *entities.Event, end, stamp time.Time) ([]byte, error) {
	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, e.ID+"@eventosbot")
	event.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
	event.Props.SetDateTime(ical.PropDateTimeStart, e.Start.UTC())
	event.Props.SetDateTime(ical.PropDateTimeEnd, end.UTC())
	event.Props.SetText(ical.PropSummary, e.Title)
	if e.Description != "" {
		event.Props.SetText(ical.PropDescription, e.Description)
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)
	cal.Children = append(cal.Children, event.Component)

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("ics: encode %s: %w", e.ID, err)
	}
	return buf.Bytes(), nil
}

// FileName is the attachment name used for e's invite.
func FileName(e *entities.Event) string {
	return fmt.Sprintf("evento-%s.ics", e.ID)
}
