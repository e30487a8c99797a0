// Package queue defines message payloads exchanged over the message broker
// and the consumer that records them.
package queue

import (
	"time"

	"github.com/iliyamo/hospitality-booking/internal/booking"
	"github.com/iliyamo/hospitality-booking/internal/model"
)

// BookingIntentQueue is the durable queue booking intents are published to.
const BookingIntentQueue = "booking.intent"

// BookingIntentEvent is published whenever a guest is sent to a booking
// target.  It carries the criteria the guest searched with so consumers can
// log or analyse the hand-off without any other lookup.
type BookingIntentEvent struct {
	SessionID  string `json:"session_id"`
	UnitID     string `json:"unit_id"`
	Kind       string `json:"kind"`
	Target     string `json:"target"`
	Auto       bool   `json:"auto"`
	LocationID *int64 `json:"location_id,omitempty"`
	CheckIn    string `json:"check_in,omitempty"`
	CheckOut   string `json:"check_out,omitempty"`
	Adults     int    `json:"adults"`
	Children   int    `json:"children"`
	Rooms      int    `json:"rooms"`
	TakenAt    string `json:"taken_at"`
}

// NewBookingIntentEvent builds the event for an intent taken at now.
func NewBookingIntentEvent(sessionID string, in booking.Intent, c model.SearchCriteria, now time.Time) BookingIntentEvent {
	ev := BookingIntentEvent{
		SessionID: sessionID,
		UnitID:    in.UnitID,
		Kind:      string(in.Kind),
		Target:    in.Target(),
		Auto:      in.Auto,
		Adults:    c.Adults,
		Children:  c.Children,
		Rooms:     c.Rooms,
		TakenAt:   now.UTC().Format(time.RFC3339),
	}
	if c.LocationID != nil {
		v := *c.LocationID
		ev.LocationID = &v
	}
	if c.CheckIn != nil {
		ev.CheckIn = c.CheckIn.Format(time.DateOnly)
	}
	if c.CheckOut != nil {
		ev.CheckOut = c.CheckOut.Format(time.DateOnly)
	}
	return ev
}

// Record converts the event into the persisted form.  An unparsable
// TakenAt falls back to the current time.
func (ev BookingIntentEvent) Record() model.BookingIntent {
	at, err := time.Parse(time.RFC3339, ev.TakenAt)
	if err != nil {
		at = time.Now().UTC()
	}
	return model.BookingIntent{
		SessionID: ev.SessionID,
		UnitID:    ev.UnitID,
		Kind:      ev.Kind,
		Target:    ev.Target,
		Auto:      ev.Auto,
		CreatedAt: at,
	}
}
