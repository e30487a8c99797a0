package model

import "time"

// BookingIntent records a booking decision taken for a guest.  Rows are
// written to booking_intents by the queue consumer.
//
// Fields:
//  ID         – primary key identifier.
//  SessionID  – guest session that produced the intent.
//  UnitID     – selected room.
//  Kind       – "external" or "internal".
//  Target     – deep-link URL or in-app route.
//  Auto       – true when the intent was dispatched by a single-result search.
//  CreatedAt  – when the intent was taken.
type BookingIntent struct {
	ID        uint64    // booking_intents.id
	SessionID string    // booking_intents.session_id
	UnitID    string    // booking_intents.unit_id
	Kind      string    // booking_intents.kind
	Target    string    // booking_intents.target
	Auto      bool      // booking_intents.auto
	CreatedAt time.Time // booking_intents.created_at
}
