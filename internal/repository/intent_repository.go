package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/hospitality-booking/internal/model"
)

// IntentRepo persists booking intents in the booking_intents table.
//
//  CREATE TABLE booking_intents (
//    id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
//    session_id CHAR(36)     NOT NULL,
//    unit_id    VARCHAR(64)  NOT NULL,
//    kind       VARCHAR(16)  NOT NULL,
//    target     VARCHAR(1024) NOT NULL,
//    auto       TINYINT(1)   NOT NULL DEFAULT 0,
//    created_at DATETIME     NOT NULL,
//    KEY idx_booking_intents_created (created_at)
//  );
type IntentRepo struct {
	db *sql.DB
}

// NewIntentRepo returns a new IntentRepo bound to the given database.
func NewIntentRepo(db *sql.DB) *IntentRepo { return &IntentRepo{db: db} }

// MaxRecent caps how many rows ListRecent returns.
const MaxRecent = 100

// Insert stores in and sets its generated ID.
func (r *IntentRepo) Insert(ctx context.Context, in *model.BookingIntent) error {
	if r == nil || r.db == nil {
		return ErrUnavailable
	}
	const q = `INSERT INTO booking_intents (session_id, unit_id, kind, target, auto, created_at) VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, in.SessionID, in.UnitID, in.Kind, in.Target, in.Auto, in.CreatedAt.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	in.ID = uint64(id)
	return nil
}

// ListRecent returns the newest intents first.  limit is clamped to
// [1, MaxRecent].
func (r *IntentRepo) ListRecent(ctx context.Context, limit int) ([]model.BookingIntent, error) {
	if r == nil || r.db == nil {
		return nil, ErrUnavailable
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxRecent {
		limit = MaxRecent
	}
	const q = `SELECT id, session_id, unit_id, kind, target, auto, created_at FROM booking_intents ORDER BY created_at DESC, id DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.BookingIntent, 0, limit)
	for rows.Next() {
		var in model.BookingIntent
		if err := rows.Scan(&in.ID, &in.SessionID, &in.UnitID, &in.Kind, &in.Target, &in.Auto, &in.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, rows.Err()
}
