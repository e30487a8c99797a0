package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hospitality-booking/internal/model"
)

func TestIntentRepoInsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO booking_intents")).
		WithArgs("s-1", "10", "external", "https://engine/x", true, at).
		WillReturnResult(sqlmock.NewResult(7, 1))

	in := &model.BookingIntent{SessionID: "s-1", UnitID: "10", Kind: "external", Target: "https://engine/x", Auto: true, CreatedAt: at}
	require.NoError(t, NewIntentRepo(db).Insert(context.Background(), in))
	assert.Equal(t, uint64(7), in.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIntentRepoListRecentClampsLimit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	cols := []string{"id", "session_id", "unit_id", "kind", "target", "auto", "created_at"}
	mock.ExpectQuery(regexp.QuoteMeta("FROM booking_intents ORDER BY created_at DESC")).
		WithArgs(MaxRecent).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(2, "s-2", "11", "internal", "/hotels/room/11", false, at).
			AddRow(1, "s-1", "10", "external", "https://engine/x", true, at.Add(-time.Minute)))

	got, err := NewIntentRepo(db).ListRecent(context.Background(), 5000)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, uint64(2), got[0].ID)
	assert.Equal(t, "/hotels/room/11", got[0].Target)
	assert.True(t, got[1].Auto)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIntentRepoWithoutDatabase(t *testing.T) {
	var r *IntentRepo
	_, err := r.ListRecent(context.Background(), 10)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, NewIntentRepo(nil).Insert(context.Background(), &model.BookingIntent{}), ErrUnavailable)
}
