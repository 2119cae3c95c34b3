package mysql

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aretw0/airdesk/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bookingColumns = []string{"booking_id", "origin", "destination", "flight_number", "travel_date", "status", "created_at"}

func newMock(t *testing.T) (*Ledger, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewLedger(db), mock
}

func sampleBooking() domain.Booking {
	return domain.Booking{
		ID:           "AB12CD",
		Origin:       "Delhi",
		Destination:  "Mumbai",
		FlightNumber: "AI101",
		Date:         "2025-03-01",
		Status:       domain.DefaultStatus,
		CreatedAt:    time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestLedger_Migrate(t *testing.T) {
	ledger, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS bookings")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, ledger.Migrate(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLedger_Put(t *testing.T) {
	ledger, mock := newMock(t)
	b := sampleBooking()

	mock.ExpectExec(regexp.QuoteMeta(upsertQuery)).
		WithArgs(b.ID, b.Origin, b.Destination, b.FlightNumber,
			time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), b.Status, b.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, ledger.Put(context.Background(), b))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLedger_PutRejectsBadDate(t *testing.T) {
	ledger, mock := newMock(t)
	b := sampleBooking()
	b.Date = "01/03/2025"

	err := ledger.Put(context.Background(), b)
	assert.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet(), "no statement may run for an invalid date")
}

func TestLedger_Get(t *testing.T) {
	ledger, mock := newMock(t)
	b := sampleBooking()

	mock.ExpectQuery(regexp.QuoteMeta(selectQuery)).
		WithArgs("AB12CD").
		WillReturnRows(sqlmock.NewRows(bookingColumns).
			AddRow(b.ID, b.Origin, b.Destination, b.FlightNumber,
				time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), b.Status, b.CreatedAt))

	got, err := ledger.Get(context.Background(), "AB12CD")
	require.NoError(t, err)
	assert.Equal(t, b, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLedger_GetNotFound(t *testing.T) {
	ledger, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(selectQuery)).
		WithArgs("NOPE00").
		WillReturnError(sql.ErrNoRows)

	_, err := ledger.Get(context.Background(), "NOPE00")
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
}

func TestLedger_GetDriverError(t *testing.T) {
	ledger, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(selectQuery)).
		WithArgs("AB12CD").
		WillReturnError(errors.New("connection reset"))

	_, err := ledger.Get(context.Background(), "AB12CD")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrBookingNotFound)
}

func TestLedger_Remove(t *testing.T) {
	ledger, mock := newMock(t)
	b := sampleBooking()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectForUpdate)).
		WithArgs("AB12CD").
		WillReturnRows(sqlmock.NewRows(bookingColumns).
			AddRow(b.ID, b.Origin, b.Destination, b.FlightNumber,
				time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), b.Status, b.CreatedAt))
	mock.ExpectExec(regexp.QuoteMeta(deleteQuery)).
		WithArgs("AB12CD").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	got, err := ledger.Remove(context.Background(), "AB12CD")
	require.NoError(t, err)
	assert.Equal(t, "AI101", got.FlightNumber)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLedger_RemoveNotFoundRollsBack(t *testing.T) {
	ledger, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectForUpdate)).
		WithArgs("ZZZZZZ").
		WillReturnRows(sqlmock.NewRows(bookingColumns))
	mock.ExpectRollback()

	_, err := ledger.Remove(context.Background(), "ZZZZZZ")
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLedger_List(t *testing.T) {
	ledger, mock := newMock(t)
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(listQuery)).
		WillReturnRows(sqlmock.NewRows(bookingColumns).
			AddRow("0A0A0A", "Goa", "Pune", "6E1", day, "On Time", created).
			AddRow("AB12CD", "Delhi", "Mumbai", "AI101", day, "Delayed", created))

	all, err := ledger.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "0A0A0A", all[0].ID)
	assert.Equal(t, "Delayed", all[1].Status)
	assert.Equal(t, "2025-03-01", all[1].Date)
	require.NoError(t, mock.ExpectationsWereMet())
}
