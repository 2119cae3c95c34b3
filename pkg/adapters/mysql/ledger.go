// Package mysql keeps the booking ledger in a MySQL table.
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/airdesk/pkg/domain"
	driver "github.com/go-sql-driver/mysql"
)

// Schema creates the bookings table used by Ledger.
const Schema = `CREATE TABLE IF NOT EXISTS bookings (
	booking_id    VARCHAR(16) NOT NULL PRIMARY KEY,
	origin        VARCHAR(64) NOT NULL,
	destination   VARCHAR(64) NOT NULL,
	flight_number VARCHAR(32) NOT NULL,
	travel_date   DATE        NOT NULL,
	status        VARCHAR(32) NOT NULL,
	created_at    DATETIME(6) NOT NULL
)`

const (
	columns = "booking_id, origin, destination, flight_number, travel_date, status, created_at"

	upsertQuery = "INSERT INTO bookings (" + columns + ") VALUES (?, ?, ?, ?, ?, ?, ?) " +
		"ON DUPLICATE KEY UPDATE origin = VALUES(origin), destination = VALUES(destination), " +
		"flight_number = VALUES(flight_number), travel_date = VALUES(travel_date), " +
		"status = VALUES(status), created_at = VALUES(created_at)"
	selectQuery     = "SELECT " + columns + " FROM bookings WHERE booking_id = ?"
	selectForUpdate = selectQuery + " FOR UPDATE"
	deleteQuery     = "DELETE FROM bookings WHERE booking_id = ?"
	listQuery       = "SELECT " + columns + " FROM bookings ORDER BY booking_id"
)

// Ledger implements ports.Ledger on top of database/sql.
type Ledger struct {
	DB *sql.DB
}

// NewLedger wraps an open database handle.
func NewLedger(db *sql.DB) *Ledger {
	return &Ledger{DB: db}
}

// Open connects to MySQL, forcing parseTime so DATE columns scan into time.Time.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	cfg, err := driver.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	if cfg.Loc == nil {
		cfg.Loc = time.UTC
	}

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping mysql: %w", err)
	}
	return db, nil
}

// Migrate creates the bookings table if needed.
func (l *Ledger) Migrate(ctx context.Context) error {
	if _, err := l.DB.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create bookings table: %w", err)
	}
	return nil
}

// Put stores the booking, replacing any row with the same ID.
func (l *Ledger) Put(ctx context.Context, b domain.Booking) error {
	date, err := time.Parse(domain.DateLayout, b.Date)
	if err != nil {
		return fmt.Errorf("booking %s has invalid date %q: %w", b.ID, b.Date, err)
	}
	_, err = l.DB.ExecContext(ctx, upsertQuery,
		b.ID, b.Origin, b.Destination, b.FlightNumber, date, b.Status, b.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to store booking %s: %w", b.ID, err)
	}
	return nil
}

// Get returns the booking with the given ID.
func (l *Ledger) Get(ctx context.Context, id string) (domain.Booking, error) {
	b, err := scanBooking(l.DB.QueryRowContext(ctx, selectQuery, id))
	if err != nil {
		return domain.Booking{}, wrapNotFound(id, err)
	}
	return b, nil
}

// Remove deletes the booking inside a transaction and returns the deleted row.
func (l *Ledger) Remove(ctx context.Context, id string) (domain.Booking, error) {
	tx, err := l.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	b, err := scanBooking(tx.QueryRowContext(ctx, selectForUpdate, id))
	if err != nil {
		return domain.Booking{}, wrapNotFound(id, err)
	}
	if _, err := tx.ExecContext(ctx, deleteQuery, id); err != nil {
		return domain.Booking{}, fmt.Errorf("failed to delete booking %s: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return domain.Booking{}, fmt.Errorf("failed to commit delete of %s: %w", id, err)
	}
	return b, nil
}

// List returns all bookings ordered by ID.
func (l *Ledger) List(ctx context.Context) ([]domain.Booking, error) {
	rows, err := l.DB.QueryContext(ctx, listQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var out []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBooking(row scanner) (domain.Booking, error) {
	var (
		b       domain.Booking
		date    time.Time
		created time.Time
	)
	if err := row.Scan(&b.ID, &b.Origin, &b.Destination, &b.FlightNumber, &date, &b.Status, &created); err != nil {
		return domain.Booking{}, err
	}
	b.Date = date.Format(domain.DateLayout)
	b.CreatedAt = created.UTC()
	return b, nil
}

func wrapNotFound(id string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrBookingNotFound
	}
	return fmt.Errorf("failed to read booking %s: %w", id, err)
}
