// Package store archives solves and their forecasts in Postgres.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/1F47E/sun-locator/pkg/forecast"
	"github.com/1F47E/sun-locator/pkg/models"
	"github.com/1F47E/sun-locator/pkg/solar"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

// SolveRecord is an archived solve
type SolveRecord struct {
	ID          uuid.UUID
	Observation models.Observation
	Location    models.GeoLocation
	Advisory    string
	CreatedAt   time.Time
}

// Store is a Postgres-backed archive
type Store struct {
	db *sql.DB
}

// Open connects to Postgres and checks the connection
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &Store{db: db}, nil
}

// InitSchema creates the tables if they do not exist
func (s *Store) InitSchema(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS solves (
			id UUID PRIMARY KEY,
			observed_on DATE NOT NULL,
			sunrise TEXT NOT NULL,
			sunset TEXT NOT NULL,
			utc_offset DOUBLE PRECISION NOT NULL,
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL,
			advisory TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE TABLE IF NOT EXISTS forecast_days (
			solve_id UUID NOT NULL REFERENCES solves(id) ON DELETE CASCADE,
			day DATE NOT NULL,
			sunrise_utc TIMESTAMPTZ NOT NULL,
			sunset_utc TIMESTAMPTZ NOT NULL,
			day_length_seconds BIGINT NOT NULL,
			PRIMARY KEY (solve_id, day)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_solves_created_at ON solves (created_at DESC);`,
	}

	for _, query := range queries {
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query '%s': %w", query, err)
		}
	}
	return nil
}

// SaveSolve archives an observation and its outcome
func (s *Store) SaveSolve(ctx context.Context, obs models.Observation, out solar.Outcome) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO solves (id, observed_on, sunrise, sunset, utc_offset, latitude, longitude, advisory)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, obs.Date.String(), obs.Sunrise.String(), obs.Sunset.String(), obs.UTCOffset,
		out.Location.Lat, out.Location.Lon, out.Advisory.String(),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert solve: %w", err)
	}
	return id, nil
}

// SaveForecast stores the forecast rows of a solve in one transaction
func (s *Store) SaveForecast(ctx context.Context, solveID uuid.UUID, entries []forecast.Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO forecast_days (solve_id, day, sunrise_utc, sunset_utc, day_length_seconds)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (solve_id, day) DO UPDATE
		SET sunrise_utc = EXCLUDED.sunrise_utc,
			sunset_utc = EXCLUDED.sunset_utc,
			day_length_seconds = EXCLUDED.day_length_seconds`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		_, err := stmt.ExecContext(ctx, solveID, e.Date.String(), e.SunriseUTC, e.SunsetUTC,
			int64(e.DayLength/time.Second))
		if err != nil {
			return fmt.Errorf("failed to insert forecast day %s: %w", e.Date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit forecast: %w", err)
	}
	return nil
}

// RecentSolves returns the latest archived solves, newest first
func (s *Store) RecentSolves(ctx context.Context, limit int) ([]SolveRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, observed_on, sunrise, sunset, utc_offset, latitude, longitude, advisory, created_at
		FROM solves
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	var records []SolveRecord
	for rows.Next() {
		var (
			r               SolveRecord
			day             time.Time
			sunrise, sunset string
		)
		if err := rows.Scan(&r.ID, &day, &sunrise, &sunset, &r.Observation.UTCOffset,
			&r.Location.Lat, &r.Location.Lon, &r.Advisory, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		r.Observation.Date = models.CalendarDateFromTime(day.UTC())
		if r.Observation.Sunrise, err = models.ParseClockTime(sunrise); err != nil {
			return nil, fmt.Errorf("solve %s: %w", r.ID, err)
		}
		if r.Observation.Sunset, err = models.ParseClockTime(sunset); err != nil {
			return nil, fmt.Errorf("solve %s: %w", r.ID, err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return records, nil
}

// ForecastDays returns the number of stored forecast rows of a solve
func (s *Store) ForecastDays(ctx context.Context, solveID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM forecast_days WHERE solve_id = $1`, solveID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count forecast days: %w", err)
	}
	return count, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}
