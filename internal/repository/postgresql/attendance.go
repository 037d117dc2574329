package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/pkg/utils"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `user_id, to_char(date, 'YYYY-MM-DD'), name, status, latitude, longitude, marked_at, updated_at`

func scanAttendance(row pgx.Row) (attendance.Record, error) {
	var (
		rec      attendance.Record
		lat, lng *float64
	)
	err := row.Scan(
		&rec.UserID,
		&rec.Date,
		&rec.Name,
		&rec.Status,
		&lat,
		&lng,
		&rec.Timestamp,
		&rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Record{}, err
	}
	if lat != nil && lng != nil {
		rec.Location = &utils.Coordinates{Latitude: *lat, Longitude: *lng}
	}
	return rec, nil
}

func collectAttendance(rows pgx.Rows) ([]attendance.Record, error) {
	defer rows.Close()

	records := make([]attendance.Record, 0)
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Get implements attendance.AttendanceRepository.
func (a *attendanceRepository) Get(ctx context.Context, userID, date string) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)
	query := `SELECT ` + attendanceColumns + ` FROM attendance WHERE user_id = $1 AND date = $2::date`
	return scanAttendance(q.QueryRow(ctx, query, userID, date))
}

// Put implements attendance.AttendanceRepository.
func (a *attendanceRepository) Put(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	var lat, lng *float64
	if record.Location != nil {
		lat, lng = &record.Location.Latitude, &record.Location.Longitude
	}

	query := `
		INSERT INTO attendance (user_id, date, name, status, latitude, longitude, marked_at)
		VALUES ($1, $2::date, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, date) DO UPDATE SET
			name = EXCLUDED.name,
			status = EXCLUDED.status,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			marked_at = EXCLUDED.marked_at,
			updated_at = NOW()
		RETURNING ` + attendanceColumns

	saved, err := scanAttendance(q.QueryRow(ctx, query,
		record.UserID,
		record.Date,
		record.Name,
		record.Status,
		lat,
		lng,
		record.Timestamp,
	))
	if err != nil {
		return attendance.Record{}, fmt.Errorf("%w: %v", attendance.ErrWriteFailed, err)
	}
	return saved, nil
}

// UpdateStatus implements attendance.AttendanceRepository.
func (a *attendanceRepository) UpdateStatus(ctx context.Context, userID, date string, status attendance.Status) error {
	q := GetQuerier(ctx, a.db)

	tag, err := q.Exec(ctx, `
		UPDATE attendance SET status = $1, updated_at = NOW()
		WHERE user_id = $2 AND date = $3::date
	`, status, userID, date)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// ListByDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByDate(ctx context.Context, date string) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	rows, err := q.Query(ctx, `SELECT `+attendanceColumns+` FROM attendance WHERE date = $1::date ORDER BY marked_at ASC`, date)
	if err != nil {
		return nil, err
	}
	return collectAttendance(rows)
}

// ListByUser implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByUser(ctx context.Context, userID, from, to string) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance
		WHERE user_id = $1 AND date BETWEEN $2::date AND $3::date
		ORDER BY date DESC
	`
	rows, err := q.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	return collectAttendance(rows)
}
