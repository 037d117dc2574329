package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/attendance"
)

type attendanceRepository struct {
	db *DB
}

func NewAttendanceRepository(db *DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) Get(ctx context.Context, userID, date string) (attendance.Record, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	rec, ok := r.db.attendance[attendanceKey{userID, date}]
	if !ok {
		return attendance.Record{}, attendance.ErrAttendanceNotFound
	}
	return rec, nil
}

func (r *attendanceRepository) Put(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	record.UpdatedAt = time.Now().UTC()
	r.db.attendance[attendanceKey{record.UserID, record.Date}] = record
	return record, nil
}

func (r *attendanceRepository) UpdateStatus(ctx context.Context, userID, date string, status attendance.Status) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	key := attendanceKey{userID, date}
	rec, ok := r.db.attendance[key]
	if !ok {
		return attendance.ErrAttendanceNotFound
	}
	rec.Status = status
	rec.UpdatedAt = time.Now().UTC()
	r.db.attendance[key] = rec
	return nil
}

func (r *attendanceRepository) ListByDate(ctx context.Context, date string) ([]attendance.Record, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]attendance.Record, 0)
	for key, rec := range r.db.attendance {
		if key.date == date {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (r *attendanceRepository) ListByUser(ctx context.Context, userID, from, to string) ([]attendance.Record, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]attendance.Record, 0)
	for key, rec := range r.db.attendance {
		if key.userID == userID && key.date >= from && key.date <= to {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}
