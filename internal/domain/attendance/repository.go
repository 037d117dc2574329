package attendance

import (
	"context"
)

type AttendanceRepository interface {
	// Get returns the record for (userID, date) or ErrAttendanceNotFound.
	Get(ctx context.Context, userID, date string) (Record, error)
	// Put writes the record keyed by (UserID, Date), overwriting any existing one.
	Put(ctx context.Context, record Record) (Record, error)
	UpdateStatus(ctx context.Context, userID, date string, status Status) error
	ListByDate(ctx context.Context, date string) ([]Record, error)
	// ListByUser returns the user's records with from <= date <= to, newest first.
	ListByUser(ctx context.Context, userID, from, to string) ([]Record, error)
}
