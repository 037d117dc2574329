package attendance

import "context"

type AttendanceService interface {
	MarkPresent(ctx context.Context, userID string, req MarkPresentRequest) (MarkPresentResponse, error)
	GetToday(ctx context.Context, userID string) (TodayResponse, error)
	ListMine(ctx context.Context, userID string, days int) ([]RecordResponse, error)
	ListByDate(ctx context.Context, req ListByDateRequest) ([]RecordResponse, error)
}
