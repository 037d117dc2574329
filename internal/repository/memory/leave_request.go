package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/leave"
	"github.com/google/uuid"
)

type leaveRequestRepository struct {
	db *DB
}

func NewLeaveRequestRepository(db *DB) leave.LeaveRequestRepository {
	return &leaveRequestRepository{db: db}
}

func (r *leaveRequestRepository) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if request.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return leave.LeaveRequest{}, err
		}
		request.ID = id.String()
	}
	now := time.Now().UTC()
	if request.CreatedAt.IsZero() {
		request.CreatedAt = now
	}
	request.UpdatedAt = now
	r.db.leaves[request.ID] = request
	return request, nil
}

func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	req, ok := r.db.leaves[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return req, nil
}

func newestFirst(requests []leave.LeaveRequest) {
	sort.Slice(requests, func(i, j int) bool {
		if requests[i].CreatedAt.Equal(requests[j].CreatedAt) {
			return requests[i].ID > requests[j].ID
		}
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})
}

func (r *leaveRequestRepository) List(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]leave.LeaveRequest, 0)
	for _, req := range r.db.leaves {
		if filter.UserID != nil && req.UserID != *filter.UserID {
			continue
		}
		if filter.Status != nil && req.Status != *filter.Status {
			continue
		}
		out = append(out, req)
	}
	newestFirst(out)
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *leaveRequestRepository) ListApprovedCovering(ctx context.Context, date time.Time) ([]leave.LeaveRequest, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	key := date.Format("2006-01-02")
	out := make([]leave.LeaveRequest, 0)
	for _, req := range r.db.leaves {
		if req.Status == leave.StatusApproved && req.Covers(key) {
			out = append(out, req)
		}
	}
	newestFirst(out)
	return out, nil
}

func (r *leaveRequestRepository) CountByStatus(ctx context.Context, status leave.Status) (int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var n int64
	for _, req := range r.db.leaves {
		if req.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *leaveRequestRepository) UpdateStatus(ctx context.Context, id string, status leave.Status, decidedBy string, decidedAt time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	req, ok := r.db.leaves[id]
	if !ok {
		return leave.ErrLeaveRequestNotFound
	}
	if req.Status != leave.StatusPending {
		return leave.ErrLeaveRequestAlreadyProcessed
	}
	req.Status = status
	req.DecidedBy = &decidedBy
	req.DecidedAt = &decidedAt
	req.UpdatedAt = time.Now().UTC()
	r.db.leaves[id] = req
	return nil
}

func (r *leaveRequestRepository) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.leaves[id]; !ok {
		return leave.ErrLeaveRequestNotFound
	}
	delete(r.db.leaves, id)
	return nil
}
