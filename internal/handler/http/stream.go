package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/pkg/sse"
)

const streamPingInterval = 30 * time.Second

// StreamHandler serves live result sets over SSE. Every change notice on the
// watched store re-sends the complete result set as a snapshot event.
type StreamHandler interface {
	Leaves(w http.ResponseWriter, r *http.Request)
	Attendance(w http.ResponseWriter, r *http.Request)
	Profile(w http.ResponseWriter, r *http.Request)
}

type streamHandlerImpl struct {
	jwtService        jwt.Service
	subscriber        sse.Subscriber
	leaveService      leave.LeaveService
	attendanceService attendance.AttendanceService
	staffService      staff.StaffService
}

func NewStreamHandler(
	jwtService jwt.Service,
	subscriber sse.Subscriber,
	leaveService leave.LeaveService,
	attendanceService attendance.AttendanceService,
	staffService staff.StaffService,
) StreamHandler {
	return &streamHandlerImpl{
		jwtService:        jwtService,
		subscriber:        subscriber,
		leaveService:      leaveService,
		attendanceService: attendanceService,
		staffService:      staffService,
	}
}

// Leaves streams every request to admins and the caller's own requests to staff.
func (h *streamHandlerImpl) Leaves(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, sse.TopicLeaves, func(userID string, role user.Role) sse.SnapshotFunc {
		if role == user.RoleAdmin {
			return func(ctx context.Context) (interface{}, error) {
				return h.leaveService.List(ctx, leave.ListLeaveRequest{})
			}
		}
		return func(ctx context.Context) (interface{}, error) {
			return h.leaveService.ListMine(ctx, userID)
		}
	})
}

// Attendance streams today's register to admins and the caller's history to staff.
func (h *streamHandlerImpl) Attendance(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, sse.TopicAttendance, func(userID string, role user.Role) sse.SnapshotFunc {
		if role == user.RoleAdmin {
			return func(ctx context.Context) (interface{}, error) {
				return h.attendanceService.ListByDate(ctx, attendance.ListByDateRequest{})
			}
		}
		return func(ctx context.Context) (interface{}, error) {
			return h.attendanceService.ListMine(ctx, userID, 0)
		}
	})
}

// Profile streams the caller's own profile and balances.
func (h *streamHandlerImpl) Profile(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, sse.TopicStaff, func(userID string, _ user.Role) sse.SnapshotFunc {
		return func(ctx context.Context) (interface{}, error) {
			return h.staffService.GetMyProfile(ctx, userID)
		}
	})
}

func (h *streamHandlerImpl) serve(w http.ResponseWriter, r *http.Request, topic string, query func(userID string, role user.Role) sse.SnapshotFunc) {
	// Get token from query parameter (SSE doesn't support custom headers)
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}

	userID, role, err := h.jwtService.ValidateStreamToken(tokenStr)
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	snapshots := sse.Watch(ctx, h.subscriber, []string{topic}, query(userID, role))

	keepalive := time.NewTicker(streamPingInterval)
	defer keepalive.Stop()

	slog.Debug("Stream opened", "topic", topic, "user_id", userID)
	defer slog.Debug("Stream closed", "topic", topic, "user_id", userID)

	for {
		select {
		case snapshot, ok := <-snapshots:
			if !ok {
				return
			}
			if snapshot.Err != nil {
				slog.Error("Stream snapshot failed", "topic", topic, "user_id", userID, "error", snapshot.Err)
				writeEvent(w, "error", map[string]string{"message": "Failed to load data"})
				flusher.Flush()
				return
			}
			writeEvent(w, "snapshot", snapshot.Data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-ctx.Done():
			return
		}
	}
}

func writeEvent(w http.ResponseWriter, event string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		slog.Error("Failed to encode stream event", "event", event, "error", err)
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload)
}
