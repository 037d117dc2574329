package leave

import (
	"math"
	"time"

	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/leave"
)

const day = 24 * time.Hour

// CalculateCost returns the number of balance units an approved request uses.
// Permission always costs 1. Date-ranged requests cost the inclusive day count,
// with partial days rounded up.
func CalculateCost(request leave.LeaveRequest) int {
	if request.Type == leave.TypePermission {
		return 1
	}
	if request.StartDate == nil || request.EndDate == nil {
		return 1
	}

	diff := request.EndDate.Sub(*request.StartDate)
	if diff < 0 {
		diff = -diff
	}
	return int(math.Ceil(float64(diff)/float64(day))) + 1
}
