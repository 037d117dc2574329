package attendance

import (
	"time"

	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/pkg/utils"
)

type Status string

const (
	StatusPresent Status = "Present"
	StatusOnLeave Status = "On Leave"
	// StatusAbsent is never stored; it is the absence of a record.
	StatusAbsent Status = "Absent"
)

// Record is the attendance entry keyed by (UserID, Date). Date is "YYYY-MM-DD"
// in the application time zone.
type Record struct {
	UserID    string
	Date      string
	Name      string
	Status    Status
	Location  *utils.Coordinates
	Timestamp time.Time
	UpdatedAt time.Time
}
