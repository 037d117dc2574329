package staff

import (
	"time"

	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/user"
)

type EmploymentType string

const (
	EmploymentTeaching    EmploymentType = "Teaching"
	EmploymentNonTeaching EmploymentType = "Non-Teaching"
)

func (e EmploymentType) IsValid() bool {
	return e == EmploymentTeaching || e == EmploymentNonTeaching
}

// StaffProfile is the directory record of a faculty member or admin. Its ID
// is the principal ID of the matching identity account.
type StaffProfile struct {
	ID             string
	Name           string
	Email          string
	Designation    string
	EmploymentType EmploymentType
	Role           user.Role
	LeaveBalances  leave.Balances
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
