package user

import "time"

type Role string

const (
	RoleStaff Role = "staff" // Faculty member
	RoleAdmin Role = "admin" // Approves leave, manages the directory
)

func (r Role) IsValid() bool {
	return r == RoleStaff || r == RoleAdmin
}

// User is a principal in the identity store. It carries no directory data;
// name, designation and balances live on the staff profile.
type User struct {
	ID           string
	Email        string
	PasswordHash *string
	GoogleID     *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
