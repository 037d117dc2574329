package leave

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Type is a leave-type code. The set of codes is closed.
type Type string

const (
	TypeCasual     Type = "CL"
	TypeSick       Type = "SL"
	TypeEarned     Type = "EL"
	TypeOnDuty     Type = "OD"
	TypePermission Type = "Permission"
)

// Types lists every known leave-type code in display order.
var Types = []Type{TypeCasual, TypeSick, TypeEarned, TypeOnDuty, TypePermission}

// IsKnown reports whether t is one of the five balance keys.
func (t Type) IsKnown() bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}
	return false
}

// IsDateRanged reports whether requests of this type carry a start/end date.
func (t Type) IsDateRanged() bool {
	return t != TypePermission
}

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

func (s Status) IsValid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// IsDecision reports whether s is a terminal status an admin can set.
func (s Status) IsDecision() bool {
	return s == StatusApproved || s == StatusRejected
}

// Balances maps a leave-type code to the remaining count. Values are signed;
// deductions are never floored at zero.
type Balances map[Type]int

// DefaultBalances returns the balances granted to a newly provisioned staff member.
func DefaultBalances() Balances {
	return Balances{
		TypeCasual:     12,
		TypeSick:       5,
		TypeEarned:     0,
		TypeOnDuty:     10,
		TypePermission: 2,
	}
}

// Get returns the balance for t, 0 when the key is absent.
func (b Balances) Get(t Type) int {
	if b == nil {
		return 0
	}
	return b[t]
}

// Normalized returns a copy carrying every known key, missing keys set to 0.
// Unknown keys are dropped.
func (b Balances) Normalized() Balances {
	out := make(Balances, len(Types))
	for _, t := range Types {
		out[t] = b.Get(t)
	}
	return out
}

// Value implements driver.Valuer for the JSONB column
func (b Balances) Value() (driver.Value, error) {
	if b == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(b)
}

// Scan implements sql.Scanner for the JSONB column
func (b *Balances) Scan(value interface{}) error {
	if value == nil {
		*b = Balances{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(raw, b)
}

// LeaveRequest entity. UserName and UserDesignation are copied from the
// requester's profile at submission and are not kept in sync afterwards.
type LeaveRequest struct {
	ID              string
	UserID          string
	UserName        string
	UserDesignation string
	Type            Type

	// Date-ranged types. Calendar dates held as midnight UTC.
	StartDate *time.Time
	EndDate   *time.Time

	// Permission
	Duration *string

	Reason    string
	Status    Status
	AppliedOn string

	DecidedBy *string
	DecidedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Covers reports whether the calendar date key falls within [StartDate, EndDate].
// Permission requests never cover a date.
func (r *LeaveRequest) Covers(date string) bool {
	if !r.Type.IsDateRanged() || r.StartDate == nil || r.EndDate == nil {
		return false
	}
	return CalendarDate(*r.StartDate) <= date && date <= CalendarDate(*r.EndDate)
}

// CalendarDate formats a leave date as "YYYY-MM-DD". Leave dates are read in
// UTC whatever location the value carries.
func CalendarDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
