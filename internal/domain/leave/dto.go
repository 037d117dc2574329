package leave

import (
	"time"

	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/pkg/validator"
)

type SubmitLeaveRequest struct {
	Type      Type   `json:"type"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	Duration  string `json:"duration,omitempty"`
	Reason    string `json:"reason"`

	// Parsed by Validate
	Start time.Time `json:"-"`
	End   time.Time `json:"-"`
}

func (r *SubmitLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if !r.Type.IsKnown() {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be one of CL, SL, EL, OD, Permission",
		})
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	if r.Type == TypePermission {
		if validator.IsEmpty(r.Duration) {
			errs = append(errs, validator.ValidationError{
				Field:   "duration",
				Message: "duration is required for Permission",
			})
		}
	} else if r.Type.IsKnown() {
		start, startOK := validator.IsValidDate(r.StartDate)
		if !startOK {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
		end, endOK := validator.IsValidDate(r.EndDate)
		if !endOK {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
		if startOK && endOK && end.Before(start) {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must not be before start_date",
			})
		}
		r.Start, r.End = start, end
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListLeaveRequest struct {
	Status string
	UserID string
	Limit  int
}

func (r *ListLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Status != "" && !Status(r.Status).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be Pending, Approved or Rejected",
		})
	}
	if r.Limit < 0 || r.Limit > 500 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be between 0 and 500",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// DecideRequest carries an admin decision. Confirmed records that the admin
// acknowledged the confirmation prompt.
type DecideRequest struct {
	Decision  Status `json:"decision"`
	Confirmed bool   `json:"confirmed"`
}

func (r *DecideRequest) Validate() error {
	if !r.Decision.IsDecision() {
		return validator.ValidationErrors{{
			Field:   "decision",
			Message: "decision must be Approved or Rejected",
		}}
	}
	return nil
}

// DeleteLeaveRequest carries the requester's acknowledgements. Deleting an
// approved request also needs AcknowledgeNoRefund.
type DeleteLeaveRequest struct {
	Confirmed           bool `json:"confirmed"`
	AcknowledgeNoRefund bool `json:"acknowledge_no_refund"`
}

type LeaveRequestResponse struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	UserName        string     `json:"user_name"`
	UserDesignation string     `json:"user_designation"`
	Type            Type       `json:"type"`
	StartDate       *string    `json:"start_date,omitempty"`
	EndDate         *string    `json:"end_date,omitempty"`
	Duration        *string    `json:"duration,omitempty"`
	Reason          string     `json:"reason"`
	Status          Status     `json:"status"`
	AppliedOn       string     `json:"applied_on"`
	DecidedBy       *string    `json:"decided_by,omitempty"`
	DecidedAt       *time.Time `json:"decided_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

func NewLeaveRequestResponse(r LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:              r.ID,
		UserID:          r.UserID,
		UserName:        r.UserName,
		UserDesignation: r.UserDesignation,
		Type:            r.Type,
		Duration:        r.Duration,
		Reason:          r.Reason,
		Status:          r.Status,
		AppliedOn:       r.AppliedOn,
		DecidedBy:       r.DecidedBy,
		DecidedAt:       r.DecidedAt,
		CreatedAt:       r.CreatedAt,
	}
	if r.StartDate != nil {
		s := CalendarDate(*r.StartDate)
		resp.StartDate = &s
	}
	if r.EndDate != nil {
		e := CalendarDate(*r.EndDate)
		resp.EndDate = &e
	}
	return resp
}

func NewLeaveRequestResponses(requests []LeaveRequest) []LeaveRequestResponse {
	out := make([]LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		out = append(out, NewLeaveRequestResponse(r))
	}
	return out
}

type StepState string

const (
	StepSucceeded StepState = "succeeded"
	StepSkipped   StepState = "skipped"
	StepFailed    StepState = "failed"
)

// StepOutcome reports one write of the decision sequence.
type StepOutcome struct {
	State   StepState `json:"state"`
	Message string    `json:"message,omitempty"`
	Err     error     `json:"-"`
}

func Succeeded(message string) StepOutcome {
	return StepOutcome{State: StepSucceeded, Message: message}
}

func Skipped(message string) StepOutcome {
	return StepOutcome{State: StepSkipped, Message: message}
}

func Failed(message string, err error) StepOutcome {
	return StepOutcome{State: StepFailed, Message: message, Err: err}
}

// DecisionResult is returned once the status write has committed. Later steps
// may still have failed; their outcomes say so.
type DecisionResult struct {
	Request          LeaveRequestResponse `json:"request"`
	Cost             *int                 `json:"cost,omitempty"`
	RemainingBalance *int                 `json:"remaining_balance,omitempty"`
	Status           StepOutcome          `json:"status"`
	Balance          StepOutcome          `json:"balance"`
	Attendance       StepOutcome          `json:"attendance"`
}

// Partial reports whether the status committed but a follow-up step failed.
func (r DecisionResult) Partial() bool {
	return r.Balance.State == StepFailed || r.Attendance.State == StepFailed
}
