package leave

import "errors"

var (
	ErrLeaveRequestNotFound         = errors.New("leave request not found")
	ErrLeaveRequestAlreadyProcessed = errors.New("leave request already processed")
	ErrUnknownLeaveType             = errors.New("unknown leave type")
	ErrInvalidDecision              = errors.New("decision must be Approved or Rejected")
	ErrConfirmationRequired         = errors.New("action requires confirmation")
	ErrDeletionWithoutRefund        = errors.New("Deleting this won't refund your balance")
	ErrNotRequestOwner              = errors.New("only the requester can delete this leave request")
	ErrRequesterProfileNotFound     = errors.New("requester profile not found")
)
