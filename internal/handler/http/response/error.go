package response

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Distance travels with the geofence rejection so the device can show it
	var geofenceErr *attendance.OutsideGeofenceError
	if errors.As(err, &geofenceErr) {
		writeJSON(w, http.StatusForbidden, Response{
			Success: false,
			Error: &ErrorDetail{
				Code:    "OUTSIDE_GEOFENCE",
				Message: geofenceErr.Error(),
				Details: map[string]string{
					"distance_meters": strconv.Itoa(int(geofenceErr.Distance + 0.5)),
					"radius_meters":   strconv.Itoa(int(geofenceErr.Radius)),
				},
			},
		})
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrRefreshTokenNotFound):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrRefreshTokenCookieNotFound),
		errors.Is(err, auth.ErrRefreshTokenCookieEmpty):
		Unauthorized(w, "Refresh token missing")
	case errors.Is(err, auth.ErrProfileMissing):
		Forbidden(w, err.Error())
	case errors.Is(err, auth.ErrEmailAlreadyRegistered),
		errors.Is(err, staff.ErrEmailAlreadyRegistered):
		Conflict(w, "Email already registered")
	case errors.Is(err, auth.ErrResetTokenInvalid):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, auth.ErrResetDeliveryFailed):
		InternalServerError(w, "Failed to send password reset email")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrAdminPrivilegeRequired),
		errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, err.Error())

	// Staff domain errors
	case errors.Is(err, staff.ErrStaffNotFound):
		NotFound(w, "Staff profile not found")
	case errors.Is(err, staff.ErrStaffAlreadyExists):
		Conflict(w, "Staff profile already exists")
	case errors.Is(err, staff.ErrProfileWriteFailed):
		InternalServerError(w, err.Error())
	case errors.Is(err, staff.ErrCannotDeleteSelf):
		Forbidden(w, err.Error())

	// Attendance domain errors
	case errors.Is(err, attendance.ErrGeolocationUnavailable):
		BadRequest(w, "Geolocation is not available", nil)
	case errors.Is(err, attendance.ErrAlreadyMarked):
		Conflict(w, "Attendance already marked for today")
	case errors.Is(err, attendance.ErrWriteFailed):
		InternalServerError(w, "Failed to save attendance")
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrInvalidStatus):
		BadRequest(w, err.Error(), nil)

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed):
		Conflict(w, "Leave request already processed")
	case errors.Is(err, leave.ErrUnknownLeaveType),
		errors.Is(err, leave.ErrInvalidDecision):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, leave.ErrDeletionWithoutRefund):
		Conflict(w, err.Error())
	case errors.Is(err, leave.ErrNotRequestOwner):
		Forbidden(w, err.Error())
	case errors.Is(err, leave.ErrRequesterProfileNotFound):
		NotFound(w, "Requester profile not found")

	// Confirmation gates
	case errors.Is(err, leave.ErrConfirmationRequired),
		errors.Is(err, staff.ErrConfirmationRequired):
		PreconditionRequired(w, "This action requires confirmation")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
